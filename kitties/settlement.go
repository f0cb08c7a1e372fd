// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"sort"

	"github.com/ava-labs/avalanchego/ids"
)

// OnTick settles every listing whose target is [height] and retries the
// settlements that were deferred on earlier ticks.
//
// A listing without a bid simply expires. A listing with a bid moves the
// funds to the seller and the kitty to the bidder, or, if the ledger refuses
// the funds, is kept and retried on the next tick. Settled listings are
// removed, so running OnTick twice for the same height is a no-op.
//
// Only database failures are returned.
func (e *Engine) OnTick(height uint64) error {
	maturing, err := e.state.MaturingAt(height)
	if err != nil {
		return err
	}
	deferred, err := e.state.Deferred()
	if err != nil {
		return err
	}

	kitties := append(maturing, deferred...)
	sort.Slice(kitties, func(i, j int) bool { return kitties[i] < kitties[j] })
	for i, id := range kitties {
		if i > 0 && kitties[i-1] == id {
			continue
		}
		if err := e.settle(id, height); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) settle(id uint32, height uint64) error {
	listing, err := e.listing(id)
	if err != nil {
		return err
	}
	if listing == nil || height < listing.Target {
		return nil
	}
	seller, err := e.ownerOf(id)
	if err != nil {
		return err
	}
	bid, err := e.highestBid(id)
	if err != nil {
		return err
	}

	if bid == nil {
		if err := e.state.DeleteListing(id, listing); err != nil {
			return err
		}
		e.log.Debug("listing expired without bids", "id", id, "height", height)
		e.events.Emit(Event{
			Type:    ListingExpired,
			KittyID: id,
			Account: seller,
			Target:  listing.Target,
			Block:   height,
		})
		return nil
	}

	if reason := e.pay(seller, bid); reason != nil {
		e.log.Warn("deferring settlement",
			"id", id,
			"height", height,
			"seller", seller,
			"buyer", bid.Bidder,
			"amount", bid.Amount,
			"reason", reason,
		)
		if !listing.Pending {
			listing.Pending = true
			if err := e.state.PutListing(id, listing); err != nil {
				return err
			}
			if err := e.state.Defer(id); err != nil {
				return err
			}
		}
		e.events.Emit(Event{
			Type:         SettlementDeferred,
			KittyID:      id,
			Account:      seller,
			Counterparty: bid.Bidder,
			Amount:       bid.Amount,
			Target:       listing.Target,
			Block:        height,
			Reason:       reason.Error(),
		})
		return nil
	}

	if err := e.releaseDeposit(seller); err != nil {
		return err
	}
	if err := e.state.SetOwner(id, seller, bid.Bidder); err != nil {
		return err
	}
	if err := e.state.DeleteListing(id, listing); err != nil {
		return err
	}
	e.log.Info("kitty sold", "id", id, "height", height, "buyer", bid.Bidder, "amount", bid.Amount)
	e.events.Emit(Event{
		Type:         KittySold,
		KittyID:      id,
		Account:      seller,
		Counterparty: bid.Bidder,
		Amount:       bid.Amount,
		Target:       listing.Target,
		Block:        height,
	})
	return nil
}

// pay moves the escrowed bid to [seller] and reserves the kitty deposit from
// the bidder. If the ledger refuses any step the earlier steps are undone
// using only the funds they freed, and the refusal is returned.
func (e *Engine) pay(seller ids.ShortID, bid *Bid) error {
	if err := e.reserveDeposit(bid.Bidder); err != nil {
		return err
	}
	if err := e.ledger.Unreserve(bid.Bidder, bid.Amount); err != nil {
		e.undo(e.releaseDeposit(bid.Bidder))
		return err
	}
	if err := e.ledger.Transfer(bid.Bidder, seller, bid.Amount, true); err != nil {
		e.undo(e.ledger.Reserve(bid.Bidder, bid.Amount))
		e.undo(e.releaseDeposit(bid.Bidder))
		return err
	}
	return nil
}

// undo logs a failed compensation. The funds it concerns were freed by the
// same settlement, so this only fires if the ledger itself is broken.
func (e *Engine) undo(err error) {
	if err != nil {
		e.log.Error("couldn't undo partial settlement", "error", err)
	}
}
