// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"errors"
	"fmt"
	"math"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	log "github.com/inconshreveable/log15"
)

// Engine owns the lifecycle of kitties: creation, breeding, transfer, sale,
// bidding and settlement.
//
// Every operation checks all of its preconditions before it writes, so a
// rejected call leaves the state and the ledger untouched. Operations that
// fail half way through because the database or ledger errored are expected
// to be rolled back by the caller.
//
// Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	state  State
	ledger Ledger
	random RandomSource
	events EventSink
	log    log.Logger
}

// New returns an engine storing its state in [db].
// [events] may be nil.
func New(db database.Database, ledger Ledger, random RandomSource, events EventSink, cfg Config) *Engine {
	if events == nil {
		events = noopSink{}
	}
	return &Engine{
		cfg:    cfg,
		state:  NewState(db),
		ledger: ledger,
		random: random,
		events: events,
		log:    log.New("module", "kitties"),
	}
}

// Mint creates a kitty with random DNA owned by [creator]
func (e *Engine) Mint(creator ids.ShortID, price uint64) (uint32, error) {
	id, err := e.nextID()
	if err != nil {
		return 0, err
	}
	dna, err := e.randomDNA(creator)
	if err != nil {
		return 0, err
	}
	if err := e.reserveDeposit(creator); err != nil {
		return 0, err
	}
	if err := e.insert(creator, id, &Kitty{DNA: dna, Price: price}); err != nil {
		return 0, err
	}
	return id, nil
}

// Import creates a kitty with the given DNA. It is used to load genesis.
func (e *Engine) Import(owner ids.ShortID, dna DNA, price uint64) (uint32, error) {
	id, err := e.nextID()
	if err != nil {
		return 0, err
	}
	if err := e.reserveDeposit(owner); err != nil {
		return 0, err
	}
	if err := e.insert(owner, id, &Kitty{DNA: dna, Price: price}); err != nil {
		return 0, err
	}
	return id, nil
}

// Breed creates a child of [mother] and [father] owned by [caller].
//
// Each bit of the child's DNA is taken from [mother] or [father] according to
// a freshly derived selector.
func (e *Engine) Breed(caller ids.ShortID, mother, father uint32, price uint64) (uint32, error) {
	if mother == father {
		return 0, ErrSameParent
	}
	motherKitty, motherOwner, err := e.kittyAndOwner(mother)
	if err != nil {
		return 0, err
	}
	fatherKitty, fatherOwner, err := e.kittyAndOwner(father)
	if err != nil {
		return 0, err
	}

	// the owner that has to be paid for the use of their kitty, if any
	feeRecipient := ids.ShortEmpty
	switch e.cfg.BreedPolicy {
	case BreedRequireBoth:
		if motherOwner != caller || fatherOwner != caller {
			return 0, ErrNotOwner
		}
	default:
		switch caller {
		case motherOwner:
			if fatherOwner != caller {
				feeRecipient = fatherOwner
			}
		case fatherOwner:
			feeRecipient = motherOwner
		default:
			return 0, ErrNotOwner
		}
	}

	for _, parent := range []uint32{mother, father} {
		listed, err := e.isListed(parent)
		if err != nil {
			return 0, err
		}
		if listed {
			return 0, fmt.Errorf("%w: parent %d", ErrAlreadyOnSale, parent)
		}
	}

	if e.cfg.TraitCompatibility && !compatible(motherKitty.DNA, fatherKitty.DNA) {
		return 0, ErrIncompatibleParents
	}

	id, err := e.nextID()
	if err != nil {
		return 0, err
	}
	selector, err := e.randomDNA(caller)
	if err != nil {
		return 0, err
	}

	if err := e.reserveDeposit(caller); err != nil {
		return 0, err
	}
	if feeRecipient != ids.ShortEmpty && e.cfg.BreedFee > 0 {
		if err := e.ledger.Transfer(caller, feeRecipient, e.cfg.BreedFee, true); err != nil {
			if releaseErr := e.releaseDeposit(caller); releaseErr != nil {
				return 0, releaseErr
			}
			return 0, fmt.Errorf("couldn't pay breed fee: %w", err)
		}
	}

	child := &Kitty{
		DNA:   mixDNA(motherKitty.DNA, fatherKitty.DNA, selector),
		Price: price,
	}
	if err := e.insert(caller, id, child); err != nil {
		return 0, err
	}
	e.events.Emit(Event{
		Type:    KittyBred,
		KittyID: id,
		Account: caller,
		DNA:     child.DNA,
		Parents: [2]uint32{mother, father},
		Block:   e.ledger.CurrentBlock(),
	})
	return id, nil
}

// Transfer gives kitty [id] to [to]
func (e *Engine) Transfer(caller ids.ShortID, id uint32, to ids.ShortID) error {
	owner, err := e.ownerOf(id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	if to == caller {
		return ErrTransferToSelf
	}

	listing, err := e.listing(id)
	if err != nil {
		return err
	}
	if listing != nil && e.cfg.TransferPolicy != TransferCancelListing {
		return ErrAlreadyOnSale
	}

	if err := e.reserveDeposit(to); err != nil {
		return err
	}
	if listing != nil {
		if err := e.cancelListing(id, owner, listing); err != nil {
			return err
		}
	}
	if err := e.releaseDeposit(caller); err != nil {
		return err
	}
	if err := e.state.SetOwner(id, caller, to); err != nil {
		return err
	}

	e.events.Emit(Event{
		Type:         KittyTransferred,
		KittyID:      id,
		Account:      caller,
		Counterparty: to,
		Block:        e.ledger.CurrentBlock(),
	})
	return nil
}

// ListForSale puts kitty [id] up for auction until block [target]. Bids must
// be above [floor].
func (e *Engine) ListForSale(caller ids.ShortID, id uint32, target, floor uint64) error {
	owner, err := e.ownerOf(id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	height := e.ledger.CurrentBlock()
	if target <= height {
		return fmt.Errorf("%w: target %d, current %d", ErrTargetBlockTooSmall, target, height)
	}
	listed, err := e.isListed(id)
	if err != nil {
		return err
	}
	if listed {
		return ErrAlreadyOnSale
	}

	if err := e.state.PutListing(id, &Listing{Target: target, Floor: floor}); err != nil {
		return err
	}
	e.events.Emit(Event{
		Type:    KittyListed,
		KittyID: id,
		Account: caller,
		Amount:  floor,
		Target:  target,
		Block:   height,
	})
	return nil
}

// Delist withdraws kitty [id] from sale and refunds the best bidder
func (e *Engine) Delist(caller ids.ShortID, id uint32) error {
	owner, err := e.ownerOf(id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	listing, err := e.listing(id)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrNotOnSale
	}
	return e.cancelListing(id, owner, listing)
}

// Bid offers [amount] for kitty [id]. The amount is reserved from [bidder]
// and the previous best bidder is refunded.
func (e *Engine) Bid(bidder ids.ShortID, id uint32, amount uint64) error {
	listing, err := e.listing(id)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrNotOnSale
	}
	if height := e.ledger.CurrentBlock(); height >= listing.Target {
		return fmt.Errorf("%w: target %d, current %d", ErrSaleExpired, listing.Target, height)
	}
	owner, err := e.ownerOf(id)
	if err != nil {
		return err
	}
	if bidder == owner {
		return ErrBidderIsOwner
	}

	prev, err := e.highestBid(id)
	if err != nil {
		return err
	}
	best := listing.Floor
	if prev != nil {
		best = prev.Amount
	}
	if amount <= best {
		return fmt.Errorf("%w: offered %d, best %d", ErrPriceTooLow, amount, best)
	}

	switch {
	case prev != nil && prev.Bidder == bidder:
		// raising your own bid only locks the difference
		if err := e.ledger.Reserve(bidder, amount-prev.Amount); err != nil {
			return fmt.Errorf("%w: %s", ErrInsufficientBalance, err)
		}
	default:
		if err := e.ledger.Reserve(bidder, amount); err != nil {
			return fmt.Errorf("%w: %s", ErrInsufficientBalance, err)
		}
		if prev != nil {
			if err := e.ledger.Unreserve(prev.Bidder, prev.Amount); err != nil {
				return err
			}
		}
	}

	if err := e.state.PutBid(id, &Bid{Bidder: bidder, Amount: amount}); err != nil {
		return err
	}
	e.events.Emit(Event{
		Type:    KittyBid,
		KittyID: id,
		Account: bidder,
		Amount:  amount,
		Block:   e.ledger.CurrentBlock(),
	})
	return nil
}

// nextID returns the id the next kitty will get without allocating it
func (e *Engine) nextID() (uint32, error) {
	id, err := e.state.NextKittyID()
	if err != nil {
		return 0, err
	}
	if id == math.MaxUint32 {
		return 0, ErrIDOverflow
	}
	return id, nil
}

func (e *Engine) randomDNA(account ids.ShortID) (DNA, error) {
	nonce, err := e.ledger.AccountNonce(account)
	if err != nil {
		return DNA{}, err
	}
	return deriveDNA(e.random.RandomSeed(), account, e.ledger.CurrentBlock(), nonce), nil
}

// insert stores a new kitty and allocates [id]. The deposit must already be
// reserved.
func (e *Engine) insert(owner ids.ShortID, id uint32, kitty *Kitty) error {
	if err := e.state.PutKitty(id, kitty); err != nil {
		return err
	}
	if err := e.state.SetOwner(id, ids.ShortEmpty, owner); err != nil {
		return err
	}
	if err := e.state.SetNextKittyID(id + 1); err != nil {
		return err
	}

	e.log.Debug("kitty created", "id", id, "owner", owner, "dna", kitty.DNA)
	e.events.Emit(Event{
		Type:    KittyCreated,
		KittyID: id,
		Account: owner,
		Amount:  kitty.Price,
		DNA:     kitty.DNA,
		Block:   e.ledger.CurrentBlock(),
	})
	return nil
}

func (e *Engine) reserveDeposit(account ids.ShortID) error {
	if e.cfg.KittyDeposit == 0 {
		return nil
	}
	if err := e.ledger.Reserve(account, e.cfg.KittyDeposit); err != nil {
		return fmt.Errorf("%w: %s", ErrInsufficientStake, err)
	}
	return nil
}

func (e *Engine) releaseDeposit(account ids.ShortID) error {
	if e.cfg.KittyDeposit == 0 {
		return nil
	}
	return e.ledger.Unreserve(account, e.cfg.KittyDeposit)
}

// cancelListing refunds the best bidder and removes the listing of [id]
func (e *Engine) cancelListing(id uint32, owner ids.ShortID, listing *Listing) error {
	bid, err := e.highestBid(id)
	if err != nil {
		return err
	}
	if bid != nil {
		if err := e.ledger.Unreserve(bid.Bidder, bid.Amount); err != nil {
			return err
		}
	}
	if err := e.state.DeleteListing(id, listing); err != nil {
		return err
	}
	e.events.Emit(Event{
		Type:    ListingCancelled,
		KittyID: id,
		Account: owner,
		Block:   e.ledger.CurrentBlock(),
	})
	return nil
}

func (e *Engine) ownerOf(id uint32) (ids.ShortID, error) {
	owner, err := e.state.GetOwner(id)
	if errors.Is(err, database.ErrNotFound) {
		return ids.ShortEmpty, fmt.Errorf("%w: %d", ErrInvalidKittyID, id)
	}
	return owner, err
}

func (e *Engine) kittyAndOwner(id uint32) (*Kitty, ids.ShortID, error) {
	owner, err := e.ownerOf(id)
	if err != nil {
		return nil, ids.ShortEmpty, err
	}
	kitty, err := e.state.GetKitty(id)
	if err != nil {
		return nil, ids.ShortEmpty, fmt.Errorf("couldn't get kitty %d: %w", id, err)
	}
	return kitty, owner, nil
}

// listing returns nil if [id] isn't listed
func (e *Engine) listing(id uint32) (*Listing, error) {
	listing, err := e.state.GetListing(id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return listing, err
}

func (e *Engine) isListed(id uint32) (bool, error) {
	listing, err := e.listing(id)
	return listing != nil, err
}

// highestBid returns nil if nobody bid on [id]
func (e *Engine) highestBid(id uint32) (*Bid, error) {
	bid, err := e.state.GetBid(id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return bid, err
}
