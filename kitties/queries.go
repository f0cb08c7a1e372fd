// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

// Kitty returns kitty [id] and its owner
func (e *Engine) Kitty(id uint32) (*Kitty, ids.ShortID, error) {
	return e.kittyAndOwner(id)
}

// Owner returns the owner of kitty [id]
func (e *Engine) Owner(id uint32) (ids.ShortID, error) {
	return e.ownerOf(id)
}

// Listing returns the listing of kitty [id] or nil if it isn't on sale
func (e *Engine) Listing(id uint32) (*Listing, error) {
	if _, err := e.ownerOf(id); err != nil {
		return nil, err
	}
	return e.listing(id)
}

// HighestBid returns the best bid on kitty [id] or nil if there is none
func (e *Engine) HighestBid(id uint32) (*Bid, error) {
	return e.highestBid(id)
}

// NextKittyID returns the id the next created kitty will get
func (e *Engine) NextKittyID() (uint32, error) {
	return e.state.NextKittyID()
}

// KittiesOf returns the kitties owned by [owner] in id order
func (e *Engine) KittiesOf(owner ids.ShortID) ([]uint32, error) {
	return e.state.KittiesOf(owner)
}

// Listings returns every kitty currently on sale in id order
func (e *Engine) Listings() ([]uint32, error) {
	return e.state.ListedKitties()
}

// CheckInvariants verifies that every kitty below the id counter has exactly
// one owner and that every listing has a target. It walks the whole state and
// is meant for tests and diagnostics.
func (e *Engine) CheckInvariants() error {
	next, err := e.state.NextKittyID()
	if err != nil {
		return err
	}
	for id := uint32(0); id < next; id++ {
		if _, _, err := e.kittyAndOwner(id); err != nil {
			return fmt.Errorf("kitty %d: %w", id, err)
		}
	}
	if _, err := e.state.GetOwner(next); !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("kitty %d is owned before being created", next)
	}

	listed, err := e.state.ListedKitties()
	if err != nil {
		return err
	}
	for _, id := range listed {
		if id >= next {
			return fmt.Errorf("listing for unknown kitty %d", id)
		}
		listing, err := e.state.GetListing(id)
		if err != nil {
			return err
		}
		if listing.Target == 0 {
			return fmt.Errorf("listing for kitty %d has no target", id)
		}
	}
	return nil
}
