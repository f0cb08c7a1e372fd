// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittiesvm/kitties"
)

var (
	_ Action = (*MintAction)(nil)
	_ Action = (*BreedAction)(nil)
	_ Action = (*TransferAction)(nil)
	_ Action = (*ListAction)(nil)
	_ Action = (*DelistAction)(nil)
	_ Action = (*BidAction)(nil)
)

// Action is the operation a transaction asks the engine to perform
type Action interface {
	// Name is used in logs and metrics
	Name() string
	Execute(e *kitties.Engine, sender ids.ShortID) error
}

type MintAction struct {
	Price uint64 `serialize:"true" json:"price"`
}

func (*MintAction) Name() string { return "mint" }

func (a *MintAction) Execute(e *kitties.Engine, sender ids.ShortID) error {
	_, err := e.Mint(sender, a.Price)
	return err
}

type BreedAction struct {
	Mother uint32 `serialize:"true" json:"mother"`
	Father uint32 `serialize:"true" json:"father"`
	Price  uint64 `serialize:"true" json:"price"`
}

func (*BreedAction) Name() string { return "breed" }

func (a *BreedAction) Execute(e *kitties.Engine, sender ids.ShortID) error {
	_, err := e.Breed(sender, a.Mother, a.Father, a.Price)
	return err
}

type TransferAction struct {
	KittyID uint32      `serialize:"true" json:"kittyID"`
	To      ids.ShortID `serialize:"true" json:"to"`
}

func (*TransferAction) Name() string { return "transfer" }

func (a *TransferAction) Execute(e *kitties.Engine, sender ids.ShortID) error {
	return e.Transfer(sender, a.KittyID, a.To)
}

type ListAction struct {
	KittyID uint32 `serialize:"true" json:"kittyID"`
	Target  uint64 `serialize:"true" json:"target"`
	Floor   uint64 `serialize:"true" json:"floor"`
}

func (*ListAction) Name() string { return "listForSale" }

func (a *ListAction) Execute(e *kitties.Engine, sender ids.ShortID) error {
	return e.ListForSale(sender, a.KittyID, a.Target, a.Floor)
}

type DelistAction struct {
	KittyID uint32 `serialize:"true" json:"kittyID"`
}

func (*DelistAction) Name() string { return "delist" }

func (a *DelistAction) Execute(e *kitties.Engine, sender ids.ShortID) error {
	return e.Delist(sender, a.KittyID)
}

type BidAction struct {
	KittyID uint32 `serialize:"true" json:"kittyID"`
	Amount  uint64 `serialize:"true" json:"amount"`
}

func (*BidAction) Name() string { return "bid" }

func (a *BidAction) Execute(e *kitties.Engine, sender ids.ShortID) error {
	return e.Bid(sender, a.KittyID, a.Amount)
}
