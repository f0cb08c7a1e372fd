// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/go-playground/validator/v10"

	"github.com/ava-labs/kittiesvm/kitties"
)

var errNoSuchBlock = errors.New("couldn't get block from database. Does it exist?")

// Service is the API service for this VM
type Service struct {
	vm       *VM
	validate *validator.Validate
}

func NewService(vm *VM) *Service {
	return &Service{
		vm:       vm,
		validate: validator.New(),
	}
}

// TxReply is the reply of every call that submits a transaction
type TxReply struct {
	TxID ids.ID `json:"txID"`
}

// MintArgs are the arguments to Mint
type MintArgs struct {
	Sender ids.ShortID `json:"sender" validate:"required"`
	Price  json.Uint64 `json:"price"`
}

// Mint submits a transaction creating a kitty with random DNA
func (s *Service) Mint(_ *http.Request, args *MintArgs, reply *TxReply) error {
	return s.submit(args, args.Sender, &MintAction{Price: uint64(args.Price)}, reply)
}

// BreedArgs are the arguments to Breed
type BreedArgs struct {
	Sender ids.ShortID `json:"sender" validate:"required"`
	Mother json.Uint32 `json:"mother"`
	Father json.Uint32 `json:"father"`
	Price  json.Uint64 `json:"price"`
}

// Breed submits a transaction breeding [args.Mother] with [args.Father]
func (s *Service) Breed(_ *http.Request, args *BreedArgs, reply *TxReply) error {
	return s.submit(args, args.Sender, &BreedAction{
		Mother: uint32(args.Mother),
		Father: uint32(args.Father),
		Price:  uint64(args.Price),
	}, reply)
}

// TransferArgs are the arguments to Transfer
type TransferArgs struct {
	Sender  ids.ShortID `json:"sender" validate:"required"`
	KittyID json.Uint32 `json:"kittyID"`
	To      ids.ShortID `json:"to" validate:"required"`
}

func (s *Service) Transfer(_ *http.Request, args *TransferArgs, reply *TxReply) error {
	return s.submit(args, args.Sender, &TransferAction{
		KittyID: uint32(args.KittyID),
		To:      args.To,
	}, reply)
}

// ListForSaleArgs are the arguments to ListForSale
type ListForSaleArgs struct {
	Sender  ids.ShortID `json:"sender" validate:"required"`
	KittyID json.Uint32 `json:"kittyID"`
	// Target is the height at which the auction settles
	Target json.Uint64 `json:"target" validate:"gt=0"`
	Floor  json.Uint64 `json:"floor"`
}

func (s *Service) ListForSale(_ *http.Request, args *ListForSaleArgs, reply *TxReply) error {
	return s.submit(args, args.Sender, &ListAction{
		KittyID: uint32(args.KittyID),
		Target:  uint64(args.Target),
		Floor:   uint64(args.Floor),
	}, reply)
}

// DelistArgs are the arguments to Delist
type DelistArgs struct {
	Sender  ids.ShortID `json:"sender" validate:"required"`
	KittyID json.Uint32 `json:"kittyID"`
}

func (s *Service) Delist(_ *http.Request, args *DelistArgs, reply *TxReply) error {
	return s.submit(args, args.Sender, &DelistAction{KittyID: uint32(args.KittyID)}, reply)
}

// BidArgs are the arguments to Bid
type BidArgs struct {
	Sender  ids.ShortID `json:"sender" validate:"required"`
	KittyID json.Uint32 `json:"kittyID"`
	Amount  json.Uint64 `json:"amount" validate:"gt=0"`
}

func (s *Service) Bid(_ *http.Request, args *BidArgs, reply *TxReply) error {
	return s.submit(args, args.Sender, &BidAction{
		KittyID: uint32(args.KittyID),
		Amount:  uint64(args.Amount),
	}, reply)
}

func (s *Service) submit(args interface{}, sender ids.ShortID, action Action, reply *TxReply) error {
	if err := s.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	txID, err := s.vm.Submit(sender, action)
	if err != nil {
		return err
	}
	reply.TxID = txID
	return nil
}

// KittyArgs are the arguments to calls about a single kitty
type KittyArgs struct {
	KittyID json.Uint32 `json:"kittyID"`
}

// ListingReply describes an open auction
type ListingReply struct {
	Target  json.Uint64 `json:"target"`
	Floor   json.Uint64 `json:"floor"`
	Pending bool        `json:"pending"`
	// Bidder is empty while nobody has bid
	Bidder ids.ShortID `json:"bidder"`
	Amount json.Uint64 `json:"amount"`
}

// GetKittyReply is the reply from GetKitty
type GetKittyReply struct {
	KittyID json.Uint32   `json:"kittyID"`
	DNA     kitties.DNA   `json:"dna"`
	Price   json.Uint64   `json:"price"`
	Owner   ids.ShortID   `json:"owner"`
	Listing *ListingReply `json:"listing,omitempty"`
}

// GetKitty returns kitty [args.KittyID], its owner and its auction if any
func (s *Service) GetKitty(_ *http.Request, args *KittyArgs, reply *GetKittyReply) error {
	s.vm.lock.RLock()
	defer s.vm.lock.RUnlock()

	engine := s.vm.readEngine()
	id := uint32(args.KittyID)
	kitty, owner, err := engine.Kitty(id)
	if err != nil {
		return err
	}
	listing, err := listingReply(engine, id)
	if err != nil {
		return err
	}

	reply.KittyID = args.KittyID
	reply.DNA = kitty.DNA
	reply.Price = json.Uint64(kitty.Price)
	reply.Owner = owner
	reply.Listing = listing
	return nil
}

// GetListing returns the auction of kitty [args.KittyID]
func (s *Service) GetListing(_ *http.Request, args *KittyArgs, reply *ListingReply) error {
	s.vm.lock.RLock()
	defer s.vm.lock.RUnlock()

	listing, err := listingReply(s.vm.readEngine(), uint32(args.KittyID))
	if err != nil {
		return err
	}
	if listing == nil {
		return kitties.ErrNotOnSale
	}
	*reply = *listing
	return nil
}

func listingReply(engine *kitties.Engine, id uint32) (*ListingReply, error) {
	listing, err := engine.Listing(id)
	if err != nil || listing == nil {
		return nil, err
	}
	reply := &ListingReply{
		Target:  json.Uint64(listing.Target),
		Floor:   json.Uint64(listing.Floor),
		Pending: listing.Pending,
	}
	bid, err := engine.HighestBid(id)
	if err != nil {
		return nil, err
	}
	if bid != nil {
		reply.Bidder = bid.Bidder
		reply.Amount = json.Uint64(bid.Amount)
	}
	return reply, nil
}

// GetListingsReply is the reply from GetListings
type GetListingsReply struct {
	KittyIDs []json.Uint32 `json:"kittyIDs"`
}

// GetListings returns every kitty on sale
func (s *Service) GetListings(_ *http.Request, _ *struct{}, reply *GetListingsReply) error {
	s.vm.lock.RLock()
	defer s.vm.lock.RUnlock()

	listed, err := s.vm.readEngine().Listings()
	if err != nil {
		return err
	}
	reply.KittyIDs = toJSONIDs(listed)
	return nil
}

// AddressArgs are the arguments to calls about an account
type AddressArgs struct {
	Address ids.ShortID `json:"address" validate:"required"`
}

// GetBalanceReply is the reply from GetBalance
type GetBalanceReply struct {
	Free     json.Uint64   `json:"free"`
	Reserved json.Uint64   `json:"reserved"`
	Nonce    json.Uint64   `json:"nonce"`
	Kitties  []json.Uint32 `json:"kitties"`
}

// GetBalance returns the balances of [args.Address] and the kitties it owns
func (s *Service) GetBalance(_ *http.Request, args *AddressArgs, reply *GetBalanceReply) error {
	if err := s.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	s.vm.lock.RLock()
	defer s.vm.lock.RUnlock()

	account, err := s.vm.newLedger(s.vm.state.Database(), s.vm.lastAccepted.Height()).Account(args.Address)
	if err != nil {
		return err
	}
	owned, err := s.vm.readEngine().KittiesOf(args.Address)
	if err != nil {
		return err
	}

	reply.Free = json.Uint64(account.Free)
	reply.Reserved = json.Uint64(account.Reserved)
	reply.Nonce = json.Uint64(account.Nonce)
	reply.Kitties = toJSONIDs(owned)
	return nil
}

// GetBlockArgs are the arguments to GetBlock
type GetBlockArgs struct {
	// ID of the block we're getting.
	// If left blank, gets the block at [Height], or the latest block if
	// that is blank too
	ID     *ids.ID      `json:"id"`
	Height *json.Uint64 `json:"height"`
}

// TxSummary describes a transaction in a block
type TxSummary struct {
	TxID   ids.ID      `json:"txID"`
	Sender ids.ShortID `json:"sender"`
	Action string      `json:"action"`
}

// GetBlockReply is the reply from GetBlock
type GetBlockReply struct {
	Timestamp json.Uint64 `json:"timestamp"` // Timestamp of block
	Height    json.Uint64 `json:"height"`    // Height of block
	ID        ids.ID      `json:"id"`        // String repr. of ID of block
	ParentID  ids.ID      `json:"parentID"`  // String repr. of ID of block's parent
	Txs       []TxSummary `json:"txs"`
}

// GetBlock gets the block whose ID is [args.ID]
func (s *Service) GetBlock(_ *http.Request, args *GetBlockArgs, reply *GetBlockReply) error {
	s.vm.lock.RLock()
	defer s.vm.lock.RUnlock()

	var (
		id  ids.ID
		err error
	)
	switch {
	case args.ID != nil:
		id = *args.ID
	case args.Height != nil:
		id, err = s.vm.state.GetBlockIDAtHeight(uint64(*args.Height))
	default:
		id = s.vm.lastAccepted.ID()
	}
	if err != nil {
		return errNoSuchBlock
	}

	block, err := s.vm.state.GetBlock(id)
	if errors.Is(err, database.ErrNotFound) {
		return errNoSuchBlock
	}
	if err != nil {
		return err
	}

	reply.Timestamp = json.Uint64(block.Timestamp().Unix())
	reply.Height = json.Uint64(block.Height())
	reply.ID = block.ID()
	reply.ParentID = block.Parent()
	reply.Txs = make([]TxSummary, len(block.Txs))
	for i, tx := range block.Txs {
		reply.Txs[i] = TxSummary{
			TxID:   tx.ID(),
			Sender: tx.Sender,
			Action: tx.Action.Name(),
		}
	}
	return nil
}

// GetEventsArgs are the arguments to GetEvents
type GetEventsArgs struct {
	Height json.Uint64 `json:"height"`
}

// GetEventsReply is the reply from GetEvents
type GetEventsReply struct {
	Events []EventRecord `json:"events"`
}

// GetEvents returns the events of the block at [args.Height]. Settlement
// events come first.
func (s *Service) GetEvents(_ *http.Request, args *GetEventsArgs, reply *GetEventsReply) error {
	s.vm.lock.RLock()
	defer s.vm.lock.RUnlock()

	records, err := s.vm.state.GetEvents(uint64(args.Height))
	if err != nil {
		return err
	}
	reply.Events = records
	return nil
}

// GetTxStatusArgs are the arguments to GetTxStatus
type GetTxStatusArgs struct {
	TxID ids.ID `json:"txID" validate:"required"`
}

// GetTxStatus returns the status of transaction [args.TxID]
func (s *Service) GetTxStatus(_ *http.Request, args *GetTxStatusArgs, reply *TxResult) error {
	if err := s.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	// blocks take txs from the mempool under the write lock
	s.vm.lock.RLock()
	defer s.vm.lock.RUnlock()

	if s.vm.mempool.Has(args.TxID) {
		reply.Status = Pending
		return nil
	}

	result, err := s.vm.state.GetTxResult(args.TxID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		reply.Status = Unknown
		return nil
	case err != nil:
		return err
	}
	*reply = *result
	return nil
}

// HealthReply is the reply from Health
type HealthReply struct {
	Healthy bool        `json:"healthy"`
	Details interface{} `json:"details"`
}

func (s *Service) Health(_ *http.Request, _ *struct{}, reply *HealthReply) error {
	details, err := s.vm.HealthCheck(context.Background())
	if err != nil {
		return err
	}
	reply.Healthy = true
	reply.Details = details
	return nil
}

func toJSONIDs(kittyIDs []uint32) []json.Uint32 {
	out := make([]json.Uint32, len(kittyIDs))
	for i, id := range kittyIDs {
		out[i] = json.Uint32(id)
	}
	return out
}
