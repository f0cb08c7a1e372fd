// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/cenkalti/backoff/v4"

	"github.com/ava-labs/kittiesvm/kittiesvm"
)

var errStillPending = errors.New("transaction is still pending")

// Client defines kittiesvm client operations.
type Client interface {
	// Mint submits a transaction creating a kitty for [sender]
	Mint(ctx context.Context, sender ids.ShortID, price uint64) (ids.ID, error)
	// Breed submits a transaction breeding [mother] with [father]
	Breed(ctx context.Context, sender ids.ShortID, mother, father uint32, price uint64) (ids.ID, error)
	Transfer(ctx context.Context, sender ids.ShortID, kittyID uint32, to ids.ShortID) (ids.ID, error)
	// ListForSale submits a transaction auctioning [kittyID] until block [target]
	ListForSale(ctx context.Context, sender ids.ShortID, kittyID uint32, target, floor uint64) (ids.ID, error)
	Delist(ctx context.Context, sender ids.ShortID, kittyID uint32) (ids.ID, error)
	Bid(ctx context.Context, sender ids.ShortID, kittyID uint32, amount uint64) (ids.ID, error)

	GetKitty(ctx context.Context, kittyID uint32) (*kittiesvm.GetKittyReply, error)
	GetListing(ctx context.Context, kittyID uint32) (*kittiesvm.ListingReply, error)
	GetListings(ctx context.Context) ([]uint32, error)
	GetBalance(ctx context.Context, address ids.ShortID) (*kittiesvm.GetBalanceReply, error)

	// GetBlock fetches the contents of a block.
	// Fetches the last accepted block if [blockID] is nil
	GetBlock(ctx context.Context, blockID *ids.ID) (*kittiesvm.GetBlockReply, error)
	GetEvents(ctx context.Context, height uint64) ([]kittiesvm.EventRecord, error)
	GetTxStatus(ctx context.Context, txID ids.ID) (*kittiesvm.TxResult, error)
	Health(ctx context.Context) (*kittiesvm.HealthReply, error)

	// WaitForTx polls until [txID] leaves the mempool and returns its result
	WaitForTx(ctx context.Context, txID ids.ID) (*kittiesvm.TxResult, error)
}

// New creates a new client object.
// [uri] is the endpoint of the kitties service, e.g.
// http://127.0.0.1:9650/ext/kitties
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri)
	return &client{
		req:          req,
		pollInterval: 100 * time.Millisecond,
	}
}

type client struct {
	req          rpc.EndpointRequester
	pollInterval time.Duration
}

func (cli *client) submit(ctx context.Context, method string, args interface{}) (ids.ID, error) {
	resp := new(kittiesvm.TxReply)
	if err := cli.req.SendRequest(ctx, kittiesvm.ServiceName+"."+method, args, resp); err != nil {
		return ids.Empty, err
	}
	return resp.TxID, nil
}

func (cli *client) Mint(ctx context.Context, sender ids.ShortID, price uint64) (ids.ID, error) {
	return cli.submit(ctx, "mint", &kittiesvm.MintArgs{
		Sender: sender,
		Price:  json.Uint64(price),
	})
}

func (cli *client) Breed(ctx context.Context, sender ids.ShortID, mother, father uint32, price uint64) (ids.ID, error) {
	return cli.submit(ctx, "breed", &kittiesvm.BreedArgs{
		Sender: sender,
		Mother: json.Uint32(mother),
		Father: json.Uint32(father),
		Price:  json.Uint64(price),
	})
}

func (cli *client) Transfer(ctx context.Context, sender ids.ShortID, kittyID uint32, to ids.ShortID) (ids.ID, error) {
	return cli.submit(ctx, "transfer", &kittiesvm.TransferArgs{
		Sender:  sender,
		KittyID: json.Uint32(kittyID),
		To:      to,
	})
}

func (cli *client) ListForSale(ctx context.Context, sender ids.ShortID, kittyID uint32, target, floor uint64) (ids.ID, error) {
	return cli.submit(ctx, "listForSale", &kittiesvm.ListForSaleArgs{
		Sender:  sender,
		KittyID: json.Uint32(kittyID),
		Target:  json.Uint64(target),
		Floor:   json.Uint64(floor),
	})
}

func (cli *client) Delist(ctx context.Context, sender ids.ShortID, kittyID uint32) (ids.ID, error) {
	return cli.submit(ctx, "delist", &kittiesvm.DelistArgs{
		Sender:  sender,
		KittyID: json.Uint32(kittyID),
	})
}

func (cli *client) Bid(ctx context.Context, sender ids.ShortID, kittyID uint32, amount uint64) (ids.ID, error) {
	return cli.submit(ctx, "bid", &kittiesvm.BidArgs{
		Sender:  sender,
		KittyID: json.Uint32(kittyID),
		Amount:  json.Uint64(amount),
	})
}

func (cli *client) GetKitty(ctx context.Context, kittyID uint32) (*kittiesvm.GetKittyReply, error) {
	resp := new(kittiesvm.GetKittyReply)
	return resp, cli.req.SendRequest(ctx,
		"kitties.getKitty",
		&kittiesvm.KittyArgs{KittyID: json.Uint32(kittyID)},
		resp,
	)
}

func (cli *client) GetListing(ctx context.Context, kittyID uint32) (*kittiesvm.ListingReply, error) {
	resp := new(kittiesvm.ListingReply)
	return resp, cli.req.SendRequest(ctx,
		"kitties.getListing",
		&kittiesvm.KittyArgs{KittyID: json.Uint32(kittyID)},
		resp,
	)
}

func (cli *client) GetListings(ctx context.Context) ([]uint32, error) {
	resp := new(kittiesvm.GetListingsReply)
	if err := cli.req.SendRequest(ctx, "kitties.getListings", struct{}{}, resp); err != nil {
		return nil, err
	}
	listed := make([]uint32, len(resp.KittyIDs))
	for i, id := range resp.KittyIDs {
		listed[i] = uint32(id)
	}
	return listed, nil
}

func (cli *client) GetBalance(ctx context.Context, address ids.ShortID) (*kittiesvm.GetBalanceReply, error) {
	resp := new(kittiesvm.GetBalanceReply)
	return resp, cli.req.SendRequest(ctx,
		"kitties.getBalance",
		&kittiesvm.AddressArgs{Address: address},
		resp,
	)
}

func (cli *client) GetBlock(ctx context.Context, blockID *ids.ID) (*kittiesvm.GetBlockReply, error) {
	resp := new(kittiesvm.GetBlockReply)
	return resp, cli.req.SendRequest(ctx,
		"kitties.getBlock",
		&kittiesvm.GetBlockArgs{ID: blockID},
		resp,
	)
}

func (cli *client) GetEvents(ctx context.Context, height uint64) ([]kittiesvm.EventRecord, error) {
	resp := new(kittiesvm.GetEventsReply)
	err := cli.req.SendRequest(ctx,
		"kitties.getEvents",
		&kittiesvm.GetEventsArgs{Height: json.Uint64(height)},
		resp,
	)
	return resp.Events, err
}

func (cli *client) GetTxStatus(ctx context.Context, txID ids.ID) (*kittiesvm.TxResult, error) {
	resp := new(kittiesvm.TxResult)
	return resp, cli.req.SendRequest(ctx,
		"kitties.getTxStatus",
		&kittiesvm.GetTxStatusArgs{TxID: txID},
		resp,
	)
}

func (cli *client) Health(ctx context.Context) (*kittiesvm.HealthReply, error) {
	resp := new(kittiesvm.HealthReply)
	return resp, cli.req.SendRequest(ctx, "kitties.health", struct{}{}, resp)
}

func (cli *client) WaitForTx(ctx context.Context, txID ids.ID) (*kittiesvm.TxResult, error) {
	var result *kittiesvm.TxResult
	poll := func() error {
		status, err := cli.GetTxStatus(ctx, txID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if status.Status == kittiesvm.Pending {
			return errStillPending
		}
		result = status
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cli.pollInterval
	b.MaxElapsedTime = 0
	if err := backoff.Retry(poll, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("couldn't wait for tx %s: %w", txID, err)
	}
	return result, nil
}
