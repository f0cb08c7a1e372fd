// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	stdjson "encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittiesvm/kitties"
	"github.com/ava-labs/kittiesvm/kittiesvm"
)

var (
	alice = ids.ShortID{1}
	bob   = ids.ShortID{2}
)

func newTestServer(t *testing.T) (*kittiesvm.VM, Client) {
	genesis := &kittiesvm.Genesis{
		Timestamp:          1000,
		ExistentialDeposit: 1,
		Config:             kitties.DefaultConfig(),
		Balances: []kittiesvm.Allocation{
			{Address: alice, Amount: 1000},
			{Address: bob, Amount: 100},
		},
	}
	genesisBytes, err := stdjson.Marshal(genesis)
	require.NoError(t, err)

	vm, err := (&kittiesvm.Factory{Genesis: genesisBytes}).New(context.Background(), memdb.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = vm.Shutdown(context.Background()) })

	handlers, err := vm.CreateHandlers()
	require.NoError(t, err)
	server := httptest.NewServer(handlers[""])
	t.Cleanup(server.Close)

	cli := New(server.URL).(*client)
	cli.pollInterval = 10 * time.Millisecond
	return vm, cli
}

func TestClient(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	vm, cli := newTestServer(t)

	health, err := cli.Health(ctx)
	require.NoError(err)
	assert.True(health.Healthy)

	txID, err := cli.Mint(ctx, alice, 7)
	require.NoError(err)

	status, err := cli.GetTxStatus(ctx, txID)
	require.NoError(err)
	assert.Equal(kittiesvm.Pending, status.Status)

	_, err = vm.BuildBlock(ctx)
	require.NoError(err)

	result, err := cli.WaitForTx(ctx, txID)
	require.NoError(err)
	assert.Equal(kittiesvm.Accepted, result.Status)
	assert.Equal(uint64(1), result.Height)

	kitty, err := cli.GetKitty(ctx, 0)
	require.NoError(err)
	assert.Equal(alice, kitty.Owner)
	assert.Equal(json.Uint64(7), kitty.Price)

	balance, err := cli.GetBalance(ctx, alice)
	require.NoError(err)
	assert.Equal([]json.Uint32{0}, balance.Kitties)
	assert.Equal(json.Uint64(1), balance.Nonce)

	block, err := cli.GetBlock(ctx, nil)
	require.NoError(err)
	assert.Equal(json.Uint64(1), block.Height)
	require.Len(block.Txs, 1)
	assert.Equal(txID, block.Txs[0].TxID)
	assert.Equal("mint", block.Txs[0].Action)

	events, err := cli.GetEvents(ctx, 1)
	require.NoError(err)
	require.Len(events, 1)
	assert.Equal(txID, events[0].TxID)
	assert.Equal(kitties.KittyCreated, events[0].Event.Type)
}

func TestClientAuction(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	vm, cli := newTestServer(t)

	mint, err := cli.Mint(ctx, alice, 0)
	require.NoError(err)
	_, err = vm.BuildBlock(ctx)
	require.NoError(err)
	_, err = cli.WaitForTx(ctx, mint)
	require.NoError(err)

	list, err := cli.ListForSale(ctx, alice, 0, 4, 10)
	require.NoError(err)
	_, err = vm.BuildBlock(ctx)
	require.NoError(err)
	result, err := cli.WaitForTx(ctx, list)
	require.NoError(err)
	assert.Equal(kittiesvm.Accepted, result.Status)

	listed, err := cli.GetListings(ctx)
	require.NoError(err)
	assert.Equal([]uint32{0}, listed)

	low, err := cli.Bid(ctx, bob, 0, 5)
	require.NoError(err)
	bid, err := cli.Bid(ctx, bob, 0, 40)
	require.NoError(err)
	_, err = vm.BuildBlock(ctx)
	require.NoError(err)

	result, err = cli.WaitForTx(ctx, low)
	require.NoError(err)
	assert.Equal(kittiesvm.Failed, result.Status)
	assert.NotEmpty(result.Error)
	result, err = cli.WaitForTx(ctx, bid)
	require.NoError(err)
	assert.Equal(kittiesvm.Accepted, result.Status)

	listing, err := cli.GetListing(ctx, 0)
	require.NoError(err)
	assert.Equal(bob, listing.Bidder)
	assert.Equal(json.Uint64(40), listing.Amount)

	// height 4 settles the listing
	_, err = vm.BuildBlock(ctx)
	require.NoError(err)

	kitty, err := cli.GetKitty(ctx, 0)
	require.NoError(err)
	assert.Equal(bob, kitty.Owner)
	assert.Nil(kitty.Listing)

	balance, err := cli.GetBalance(ctx, alice)
	require.NoError(err)
	assert.Equal(json.Uint64(1040), balance.Free)

	_, err = cli.GetListing(ctx, 0)
	assert.Error(err)
}

func TestClientRejectsInvalidArgs(t *testing.T) {
	_, cli := newTestServer(t)

	_, err := cli.Bid(context.Background(), alice, 0, 0)
	assert.Error(t, err)
	_, err = cli.Transfer(context.Background(), alice, 0, ids.ShortEmpty)
	assert.Error(t, err)
}
