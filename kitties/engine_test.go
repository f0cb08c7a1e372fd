// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"errors"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestMintReservesDeposit(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.KittyDeposit = 200
	env := newTestEnv(cfg, map[ids.ShortID]uint64{alice: 1000})

	id, err := env.engine.Mint(alice, 100)
	require.NoError(err)
	require.Equal(uint32(0), id)

	free, reserved := env.balances(alice)
	require.Equal(uint64(800), free)
	require.Equal(uint64(200), reserved)

	kitty, owner, err := env.engine.Kitty(id)
	require.NoError(err)
	require.Equal(alice, owner)
	require.Equal(uint64(100), kitty.Price)

	next, err := env.engine.NextKittyID()
	require.NoError(err)
	require.Equal(uint32(1), next)

	created := env.lastEvent()
	require.Equal(KittyCreated, created.Type)
	require.Equal(alice, created.Account)
	require.Equal(kitty.DNA, created.DNA)
}

func TestMintInsufficientStake(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.KittyDeposit = 200
	env := newTestEnv(cfg, map[ids.ShortID]uint64{alice: 199})

	_, err := env.engine.Mint(alice, 0)
	require.ErrorIs(err, ErrInsufficientStake)

	next, err := env.engine.NextKittyID()
	require.NoError(err)
	require.Equal(uint32(0), next)

	free, reserved := env.balances(alice)
	require.Equal(uint64(199), free)
	require.Zero(reserved)
	require.Empty(env.events.Events())
}

func TestMintIDOverflow(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(DefaultConfig(), nil)
	require.NoError(env.engine.state.SetNextKittyID(math.MaxUint32))

	_, err := env.engine.Mint(alice, 0)
	require.ErrorIs(err, ErrIDOverflow)

	next, err := env.engine.NextKittyID()
	require.NoError(err)
	require.Equal(uint32(math.MaxUint32), next)
}

func TestMintDNADiffersPerCall(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(DefaultConfig(), nil)
	first, err := env.engine.Mint(alice, 0)
	require.NoError(err)
	second, err := env.engine.Mint(alice, 0)
	require.NoError(err)

	a, _, err := env.engine.Kitty(first)
	require.NoError(err)
	b, _, err := env.engine.Kitty(second)
	require.NoError(err)
	require.NotEqual(a.DNA, b.DNA)

	owned, err := env.engine.KittiesOf(alice)
	require.NoError(err)
	require.Equal([]uint32{first, second}, owned)
}

func TestBreed(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(DefaultConfig(), nil)
	mother := env.importKitty(t, alice, 0)
	father := env.importKitty(t, alice, 1)

	child, err := env.engine.Breed(alice, mother, father, 7)
	require.NoError(err)
	require.Equal(uint32(2), child)

	m, _, err := env.engine.Kitty(mother)
	require.NoError(err)
	f, _, err := env.engine.Kitty(father)
	require.NoError(err)
	c, owner, err := env.engine.Kitty(child)
	require.NoError(err)
	require.Equal(alice, owner)
	require.Equal(uint64(7), c.Price)

	// every bit the parents agree on is inherited
	for i := range c.DNA {
		same := ^(m.DNA[i] ^ f.DNA[i])
		require.Equal(m.DNA[i]&same, c.DNA[i]&same, "byte %d", i)
	}

	bred := env.eventsOfType(KittyBred)
	require.Len(bred, 1)
	require.Equal([2]uint32{mother, father}, bred[0].Parents)
	require.Equal(c.DNA, bred[0].DNA)
}

func TestBreedRejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, env *testEnv) (caller ids.ShortID, mother, father uint32)
		policy BreedPolicy
		err    error
	}{
		{
			name: "same parent",
			setup: func(t *testing.T, env *testEnv) (ids.ShortID, uint32, uint32) {
				id := env.importKitty(t, alice, 0)
				return alice, id, id
			},
			err: ErrSameParent,
		},
		{
			name: "missing parent",
			setup: func(t *testing.T, env *testEnv) (ids.ShortID, uint32, uint32) {
				id := env.importKitty(t, alice, 0)
				return alice, id, 42
			},
			err: ErrInvalidKittyID,
		},
		{
			name: "owns neither parent",
			setup: func(t *testing.T, env *testEnv) (ids.ShortID, uint32, uint32) {
				return carol, env.importKitty(t, alice, 0), env.importKitty(t, bob, 1)
			},
			err: ErrNotOwner,
		},
		{
			name: "owns one parent but both are required",
			setup: func(t *testing.T, env *testEnv) (ids.ShortID, uint32, uint32) {
				return alice, env.importKitty(t, alice, 0), env.importKitty(t, bob, 1)
			},
			policy: BreedRequireBoth,
			err:    ErrNotOwner,
		},
		{
			name: "same trait",
			setup: func(t *testing.T, env *testEnv) (ids.ShortID, uint32, uint32) {
				return alice, env.importKitty(t, alice, 1), env.importKitty(t, alice, 1)
			},
			err: ErrIncompatibleParents,
		},
		{
			name: "parent on sale",
			setup: func(t *testing.T, env *testEnv) (ids.ShortID, uint32, uint32) {
				mother := env.importKitty(t, alice, 0)
				father := env.importKitty(t, alice, 1)
				require.NoError(t, env.engine.ListForSale(alice, father, 10, 0))
				return alice, mother, father
			},
			err: ErrAlreadyOnSale,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			cfg := DefaultConfig()
			cfg.BreedPolicy = test.policy
			env := newTestEnv(cfg, nil)
			caller, mother, father := test.setup(t, env)

			before, err := env.engine.NextKittyID()
			require.NoError(err)

			_, err = env.engine.Breed(caller, mother, father, 0)
			require.ErrorIs(err, test.err)

			after, err := env.engine.NextKittyID()
			require.NoError(err)
			require.Equal(before, after)
			require.Empty(env.eventsOfType(KittyBred))
		})
	}
}

func TestBreedWithoutTraitCompatibility(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraitCompatibility = false
	env := newTestEnv(cfg, nil)

	_, err := env.engine.Breed(alice, env.importKitty(t, alice, 1), env.importKitty(t, alice, 1), 0)
	require.NoError(t, err)
}

func TestBreedPaysFeeToOtherOwner(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.BreedFee = 25
	cfg.KittyDeposit = 10
	env := newTestEnv(cfg, map[ids.ShortID]uint64{alice: 100, bob: 100})

	mother := env.importKitty(t, alice, 0)
	father := env.importKitty(t, bob, 1)

	child, err := env.engine.Breed(bob, mother, father, 0)
	require.NoError(err)

	owner, err := env.engine.Owner(child)
	require.NoError(err)
	require.Equal(bob, owner)

	free, reserved := env.balances(bob)
	require.Equal(uint64(100-10-10-25), free)
	require.Equal(uint64(20), reserved)

	free, reserved = env.balances(alice)
	require.Equal(uint64(100-10+25), free)
	require.Equal(uint64(10), reserved)
}

func TestBreedFeeShortfallReleasesDeposit(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.BreedFee = 50
	cfg.KittyDeposit = 10
	env := newTestEnv(cfg, map[ids.ShortID]uint64{alice: 100, bob: 40})

	mother := env.importKitty(t, alice, 0)
	father := env.importKitty(t, bob, 1)

	_, err := env.engine.Breed(bob, mother, father, 0)
	require.ErrorIs(err, ErrInsufficientBalance)

	free, reserved := env.balances(bob)
	require.Equal(uint64(30), free)
	require.Equal(uint64(10), reserved)

	next, err := env.engine.NextKittyID()
	require.NoError(err)
	require.Equal(uint32(2), next)
}

func TestBreedFeeKeepsLedgerError(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.BreedFee = 5
	cfg.KittyDeposit = 10
	env := newTestEnv(cfg, map[ids.ShortID]uint64{alice: 100, bob: 100})

	mother := env.importKitty(t, alice, 0)
	father := env.importKitty(t, bob, 1)

	errBelowDeposit := errors.New("recipient below existential deposit")
	env.ledger.transferErr = errBelowDeposit

	_, err := env.engine.Breed(bob, mother, father, 0)
	require.ErrorIs(err, errBelowDeposit)
	require.NotErrorIs(err, ErrInsufficientBalance)

	free, reserved := env.balances(bob)
	require.Equal(uint64(90), free)
	require.Equal(uint64(10), reserved)
	require.Empty(env.eventsOfType(KittyBred))
}

func TestKittiesOfSeparatesOwners(t *testing.T) {
	require := require.New(t)

	require.Len(ownedKey(alice, 0), len(alice)+4)

	env := newTestEnv(DefaultConfig(), nil)
	first := env.importKitty(t, alice, 0)
	second := env.importKitty(t, bob, 1)
	third := env.importKitty(t, alice, 1)

	owned, err := env.engine.KittiesOf(alice)
	require.NoError(err)
	require.Equal([]uint32{first, third}, owned)

	require.NoError(env.engine.Transfer(alice, first, bob))
	owned, err = env.engine.KittiesOf(bob)
	require.NoError(err)
	require.Equal([]uint32{first, second}, owned)
	owned, err = env.engine.KittiesOf(alice)
	require.NoError(err)
	require.Equal([]uint32{third}, owned)

	owned, err = env.engine.KittiesOf(carol)
	require.NoError(err)
	require.Empty(owned)
}

func TestTransferRoundTrip(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.KittyDeposit = 200
	env := newTestEnv(cfg, map[ids.ShortID]uint64{alice: 1000, bob: 500})

	id, err := env.engine.Mint(alice, 0)
	require.NoError(err)

	require.NoError(env.engine.Transfer(alice, id, bob))
	owner, err := env.engine.Owner(id)
	require.NoError(err)
	require.Equal(bob, owner)

	free, reserved := env.balances(bob)
	require.Equal(uint64(300), free)
	require.Equal(uint64(200), reserved)
	free, reserved = env.balances(alice)
	require.Equal(uint64(1000), free)
	require.Zero(reserved)

	transferred := env.lastEvent()
	require.Equal(KittyTransferred, transferred.Type)
	require.Equal(alice, transferred.Account)
	require.Equal(bob, transferred.Counterparty)

	require.NoError(env.engine.Transfer(bob, id, alice))
	owner, err = env.engine.Owner(id)
	require.NoError(err)
	require.Equal(alice, owner)

	free, reserved = env.balances(alice)
	require.Equal(uint64(800), free)
	require.Equal(uint64(200), reserved)
	free, reserved = env.balances(bob)
	require.Equal(uint64(500), free)
	require.Zero(reserved)

	owned, err := env.engine.KittiesOf(bob)
	require.NoError(err)
	require.Empty(owned)
}

func TestTransferRejections(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.KittyDeposit = 200
	env := newTestEnv(cfg, map[ids.ShortID]uint64{alice: 1000, bob: 100})

	id, err := env.engine.Mint(alice, 0)
	require.NoError(err)

	require.ErrorIs(env.engine.Transfer(alice, 9, bob), ErrInvalidKittyID)
	require.ErrorIs(env.engine.Transfer(bob, id, carol), ErrNotOwner)
	require.ErrorIs(env.engine.Transfer(alice, id, alice), ErrTransferToSelf)
	require.ErrorIs(env.engine.Transfer(alice, id, bob), ErrInsufficientStake)

	owner, err := env.engine.Owner(id)
	require.NoError(err)
	require.Equal(alice, owner)
	free, reserved := env.balances(alice)
	require.Equal(uint64(800), free)
	require.Equal(uint64(200), reserved)
	free, reserved = env.balances(bob)
	require.Equal(uint64(100), free)
	require.Zero(reserved)

	require.NoError(env.engine.ListForSale(alice, id, 5, 0))
	require.ErrorIs(env.engine.Transfer(alice, id, carol), ErrAlreadyOnSale)
}

func TestTransferCancelsListing(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.TransferPolicy = TransferCancelListing
	env := newTestEnv(cfg, map[ids.ShortID]uint64{bob: 100})

	id := env.importKitty(t, alice, 0)
	require.NoError(env.engine.ListForSale(alice, id, 5, 0))
	require.NoError(env.engine.Bid(bob, id, 30))

	require.NoError(env.engine.Transfer(alice, id, carol))

	listing, err := env.engine.Listing(id)
	require.NoError(err)
	require.Nil(listing)
	bid, err := env.engine.HighestBid(id)
	require.NoError(err)
	require.Nil(bid)

	free, reserved := env.balances(bob)
	require.Equal(uint64(100), free)
	require.Zero(reserved)
	require.Len(env.eventsOfType(ListingCancelled), 1)

	// the old target no longer settles anything
	env.ledger.height = 5
	require.NoError(env.engine.OnTick(5))
	owner, err := env.engine.Owner(id)
	require.NoError(err)
	require.Equal(carol, owner)
}

func TestListForSale(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(DefaultConfig(), nil)
	env.ledger.height = 4
	id := env.importKitty(t, alice, 0)

	require.ErrorIs(env.engine.ListForSale(alice, 3, 10, 0), ErrInvalidKittyID)
	require.ErrorIs(env.engine.ListForSale(bob, id, 10, 0), ErrNotOwner)
	require.ErrorIs(env.engine.ListForSale(alice, id, 4, 0), ErrTargetBlockTooSmall)
	require.ErrorIs(env.engine.ListForSale(alice, id, 3, 0), ErrTargetBlockTooSmall)

	require.NoError(env.engine.ListForSale(alice, id, 10, 15))
	require.ErrorIs(env.engine.ListForSale(alice, id, 12, 0), ErrAlreadyOnSale)

	listing, err := env.engine.Listing(id)
	require.NoError(err)
	require.Equal(&Listing{Target: 10, Floor: 15}, listing)

	listed := env.lastEvent()
	require.Equal(KittyListed, listed.Type)
	require.Equal(uint64(10), listed.Target)
	require.Equal(uint64(15), listed.Amount)
	require.Equal(uint64(4), listed.Block)

	listings, err := env.engine.Listings()
	require.NoError(err)
	require.Equal([]uint32{id}, listings)
}

func TestDelist(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(DefaultConfig(), map[ids.ShortID]uint64{bob: 100})
	id := env.importKitty(t, alice, 0)

	require.ErrorIs(env.engine.Delist(alice, id), ErrNotOnSale)
	require.NoError(env.engine.ListForSale(alice, id, 10, 0))
	require.NoError(env.engine.Bid(bob, id, 40))
	require.ErrorIs(env.engine.Delist(bob, id), ErrNotOwner)

	require.NoError(env.engine.Delist(alice, id))
	free, reserved := env.balances(bob)
	require.Equal(uint64(100), free)
	require.Zero(reserved)

	// can be listed again right away
	require.NoError(env.engine.ListForSale(alice, id, 12, 0))
	bid, err := env.engine.HighestBid(id)
	require.NoError(err)
	require.Nil(bid)
}
