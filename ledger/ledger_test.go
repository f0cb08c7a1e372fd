// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittiesvm/kitties"
)

var (
	alice = ids.ShortID{1}
	bob   = ids.ShortID{2}
	carol = ids.ShortID{3}
)

func newTestLedger(t *testing.T, ed uint64, balances map[ids.ShortID]uint64) *Ledger {
	l := New(memdb.New(), 0, ed)
	for addr, amount := range balances {
		require.NoError(t, l.Mint(addr, amount))
	}
	return l
}

func TestAccountSerialization(t *testing.T) {
	assert := assert.New(t)

	a := &Account{Free: 1, Reserved: 2, Nonce: 3}
	b := MarshalAccount(a)
	assert.Len(b, accountSize)

	decoded, err := UnmarshalAccount(b)
	assert.NoError(err)
	assert.Equal(a, decoded)

	_, err = UnmarshalAccount(b[1:])
	assert.ErrorIs(err, ErrInvalidAccountFormat)
}

func TestReserve(t *testing.T) {
	require := require.New(t)

	l := newTestLedger(t, 0, map[ids.ShortID]uint64{alice: 100})

	require.NoError(l.Reserve(alice, 60))
	require.ErrorIs(l.Reserve(alice, 41), ErrInsufficientBalance)

	a, err := l.Account(alice)
	require.NoError(err)
	require.Equal(&Account{Free: 40, Reserved: 60}, a)

	// releasing more than is reserved releases everything
	require.NoError(l.Unreserve(alice, 100))
	a, err = l.Account(alice)
	require.NoError(err)
	require.Equal(&Account{Free: 100}, a)

	require.NoError(l.Unreserve(bob, 10))
	a, err = l.Account(bob)
	require.NoError(err)
	require.True(a.IsEmpty())
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name      string
		amount    uint64
		keepAlive bool
		to        ids.ShortID
		err       error
		alice     uint64
		recipient uint64
	}{
		{
			name:      "plain",
			amount:    40,
			to:        bob,
			alice:     60,
			recipient: 45,
		},
		{
			name:   "more than free",
			amount: 101,
			to:     bob,
			err:    ErrInsufficientBalance,
			alice:  100,
		},
		{
			name:      "keep alive drains sender",
			amount:    95,
			keepAlive: true,
			to:        bob,
			err:       ErrKeepAlive,
			alice:     100,
		},
		{
			name:      "drain sender without keep alive",
			amount:    95,
			to:        bob,
			alice:     5,
			recipient: 100,
		},
		{
			name:   "recipient below existential deposit",
			amount: 5,
			to:     carol,
			err:    ErrExistentialDeposit,
			alice:  100,
		},
		{
			name:   "zero",
			to:     carol,
			alice:  100,
			amount: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			l := newTestLedger(t, 10, map[ids.ShortID]uint64{alice: 100, bob: 5})
			before, err := l.FreeBalance(test.to)
			require.NoError(err)

			err = l.Transfer(alice, test.to, test.amount, test.keepAlive)
			require.ErrorIs(err, test.err)

			free, err := l.FreeBalance(alice)
			require.NoError(err)
			require.Equal(test.alice, free)

			free, err = l.FreeBalance(test.to)
			require.NoError(err)
			if test.err != nil {
				require.Equal(before, free)
			} else if test.recipient != 0 {
				require.Equal(test.recipient, free)
			}
		})
	}
}

func TestKeepAliveCountsReserved(t *testing.T) {
	require := require.New(t)

	l := newTestLedger(t, 10, map[ids.ShortID]uint64{alice: 100, bob: 50})
	require.NoError(l.Reserve(alice, 20))

	// 20 stay reserved, which covers the existential deposit
	require.NoError(l.Transfer(alice, bob, 80, true))

	a, err := l.Account(alice)
	require.NoError(err)
	require.Equal(&Account{Reserved: 20}, a)
}

func TestNonce(t *testing.T) {
	require := require.New(t)

	l := newTestLedger(t, 0, nil)
	for i := 0; i < 3; i++ {
		require.NoError(l.IncrementNonce(alice))
	}
	nonce, err := l.AccountNonce(alice)
	require.NoError(err)
	require.Equal(uint64(3), nonce)
}

func TestMintOverflow(t *testing.T) {
	l := newTestLedger(t, 0, map[ids.ShortID]uint64{alice: ^uint64(0)})
	require.ErrorIs(t, l.Mint(alice, 1), ErrOverflow)
}

func TestTransferRecipientOverflow(t *testing.T) {
	require := require.New(t)

	amount := math.MaxUint64 - uint64(600)
	l := newTestLedger(t, 10, map[ids.ShortID]uint64{alice: amount, bob: 1000})
	require.NoError(l.Reserve(bob, 500))

	err := l.Transfer(alice, bob, amount, false)
	require.ErrorIs(err, ErrOverflow)

	a, err := l.Account(bob)
	require.NoError(err)
	require.Equal(&Account{Free: 500, Reserved: 500}, a)
	free, err := l.FreeBalance(alice)
	require.NoError(err)
	require.Equal(amount, free)
}

func TestAccountTotalOverflow(t *testing.T) {
	require := require.New(t)

	total, err := (&Account{Free: 40, Reserved: 2}).Total()
	require.NoError(err)
	require.Equal(uint64(42), total)

	_, err = (&Account{Free: math.MaxUint64, Reserved: 1}).Total()
	require.ErrorIs(err, ErrOverflow)
}

func TestBreedFeeBelowExistentialDeposit(t *testing.T) {
	require := require.New(t)

	l := newTestLedger(t, 10, map[ids.ShortID]uint64{bob: 100})
	cfg := kitties.DefaultConfig()
	cfg.BreedFee = 5
	engine := kitties.New(memdb.New(), l, kitties.StaticSeed("seed"), nil, cfg)

	mother, err := engine.Import(alice, kitties.DNA{0x00}, 0)
	require.NoError(err)
	father, err := engine.Import(bob, kitties.DNA{0x01}, 0)
	require.NoError(err)

	// alice holds nothing, so a fee of 5 cannot open her account
	_, err = engine.Breed(bob, mother, father, 0)
	require.ErrorIs(err, ErrExistentialDeposit)
	require.NotErrorIs(err, ErrInsufficientBalance)
	free, err := l.FreeBalance(bob)
	require.NoError(err)
	require.Equal(uint64(100), free)

	require.NoError(l.Mint(alice, 10))
	_, err = engine.Breed(bob, mother, father, 0)
	require.NoError(err)
	free, err = l.FreeBalance(alice)
	require.NoError(err)
	require.Equal(uint64(15), free)
}

// TestEngineOnLedger runs an auction through the engine with the real ledger
func TestEngineOnLedger(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	l := newTestLedger(t, 1, map[ids.ShortID]uint64{alice: 1000, bob: 100, carol: 100})
	cfg := kitties.DefaultConfig()
	cfg.KittyDeposit = 5
	engine := kitties.New(db, l, kitties.StaticSeed("seed"), nil, cfg)

	id, err := engine.Mint(alice, 0)
	require.NoError(err)
	require.NoError(engine.ListForSale(alice, id, 10, 0))
	require.NoError(engine.Bid(bob, id, 30))
	require.NoError(engine.Bid(carol, id, 50))

	l.height = 10
	require.NoError(engine.OnTick(10))

	owner, err := engine.Owner(id)
	require.NoError(err)
	require.Equal(carol, owner)

	a, err := l.Account(alice)
	require.NoError(err)
	require.Equal(&Account{Free: 1050}, a)
	a, err = l.Account(bob)
	require.NoError(err)
	require.Equal(&Account{Free: 100}, a)
	a, err = l.Account(carol)
	require.NoError(err)
	require.Equal(&Account{Free: 45, Reserved: 5}, a)
}

// TestSettlementDeferredByKeepAlive drives a bidder whose whole balance is
// the bid: paying would reap the account, so settlement waits.
func TestSettlementDeferredByKeepAlive(t *testing.T) {
	require := require.New(t)

	l := newTestLedger(t, 10, map[ids.ShortID]uint64{alice: 100, bob: 50})
	events := &kitties.EventLog{}
	engine := kitties.New(memdb.New(), l, kitties.StaticSeed("seed"), events, kitties.DefaultConfig())

	id, err := engine.Mint(alice, 0)
	require.NoError(err)
	require.NoError(engine.ListForSale(alice, id, 2, 0))
	require.NoError(engine.Bid(bob, id, 50))

	l.height = 2
	require.NoError(engine.OnTick(2))

	owner, err := engine.Owner(id)
	require.NoError(err)
	require.Equal(alice, owner)
	a, err := l.Account(bob)
	require.NoError(err)
	require.Equal(&Account{Reserved: 50}, a)

	require.NoError(l.Mint(bob, 10))
	l.height = 3
	require.NoError(engine.OnTick(3))

	owner, err = engine.Owner(id)
	require.NoError(err)
	require.Equal(bob, owner)
	a, err = l.Account(alice)
	require.NoError(err)
	require.Equal(&Account{Free: 150}, a)
	require.NoError(engine.CheckInvariants())
}
