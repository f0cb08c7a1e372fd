// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

var (
	alice = ids.ShortID{1}
	bob   = ids.ShortID{2}
	carol = ids.ShortID{3}

	errTestInsufficient = fmt.Errorf("test ledger: %w", ErrInsufficientBalance)
)

// testLedger is a map backed Ledger
type testLedger struct {
	free     map[ids.ShortID]uint64
	reserved map[ids.ShortID]uint64
	nonces   map[ids.ShortID]uint64
	height   uint64

	// transferErr, when set, is returned by every Transfer
	transferErr error
}

func newTestLedger(balances map[ids.ShortID]uint64) *testLedger {
	l := &testLedger{
		free:     make(map[ids.ShortID]uint64),
		reserved: make(map[ids.ShortID]uint64),
		nonces:   make(map[ids.ShortID]uint64),
	}
	for addr, amount := range balances {
		l.free[addr] = amount
	}
	return l
}

func (l *testLedger) Reserve(account ids.ShortID, amount uint64) error {
	if l.free[account] < amount {
		return errTestInsufficient
	}
	l.free[account] -= amount
	l.reserved[account] += amount
	return nil
}

func (l *testLedger) Unreserve(account ids.ShortID, amount uint64) error {
	if amount > l.reserved[account] {
		amount = l.reserved[account]
	}
	l.reserved[account] -= amount
	l.free[account] += amount
	return nil
}

func (l *testLedger) Transfer(from, to ids.ShortID, amount uint64, _ bool) error {
	if l.transferErr != nil {
		return l.transferErr
	}
	if l.free[from] < amount {
		return errTestInsufficient
	}
	l.free[from] -= amount
	l.free[to] += amount
	return nil
}

func (l *testLedger) FreeBalance(account ids.ShortID) (uint64, error) {
	return l.free[account], nil
}

func (l *testLedger) ReservedBalance(account ids.ShortID) (uint64, error) {
	return l.reserved[account], nil
}

func (l *testLedger) AccountNonce(account ids.ShortID) (uint64, error) {
	return l.nonces[account], nil
}

func (l *testLedger) CurrentBlock() uint64 { return l.height }

// counterSeed returns a different seed on every call
type counterSeed struct {
	next uint64
}

func (c *counterSeed) RandomSeed() []byte {
	seed := make([]byte, 8)
	binary.BigEndian.PutUint64(seed, c.next)
	c.next++
	return seed
}

type testEnv struct {
	engine *Engine
	ledger *testLedger
	events *EventLog
}

func newTestEnv(cfg Config, balances map[ids.ShortID]uint64) *testEnv {
	l := newTestLedger(balances)
	events := &EventLog{}
	return &testEnv{
		engine: New(memdb.New(), l, &counterSeed{}, events, cfg),
		ledger: l,
		events: events,
	}
}

// importKitty creates a kitty whose trait bit is [trait]
func (env *testEnv) importKitty(t *testing.T, owner ids.ShortID, trait byte) uint32 {
	dna := DNA{trait, 0xaa, 0x55}
	id, err := env.engine.Import(owner, dna, 0)
	require.NoError(t, err)
	return id
}

func (env *testEnv) balances(account ids.ShortID) (uint64, uint64) {
	return env.ledger.free[account], env.ledger.reserved[account]
}

func (env *testEnv) lastEvent() Event {
	events := env.events.Events()
	if len(events) == 0 {
		return Event{}
	}
	return events[len(events)-1]
}

func (env *testEnv) eventsOfType(typ string) []Event {
	var matched []Event
	for _, e := range env.events.Events() {
		if e.Type == typ {
			matched = append(matched, e)
		}
	}
	return matched
}
