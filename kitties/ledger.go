// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import "github.com/ava-labs/avalanchego/ids"

// Ledger is the balance keeping host the engine moves funds through.
type Ledger interface {
	// Reserve moves [amount] from the free to the reserved balance of
	// [account]. It fails without changes if the free balance is too low.
	Reserve(account ids.ShortID, amount uint64) error
	// Unreserve moves up to [amount] back to the free balance. Releasing
	// more than is reserved is not an error.
	Unreserve(account ids.ShortID, amount uint64) error
	// Transfer moves [amount] of free balance between accounts. With
	// [keepAlive] the sender may not drop below the existential deposit.
	Transfer(from, to ids.ShortID, amount uint64, keepAlive bool) error

	FreeBalance(account ids.ShortID) (uint64, error)
	ReservedBalance(account ids.ShortID) (uint64, error)
	AccountNonce(account ids.ShortID) (uint64, error)
	CurrentBlock() uint64
}

// RandomSource supplies the seed mixed into generated DNA
type RandomSource interface {
	RandomSeed() []byte
}

// StaticSeed is a RandomSource that always returns the same seed
type StaticSeed []byte

func (s StaticSeed) RandomSeed() []byte { return s }
