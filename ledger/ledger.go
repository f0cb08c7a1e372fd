// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	safemath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/kittiesvm/kitties"
)

var (
	ErrInsufficientBalance = kitties.ErrInsufficientBalance
	ErrKeepAlive           = errors.New("transfer would drop the sender below the existential deposit")
	ErrExistentialDeposit  = errors.New("transfer would leave the recipient below the existential deposit")
	ErrOverflow            = errors.New("balance overflow")

	_ kitties.Ledger = (*Ledger)(nil)
)

// Ledger keeps balances in a database. It has no atomicity of its own: a
// failing call leaves nothing behind, but callers that chain several calls
// should write through a versiondb they can abort.
type Ledger struct {
	db                 database.Database
	height             uint64
	existentialDeposit uint64
}

// New returns a ledger at block [height]. Accounts whose total balance would
// fall below [existentialDeposit] may not be created by a transfer.
func New(db database.Database, height, existentialDeposit uint64) *Ledger {
	return &Ledger{
		db:                 db,
		height:             height,
		existentialDeposit: existentialDeposit,
	}
}

// Account returns the account of [addr]. Unknown addresses are empty.
func (l *Ledger) Account(addr ids.ShortID) (*Account, error) {
	b, err := l.db.Get(addr[:])
	switch {
	case errors.Is(err, database.ErrNotFound):
		return &Account{}, nil
	case err != nil:
		return nil, err
	}
	return UnmarshalAccount(b)
}

func (l *Ledger) putAccount(addr ids.ShortID, a *Account) error {
	if a.IsEmpty() {
		return l.db.Delete(addr[:])
	}
	return l.db.Put(addr[:], MarshalAccount(a))
}

// Mint credits [amount] of new funds to [addr]
func (l *Ledger) Mint(addr ids.ShortID, amount uint64) error {
	a, err := l.Account(addr)
	if err != nil {
		return err
	}
	if a.Free, err = safemath.Add64(a.Free, amount); err != nil {
		return fmt.Errorf("%w: %s", ErrOverflow, err)
	}
	return l.putAccount(addr, a)
}

// IncrementNonce bumps the transaction counter of [addr]
func (l *Ledger) IncrementNonce(addr ids.ShortID) error {
	a, err := l.Account(addr)
	if err != nil {
		return err
	}
	a.Nonce++
	return l.putAccount(addr, a)
}

func (l *Ledger) Reserve(addr ids.ShortID, amount uint64) error {
	a, err := l.Account(addr)
	if err != nil {
		return err
	}
	if a.Free < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, addr, a.Free, amount)
	}
	a.Free -= amount
	a.Reserved += amount
	return l.putAccount(addr, a)
}

func (l *Ledger) Unreserve(addr ids.ShortID, amount uint64) error {
	a, err := l.Account(addr)
	if err != nil {
		return err
	}
	if amount > a.Reserved {
		amount = a.Reserved
	}
	if amount == 0 {
		return nil
	}
	a.Reserved -= amount
	a.Free += amount
	return l.putAccount(addr, a)
}

func (l *Ledger) Transfer(from, to ids.ShortID, amount uint64, keepAlive bool) error {
	if from == to || amount == 0 {
		return nil
	}
	sender, err := l.Account(from)
	if err != nil {
		return err
	}
	if sender.Free < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, from, sender.Free, amount)
	}
	if keepAlive {
		total, err := sender.Total()
		if err != nil {
			return err
		}
		if total-amount < l.existentialDeposit {
			return ErrKeepAlive
		}
	}

	recipient, err := l.Account(to)
	if err != nil {
		return err
	}
	credited, err := safemath.Add64(recipient.Free, amount)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOverflow, err)
	}
	held, err := safemath.Add64(credited, recipient.Reserved)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOverflow, err)
	}
	if held < l.existentialDeposit {
		return fmt.Errorf("%w: %s would hold %d", ErrExistentialDeposit, to, held)
	}

	sender.Free -= amount
	recipient.Free = credited
	if err := l.putAccount(from, sender); err != nil {
		return err
	}
	return l.putAccount(to, recipient)
}

func (l *Ledger) FreeBalance(addr ids.ShortID) (uint64, error) {
	a, err := l.Account(addr)
	if err != nil {
		return 0, err
	}
	return a.Free, nil
}

func (l *Ledger) ReservedBalance(addr ids.ShortID) (uint64, error) {
	a, err := l.Account(addr)
	if err != nil {
		return 0, err
	}
	return a.Reserved, nil
}

func (l *Ledger) AccountNonce(addr ids.ShortID) (uint64, error) {
	a, err := l.Account(addr)
	if err != nil {
		return 0, err
	}
	return a.Nonce, nil
}

func (l *Ledger) CurrentBlock() uint64 { return l.height }
