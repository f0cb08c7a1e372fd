// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

const accountSize = wrappers.LongLen * 3

var ErrInvalidAccountFormat = errors.New("invalid account format")

// Account is the balance sheet of an address
type Account struct {
	Free     uint64 `json:"free"`
	Reserved uint64 `json:"reserved"`
	Nonce    uint64 `json:"nonce"`
}

// Total is the free plus the reserved balance
func (a *Account) Total() (uint64, error) {
	total, err := safemath.Add64(a.Free, a.Reserved)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, err)
	}
	return total, nil
}

// IsEmpty reports whether nothing is left worth storing
func (a *Account) IsEmpty() bool {
	return a.Free == 0 && a.Reserved == 0 && a.Nonce == 0
}

func MarshalAccount(a *Account) []byte {
	raw := make([]byte, accountSize)
	work := raw

	binary.BigEndian.PutUint64(work, a.Free)
	work = work[wrappers.LongLen:]
	binary.BigEndian.PutUint64(work, a.Reserved)
	work = work[wrappers.LongLen:]
	binary.BigEndian.PutUint64(work, a.Nonce)
	return raw
}

func UnmarshalAccount(raw []byte) (*Account, error) {
	if len(raw) != accountSize {
		return nil, ErrInvalidAccountFormat
	}
	var a Account
	work := raw

	a.Free = binary.BigEndian.Uint64(work)
	work = work[wrappers.LongLen:]

	a.Reserved = binary.BigEndian.Uint64(work)
	work = work[wrappers.LongLen:]

	a.Nonce = binary.BigEndian.Uint64(work)
	return &a, nil
}
