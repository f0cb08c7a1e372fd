// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// DNALen is the size of a kitty's genetic payload
const DNALen = 16

// DNA is the opaque genetic payload of a kitty
type DNA [DNALen]byte

// Trait returns the breeding trait bit of [d]
func (d DNA) Trait() byte { return d[0] & 1 }

func (d DNA) String() string { return hex.EncodeToString(d[:]) }

func (d DNA) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DNA) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("couldn't decode dna: %w", err)
	}
	if len(raw) != DNALen {
		return fmt.Errorf("dna must be %d bytes but is %d", DNALen, len(raw))
	}
	copy(d[:], raw)
	return nil
}

// Kitty is the record stored for every created kitty.
// It is never modified or removed once written.
type Kitty struct {
	DNA   DNA    `serialize:"true" json:"dna"`
	Price uint64 `serialize:"true" json:"price"`
}

// Listing is an active sale of a kitty.
// Settlement happens at the first tick whose height equals [Target]. If that
// fails the listing is marked [Pending] and retried on later ticks.
type Listing struct {
	Target  uint64 `serialize:"true" json:"target"`
	Floor   uint64 `serialize:"true" json:"floor"`
	Pending bool   `serialize:"true" json:"pending"`
}

// Bid is the best offer on a listed kitty. The amount is held in escrow
// (reserved) from the bidder until it is superseded or settled.
type Bid struct {
	Bidder ids.ShortID `serialize:"true" json:"bidder"`
	Amount uint64      `serialize:"true" json:"amount"`
}
