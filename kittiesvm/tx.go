// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

var errNoAction = errors.New("transaction has no action")

// Tx asks the engine to run [Action] on behalf of [Sender]. Transactions are
// not signed: the node that builds blocks is trusted.
type Tx struct {
	Sender ids.ShortID `serialize:"true" json:"sender"`
	// Salt keeps otherwise identical transactions apart
	Salt   uint64 `serialize:"true" json:"salt"`
	Action Action `serialize:"true" json:"action"`

	id    ids.ID
	bytes []byte
}

// NewTx returns an initialized transaction
func NewTx(sender ids.ShortID, salt uint64, action Action) (*Tx, error) {
	tx := &Tx{
		Sender: sender,
		Salt:   salt,
		Action: action,
	}
	return tx, tx.Init()
}

// Init computes the bytes and the ID of [tx]
func (tx *Tx) Init() error {
	if tx.Action == nil {
		return errNoAction
	}
	bytes, err := Codec.Marshal(CodecVersion, tx)
	if err != nil {
		return fmt.Errorf("couldn't marshal tx: %w", err)
	}
	tx.bytes = bytes
	tx.id = hashing.ComputeHash256Array(bytes)
	return nil
}

func (tx *Tx) ID() ids.ID { return tx.id }

func (tx *Tx) Bytes() []byte { return tx.bytes }

// Status is where a transaction is in its lifecycle
type Status uint8

const (
	Unknown Status = iota
	Pending
	Accepted
	Failed
)

var statusNames = map[Status]string{
	Unknown:  "Unknown",
	Pending:  "Pending",
	Accepted: "Accepted",
	Failed:   "Failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Status) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	for status, name := range statusNames {
		if name == str {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", str)
}

// TxResult is what the chain remembers about an executed transaction
type TxResult struct {
	Status Status `serialize:"true" json:"status"`
	Height uint64 `serialize:"true" json:"height"`
	// Error is set when the action failed
	Error string `serialize:"true" json:"error,omitempty"`
}
