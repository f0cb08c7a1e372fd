// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var _ TxState = (*txState)(nil)

// TxState remembers the outcome of executed transactions
type TxState interface {
	GetTxResult(txID ids.ID) (*TxResult, error)
	PutTxResult(txID ids.ID, result *TxResult) error
}

type txState struct {
	txDB database.Database
}

func NewTxState(db database.Database) TxState {
	return &txState{txDB: db}
}

func (s *txState) GetTxResult(txID ids.ID) (*TxResult, error) {
	b, err := s.txDB.Get(txID[:])
	if err != nil {
		return nil, err
	}
	result := &TxResult{}
	if _, err := Codec.Unmarshal(b, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *txState) PutTxResult(txID ids.ID, result *TxResult) error {
	b, err := Codec.Marshal(CodecVersion, result)
	if err != nil {
		return err
	}
	return s.txDB.Put(txID[:], b)
}
