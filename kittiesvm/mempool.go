// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
)

var (
	errEmptyMempool = errors.New("empty mempool")
	errDuplicateTx  = errors.New("transaction is already pending")
)

// mempool holds transactions waiting for a block, oldest first
type mempool struct {
	size int
	txs  chan *Tx

	lock    sync.Mutex
	pending map[ids.ID]struct{}
}

func newMempool(size int) *mempool {
	return &mempool{
		size:    size,
		txs:     make(chan *Tx, size),
		pending: make(map[ids.ID]struct{}),
	}
}

func (m *mempool) Add(tx *Tx) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	txID := tx.ID()
	if _, ok := m.pending[txID]; ok {
		return fmt.Errorf("%w: %s", errDuplicateTx, txID)
	}

	select {
	case m.txs <- tx:
	default:
		return fmt.Errorf("failed to add tx (%s) to mempool due to full at size (%d)", txID, m.size)
	}
	m.pending[txID] = struct{}{}
	return nil
}

func (m *mempool) Next() (*Tx, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	select {
	case tx := <-m.txs:
		delete(m.pending, tx.ID())
		return tx, nil
	default:
		return nil, errEmptyMempool
	}
}

// Take removes up to [max] transactions
func (m *mempool) Take(max int) []*Tx {
	var txs []*Tx
	for len(txs) < max {
		tx, err := m.Next()
		if err != nil {
			break
		}
		txs = append(txs, tx)
	}
	return txs
}

func (m *mempool) Has(txID ids.ID) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	_, ok := m.pending[txID]
	return ok
}

func (m *mempool) Len() int {
	return len(m.txs)
}
