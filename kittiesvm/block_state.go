// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	lastAcceptedKey = []byte("lastAccepted")

	_ BlockState = &blockState{}
)

// BlockState stores accepted blocks and indexes them by height
type BlockState interface {
	GetBlock(blkID ids.ID) (*Block, error)
	// PutBlock stores [blk] and makes it the last accepted block
	PutBlock(blk *Block) error
	GetBlockIDAtHeight(height uint64) (ids.ID, error)

	GetLastAccepted() (ids.ID, error)
}

type blockState struct {
	blockDB  database.Database
	heightDB database.Database
}

func NewBlockState(blockDB, heightDB database.Database) BlockState {
	return &blockState{
		blockDB:  blockDB,
		heightDB: heightDB,
	}
}

func (s *blockState) GetBlock(blkID ids.ID) (*Block, error) {
	blkBytes, err := s.blockDB.Get(blkID[:])
	if err != nil {
		return nil, err
	}
	return ParseBlock(blkBytes)
}

func (s *blockState) PutBlock(blk *Block) error {
	blkID := blk.ID()
	if err := s.heightDB.Put(heightKey(blk.Height()), blkID[:]); err != nil {
		return fmt.Errorf("failed to put block %s into height index: %w", blkID, err)
	}
	if err := s.blockDB.Put(blkID[:], blk.Bytes()); err != nil {
		return fmt.Errorf("failed to put block %s into block index: %w", blkID, err)
	}
	if err := s.blockDB.Put(lastAcceptedKey, blkID[:]); err != nil {
		return fmt.Errorf("failed to update last accepted block to %s: %w", blkID, err)
	}
	return nil
}

func (s *blockState) GetBlockIDAtHeight(height uint64) (ids.ID, error) {
	blkIDBytes, err := s.heightDB.Get(heightKey(height))
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(blkIDBytes)
}

func (s *blockState) GetLastAccepted() (ids.ID, error) {
	blkIDBytes, err := s.blockDB.Get(lastAcceptedKey)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(blkIDBytes)
}
