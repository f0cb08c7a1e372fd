// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

const (
	IsInitializedKey byte = iota
	GenesisIDKey
)

var (
	isInitializedKey                  = []byte{IsInitializedKey}
	genesisIDKey                      = []byte{GenesisIDKey}
	_                InitializedState = (*initializedState)(nil)
)

// InitializedState records whether genesis has been loaded, and which one.
type InitializedState interface {
	IsInitialized() (bool, error)
	// SetInitialized marks the state as built from the genesis whose
	// bytes hash to [genesisID]
	SetInitialized(genesisID ids.ID) error
	GenesisID() (ids.ID, error)
}

type initializedState struct {
	singletonDB database.Database
}

func NewInitializedState(db database.Database) InitializedState {
	return &initializedState{
		singletonDB: db,
	}
}

func (s *initializedState) IsInitialized() (bool, error) {
	return s.singletonDB.Has(isInitializedKey)
}

func (s *initializedState) SetInitialized(genesisID ids.ID) error {
	if err := s.singletonDB.Put(genesisIDKey, genesisID[:]); err != nil {
		return err
	}
	return s.singletonDB.Put(isInitializedKey, nil)
}

func (s *initializedState) GenesisID() (ids.ID, error) {
	b, err := s.singletonDB.Get(genesisIDKey)
	if errors.Is(err, database.ErrNotFound) {
		return ids.Empty, nil
	}
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(b)
}
