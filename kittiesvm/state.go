// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	blockStatePrefix     = []byte("block")
	heightStatePrefix    = []byte("height")
	txStatePrefix        = []byte("tx")
	eventStatePrefix     = []byte("event")
	ledgerStatePrefix    = []byte("ledger")
	kittiesStatePrefix   = []byte("kitties")

	_ State = &state{}
)

// State is a wrapper around InitializedState, BlockState, TxState and
// EventState. State also exposes a few methods needed for managing database
// commits and close.
//
// Writes are buffered until Commit. Abort drops everything written since the
// last Commit.
type State interface {
	InitializedState
	BlockState
	TxState
	EventState

	// NewLayer returns a database whose writes land in the state only when
	// the layer is committed
	NewLayer() *versiondb.Database
	// Database returns the buffered database the state writes to
	Database() database.Database

	Commit() error
	Abort()
	Close() error
}

type state struct {
	InitializedState
	BlockState
	TxState
	EventState

	baseDB *versiondb.Database
}

func NewState(db database.Database) State {
	// create a new baseDB
	baseDB := versiondb.New(db)

	// return state with created sub state components
	return &state{
		InitializedState: NewInitializedState(prefixdb.New(singletonStatePrefix, baseDB)),
		BlockState: NewBlockState(
			prefixdb.New(blockStatePrefix, baseDB),
			prefixdb.New(heightStatePrefix, baseDB),
		),
		TxState:    NewTxState(prefixdb.New(txStatePrefix, baseDB)),
		EventState: NewEventState(prefixdb.New(eventStatePrefix, baseDB)),
		baseDB:     baseDB,
	}
}

func (s *state) NewLayer() *versiondb.Database {
	return versiondb.New(s.baseDB)
}

func (s *state) Database() database.Database { return s.baseDB }

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort discards pending operations
func (s *state) Abort() {
	s.baseDB.Abort()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}

// ledgerDB is the part of [db] that holds balances
func ledgerDB(db database.Database) database.Database {
	return prefixdb.New(ledgerStatePrefix, db)
}

// kittiesDB is the part of [db] that holds the kitties engine
func kittiesDB(db database.Database) database.Database {
	return prefixdb.New(kittiesStatePrefix, db)
}
