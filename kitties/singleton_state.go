// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	NextKittyIDKey byte = iota
	VersionKey
)

var (
	nextKittyIDKey                = []byte{NextKittyIDKey}
	versionKey                    = []byte{VersionKey}
	_              SingletonState = (*singletonState)(nil)
)

// SingletonState holds the engine wide counters
type SingletonState interface {
	NextKittyID() (uint32, error)
	SetNextKittyID(uint32) error

	// Version returns the storage layout version. [found] is false when no
	// version has been recorded yet.
	Version() (version uint16, found bool, err error)
	SetVersion(uint16) error
}

type singletonState struct {
	singletonDB database.Database
}

func NewSingletonState(db database.Database) SingletonState {
	return &singletonState{
		singletonDB: db,
	}
}

func (s *singletonState) NextKittyID() (uint32, error) {
	b, err := s.singletonDB.Get(nextKittyIDKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return 0, nil
	case err != nil:
		return 0, err
	case len(b) != wrappers.IntLen:
		return 0, errCorruptRecord
	}
	return binary.BigEndian.Uint32(b), nil
}

func (s *singletonState) SetNextKittyID(id uint32) error {
	return s.singletonDB.Put(nextKittyIDKey, idKey(id))
}

func (s *singletonState) Version() (uint16, bool, error) {
	b, err := s.singletonDB.Get(versionKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	case len(b) != wrappers.ShortLen:
		return 0, false, errCorruptRecord
	}
	return binary.BigEndian.Uint16(b), true, nil
}

func (s *singletonState) SetVersion(version uint16) error {
	b := make([]byte, wrappers.ShortLen)
	binary.BigEndian.PutUint16(b, version)
	return s.singletonDB.Put(versionKey, b)
}
