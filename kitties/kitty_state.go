// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

var (
	errCorruptRecord = errors.New("corrupt record in kitties database")

	_ KittyState = (*kittyState)(nil)
)

// KittyState stores kitties and who owns them.
// A kitty exists iff it has an owner.
type KittyState interface {
	GetKitty(id uint32) (*Kitty, error)
	PutKitty(id uint32, kitty *Kitty) error

	GetOwner(id uint32) (ids.ShortID, error)
	// SetOwner moves [id] from [prev] to [owner]. [prev] is ids.ShortEmpty
	// for a new kitty.
	SetOwner(id uint32, prev, owner ids.ShortID) error
	KittiesOf(owner ids.ShortID) ([]uint32, error)
}

type kittyState struct {
	kittyDB database.Database
	ownerDB database.Database
	// owner ++ id -> nil
	ownedDB database.Database
}

func NewKittyState(kittyDB, ownerDB, ownedDB database.Database) KittyState {
	return &kittyState{
		kittyDB: kittyDB,
		ownerDB: ownerDB,
		ownedDB: ownedDB,
	}
}

func (s *kittyState) GetKitty(id uint32) (*Kitty, error) {
	b, err := s.kittyDB.Get(idKey(id))
	if err != nil {
		return nil, err
	}
	kitty := &Kitty{}
	if _, err := Codec.Unmarshal(b, kitty); err != nil {
		return nil, err
	}
	return kitty, nil
}

func (s *kittyState) PutKitty(id uint32, kitty *Kitty) error {
	b, err := Codec.Marshal(CodecVersion, kitty)
	if err != nil {
		return err
	}
	return s.kittyDB.Put(idKey(id), b)
}

func (s *kittyState) GetOwner(id uint32) (ids.ShortID, error) {
	b, err := s.ownerDB.Get(idKey(id))
	if err != nil {
		return ids.ShortEmpty, err
	}
	return ids.ToShortID(b)
}

func (s *kittyState) SetOwner(id uint32, prev, owner ids.ShortID) error {
	if prev != ids.ShortEmpty {
		if err := s.ownedDB.Delete(ownedKey(prev, id)); err != nil {
			return err
		}
	}
	if err := s.ownedDB.Put(ownedKey(owner, id), nil); err != nil {
		return err
	}
	return s.ownerDB.Put(idKey(id), owner[:])
}

func (s *kittyState) KittiesOf(owner ids.ShortID) ([]uint32, error) {
	return collectIDs(s.ownedDB, owner[:], hashing.AddrLen)
}

func idKey(id uint32) []byte {
	b := make([]byte, wrappers.IntLen)
	binary.BigEndian.PutUint32(b, id)
	return b
}

func ownedKey(owner ids.ShortID, id uint32) []byte {
	b := make([]byte, hashing.AddrLen+wrappers.IntLen)
	copy(b, owner[:])
	binary.BigEndian.PutUint32(b[hashing.AddrLen:], id)
	return b
}
