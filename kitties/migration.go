// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	log "github.com/inconshreveable/log15"
)

const (
	// StorageV0 stored a kitty as its bare DNA
	StorageV0 uint16 = iota
	// StorageV1 stores a codec encoded Kitty
	StorageV1

	CurrentStorageVersion = StorageV1
)

// Migrate brings the kitties tables in [db] to CurrentStorageVersion and
// returns the version it found. An empty database is stamped with the
// current version; a database with kitties but no version is V0.
func Migrate(db database.Database) (uint16, error) {
	s := NewState(db)
	version, found, err := s.Version()
	if err != nil {
		return 0, err
	}
	if !found {
		next, err := s.NextKittyID()
		if err != nil {
			return 0, err
		}
		if next == 0 {
			return CurrentStorageVersion, s.SetVersion(CurrentStorageVersion)
		}
		version = StorageV0
	}

	switch version {
	case CurrentStorageVersion:
		return version, nil
	case StorageV0:
		if err := migrateV0(prefixdb.New(kittyStatePrefix, db), s); err != nil {
			return version, err
		}
		return version, s.SetVersion(StorageV1)
	default:
		return version, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}
}

func migrateV0(kittyDB database.Database, s State) error {
	type oldKitty struct {
		id  uint32
		dna DNA
	}

	it := kittyDB.NewIterator()
	var old []oldKitty
	for it.Next() {
		key, value := it.Key(), it.Value()
		if len(key) != wrappers.IntLen || len(value) != DNALen {
			it.Release()
			return errCorruptRecord
		}
		k := oldKitty{id: binary.BigEndian.Uint32(key)}
		copy(k.dna[:], value)
		old = append(old, k)
	}
	err := it.Error()
	it.Release()
	if err != nil {
		return err
	}

	for _, k := range old {
		if err := s.PutKitty(k.id, &Kitty{DNA: k.dna}); err != nil {
			return err
		}
	}
	log.Info("migrated kitties storage", "from", StorageV0, "to", StorageV1, "kitties", len(old))
	return nil
}
