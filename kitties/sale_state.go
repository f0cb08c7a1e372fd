// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

var _ SaleState = (*saleState)(nil)

// SaleState stores listings, their best bids and the indices the settlement
// sweep walks.
type SaleState interface {
	GetListing(id uint32) (*Listing, error)
	PutListing(id uint32, listing *Listing) error
	// DeleteListing removes the listing, its bid and all of its index entries
	DeleteListing(id uint32, listing *Listing) error
	ListedKitties() ([]uint32, error)

	// MaturingAt returns the kitties whose listing targets [height]
	MaturingAt(height uint64) ([]uint32, error)
	// Deferred returns the kitties whose settlement has to be retried
	Deferred() ([]uint32, error)
	Defer(id uint32) error

	GetBid(id uint32) (*Bid, error)
	PutBid(id uint32, bid *Bid) error
}

type saleState struct {
	listingDB database.Database
	// target ++ id -> nil
	maturityDB database.Database
	// id -> nil
	deferredDB database.Database
	bidDB      database.Database
}

func NewSaleState(listingDB, maturityDB, deferredDB, bidDB database.Database) SaleState {
	return &saleState{
		listingDB:  listingDB,
		maturityDB: maturityDB,
		deferredDB: deferredDB,
		bidDB:      bidDB,
	}
}

func (s *saleState) GetListing(id uint32) (*Listing, error) {
	b, err := s.listingDB.Get(idKey(id))
	if err != nil {
		return nil, err
	}
	listing := &Listing{}
	if _, err := Codec.Unmarshal(b, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *saleState) PutListing(id uint32, listing *Listing) error {
	b, err := Codec.Marshal(CodecVersion, listing)
	if err != nil {
		return err
	}
	if err := s.maturityDB.Put(maturityKey(listing.Target, id), nil); err != nil {
		return err
	}
	return s.listingDB.Put(idKey(id), b)
}

func (s *saleState) DeleteListing(id uint32, listing *Listing) error {
	key := idKey(id)
	if err := s.maturityDB.Delete(maturityKey(listing.Target, id)); err != nil {
		return err
	}
	if err := s.deferredDB.Delete(key); err != nil {
		return err
	}
	if err := s.bidDB.Delete(key); err != nil {
		return err
	}
	return s.listingDB.Delete(key)
}

func (s *saleState) ListedKitties() ([]uint32, error) {
	return collectIDs(s.listingDB, nil, 0)
}

func (s *saleState) MaturingAt(height uint64) ([]uint32, error) {
	prefix := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(prefix, height)
	return collectIDs(s.maturityDB, prefix, wrappers.LongLen)
}

func (s *saleState) Deferred() ([]uint32, error) {
	return collectIDs(s.deferredDB, nil, 0)
}

func (s *saleState) Defer(id uint32) error {
	return s.deferredDB.Put(idKey(id), nil)
}

func (s *saleState) GetBid(id uint32) (*Bid, error) {
	b, err := s.bidDB.Get(idKey(id))
	if err != nil {
		return nil, err
	}
	bid := &Bid{}
	if _, err := Codec.Unmarshal(b, bid); err != nil {
		return nil, err
	}
	return bid, nil
}

func (s *saleState) PutBid(id uint32, bid *Bid) error {
	b, err := Codec.Marshal(CodecVersion, bid)
	if err != nil {
		return err
	}
	return s.bidDB.Put(idKey(id), b)
}

// collectIDs reads the kitty ids that follow [offset] bytes of every key
// under [prefix]
func collectIDs(db database.Database, prefix []byte, offset int) ([]uint32, error) {
	it := db.NewIteratorWithPrefix(prefix)
	defer it.Release()

	var kitties []uint32
	for it.Next() {
		key := it.Key()
		if len(key) != offset+wrappers.IntLen {
			return nil, errCorruptRecord
		}
		kitties = append(kitties, binary.BigEndian.Uint32(key[offset:]))
	}
	return kitties, it.Error()
}

func maturityKey(target uint64, id uint32) []byte {
	b := make([]byte, wrappers.LongLen+wrappers.IntLen)
	binary.BigEndian.PutUint64(b, target)
	binary.BigEndian.PutUint32(b[wrappers.LongLen:], id)
	return b
}
