// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
)

var (
	// These are prefixes for db keys.
	// Every table needs its own prefix.
	singletonStatePrefix = []byte("singleton")
	kittyStatePrefix     = []byte("kitty")
	ownerStatePrefix     = []byte("owner")
	ownedStatePrefix     = []byte("owned")
	listingStatePrefix   = []byte("listing")
	maturityStatePrefix  = []byte("maturity")
	deferredStatePrefix  = []byte("deferred")
	bidStatePrefix       = []byte("bid")

	_ State = (*state)(nil)
)

// State is everything the engine persists
type State interface {
	SingletonState
	KittyState
	SaleState
}

type state struct {
	SingletonState
	KittyState
	SaleState
}

// NewState lays the kitties tables out over [db]. Writes go straight to
// [db]; atomicity is up to the caller (usually a versiondb).
func NewState(db database.Database) State {
	return &state{
		SingletonState: NewSingletonState(prefixdb.New(singletonStatePrefix, db)),
		KittyState: NewKittyState(
			prefixdb.New(kittyStatePrefix, db),
			prefixdb.New(ownerStatePrefix, db),
			prefixdb.New(ownedStatePrefix, db),
		),
		SaleState: NewSaleState(
			prefixdb.New(listingStatePrefix, db),
			prefixdb.New(maturityStatePrefix, db),
			prefixdb.New(deferredStatePrefix, db),
			prefixdb.New(bidStatePrefix, db),
		),
	}
}
