// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	stdjson "encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/go-playground/validator/v10"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/kittiesvm/kitties"
	"github.com/ava-labs/kittiesvm/ledger"
)

var genesisValidator = validator.New()

// Allocation is a genesis balance
type Allocation struct {
	Address ids.ShortID `json:"address" validate:"required"`
	Amount  json.Uint64 `json:"amount"`
}

// GenesisKitty is a kitty that exists from the start
type GenesisKitty struct {
	Owner ids.ShortID `json:"owner" validate:"required"`
	DNA   kitties.DNA `json:"dna"`
	Price json.Uint64 `json:"price"`
}

// Genesis is the initial state of the chain
type Genesis struct {
	Timestamp int64 `json:"timestamp"`
	// ExistentialDeposit is the smallest balance an account may be created
	// with by a transfer
	ExistentialDeposit json.Uint64    `json:"existentialDeposit"`
	Config             kitties.Config `json:"config"`
	Balances           []Allocation   `json:"balances" validate:"dive"`
	Kitties            []GenesisKitty `json:"kitties" validate:"dive"`
}

// ParseGenesis decodes and validates a JSON genesis. Missing config fields
// keep their defaults.
func ParseGenesis(b []byte) (*Genesis, error) {
	g := &Genesis{Config: kitties.DefaultConfig()}
	if err := stdjson.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("couldn't parse genesis: %w", err)
	}
	if err := genesisValidator.Struct(g); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	return g, nil
}

// Load writes the genesis balances and kitties into [db]. Genesis kitties
// pay their deposit like any other kitty, so balances are credited first.
func (g *Genesis) Load(db database.Database) error {
	if _, err := kitties.Migrate(kittiesDB(db)); err != nil {
		return err
	}

	l := ledger.New(ledgerDB(db), 0, uint64(g.ExistentialDeposit))
	for _, alloc := range g.Balances {
		if err := l.Mint(alloc.Address, uint64(alloc.Amount)); err != nil {
			return fmt.Errorf("couldn't credit %s: %w", alloc.Address, err)
		}
	}

	engine := kitties.New(kittiesDB(db), l, kitties.StaticSeed(nil), nil, g.Config)
	for i, k := range g.Kitties {
		if _, err := engine.Import(k.Owner, k.DNA, uint64(k.Price)); err != nil {
			return fmt.Errorf("couldn't import genesis kitty %d: %w", i, err)
		}
	}

	log.Info("loaded genesis",
		"balances", len(g.Balances),
		"kitties", len(g.Kitties),
		"config", fmt.Sprintf("%+v", g.Config),
	)
	return nil
}
