// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"
)

// ID is a unique identifier for this VM
var ID = ids.ID{'k', 'i', 't', 't', 'i', 'e', 's', 'v', 'm'}

// Factory creates initialized VMs
type Factory struct {
	Genesis    []byte
	Config     []byte
	Registerer prometheus.Registerer
}

// New returns a VM over [db]
func (f *Factory) New(ctx context.Context, db database.Database) (*VM, error) {
	registerer := f.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	vm := &VM{}
	if err := vm.Initialize(ctx, db, f.Genesis, f.Config, registerer); err != nil {
		return nil, err
	}
	return vm, nil
}
