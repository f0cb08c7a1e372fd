// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// TestRunReleasesDatabase restarts a stopped node on the same leveldb
// directory, which only opens once the previous run closed it.
func TestRunReleasesDatabase(t *testing.T) {
	require := require.New(t)

	p := &params{
		httpHost:        "127.0.0.1",
		genesisBytes:    []byte(`{"timestamp":1}`),
		dbDir:           t.TempDir(),
		shutdownTimeout: time.Second,
	}

	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(run(ctx, p), "run %d", i)
	}

	db, err := openDB(p.dbDir, prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(db.Close())
}
