// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	stdjson "encoding/json"
	"fmt"
	"time"
)

const (
	defaultBuildInterval = time.Second
	defaultMempoolSize   = 1024
	defaultMaxBlockTxs   = 256
)

// Config is the node level configuration of the VM. Unlike the genesis it
// may change between restarts.
type Config struct {
	BuildInterval time.Duration `json:"buildInterval"`
	MempoolSize   int           `json:"mempoolSize"`
	MaxBlockTxs   int           `json:"maxBlockTxs"`
	// BuildEmptyBlocks keeps the height advancing while there are no
	// transactions so that listings reach their target
	BuildEmptyBlocks bool `json:"buildEmptyBlocks"`
}

func DefaultConfig() Config {
	return Config{
		BuildInterval:    defaultBuildInterval,
		MempoolSize:      defaultMempoolSize,
		MaxBlockTxs:      defaultMaxBlockTxs,
		BuildEmptyBlocks: true,
	}
}

// ParseConfig decodes [b] over the defaults. Empty input yields the defaults.
func ParseConfig(b []byte) (Config, error) {
	config := DefaultConfig()
	if len(b) == 0 {
		return config, nil
	}
	if err := stdjson.Unmarshal(b, &config); err != nil {
		return config, fmt.Errorf("couldn't parse config: %w", err)
	}
	return config, config.Verify()
}

func (c Config) Verify() error {
	switch {
	case c.BuildInterval <= 0:
		return fmt.Errorf("build interval must be positive but is %s", c.BuildInterval)
	case c.MempoolSize <= 0:
		return fmt.Errorf("mempool size must be positive but is %d", c.MempoolSize)
	case c.MaxBlockTxs <= 0:
		return fmt.Errorf("max block txs must be positive but is %d", c.MaxBlockTxs)
	}
	return nil
}
