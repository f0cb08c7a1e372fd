// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	versionKey     = "version"
	httpHostKey    = "http-host"
	httpPortKey    = "http-port"
	genesisFileKey = "genesis-file"
	configFileKey  = "config-file"
	dbDirKey       = "db-dir"
	logLevelKey    = "log-level"
	shutdownKey    = "shutdown-timeout"

	envPrefix = "KITTIESVM"
)

type params struct {
	printVersion    bool
	httpHost        string
	httpPort        uint16
	genesisBytes    []byte
	configBytes     []byte
	dbDir           string
	logLevel        log.Lvl
	shutdownTimeout time.Duration
}

func buildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("kittiesvm", pflag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and vmID and quit")
	fs.String(httpHostKey, "127.0.0.1", "Address the API server listens on")
	fs.Uint16(httpPortKey, 9650, "Port the API server listens on")
	fs.String(genesisFileKey, "", "Path to the JSON genesis")
	fs.String(configFileKey, "", "Path to the JSON vm config. Defaults are used when empty")
	fs.String(dbDirKey, "", "Directory of the leveldb database. The chain is kept in memory when empty")
	fs.String(logLevelKey, "info", "One of crit, error, warn, info, debug")
	fs.Duration(shutdownKey, 5*time.Second, "How long the API server gets to drain on shutdown")

	return fs
}

// getViper returns the viper environment for the node binary. Every flag can
// also be set as KITTIESVM_<FLAG>, e.g. KITTIESVM_HTTP_PORT.
func getViper(args []string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := buildFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

func parseParams(args []string) (*params, error) {
	v, err := getViper(args)
	if err != nil {
		return nil, err
	}

	p := &params{
		printVersion:    v.GetBool(versionKey),
		httpHost:        v.GetString(httpHostKey),
		httpPort:        uint16(v.GetUint(httpPortKey)),
		dbDir:           v.GetString(dbDirKey),
		shutdownTimeout: v.GetDuration(shutdownKey),
	}
	if p.printVersion {
		return p, nil
	}

	p.logLevel, err = log.LvlFromString(v.GetString(logLevelKey))
	if err != nil {
		return nil, err
	}

	genesisFile := v.GetString(genesisFileKey)
	if genesisFile == "" {
		return nil, fmt.Errorf("--%s is required", genesisFileKey)
	}
	if p.genesisBytes, err = os.ReadFile(genesisFile); err != nil {
		return nil, fmt.Errorf("couldn't read genesis: %w", err)
	}
	if configFile := v.GetString(configFileKey); configFile != "" {
		if p.configBytes, err = os.ReadFile(configFile); err != nil {
			return nil, fmt.Errorf("couldn't read config: %w", err)
		}
	}
	return p, nil
}
