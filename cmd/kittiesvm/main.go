// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/leveldb"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/kittiesvm/kittiesvm"
)

func main() {
	p, err := parseParams(os.Args[1:])
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and VM ID and exit
	if p.printVersion {
		fmt.Printf("%s@%s %s\n", kittiesvm.Name, kittiesvm.Version, kittiesvm.ID)
		os.Exit(0)
	}

	log.Root().SetHandler(log.LvlFilterHandler(p.logLevel, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, p); err != nil {
		log.Crit("node stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, p *params) error {
	registry := prometheus.NewRegistry()

	db, err := openDB(p.dbDir, registry)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("couldn't close database", "error", err)
		}
	}()

	factory := &kittiesvm.Factory{
		Genesis:    p.genesisBytes,
		Config:     p.configBytes,
		Registerer: registry,
	}
	vm, err := factory.New(ctx, db)
	if err != nil {
		return fmt.Errorf("couldn't initialize vm: %w", err)
	}
	defer func() {
		if err := vm.Shutdown(context.Background()); err != nil {
			log.Error("couldn't shut down vm", "error", err)
		}
	}()

	mux, err := newMux(vm, registry)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:    net.JoinHostPort(p.httpHost, strconv.Itoa(int(p.httpPort))),
		Handler: mux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving API", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return vm.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), p.shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openDB(dir string, registry prometheus.Registerer) (database.Database, error) {
	if dir == "" {
		log.Warn("no database directory given, chain is kept in memory")
		return memdb.New(), nil
	}
	db, err := leveldb.New(dir, nil, logging.NoLog{}, "leveldb", registry)
	if err != nil {
		return nil, fmt.Errorf("couldn't open database at %s: %w", dir, err)
	}
	return db, nil
}

// newMux serves the chain API under /ext/kitties, the static API under
// /ext/kittiesvm and metrics under /metrics
func newMux(vm *kittiesvm.VM, registry *prometheus.Registry) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	handlers, err := vm.CreateHandlers()
	if err != nil {
		return nil, fmt.Errorf("couldn't create handlers: %w", err)
	}
	for ext, handler := range handlers {
		mux.Handle("/ext/"+kittiesvm.ServiceName+ext, handler)
	}

	staticHandlers, err := vm.CreateStaticHandlers()
	if err != nil {
		return nil, fmt.Errorf("couldn't create static handlers: %w", err)
	}
	for ext, handler := range staticHandlers {
		mux.Handle("/ext/"+kittiesvm.StaticServiceName+ext, handler)
	}

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return mux, nil
}
