// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/avalanchego/version"
	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/kittiesvm/kitties"
	"github.com/ava-labs/kittiesvm/ledger"
)

const (
	Name = "kittiesvm"
)

var (
	Version = &version.Semantic{
		Major: 1,
		Minor: 0,
		Patch: 0,
	}

	errGenesisMismatch = errors.New("database was initialized with a different genesis")
	errNotInitialized  = errors.New("vm is not initialized")
)

// VM is a single node chain of kitties. It batches submitted transactions
// into blocks, settles maturing auctions at the start of every block and
// serves the result over JSON-RPC.
type VM struct {
	config  Config
	genesis *Genesis

	// Clock used for block building
	clock mockable.Clock
	log   log.Logger

	// lock guards everything below. Block building takes it for writing,
	// queries for reading.
	lock         sync.RWMutex
	state        State
	lastAccepted *Block

	mempool *mempool
	metrics *metrics
	salt    uint64
}

// Initialize this vm
// [db] is where the chain is persisted
// [genesisBytes] is the JSON genesis. It must be the same on every restart.
// [configBytes] is the JSON Config, empty for defaults
// [registerer] receives the vm's metrics
func (vm *VM) Initialize(
	ctx context.Context,
	db database.Database,
	genesisBytes []byte,
	configBytes []byte,
	registerer prometheus.Registerer,
) error {
	vm.log = log.New("module", Name)
	vm.log.Info("initializing", "version", Version)

	config, err := ParseConfig(configBytes)
	if err != nil {
		return err
	}
	vm.config = config

	vm.genesis, err = ParseGenesis(genesisBytes)
	if err != nil {
		return err
	}

	vm.metrics, err = newMetrics("kitties", registerer)
	if err != nil {
		return fmt.Errorf("couldn't register metrics: %w", err)
	}

	vm.state = NewState(db)
	vm.mempool = newMempool(vm.config.MempoolSize)
	vm.salt = uint64(vm.clock.Time().UnixNano())

	vm.lock.Lock()
	defer vm.lock.Unlock()
	return vm.initGenesis(hashing.ComputeHash256Array(genesisBytes))
}

func (vm *VM) initGenesis(genesisID ids.ID) error {
	defer vm.state.Abort()

	initialized, err := vm.state.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		storedID, err := vm.state.GenesisID()
		if err != nil {
			return err
		}
		if storedID != genesisID {
			return fmt.Errorf("%w: stored %s, given %s", errGenesisMismatch, storedID, genesisID)
		}
		lastAcceptedID, err := vm.state.GetLastAccepted()
		if err != nil {
			return fmt.Errorf("couldn't get last accepted block: %w", err)
		}
		vm.lastAccepted, err = vm.state.GetBlock(lastAcceptedID)
		if err != nil {
			return fmt.Errorf("couldn't get last accepted block %s: %w", lastAcceptedID, err)
		}

		// bring data written by older versions up to date
		from, err := kitties.Migrate(kittiesDB(vm.state.Database()))
		if err != nil {
			return fmt.Errorf("couldn't migrate kitties: %w", err)
		}
		if from != kitties.CurrentStorageVersion {
			vm.log.Info("migrated storage", "from", from, "to", kitties.CurrentStorageVersion)
		}
		vm.metrics.height.Set(float64(vm.lastAccepted.Height()))
		return vm.state.Commit()
	}

	if err := vm.genesis.Load(vm.state.Database()); err != nil {
		return err
	}

	// Create the genesis block
	// It has no parent and no transactions.
	genesisBlock, err := newBlock(ids.Empty, 0, time.Unix(vm.genesis.Timestamp, 0), nil)
	if err != nil {
		return fmt.Errorf("couldn't create genesis block: %w", err)
	}
	if err := vm.state.PutBlock(genesisBlock); err != nil {
		return fmt.Errorf("couldn't put genesis block: %w", err)
	}
	if err := vm.state.SetInitialized(genesisID); err != nil {
		return fmt.Errorf("error while setting db to initialized: %w", err)
	}
	if err := vm.state.Commit(); err != nil {
		return fmt.Errorf("couldn't commit genesis: %w", err)
	}

	vm.lastAccepted = genesisBlock
	vm.log.Info("initialized genesis", "blkID", genesisBlock.ID())
	return nil
}

// Submit puts [action] by [sender] in the mempool and returns the ID of the
// transaction that will carry it.
func (vm *VM) Submit(sender ids.ShortID, action Action) (ids.ID, error) {
	tx, err := NewTx(sender, atomic.AddUint64(&vm.salt, 1), action)
	if err != nil {
		return ids.Empty, err
	}
	if err := vm.mempool.Add(tx); err != nil {
		return ids.Empty, err
	}
	vm.metrics.mempoolSize.Set(float64(vm.mempool.Len()))
	vm.log.Debug("tx submitted", "txID", tx.ID(), "sender", sender, "action", action.Name())
	return tx.ID(), nil
}

// BuildBlock builds, executes and accepts the next block. The block holds
// up to MaxBlockTxs transactions from the mempool; it is built even when the
// mempool is empty so that listings mature.
func (vm *VM) BuildBlock(ctx context.Context) (*Block, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.lastAccepted == nil {
		return nil, errNotInitialized
	}
	parent := vm.lastAccepted

	txs := vm.mempool.Take(vm.config.MaxBlockTxs)
	vm.metrics.mempoolSize.Set(float64(vm.mempool.Len()))

	// the block time never goes backwards
	timestamp := vm.clock.Time()
	if timestamp.Before(parent.Timestamp()) {
		timestamp = parent.Timestamp()
	}

	block, err := newBlock(parent.ID(), parent.Height()+1, timestamp, txs)
	if err != nil {
		return nil, err
	}
	if err := vm.accept(block); err != nil {
		return nil, fmt.Errorf("couldn't accept block %s at height %d: %w", block.ID(), block.Height(), err)
	}
	return block, nil
}

// accept executes [block] on top of the last accepted block and persists
// the result. Nothing is written if it fails.
func (vm *VM) accept(block *Block) error {
	defer vm.state.Abort()

	height := block.Height()
	// DNA is seeded with the parent ID and is predictable from the chain
	parentID := block.Parent()
	seed := kitties.StaticSeed(parentID[:])

	tick := vm.state.NewLayer()
	events := &kitties.EventLog{}
	if err := vm.newEngine(tick, height, seed, events).OnTick(height); err != nil {
		return fmt.Errorf("couldn't settle listings: %w", err)
	}
	if err := tick.Commit(); err != nil {
		return err
	}
	records := appendRecords(nil, ids.Empty, events.Events())

	for _, tx := range block.Txs {
		txEvents, err := vm.executeTx(tx, height, seed)
		if err != nil {
			return fmt.Errorf("couldn't execute tx %s: %w", tx.ID(), err)
		}
		records = appendRecords(records, tx.ID(), txEvents)
	}

	if err := vm.state.PutEvents(height, records); err != nil {
		return err
	}
	if err := vm.state.PutBlock(block); err != nil {
		return err
	}
	if err := vm.state.Commit(); err != nil {
		return fmt.Errorf("failed to commit database accepting block %s: %w", block.ID(), err)
	}

	vm.lastAccepted = block
	vm.metrics.blocksBuilt.Inc()
	vm.metrics.height.Set(float64(height))
	for _, record := range records {
		vm.metrics.events.WithLabelValues(record.Event.Type).Inc()
	}
	vm.log.Debug("accepted block",
		"blkID", block.ID(),
		"height", height,
		"txs", len(block.Txs),
		"events", len(records),
	)
	return nil
}

// executeTx runs [tx] in its own layer. A failing action leaves nothing
// behind but its TxResult and the sender's nonce bump. Only database errors
// are returned.
func (vm *VM) executeTx(tx *Tx, height uint64, seed kitties.RandomSource) ([]kitties.Event, error) {
	layer := vm.state.NewLayer()
	events := &kitties.EventLog{}
	result := &TxResult{
		Status: Accepted,
		Height: height,
	}

	if err := tx.Action.Execute(vm.newEngine(layer, height, seed, events), tx.Sender); err != nil {
		layer.Abort()
		events.Reset()
		result.Status = Failed
		result.Error = err.Error()
		vm.log.Debug("tx failed", "txID", tx.ID(), "action", tx.Action.Name(), "error", err)
	} else if err := layer.Commit(); err != nil {
		return nil, err
	}

	if err := vm.newLedger(vm.state.Database(), height).IncrementNonce(tx.Sender); err != nil {
		return nil, err
	}
	if err := vm.state.PutTxResult(tx.ID(), result); err != nil {
		return nil, err
	}
	vm.metrics.txs.WithLabelValues(tx.Action.Name(), result.Status.String()).Inc()
	return events.Events(), nil
}

func (vm *VM) newLedger(db database.Database, height uint64) *ledger.Ledger {
	return ledger.New(ledgerDB(db), height, uint64(vm.genesis.ExistentialDeposit))
}

func (vm *VM) newEngine(db database.Database, height uint64, random kitties.RandomSource, events kitties.EventSink) *kitties.Engine {
	return kitties.New(kittiesDB(db), vm.newLedger(db, height), random, events, vm.genesis.Config)
}

// readEngine returns an engine over the accepted state. The caller must hold
// the read lock and must not write through it.
func (vm *VM) readEngine() *kitties.Engine {
	return vm.newEngine(vm.state.Database(), vm.lastAccepted.Height(), kitties.StaticSeed(nil), nil)
}

// Run builds a block every BuildInterval until [ctx] is done. Without
// BuildEmptyBlocks, ticks with an empty mempool are skipped.
func (vm *VM) Run(ctx context.Context) error {
	ticker := time.NewTicker(vm.config.BuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if vm.mempool.Len() == 0 && !vm.config.BuildEmptyBlocks {
			continue
		}
		if _, err := vm.BuildBlock(ctx); err != nil {
			vm.log.Error("couldn't build block", "error", err)
			return err
		}
	}
}

// HealthCheck returns the last accepted block
func (vm *VM) HealthCheck(context.Context) (interface{}, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.lastAccepted == nil {
		return nil, errNotInitialized
	}
	return map[string]interface{}{
		"lastAccepted": vm.lastAccepted.ID(),
		"height":       vm.lastAccepted.Height(),
		"mempool":      vm.mempool.Len(),
	}, nil
}

// Shutdown is called when the node is shutting down.
func (vm *VM) Shutdown(context.Context) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.state == nil {
		return nil
	}
	return vm.state.Close()
}

// Returns this VM's version
func (vm *VM) Version(context.Context) (string, error) {
	return Version.String(), nil
}

func appendRecords(records []EventRecord, txID ids.ID, events []kitties.Event) []EventRecord {
	for _, event := range events {
		records = append(records, EventRecord{
			TxID:  txID,
			Event: event,
		})
	}
	return records
}
