// Package app wires the pool and the asset ledger onto one commit multistore and drives
// them block by block.
//
// PoolApp has no consensus engine or transaction decoding. Callers act on the keepers
// through Context(); NextBlock asserts the registered invariants before committing.
package app

import (
	"fmt"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/app/health"
	assetskeeper "github.com/paw-chain/pawpool/x/assets/keeper"
	assetstypes "github.com/paw-chain/pawpool/x/assets/types"
	poolkeeper "github.com/paw-chain/pawpool/x/pool/keeper"
	pooltypes "github.com/paw-chain/pawpool/x/pool/types"
)

type registeredInvariant struct {
	module string
	route  string
	check  sdk.Invariant
}

// PoolApp is an in-process chain holding a single pool.
type PoolApp struct {
	logger log.Logger
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey

	AssetsKeeper *assetskeeper.Keeper
	PoolKeeper   *poolkeeper.Keeper

	invariants []registeredInvariant
	header     cmtproto.Header
	ctx        sdk.Context
	lastCommit storetypes.CommitID
}

// New mounts the module stores on db and builds the keepers. The chain starts once
// InitChain has loaded a genesis state.
func New(logger log.Logger, db dbm.DB, chainID string) (*PoolApp, error) {
	if chainID == "" {
		chainID = DefaultChainID
	}

	keys := storetypes.NewKVStoreKeys(assetstypes.StoreKey, pooltypes.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load latest version: %w", err)
	}

	app := &PoolApp{
		logger: logger.With("module", "app"),
		cms:    cms,
		keys:   keys,
		header: cmtproto.Header{ChainID: chainID},
	}

	app.AssetsKeeper = assetskeeper.NewKeeper(keys[assetstypes.StoreKey])
	app.PoolKeeper = poolkeeper.NewKeeper(keys[pooltypes.StoreKey], app.AssetsKeeper)

	poolkeeper.RegisterInvariants(app, *app.PoolKeeper)

	return app, nil
}

// RegisterRoute implements sdk.InvariantRegistry.
func (app *PoolApp) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	app.invariants = append(app.invariants, registeredInvariant{module: moduleName, route: route, check: invar})
}

// InitChain loads genesis at height 1 and commits it.
func (app *PoolApp) InitChain(genesis GenesisState, genesisTime time.Time) error {
	if app.header.Height != 0 {
		return fmt.Errorf("chain already initialized at height %d", app.header.Height)
	}
	if err := genesis.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	app.header.Height = 1
	app.header.Time = genesisTime
	app.ctx = app.newContext()

	assetsGenesis, poolGenesis, err := genesis.Modules()
	if err != nil {
		return err
	}
	if err := app.AssetsKeeper.InitGenesis(app.ctx, *assetsGenesis); err != nil {
		return err
	}
	if err := app.PoolKeeper.InitGenesis(app.ctx, *poolGenesis); err != nil {
		return err
	}

	app.logger.Info("chain initialized", "chain_id", app.header.ChainID, "time", genesisTime)
	_, err = app.commit(time.Duration(DefaultBlockInterval) * time.Second)
	return err
}

// Context returns the context of the block being built.
func (app *PoolApp) Context() sdk.Context {
	return app.ctx
}

// Height returns the current block height.
func (app *PoolApp) Height() int64 {
	return app.header.Height
}

// LastCommitID returns the id of the last committed block.
func (app *PoolApp) LastCommitID() storetypes.CommitID {
	return app.lastCommit
}

// NextBlock closes the current block and opens the next one, interval later.
func (app *PoolApp) NextBlock(interval time.Duration) (storetypes.CommitID, error) {
	if app.header.Height == 0 {
		return storetypes.CommitID{}, fmt.Errorf("chain not initialized")
	}
	return app.commit(interval)
}

func (app *PoolApp) commit(interval time.Duration) (storetypes.CommitID, error) {
	if err := app.AssertInvariants(); err != nil {
		return storetypes.CommitID{}, err
	}

	app.lastCommit = app.cms.Commit()
	app.logger.Debug("committed block", "height", app.header.Height, "hash", fmt.Sprintf("%X", app.lastCommit.Hash))

	app.header.Height++
	app.header.Time = app.header.Time.Add(interval)
	app.ctx = app.newContext()
	return app.lastCommit, nil
}

// AssertInvariants runs every registered invariant against the current block.
func (app *PoolApp) AssertInvariants() error {
	for _, inv := range app.invariants {
		msg, broken := inv.check(app.ctx)
		if broken {
			app.logger.Error("invariant broken", "module", inv.module, "route", inv.route)
			return fmt.Errorf("invariant %s/%s broken: %s", inv.module, inv.route, msg)
		}
	}
	return nil
}

// ExportGenesis dumps both modules at the current block.
func (app *PoolApp) ExportGenesis() (GenesisState, error) {
	assetsGenesis, err := app.AssetsKeeper.ExportGenesis(app.ctx)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", assetstypes.ModuleName, err)
	}
	poolGenesis, err := app.PoolKeeper.ExportGenesis(app.ctx)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", pooltypes.ModuleName, err)
	}
	return NewGenesisState(assetsGenesis, poolGenesis), nil
}

func (app *PoolApp) newContext() sdk.Context {
	return sdk.NewContext(app.cms, app.header, false, app.logger)
}

// HealthStatus summarises the current block for the health checker.
func (app *PoolApp) HealthStatus() (health.PoolStatus, error) {
	state, err := app.PoolKeeper.GetPoolState(app.ctx)
	if err != nil {
		return health.PoolStatus{}, err
	}
	return health.PoolStatus{
		Height:      app.header.Height,
		BlockTime:   app.header.Time,
		AppHash:     fmt.Sprintf("%X", app.lastCommit.Hash),
		ReserveA:    state.Pool.ReserveA,
		ReserveB:    state.Pool.ReserveB,
		TotalSupply: state.Pool.TotalSupply,
		Reconciled:  state.Reconciled,
		Paused:      state.Paused,
		Halted:      state.Pool.Halted,
	}, nil
}
