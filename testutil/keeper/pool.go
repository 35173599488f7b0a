package keeper

import (
	"context"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/cometbft/cometbft/crypto/tmhash"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	assetskeeper "github.com/paw-chain/pawpool/x/assets/keeper"
	assetstypes "github.com/paw-chain/pawpool/x/assets/types"
	"github.com/paw-chain/pawpool/x/pool/keeper"
	"github.com/paw-chain/pawpool/x/pool/types"
)

const (
	AssetA = "uasseta"
	AssetB = "uassetb"
)

// GenesisTime is the block time of the first test block.
var GenesisTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// PoolFixture bundles a pool keeper, its asset ledger and one account per role.
type PoolFixture struct {
	Ctx    sdk.Context
	Keeper *keeper.Keeper
	Assets *assetskeeper.Keeper

	Admin    sdk.AccAddress
	Pauser   sdk.AccAddress
	Proposer sdk.AccAddress
	Executor sdk.AccAddress
	Treasury sdk.AccAddress
	Guardian sdk.AccAddress
}

// TestingT is the part of testing.TB the fixture uses. *rapid.T satisfies it as well.
type TestingT interface {
	require.TestingT
	Helper()
}

// LedgerWrapper lets a test interpose on the ledger the pool talks to.
type LedgerWrapper func(ledger *assetskeeper.Keeper) types.AssetKeeper

// FixtureOption customises PoolKeeper.
type FixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	wrap    LedgerWrapper
	genesis func(f *PoolFixture, gs *types.GenesisState)
}

// WithLedger replaces the pool's view of the asset ledger.
func WithLedger(wrap LedgerWrapper) FixtureOption {
	return func(c *fixtureConfig) { c.wrap = wrap }
}

// WithGenesis edits the genesis state before it is loaded. Ledger balances can be minted
// through f.Assets inside the callback.
func WithGenesis(edit func(f *PoolFixture, gs *types.GenesisState)) FixtureOption {
	return func(c *fixtureConfig) { c.genesis = edit }
}

// TestAddr derives a deterministic account address from seed.
func TestAddr(seed string) sdk.AccAddress {
	return sdk.AccAddress(tmhash.SumTruncated([]byte(seed)))
}

// PoolKeeper creates a pool keeper on a fresh in-memory multistore with default genesis
// and every role granted to its own account.
func PoolKeeper(t TestingT, opts ...FixtureOption) *PoolFixture {
	var cfg fixtureConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	poolKey := storetypes.NewKVStoreKey(types.StoreKey)
	assetsKey := storetypes.NewKVStoreKey(assetstypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(poolKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(assetsKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	ledger := assetskeeper.NewKeeper(assetsKey)
	var poolLedger types.AssetKeeper = ledger
	if cfg.wrap != nil {
		poolLedger = cfg.wrap(ledger)
	}
	k := keeper.NewKeeper(poolKey, poolLedger)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: GenesisTime}, false, log.NewNopLogger())

	f := &PoolFixture{
		Ctx:      ctx,
		Keeper:   k,
		Assets:   ledger,
		Admin:    TestAddr("admin"),
		Pauser:   TestAddr("pauser"),
		Proposer: TestAddr("fee-proposer"),
		Executor: TestAddr("timelock-executor"),
		Treasury: TestAddr("treasury"),
		Guardian: TestAddr("guardian"),
	}

	genesis := types.DefaultGenesis()
	genesis.AssetA, genesis.AssetB = AssetA, AssetB
	genesis.Roles = []types.RoleGrant{
		{Role: types.RoleAdmin.String(), Address: f.Admin.String()},
		{Role: types.RolePauser.String(), Address: f.Pauser.String()},
		{Role: types.RoleFeeProposer.String(), Address: f.Proposer.String()},
		{Role: types.RoleTimelockExecutor.String(), Address: f.Executor.String()},
		{Role: types.RoleTreasury.String(), Address: f.Treasury.String()},
		{Role: types.RoleGuardian.String(), Address: f.Guardian.String()},
	}
	if cfg.genesis != nil {
		cfg.genesis(f, genesis)
	}
	require.NoError(t, k.InitGenesis(ctx, *genesis))

	return f
}

// Fund mints both pool assets to addr and approves the pool account to pull them.
func (f *PoolFixture) Fund(t TestingT, addr sdk.AccAddress, amountA, amountB math.Int) {
	t.Helper()
	poolAddr := f.Keeper.PoolAddress()
	for _, leg := range []struct {
		asset  string
		amount math.Int
	}{{AssetA, amountA}, {AssetB, amountB}} {
		if !leg.amount.IsPositive() {
			continue
		}
		require.NoError(t, f.Assets.Mint(f.Ctx, leg.asset, addr, leg.amount))
		allowance := f.Assets.Allowance(f.Ctx, leg.asset, addr, poolAddr).Add(leg.amount)
		require.NoError(t, f.Assets.Approve(f.Ctx, leg.asset, addr, poolAddr, allowance))
	}
}

// Seed funds provider and deposits the amounts, returning the issued claim tokens.
func (f *PoolFixture) Seed(t TestingT, provider sdk.AccAddress, amountA, amountB int64) math.Int {
	t.Helper()
	a, b := math.NewInt(amountA), math.NewInt(amountB)
	f.Fund(t, provider, a, b)
	shares, err := f.Keeper.AddLiquidity(f.Ctx, provider, a, b)
	require.NoError(t, err)
	return shares
}

// Donate sends assets straight to the pool account, bypassing the pool's bookkeeping.
func (f *PoolFixture) Donate(t TestingT, asset string, amount int64) {
	t.Helper()
	require.NoError(t, f.Assets.Mint(f.Ctx, asset, f.Keeper.PoolAddress(), math.NewInt(amount)))
}

// Deadline returns a deadline a few blocks ahead of the current height.
func (f *PoolFixture) Deadline() int64 {
	return f.Ctx.BlockHeight() + 10
}

// NextBlock advances the context by one block and d of block time.
func (f *PoolFixture) NextBlock(d time.Duration) {
	f.Ctx = f.Ctx.
		WithBlockHeight(f.Ctx.BlockHeight() + 1).
		WithBlockTime(f.Ctx.BlockTime().Add(d))
}

// HookedLedger calls Hook before every outbound or inbound transfer the pool makes, then
// forwards to the real ledger. A hook that calls back into the pool simulates a malicious
// asset contract.
type HookedLedger struct {
	*assetskeeper.Keeper
	Hook func(ctx context.Context) error
}

func (l *HookedLedger) Transfer(ctx context.Context, asset string, from, to sdk.AccAddress, amount math.Int) error {
	if l.Hook != nil {
		if err := l.Hook(ctx); err != nil {
			return err
		}
	}
	return l.Keeper.Transfer(ctx, asset, from, to, amount)
}

func (l *HookedLedger) TransferFrom(ctx context.Context, asset string, spender, from, to sdk.AccAddress, amount math.Int) error {
	if l.Hook != nil {
		if err := l.Hook(ctx); err != nil {
			return err
		}
	}
	return l.Keeper.TransferFrom(ctx, asset, spender, from, to, amount)
}

// FeeOnTransferLedger burns FeeBps of every pull of Asset on its way into the pool.
type FeeOnTransferLedger struct {
	*assetskeeper.Keeper
	Asset  string
	FeeBps int64
	Sink   sdk.AccAddress
}

func (l *FeeOnTransferLedger) TransferFrom(ctx context.Context, asset string, spender, from, to sdk.AccAddress, amount math.Int) error {
	if err := l.Keeper.TransferFrom(ctx, asset, spender, from, to, amount); err != nil {
		return err
	}
	if asset != l.Asset {
		return nil
	}
	fee := amount.MulRaw(l.FeeBps).QuoRaw(10000)
	if fee.IsZero() {
		return nil
	}
	return l.Keeper.Transfer(ctx, asset, to, l.Sink, fee)
}
