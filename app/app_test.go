package app_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawpool/app"
	assetstypes "github.com/paw-chain/pawpool/x/assets/types"
	pooltypes "github.com/paw-chain/pawpool/x/pool/types"
)

func newApp(t *testing.T) *app.PoolApp {
	t.Helper()
	a, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), "")
	require.NoError(t, err)
	return a
}

func TestInitChainAndBlocks(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.InitChain(app.NewDefaultGenesisState(), app.DefaultGenesisTime))
	require.Equal(t, int64(2), a.Height())
	require.NotEmpty(t, a.LastCommitID().Hash)

	ctx := a.Context()
	pool, err := a.PoolKeeper.GetPool(ctx)
	require.NoError(t, err)
	require.True(t, pool.IsEmpty())

	first := a.LastCommitID()
	id, err := a.NextBlock(time.Minute)
	require.NoError(t, err)
	require.Equal(t, first.Version+1, id.Version)
	require.Equal(t, int64(3), a.Context().BlockHeight())
	require.True(t, a.Context().BlockTime().Equal(app.DefaultGenesisTime.Add(6*time.Second+time.Minute)))

	require.Error(t, a.InitChain(app.NewDefaultGenesisState(), app.DefaultGenesisTime))
}

func TestNextBlockBeforeInit(t *testing.T) {
	a := newApp(t)
	_, err := a.NextBlock(time.Second)
	require.Error(t, err)
}

func TestNextBlockAssertsInvariants(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.InitChain(app.NewDefaultGenesisState(), app.DefaultGenesisTime))
	ctx := a.Context()

	provider := app.AccountAddress("provider")
	pool := a.PoolKeeper.PoolAddress()
	for _, asset := range []string{"uasseta", "uassetb"} {
		require.NoError(t, a.AssetsKeeper.Mint(ctx, asset, provider, math.NewInt(50_000)))
		require.NoError(t, a.AssetsKeeper.Approve(ctx, asset, provider, pool, math.NewInt(50_000)))
	}
	_, err := a.PoolKeeper.AddLiquidity(ctx, provider, math.NewInt(50_000), math.NewInt(50_000))
	require.NoError(t, err)
	require.NoError(t, a.AssertInvariants())

	// Moving the pool's assets behind its back leaves it insolvent.
	require.NoError(t, a.AssetsKeeper.Transfer(ctx, "uasseta", pool, provider, math.NewInt(10)))
	_, err = a.NextBlock(time.Second)
	require.ErrorContains(t, err, "invariant")
}

func TestGenesisState(t *testing.T) {
	gs := app.NewDefaultGenesisState()
	require.NoError(t, gs.Validate())

	assets, pool, err := gs.Modules()
	require.NoError(t, err)
	require.Empty(t, assets.Balances)
	require.Equal(t, pooltypes.DefaultGenesis().AssetA, pool.AssetA)

	bad := app.NewGenesisState(assetstypes.DefaultGenesis(), &pooltypes.GenesisState{
		Params: pooltypes.DefaultParams(), AssetA: "uasseta", AssetB: "uasseta", SwapFeeBps: 30,
	})
	require.Error(t, bad.Validate())

	unknown := app.NewDefaultGenesisState()
	unknown["bank"] = []byte(`{}`)
	require.Error(t, unknown.Validate())
}

func TestExportGenesisRoundTrip(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.InitChain(app.NewDefaultGenesisState(), app.DefaultGenesisTime))
	ctx := a.Context()

	provider := app.AccountAddress("provider")
	pool := a.PoolKeeper.PoolAddress()
	for _, asset := range []string{"uasseta", "uassetb"} {
		require.NoError(t, a.AssetsKeeper.Mint(ctx, asset, provider, math.NewInt(80_000)))
		require.NoError(t, a.AssetsKeeper.Approve(ctx, asset, provider, pool, math.NewInt(80_000)))
	}
	shares, err := a.PoolKeeper.AddLiquidity(ctx, provider, math.NewInt(80_000), math.NewInt(40_000))
	require.NoError(t, err)

	exported, err := a.ExportGenesis()
	require.NoError(t, err)
	require.NoError(t, exported.Validate())

	b := newApp(t)
	require.NoError(t, b.InitChain(exported, app.DefaultGenesisTime))
	require.Equal(t, shares.String(), b.PoolKeeper.GetShares(b.Context(), provider).String())
	ra, rb, err := b.PoolKeeper.GetReserves(b.Context())
	require.NoError(t, err)
	require.Equal(t, int64(80_000), ra.Int64())
	require.Equal(t, int64(40_000), rb.Int64())
	require.True(t, b.PoolKeeper.VerifyReserves(b.Context()))
}

func TestHealthStatus(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.InitChain(app.NewDefaultGenesisState(), app.DefaultGenesisTime))

	status, err := a.HealthStatus()
	require.NoError(t, err)
	require.Equal(t, int64(2), status.Height)
	require.True(t, status.Reconciled)
	require.False(t, status.Paused)
	require.False(t, status.Halted)
	require.True(t, status.TotalSupply.IsZero())
	require.NotEmpty(t, status.AppHash)
}
