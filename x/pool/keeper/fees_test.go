package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/pawpool/testutil/keeper"
	"github.com/paw-chain/pawpool/x/pool/types"
)

// seedAndTrade seeds 1,000,000/1,000,000 and sells 10,000 A: 27 A of LP fee and 3 A of
// protocol fee.
func seedAndTrade(t *testing.T) *keepertest.PoolFixture {
	f := setupPoolForSwaps(t)
	trader := keepertest.TestAddr("trader")
	f.Fund(t, trader, math.NewInt(10_000), math.ZeroInt())
	_, err := f.Keeper.Swap(f.Ctx, trader, math.NewInt(10_000), types.DirectionAToB, math.ZeroInt(), f.Deadline())
	require.NoError(t, err)
	return f
}

func TestCollectFees(t *testing.T) {
	f := seedAndTrade(t)
	provider := keepertest.TestAddr("provider")

	// The provider holds every redeemable claim token; per-claim growth truncates to 26.
	owedA, owedB, err := f.Keeper.OwedFees(f.Ctx, provider)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(26), owedA)
	require.True(t, owedB.IsZero())

	paidA, paidB, err := f.Keeper.CollectFees(f.Ctx, provider)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(26), paidA)
	require.True(t, paidB.IsZero())
	require.Equal(t, math.NewInt(26), f.Assets.BalanceOf(f.Ctx, keepertest.AssetA, provider))

	pool, err := f.Keeper.GetPool(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, math.OneInt(), pool.LPFeeBalanceA)
	require.True(t, f.Keeper.VerifyReserves(f.Ctx))

	_, _, err = f.Keeper.CollectFees(f.Ctx, provider)
	require.ErrorIs(t, err, types.ErrBelowCollectionMinimum)

	_, _, err = f.Keeper.CollectFees(f.Ctx, keepertest.TestAddr("stranger"))
	require.ErrorIs(t, err, types.ErrBelowCollectionMinimum)
}

func TestCollectFees_LateJoinerEarnsNothingRetroactively(t *testing.T) {
	f := seedAndTrade(t)
	provider := keepertest.TestAddr("provider")
	late := keepertest.TestAddr("late")

	reserveA, reserveB, err := f.Keeper.GetReserves(f.Ctx)
	require.NoError(t, err)
	amountA := math.NewInt(100_000)
	amountB := amountA.Mul(reserveB).Quo(reserveA)
	f.Fund(t, late, amountA, amountB)
	_, err = f.Keeper.AddLiquidity(f.Ctx, late, amountA, amountB)
	require.NoError(t, err)

	owedA, _, err := f.Keeper.OwedFees(f.Ctx, late)
	require.NoError(t, err)
	require.True(t, owedA.IsZero())

	// A B-side trade now accrues to both holders.
	trader := keepertest.TestAddr("trader-b")
	f.Fund(t, trader, math.ZeroInt(), math.NewInt(20_000))
	_, err = f.Keeper.Swap(f.Ctx, trader, math.NewInt(20_000), types.DirectionBToA, math.ZeroInt(), f.Deadline())
	require.NoError(t, err)

	pool, err := f.Keeper.GetPool(f.Ctx)
	require.NoError(t, err)
	_, providerB, err := f.Keeper.OwedFees(f.Ctx, provider)
	require.NoError(t, err)
	_, lateB, err := f.Keeper.OwedFees(f.Ctx, late)
	require.NoError(t, err)

	require.True(t, providerB.IsPositive())
	require.True(t, lateB.IsPositive())
	require.True(t, providerB.GT(lateB))
	require.True(t, providerB.Add(lateB).LTE(pool.LPFeeBalanceB))
}

func TestCollectFees_SettledAcrossTransfers(t *testing.T) {
	f := seedAndTrade(t)
	provider := keepertest.TestAddr("provider")
	buyer := keepertest.TestAddr("buyer")

	require.NoError(t, f.Keeper.TransferShares(f.Ctx, provider, buyer, math.NewInt(999_000)))

	owedA, _, err := f.Keeper.OwedFees(f.Ctx, provider)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(26), owedA)
	owedA, _, err = f.Keeper.OwedFees(f.Ctx, buyer)
	require.NoError(t, err)
	require.True(t, owedA.IsZero())

	paidA, _, err := f.Keeper.CollectFees(f.Ctx, provider)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(26), paidA)

	owedA, _, err = f.Keeper.OwedFees(f.Ctx, provider)
	require.NoError(t, err)
	require.True(t, owedA.IsZero())
}

func TestCollectFees_AllowedWhilePaused(t *testing.T) {
	f := seedAndTrade(t)
	require.NoError(t, f.Keeper.Pause(f.Ctx, f.Pauser))

	paidA, _, err := f.Keeper.CollectFees(f.Ctx, keepertest.TestAddr("provider"))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(26), paidA)
}

func TestCollectProtocolFees(t *testing.T) {
	f := seedAndTrade(t)
	recipient := keepertest.TestAddr("dao")

	feesA, feesB, err := f.Keeper.GetProtocolFees(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(3), feesA)
	require.True(t, feesB.IsZero())

	_, _, err = f.Keeper.CollectProtocolFees(f.Ctx, keepertest.TestAddr("provider"), recipient)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	paidA, paidB, err := f.Keeper.CollectProtocolFees(f.Ctx, f.Treasury, recipient)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(3), paidA)
	require.True(t, paidB.IsZero())
	require.Equal(t, math.NewInt(3), f.Assets.BalanceOf(f.Ctx, keepertest.AssetA, recipient))

	feesA, _, err = f.Keeper.GetProtocolFees(f.Ctx)
	require.NoError(t, err)
	require.True(t, feesA.IsZero())
	require.True(t, f.Keeper.VerifyReserves(f.Ctx))

	paidA, paidB, err = f.Keeper.CollectProtocolFees(f.Ctx, f.Treasury, recipient)
	require.NoError(t, err)
	require.True(t, paidA.IsZero())
	require.True(t, paidB.IsZero())
}

func TestProtocolShareRounding(t *testing.T) {
	f := keepertest.PoolKeeper(t, keepertest.WithGenesis(func(_ *keepertest.PoolFixture, gs *types.GenesisState) {
		gs.Params.ProtocolFeeShareBps = 2_500
	}))
	f.Seed(t, keepertest.TestAddr("provider"), 1_000_000, 1_000_000)
	trader := keepertest.TestAddr("trader")
	f.Fund(t, trader, math.NewInt(1_000), math.ZeroInt())

	// fee = 3, protocol = floor(3 * 0.25) = 0, LP keeps the remainder.
	_, err := f.Keeper.Swap(f.Ctx, trader, math.NewInt(1_000), types.DirectionAToB, math.ZeroInt(), f.Deadline())
	require.NoError(t, err)
	pool, err := f.Keeper.GetPool(f.Ctx)
	require.NoError(t, err)
	require.True(t, pool.ProtocolFeesA.IsZero())
	require.Equal(t, math.NewInt(3), pool.LPFeeBalanceA)
}

func TestLPFees_SinkEarnsNothing(t *testing.T) {
	f := keepertest.PoolKeeper(t)
	provider := keepertest.TestAddr("provider")
	// sqrt(1,001,000^2) issues 1,000,000 redeemable claims on top of the locked minimum.
	shares := f.Seed(t, provider, 1_001_000, 1_001_000)
	require.Equal(t, math.NewInt(1_000_000), shares)

	trader := keepertest.TestAddr("trader")
	f.Fund(t, trader, math.NewInt(10_000), math.ZeroInt())
	_, err := f.Keeper.Swap(f.Ctx, trader, math.NewInt(10_000), types.DirectionAToB, math.ZeroInt(), f.Deadline())
	require.NoError(t, err)

	sinkA, sinkB, err := f.Keeper.OwedFees(f.Ctx, f.Keeper.SinkAddress())
	require.NoError(t, err)
	require.True(t, sinkA.IsZero())
	require.True(t, sinkB.IsZero())

	paidA, _, err := f.Keeper.CollectFees(f.Ctx, provider)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(27), paidA)

	pool, err := f.Keeper.GetPool(f.Ctx)
	require.NoError(t, err)
	require.True(t, pool.LPFeeBalanceA.IsZero())
	require.True(t, f.Keeper.VerifyReserves(f.Ctx))
}

func TestLPFees_OnlySinkLeftRoutesToProtocol(t *testing.T) {
	f := keepertest.PoolKeeper(t, keepertest.WithGenesis(func(f *keepertest.PoolFixture, gs *types.GenesisState) {
		pool := types.NewPool(keepertest.AssetA, keepertest.AssetB, 30, 1)
		pool.ReserveA = math.NewInt(1_000_000)
		pool.ReserveB = math.NewInt(1_000_000)
		pool.TotalSupply = math.NewInt(types.MinimumLiquidity)
		gs.Pool = &pool
		gs.Positions = []types.PositionRecord{
			{Holder: f.Keeper.SinkAddress().String(), Shares: math.NewInt(types.MinimumLiquidity)},
		}
		require.NoError(t, f.Assets.Mint(f.Ctx, keepertest.AssetA, f.Keeper.PoolAddress(), math.NewInt(1_000_000)))
		require.NoError(t, f.Assets.Mint(f.Ctx, keepertest.AssetB, f.Keeper.PoolAddress(), math.NewInt(1_000_000)))
	}))

	trader := keepertest.TestAddr("trader")
	f.Fund(t, trader, math.NewInt(10_000), math.ZeroInt())
	_, err := f.Keeper.Swap(f.Ctx, trader, math.NewInt(10_000), types.DirectionAToB, math.ZeroInt(), f.Deadline())
	require.NoError(t, err)

	pool, err := f.Keeper.GetPool(f.Ctx)
	require.NoError(t, err)
	require.True(t, pool.LPFeeBalanceA.IsZero())
	require.True(t, pool.FeeGrowthA.IsZero())
	require.Equal(t, math.NewInt(30), pool.ProtocolFeesA)
	require.True(t, f.Keeper.VerifyReserves(f.Ctx))

	paidA, _, err := f.Keeper.CollectProtocolFees(f.Ctx, f.Treasury, f.Treasury)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(30), paidA)
}
