package keeper_test

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	keepertest "github.com/paw-chain/pawpool/testutil/keeper"
	"github.com/paw-chain/pawpool/x/pool/keeper"
	"github.com/paw-chain/pawpool/x/pool/types"
)

// requireBooksBalance checks the pool's bookkeeping matches the ledger exactly and that
// every registered invariant holds.
func requireBooksBalance(t *rapid.T, f *keepertest.PoolFixture) {
	status, err := f.Keeper.GetReserveStatus(f.Ctx)
	require.NoError(t, err)
	for _, s := range status {
		require.True(t, s.Drift().IsZero(), "%s drifted: expected %s, actual %s", s.Asset, s.Expected, s.Actual)
	}
	msg, broken := keeper.AllInvariants(*f.Keeper)(f.Ctx)
	require.False(t, broken, msg)
}

func requireOneOf(t *rapid.T, err error, allowed ...error) {
	if err == nil {
		return
	}
	for _, target := range allowed {
		if errors.Is(err, target) {
			return
		}
	}
	t.Fatalf("unexpected error: %v", err)
}

func TestProperty_RandomActivityKeepsBooksBalanced(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := keepertest.PoolKeeper(t)
		lps := []sdk.AccAddress{
			keepertest.TestAddr("lp-0"),
			keepertest.TestAddr("lp-1"),
			keepertest.TestAddr("lp-2"),
		}
		trader := keepertest.TestAddr("trader")

		seedA := rapid.Int64Range(10_000, 1_000_000_000_000).Draw(t, "seedA")
		seedB := rapid.Int64Range(10_000, 1_000_000_000_000).Draw(t, "seedB")
		f.Seed(t, lps[0], seedA, seedB)
		requireBooksBalance(t, f)

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			pool, err := f.Keeper.GetPool(f.Ctx)
			require.NoError(t, err)

			switch rapid.SampledFrom([]string{"swap", "add", "remove", "transfer", "collect"}).Draw(t, "action") {
			case "swap":
				direction := rapid.SampledFrom([]types.Direction{types.DirectionAToB, types.DirectionBToA}).Draw(t, "direction")
				reserveIn, _ := pool.Reserves(direction)
				maxIn := reserveIn.MulRaw(int64(types.DefaultMaxSwapFractionBps)).QuoRaw(types.FeeDenominator)
				if !maxIn.IsPositive() {
					continue
				}
				amountIn := math.NewInt(rapid.Int64Range(1, maxIn.Int64()).Draw(t, "amountIn"))
				if direction == types.DirectionAToB {
					f.Fund(t, trader, amountIn, math.ZeroInt())
				} else {
					f.Fund(t, trader, math.ZeroInt(), amountIn)
				}
				oldK := pool.ReserveA.Mul(pool.ReserveB)
				_, err = f.Keeper.Swap(f.Ctx, trader, amountIn, direction, math.ZeroInt(), f.Deadline())
				requireOneOf(t, err, types.ErrZeroOutput)
				after, err := f.Keeper.GetPool(f.Ctx)
				require.NoError(t, err)
				require.True(t, after.ReserveA.Mul(after.ReserveB).GTE(oldK), "constant product decreased")

			case "add":
				lp := rapid.SampledFrom(lps).Draw(t, "lp")
				amountA := math.NewInt(rapid.Int64Range(1, 1_000_000_000).Draw(t, "amountA"))
				amountB := amountA.Mul(pool.ReserveB).Quo(pool.ReserveA)
				if !amountB.IsPositive() {
					continue
				}
				f.Fund(t, lp, amountA, amountB)
				_, err = f.Keeper.AddLiquidity(f.Ctx, lp, amountA, amountB)
				requireOneOf(t, err, types.ErrInsufficientLiquidity)

			case "remove":
				lp := rapid.SampledFrom(lps).Draw(t, "lp")
				held := f.Keeper.GetShares(f.Ctx, lp)
				if !held.IsPositive() {
					continue
				}
				claim := math.NewInt(rapid.Int64Range(1, held.Int64()).Draw(t, "claim"))
				_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, lp, claim, math.ZeroInt(), math.ZeroInt(), f.Deadline())
				requireOneOf(t, err, types.ErrInsufficientLiquidity)

			case "transfer":
				from := rapid.SampledFrom(lps).Draw(t, "from")
				to := rapid.SampledFrom(lps).Draw(t, "to")
				held := f.Keeper.GetShares(f.Ctx, from)
				if !held.IsPositive() {
					continue
				}
				amount := math.NewInt(rapid.Int64Range(1, held.Int64()).Draw(t, "amount"))
				require.NoError(t, f.Keeper.TransferShares(f.Ctx, from, to, amount))

			case "collect":
				lp := rapid.SampledFrom(lps).Draw(t, "lp")
				_, _, err = f.Keeper.CollectFees(f.Ctx, lp)
				requireOneOf(t, err, types.ErrBelowCollectionMinimum)
			}

			requireBooksBalance(t, f)
		}

		// What holders can collect never exceeds what the pool set aside for them.
		pool, err := f.Keeper.GetPool(f.Ctx)
		require.NoError(t, err)
		owedA, owedB := math.ZeroInt(), math.ZeroInt()
		for _, holder := range append(lps, f.Keeper.SinkAddress()) {
			a, b, err := f.Keeper.OwedFees(f.Ctx, holder)
			require.NoError(t, err)
			owedA, owedB = owedA.Add(a), owedB.Add(b)
		}
		require.True(t, owedA.LTE(pool.LPFeeBalanceA), "owed %s > balance %s", owedA, pool.LPFeeBalanceA)
		require.True(t, owedB.LTE(pool.LPFeeBalanceB), "owed %s > balance %s", owedB, pool.LPFeeBalanceB)
	})
}

func TestProperty_DepositWithdrawNeverProfits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := keepertest.PoolKeeper(t)
		f.Seed(t, keepertest.TestAddr("seed"),
			rapid.Int64Range(10_000, 1_000_000_000).Draw(t, "seedA"),
			rapid.Int64Range(10_000, 1_000_000_000).Draw(t, "seedB"))

		reserveA, reserveB, err := f.Keeper.GetReserves(f.Ctx)
		require.NoError(t, err)
		amountA := math.NewInt(rapid.Int64Range(1, 1_000_000_000).Draw(t, "amountA"))
		amountB := amountA.Mul(reserveB).Quo(reserveA)
		if !amountB.IsPositive() {
			t.Skip("deposit rounds to nothing on the B side")
		}

		provider := keepertest.TestAddr("provider")
		f.Fund(t, provider, amountA, amountB)
		shares, err := f.Keeper.AddLiquidity(f.Ctx, provider, amountA, amountB)
		if errors.Is(err, types.ErrInsufficientLiquidity) {
			return
		}
		require.NoError(t, err)

		outA, outB, err := f.Keeper.RemoveLiquidity(f.Ctx, provider, shares, math.ZeroInt(), math.ZeroInt(), f.Deadline())
		requireOneOf(t, err, types.ErrInsufficientLiquidity)
		if err != nil {
			return
		}
		require.True(t, outA.LTE(amountA), "withdrew %s A after depositing %s", outA, amountA)
		require.True(t, outB.LTE(amountB), "withdrew %s B after depositing %s", outB, amountB)
	})
}

func TestProperty_SwapOutputBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "reserveIn"))
		reserveOut := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "reserveOut"))
		amountIn := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "amountIn"))
		fee := rapid.Uint32Range(types.MinSwapFeeBps, types.MaxSwapFeeBps).Draw(t, "fee")

		q, err := keeper.CalculateSwapOutput(amountIn, reserveIn, reserveOut, fee)
		require.NoError(t, err)
		require.True(t, q.AmountOut.LT(reserveOut))
		require.True(t, q.Fee.Add(q.NetIn).Equal(amountIn))
		require.True(t, q.Fee.IsPositive() || q.NetIn.Equal(amountIn))

		// (reserveIn + netIn) * (reserveOut - out) >= reserveIn * reserveOut
		k := reserveIn.Mul(reserveOut)
		require.True(t, reserveIn.Add(q.NetIn).Mul(reserveOut.Sub(q.AmountOut)).GTE(k))
	})
}
