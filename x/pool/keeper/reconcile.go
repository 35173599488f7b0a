package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// ReserveStatus compares one asset's tracked position with the pool account's balance.
type ReserveStatus struct {
	Asset    string   `json:"asset"`
	Reserve  math.Int `json:"reserve"`
	Expected math.Int `json:"expected"`
	Actual   math.Int `json:"actual"`
}

// Drift is the absolute difference between the actual and expected balance.
func (s ReserveStatus) Drift() math.Int {
	return s.Actual.Sub(s.Expected).Abs()
}

// Excess is the balance held above all liabilities, zero when the pool is short.
func (s ReserveStatus) Excess() math.Int {
	if s.Actual.GT(s.Expected) {
		return s.Actual.Sub(s.Expected)
	}
	return math.ZeroInt()
}

// WithinTolerance reports whether the drift is at most toleranceBps of the tracked reserve.
func (s ReserveStatus) WithinTolerance(toleranceBps uint32) bool {
	return !exceedsBps(s.Drift(), s.Reserve, toleranceBps, types.FeeDenominator)
}

// reserveStatus reads both pool asset balances. Expected holdings are the reserve plus
// the fee liabilities kept outside it.
func (k Keeper) reserveStatus(ctx context.Context, pool types.Pool) [2]ReserveStatus {
	poolAddr := k.PoolAddress()
	return [2]ReserveStatus{
		{
			Asset:    pool.AssetA,
			Reserve:  pool.ReserveA,
			Expected: pool.ReserveA.Add(pool.LPFeeBalanceA).Add(pool.ProtocolFeesA),
			Actual:   k.assets.BalanceOf(ctx, pool.AssetA, poolAddr),
		},
		{
			Asset:    pool.AssetB,
			Reserve:  pool.ReserveB,
			Expected: pool.ReserveB.Add(pool.LPFeeBalanceB).Add(pool.ProtocolFeesB),
			Actual:   k.assets.BalanceOf(ctx, pool.AssetB, poolAddr),
		},
	}
}

// guardReserves fails the call when either asset drifted beyond the configured tolerance.
func (k Keeper) guardReserves(ctx sdk.Context, pool types.Pool, params types.Params) error {
	for _, status := range k.reserveStatus(ctx, pool) {
		if status.WithinTolerance(params.DriftToleranceBps) {
			continue
		}
		k.metrics.ReserveDriftDetected.WithLabelValues(status.Asset).Inc()
		k.Logger(ctx).Error("reserve drift detected",
			"asset", status.Asset,
			"tracked", status.Expected.String(),
			"actual", status.Actual.String(),
			"tolerance_bps", params.DriftToleranceBps,
		)
		return types.ErrReserveDrift.Wrapf("%s: tracked %s, actual %s, drift %s exceeds %d bps",
			status.Asset, status.Expected, status.Actual, status.Drift(), params.DriftToleranceBps)
	}
	return nil
}

// VerifyReserves reports whether both tracked reserves agree with the pool's actual
// balances within the drift tolerance.
func (k Keeper) VerifyReserves(ctx context.Context) bool {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return false
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return false
	}
	for _, status := range k.reserveStatus(ctx, pool) {
		if !status.WithinTolerance(params.DriftToleranceBps) {
			return false
		}
	}
	return true
}

// GetReserveStatus returns the reconciliation view of both assets.
func (k Keeper) GetReserveStatus(ctx context.Context) ([]ReserveStatus, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return nil, err
	}
	status := k.reserveStatus(ctx, pool)
	return status[:], nil
}
