package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// PoolState is a read-only summary of the pool for clients.
type PoolState struct {
	Pool       types.Pool               `json:"pool"`
	Params     types.Params             `json:"params"`
	Paused     bool                     `json:"paused"`
	Reconciled bool                     `json:"reconciled"`
	Snapshot   *types.EmergencySnapshot `json:"snapshot,omitempty"`
}

// GetReserves returns the tracked reserves of asset A and asset B.
func (k Keeper) GetReserves(ctx context.Context) (math.Int, math.Int, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return pool.ReserveA, pool.ReserveB, nil
}

// GetTotalSupply returns the outstanding claim token supply, including the locked minimum.
func (k Keeper) GetTotalSupply(ctx context.Context) (math.Int, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return pool.TotalSupply, nil
}

// IsHalted reports whether the emergency unwind has started.
func (k Keeper) IsHalted(ctx context.Context) bool {
	pool, err := k.GetPool(ctx)
	return err == nil && pool.Halted
}

// GetPoolState collects everything a client needs to display the pool.
func (k Keeper) GetPoolState(ctx context.Context) (PoolState, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return PoolState{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return PoolState{}, err
	}
	state := PoolState{
		Pool:       pool,
		Params:     params,
		Paused:     k.IsPaused(ctx),
		Reconciled: k.VerifyReserves(ctx),
	}
	snap, found, err := k.GetSnapshot(ctx)
	if err != nil {
		return PoolState{}, err
	}
	if found {
		state.Snapshot = &snap
	}
	return state, nil
}

// Position is a holder's claim balance and collectable fees.
type Position struct {
	Holder  string   `json:"holder"`
	Shares  math.Int `json:"shares"`
	OwedA   math.Int `json:"owed_a"`
	OwedB   math.Int `json:"owed_b"`
	RedeemA math.Int `json:"redeem_a"`
	RedeemB math.Int `json:"redeem_b"`
}

// GetPosition returns holder's claim balance, collectable fees and, from the current
// reserves or the emergency snapshot, the assets that balance would redeem.
func (k Keeper) GetPosition(ctx context.Context, holder sdk.AccAddress) (Position, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return Position{}, err
	}
	shares := k.GetShares(ctx, holder)
	pos := Position{
		Holder:  holder.String(),
		Shares:  shares,
		OwedA:   math.ZeroInt(),
		OwedB:   math.ZeroInt(),
		RedeemA: math.ZeroInt(),
		RedeemB: math.ZeroInt(),
	}

	if pool.Halted {
		snap, found, err := k.GetSnapshot(ctx)
		if err != nil {
			return Position{}, err
		}
		if found {
			pos.RedeemA, pos.RedeemB = snap.Payout(shares)
		}
		return pos, nil
	}

	if pos.OwedA, pos.OwedB, err = k.OwedFees(ctx, holder); err != nil {
		return Position{}, err
	}
	if pool.TotalSupply.IsPositive() {
		pos.RedeemA = shares.Mul(pool.ReserveA).Quo(pool.TotalSupply)
		pos.RedeemB = shares.Mul(pool.ReserveB).Quo(pool.TotalSupply)
	}
	return pos, nil
}
