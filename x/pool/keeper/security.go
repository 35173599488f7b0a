package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// execute runs fn for a mutating entry point.
//
// The pool-wide reentrancy lock is a marker in the store: a nested call made by the asset
// ledger while fn is running sees the marker in the branched context it was handed and
// fails immediately. fn runs on a CacheContext branch that is written back only when it
// returns nil, so store writes, ledger transfers and events of a failed call are dropped
// together.
func (k Keeper) execute(ctx context.Context, operation string, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if held := k.getStore(sdkCtx).Get(types.ReentrancyLockKey); held != nil {
		k.metrics.ReentrancyBlocked.WithLabelValues(operation).Inc()
		return types.ErrReentrancy.Wrapf("%s called while %s is in progress", operation, string(held))
	}

	cacheCtx, writeCache := sdkCtx.CacheContext()
	store := k.getStore(cacheCtx)
	store.Set(types.ReentrancyLockKey, []byte(operation))

	if err := fn(cacheCtx); err != nil {
		return err
	}

	store.Delete(types.ReentrancyLockKey)
	writeCache()
	return nil
}

// requireRole rejects callers lacking role. Authorization is checked before anything else.
func (k Keeper) requireRole(ctx context.Context, role types.Role, caller sdk.AccAddress) error {
	if !k.HasRole(ctx, role, caller) {
		return types.ErrUnauthorized.Wrapf("%s lacks role %s", caller, role)
	}
	return nil
}

// requireTradable rejects calls on a halted or paused pool.
func (k Keeper) requireTradable(ctx context.Context, pool types.Pool) error {
	if pool.Halted {
		return types.ErrPoolHalted
	}
	if k.IsPaused(ctx) {
		return types.ErrPoolPaused
	}
	return nil
}

// checkDeadline fails once the block height has passed deadline.
func checkDeadline(ctx sdk.Context, deadline int64) error {
	if ctx.BlockHeight() > deadline {
		return types.ErrDeadlineExceeded.Wrapf("height %d is past deadline %d", ctx.BlockHeight(), deadline)
	}
	return nil
}

// ValidatePoolInvariant checks the constant product did not decrease
func ValidatePoolInvariant(pool types.Pool, oldK math.Int) error {
	newK := pool.ReserveA.Mul(pool.ReserveB)
	if newK.LT(oldK) {
		return types.ErrInvariantViolation.Wrapf(
			"constant product decreased: old_k=%s, new_k=%s", oldK, newK,
		)
	}
	return nil
}
