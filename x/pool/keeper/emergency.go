package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// InitiateEmergencyUnwind halts the pool and latches a snapshot of the claim supply and
// the pool account's actual balances. It can run once; redemptions are then paid from the
// snapshot pro rata.
func (k Keeper) InitiateEmergencyUnwind(ctx context.Context, caller sdk.AccAddress) (types.EmergencySnapshot, error) {
	if err := k.requireRole(ctx, types.RoleGuardian, caller); err != nil {
		return types.EmergencySnapshot{}, err
	}

	var snap types.EmergencySnapshot
	err := k.execute(ctx, "emergency_unwind", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if pool.Halted {
			return types.ErrPoolHalted.Wrap("emergency unwind already initiated")
		}
		if pool.TotalSupply.IsZero() {
			return types.ErrNoClaimSupply
		}

		poolAddr := k.PoolAddress()
		snap = types.EmergencySnapshot{
			Supply:   pool.TotalSupply,
			BalanceA: k.assets.BalanceOf(ctx, pool.AssetA, poolAddr),
			BalanceB: k.assets.BalanceOf(ctx, pool.AssetB, poolAddr),
			Height:   ctx.BlockHeight(),
			Time:     ctx.BlockTime(),
		}
		if err := k.setSnapshot(ctx, snap); err != nil {
			return err
		}
		pool.Halted = true
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEmergencyInitiated,
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeySupply, snap.Supply.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, snap.BalanceA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, snap.BalanceB.String()),
			),
		)
		k.metrics.EmergencyUnwinds.Inc()
		k.Logger(ctx).Error("emergency unwind initiated",
			"guardian", caller.String(),
			"supply", snap.Supply.String(),
			"balance_a", snap.BalanceA.String(),
			"balance_b", snap.BalanceB.String(),
			"height", snap.Height,
		)
		return nil
	})
	if err != nil {
		return types.EmergencySnapshot{}, err
	}
	return snap, nil
}

// RedeemEmergency burns holder's entire claim balance and pays
// floor(snapshotBalance * claim / snapshotSupply) of each asset.
func (k Keeper) RedeemEmergency(ctx context.Context, holder sdk.AccAddress) (math.Int, math.Int, error) {
	if err := validateAccount(holder, "holder"); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if holder.Equals(k.SinkAddress()) {
		return math.Int{}, math.Int{}, types.ErrUnauthorized.Wrap("locked minimum liquidity cannot be redeemed")
	}

	var payoutA, payoutB math.Int
	err := k.execute(ctx, "emergency_redeem", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if !pool.Halted {
			return types.ErrPoolNotHalted
		}
		snap, found, err := k.GetSnapshot(ctx)
		if err != nil {
			return err
		}
		if !found {
			return types.ErrInvariantViolation.Wrap("halted pool has no snapshot")
		}

		claim := k.GetShares(ctx, holder)
		if claim.IsZero() {
			return types.ErrInsufficientShares.Wrapf("%s holds no claim tokens", holder)
		}
		payoutA, payoutB = snap.Payout(claim)

		// The snapshot balances already include every fee liability.
		if err := k.setShares(ctx, holder, math.ZeroInt()); err != nil {
			return err
		}
		k.deleteFeeAccrual(ctx, holder)
		pool.TotalSupply = pool.TotalSupply.Sub(claim)
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := k.pushAsset(ctx, pool.AssetA, holder, payoutA); err != nil {
			return err
		}
		if err := k.pushAsset(ctx, pool.AssetB, holder, payoutB); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEmergencyRedeemed,
				sdk.NewAttribute(types.AttributeKeyHolder, holder.String()),
				sdk.NewAttribute(types.AttributeKeyShares, claim.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, payoutA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, payoutB.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return payoutA, payoutB, nil
}
