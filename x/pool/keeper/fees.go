package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// TradeFee is how the fee of one trade was split.
type TradeFee struct {
	Total    math.Int
	LP       math.Int
	Protocol math.Int
}

// splitTradeFee assigns the protocol share of fee, rounding down; the LP portion
// receives the remainder so the parts always sum to fee.
func splitTradeFee(fee math.Int, protocolShareBps uint32) TradeFee {
	protocol := fee.MulRaw(int64(protocolShareBps)).QuoRaw(types.FeeDenominator)
	return TradeFee{
		Total:    fee,
		LP:       fee.Sub(protocol),
		Protocol: protocol,
	}
}

// accrueTradeFee books a trade fee charged in the input asset and returns the split as
// booked. The LP part raises the fee growth of the redeemable claim tokens, so every holder
// except the sink accrues pro rata to the balance they hold now. With nothing redeemable
// outstanding the LP part goes to the protocol.
func accrueTradeFee(pool *types.Pool, direction types.Direction, fee TradeFee) TradeFee {
	earning := pool.TotalSupply.SubRaw(types.MinimumLiquidity)
	if !earning.IsPositive() {
		fee.Protocol = fee.Total
		fee.LP = math.ZeroInt()
	}
	growth := math.LegacyZeroDec()
	if fee.LP.IsPositive() {
		growth = math.LegacyNewDecFromInt(fee.LP).QuoInt(earning)
	}
	if direction == types.DirectionAToB {
		pool.LPFeeBalanceA = pool.LPFeeBalanceA.Add(fee.LP)
		pool.ProtocolFeesA = pool.ProtocolFeesA.Add(fee.Protocol)
		pool.FeeGrowthA = pool.FeeGrowthA.Add(growth)
		return fee
	}
	pool.LPFeeBalanceB = pool.LPFeeBalanceB.Add(fee.LP)
	pool.ProtocolFeesB = pool.ProtocolFeesB.Add(fee.Protocol)
	pool.FeeGrowthB = pool.FeeGrowthB.Add(growth)
	return fee
}

// pendingAccrual returns holder's accrual advanced to the pool's current fee growth
// without persisting it.
func (k Keeper) pendingAccrual(ctx context.Context, pool types.Pool, holder sdk.AccAddress) (types.FeeAccrual, error) {
	acc, found, err := k.getFeeAccrual(ctx, holder)
	if err != nil {
		return types.FeeAccrual{}, err
	}
	if !found {
		// A missing record means the holder had no claim tokens since the last settlement.
		return types.NewFeeAccrual(pool.FeeGrowthA, pool.FeeGrowthB), nil
	}

	shares := math.LegacyZeroDec()
	if !holder.Equals(k.SinkAddress()) {
		shares = math.LegacyNewDecFromInt(k.GetShares(ctx, holder))
	}
	acc.OwedA = acc.OwedA.Add(pool.FeeGrowthA.Sub(acc.CheckpointA).MulTruncate(shares))
	acc.OwedB = acc.OwedB.Add(pool.FeeGrowthB.Sub(acc.CheckpointB).MulTruncate(shares))
	acc.CheckpointA = pool.FeeGrowthA
	acc.CheckpointB = pool.FeeGrowthB
	return acc, nil
}

// settleAccrual persists holder's accrual at the current fee growth. It must run before
// every change to holder's claim balance.
func (k Keeper) settleAccrual(ctx context.Context, pool types.Pool, holder sdk.AccAddress) (types.FeeAccrual, error) {
	acc, err := k.pendingAccrual(ctx, pool, holder)
	if err != nil {
		return types.FeeAccrual{}, err
	}
	if err := k.setFeeAccrual(ctx, holder, acc); err != nil {
		return types.FeeAccrual{}, err
	}
	return acc, nil
}

// pruneAccrual drops the accrual record of a holder left with nothing.
func (k Keeper) pruneAccrual(ctx context.Context, holder sdk.AccAddress, acc types.FeeAccrual) {
	if acc.IsZero() && k.GetShares(ctx, holder).IsZero() {
		k.deleteFeeAccrual(ctx, holder)
	}
}

// OwedFees returns the whole units holder could collect right now.
func (k Keeper) OwedFees(ctx context.Context, holder sdk.AccAddress) (math.Int, math.Int, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	acc, err := k.pendingAccrual(ctx, pool, holder)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return acc.OwedA.TruncateInt(), acc.OwedB.TruncateInt(), nil
}

// CollectFees pays holder the LP fees owed to them. Each asset's owed amount is truncated
// to whole units; the call fails unless at least one asset reaches the collection minimum.
// Only paid assets are zeroed.
func (k Keeper) CollectFees(ctx context.Context, holder sdk.AccAddress) (math.Int, math.Int, error) {
	if err := validateAccount(holder, "holder"); err != nil {
		return math.Int{}, math.Int{}, err
	}

	paidA, paidB := math.ZeroInt(), math.ZeroInt()
	err := k.execute(ctx, "collect_fees", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if pool.Halted {
			return types.ErrPoolHalted
		}
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}

		acc, err := k.settleAccrual(ctx, pool, holder)
		if err != nil {
			return err
		}
		owedA, owedB := acc.OwedA.TruncateInt(), acc.OwedB.TruncateInt()
		if owedA.LT(params.MinFeeCollection) && owedB.LT(params.MinFeeCollection) {
			return types.ErrBelowCollectionMinimum.Wrapf("owed %s%s and %s%s, minimum %s",
				owedA, pool.AssetA, owedB, pool.AssetB, params.MinFeeCollection)
		}

		if owedA.IsPositive() {
			if pool.LPFeeBalanceA, err = SafeSub(pool.LPFeeBalanceA, owedA); err != nil {
				return types.ErrInvariantViolation.Wrapf("LP fee balance %s: %v", pool.AssetA, err)
			}
			acc.OwedA = math.LegacyZeroDec()
			paidA = owedA
		}
		if owedB.IsPositive() {
			if pool.LPFeeBalanceB, err = SafeSub(pool.LPFeeBalanceB, owedB); err != nil {
				return types.ErrInvariantViolation.Wrapf("LP fee balance %s: %v", pool.AssetB, err)
			}
			acc.OwedB = math.LegacyZeroDec()
			paidB = owedB
		}

		if err := k.setFeeAccrual(ctx, holder, acc); err != nil {
			return err
		}
		k.pruneAccrual(ctx, holder, acc)
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := k.pushAsset(ctx, pool.AssetA, holder, paidA); err != nil {
			return err
		}
		if err := k.pushAsset(ctx, pool.AssetB, holder, paidB); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeesCollected,
				sdk.NewAttribute(types.AttributeKeyHolder, holder.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, paidA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, paidB.String()),
			),
		)
		k.metrics.FeesCollected.WithLabelValues(pool.AssetA).Add(intToFloat(paidA))
		k.metrics.FeesCollected.WithLabelValues(pool.AssetB).Add(intToFloat(paidB))
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return paidA, paidB, nil
}

// CollectProtocolFees sends the whole protocol fee accrual to recipient and zeroes it.
// Only the treasury role may call it.
func (k Keeper) CollectProtocolFees(ctx context.Context, caller, recipient sdk.AccAddress) (math.Int, math.Int, error) {
	if err := k.requireRole(ctx, types.RoleTreasury, caller); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := validateAccount(recipient, "recipient"); err != nil {
		return math.Int{}, math.Int{}, err
	}

	var paidA, paidB math.Int
	err := k.execute(ctx, "collect_protocol_fees", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if pool.Halted {
			return types.ErrPoolHalted
		}

		paidA, paidB = pool.ProtocolFeesA, pool.ProtocolFeesB
		pool.ProtocolFeesA = math.ZeroInt()
		pool.ProtocolFeesB = math.ZeroInt()
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := k.pushAsset(ctx, pool.AssetA, recipient, paidA); err != nil {
			return err
		}
		if err := k.pushAsset(ctx, pool.AssetB, recipient, paidB); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeProtocolFeesCollected,
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, paidA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, paidB.String()),
			),
		)
		k.metrics.ProtocolFeesCollected.WithLabelValues(pool.AssetA).Add(intToFloat(paidA))
		k.metrics.ProtocolFeesCollected.WithLabelValues(pool.AssetB).Add(intToFloat(paidB))
		k.Logger(ctx).Info("protocol fees collected",
			"recipient", recipient.String(),
			"amount_a", paidA.String(),
			"amount_b", paidB.String(),
			"height", strconv.FormatInt(ctx.BlockHeight(), 10),
		)
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return paidA, paidB, nil
}

// GetProtocolFees returns the protocol fees accrued in each asset.
func (k Keeper) GetProtocolFees(ctx context.Context) (math.Int, math.Int, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return pool.ProtocolFeesA, pool.ProtocolFeesB, nil
}
