package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// SwapQuote is the priced result of a trade before any state changes.
type SwapQuote struct {
	AmountIn  math.Int `json:"amount_in"`
	NetIn     math.Int `json:"net_in"`
	Fee       math.Int `json:"fee"`
	AmountOut math.Int `json:"amount_out"`
}

// CalculateSwapOutput prices a trade against the constant product curve:
//
//	netIn     = amountIn * (FeeDenominator - fee) / FeeDenominator
//	amountOut = netIn * reserveOut / (reserveIn + netIn)
//
// Both divisions round down, in the pool's favour.
func CalculateSwapOutput(amountIn, reserveIn, reserveOut math.Int, feeBps uint32) (SwapQuote, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return SwapQuote{}, types.ErrInvalidAmount.Wrap("amount in must be positive")
	}
	if reserveIn.IsNil() || reserveOut.IsNil() || !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return SwapQuote{}, types.ErrInsufficientLiquidity.Wrap("pool has no liquidity")
	}
	if err := types.ValidateSwapFee(feeBps); err != nil {
		return SwapQuote{}, err
	}

	netIn, err := SafeMulDiv(amountIn, math.NewInt(types.FeeDenominator-int64(feeBps)), math.NewInt(types.FeeDenominator))
	if err != nil {
		return SwapQuote{}, types.ErrAmountTooLarge.Wrap(err.Error())
	}
	amountOut, err := SafeMulDiv(netIn, reserveOut, reserveIn.Add(netIn))
	if err != nil {
		return SwapQuote{}, types.ErrAmountTooLarge.Wrap(err.Error())
	}

	return SwapQuote{
		AmountIn:  amountIn,
		NetIn:     netIn,
		Fee:       amountIn.Sub(netIn),
		AmountOut: amountOut,
	}, nil
}

// quote prices amountIn against pool, applying the trade size limit.
func quote(pool types.Pool, params types.Params, amountIn math.Int, direction types.Direction) (SwapQuote, error) {
	if pool.IsEmpty() {
		return SwapQuote{}, types.ErrInsufficientLiquidity.Wrap("pool has no liquidity")
	}
	reserveIn, reserveOut := pool.Reserves(direction)
	if exceedsBps(amountIn, reserveIn, params.MaxSwapFractionBps, types.FeeDenominator) {
		return SwapQuote{}, types.ErrSwapTooLarge.Wrapf("amount in %s exceeds %d bps of reserve %s",
			amountIn, params.MaxSwapFractionBps, reserveIn)
	}
	q, err := CalculateSwapOutput(amountIn, reserveIn, reserveOut, pool.SwapFeeBps)
	if err != nil {
		return SwapQuote{}, err
	}
	if q.AmountOut.IsZero() {
		return SwapQuote{}, types.ErrZeroOutput.Wrapf("amount in %s", amountIn)
	}
	return q, nil
}

// Quote prices a trade against the current reserves without executing it.
func (k Keeper) Quote(ctx context.Context, amountIn math.Int, direction types.Direction) (SwapQuote, error) {
	if err := direction.Validate(); err != nil {
		return SwapQuote{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return SwapQuote{}, err
	}
	if err := validatePositive(amountIn, "amount in", params); err != nil {
		return SwapQuote{}, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return SwapQuote{}, err
	}
	return quote(pool, params, amountIn, direction)
}

// Swap sells amountIn of one asset for the other. The trader must have approved the pool
// account for amountIn. The fee is taken from the input; the reserve grows by the net input
// only and the fee is booked as LP and protocol liabilities.
func (k Keeper) Swap(
	ctx context.Context,
	trader sdk.AccAddress,
	amountIn math.Int,
	direction types.Direction,
	minAmountOut math.Int,
	deadline int64,
) (math.Int, error) {
	if err := validateAccount(trader, "trader"); err != nil {
		return math.Int{}, err
	}
	if err := direction.Validate(); err != nil {
		return math.Int{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if err := validatePositive(amountIn, "amount in", params); err != nil {
		return math.Int{}, err
	}
	minAmountOut = orZero(minAmountOut)
	if minAmountOut.IsNegative() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("minimum amount out cannot be negative")
	}

	var amountOut math.Int
	err = k.execute(ctx, "swap", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if err := k.requireTradable(ctx, pool); err != nil {
			return err
		}
		if err := checkDeadline(ctx, deadline); err != nil {
			return err
		}
		if err := k.guardReserves(ctx, pool, params); err != nil {
			return err
		}

		q, err := quote(pool, params, amountIn, direction)
		if err != nil {
			return err
		}
		assetIn, assetOut := pool.Assets(direction)
		if q.AmountOut.LT(minAmountOut) {
			return &types.SlippageError{Asset: assetOut, Minimum: minAmountOut, Actual: q.AmountOut}
		}

		oldK := pool.ReserveA.Mul(pool.ReserveB)

		// Input leg: pull, then book reserve and fee before anything leaves the pool.
		if err := k.pullAsset(ctx, assetIn, trader, amountIn); err != nil {
			return err
		}
		fee := accrueTradeFee(&pool, direction, splitTradeFee(q.Fee, params.ProtocolFeeShareBps))
		if direction == types.DirectionAToB {
			pool.ReserveA = pool.ReserveA.Add(q.NetIn)
			pool.ReserveB = pool.ReserveB.Sub(q.AmountOut)
		} else {
			pool.ReserveB = pool.ReserveB.Add(q.NetIn)
			pool.ReserveA = pool.ReserveA.Sub(q.AmountOut)
		}

		if err := ValidatePoolInvariant(pool, oldK); err != nil {
			return err
		}
		if err := pool.Validate(); err != nil {
			return err
		}
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := k.pushAsset(ctx, assetOut, trader, q.AmountOut); err != nil {
			return err
		}
		amountOut = q.AmountOut

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeTradeExecuted,
				sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
				sdk.NewAttribute(types.AttributeKeyAssetIn, assetIn),
				sdk.NewAttribute(types.AttributeKeyAssetOut, assetOut),
				sdk.NewAttribute(types.AttributeKeyAmountIn, amountIn.String()),
				sdk.NewAttribute(types.AttributeKeyAmountOut, q.AmountOut.String()),
				sdk.NewAttribute(types.AttributeKeyFee, fee.Total.String()),
				sdk.NewAttribute(types.AttributeKeyLPFee, fee.LP.String()),
				sdk.NewAttribute(types.AttributeKeyProtocolFee, fee.Protocol.String()),
				sdk.NewAttribute(types.AttributeKeyReserveA, pool.ReserveA.String()),
				sdk.NewAttribute(types.AttributeKeyReserveB, pool.ReserveB.String()),
			),
		)

		k.metrics.SwapsTotal.WithLabelValues(direction.String()).Inc()
		k.metrics.SwapVolume.WithLabelValues(assetIn).Add(intToFloat(amountIn))
		k.metrics.SwapFeesCollected.WithLabelValues(assetIn, "lp").Add(intToFloat(fee.LP))
		k.metrics.SwapFeesCollected.WithLabelValues(assetIn, "protocol").Add(intToFloat(fee.Protocol))
		k.metrics.recordPool(pool)
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}
	return amountOut, nil
}

// SpotPrice returns reserveOut/reserveIn for direction.
func (k Keeper) SpotPrice(ctx context.Context, direction types.Direction) (math.LegacyDec, error) {
	if err := direction.Validate(); err != nil {
		return math.LegacyDec{}, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if pool.IsEmpty() {
		return math.LegacyDec{}, types.ErrInsufficientLiquidity.Wrap("pool has no liquidity")
	}
	reserveIn, reserveOut := pool.Reserves(direction)
	return math.LegacyNewDecFromInt(reserveOut).QuoInt(reserveIn), nil
}
