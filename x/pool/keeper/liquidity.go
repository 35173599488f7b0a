package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// mintShares credits claim tokens to holder after settling their fee accrual.
func (k Keeper) mintShares(ctx sdk.Context, pool *types.Pool, holder sdk.AccAddress, amount math.Int) error {
	if _, err := k.settleAccrual(ctx, *pool, holder); err != nil {
		return err
	}
	if err := k.setShares(ctx, holder, k.GetShares(ctx, holder).Add(amount)); err != nil {
		return err
	}
	pool.TotalSupply = pool.TotalSupply.Add(amount)
	return nil
}

// burnShares debits claim tokens from holder after settling their fee accrual.
func (k Keeper) burnShares(ctx sdk.Context, pool *types.Pool, holder sdk.AccAddress, amount math.Int) error {
	acc, err := k.settleAccrual(ctx, *pool, holder)
	if err != nil {
		return err
	}
	remaining, err := SafeSub(k.GetShares(ctx, holder), amount)
	if err != nil {
		return types.ErrInsufficientShares.Wrapf("%s: %v", holder, err)
	}
	if err := k.setShares(ctx, holder, remaining); err != nil {
		return err
	}
	pool.TotalSupply = pool.TotalSupply.Sub(amount)
	k.pruneAccrual(ctx, holder, acc)
	return nil
}

// CalculateDepositShares returns the claim tokens a deposit issues. The first deposit
// issues floor(sqrt(a*b)) of which MinimumLiquidity is locked; it must exceed that
// amount. Later deposits must match the reserve ratio within toleranceBps and issue
// floor(supply*a/reserveA).
func CalculateDepositShares(pool types.Pool, amountA, amountB math.Int, toleranceBps uint32) (math.Int, error) {
	if pool.IsEmpty() {
		liquidity, err := SqrtProduct(amountA, amountB)
		if err != nil {
			return math.Int{}, types.ErrAmountTooLarge.Wrap(err.Error())
		}
		if liquidity.LTE(math.NewInt(types.MinimumLiquidity)) {
			return math.Int{}, types.ErrInsufficientLiquidity.Wrapf(
				"initial liquidity %s must exceed %d", liquidity, types.MinimumLiquidity)
		}
		return liquidity, nil
	}

	expectedB, err := SafeMulDiv(amountA, pool.ReserveB, pool.ReserveA)
	if err != nil {
		return math.Int{}, types.ErrAmountTooLarge.Wrap(err.Error())
	}
	if exceedsBps(amountB.Sub(expectedB).Abs(), expectedB, toleranceBps, types.FeeDenominator) {
		return math.Int{}, &types.RatioMismatchError{
			Expected:     expectedB,
			Provided:     amountB,
			ToleranceBps: toleranceBps,
		}
	}

	shares, err := SafeMulDiv(pool.TotalSupply, amountA, pool.ReserveA)
	if err != nil {
		return math.Int{}, types.ErrAmountTooLarge.Wrap(err.Error())
	}
	if !shares.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("deposit too small to issue claim tokens")
	}
	return shares, nil
}

// AddLiquidity deposits both assets and issues claim tokens to provider. The provider
// must have approved the pool account for both amounts.
func (k Keeper) AddLiquidity(ctx context.Context, provider sdk.AccAddress, amountA, amountB math.Int) (math.Int, error) {
	if err := validateAccount(provider, "provider"); err != nil {
		return math.Int{}, err
	}
	if provider.Equals(k.SinkAddress()) || provider.Equals(k.PoolAddress()) {
		return math.Int{}, types.ErrInvalidAddress.Wrap("provider cannot be a pool account")
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if err := validatePositive(amountA, "amount A", params); err != nil {
		return math.Int{}, err
	}
	if err := validatePositive(amountB, "amount B", params); err != nil {
		return math.Int{}, err
	}

	var issued math.Int
	err = k.execute(ctx, "add_liquidity", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if err := k.requireTradable(ctx, pool); err != nil {
			return err
		}
		if err := k.guardReserves(ctx, pool, params); err != nil {
			return err
		}

		firstDeposit := pool.IsEmpty()
		liquidity, err := CalculateDepositShares(pool, amountA, amountB, params.RatioToleranceBps)
		if err != nil {
			return err
		}

		issued = liquidity
		if firstDeposit {
			locked := math.NewInt(types.MinimumLiquidity)
			if err := k.mintShares(ctx, &pool, k.SinkAddress(), locked); err != nil {
				return err
			}
			issued = liquidity.Sub(locked)
		}
		if err := k.mintShares(ctx, &pool, provider, issued); err != nil {
			return err
		}

		if err := k.pullAsset(ctx, pool.AssetA, provider, amountA); err != nil {
			return err
		}
		if err := k.pullAsset(ctx, pool.AssetB, provider, amountB); err != nil {
			return err
		}
		pool.ReserveA = pool.ReserveA.Add(amountA)
		pool.ReserveB = pool.ReserveB.Add(amountB)

		if err := pool.Validate(); err != nil {
			return err
		}
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeLiquidityAdded,
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
				sdk.NewAttribute(types.AttributeKeyShares, issued.String()),
				sdk.NewAttribute(types.AttributeKeySupply, pool.TotalSupply.String()),
			),
		)

		k.metrics.LiquidityAdded.WithLabelValues(pool.AssetA).Add(intToFloat(amountA))
		k.metrics.LiquidityAdded.WithLabelValues(pool.AssetB).Add(intToFloat(amountB))
		k.metrics.recordPool(pool)

		if firstDeposit {
			k.Logger(ctx).Info("pool seeded",
				"provider", provider.String(),
				"reserve_a", pool.ReserveA.String(),
				"reserve_b", pool.ReserveB.String(),
				"locked", types.MinimumLiquidity,
			)
		}
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}
	return issued, nil
}

// RemoveLiquidity burns claim tokens and returns the proportional reserves. The remaining
// reserves must pass the creation check: floor(sqrt(reserveA*reserveB)) above MinimumLiquidity.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	claim, minAmountA, minAmountB math.Int,
	deadline int64,
) (math.Int, math.Int, error) {
	if err := validateAccount(provider, "provider"); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if provider.Equals(k.SinkAddress()) {
		return math.Int{}, math.Int{}, types.ErrUnauthorized.Wrap("locked minimum liquidity cannot be redeemed")
	}
	if claim.IsNil() || !claim.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("claim must be positive")
	}
	minAmountA, minAmountB = orZero(minAmountA), orZero(minAmountB)
	if minAmountA.IsNegative() || minAmountB.IsNegative() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("minimum amounts cannot be negative")
	}

	var amountA, amountB math.Int
	err := k.execute(ctx, "remove_liquidity", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if pool.Halted {
			return types.ErrPoolHalted.Wrap("use emergency redemption")
		}
		if err := checkDeadline(ctx, deadline); err != nil {
			return err
		}
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if err := k.guardReserves(ctx, pool, params); err != nil {
			return err
		}

		held := k.GetShares(ctx, provider)
		if held.LT(claim) {
			return types.ErrInsufficientShares.Wrapf("holds %s, claims %s", held, claim)
		}

		if amountA, err = SafeMulDiv(claim, pool.ReserveA, pool.TotalSupply); err != nil {
			return types.ErrInvariantViolation.Wrap(err.Error())
		}
		if amountB, err = SafeMulDiv(claim, pool.ReserveB, pool.TotalSupply); err != nil {
			return types.ErrInvariantViolation.Wrap(err.Error())
		}
		if amountA.IsZero() || amountB.IsZero() {
			return types.ErrInsufficientLiquidity.Wrapf("claim %s redeems %s/%s", claim, amountA, amountB)
		}
		if amountA.LT(minAmountA) {
			return &types.SlippageError{Asset: pool.AssetA, Minimum: minAmountA, Actual: amountA}
		}
		if amountB.LT(minAmountB) {
			return &types.SlippageError{Asset: pool.AssetB, Minimum: minAmountB, Actual: amountB}
		}

		remainingA := pool.ReserveA.Sub(amountA)
		remainingB := pool.ReserveB.Sub(amountB)
		remaining, err := SqrtProduct(remainingA, remainingB)
		if err != nil {
			return types.ErrInvariantViolation.Wrap(err.Error())
		}
		if remaining.LTE(math.NewInt(types.MinimumLiquidity)) {
			return types.ErrInsufficientLiquidity.Wrapf(
				"remaining liquidity %s must exceed %d", remaining, types.MinimumLiquidity)
		}

		if err := k.burnShares(ctx, &pool, provider, claim); err != nil {
			return err
		}
		pool.ReserveA = remainingA
		pool.ReserveB = remainingB
		if err := pool.Validate(); err != nil {
			return err
		}
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := k.pushAsset(ctx, pool.AssetA, provider, amountA); err != nil {
			return err
		}
		if err := k.pushAsset(ctx, pool.AssetB, provider, amountB); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeLiquidityRemoved,
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyShares, claim.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
				sdk.NewAttribute(types.AttributeKeySupply, pool.TotalSupply.String()),
			),
		)

		k.metrics.LiquidityRemoved.WithLabelValues(pool.AssetA).Add(intToFloat(amountA))
		k.metrics.LiquidityRemoved.WithLabelValues(pool.AssetB).Add(intToFloat(amountB))
		k.metrics.recordPool(pool)
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountA, amountB, nil
}

// TransferShares moves claim tokens between holders, settling both fee accruals first.
func (k Keeper) TransferShares(ctx context.Context, from, to sdk.AccAddress, amount math.Int) error {
	if err := validateAccount(from, "sender"); err != nil {
		return err
	}
	if err := validateAccount(to, "recipient"); err != nil {
		return err
	}
	if from.Equals(k.SinkAddress()) {
		return types.ErrUnauthorized.Wrap("locked minimum liquidity cannot be transferred")
	}
	if to.Equals(k.SinkAddress()) || to.Equals(k.PoolAddress()) {
		return types.ErrInvalidAddress.Wrap("recipient cannot be a pool account")
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("amount must be positive")
	}

	return k.execute(ctx, "transfer_shares", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		supply := pool.TotalSupply
		if err := k.burnShares(ctx, &pool, from, amount); err != nil {
			return err
		}
		if err := k.mintShares(ctx, &pool, to, amount); err != nil {
			return err
		}
		if !pool.TotalSupply.Equal(supply) {
			return types.ErrInvariantViolation.Wrap("claim supply changed during transfer")
		}
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSharesTransferred,
				sdk.NewAttribute(types.AttributeKeySender, from.String()),
				sdk.NewAttribute(types.AttributeKeyRecipient, to.String()),
				sdk.NewAttribute(types.AttributeKeyShares, amount.String()),
			),
		)
		return nil
	})
}
