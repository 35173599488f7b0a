package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// pullAsset moves amount from owner into the pool using the pool's allowance, then checks
// the pool balance grew by exactly amount. Assets that skim a transfer fee are rejected.
func (k Keeper) pullAsset(ctx sdk.Context, asset string, from sdk.AccAddress, amount math.Int) error {
	poolAddr := k.PoolAddress()
	before := k.assets.BalanceOf(ctx, asset, poolAddr)

	if err := k.assets.TransferFrom(ctx, asset, poolAddr, from, poolAddr, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("pull %s%s from %s: %v", amount, asset, from, err)
	}

	received := k.assets.BalanceOf(ctx, asset, poolAddr).Sub(before)
	if !received.Equal(amount) {
		return types.ErrTransferFailed.Wrapf("pull %s%s from %s: pool received %s", amount, asset, from, received)
	}
	return nil
}

// pushAsset sends amount from the pool to recipient. Zero amounts are skipped.
func (k Keeper) pushAsset(ctx sdk.Context, asset string, to sdk.AccAddress, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := k.assets.Transfer(ctx, asset, k.PoolAddress(), to, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("push %s%s to %s: %v", amount, asset, to, err)
	}
	return nil
}

func validateAccount(addr sdk.AccAddress, role string) error {
	if addr.Empty() {
		return types.ErrInvalidAddress.Wrapf("%s cannot be empty", role)
	}
	if err := sdk.VerifyAddressFormat(addr); err != nil {
		return types.ErrInvalidAddress.Wrapf("%s: %v", role, err)
	}
	return nil
}

// validatePositive checks amount is positive and within the per-call ceiling.
func validatePositive(amount math.Int, name string, params types.Params) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("%s must be positive", name)
	}
	if amount.GT(params.MaxDepositAmount) {
		return types.ErrAmountTooLarge.Wrapf("%s %s exceeds %s", name, amount, params.MaxDepositAmount)
	}
	return nil
}

func orZero(v math.Int) math.Int {
	if v.IsNil() {
		return math.ZeroInt()
	}
	return v
}
