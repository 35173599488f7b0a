package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/assets/types"
)

// Keeper is a minimal fungible asset ledger with ERC20 style allowances. It lives in the
// same multistore as the pool, so a pool call that fails after moving assets discards the
// ledger writes together with its own.
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper creates a new assets Keeper instance
func NewKeeper(key storetypes.StoreKey) *Keeper {
	return &Keeper{storeKey: key}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

func (k Keeper) getInt(ctx context.Context, key []byte) math.Int {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	v := math.ZeroInt()
	if err := v.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupt ledger entry %X: %w", key, err))
	}
	return v
}

func (k Keeper) setInt(ctx context.Context, key []byte, v math.Int) {
	store := k.getStore(ctx)
	if v.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := v.Marshal()
	if err != nil {
		panic(fmt.Errorf("marshal ledger entry %X: %w", key, err))
	}
	store.Set(key, bz)
}

// BalanceOf returns the balance of account in asset.
func (k Keeper) BalanceOf(ctx context.Context, asset string, account sdk.AccAddress) math.Int {
	return k.getInt(ctx, types.BalanceKey(account, asset))
}

// Allowance returns how much of owner's asset spender may move.
func (k Keeper) Allowance(ctx context.Context, asset string, owner, spender sdk.AccAddress) math.Int {
	return k.getInt(ctx, types.AllowanceKey(owner, spender, asset))
}

// Supply returns the total minted amount of asset.
func (k Keeper) Supply(ctx context.Context, asset string) math.Int {
	return k.getInt(ctx, types.SupplyKey(asset))
}

// Mint credits amount of asset to account.
func (k Keeper) Mint(ctx context.Context, asset string, to sdk.AccAddress, amount math.Int) error {
	if err := validateTransfer(asset, to, amount); err != nil {
		return err
	}
	k.setInt(ctx, types.BalanceKey(to, asset), k.BalanceOf(ctx, asset, to).Add(amount))
	k.setInt(ctx, types.SupplyKey(asset), k.Supply(ctx, asset).Add(amount))

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMint,
			sdk.NewAttribute(types.AttributeKeyAsset, asset),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Transfer moves amount of asset from one account to another.
func (k Keeper) Transfer(ctx context.Context, asset string, from, to sdk.AccAddress, amount math.Int) error {
	if err := validateTransfer(asset, to, amount); err != nil {
		return err
	}
	if from.Empty() {
		return types.ErrInvalidAddress.Wrap("sender cannot be empty")
	}

	balance := k.BalanceOf(ctx, asset, from)
	if balance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s has %s%s, needs %s%s", from, balance, asset, amount, asset)
	}
	k.setInt(ctx, types.BalanceKey(from, asset), balance.Sub(amount))
	k.setInt(ctx, types.BalanceKey(to, asset), k.BalanceOf(ctx, asset, to).Add(amount))

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyAsset, asset),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// TransferFrom spends spender's allowance over from and moves the amount to to.
func (k Keeper) TransferFrom(ctx context.Context, asset string, spender, from, to sdk.AccAddress, amount math.Int) error {
	if spender.Empty() {
		return types.ErrInvalidAddress.Wrap("spender cannot be empty")
	}
	allowance := k.Allowance(ctx, asset, from, spender)
	if allowance.LT(amount) {
		return types.ErrInsufficientAllowance.Wrapf("%s may spend %s%s of %s, needs %s%s",
			spender, allowance, asset, from, amount, asset)
	}
	if err := k.Transfer(ctx, asset, from, to, amount); err != nil {
		return err
	}
	k.setInt(ctx, types.AllowanceKey(from, spender, asset), allowance.Sub(amount))
	return nil
}

// Approve sets spender's allowance over owner's asset, replacing any previous value.
func (k Keeper) Approve(ctx context.Context, asset string, owner, spender sdk.AccAddress, amount math.Int) error {
	if owner.Empty() || spender.Empty() {
		return types.ErrInvalidAddress.Wrap("owner and spender cannot be empty")
	}
	if err := sdk.ValidateDenom(asset); err != nil {
		return types.ErrInvalidAsset.Wrap(err.Error())
	}
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrap("allowance cannot be negative")
	}
	k.setInt(ctx, types.AllowanceKey(owner, spender, asset), amount)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeApproval,
			sdk.NewAttribute(types.AttributeKeyAsset, asset),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeySpender, spender.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

func validateTransfer(asset string, to sdk.AccAddress, amount math.Int) error {
	if err := sdk.ValidateDenom(asset); err != nil {
		return types.ErrInvalidAsset.Wrap(err.Error())
	}
	if to.Empty() {
		return types.ErrInvalidAddress.Wrap("recipient cannot be empty")
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("amount must be positive, got %v", amount)
	}
	return nil
}
