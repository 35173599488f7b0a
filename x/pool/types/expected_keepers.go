package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetKeeper is the value-transfer collaborator the pool moves assets through. The pool
// does not trust it beyond this interface: every non-nil error aborts the whole call and
// balances are re-read after each pull.
type AssetKeeper interface {
	// Transfer moves amount of asset from the from account, which must be the caller.
	Transfer(ctx context.Context, asset string, from, to sdk.AccAddress, amount math.Int) error
	// TransferFrom moves amount of asset out of from on behalf of spender's allowance.
	TransferFrom(ctx context.Context, asset string, spender, from, to sdk.AccAddress, amount math.Int) error
	// BalanceOf returns the balance of account in asset.
	BalanceOf(ctx context.Context, asset string, account sdk.AccAddress) math.Int
}
