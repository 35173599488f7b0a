package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// Keeper owns the state of a single constant-product pool.
type Keeper struct {
	storeKey storetypes.StoreKey
	assets   types.AssetKeeper
	metrics  *PoolMetrics

	poolAddress sdk.AccAddress
	sinkAddress sdk.AccAddress
}

// NewKeeper creates a new pool Keeper instance
func NewKeeper(key storetypes.StoreKey, assets types.AssetKeeper) *Keeper {
	return &Keeper{
		storeKey:    key,
		assets:      assets,
		metrics:     NewPoolMetrics(),
		poolAddress: authtypes.NewModuleAddress(types.ModuleName),
		sinkAddress: authtypes.NewModuleAddress(types.SinkName),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the pool module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// PoolAddress is the account holding the pool's assets.
func (k Keeper) PoolAddress() sdk.AccAddress {
	return k.poolAddress
}

// SinkAddress is the account holding the permanently locked MinimumLiquidity claim tokens.
func (k Keeper) SinkAddress() sdk.AccAddress {
	return k.sinkAddress
}
