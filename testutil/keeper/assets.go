package keeper

import (
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	assetskeeper "github.com/paw-chain/pawpool/x/assets/keeper"
	assetstypes "github.com/paw-chain/pawpool/x/assets/types"
)

// AssetsKeeper creates a standalone asset ledger on an in-memory store.
func AssetsKeeper(t TestingT) (*assetskeeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(assetstypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: GenesisTime}, false, log.NewNopLogger())
	return assetskeeper.NewKeeper(storeKey), ctx
}
