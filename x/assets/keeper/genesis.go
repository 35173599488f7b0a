package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/assets/types"
)

// InitGenesis mints every genesis balance.
func (k Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	for _, b := range gs.Balances {
		if b.Amount.IsZero() {
			continue
		}
		addr, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
		if err := k.Mint(ctx, b.Asset, addr, b.Amount); err != nil {
			return fmt.Errorf("InitGenesis: mint %s to %s: %w", b.Asset, b.Address, err)
		}
	}
	return nil
}

// ExportGenesis returns every non-zero balance. Allowances are not exported.
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()

	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.BalanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(types.BalanceKeyPrefix):]
		if len(key) == 0 || int(key[0])+1 > len(key) {
			return nil, fmt.Errorf("ExportGenesis: malformed balance key %X", iterator.Key())
		}
		addrLen := int(key[0])
		addr := sdk.AccAddress(key[1 : 1+addrLen])
		asset := string(key[1+addrLen:])

		amount := math.ZeroInt()
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return nil, fmt.Errorf("ExportGenesis: balance %s/%s: %w", addr, asset, err)
		}
		gs.Balances = append(gs.Balances, types.Balance{
			Address: addr.String(),
			Asset:   asset,
			Amount:  amount,
		})
	}
	return gs, nil
}
