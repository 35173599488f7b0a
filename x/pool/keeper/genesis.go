package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// InitGenesis initializes the pool module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	if k.getStore(ctx).Has(types.PoolKey) {
		return types.ErrPoolAlreadyInitialized
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, grant := range genState.Roles {
		role, err := types.ParseRole(grant.Role)
		if err != nil {
			return err
		}
		addr, err := sdk.AccAddressFromBech32(grant.Address)
		if err != nil {
			return fmt.Errorf("role grant %s: %w", grant.Address, err)
		}
		k.setRole(ctx, role, addr, true)
	}

	pool := types.NewPool(genState.AssetA, genState.AssetB, genState.SwapFeeBps, sdkCtx.BlockHeight())
	if genState.Pool != nil {
		pool = *genState.Pool
	}
	if err := k.SetPool(ctx, pool); err != nil {
		return fmt.Errorf("failed to set pool: %w", err)
	}

	for _, pos := range genState.Positions {
		holder, err := sdk.AccAddressFromBech32(pos.Holder)
		if err != nil {
			return fmt.Errorf("position %s: %w", pos.Holder, err)
		}
		if err := k.setShares(ctx, holder, pos.Shares); err != nil {
			return err
		}
	}

	for _, rec := range genState.FeeAccruals {
		holder, err := sdk.AccAddressFromBech32(rec.Holder)
		if err != nil {
			return fmt.Errorf("fee accrual %s: %w", rec.Holder, err)
		}
		if err := k.setFeeAccrual(ctx, holder, rec.Accrual); err != nil {
			return err
		}
	}

	for _, p := range genState.Proposals {
		if err := k.setProposal(ctx, p); err != nil {
			return err
		}
	}
	if genState.NextProposalID > 0 {
		k.SetNextProposalID(ctx, genState.NextProposalID)
	}

	if genState.Snapshot != nil {
		if err := k.setSnapshot(ctx, *genState.Snapshot); err != nil {
			return err
		}
	}
	k.setPaused(ctx, genState.Paused)

	k.Logger(sdkCtx).Info("pool initialized",
		"asset_a", pool.AssetA,
		"asset_b", pool.AssetB,
		"swap_fee_bps", pool.SwapFeeBps,
		"roles", len(genState.Roles),
	)
	return nil
}

// ExportGenesis returns the pool module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return nil, err
	}

	genesis := &types.GenesisState{
		Params:         params,
		AssetA:         pool.AssetA,
		AssetB:         pool.AssetB,
		SwapFeeBps:     pool.SwapFeeBps,
		Roles:          []types.RoleGrant{},
		Pool:           &pool,
		NextProposalID: k.GetNextProposalID(ctx),
		Paused:         k.IsPaused(ctx),
	}

	for _, role := range types.AllRoles() {
		members, err := k.GetRoleMembers(ctx, role)
		if err != nil {
			return nil, err
		}
		for _, addr := range members {
			genesis.Roles = append(genesis.Roles, types.RoleGrant{Role: role.String(), Address: addr.String()})
		}
	}

	if err := k.IteratePositions(ctx, func(holder sdk.AccAddress, shares math.Int) bool {
		genesis.Positions = append(genesis.Positions, types.PositionRecord{Holder: holder.String(), Shares: shares})
		return false
	}); err != nil {
		return nil, err
	}

	if err := k.IterateFeeAccruals(ctx, func(holder sdk.AccAddress, acc types.FeeAccrual) bool {
		genesis.FeeAccruals = append(genesis.FeeAccruals, types.FeeAccrualRecord{Holder: holder.String(), Accrual: acc})
		return false
	}); err != nil {
		return nil, err
	}

	if genesis.Proposals, err = k.GetProposals(ctx); err != nil {
		return nil, err
	}

	snap, found, err := k.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		genesis.Snapshot = &snap
	}
	return genesis, nil
}
