package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// ProposeFee queues a swap fee change that matures FeeChangeDelay after the current block time.
func (k Keeper) ProposeFee(ctx context.Context, caller sdk.AccAddress, newFeeBps uint32) (types.FeeProposal, error) {
	if err := k.requireRole(ctx, types.RoleFeeProposer, caller); err != nil {
		return types.FeeProposal{}, err
	}
	if err := types.ValidateSwapFee(newFeeBps); err != nil {
		return types.FeeProposal{}, err
	}

	var proposal types.FeeProposal
	err := k.execute(ctx, "propose_fee", func(ctx sdk.Context) error {
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

		id := k.GetNextProposalID(ctx)
		proposal = types.FeeProposal{
			ID:           id,
			NewFeeBps:    newFeeBps,
			Proposer:     caller.String(),
			ProposedAt:   ctx.BlockTime(),
			ExecutableAt: ctx.BlockTime().Add(params.FeeChangeDelay),
		}
		if err := k.setProposal(ctx, proposal); err != nil {
			return err
		}
		k.SetNextProposalID(ctx, id+1)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeeProposed,
				sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(id, 10)),
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeyOldFee, strconv.FormatUint(uint64(pool.SwapFeeBps), 10)),
				sdk.NewAttribute(types.AttributeKeyNewFee, strconv.FormatUint(uint64(newFeeBps), 10)),
				sdk.NewAttribute(types.AttributeKeyExecutableAt, proposal.ExecutableAt.UTC().String()),
			),
		)
		k.metrics.GovernanceActions.WithLabelValues("propose_fee").Inc()
		return nil
	})
	if err != nil {
		return types.FeeProposal{}, err
	}
	return proposal, nil
}

// ExecuteFee applies a matured fee proposal.
func (k Keeper) ExecuteFee(ctx context.Context, caller sdk.AccAddress, proposalID uint64) error {
	if err := k.requireRole(ctx, types.RoleTimelockExecutor, caller); err != nil {
		return err
	}

	return k.execute(ctx, "execute_fee", func(ctx sdk.Context) error {
		proposal, err := k.GetProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if !proposal.IsMature(ctx.BlockTime()) {
			return types.ErrTimelockNotMature.Wrapf("proposal %d executable at %s, block time %s",
				proposalID, proposal.ExecutableAt.UTC(), ctx.BlockTime().UTC())
		}
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if pool.Halted {
			return types.ErrPoolHalted
		}
		if err := types.ValidateSwapFee(proposal.NewFeeBps); err != nil {
			return err
		}

		oldFee := pool.SwapFeeBps
		pool.SwapFeeBps = proposal.NewFeeBps
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}
		k.deleteProposal(ctx, proposalID)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeeUpdated,
				sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(proposalID, 10)),
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeyOldFee, strconv.FormatUint(uint64(oldFee), 10)),
				sdk.NewAttribute(types.AttributeKeyNewFee, strconv.FormatUint(uint64(pool.SwapFeeBps), 10)),
			),
		)
		k.metrics.GovernanceActions.WithLabelValues("execute_fee").Inc()
		k.Logger(ctx).Info("swap fee updated",
			"proposal", proposalID,
			"old_fee_bps", oldFee,
			"new_fee_bps", pool.SwapFeeBps,
		)
		return nil
	})
}

// CancelFee drops a pending proposal. The fee proposer role or the admin may cancel.
func (k Keeper) CancelFee(ctx context.Context, caller sdk.AccAddress, proposalID uint64) error {
	if !k.HasRole(ctx, types.RoleFeeProposer, caller) && !k.HasRole(ctx, types.RoleAdmin, caller) {
		return types.ErrUnauthorized.Wrapf("%s may not cancel fee proposals", caller)
	}

	return k.execute(ctx, "cancel_fee", func(ctx sdk.Context) error {
		if _, err := k.GetProposal(ctx, proposalID); err != nil {
			return err
		}
		k.deleteProposal(ctx, proposalID)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeeProposalCancelled,
				sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(proposalID, 10)),
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
			),
		)
		k.metrics.GovernanceActions.WithLabelValues("cancel_fee").Inc()
		return nil
	})
}
