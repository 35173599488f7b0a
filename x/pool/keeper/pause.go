package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// Pause stops swaps and deposits. Withdrawals and fee collection stay open.
func (k Keeper) Pause(ctx context.Context, caller sdk.AccAddress) error {
	if err := k.requireRole(ctx, types.RolePauser, caller); err != nil {
		return err
	}
	return k.execute(ctx, "pause", func(ctx sdk.Context) error {
		if k.IsPaused(ctx) {
			return types.ErrPoolPaused.Wrap("trading is already paused")
		}
		k.setPaused(ctx, true)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePaused,
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", ctx.BlockHeight())),
			),
		)
		k.metrics.GovernanceActions.WithLabelValues("pause").Inc()
		k.Logger(ctx).Info("pool trading paused", "pauser", caller.String(), "height", ctx.BlockHeight())
		return nil
	})
}

// Unpause resumes trading.
func (k Keeper) Unpause(ctx context.Context, caller sdk.AccAddress) error {
	if err := k.requireRole(ctx, types.RolePauser, caller); err != nil {
		return err
	}
	return k.execute(ctx, "unpause", func(ctx sdk.Context) error {
		if !k.IsPaused(ctx) {
			return types.ErrNotPaused
		}
		k.setPaused(ctx, false)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUnpaused,
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", ctx.BlockHeight())),
			),
		)
		k.metrics.GovernanceActions.WithLabelValues("unpause").Inc()
		k.Logger(ctx).Info("pool trading unpaused", "pauser", caller.String(), "height", ctx.BlockHeight())
		return nil
	})
}
