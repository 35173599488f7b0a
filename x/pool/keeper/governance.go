package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// GrantRole gives account role. Admin only.
func (k Keeper) GrantRole(ctx context.Context, caller sdk.AccAddress, role types.Role, account sdk.AccAddress) error {
	if err := k.requireRole(ctx, types.RoleAdmin, caller); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}
	if err := validateAccount(account, "account"); err != nil {
		return err
	}

	return k.execute(ctx, "grant_role", func(ctx sdk.Context) error {
		k.setRole(ctx, role, account, true)
		k.emitRoleEvent(ctx, types.EventTypeRoleGranted, caller, role, account)
		return nil
	})
}

// RevokeRole removes role from account. Admin only. An admin cannot revoke their own admin
// role; TransferAdmin hands it over instead.
func (k Keeper) RevokeRole(ctx context.Context, caller sdk.AccAddress, role types.Role, account sdk.AccAddress) error {
	if err := k.requireRole(ctx, types.RoleAdmin, caller); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}
	if err := validateAccount(account, "account"); err != nil {
		return err
	}
	if role == types.RoleAdmin && account.Equals(caller) {
		return types.ErrInvalidRole.Wrap("use admin transfer to give up the admin role")
	}

	return k.execute(ctx, "revoke_role", func(ctx sdk.Context) error {
		if !k.HasRole(ctx, role, account) {
			return types.ErrInvalidRole.Wrapf("%s does not hold %s", account, role)
		}
		k.setRole(ctx, role, account, false)
		k.emitRoleEvent(ctx, types.EventTypeRoleRevoked, caller, role, account)
		return nil
	})
}

// TransferAdmin moves the caller's admin role to newAdmin.
func (k Keeper) TransferAdmin(ctx context.Context, caller, newAdmin sdk.AccAddress) error {
	if err := k.requireRole(ctx, types.RoleAdmin, caller); err != nil {
		return err
	}
	if err := validateAccount(newAdmin, "new admin"); err != nil {
		return err
	}
	if newAdmin.Equals(caller) {
		return types.ErrInvalidAddress.Wrap("new admin is already the caller")
	}

	return k.execute(ctx, "transfer_admin", func(ctx sdk.Context) error {
		k.setRole(ctx, types.RoleAdmin, newAdmin, true)
		k.setRole(ctx, types.RoleAdmin, caller, false)
		k.emitRoleEvent(ctx, types.EventTypeRoleGranted, caller, types.RoleAdmin, newAdmin)
		k.emitRoleEvent(ctx, types.EventTypeRoleRevoked, caller, types.RoleAdmin, caller)
		k.Logger(ctx).Info("pool admin transferred", "from", caller.String(), "to", newAdmin.String())
		return nil
	})
}

func (k Keeper) emitRoleEvent(ctx sdk.Context, eventType string, actor sdk.AccAddress, role types.Role, account sdk.AccAddress) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyActor, actor.String()),
			sdk.NewAttribute(types.AttributeKeyRole, role.String()),
			sdk.NewAttribute(types.AttributeKeyAccount, account.String()),
		),
	)
	k.metrics.GovernanceActions.WithLabelValues(eventType).Inc()
}

// RecoverForeignAsset sends an asset that is not one of the pool's two assets from the
// pool account to recipient. Treasury only.
func (k Keeper) RecoverForeignAsset(
	ctx context.Context,
	caller sdk.AccAddress,
	asset string,
	recipient sdk.AccAddress,
	amount math.Int,
) error {
	if err := k.requireRole(ctx, types.RoleTreasury, caller); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(asset); err != nil {
		return types.ErrInvalidAsset.Wrap(err.Error())
	}
	if err := validateAccount(recipient, "recipient"); err != nil {
		return err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("amount must be positive")
	}

	return k.execute(ctx, "recover_foreign_asset", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if pool.IsPoolAsset(asset) {
			return types.ErrProtectedAsset.Wrapf("%s cannot be recovered", asset)
		}
		if err := k.pushAsset(ctx, asset, recipient, amount); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeForeignAssetRecovered,
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeyAsset, asset),
				sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			),
		)
		k.metrics.GovernanceActions.WithLabelValues("recover_foreign_asset").Inc()
		return nil
	})
}

// Skim sends any pool asset balance held above reserves and fee liabilities to recipient.
// Treasury only. This is how unsolicited donations that trip the drift guard are cleared.
func (k Keeper) Skim(ctx context.Context, caller, recipient sdk.AccAddress) (math.Int, math.Int, error) {
	if err := k.requireRole(ctx, types.RoleTreasury, caller); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := validateAccount(recipient, "recipient"); err != nil {
		return math.Int{}, math.Int{}, err
	}

	var excessA, excessB math.Int
	err := k.execute(ctx, "skim", func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return err
		}
		if pool.Halted {
			return types.ErrPoolHalted
		}

		status := k.reserveStatus(ctx, pool)
		excessA, excessB = status[0].Excess(), status[1].Excess()
		if excessA.IsZero() && excessB.IsZero() {
			return types.ErrNothingToSkim
		}
		if err := k.pushAsset(ctx, pool.AssetA, recipient, excessA); err != nil {
			return err
		}
		if err := k.pushAsset(ctx, pool.AssetB, recipient, excessB); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSkimmed,
				sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
				sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, excessA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, excessB.String()),
			),
		)
		k.metrics.GovernanceActions.WithLabelValues("skim").Inc()
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return excessA, excessB, nil
}
