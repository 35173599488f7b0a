package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/pawpool/testutil/keeper"
	"github.com/paw-chain/pawpool/x/pool/types"
)

func TestPause(t *testing.T) {
	f := keepertest.PoolKeeper(t)
	stranger := keepertest.TestAddr("stranger")

	require.ErrorIs(t, f.Keeper.Pause(f.Ctx, stranger), types.ErrUnauthorized)
	require.ErrorIs(t, f.Keeper.Unpause(f.Ctx, f.Pauser), types.ErrNotPaused)

	require.NoError(t, f.Keeper.Pause(f.Ctx, f.Pauser))
	require.True(t, f.Keeper.IsPaused(f.Ctx))
	require.ErrorIs(t, f.Keeper.Pause(f.Ctx, f.Pauser), types.ErrPoolPaused)

	require.ErrorIs(t, f.Keeper.Unpause(f.Ctx, stranger), types.ErrUnauthorized)
	require.NoError(t, f.Keeper.Unpause(f.Ctx, f.Pauser))
	require.False(t, f.Keeper.IsPaused(f.Ctx))
}

func TestFeeTimelock(t *testing.T) {
	f := setupPoolForSwaps(t)

	_, err := f.Keeper.ProposeFee(f.Ctx, f.Executor, 50)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	for _, fee := range []uint32{0, types.MaxSwapFeeBps + 1} {
		_, err = f.Keeper.ProposeFee(f.Ctx, f.Proposer, fee)
		require.ErrorIs(t, err, types.ErrInvalidFee)
	}

	proposal, err := f.Keeper.ProposeFee(f.Ctx, f.Proposer, 50)
	require.NoError(t, err)
	require.Equal(t, uint64(1), proposal.ID)
	require.True(t, keepertest.GenesisTime.Add(types.DefaultFeeChangeDelay).Equal(proposal.ExecutableAt))

	// Authorization is checked before the proposal is even looked up.
	require.ErrorIs(t, f.Keeper.ExecuteFee(f.Ctx, f.Proposer, 99), types.ErrUnauthorized)
	require.ErrorIs(t, f.Keeper.ExecuteFee(f.Ctx, f.Executor, 99), types.ErrProposalNotFound)

	require.ErrorIs(t, f.Keeper.ExecuteFee(f.Ctx, f.Executor, proposal.ID), types.ErrTimelockNotMature)
	f.NextBlock(types.DefaultFeeChangeDelay - time.Second)
	require.ErrorIs(t, f.Keeper.ExecuteFee(f.Ctx, f.Executor, proposal.ID), types.ErrTimelockNotMature)

	f.NextBlock(time.Second)
	require.NoError(t, f.Keeper.ExecuteFee(f.Ctx, f.Executor, proposal.ID))

	var updates []map[string]string
	for _, ev := range f.Ctx.EventManager().Events() {
		if ev.Type != types.EventTypeFeeUpdated {
			continue
		}
		attrs := map[string]string{}
		for _, a := range ev.Attributes {
			attrs[a.Key] = a.Value
		}
		updates = append(updates, attrs)
	}
	require.Len(t, updates, 1)
	require.Equal(t, "30", updates[0][types.AttributeKeyOldFee])
	require.Equal(t, "50", updates[0][types.AttributeKeyNewFee])

	pool, err := f.Keeper.GetPool(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(50), pool.SwapFeeBps)
	require.ErrorIs(t, f.Keeper.ExecuteFee(f.Ctx, f.Executor, proposal.ID), types.ErrProposalNotFound)

	// The new fee prices the next trade.
	q, err := f.Keeper.Quote(f.Ctx, math.NewInt(10_000), types.DirectionAToB)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(50), q.Fee)

	next, err := f.Keeper.ProposeFee(f.Ctx, f.Proposer, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(2), next.ID)
}

func TestCancelFee(t *testing.T) {
	f := setupPoolForSwaps(t)
	first, err := f.Keeper.ProposeFee(f.Ctx, f.Proposer, 50)
	require.NoError(t, err)
	second, err := f.Keeper.ProposeFee(f.Ctx, f.Proposer, 60)
	require.NoError(t, err)

	require.ErrorIs(t, f.Keeper.CancelFee(f.Ctx, f.Executor, first.ID), types.ErrUnauthorized)
	require.NoError(t, f.Keeper.CancelFee(f.Ctx, f.Proposer, first.ID))
	require.NoError(t, f.Keeper.CancelFee(f.Ctx, f.Admin, second.ID))
	require.ErrorIs(t, f.Keeper.CancelFee(f.Ctx, f.Admin, second.ID), types.ErrProposalNotFound)

	proposals, err := f.Keeper.GetProposals(f.Ctx)
	require.NoError(t, err)
	require.Empty(t, proposals)
}

func TestRoles(t *testing.T) {
	f := keepertest.PoolKeeper(t)
	alice := keepertest.TestAddr("alice")
	bob := keepertest.TestAddr("bob")

	require.ErrorIs(t, f.Keeper.GrantRole(f.Ctx, alice, types.RolePauser, alice), types.ErrUnauthorized)
	require.ErrorIs(t, f.Keeper.GrantRole(f.Ctx, f.Admin, types.RoleUnspecified, alice), types.ErrInvalidRole)

	require.NoError(t, f.Keeper.GrantRole(f.Ctx, f.Admin, types.RolePauser, alice))
	require.True(t, f.Keeper.HasRole(f.Ctx, types.RolePauser, alice))
	require.NoError(t, f.Keeper.Pause(f.Ctx, alice))

	require.NoError(t, f.Keeper.RevokeRole(f.Ctx, f.Admin, types.RolePauser, alice))
	require.False(t, f.Keeper.HasRole(f.Ctx, types.RolePauser, alice))
	require.ErrorIs(t, f.Keeper.Unpause(f.Ctx, alice), types.ErrUnauthorized)
	require.ErrorIs(t, f.Keeper.RevokeRole(f.Ctx, f.Admin, types.RolePauser, alice), types.ErrInvalidRole)

	require.ErrorIs(t, f.Keeper.RevokeRole(f.Ctx, f.Admin, types.RoleAdmin, f.Admin), types.ErrInvalidRole)

	require.NoError(t, f.Keeper.TransferAdmin(f.Ctx, f.Admin, bob))
	require.True(t, f.Keeper.HasRole(f.Ctx, types.RoleAdmin, bob))
	require.False(t, f.Keeper.HasRole(f.Ctx, types.RoleAdmin, f.Admin))
	require.ErrorIs(t, f.Keeper.GrantRole(f.Ctx, f.Admin, types.RolePauser, alice), types.ErrUnauthorized)

	members, err := f.Keeper.GetRoleMembers(f.Ctx, types.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.True(t, members[0].Equals(bob))
}

func TestRecoverForeignAsset(t *testing.T) {
	f := setupPoolForSwaps(t)
	recipient := keepertest.TestAddr("recipient")
	require.NoError(t, f.Assets.Mint(f.Ctx, "ustray", f.Keeper.PoolAddress(), math.NewInt(5_000)))

	err := f.Keeper.RecoverForeignAsset(f.Ctx, recipient, "ustray", recipient, math.NewInt(5_000))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	err = f.Keeper.RecoverForeignAsset(f.Ctx, f.Treasury, keepertest.AssetA, recipient, math.NewInt(1))
	require.ErrorIs(t, err, types.ErrProtectedAsset)

	err = f.Keeper.RecoverForeignAsset(f.Ctx, f.Treasury, "ustray", recipient, math.NewInt(5_001))
	require.ErrorIs(t, err, types.ErrTransferFailed)

	require.NoError(t, f.Keeper.RecoverForeignAsset(f.Ctx, f.Treasury, "ustray", recipient, math.NewInt(5_000)))
	require.Equal(t, math.NewInt(5_000), f.Assets.BalanceOf(f.Ctx, "ustray", recipient))
	require.True(t, f.Keeper.VerifyReserves(f.Ctx))
}
