package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// GetPool loads the pool. Returns ErrPoolNotInitialized before genesis ran.
func (k Keeper) GetPool(ctx context.Context) (types.Pool, error) {
	bz := k.getStore(ctx).Get(types.PoolKey)
	if bz == nil {
		return types.Pool{}, types.ErrPoolNotInitialized
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, fmt.Errorf("GetPool: unmarshal: %w", err)
	}
	return pool, nil
}

// SetPool saves the pool to the store
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	bz, err := json.Marshal(&pool)
	if err != nil {
		return fmt.Errorf("SetPool: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.PoolKey, bz)
	return nil
}

// GetParams returns the module params
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("GetParams: unmarshal: %w", err)
	}
	return params, nil
}

// SetParams validates and stores the module params
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(&params)
	if err != nil {
		return fmt.Errorf("SetParams: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// GetShares returns holder's claim token balance
func (k Keeper) GetShares(ctx context.Context, holder sdk.AccAddress) math.Int {
	bz := k.getStore(ctx).Get(types.PositionKey(holder))
	if bz == nil {
		return math.ZeroInt()
	}
	shares := math.ZeroInt()
	if err := shares.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupt position for %s: %w", holder, err))
	}
	return shares
}

// setShares stores holder's claim balance; a zero balance removes the position.
func (k Keeper) setShares(ctx context.Context, holder sdk.AccAddress, shares math.Int) error {
	store := k.getStore(ctx)
	if shares.IsZero() {
		store.Delete(types.PositionKey(holder))
		return nil
	}
	bz, err := shares.Marshal()
	if err != nil {
		return fmt.Errorf("setShares: marshal: %w", err)
	}
	store.Set(types.PositionKey(holder), bz)
	return nil
}

// IteratePositions walks every claim position
func (k Keeper) IteratePositions(ctx context.Context, cb func(holder sdk.AccAddress, shares math.Int) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PositionKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		holder, err := addressFromKey(iterator.Key()[len(types.PositionKeyPrefix):])
		if err != nil {
			return fmt.Errorf("IteratePositions: %w", err)
		}
		shares := math.ZeroInt()
		if err := shares.Unmarshal(iterator.Value()); err != nil {
			return fmt.Errorf("IteratePositions: unmarshal %s: %w", holder, err)
		}
		if cb(holder, shares) {
			break
		}
	}
	return nil
}

// getFeeAccrual returns holder's stored accrual record
func (k Keeper) getFeeAccrual(ctx context.Context, holder sdk.AccAddress) (types.FeeAccrual, bool, error) {
	bz := k.getStore(ctx).Get(types.FeeAccrualKey(holder))
	if bz == nil {
		return types.FeeAccrual{}, false, nil
	}
	var acc types.FeeAccrual
	if err := json.Unmarshal(bz, &acc); err != nil {
		return types.FeeAccrual{}, false, fmt.Errorf("getFeeAccrual: unmarshal %s: %w", holder, err)
	}
	return acc, true, nil
}

func (k Keeper) setFeeAccrual(ctx context.Context, holder sdk.AccAddress, acc types.FeeAccrual) error {
	bz, err := json.Marshal(&acc)
	if err != nil {
		return fmt.Errorf("setFeeAccrual: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.FeeAccrualKey(holder), bz)
	return nil
}

func (k Keeper) deleteFeeAccrual(ctx context.Context, holder sdk.AccAddress) {
	k.getStore(ctx).Delete(types.FeeAccrualKey(holder))
}

// IterateFeeAccruals walks every stored fee accrual record
func (k Keeper) IterateFeeAccruals(ctx context.Context, cb func(holder sdk.AccAddress, acc types.FeeAccrual) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.FeeAccrualKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		holder, err := addressFromKey(iterator.Key()[len(types.FeeAccrualKeyPrefix):])
		if err != nil {
			return fmt.Errorf("IterateFeeAccruals: %w", err)
		}
		var acc types.FeeAccrual
		if err := json.Unmarshal(iterator.Value(), &acc); err != nil {
			return fmt.Errorf("IterateFeeAccruals: unmarshal %s: %w", holder, err)
		}
		if cb(holder, acc) {
			break
		}
	}
	return nil
}

// GetSnapshot returns the emergency snapshot if the unwind has started
func (k Keeper) GetSnapshot(ctx context.Context) (types.EmergencySnapshot, bool, error) {
	bz := k.getStore(ctx).Get(types.SnapshotKey)
	if bz == nil {
		return types.EmergencySnapshot{}, false, nil
	}
	var snap types.EmergencySnapshot
	if err := json.Unmarshal(bz, &snap); err != nil {
		return types.EmergencySnapshot{}, false, fmt.Errorf("GetSnapshot: unmarshal: %w", err)
	}
	return snap, true, nil
}

// setSnapshot latches the snapshot. It refuses to overwrite an existing one.
func (k Keeper) setSnapshot(ctx context.Context, snap types.EmergencySnapshot) error {
	store := k.getStore(ctx)
	if store.Has(types.SnapshotKey) {
		return types.ErrPoolHalted.Wrap("emergency snapshot already latched")
	}
	bz, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("setSnapshot: marshal: %w", err)
	}
	store.Set(types.SnapshotKey, bz)
	return nil
}

// GetProposal returns a pending fee proposal
func (k Keeper) GetProposal(ctx context.Context, id uint64) (types.FeeProposal, error) {
	bz := k.getStore(ctx).Get(types.ProposalKey(id))
	if bz == nil {
		return types.FeeProposal{}, types.ErrProposalNotFound.Wrapf("proposal %d", id)
	}
	var p types.FeeProposal
	if err := json.Unmarshal(bz, &p); err != nil {
		return types.FeeProposal{}, fmt.Errorf("GetProposal: unmarshal %d: %w", id, err)
	}
	return p, nil
}

func (k Keeper) setProposal(ctx context.Context, p types.FeeProposal) error {
	bz, err := json.Marshal(&p)
	if err != nil {
		return fmt.Errorf("setProposal: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.ProposalKey(p.ID), bz)
	return nil
}

func (k Keeper) deleteProposal(ctx context.Context, id uint64) {
	k.getStore(ctx).Delete(types.ProposalKey(id))
}

// GetProposals returns all pending fee proposals ordered by id
func (k Keeper) GetProposals(ctx context.Context) ([]types.FeeProposal, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ProposalKeyPrefix)
	defer iterator.Close()

	proposals := []types.FeeProposal{}
	for ; iterator.Valid(); iterator.Next() {
		var p types.FeeProposal
		if err := json.Unmarshal(iterator.Value(), &p); err != nil {
			return nil, fmt.Errorf("GetProposals: unmarshal: %w", err)
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// GetNextProposalID returns the id the next proposal will receive
func (k Keeper) GetNextProposalID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.ProposalSeqKey)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

// SetNextProposalID sets the proposal id counter
func (k Keeper) SetNextProposalID(ctx context.Context, id uint64) {
	k.getStore(ctx).Set(types.ProposalSeqKey, sdk.Uint64ToBigEndian(id))
}

// IsPaused reports whether trading is paused
func (k Keeper) IsPaused(ctx context.Context) bool {
	bz := k.getStore(ctx).Get(types.PausedKey)
	return len(bz) == 1 && bz[0] == 1
}

func (k Keeper) setPaused(ctx context.Context, paused bool) {
	if paused {
		k.getStore(ctx).Set(types.PausedKey, []byte{1})
		return
	}
	k.getStore(ctx).Delete(types.PausedKey)
}

// HasRole reports whether account holds role
func (k Keeper) HasRole(ctx context.Context, role types.Role, account sdk.AccAddress) bool {
	if account.Empty() {
		return false
	}
	return k.getStore(ctx).Has(types.RoleKey(role, account))
}

func (k Keeper) setRole(ctx context.Context, role types.Role, account sdk.AccAddress, member bool) {
	store := k.getStore(ctx)
	if member {
		store.Set(types.RoleKey(role, account), []byte{1})
		return
	}
	store.Delete(types.RoleKey(role, account))
}

// GetRoleMembers returns every account holding role
func (k Keeper) GetRoleMembers(ctx context.Context, role types.Role) ([]sdk.AccAddress, error) {
	prefix := types.RolePrefix(role)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	members := []sdk.AccAddress{}
	for ; iterator.Valid(); iterator.Next() {
		addr, err := addressFromKey(iterator.Key()[len(prefix):])
		if err != nil {
			return nil, fmt.Errorf("GetRoleMembers: %w", err)
		}
		members = append(members, addr)
	}
	return members, nil
}

// addressFromKey decodes a length-prefixed address at the start of key.
func addressFromKey(key []byte) (sdk.AccAddress, error) {
	if len(key) == 0 || int(key[0])+1 > len(key) {
		return nil, fmt.Errorf("malformed address key %X", key)
	}
	return sdk.AccAddress(key[1 : 1+int(key[0])]), nil
}
