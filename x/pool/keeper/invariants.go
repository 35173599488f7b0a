package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// RegisterInvariants registers all pool invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "reserve-shape", ReserveShapeInvariant(k))
	ir.RegisterRoute(types.ModuleName, "claim-supply", ClaimSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "solvency", SolvencyInvariant(k))
}

// AllInvariants runs all invariants of the pool module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ReserveShapeInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = ClaimSupplyInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return SolvencyInvariant(k)(ctx)
	}
}

// ReserveShapeInvariant checks reserves are both zero or both positive and that the claim
// supply is zero exactly when the pool is empty.
func ReserveShapeInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reserve-shape", err.Error()), true
		}
		if err := pool.Validate(); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reserve-shape", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "reserve-shape", "pool reserves are consistent"), false
	}
}

// ClaimSupplyInvariant checks the claim supply equals the sum of all positions and that
// the locked minimum is still held by the sink.
func ClaimSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "claim-supply", err.Error()), true
		}

		sum := math.ZeroInt()
		if err := k.IteratePositions(ctx, func(_ sdk.AccAddress, shares math.Int) bool {
			sum = sum.Add(shares)
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "claim-supply", err.Error()), true
		}

		var msg string
		broken := false
		if !sum.Equal(pool.TotalSupply) {
			broken = true
			msg += fmt.Sprintf("\tsum of positions %s != total supply %s\n", sum, pool.TotalSupply)
		}
		if !pool.IsEmpty() && !k.GetShares(ctx, k.SinkAddress()).Equal(math.NewInt(types.MinimumLiquidity)) {
			broken = true
			msg += fmt.Sprintf("\tsink holds %s, expected %d\n", k.GetShares(ctx, k.SinkAddress()), types.MinimumLiquidity)
		}
		if !broken {
			msg = "claim supply matches positions"
		}
		return sdk.FormatInvariant(types.ModuleName, "claim-supply", msg), broken
	}
}

// SolvencyInvariant checks the pool account holds at least what it owes. Before a halt that
// is reserves plus fee liabilities; after it, what the snapshot still owes outstanding claims.
func SolvencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "solvency", err.Error()), true
		}

		var msg string
		broken := false
		status := k.reserveStatus(ctx, pool)

		if pool.Halted {
			snap, found, err := k.GetSnapshot(ctx)
			if err != nil || !found {
				return sdk.FormatInvariant(types.ModuleName, "solvency", "halted pool has no snapshot"), true
			}
			owedA, owedB := snap.Payout(pool.TotalSupply)
			for i, owed := range []math.Int{owedA, owedB} {
				if status[i].Actual.LT(owed) {
					broken = true
					msg += fmt.Sprintf("\t%s: balance %s below outstanding redemptions %s\n",
						status[i].Asset, status[i].Actual, owed)
				}
			}
		} else {
			for _, s := range status {
				if s.Actual.LT(s.Expected) {
					broken = true
					msg += fmt.Sprintf("\t%s: balance %s below liabilities %s\n", s.Asset, s.Actual, s.Expected)
				}
			}
		}

		if !broken {
			msg = "pool is solvent"
		}
		return sdk.FormatInvariant(types.ModuleName, "solvency", msg), broken
	}
}
