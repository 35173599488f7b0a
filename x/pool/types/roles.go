package types

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Role is a governance capability. Membership is stored per (role, account).
type Role uint8

const (
	RoleUnspecified Role = iota
	// RoleAdmin grants and revokes roles and may hand the admin role over.
	RoleAdmin
	// RolePauser pauses and unpauses trading.
	RolePauser
	// RoleFeeProposer queues and cancels timelocked fee changes.
	RoleFeeProposer
	// RoleTimelockExecutor is the only identity allowed to execute a matured fee change.
	RoleTimelockExecutor
	// RoleTreasury collects protocol fees, recovers foreign assets and skims excess.
	RoleTreasury
	// RoleGuardian may trigger the emergency unwind.
	RoleGuardian
)

var roleNames = map[Role]string{
	RoleAdmin:            "admin",
	RolePauser:           "pauser",
	RoleFeeProposer:      "fee_proposer",
	RoleTimelockExecutor: "timelock_executor",
	RoleTreasury:         "treasury",
	RoleGuardian:         "guardian",
}

// AllRoles lists every assignable role in declaration order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RolePauser, RoleFeeProposer, RoleTimelockExecutor, RoleTreasury, RoleGuardian}
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Validate returns an error for the unspecified or unknown roles.
func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return ErrInvalidRole.Wrapf("unknown role %d", uint8(r))
	}
	return nil
}

// ParseRole resolves a role from its name.
func ParseRole(name string) (Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return RoleUnspecified, ErrInvalidRole.Wrapf("unknown role %q", name)
}

// RoleGrant assigns a role to an account.
type RoleGrant struct {
	Role    string `json:"role"`
	Address string `json:"address"`
}

// Validate checks the role name and bech32 address.
func (g RoleGrant) Validate() error {
	if _, err := ParseRole(g.Role); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(g.Address); err != nil {
		return ErrInvalidAddress.Wrapf("role %s: %v", g.Role, err)
	}
	return nil
}
