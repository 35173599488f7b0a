package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto/tmhash"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"

	assetstypes "github.com/paw-chain/pawpool/x/assets/types"
	poolkeeper "github.com/paw-chain/pawpool/x/pool/keeper"
	pooltypes "github.com/paw-chain/pawpool/x/pool/types"
)

// DefaultGenesisTime is the block time of the first block of a scenario.
var DefaultGenesisTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Step is one scripted operation. Keys other than "action", "actor" and "expect_error"
// are action specific.
type Step map[string]interface{}

// Scenario is a scripted sequence of pool operations against a fresh chain.
type Scenario struct {
	Name        string
	ChainID     string
	AssetA      string
	AssetB      string
	SwapFeeBps  uint32
	Params      pooltypes.Params
	Roles       map[string][]string
	GenesisTime time.Time
	Steps       []Step
}

// StepResult records what a step did.
type StepResult struct {
	Index   int               `json:"index"`
	Action  string            `json:"action"`
	Actor   string            `json:"actor,omitempty"`
	Height  int64             `json:"height"`
	Outputs map[string]string `json:"outputs,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Report is the outcome of a scenario run.
type Report struct {
	Name     string                       `json:"name"`
	Steps    []StepResult                 `json:"steps"`
	Pool     poolkeeper.PoolState         `json:"pool"`
	Accounts map[string]AccountReport     `json:"accounts"`
	Commit   string                       `json:"commit"`
	Genesis  GenesisState                 `json:"genesis,omitempty"`
	Balances map[string]map[string]string `json:"pool_account_balances"`
}

// AccountReport is the final state of a named scenario account.
type AccountReport struct {
	Address  string   `json:"address"`
	AssetA   math.Int `json:"asset_a"`
	AssetB   math.Int `json:"asset_b"`
	Shares   math.Int `json:"shares"`
	OwedFeeA math.Int `json:"owed_fee_a"`
	OwedFeeB math.Int `json:"owed_fee_b"`
}

// AccountAddress derives the address used for a named scenario account.
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(tmhash.SumTruncated([]byte(name)))
}

// ScenarioFromMap decodes a scenario from a generic map, as produced by a YAML, TOML or
// JSON config reader.
func ScenarioFromMap(raw map[string]interface{}) (Scenario, error) {
	gs := pooltypes.DefaultGenesis()
	sc := Scenario{
		Name:        cast.ToString(raw["name"]),
		ChainID:     cast.ToString(raw["chain_id"]),
		AssetA:      gs.AssetA,
		AssetB:      gs.AssetB,
		SwapFeeBps:  gs.SwapFeeBps,
		Params:      gs.Params,
		Roles:       map[string][]string{},
		GenesisTime: DefaultGenesisTime,
	}

	if v, ok := raw["asset_a"]; ok {
		sc.AssetA = cast.ToString(v)
	}
	if v, ok := raw["asset_b"]; ok {
		sc.AssetB = cast.ToString(v)
	}
	if v, ok := raw["swap_fee_bps"]; ok {
		fee, err := cast.ToUint32E(v)
		if err != nil {
			return Scenario{}, fmt.Errorf("swap_fee_bps: %w", err)
		}
		sc.SwapFeeBps = fee
	}
	if v, ok := raw["genesis_time"]; ok {
		t, err := cast.ToTimeE(v)
		if err != nil {
			return Scenario{}, fmt.Errorf("genesis_time: %w", err)
		}
		sc.GenesisTime = t.UTC()
	}

	if v, ok := raw["params"]; ok {
		overrides, err := cast.ToStringMapE(v)
		if err != nil {
			return Scenario{}, fmt.Errorf("params: %w", err)
		}
		if err := applyParamOverrides(&sc.Params, overrides); err != nil {
			return Scenario{}, err
		}
	}

	if v, ok := raw["roles"]; ok {
		roles, err := cast.ToStringMapE(v)
		if err != nil {
			return Scenario{}, fmt.Errorf("roles: %w", err)
		}
		for role, members := range roles {
			if _, err := pooltypes.ParseRole(role); err != nil {
				return Scenario{}, err
			}
			names, err := cast.ToStringSliceE(members)
			if err != nil {
				return Scenario{}, fmt.Errorf("roles.%s: %w", role, err)
			}
			sc.Roles[role] = names
		}
	}

	if v, ok := raw["steps"]; ok {
		items, err := cast.ToSliceE(v)
		if err != nil {
			return Scenario{}, fmt.Errorf("steps: %w", err)
		}
		for i, item := range items {
			step, err := cast.ToStringMapE(item)
			if err != nil {
				return Scenario{}, fmt.Errorf("step %d: %w", i, err)
			}
			sc.Steps = append(sc.Steps, Step(step))
		}
	}
	return sc, nil
}

func applyParamOverrides(p *pooltypes.Params, overrides map[string]interface{}) error {
	for key, v := range overrides {
		var err error
		switch key {
		case "ratio_tolerance_bps":
			p.RatioToleranceBps, err = cast.ToUint32E(v)
		case "protocol_fee_share_bps":
			p.ProtocolFeeShareBps, err = cast.ToUint32E(v)
		case "max_swap_fraction_bps":
			p.MaxSwapFractionBps, err = cast.ToUint32E(v)
		case "drift_tolerance_bps":
			p.DriftToleranceBps, err = cast.ToUint32E(v)
		case "min_fee_collection":
			p.MinFeeCollection, err = toInt(v)
		case "max_deposit_amount":
			p.MaxDepositAmount, err = toInt(v)
		case "fee_change_delay":
			p.FeeChangeDelay, err = cast.ToDurationE(v)
		default:
			return fmt.Errorf("params: unknown key %q", key)
		}
		if err != nil {
			return fmt.Errorf("params.%s: %w", key, err)
		}
	}
	return nil
}

// Genesis builds the chain genesis for the scenario.
func (sc Scenario) Genesis() (GenesisState, error) {
	gs := pooltypes.DefaultGenesis()
	gs.Params = sc.Params
	gs.AssetA, gs.AssetB = sc.AssetA, sc.AssetB
	gs.SwapFeeBps = sc.SwapFeeBps

	roles := make([]string, 0, len(sc.Roles))
	for role := range sc.Roles {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		for _, name := range sc.Roles[role] {
			gs.Roles = append(gs.Roles, pooltypes.RoleGrant{Role: role, Address: AccountAddress(name).String()})
		}
	}

	genesis := NewGenesisState(assetstypes.DefaultGenesis(), gs)
	if err := genesis.Validate(); err != nil {
		return nil, err
	}
	return genesis, nil
}

// StepObserver is called on the scenario goroutine after every step.
type StepObserver func(app *PoolApp, result StepResult)

// RunScenario executes sc on a fresh in-memory chain. A step that fails without declaring
// expect_error, or declares one and succeeds, aborts the run; the partial report is
// returned with the error.
func RunScenario(logger log.Logger, sc Scenario, observers ...StepObserver) (*Report, error) {
	genesis, err := sc.Genesis()
	if err != nil {
		return nil, err
	}

	app, err := New(logger, dbm.NewMemDB(), sc.ChainID)
	if err != nil {
		return nil, err
	}
	if err := app.InitChain(genesis, sc.GenesisTime); err != nil {
		return nil, err
	}

	r := &scenarioRunner{app: app, accounts: map[string]sdk.AccAddress{}}
	for _, members := range sc.Roles {
		for _, name := range members {
			r.account(name)
		}
	}

	report := &Report{Name: sc.Name}
	for i, step := range sc.Steps {
		result, runErr := r.run(i, step)
		report.Steps = append(report.Steps, result)
		for _, observe := range observers {
			observe(app, result)
		}
		if runErr != nil {
			return report, runErr
		}
	}

	if _, err := app.NextBlock(time.Duration(DefaultBlockInterval) * time.Second); err != nil {
		return report, err
	}
	if err := r.finish(report); err != nil {
		return report, err
	}
	return report, nil
}

type scenarioRunner struct {
	app      *PoolApp
	accounts map[string]sdk.AccAddress
}

func (r *scenarioRunner) account(name string) sdk.AccAddress {
	if name == "" {
		return nil
	}
	if addr, ok := r.accounts[name]; ok {
		return addr
	}
	addr := AccountAddress(name)
	r.accounts[name] = addr
	return addr
}

func (r *scenarioRunner) run(index int, step Step) (StepResult, error) {
	action := strings.ToLower(cast.ToString(step["action"]))
	result := StepResult{
		Index:  index,
		Action: action,
		Actor:  cast.ToString(step["actor"]),
		Height: r.app.Height(),
	}

	outputs, err := r.dispatch(action, step)
	result.Outputs = outputs

	expected := cast.ToString(step["expect_error"])
	switch {
	case err != nil:
		result.Error = err.Error()
		if expected == "" || !strings.Contains(err.Error(), expected) {
			return result, fmt.Errorf("step %d (%s): %w", index, action, err)
		}
	case expected != "":
		return result, fmt.Errorf("step %d (%s): expected error containing %q", index, action, expected)
	}
	return result, nil
}

func (r *scenarioRunner) dispatch(action string, step Step) (map[string]string, error) {
	ctx := r.app.Context()
	k := r.app.PoolKeeper
	actor := r.account(cast.ToString(step["actor"]))

	switch action {
	case "fund":
		return r.fund(step)

	case "donate":
		return r.donate(step)

	case "advance":
		return r.advance(step)

	case "add", "add_liquidity":
		amountA, amountB, err := pairFields(step, "amount_a", "amount_b")
		if err != nil {
			return nil, err
		}
		shares, err := k.AddLiquidity(ctx, actor, amountA, amountB)
		if err != nil {
			return nil, err
		}
		return map[string]string{"shares": shares.String()}, nil

	case "remove", "remove_liquidity":
		claim, err := r.claimField(step, actor)
		if err != nil {
			return nil, err
		}
		minA, minB, err := pairFields(step, "min_a", "min_b")
		if err != nil {
			return nil, err
		}
		a, b, err := k.RemoveLiquidity(ctx, actor, claim, minA, minB, r.deadline(step))
		if err != nil {
			return nil, err
		}
		return map[string]string{"amount_a": a.String(), "amount_b": b.String()}, nil

	case "swap":
		direction, err := pooltypes.ParseDirection(cast.ToString(step["direction"]))
		if err != nil {
			return nil, err
		}
		amountIn, err := intField(step, "amount_in")
		if err != nil {
			return nil, err
		}
		minOut, err := intField(step, "min_out")
		if err != nil {
			return nil, err
		}
		out, err := k.Swap(ctx, actor, amountIn, direction, minOut, r.deadline(step))
		if err != nil {
			return nil, err
		}
		return map[string]string{"amount_out": out.String()}, nil

	case "collect", "collect_fees":
		a, b, err := k.CollectFees(ctx, actor)
		if err != nil {
			return nil, err
		}
		return map[string]string{"fee_a": a.String(), "fee_b": b.String()}, nil

	case "collect_protocol", "collect_protocol_fees":
		a, b, err := k.CollectProtocolFees(ctx, actor, r.recipient(step, actor))
		if err != nil {
			return nil, err
		}
		return map[string]string{"fee_a": a.String(), "fee_b": b.String()}, nil

	case "pause":
		return nil, k.Pause(ctx, actor)

	case "unpause":
		return nil, k.Unpause(ctx, actor)

	case "propose_fee":
		fee, err := cast.ToUint32E(step["fee_bps"])
		if err != nil {
			return nil, fmt.Errorf("fee_bps: %w", err)
		}
		p, err := k.ProposeFee(ctx, actor, fee)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"proposal":      fmt.Sprint(p.ID),
			"executable_at": p.ExecutableAt.Format(time.RFC3339),
		}, nil

	case "execute_fee", "cancel_fee":
		id, err := cast.ToUint64E(step["proposal"])
		if err != nil {
			return nil, fmt.Errorf("proposal: %w", err)
		}
		if action == "cancel_fee" {
			return nil, k.CancelFee(ctx, actor, id)
		}
		return nil, k.ExecuteFee(ctx, actor, id)

	case "emergency", "emergency_unwind":
		snap, err := k.InitiateEmergencyUnwind(ctx, actor)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"supply":    snap.Supply.String(),
			"balance_a": snap.BalanceA.String(),
			"balance_b": snap.BalanceB.String(),
		}, nil

	case "redeem", "redeem_emergency":
		a, b, err := k.RedeemEmergency(ctx, actor)
		if err != nil {
			return nil, err
		}
		return map[string]string{"amount_a": a.String(), "amount_b": b.String()}, nil

	case "skim":
		a, b, err := k.Skim(ctx, actor, r.recipient(step, actor))
		if err != nil {
			return nil, err
		}
		return map[string]string{"amount_a": a.String(), "amount_b": b.String()}, nil

	case "transfer_shares":
		amount, err := intField(step, "amount")
		if err != nil {
			return nil, err
		}
		to := r.account(cast.ToString(step["to"]))
		return nil, k.TransferShares(ctx, actor, to, amount)

	case "grant_role", "revoke_role":
		role, err := pooltypes.ParseRole(cast.ToString(step["role"]))
		if err != nil {
			return nil, err
		}
		account := r.account(cast.ToString(step["account"]))
		if action == "grant_role" {
			return nil, k.GrantRole(ctx, actor, role, account)
		}
		return nil, k.RevokeRole(ctx, actor, role, account)

	case "transfer_admin":
		return nil, k.TransferAdmin(ctx, actor, r.account(cast.ToString(step["account"])))
	}

	return nil, fmt.Errorf("unknown action %q", action)
}

// fund mints both pool assets to account and approves the pool account to pull them.
func (r *scenarioRunner) fund(step Step) (map[string]string, error) {
	ctx := r.app.Context()
	pool, err := r.app.PoolKeeper.GetPool(ctx)
	if err != nil {
		return nil, err
	}
	name := cast.ToString(step["account"])
	if name == "" {
		name = cast.ToString(step["actor"])
	}
	addr := r.account(name)
	amountA, amountB, err := pairFields(step, "amount_a", "amount_b")
	if err != nil {
		return nil, err
	}

	spender := r.app.PoolKeeper.PoolAddress()
	for _, leg := range []struct {
		asset  string
		amount math.Int
	}{{pool.AssetA, amountA}, {pool.AssetB, amountB}} {
		if !leg.amount.IsPositive() {
			continue
		}
		if err := r.app.AssetsKeeper.Mint(ctx, leg.asset, addr, leg.amount); err != nil {
			return nil, err
		}
		allowance := r.app.AssetsKeeper.Allowance(ctx, leg.asset, addr, spender).Add(leg.amount)
		if err := r.app.AssetsKeeper.Approve(ctx, leg.asset, addr, spender, allowance); err != nil {
			return nil, err
		}
	}
	return map[string]string{"address": addr.String()}, nil
}

// donate mints straight into the pool account, bypassing the pool's bookkeeping.
func (r *scenarioRunner) donate(step Step) (map[string]string, error) {
	ctx := r.app.Context()
	pool, err := r.app.PoolKeeper.GetPool(ctx)
	if err != nil {
		return nil, err
	}
	asset := cast.ToString(step["asset"])
	switch strings.ToLower(asset) {
	case "a":
		asset = pool.AssetA
	case "b":
		asset = pool.AssetB
	}
	amount, err := intField(step, "amount")
	if err != nil {
		return nil, err
	}
	return nil, r.app.AssetsKeeper.Mint(ctx, asset, r.app.PoolKeeper.PoolAddress(), amount)
}

func (r *scenarioRunner) advance(step Step) (map[string]string, error) {
	blocks := int64(1)
	if v, ok := step["blocks"]; ok {
		n, err := cast.ToInt64E(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("blocks must be a positive integer, got %v", v)
		}
		blocks = n
	}
	interval := time.Duration(DefaultBlockInterval) * time.Second
	if v, ok := step["interval"]; ok {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return nil, fmt.Errorf("interval: %w", err)
		}
		interval = d
	}
	for i := int64(0); i < blocks; i++ {
		if _, err := r.app.NextBlock(interval); err != nil {
			return nil, err
		}
	}
	ctx := r.app.Context()
	return map[string]string{
		"height": fmt.Sprint(ctx.BlockHeight()),
		"time":   ctx.BlockTime().Format(time.RFC3339),
	}, nil
}

func (r *scenarioRunner) claimField(step Step, holder sdk.AccAddress) (math.Int, error) {
	if strings.EqualFold(cast.ToString(step["shares"]), "all") {
		return r.app.PoolKeeper.GetShares(r.app.Context(), holder), nil
	}
	return intField(step, "shares")
}

func (r *scenarioRunner) recipient(step Step, fallback sdk.AccAddress) sdk.AccAddress {
	if name := cast.ToString(step["recipient"]); name != "" {
		return r.account(name)
	}
	return fallback
}

// deadline is an absolute height when "deadline" is set, otherwise the current height plus
// "deadline_blocks" (default 10).
func (r *scenarioRunner) deadline(step Step) int64 {
	if v, ok := step["deadline"]; ok {
		return cast.ToInt64(v)
	}
	blocks := int64(10)
	if v, ok := step["deadline_blocks"]; ok {
		blocks = cast.ToInt64(v)
	}
	return r.app.Height() + blocks
}

func (r *scenarioRunner) finish(report *Report) error {
	ctx := r.app.Context()
	k := r.app.PoolKeeper

	state, err := k.GetPoolState(ctx)
	if err != nil {
		return err
	}
	report.Pool = state
	report.Commit = fmt.Sprintf("%X", r.app.LastCommitID().Hash)

	report.Accounts = make(map[string]AccountReport, len(r.accounts))
	for name, addr := range r.accounts {
		owedA, owedB, err := k.OwedFees(ctx, addr)
		if err != nil {
			return err
		}
		report.Accounts[name] = AccountReport{
			Address:  addr.String(),
			AssetA:   r.app.AssetsKeeper.BalanceOf(ctx, state.Pool.AssetA, addr),
			AssetB:   r.app.AssetsKeeper.BalanceOf(ctx, state.Pool.AssetB, addr),
			Shares:   k.GetShares(ctx, addr),
			OwedFeeA: owedA,
			OwedFeeB: owedB,
		}
	}

	poolAddr := k.PoolAddress()
	report.Balances = map[string]map[string]string{
		poolAddr.String(): {
			state.Pool.AssetA: r.app.AssetsKeeper.BalanceOf(ctx, state.Pool.AssetA, poolAddr).String(),
			state.Pool.AssetB: r.app.AssetsKeeper.BalanceOf(ctx, state.Pool.AssetB, poolAddr).String(),
		},
	}

	genesis, err := r.app.ExportGenesis()
	if err != nil {
		return err
	}
	report.Genesis = genesis
	return nil
}

func intField(step Step, key string) (math.Int, error) {
	v, ok := step[key]
	if !ok || v == nil {
		return math.ZeroInt(), nil
	}
	amount, err := toInt(v)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s: %w", key, err)
	}
	return amount, nil
}

func pairFields(step Step, keyA, keyB string) (math.Int, math.Int, error) {
	a, err := intField(step, keyA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	b, err := intField(step, keyB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return a, b, nil
}

func toInt(v interface{}) (math.Int, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return math.Int{}, err
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	amount, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid integer %q", s)
	}
	return amount, nil
}
