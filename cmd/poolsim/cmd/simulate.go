package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/pawpool/app"
	"github.com/paw-chain/pawpool/app/health"
)

// SimulateCmd runs a scenario file.
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario-file]",
		Short: "Run a scenario file (yaml, json or toml) against a fresh pool",
		Example: `poolsim simulate scenarios/lifecycle.yaml
poolsim simulate scenarios/lifecycle.yaml --output json --metrics-addr :36660 --linger 1m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			sc, err := ReadScenario(args[0])
			if err != nil {
				return err
			}
			if cfg.ChainID != "" {
				sc.ChainID = cfg.ChainID
			}

			linger, err := cmd.Flags().GetDuration("linger")
			if err != nil {
				return err
			}
			checker := health.NewChecker(logger, health.DefaultConfig())
			if cfg.MetricsAddr != "" {
				stop := startMetricsServer(cmd.Context(), cfg.MetricsAddr, checker, logger)
				defer stop()
			}
			publish := func(a *app.PoolApp, result app.StepResult) {
				status, err := a.HealthStatus()
				if err != nil {
					logger.Error("pool status unavailable", "step", result.Index, "err", err)
					return
				}
				checker.Update(status)
			}

			start := time.Now()
			report, runErr := app.RunScenario(logger, sc, publish)
			if report != nil {
				logger.Info("scenario finished", "name", sc.Name, "steps", len(report.Steps), "elapsed", time.Since(start))
				if err := writeReport(cmd.OutOrStdout(), cfg.Output, report); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}

			if cfg.MetricsAddr != "" && linger > 0 {
				select {
				case <-cmd.Context().Done():
				case <-time.After(linger):
				}
			}
			return nil
		},
	}

	cmd.Flags().String("chain-id", "", "chain id of the simulated chain")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address while simulating")
	cmd.Flags().Duration("linger", 0, "keep the metrics server up this long after the scenario finishes")
	return cmd
}

// ReadScenario loads a scenario file in any format viper understands.
func ReadScenario(path string) (app.Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return app.Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := app.ScenarioFromMap(v.AllSettings())
	if err != nil {
		return app.Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

func writeReport(w io.Writer, format string, report *app.Report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "scenario\t%s\n\n", report.Name)
	fmt.Fprintln(tw, "#\theight\taction\tactor\tresult")
	for _, s := range report.Steps {
		result := formatOutputs(s.Outputs)
		if s.Error != "" {
			result = "error: " + s.Error
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", s.Index, s.Height, s.Action, s.Actor, result)
	}

	pool := report.Pool.Pool
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "reserves\t%s%s / %s%s\n", pool.ReserveA, pool.AssetA, pool.ReserveB, pool.AssetB)
	fmt.Fprintf(tw, "claim supply\t%s\n", pool.TotalSupply)
	fmt.Fprintf(tw, "swap fee\t%d bps\n", pool.SwapFeeBps)
	fmt.Fprintf(tw, "lp fees held\t%s / %s\n", pool.LPFeeBalanceA, pool.LPFeeBalanceB)
	fmt.Fprintf(tw, "protocol fees\t%s / %s\n", pool.ProtocolFeesA, pool.ProtocolFeesB)
	fmt.Fprintf(tw, "paused\t%t\n", report.Pool.Paused)
	fmt.Fprintf(tw, "halted\t%t\n", pool.Halted)
	fmt.Fprintf(tw, "reconciled\t%t\n", report.Pool.Reconciled)
	fmt.Fprintf(tw, "app hash\t%s\n", report.Commit)

	names := make([]string, 0, len(report.Accounts))
	for name := range report.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "account\tasset a\tasset b\tshares\towed a\towed b")
	for _, name := range names {
		acc := report.Accounts[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", name, acc.AssetA, acc.AssetB, acc.Shares, acc.OwedFeeA, acc.OwedFeeB)
	}
	return tw.Flush()
}

func formatOutputs(outputs map[string]string) string {
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += k + "=" + outputs[k]
	}
	if s == "" {
		return "ok"
	}
	return s
}
