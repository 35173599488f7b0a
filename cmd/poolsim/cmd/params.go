package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paw-chain/pawpool/app"
)

// ParamsCmd prints the default genesis of the simulated chain.
func ParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the default pool parameters and genesis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			genesis := app.NewDefaultGenesisState()
			_, pool, err := genesis.Modules()
			if err != nil {
				return err
			}

			if cfg.Output == "json" {
				bz, err := json.MarshalIndent(genesis, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "assets: %s/%s\nswap fee: %d bps\n%s\n",
				pool.AssetA, pool.AssetB, pool.SwapFeeBps, pool.Params)
			return err
		},
	}
}
