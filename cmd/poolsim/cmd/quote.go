package cmd

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/pawpool/x/pool/keeper"
	"github.com/paw-chain/pawpool/x/pool/types"
)

// QuoteCmd prices a trade against the given reserves.
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quote [amount-in]",
		Short:   "Quote a swap against explicit reserves",
		Example: `poolsim quote 10000 --reserve-in 1000000 --reserve-out 1000000 --fee-bps 30`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			amountIn, err := parseAmount(args[0])
			if err != nil {
				return fmt.Errorf("amount-in: %w", err)
			}
			reserveIn, err := intFlag(cmd, "reserve-in")
			if err != nil {
				return err
			}
			reserveOut, err := intFlag(cmd, "reserve-out")
			if err != nil {
				return err
			}
			feeBps, err := cmd.Flags().GetUint32("fee-bps")
			if err != nil {
				return err
			}
			if err := types.ValidateSwapFee(feeBps); err != nil {
				return err
			}
			maxFraction, err := cmd.Flags().GetUint32("max-swap-fraction-bps")
			if err != nil {
				return err
			}

			q, err := keeper.CalculateSwapOutput(amountIn, reserveIn, reserveOut, feeBps)
			if err != nil {
				return err
			}
			withinLimit := !amountIn.MulRaw(types.FeeDenominator).GT(reserveIn.MulRaw(int64(maxFraction)))

			if cfg.Output == "json" {
				bz, err := json.MarshalIndent(struct {
					keeper.SwapQuote
					WithinSwapLimit bool `json:"within_swap_limit"`
				}{q, withinLimit}, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "amount in:   %s\n", q.AmountIn)
			fmt.Fprintf(out, "fee:         %s\n", q.Fee)
			fmt.Fprintf(out, "net in:      %s\n", q.NetIn)
			fmt.Fprintf(out, "amount out:  %s\n", q.AmountOut)
			fmt.Fprintf(out, "within %d bps limit: %t\n", maxFraction, withinLimit)
			return nil
		},
	}

	cmd.Flags().String("reserve-in", "", "reserve of the asset sold into the pool")
	cmd.Flags().String("reserve-out", "", "reserve of the asset bought from the pool")
	cmd.Flags().Uint32("fee-bps", 30, "swap fee in basis points")
	cmd.Flags().Uint32("max-swap-fraction-bps", types.DefaultParams().MaxSwapFractionBps, "maximum input as a fraction of the input reserve")
	_ = cmd.MarkFlagRequired("reserve-in")
	_ = cmd.MarkFlagRequired("reserve-out")
	return cmd
}

func intFlag(cmd *cobra.Command, name string) (math.Int, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return math.Int{}, err
	}
	v, err := parseAmount(raw)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func parseAmount(raw interface{}) (math.Int, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return math.Int{}, err
	}
	v, ok := math.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
