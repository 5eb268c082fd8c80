package commands

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Melvillian/superchain-ops/statediff"
)

func newCheckDiffCmd(cfg Config) *cobra.Command {
	var (
		keyed          bool
		defaultAccount string
	)

	cmd := &cobra.Command{
		Use:   "check-diff <expected.json> <actual.json>",
		Short: "Verify an actual state diff spec against an expected one",
		Long: `Verify an actual state diff spec against an expected one.

Both arguments are state diff spec documents. The actual side is typically
produced by dumping the extracted diff of a simulation; check-diff makes the
comparator usable by external harnesses without running full orchestration.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []statediff.ParseOption
			if defaultAccount != "" {
				if !common.IsHexAddress(defaultAccount) {
					return fmt.Errorf("--default-account %q is not a valid address", defaultAccount)
				}
				opts = append(opts, statediff.WithDefaultAccount(common.HexToAddress(defaultAccount)))
			}

			expected, err := statediff.ParseSpecFile(args[0], opts...)
			if err != nil {
				return err
			}
			actual, err := statediff.ParseSpecFile(args[1], opts...)
			if err != nil {
				return err
			}

			check := statediff.Check
			if keyed {
				check = statediff.CheckByKey
			}
			if err := check(expected, actual); err != nil {
				return err
			}

			cfg.Logger.Infow("State diff verified",
				"chainId", expected.ChainID,
				"entries", len(expected.StorageSpecs),
			)
			fmt.Fprintln(cmd.OutOrStdout(), "state diff verified")

			return nil
		},
	}

	cmd.Flags().BoolVar(&keyed, "keyed", false, "Compare keyed by (account, slot) instead of by position")
	cmd.Flags().StringVar(&defaultAccount, "default-account", "", "Account implied by entries omitting one")

	return cmd
}
