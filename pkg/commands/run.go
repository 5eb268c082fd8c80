package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Melvillian/superchain-ops/registry"
	"github.com/Melvillian/superchain-ops/runner"
	"github.com/Melvillian/superchain-ops/safe"
	"github.com/Melvillian/superchain-ops/task"
)

// envBindings maps config keys to the environment variables that can provide
// them.
var envBindings = map[string]string{
	"rpc_url": "SUPERCHAIN_OPS_RPC_URL",
}

// loadEnv reads overrides from the process environment.
func loadEnv() (*viper.Viper, error) {
	v := viper.New()
	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func newRunCmd(cfg Config) *cobra.Command {
	var (
		tasksDir       string
		addressesPath  string
		superchainPath string
		networksPath   string
		rpcURL         string
		artifactPath   string
	)

	cmd := &cobra.Command{
		Use:   "run <network>",
		Short: "Execute all pending governance tasks for a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network := args[0]
			lggr := cfg.Logger

			env, err := loadEnv()
			if err != nil {
				return err
			}

			// RPC endpoint resolution: flag, then environment, then the
			// networks manifest.
			if rpcURL == "" {
				rpcURL = env.GetString("rpc_url")
			}
			if rpcURL == "" && networksPath != "" {
				networks, err := LoadNetworks(networksPath)
				if err != nil {
					return err
				}
				entry, err := networks.Get(network)
				if err != nil {
					return err
				}
				rpcURL = entry.RPCURL
			}
			if rpcURL == "" {
				return errors.New("no RPC endpoint: set --rpc-url, SUPERCHAIN_OPS_RPC_URL or --networks")
			}

			addresses, err := registry.LoadAddressBook(addressesPath)
			if err != nil {
				return err
			}
			superchain, err := registry.LoadSuperchainRegistry(superchainPath)
			if err != nil {
				return err
			}

			client, err := safe.Dial(lggr, rpcURL)
			if err != nil {
				return err
			}

			resolver := task.NewTopologyResolver(lggr, cfg.Templates, addresses, superchain)
			loader := task.NewLoader(lggr, resolver)

			var opts []runner.Option
			if cfg.StateDumper != nil {
				opts = append(opts, runner.WithStateDumper(cfg.StateDumper))
			}
			r := runner.New(lggr, cfg.Templates, loader, runner.NewFSDiscovery(tasksDir), client, opts...)

			if artifactPath != "" {
				return r.RunWithArtifact(cmd.Context(), artifactPath, network)
			}

			return r.Run(cmd.Context(), network)
		},
	}

	cmd.Flags().StringVar(&tasksDir, "tasks", "tasks", "Root directory of the task tree")
	cmd.Flags().StringVar(&addressesPath, "addresses", "", "Path to the flat address book TOML (required)")
	cmd.Flags().StringVar(&superchainPath, "superchain", "", "Path to the superchain registry TOML (required)")
	cmd.Flags().StringVar(&networksPath, "networks", "", "Path to the networks manifest YAML")
	cmd.Flags().StringVar(&rpcURL, "rpc-url", "", "RPC endpoint (overrides the manifest)")
	cmd.Flags().StringVar(&artifactPath, "artifact", "", "Persist accumulated post-run state to this path")

	for _, flag := range []string{"addresses", "superchain"} {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("failed to mark --%s required: %v", flag, err))
		}
	}

	return cmd
}
