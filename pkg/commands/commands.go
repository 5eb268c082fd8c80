// Package commands provides the cobra commands embedded by superchain-ops
// CLIs.
//
// Binaries register their compiled-in templates and mount the root command:
//
//	cmds := commands.New(commands.Config{Logger: lggr, Templates: templates})
//	if err := cmds.Root().Execute(); err != nil { ... }
package commands

import (
	"github.com/spf13/cobra"

	"github.com/Melvillian/superchain-ops/pkg/logger"
	"github.com/Melvillian/superchain-ops/runner"
	"github.com/Melvillian/superchain-ops/task"
)

// Config holds the dependencies shared by all commands.
type Config struct {
	// Logger is used by every command.
	Logger logger.Logger

	// Templates holds the governance-action templates compiled into the
	// embedding binary.
	Templates *task.Registry

	// StateDumper optionally exposes the execution backend's accumulated
	// state; required only when `run --artifact` is used.
	StateDumper runner.StateDumper
}

// Commands is a factory for the CLI command tree.
type Commands struct {
	cfg Config
}

// New creates a Commands factory.
func New(cfg Config) *Commands {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Templates == nil {
		cfg.Templates = task.NewRegistry()
	}

	return &Commands{cfg: cfg}
}

// Root returns the root command with all subcommands attached.
func (c *Commands) Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "superchain-ops",
		Short:         "Execute and verify multisig governance tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newRunCmd(c.cfg),
		newCheckDiffCmd(c.cfg),
	)

	return cmd
}
