// The superchain-ops binary exposes the run and check-diff commands with an
// empty template registry. Deployments with compiled-in templates build their
// own main around pkg/commands instead.
package main

import (
	"fmt"
	"os"

	"github.com/Melvillian/superchain-ops/pkg/commands"
	"github.com/Melvillian/superchain-ops/pkg/logger"
)

func main() {
	lggr, err := logger.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = lggr.Sync() }()

	cmds := commands.New(commands.Config{Logger: lggr})
	if err := cmds.Root().Execute(); err != nil {
		lggr.Error(err)
		os.Exit(1)
	}
}
