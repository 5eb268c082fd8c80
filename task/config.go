package task

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml/v2"

	"github.com/Melvillian/superchain-ops/pkg/logger"
	"github.com/Melvillian/superchain-ops/registry"
)

// Dependency references another task that must have completed earlier in the
// same run.
type Dependency struct {
	Task string `toml:"task"`
}

// Config is the fully resolved configuration of one task. It is built once
// per task per run and read-only thereafter.
type Config struct {
	// TemplateName names the template implementing this task's effect.
	TemplateName string `toml:"templateName"`

	// L2Chains lists the chain scopes the task operates on. Empty means the
	// task is chain-independent.
	L2Chains []registry.ChainScope `toml:"l2chains"`

	// DependsOn optionally references a task that must precede this one in
	// the discovery order.
	DependsOn *Dependency `toml:"dependsOn"`

	// Path is the descriptor file this config was loaded from.
	Path string `toml:"-"`

	// IsNested reports whether the governing multisig is itself owned by
	// another multisig. Populated by topology resolution during load.
	IsNested bool `toml:"-"`

	// ParentMultisig is the resolved address of the governing multisig.
	// Populated by topology resolution during load.
	ParentMultisig common.Address `toml:"-"`
}

// ChainIndependent reports whether the task declares no chain scope.
func (c Config) ChainIndependent() bool {
	return len(c.L2Chains) == 0
}

// Loader parses task descriptors and resolves their signing topology.
type Loader struct {
	lggr     logger.Logger
	resolver *TopologyResolver
}

// NewLoader creates a Loader that resolves topology through the given
// resolver.
func NewLoader(lggr logger.Logger, resolver *TopologyResolver) *Loader {
	return &Loader{
		lggr:     lggr.Named("TaskLoader"),
		resolver: resolver,
	}
}

// Load parses the task descriptor at path and resolves its topology.
//
// Topology resolution is a side-effecting step: it instantiates the task's
// template to query its task type and symbolic multisig name, and may call
// out to the chain for the nestedness judgment.
func (l *Loader) Load(ctx context.Context, path string) (Config, error) {
	cfg, err := parseConfig(path)
	if err != nil {
		return Config{}, err
	}

	topology, err := l.resolver.Resolve(ctx, cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve topology for %s: %w", path, err)
	}

	cfg.IsNested = topology.IsNested
	cfg.ParentMultisig = topology.ParentMultisig

	l.lggr.Debugw("Loaded task config",
		"path", path,
		"template", cfg.TemplateName,
		"chains", len(cfg.L2Chains),
		"nested", cfg.IsNested,
		"parentMultisig", cfg.ParentMultisig.Hex(),
	)

	return cfg, nil
}

// parseConfig reads and validates the raw descriptor without touching the
// chain.
func parseConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read task config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse task config %s: %w", path, err)
	}

	if cfg.TemplateName == "" {
		return Config{}, fmt.Errorf("templateName in %s: %w", path, ErrMissingField)
	}

	for i, scope := range cfg.L2Chains {
		if scope.ChainID == 0 {
			return Config{}, fmt.Errorf("l2chains[%d].chainId in %s: %w", i, path, ErrMissingField)
		}
	}

	cfg.Path = path

	return cfg, nil
}
