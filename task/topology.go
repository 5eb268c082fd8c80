package task

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Melvillian/superchain-ops/pkg/logger"
	"github.com/Melvillian/superchain-ops/registry"
)

// Topology is the resolved signing topology of one task.
type Topology struct {
	// IsNested reports whether the governing multisig is itself owned by
	// another multisig, requiring the child-signing flow.
	IsNested bool

	// ParentMultisig is the concrete address of the governing multisig.
	ParentMultisig common.Address
}

// TopologyResolver determines each task's signing topology by instantiating
// its template, resolving the template's symbolic multisig name through the
// registry variant selected by the task type, and delegating the nestedness
// judgment back to the template.
type TopologyResolver struct {
	lggr       logger.Logger
	templates  *Registry
	addresses  *registry.AddressBook
	superchain *registry.SuperchainRegistry
}

// NewTopologyResolver creates a TopologyResolver over the given template and
// address registries.
func NewTopologyResolver(
	lggr logger.Logger,
	templates *Registry,
	addresses *registry.AddressBook,
	superchain *registry.SuperchainRegistry,
) *TopologyResolver {
	return &TopologyResolver{
		lggr:       lggr.Named("TopologyResolver"),
		templates:  templates,
		addresses:  addresses,
		superchain: superchain,
	}
}

// safeResolveFunc resolves a template's symbolic multisig name to an address
// for one task type variant.
type safeResolveFunc func(r *TopologyResolver, cfg Config, name string) (common.Address, error)

// safeResolvers is the task-type dispatch table. Selecting the registry
// variant by tag here keeps the policy in one place instead of spreading it
// across template subtypes.
var safeResolvers = map[TaskType]safeResolveFunc{
	TaskTypeSimple: resolveFlat,
	TaskTypeL2:     resolveChainScoped,
	TaskTypeOpcm:   resolveChainScoped,
}

// Resolve determines the signing topology for the task described by cfg.
func (r *TopologyResolver) Resolve(ctx context.Context, cfg Config) (Topology, error) {
	tmpl, err := r.templates.New(cfg.TemplateName)
	if err != nil {
		return Topology{}, err
	}

	taskType := tmpl.TaskType()
	resolve, ok := safeResolvers[taskType]
	if !ok {
		return Topology{}, fmt.Errorf("%q: %w", taskType, ErrInvalidTaskType)
	}

	safeName := tmpl.SafeAddressString()
	parent, err := resolve(r, cfg, safeName)
	if err != nil {
		return Topology{}, fmt.Errorf("failed to resolve safe %q: %w", safeName, err)
	}

	nested, err := tmpl.IsNestedSafe(ctx, parent)
	if err != nil {
		return Topology{}, fmt.Errorf("failed to determine nestedness of %s: %w", parent.Hex(), err)
	}

	r.lggr.Debugw("Resolved task topology",
		"template", cfg.TemplateName,
		"taskType", taskType,
		"safe", safeName,
		"parentMultisig", parent.Hex(),
		"nested", nested,
	)

	return Topology{IsNested: nested, ParentMultisig: parent}, nil
}

func resolveFlat(r *TopologyResolver, _ Config, name string) (common.Address, error) {
	return r.addresses.Get(name)
}

// resolveChainScoped resolves against the first configured chain scope only.
// No other chain is consulted; a task declaring several scopes still signs
// from the multisig configured for scope 0.
func resolveChainScoped(r *TopologyResolver, cfg Config, name string) (common.Address, error) {
	if cfg.ChainIndependent() {
		return common.Address{}, fmt.Errorf("l2chains: %w", ErrMissingField)
	}

	return r.superchain.GetAddress(name, cfg.L2Chains[0].ChainID)
}
