// Package runner sequences the pending governance tasks of a network and
// drives each one through its signing flow.
//
// Execution is strictly sequential and cumulative: state produced by task N is
// visible to task N+1 within the same run, modeling that later proposals may
// assume earlier ones already took effect. Any failure aborts the remainder
// of the run immediately; there is no partial completion, skip-and-continue or
// retry at this layer. Re-invoking the whole run from scratch is the only
// recovery path.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/segmentio/ksuid"

	"github.com/Melvillian/superchain-ops/pkg/logger"
	"github.com/Melvillian/superchain-ops/task"
)

var (
	// ErrNoOwners is returned when a nested task's parent multisig reports an
	// empty owner list.
	ErrNoOwners = errors.New("parent multisig has no owners")

	// ErrNoStateDumper is returned by RunWithArtifact when no execution
	// backend was configured to dump state from.
	ErrNoStateDumper = errors.New("no state dumper configured")

	// ErrDependencyNotMet is returned when a task's dependsOn reference names
	// a task that has not completed earlier in the discovery order.
	ErrDependencyNotMet = errors.New("task dependency not met")
)

// OwnersFetcher is the multisig introspection collaborator.
type OwnersFetcher interface {
	GetOwners(ctx context.Context, safe common.Address) ([]common.Address, error)
}

// StateDumper exposes the execution backend's accumulated post-run state as
// an opaque blob consumable by downstream verification tooling.
type StateDumper interface {
	DumpState(ctx context.Context) ([]byte, error)
}

// TaskRunner resolves and executes all pending tasks for a network.
type TaskRunner struct {
	lggr      logger.Logger
	templates *task.Registry
	loader    *task.Loader
	discovery Discovery
	owners    OwnersFetcher
	dumper    StateDumper
}

// Option configures a TaskRunner.
type Option func(*TaskRunner)

// WithStateDumper attaches the execution backend whose accumulated state
// RunWithArtifact persists.
func WithStateDumper(dumper StateDumper) Option {
	return func(r *TaskRunner) {
		r.dumper = dumper
	}
}

// New creates a TaskRunner.
func New(
	lggr logger.Logger,
	templates *task.Registry,
	loader *task.Loader,
	discovery Discovery,
	owners OwnersFetcher,
	opts ...Option,
) *TaskRunner {
	r := &TaskRunner{
		lggr:      lggr.Named("TaskRunner"),
		templates: templates,
		loader:    loader,
		discovery: discovery,
		owners:    owners,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes every pending task for the network, in discovery order.
func (r *TaskRunner) Run(ctx context.Context, network string) error {
	runID := ksuid.New().String()
	lggr := r.lggr.Named(network)

	paths, err := r.discovery.ListPendingTasks(network)
	if err != nil {
		return fmt.Errorf("failed to discover tasks for %q: %w", network, err)
	}

	lggr.Infow("Starting task run", "runID", runID, "tasks", len(paths))

	completed := make(map[string]bool, len(paths))
	for i, path := range paths {
		name := taskName(path)
		lggr.Infow("Executing task", "runID", runID, "index", i, "task", name)

		if err := r.runTask(ctx, path, completed); err != nil {
			return fmt.Errorf("task %q failed: %w", name, err)
		}

		completed[name] = true
	}

	lggr.Infow("Task run complete", "runID", runID, "tasks", len(paths))

	return nil
}

// RunWithArtifact executes every pending task for the network and then
// persists the backend's accumulated post-run state to artifactPath, so
// downstream verification can start from a precomputed baseline instead of
// re-executing every prior task.
func (r *TaskRunner) RunWithArtifact(ctx context.Context, artifactPath, network string) error {
	if r.dumper == nil {
		return ErrNoStateDumper
	}

	if err := r.Run(ctx, network); err != nil {
		return err
	}

	state, err := r.dumper.DumpState(ctx)
	if err != nil {
		return fmt.Errorf("failed to dump post-run state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(artifactPath), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(artifactPath, state, 0o644); err != nil {
		return fmt.Errorf("failed to write state artifact: %w", err)
	}

	r.lggr.Infow("Persisted post-run state", "artifact", artifactPath, "bytes", len(state))

	return nil
}

// runTask loads a single task's config, validates its dependency against the
// tasks already completed in this run, and drives it through the nested or
// direct flow.
func (r *TaskRunner) runTask(ctx context.Context, path string, completed map[string]bool) error {
	cfg, err := r.loader.Load(ctx, path)
	if err != nil {
		return err
	}

	if cfg.DependsOn != nil && !completed[cfg.DependsOn.Task] {
		return fmt.Errorf("depends on %q which has not completed earlier in this run: %w",
			cfg.DependsOn.Task, ErrDependencyNotMet)
	}

	// Fresh template logic per execution; the loader's instance was only used
	// for topology resolution.
	tmpl, err := r.templates.New(cfg.TemplateName)
	if err != nil {
		return err
	}

	if cfg.IsNested {
		return r.runNested(ctx, tmpl, cfg)
	}

	return tmpl.SimulateRun(ctx, cfg.Path)
}

// runNested drives the child-signing flow, signing as the deterministically
// selected owner at index 0 of the parent multisig.
func (r *TaskRunner) runNested(ctx context.Context, tmpl task.Template, cfg task.Config) error {
	owners, err := r.owners.GetOwners(ctx, cfg.ParentMultisig)
	if err != nil {
		return fmt.Errorf("failed to get owners of %s: %w", cfg.ParentMultisig.Hex(), err)
	}
	if len(owners) == 0 {
		return fmt.Errorf("%s: %w", cfg.ParentMultisig.Hex(), ErrNoOwners)
	}

	signer := owners[0]
	r.lggr.Debugw("Signing from child multisig",
		"parent", cfg.ParentMultisig.Hex(),
		"owner", signer.Hex(),
		"owners", len(owners),
	)

	return tmpl.SignFromChildMultisig(ctx, cfg.Path, signer)
}

// taskName derives the task's name from its directory.
func taskName(configPath string) string {
	return filepath.Base(filepath.Dir(configPath))
}
