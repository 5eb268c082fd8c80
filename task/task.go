// Package task models one declaratively configured governance action: its
// descriptor file, the reusable template implementing its effect, and the
// multisig signing topology it executes under.
package task

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrMissingField is returned when a task descriptor omits a required
	// field.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidTaskType is returned when a template declares a task type
	// that is not one of the known variants.
	ErrInvalidTaskType = errors.New("invalid task type")

	// ErrTemplateNotFound is returned when a descriptor names a template that
	// was never registered.
	ErrTemplateNotFound = errors.New("template not found")
)

// TaskType selects how a template resolves its governing multisig and which
// chain scope it executes against.
type TaskType string

const (
	// TaskTypeSimple is chain-independent; its multisig lives in the flat
	// address book.
	TaskTypeSimple TaskType = "simple"

	// TaskTypeL2 is scoped to one or more L2 chains; its multisig is resolved
	// through the chain-scoped superchain registry.
	TaskTypeL2 TaskType = "l2"

	// TaskTypeOpcm performs privileged delegatecalls through the OP Contracts
	// Manager. Like TaskTypeL2 it requires a chain scope.
	TaskTypeOpcm TaskType = "opcm"
)

// Valid reports whether t is one of the known task type variants.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeSimple, TaskTypeL2, TaskTypeOpcm:
		return true
	default:
		return false
	}
}

func (t TaskType) String() string { return string(t) }

// Template is the behavioral contract shared by every governance-action
// implementation. Templates are instantiated fresh per task per run and
// injected into the runner; they are never looked up by mapping names to
// code at execution time.
type Template interface {
	// TaskType returns the template's task type variant.
	TaskType() TaskType

	// SafeAddressString returns the symbolic registry name of the multisig
	// governing this task.
	SafeAddressString() string

	// IsNestedSafe reports whether the given multisig is itself owned by
	// another multisig. The nestedness policy lives entirely in the template.
	IsNestedSafe(ctx context.Context, safe common.Address) (bool, error)

	// SimulateRun drives the direct simulation flow for the task configured
	// at configPath.
	SimulateRun(ctx context.Context, configPath string) error

	// SignFromChildMultisig drives the child-signing flow for the task
	// configured at configPath, signing as the given owner of the parent
	// multisig.
	SignFromChildMultisig(ctx context.Context, configPath string, owner common.Address) error
}
