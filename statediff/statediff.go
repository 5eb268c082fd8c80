// Package statediff verifies that executing a governance task produced
// exactly the storage changes its author declared.
//
// The expected side is parsed from a JSON spec file authored alongside the
// task. The actual side is extracted from the execution trace returned by the
// simulation backend. Check compares the two entry-by-entry and fails fast
// with the precise field path of the first divergence, so a reviewer can see
// which expected change failed to occur, or which unexpected change occurred,
// without re-deriving the diff by hand.
package statediff

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrAmbiguousChain is returned when an execution trace spans more than
	// one chain id. No implicit chain is ever chosen.
	ErrAmbiguousChain = errors.New("trace spans multiple chain ids")

	// ErrEmptyTrace is returned when a trace carries no records, leaving no
	// execution context to take a chain id from.
	ErrEmptyTrace = errors.New("trace is empty")
)

// StorageDiff is one (account, slot) before/after value pair.
type StorageDiff struct {
	Account       common.Address `json:"account"`
	Slot          common.Hash    `json:"slot"`
	PreviousValue common.Hash    `json:"previousValue"`
	NewValue      common.Hash    `json:"newValue"`
}

// Spec is a target chain id plus an ordered sequence of expected storage
// diff entries. Two instances exist per task run: the expected side parsed
// from the task's spec file, and the actual side extracted from the
// execution trace.
type Spec struct {
	ChainID      uint64        `json:"chainId"`
	StorageSpecs []StorageDiff `json:"storageSpecs"`
}

// ParseError reports a malformed or missing field in a state diff spec
// document. Field is the path of the offending field, e.g.
// "storageSpecs[2].slot".
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid state diff spec at %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MismatchError reports the first divergence found between an expected and an
// actual state diff. Field is the path of the diverging field, e.g. "chainId"
// or "storageSpecs[3].newValue"; Expected and Actual carry both rendered
// values.
type MismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("state diff mismatch at %s: expected %s, actual %s", e.Field, e.Expected, e.Actual)
}
