// Package registry resolves the symbolic contract names used by task templates
// to concrete onchain addresses.
//
// Two registry variants share the same lookup semantics: AddressBook holds a
// single flat namespace, while SuperchainRegistry scopes every name by an L2
// chain id. Both are constructed once from a TOML source file and are
// immutable afterwards. A lookup for a name that was never configured is
// always ErrNotFound, never a zero address.
package registry

import (
	"errors"
	"strconv"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

var (
	// ErrNotFound is returned when a symbolic name is not configured for the
	// requested namespace.
	ErrNotFound = errors.New("address not found")

	// ErrInvalidConfig is returned when a registry source file is malformed.
	ErrInvalidConfig = errors.New("invalid registry config")

	// ErrInvalidAddress is returned when a configured value is not a valid
	// Ethereum address.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrChainNotFound is returned when a chain id has no configured namespace.
	ErrChainNotFound = errors.New("chain not found")
)

// ChainScope identifies one L2 chain a task operates on.
type ChainScope struct {
	ChainID uint64 `toml:"chainId" json:"chainId"`
	Name    string `toml:"name" json:"name"`
}

// resolveChainName fills in a human-readable chain name when the source file
// omits one. Unknown chain ids keep an empty name rather than failing, since
// the name is informational only.
func resolveChainName(chainID uint64) string {
	details, err := chainsel.GetChainDetailsByChainIDAndFamily(
		strconv.FormatUint(chainID, 10), chainsel.FamilyEVM)
	if err != nil {
		return ""
	}

	return details.ChainName
}
