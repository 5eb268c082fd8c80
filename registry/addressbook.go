package registry

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml/v2"
)

// AddressBook is the flat, single-namespace registry variant. It is used by
// chain-independent tasks whose governing multisig lives on L1 and is not
// keyed by any L2 chain.
//
// Ethereum addresses are always normalized to EIP-55 on load.
type AddressBook struct {
	addresses map[string]common.Address
}

// addressBookFile is the on-disk shape of a flat registry source.
type addressBookFile struct {
	Addresses map[string]string `toml:"addresses"`
}

// LoadAddressBook constructs an AddressBook from the TOML file at path.
func LoadAddressBook(path string) (*AddressBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read address book %s: %w", path, err)
	}

	return NewAddressBook(data)
}

// NewAddressBook constructs an AddressBook from raw TOML source.
func NewAddressBook(data []byte) (*AddressBook, error) {
	var file addressBookFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	addresses := make(map[string]common.Address, len(file.Addresses))
	for name, raw := range file.Addresses {
		addr, err := parseAddress(name, raw)
		if err != nil {
			return nil, err
		}
		addresses[name] = addr
	}

	return &AddressBook{addresses: addresses}, nil
}

// Get returns the address configured for name.
func (b *AddressBook) Get(name string) (common.Address, error) {
	addr, ok := b.addresses[name]
	if !ok {
		return common.Address{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	return addr, nil
}

// Len returns the number of configured names.
func (b *AddressBook) Len() int {
	return len(b.addresses)
}

func parseAddress(name, raw string) (common.Address, error) {
	if raw == "" {
		return common.Address{}, fmt.Errorf("address for %q cannot be empty: %w", name, ErrInvalidAddress)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("address %s for %q is not a valid Ethereum address: %w",
			raw, name, ErrInvalidAddress)
	}

	// HexToAddress yields the checksummed form via Hex(); storing the parsed
	// common.Address keeps every downstream rendering EIP-55.
	addr := common.HexToAddress(raw)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("address for %q cannot be the zero address: %w", name, ErrInvalidAddress)
	}

	return addr, nil
}
