package registry

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml/v2"
)

// SuperchainRegistry is the chain-scoped registry variant. Every symbolic name
// is configured per L2 chain, so the same name may resolve to different
// addresses on different chains.
type SuperchainRegistry struct {
	// chains preserves the source-file ordering of chain scopes.
	chains []ChainScope
	// addresses is keyed by chain id, then symbolic name.
	addresses map[uint64]map[string]common.Address
}

// superchainFile is the on-disk shape of a chain-scoped registry source.
type superchainFile struct {
	Chains []superchainChain `toml:"chains"`
}

type superchainChain struct {
	ChainID   uint64            `toml:"chainId"`
	Name      string            `toml:"name"`
	Addresses map[string]string `toml:"addresses"`
}

// LoadSuperchainRegistry constructs a SuperchainRegistry from the TOML file at
// path.
func LoadSuperchainRegistry(path string) (*SuperchainRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read superchain registry %s: %w", path, err)
	}

	return NewSuperchainRegistry(data)
}

// NewSuperchainRegistry constructs a SuperchainRegistry from raw TOML source.
func NewSuperchainRegistry(data []byte) (*SuperchainRegistry, error) {
	var file superchainFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	r := &SuperchainRegistry{
		chains:    make([]ChainScope, 0, len(file.Chains)),
		addresses: make(map[uint64]map[string]common.Address, len(file.Chains)),
	}

	for _, chain := range file.Chains {
		if chain.ChainID == 0 {
			return nil, fmt.Errorf("chain entry is missing a chainId: %w", ErrInvalidConfig)
		}
		if _, exists := r.addresses[chain.ChainID]; exists {
			return nil, fmt.Errorf("duplicate chain id %d: %w", chain.ChainID, ErrInvalidConfig)
		}

		name := chain.Name
		if name == "" {
			name = resolveChainName(chain.ChainID)
		}

		addrs := make(map[string]common.Address, len(chain.Addresses))
		for symbolic, raw := range chain.Addresses {
			addr, err := parseAddress(symbolic, raw)
			if err != nil {
				return nil, fmt.Errorf("chain %d: %w", chain.ChainID, err)
			}
			addrs[symbolic] = addr
		}

		r.chains = append(r.chains, ChainScope{ChainID: chain.ChainID, Name: name})
		r.addresses[chain.ChainID] = addrs
	}

	return r, nil
}

// GetAddress returns the address configured for name on the given chain.
func (r *SuperchainRegistry) GetAddress(name string, chainID uint64) (common.Address, error) {
	addrs, ok := r.addresses[chainID]
	if !ok {
		return common.Address{}, fmt.Errorf("chain id %d: %w", chainID, ErrChainNotFound)
	}

	addr, ok := addrs[name]
	if !ok {
		return common.Address{}, fmt.Errorf("%q on chain %d: %w", name, chainID, ErrNotFound)
	}

	return addr, nil
}

// GetChains returns all configured chain scopes in source-file order.
func (r *SuperchainRegistry) GetChains() []ChainScope {
	chains := make([]ChainScope, len(r.chains))
	copy(chains, r.chains)

	return chains
}

// AddressesForChain returns a copy of every configured name for the given
// chain.
func (r *SuperchainRegistry) AddressesForChain(chainID uint64) (map[string]common.Address, error) {
	addrs, ok := r.addresses[chainID]
	if !ok {
		return nil, fmt.Errorf("chain id %d: %w", chainID, ErrChainNotFound)
	}

	result := make(map[string]common.Address, len(addrs))
	for name, addr := range addrs {
		result[name] = addr
	}

	return result, nil
}
