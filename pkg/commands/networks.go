package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Network is one entry of the networks manifest.
type Network struct {
	Name    string `yaml:"name"`
	ChainID uint64 `yaml:"chainId"`
	RPCURL  string `yaml:"rpcUrl"`
}

// NetworksConfig is the YAML networks manifest consumed by the run command.
type NetworksConfig struct {
	Networks []Network `yaml:"networks"`
}

// LoadNetworks reads the networks manifest at path.
func LoadNetworks(path string) (*NetworksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks manifest %s: %w", path, err)
	}

	var cfg NetworksConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse networks manifest %s: %w", path, err)
	}

	return &cfg, nil
}

// Get returns the manifest entry for the named network.
func (c *NetworksConfig) Get(name string) (Network, error) {
	for _, n := range c.Networks {
		if n.Name == name {
			return n, nil
		}
	}

	return Network{}, fmt.Errorf("network %q not found in manifest", name)
}
