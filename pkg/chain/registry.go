// Package chain provides the chain endpoint registry and the read-only
// ownership oracle used to answer token-holding queries.
package chain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes a single configured chain.
type Config struct {
	Name         string `yaml:"name"`
	ChainID      uint64 `yaml:"chain_id"`
	HTTPEndpoint string `yaml:"http_endpoint"`
	WSEndpoint   string `yaml:"ws_endpoint"`
}

// ConfigLookup resolves a chain name to its endpoint configuration. A
// missing chain is an error, never a silent skip.
type ConfigLookup interface {
	EthChainConfig(name string) (Config, error)
}

// Registry is a static ConfigLookup backed by a YAML chain registry file.
type Registry struct {
	chains map[string]Config
}

type registryFile struct {
	Chains []Config `yaml:"chains"`
}

// NewRegistry builds a registry from a list of chain configs.
func NewRegistry(chains []Config) (*Registry, error) {
	byName := make(map[string]Config, len(chains))

	for _, chain := range chains {
		if chain.Name == "" {
			return nil, fmt.Errorf("chain name is required")
		}

		if chain.HTTPEndpoint == "" {
			return nil, fmt.Errorf("http endpoint is required for chain %q", chain.Name)
		}

		if _, exists := byName[chain.Name]; exists {
			return nil, fmt.Errorf("duplicate chain %q", chain.Name)
		}

		byName[chain.Name] = chain
	}

	return &Registry{chains: byName}, nil
}

// LoadRegistry reads a YAML chain registry file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse chain registry: %w", err)
	}

	return NewRegistry(file.Chains)
}

func (r *Registry) EthChainConfig(name string) (Config, error) {
	chain, ok := r.chains[name]
	if !ok {
		return Config{}, fmt.Errorf("chain %q not configured", name)
	}

	return chain, nil
}
