package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// builtinNetworks are available without any hmdeploy.toml entry
var builtinNetworks = map[string]NetworkConfig{
	"hardhat": {
		RPCURL:  "http://127.0.0.1:8545",
		ChainID: domain.LocalChainID,
		Local:   true,
	},
	"localhost": {
		RPCURL:  "http://127.0.0.1:8545",
		ChainID: domain.LocalChainID,
		Local:   true,
	},
	"sepolia": {
		ChainID:        11155111,
		AlchemyNetwork: "eth-sepolia",
		InfuraNetwork:  "sepolia",
		ExplorerURL:    "https://sepolia.etherscan.io",
		ExplorerAPIURL: "https://api-sepolia.etherscan.io/api",
	},
	"zama": {
		RPCURL:      "https://devnet.zama.ai",
		ChainID:     8009,
		ExplorerURL: "https://main.explorer.zama.ai",
	},
}

// ProviderKeys are the remote node credentials used to build RPC URLs
type ProviderKeys struct {
	Alchemy string
	Infura  string
}

// NetworkResolver resolves network names against the built-in table and hmdeploy.toml
type NetworkResolver struct {
	networks map[string]NetworkConfig
	keys     ProviderKeys
}

// NewNetworkResolver creates a resolver. Entries in overrides replace
// individual fields of the built-in network with the same name.
func NewNetworkResolver(overrides map[string]NetworkConfig, keys ProviderKeys) *NetworkResolver {
	networks := make(map[string]NetworkConfig, len(builtinNetworks)+len(overrides))
	for name, network := range builtinNetworks {
		networks[name] = network
	}
	for name, override := range overrides {
		networks[name] = overlay(networks[name], override)
	}
	return &NetworkResolver{networks: networks, keys: keys}
}

// Names returns every known network name, sorted
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a network name into a fully resolved network.
// Alchemy is preferred over Infura when both keys are present.
func (r *NetworkResolver) Resolve(name string) (*domain.Network, error) {
	cfg, ok := r.networks[name]
	if !ok {
		return nil, r.unknown(name)
	}

	network := &domain.Network{
		Name:           name,
		ChainID:        cfg.ChainID,
		ExplorerURL:    os.ExpandEnv(cfg.ExplorerURL),
		ExplorerAPIURL: os.ExpandEnv(cfg.ExplorerAPIURL),
		Local:          cfg.Local,
	}

	switch {
	case cfg.RPCURL != "":
		network.RPCURL = os.ExpandEnv(cfg.RPCURL)
		network.Provider = "custom"
		if cfg.Local {
			network.Provider = "local"
		}
	case r.keys.Alchemy != "" && cfg.AlchemyNetwork != "":
		network.RPCURL = fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", cfg.AlchemyNetwork, r.keys.Alchemy)
		network.Provider = "alchemy"
	case r.keys.Infura != "" && cfg.InfuraNetwork != "":
		network.RPCURL = fmt.Sprintf("https://%s.infura.io/v3/%s", cfg.InfuraNetwork, r.keys.Infura)
		network.Provider = "infura"
	default:
		return nil, fmt.Errorf("%w: network '%s' needs ALCHEMY_API_KEY or INFURA_API_KEY (or rpc_url in %s)",
			domain.ErrMissingCredential, name, ProjectFile)
	}

	if network.RPCURL == "" {
		return nil, fmt.Errorf("%w: rpc_url for network '%s' expands to an empty string", domain.ErrMissingCredential, name)
	}

	return network, nil
}

// Lookup returns the unresolved definition of a network
func (r *NetworkResolver) Lookup(name string) (NetworkConfig, bool) {
	cfg, ok := r.networks[name]
	return cfg, ok
}

// AccountIndex returns the mnemonic account index configured for a network
func (r *NetworkResolver) AccountIndex(name string) uint32 {
	return r.networks[name].AccountIndex
}

func (r *NetworkResolver) unknown(name string) error {
	matches := fuzzy.Find(name, r.Names())
	if len(matches) == 0 {
		return fmt.Errorf("%w: '%s' (known: %v)", domain.ErrUnknownNetwork, name, r.Names())
	}
	return fmt.Errorf("%w: '%s', did you mean '%s'?", domain.ErrUnknownNetwork, name, matches[0].Str)
}

func overlay(base, override NetworkConfig) NetworkConfig {
	if override.RPCURL != "" {
		base.RPCURL = override.RPCURL
	}
	if override.ChainID != 0 {
		base.ChainID = override.ChainID
	}
	if override.AlchemyNetwork != "" {
		base.AlchemyNetwork = override.AlchemyNetwork
	}
	if override.InfuraNetwork != "" {
		base.InfuraNetwork = override.InfuraNetwork
	}
	if override.ExplorerURL != "" {
		base.ExplorerURL = override.ExplorerURL
	}
	if override.ExplorerAPIURL != "" {
		base.ExplorerAPIURL = override.ExplorerAPIURL
	}
	if override.AccountIndex != 0 {
		base.AccountIndex = override.AccountIndex
	}
	if override.Local {
		base.Local = true
	}
	return base
}
