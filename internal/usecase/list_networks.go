package usecase

import (
	"context"

	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// ListNetworks lists the built-in and configured networks
type ListNetworks struct {
	config *config.RuntimeConfig
}

// NewListNetworks creates a new list networks use case
func NewListNetworks(cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{config: cfg}
}

// NetworkInfo describes a network and whether it resolves with the current credentials
type NetworkInfo struct {
	Name    string
	ChainID uint64
	Local   bool
	Current bool
	Network *domain.Network
	Error   error
}

// ListNetworksResult contains the networks sorted by name
type ListNetworksResult struct {
	Networks []*NetworkInfo
}

// Run resolves every known network
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	resolver := uc.config.Networks
	result := &ListNetworksResult{}

	current := ""
	if uc.config.Network != nil {
		current = uc.config.Network.Name
	}

	for _, name := range resolver.Names() {
		def, _ := resolver.Lookup(name)
		info := &NetworkInfo{
			Name:    name,
			ChainID: def.ChainID,
			Local:   def.Local,
			Current: name == current,
		}
		info.Network, info.Error = resolver.Resolve(name)
		result.Networks = append(result.Networks, info)
	}

	return result, nil
}
