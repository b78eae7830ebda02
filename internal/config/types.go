package config

import (
	"fmt"
	"time"

	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration.
// It is built once at startup and injected into every use case.
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	Paths       Paths

	// Target network, resolved from --network. When its RPC URL cannot be
	// built, Network carries only the static fields and NetworkErr says why.
	Network    *domain.Network
	NetworkErr error

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration
	Confirmations  uint64
	VerifyDelay    time.Duration

	// Environment-derived settings
	Accounts       *Accounts
	EtherscanKey   string
	PlatformWallet string
	ReportGas      bool

	// Resolved project file
	Project  *ProjectConfig
	Networks *NetworkResolver
}

// ChainNetwork returns the target network for commands that reach the chain
func (c *RuntimeConfig) ChainNetwork() (*domain.Network, error) {
	if c.NetworkErr != nil {
		return nil, c.NetworkErr
	}
	if c.Network == nil {
		return nil, fmt.Errorf("%w: no network selected", domain.ErrUnknownNetwork)
	}
	return c.Network, nil
}

// Paths holds absolute locations of every file the tool reads or writes
type Paths struct {
	Artifacts      string
	Deployments    string
	DeploymentInfo string
	Plan           string
	FrontendConfig string
}

// ProjectConfig represents hmdeploy.toml
type ProjectConfig struct {
	Paths    PathsConfig              `toml:"paths"`
	Frontend FrontendConfig           `toml:"frontend"`
	Deploy   DeployConfig             `toml:"deploy"`
	Inspect  InspectConfig            `toml:"inspect"`
	Update   UpdateConfig             `toml:"update"`
	ABI      ABIConfig                `toml:"abi"`
	Networks map[string]NetworkConfig `toml:"networks"`
}

// PathsConfig holds project-relative paths
type PathsConfig struct {
	Artifacts      string `toml:"artifacts"`
	Deployments    string `toml:"deployments"`
	DeploymentInfo string `toml:"deployment_info"`
	Plan           string `toml:"plan"`
}

// FrontendConfig describes where the frontend keeps its contract binding
type FrontendConfig struct {
	ConfigFile        string   `toml:"config_file"`
	Contract          string   `toml:"contract"`
	AddressConstant   string   `toml:"address_constant"`
	ABIConstant       string   `toml:"abi_constant"`
	ABIStartMarker    string   `toml:"abi_start_marker"`
	ABIEndMarker      string   `toml:"abi_end_marker"`
	RequiredConstants []string `toml:"required_constants"`
}

// DeployConfig holds deployment defaults
type DeployConfig struct {
	Confirmations uint64   `toml:"confirmations"`
	VerifyDelay   string   `toml:"verify_delay"`
	VerifyCommand []string `toml:"verify_command"`
}

// InspectConfig lists the getters read by inspect
type InspectConfig struct {
	Getters []string `toml:"getters"`
}

// UpdateConfig holds defaults for update-library
type UpdateConfig struct {
	Contract string `toml:"contract"`
	Library  string `toml:"library"`
	Setter   string `toml:"setter"`
	Getter   string `toml:"getter"`
}

// ABIConfig lists the interface items the frontend is expected to expose
type ABIConfig struct {
	Expect ExpectConfig `toml:"expect"`
}

// ExpectConfig lists expected function and event names
type ExpectConfig struct {
	Functions []string `toml:"functions"`
	Events    []string `toml:"events"`
}

// NetworkConfig is a network entry in hmdeploy.toml. Zero fields inherit the built-in definition.
type NetworkConfig struct {
	RPCURL         string `toml:"rpc_url"`
	ChainID        uint64 `toml:"chain_id"`
	AlchemyNetwork string `toml:"alchemy_network"`
	InfuraNetwork  string `toml:"infura_network"`
	ExplorerURL    string `toml:"explorer_url"`
	ExplorerAPIURL string `toml:"explorer_api_url"`
	AccountIndex   uint32 `toml:"account_index"`
	Local          bool   `toml:"local"`
}
