package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// projectMarkers identify a project root, in order of preference
var projectMarkers = []string{ProjectFile, "hardhat.config.ts", "hardhat.config.js"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	// .env files are loaded by now, so the raw variables can be read
	bindRawEnv(v)

	cfg := &RuntimeConfig{
		ProjectRoot:    projectRoot,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		Confirmations:  project.Deploy.Confirmations,
		Accounts: &Accounts{
			PrivateKey: v.GetString("private_key"),
			Mnemonic:   v.GetString("mnemonic"),
		},
		EtherscanKey:   v.GetString("etherscan_api_key"),
		PlatformWallet: v.GetString("platform_wallet"),
		ReportGas:      v.GetString("report_gas") != "",
		Project:        project,
		Paths: Paths{
			Artifacts:      resolvePath(projectRoot, project.Paths.Artifacts),
			Deployments:    resolvePath(projectRoot, project.Paths.Deployments),
			DeploymentInfo: resolvePath(projectRoot, project.Paths.DeploymentInfo),
			Plan:           resolvePath(projectRoot, project.Paths.Plan),
			FrontendConfig: resolvePath(projectRoot, project.Frontend.ConfigFile),
		},
	}

	if c := v.GetUint64("confirmations"); c > 0 {
		cfg.Confirmations = c
	}

	cfg.VerifyDelay, err = time.ParseDuration(project.Deploy.VerifyDelay)
	if err != nil {
		return nil, fmt.Errorf("invalid deploy.verify_delay %q: %w", project.Deploy.VerifyDelay, err)
	}

	cfg.Networks = NewNetworkResolver(project.Networks, ProviderKeys{
		Alchemy: v.GetString("alchemy_api_key"),
		Infura:  v.GetString("infura_api_key"),
	})

	networkName := v.GetString("network")
	network, err := cfg.Networks.Resolve(networkName)
	if err != nil {
		def, known := cfg.Networks.Lookup(networkName)
		if !known {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		// File-only commands still run; chain commands fail through ChainNetwork
		network = &domain.Network{
			Name:           networkName,
			ChainID:        def.ChainID,
			ExplorerURL:    os.ExpandEnv(def.ExplorerURL),
			ExplorerAPIURL: os.ExpandEnv(def.ExplorerAPIURL),
			Local:          def.Local,
		}
		cfg.NetworkErr = fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}
	cfg.Network = network
	cfg.Accounts.Index = cfg.Networks.AccountIndex(networkName)

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find hmdeploy.toml or a hardhat config
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a project (%s or hardhat.config.ts not found)", ProjectFile)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("HMDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("network", "localhost")
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		if err != nil {
			panic(err)
		}
	})

	return v
}

// bindRawEnv maps the conventional unprefixed variables used by hardhat projects
func bindRawEnv(v *viper.Viper) {
	for _, key := range []string{
		"mnemonic",
		"private_key",
		"infura_api_key",
		"alchemy_api_key",
		"etherscan_api_key",
		"platform_wallet",
		"report_gas",
	} {
		_ = v.BindEnv(key, "HMDEPLOY_"+strings.ToUpper(key), strings.ToUpper(key))
	}
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
