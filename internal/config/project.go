package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ProjectFile is the name of the project configuration file
const ProjectFile = "hmdeploy.toml"

// Defaults for the frontend binding
const (
	DefaultAddressConstant = "CONTRACT_ADDRESS"
	DefaultABIConstant     = "CONTRACT_ABI"
	DefaultABIStartMarker  = "export const CONTRACT_ABI = "
	DefaultABIEndMarker    = " as const;"
)

// DefaultProjectConfig returns the configuration used when hmdeploy.toml is absent
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Artifacts:      "artifacts",
			Deployments:    "deployments",
			DeploymentInfo: "deployment-info.json",
			Plan:           "deploy.yaml",
		},
		Frontend: FrontendConfig{
			ConfigFile:        filepath.Join("frontend", "src", "config", "contract.ts"),
			Contract:          "HealthDataMarketplace",
			AddressConstant:   DefaultAddressConstant,
			ABIConstant:       DefaultABIConstant,
			ABIStartMarker:    DefaultABIStartMarker,
			ABIEndMarker:      DefaultABIEndMarker,
			RequiredConstants: []string{DefaultAddressConstant, DefaultABIConstant},
		},
		Deploy: DeployConfig{
			Confirmations: 1,
			VerifyDelay:   "30s",
			VerifyCommand: []string{"npx", "hardhat", "verify"},
		},
		Update: UpdateConfig{
			Setter: "setRiskLibrary",
			Getter: "riskLibrary",
		},
		ABI: ABIConfig{
			Expect: ExpectConfig{
				Functions: []string{
					"registerPatient",
					"submitHealthData",
					"grantResearcherAccess",
					"requestRiskScore",
					"platformWallet",
				},
				Events: []string{
					"PatientRegistered",
					"HealthDataSubmitted",
					"RiskScoreRequested",
				},
			},
		},
		Networks: map[string]NetworkConfig{},
	}
}

// LoadProjectConfig loads .env files and hmdeploy.toml from the project root.
// Missing fields keep their defaults.
func LoadProjectConfig(projectRoot string) (*ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := DefaultProjectConfig()

	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var file ProjectConfig
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	merge(cfg, &file)
	return cfg, nil
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// process environment are never overridden.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

func merge(dst, src *ProjectConfig) {
	setString(&dst.Paths.Artifacts, src.Paths.Artifacts)
	setString(&dst.Paths.Deployments, src.Paths.Deployments)
	setString(&dst.Paths.DeploymentInfo, src.Paths.DeploymentInfo)
	setString(&dst.Paths.Plan, src.Paths.Plan)

	setString(&dst.Frontend.ConfigFile, src.Frontend.ConfigFile)
	setString(&dst.Frontend.Contract, src.Frontend.Contract)
	setString(&dst.Frontend.AddressConstant, src.Frontend.AddressConstant)
	setString(&dst.Frontend.ABIConstant, src.Frontend.ABIConstant)
	setString(&dst.Frontend.ABIStartMarker, src.Frontend.ABIStartMarker)
	setString(&dst.Frontend.ABIEndMarker, src.Frontend.ABIEndMarker)
	if src.Frontend.RequiredConstants != nil {
		dst.Frontend.RequiredConstants = src.Frontend.RequiredConstants
	}

	if src.Deploy.Confirmations != 0 {
		dst.Deploy.Confirmations = src.Deploy.Confirmations
	}
	setString(&dst.Deploy.VerifyDelay, src.Deploy.VerifyDelay)
	if len(src.Deploy.VerifyCommand) > 0 {
		dst.Deploy.VerifyCommand = src.Deploy.VerifyCommand
	}

	if src.Inspect.Getters != nil {
		dst.Inspect.Getters = src.Inspect.Getters
	}

	setString(&dst.Update.Contract, os.ExpandEnv(src.Update.Contract))
	setString(&dst.Update.Library, os.ExpandEnv(src.Update.Library))
	setString(&dst.Update.Setter, src.Update.Setter)
	setString(&dst.Update.Getter, src.Update.Getter)

	if src.ABI.Expect.Functions != nil {
		dst.ABI.Expect.Functions = src.ABI.Expect.Functions
	}
	if src.ABI.Expect.Events != nil {
		dst.ABI.Expect.Events = src.ABI.Expect.Events
	}

	for name, network := range src.Networks {
		dst.Networks[name] = network
	}
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
