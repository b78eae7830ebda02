package app

import (
	"log/slog"

	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	DeployContracts        *usecase.DeployContracts
	InspectContract        *usecase.InspectContract
	UpdateLibrary          *usecase.UpdateLibrary
	VerifySource           *usecase.VerifySource
	CheckABI               *usecase.CheckABI
	SyncABI                *usecase.SyncABI
	GenerateFrontendConfig *usecase.GenerateFrontendConfig
	ListNetworks           *usecase.ListNetworks
	ShowDeployment         *usecase.ShowDeployment
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	deployContracts *usecase.DeployContracts,
	inspectContract *usecase.InspectContract,
	updateLibrary *usecase.UpdateLibrary,
	verifySource *usecase.VerifySource,
	checkABI *usecase.CheckABI,
	syncABI *usecase.SyncABI,
	generateFrontendConfig *usecase.GenerateFrontendConfig,
	listNetworks *usecase.ListNetworks,
	showDeployment *usecase.ShowDeployment,
) (*App, error) {
	return &App{
		Config:                 cfg,
		Log:                    log,
		DeployContracts:        deployContracts,
		InspectContract:        inspectContract,
		UpdateLibrary:          updateLibrary,
		VerifySource:           verifySource,
		CheckABI:               checkABI,
		SyncABI:                syncABI,
		GenerateFrontendConfig: generateFrontendConfig,
		ListNetworks:           listNetworks,
		ShowDeployment:         showDeployment,
	}, nil
}
