//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/hmdeploy/internal/adapters"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/logging"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContracts,
		usecase.NewInspectContract,
		usecase.NewUpdateLibrary,
		usecase.NewVerifySource,
		usecase.NewCheckABI,
		usecase.NewSyncABI,
		usecase.NewGenerateFrontendConfig,
		usecase.NewListNetworks,
		usecase.NewShowDeployment,

		// App
		NewApp,
	)
	return nil, nil
}
