package adapters

import (
	"io"
	"os"

	"github.com/google/wire"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/abi"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/fs"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/progress"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/repository/artifacts"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/template"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/verification"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// ProvideProgressOutput provides the writer progress is reported to
func ProvideProgressOutput() io.Writer {
	return os.Stderr
}

// RepositorySet provides file-backed repositories
var RepositorySet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentStore), new(*deployments.FileRepository)),
	wire.Bind(new(usecase.PlanLoader), new(*deployments.FileRepository)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewFrontendSourceAdapter,
	wire.Bind(new(usecase.FrontendSource), new(*fs.FrontendSourceAdapter)),
)

// TemplateSet provides template-based implementations
var TemplateSet = wire.NewSet(
	template.NewFrontendGeneratorAdapter,
	wire.Bind(new(usecase.FrontendGenerator), new(*template.FrontendGeneratorAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),

	abi.NewEncoder,
	wire.Bind(new(usecase.ArgEncoder), new(*abi.Encoder)),
)

// VerificationSet provides explorer verification
var VerificationSet = wire.NewSet(
	verification.NewHardhatVerifier,
	wire.Bind(new(usecase.SourceVerifier), new(*verification.HardhatVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),

	ProvideProgressOutput,
	progress.NewProgressSink,
	wire.Bind(new(usecase.ProgressSink), new(*progress.SpinnerProgress)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	FSSet,
	TemplateSet,
	BlockchainSet,
	VerificationSet,
	InteractiveSet,
)
