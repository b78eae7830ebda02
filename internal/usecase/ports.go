package usecase

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// ArtifactRepository provides compiled contract artifacts
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, contractName string) (*domain.Artifact, error)
}

// DeploymentStore handles persistence of the deployment cache and deployment-info.json
type DeploymentStore interface {
	GetCachedDeployment(ctx context.Context, network, unit string) (*domain.CachedDeployment, error)
	ListCachedDeployments(ctx context.Context, network string) ([]*domain.CachedDeployment, error)
	SaveCachedDeployment(ctx context.Context, network string, deployment *domain.CachedDeployment) error
	GetDeploymentRecord(ctx context.Context) (*domain.DeploymentRecord, error)
	SaveDeploymentRecord(ctx context.Context, record *domain.DeploymentRecord) error
}

// PlanLoader reads the deployment plan
type PlanLoader interface {
	LoadPlan(ctx context.Context) (*domain.DeploymentPlan, error)
}

// ChainClient talks to the target network over JSON-RPC
type ChainClient interface {
	Connect(ctx context.Context, network *domain.Network) error
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	Deploy(ctx context.Context, req DeployRequest) (*TxResult, error)
	Call(ctx context.Context, address common.Address, contract abi.ABI, method string, args ...any) ([]any, error)
	Transact(ctx context.Context, req TransactRequest) (*TxResult, error)
	Close()
}

// DeployRequest describes a contract creation transaction
type DeployRequest struct {
	Key           *ecdsa.PrivateKey
	ABI           abi.ABI
	Bytecode      []byte
	Args          []any
	Confirmations uint64
}

// TransactRequest describes a state-changing contract call
type TransactRequest struct {
	Key           *ecdsa.PrivateKey
	To            common.Address
	ABI           abi.ABI
	Method        string
	Args          []any
	Confirmations uint64
}

// TxResult is a mined and confirmed transaction
type TxResult struct {
	TxHash            common.Hash
	ContractAddress   common.Address
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// Cost returns gas used times the effective gas price
func (r *TxResult) Cost() *big.Int {
	if r.EffectiveGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}

// ArgEncoder converts textual values to and from ABI-typed Go values
type ArgEncoder interface {
	EncodeArgs(inputs abi.Arguments, raw []string) ([]any, error)
	FormatValue(value any) string
}

// SourceVerifier publishes contract sources to a block explorer
type SourceVerifier interface {
	Verify(ctx context.Context, network *domain.Network, address common.Address, args []string) (*VerifyOutcome, error)
}

// VerifyOutcome is the result of a source verification attempt
type VerifyOutcome struct {
	AlreadyVerified bool
	URL             string
	Output          string
}

// FrontendSource reads and writes the frontend contract configuration file
type FrontendSource interface {
	Path() string
	Exists(ctx context.Context) (bool, error)
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
}

// FrontendGenerator renders a complete frontend contract configuration module
type FrontendGenerator interface {
	Generate(ctx context.Context, data FrontendTemplateData) (string, error)
}

// FrontendTemplateData is the input of FrontendGenerator
type FrontendTemplateData struct {
	Contract        string
	Network         string
	ChainID         uint64
	Address         string
	AddressConstant string
	ABIStartMarker  string
	ABIEndMarker    string
	ABI             string
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
