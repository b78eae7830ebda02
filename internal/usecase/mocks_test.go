package usecase_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// Hardhat account #0
const (
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testDeployer   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

var (
	localNetwork   = &domain.Network{Name: "localhost", RPCURL: "http://127.0.0.1:8545", ChainID: 31337, Provider: "local", Local: true}
	sepoliaNetwork = &domain.Network{Name: "sepolia", RPCURL: "https://rpc", ChainID: 11155111, Provider: "custom", ExplorerURL: "https://sepolia.etherscan.io"}
)

func newTestConfig(network *domain.Network) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot:    "/project",
		Network:        network,
		NonInteractive: true,
		Confirmations:  1,
		Accounts:       &config.Accounts{PrivateKey: testPrivateKey},
		Project:        config.DefaultProjectConfig(),
		Networks:       config.NewNetworkResolver(nil, config.ProviderKeys{}),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const marketplaceABI = `[
  {"type":"constructor","inputs":[{"name":"riskLib","type":"address"},{"name":"wallet","type":"address"},{"name":"feeBps","type":"uint256"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"platformWallet","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
  {"type":"function","name":"riskLibrary","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
  {"type":"function","name":"registerPatient","inputs":[{"name":"id","type":"bytes32"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"event","name":"PatientRegistered","inputs":[{"name":"patient","type":"address","indexed":true}],"anonymous":false}
]`

const libraryABIJSON = `[{"type":"function","name":"version","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"pure"}]`

func newArtifact(name, abiJSON, bytecode string) *domain.Artifact {
	return &domain.Artifact{
		ContractName: name,
		SourceName:   "contracts/" + name + ".sol",
		ABI:          json.RawMessage(abiJSON),
		Bytecode:     domain.Bytecode(bytecode),
		Path:         "artifacts/contracts/" + name + ".sol/" + name + ".json",
	}
}

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) GetArtifact(ctx context.Context, contractName string) (*domain.Artifact, error) {
	args := m.Called(ctx, contractName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) GetCachedDeployment(ctx context.Context, network, unit string) (*domain.CachedDeployment, error) {
	args := m.Called(ctx, network, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedDeployment), args.Error(1)
}

func (m *MockDeploymentStore) ListCachedDeployments(ctx context.Context, network string) ([]*domain.CachedDeployment, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CachedDeployment), args.Error(1)
}

func (m *MockDeploymentStore) SaveCachedDeployment(ctx context.Context, network string, deployment *domain.CachedDeployment) error {
	args := m.Called(ctx, network, deployment)
	return args.Error(0)
}

func (m *MockDeploymentStore) GetDeploymentRecord(ctx context.Context) (*domain.DeploymentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentStore) SaveDeploymentRecord(ctx context.Context, record *domain.DeploymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockPlanLoader is a mock implementation of PlanLoader
type MockPlanLoader struct {
	mock.Mock
}

func (m *MockPlanLoader) LoadPlan(ctx context.Context) (*domain.DeploymentPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentPlan), args.Error(1)
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) Connect(ctx context.Context, network *domain.Network) error {
	args := m.Called(ctx, network)
	return args.Error(0)
}

func (m *MockChainClient) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainClient) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.TxResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TxResult), args.Error(1)
}

func (m *MockChainClient) Call(ctx context.Context, address common.Address, contract abi.ABI, method string, params ...any) ([]any, error) {
	args := m.Called(ctx, address, method, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

func (m *MockChainClient) Transact(ctx context.Context, req usecase.TransactRequest) (*usecase.TxResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TxResult), args.Error(1)
}

func (m *MockChainClient) Close() {
	m.Called()
}

// MockSourceVerifier is a mock implementation of SourceVerifier
type MockSourceVerifier struct {
	mock.Mock
}

func (m *MockSourceVerifier) Verify(ctx context.Context, network *domain.Network, address common.Address, params []string) (*usecase.VerifyOutcome, error) {
	args := m.Called(ctx, network, address, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VerifyOutcome), args.Error(1)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

// MockFrontendGenerator is a mock implementation of FrontendGenerator
type MockFrontendGenerator struct {
	mock.Mock
}

func (m *MockFrontendGenerator) Generate(ctx context.Context, data usecase.FrontendTemplateData) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

// memoryFrontend is an in-memory FrontendSource
type memoryFrontend struct {
	path    string
	content *string
	writes  int
}

func newMemoryFrontend(content string) *memoryFrontend {
	return &memoryFrontend{path: "frontend/src/config/contract.ts", content: &content}
}

func (f *memoryFrontend) Path() string { return f.path }

func (f *memoryFrontend) Exists(ctx context.Context) (bool, error) {
	return f.content != nil, nil
}

func (f *memoryFrontend) Read(ctx context.Context) (string, error) {
	if f.content == nil {
		return "", domain.ErrNotFound
	}
	return *f.content, nil
}

func (f *memoryFrontend) Write(ctx context.Context, content string) error {
	f.content = &content
	f.writes++
	return nil
}

// recordingProgress captures progress events
type recordingProgress struct {
	events []usecase.ProgressEvent
	infos  []string
}

func (p *recordingProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.events = append(p.events, event)
}

func (p *recordingProgress) Info(message string) {
	p.infos = append(p.infos, message)
}

func (p *recordingProgress) Error(message string) {}
