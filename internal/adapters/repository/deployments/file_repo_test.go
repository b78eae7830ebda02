package deployments_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/hmdeploy/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

func newRepo(t *testing.T) (*deployments.FileRepository, string) {
	t.Helper()
	root := t.TempDir()
	return deployments.NewFileRepository(
		filepath.Join(root, "deployments"),
		filepath.Join(root, "deployment-info.json"),
		filepath.Join(root, "deploy.yaml"),
	), root
}

func TestCachedDeployments(t *testing.T) {
	ctx := context.Background()

	t.Run("missing entry is not deployed", func(t *testing.T) {
		repo, _ := newRepo(t)
		_, err := repo.GetCachedDeployment(ctx, "localhost", "HealthRiskLib")
		assert.ErrorIs(t, err, domain.ErrNotDeployed)

		list, err := repo.ListCachedDeployments(ctx, "localhost")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("save and list", func(t *testing.T) {
		repo, root := newRepo(t)

		lib := &domain.CachedDeployment{
			Unit:         "HealthRiskLib",
			ContractName: "HealthRiskLib",
			Address:      common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
			BlockNumber:  1,
			ChainID:      31337,
			DeployedAt:   time.Now().UTC().Truncate(time.Second),
		}
		market := &domain.CachedDeployment{
			Unit:         "HealthDataMarketplace",
			ContractName: "HealthDataMarketplace",
			Address:      common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
			Args:         []string{lib.Address.Hex()},
			ChainID:      31337,
		}
		require.NoError(t, repo.SaveCachedDeployment(ctx, "localhost", lib))
		require.NoError(t, repo.SaveCachedDeployment(ctx, "localhost", market))

		assert.FileExists(t, filepath.Join(root, "deployments", "localhost", "HealthRiskLib.json"))

		got, err := repo.GetCachedDeployment(ctx, "localhost", "HealthRiskLib")
		require.NoError(t, err)
		assert.Equal(t, lib.Address, got.Address)
		assert.True(t, lib.DeployedAt.Equal(got.DeployedAt))

		list, err := repo.ListCachedDeployments(ctx, "localhost")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "HealthDataMarketplace", list[0].Unit)
		assert.Equal(t, []string{lib.Address.Hex()}, list[0].Args)

		other, err := repo.ListCachedDeployments(ctx, "sepolia")
		require.NoError(t, err)
		assert.Empty(t, other)

		// No temp files left behind
		entries, err := os.ReadDir(filepath.Join(root, "deployments", "localhost"))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("unit name required", func(t *testing.T) {
		repo, _ := newRepo(t)
		assert.Error(t, repo.SaveCachedDeployment(ctx, "localhost", &domain.CachedDeployment{}))
	})
}

func TestDeploymentRecord(t *testing.T) {
	ctx := context.Background()
	repo, root := newRepo(t)

	_, err := repo.GetDeploymentRecord(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	record := &domain.DeploymentRecord{
		Network:         "sepolia",
		ContractAddress: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		Deployer:        common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		DeploymentTime:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ChainID:         11155111,
	}
	require.NoError(t, repo.SaveDeploymentRecord(ctx, record))

	data, err := os.ReadFile(filepath.Join(root, "deployment-info.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"contractAddress": "0x5FbDB2315678afecb367f032d93F642f64180aa3"`)

	got, err := repo.GetDeploymentRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, record.ContractAddress, got.ContractAddress)
	assert.Equal(t, record.ChainID, got.ChainID)

	// Overwritten, never merged
	record2 := &domain.DeploymentRecord{Network: "localhost", ContractAddress: common.HexToAddress("0x01"), ChainID: 31337}
	require.NoError(t, repo.SaveDeploymentRecord(ctx, record2))
	got, err = repo.GetDeploymentRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "localhost", got.Network)
	assert.Equal(t, common.Address{}, got.Deployer)
}

func TestLoadPlan(t *testing.T) {
	ctx := context.Background()
	repo, root := newRepo(t)

	_, err := repo.LoadPlan(ctx)
	assert.ErrorContains(t, err, "failed to read deployment plan")

	plan := `record: HealthDataMarketplace
units:
  HealthRiskLib:
    contract: HealthRiskLib
  HealthDataMarketplace:
    contract: HealthDataMarketplace
    deps: [HealthRiskLib]
    args:
      - ref: HealthRiskLib
        optional: true
      - platform_wallet: true
      - value: "250"
    verify: true
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "deploy.yaml"), []byte(plan), 0644))

	loaded, err := repo.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HealthDataMarketplace", loaded.Record)
	market := loaded.Units["HealthDataMarketplace"]
	require.NotNil(t, market)
	assert.True(t, market.Verify)
	require.Len(t, market.Args, 3)
	assert.Equal(t, "ref", market.Args[0].Kind())
	assert.True(t, market.Args[0].Optional)
	assert.Equal(t, "platform_wallet", market.Args[1].Kind())
	require.NotNil(t, market.Args[2].Value)
	assert.Equal(t, "250", *market.Args[2].Value)

	require.NoError(t, os.WriteFile(filepath.Join(root, "deploy.yaml"), []byte("units:\n  A:\n    deps: [A]\n"), 0644))
	_, err = repo.LoadPlan(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}
