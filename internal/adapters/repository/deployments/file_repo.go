package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// FileRepository stores the deployment cache and deployment-info.json as JSON files
type FileRepository struct {
	deploymentsDir string
	recordPath     string
	planPath       string
}

// NewFileRepository creates a repository rooted at the configured paths
func NewFileRepository(deploymentsDir, recordPath, planPath string) *FileRepository {
	return &FileRepository{
		deploymentsDir: deploymentsDir,
		recordPath:     recordPath,
		planPath:       planPath,
	}
}

// NewFileRepositoryFromConfig creates a repository from the runtime configuration
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.Paths.Deployments, cfg.Paths.DeploymentInfo, cfg.Paths.Plan)
}

// GetCachedDeployment reads deployments/<network>/<unit>.json
func (m *FileRepository) GetCachedDeployment(ctx context.Context, network, unit string) (*domain.CachedDeployment, error) {
	var deployment domain.CachedDeployment
	if err := loadFile(m.cachePath(network, unit), &deployment); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s on %s", domain.ErrNotDeployed, unit, network)
		}
		return nil, fmt.Errorf("failed to load cached deployment %s: %w", unit, err)
	}
	return &deployment, nil
}

// ListCachedDeployments returns every cache entry of a network sorted by unit name
func (m *FileRepository) ListCachedDeployments(ctx context.Context, network string) ([]*domain.CachedDeployment, error) {
	dir := filepath.Join(m.deploymentsDir, network)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var result []*domain.CachedDeployment
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		unit := strings.TrimSuffix(entry.Name(), ".json")
		deployment, err := m.GetCachedDeployment(ctx, network, unit)
		if err != nil {
			return nil, err
		}
		result = append(result, deployment)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Unit < result[j].Unit })
	return result, nil
}

// SaveCachedDeployment writes a unit's cache entry
func (m *FileRepository) SaveCachedDeployment(ctx context.Context, network string, deployment *domain.CachedDeployment) error {
	if deployment.Unit == "" {
		return fmt.Errorf("cached deployment has no unit name")
	}
	if err := saveFile(m.cachePath(network, deployment.Unit), deployment); err != nil {
		return fmt.Errorf("failed to save cached deployment %s: %w", deployment.Unit, err)
	}
	return nil
}

// GetDeploymentRecord reads deployment-info.json
func (m *FileRepository) GetDeploymentRecord(ctx context.Context) (*domain.DeploymentRecord, error) {
	var record domain.DeploymentRecord
	if err := loadFile(m.recordPath, &record); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, filepath.Base(m.recordPath))
		}
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(m.recordPath), err)
	}
	return &record, nil
}

// SaveDeploymentRecord overwrites deployment-info.json
func (m *FileRepository) SaveDeploymentRecord(ctx context.Context, record *domain.DeploymentRecord) error {
	if err := saveFile(m.recordPath, record); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(m.recordPath), err)
	}
	return nil
}

// LoadPlan reads and validates the YAML deployment plan
func (m *FileRepository) LoadPlan(ctx context.Context) (*domain.DeploymentPlan, error) {
	data, err := os.ReadFile(m.planPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment plan: %w", err)
	}

	var plan domain.DeploymentPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (m *FileRepository) cachePath(network, unit string) string {
	return filepath.Join(m.deploymentsDir, network, unit+".json")
}

// loadFile decodes a JSON file
func loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// saveFile writes JSON through a temp file in the same directory and renames it into place
func saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Ensure the adapter implements both interfaces
var (
	_ usecase.DeploymentStore = (*FileRepository)(nil)
	_ usecase.PlanLoader      = (*FileRepository)(nil)
)
