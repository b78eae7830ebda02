package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// Repository discovers and indexes compiled contract artifacts
type Repository struct {
	projectRoot  string
	artifactsDir string
	byName       map[string][]*domain.Artifact // key: contract name
	byFQN        map[string]*domain.Artifact   // key: "sourceName:contractName"
	log          *slog.Logger
	mu           sync.RWMutex
	indexed      bool
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		projectRoot:  cfg.ProjectRoot,
		artifactsDir: cfg.Paths.Artifacts,
		log:          log.With("component", "artifacts"),
	}
}

// Index walks the artifacts directory once
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	r.byName = make(map[string][]*domain.Artifact)
	r.byFQN = make(map[string]*domain.Artifact)

	if _, err := os.Stat(r.artifactsDir); os.IsNotExist(err) {
		return fmt.Errorf("artifacts directory %s not found (did you run `npx hardhat compile`?)", r.artifactsDir)
	}

	err := filepath.Walk(r.artifactsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		return r.processArtifact(path)
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	r.indexed = true
	return nil
}

// processArtifact indexes a single artifact file
func (r *Repository) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var artifact domain.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		// Not every JSON file under artifacts/ is a contract artifact
		r.log.Debug("skipping unparseable artifact", "path", path, "error", err)
		return nil
	}

	if artifact.ContractName == "" {
		// Foundry artifacts carry no contractName, the file name is the contract
		artifact.ContractName = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if artifact.SourceName == "" {
		artifact.SourceName = filepath.Base(filepath.Dir(path))
	}
	if len(artifact.ABI) == 0 {
		return nil
	}

	artifact.Path, _ = filepath.Rel(r.projectRoot, path)

	r.log.Debug("indexed artifact", "contract", artifact.ContractName, "source", artifact.SourceName)

	r.byName[artifact.ContractName] = append(r.byName[artifact.ContractName], &artifact)
	r.byFQN[artifact.FullyQualifiedName()] = &artifact
	return nil
}

// GetArtifact retrieves an artifact by contract name or "sourceName:contractName"
func (r *Repository) GetArtifact(ctx context.Context, contractName string) (*domain.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if artifact, ok := r.byFQN[contractName]; ok {
		return artifact, nil
	}

	candidates := r.byName[contractName]
	switch len(candidates) {
	case 0:
		return nil, domain.ArtifactNotFoundErr{Name: contractName, Suggestions: r.suggest(contractName)}
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.FullyQualifiedName()
		}
		sort.Strings(names)
		return nil, fmt.Errorf("multiple artifacts named %s, use one of: %s", contractName, strings.Join(names, ", "))
	}
}

func (r *Repository) suggest(name string) []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)

	var suggestions []string
	for _, match := range fuzzy.Find(name, names) {
		suggestions = append(suggestions, match.Str)
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactRepository = (*Repository)(nil)
