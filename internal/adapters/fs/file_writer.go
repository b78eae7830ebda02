package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// FrontendSourceAdapter reads and atomically rewrites the frontend contract configuration file
type FrontendSourceAdapter struct {
	path string
}

// NewFrontendSourceAdapter creates a new frontend source adapter
func NewFrontendSourceAdapter(cfg *config.RuntimeConfig) *FrontendSourceAdapter {
	return &FrontendSourceAdapter{path: cfg.Paths.FrontendConfig}
}

// Path returns the file location
func (f *FrontendSourceAdapter) Path() string {
	return f.path
}

// Exists checks if the file exists
func (f *FrontendSourceAdapter) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Read returns the file content
func (f *FrontendSourceAdapter) Read(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read frontend config: %w", err)
	}
	return string(data), nil
}

// Write replaces the file through a temp file in the same directory.
// An existing file keeps its permissions.
func (f *FrontendSourceAdapter) Write(ctx context.Context, content string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, werr := tmp.WriteString(content)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr, os.Chmod(tmpPath, mode)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write frontend config: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace frontend config: %w", err)
	}
	return nil
}

// Ensure the adapter implements the interface
var _ usecase.FrontendSource = (*FrontendSourceAdapter)(nil)
