package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"plan-picker/internal/model"
)

// LoadCatalogJSON reads a saved marketplace response.
func LoadCatalogJSON(path string) (*model.CatalogResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var resp model.CatalogResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return &resp, nil
}

// SaveCatalog writes a marketplace response to path, creating parent directories.
func SaveCatalog(resp *model.CatalogResponse, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// FileSource serves a saved catalog regardless of ZIP code. Used by the CLI and tests.
type FileSource struct {
	Path string
}

func (s FileSource) QueryPlans(_ context.Context, _ string) (*model.CatalogResponse, error) {
	return LoadCatalogJSON(s.Path)
}
