// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubsync/pkg/types"
)

// FileAdapter reads candidate records from a local YAML or JSON file.
// It covers curated hand-maintained entries and batches collected by
// tools this program does not know about.
type FileAdapter struct {
	Path  string
	Label string
}

// Name returns the source label.
func (a *FileAdapter) Name() string { return a.Label }

// Records loads the file and decodes it as a list of records. The
// format is chosen by extension: .json decodes as JSON, everything
// else as YAML.
func (a *FileAdapter) Records(_ context.Context) ([]types.Record, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", a.Path, err)
	}

	var records []types.Record
	if strings.EqualFold(filepath.Ext(a.Path), ".json") {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", a.Path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", a.Path, err)
		}
	}
	return records, nil
}

// LoadSources reads a sources configuration file (YAML) listing source
// specs in priority order.
func LoadSources(path string) ([]types.SourceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file %s: %w", path, err)
	}
	var sf types.SourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}
	if len(sf.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no sources", path)
	}
	return sf.Sources, nil
}
