// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish serializes the canonical record list to disk. Writes
// are atomic (temp file plus rename) and guarded by a lock file, so a
// failed or concurrent run never leaves a previously published list
// truncated or interleaved.
package publish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Write serializes records to path in the given format. Empty fields
// are omitted entirely rather than emitted as null or empty
// placeholders. The parent directory is created if missing.
func Write(records []types.Record, path string, format types.OutputFormat) error {
	data, err := marshal(records, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	return writeAtomic(data, path)
}

func marshal(records []types.Record, format types.OutputFormat) ([]byte, error) {
	switch format {
	case types.OutputJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encoding JSON: %w", err)
		}
		return buf.Bytes(), nil
	case types.OutputYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q: use json or yaml", format)
	}
}

// writeAtomic writes data to a temp file in the destination directory
// and renames it into place, so readers never observe a partial file
// and a failed write leaves any existing file untouched.
func writeAtomic(data []byte, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".publish-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
