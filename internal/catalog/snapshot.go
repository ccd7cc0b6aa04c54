package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// EncodeSnapshot renders the catalog as an indented JSON array with a
// trailing newline. Output depends only on the catalog contents.
func EncodeSnapshot(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Projects()); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSnapshot atomically replaces path with the encoded catalog.
func WriteSnapshot(path string, c *Catalog) error {
	data, err := EncodeSnapshot(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot parses snapshot bytes, rejecting records whose derived
// fields disagree with their image list.
func DecodeSnapshot(data []byte) (*Catalog, error) {
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	for i, p := range projects {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: record %d (%q) has inconsistent cover/count/images", ErrSnapshot, i, p.Slug)
		}
	}
	return &Catalog{projects: projects}, nil
}

// ReadSnapshot loads a snapshot file written by WriteSnapshot.
func ReadSnapshot(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	return DecodeSnapshot(data)
}
