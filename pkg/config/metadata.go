package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MetadataPath derives the metadata file path from a model path by
// replacing its extension with ".metadata.json". Leading dots of the
// file name do not count as an extension ("dir/.model" stays whole).
func MetadataPath(modelPath string) string {
	dir, base := filepath.Split(modelPath)
	stem := strings.TrimLeft(base, ".")
	if i := strings.LastIndex(stem, "."); i >= 0 {
		base = base[:len(base)-len(stem)+i]
	}
	return dir + base + ".metadata.json"
}

// SaveMetadata writes p as a flat JSON object.
func SaveMetadata(path string, p Params) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode model metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save model metadata: %w", err)
	}
	return nil
}

func LoadMetadata(path string) (Params, error) {
	var p Params
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to load model metadata: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to load model metadata: %w", err)
	}
	return p, nil
}
