package prover

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Record is one entry of the proof inputs file: the circuit type and its
// decimal-string witness data.
type Record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// LoadRecords reads a {key: {type, data}} proof inputs file.
func LoadRecords(path string) (map[string]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prover: read inputs: %w", err)
	}
	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("prover: parse inputs %s: %w", path, err)
	}
	return records, nil
}

// WriteRecords writes records as indented JSON, creating the parent directory.
func WriteRecords(path string, records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("prover: encode inputs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prover: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func sortedKeys(records map[string]Record) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validKey rejects keys that would escape the output directory.
func validKey(key string) error {
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return fmt.Errorf("prover: invalid record key %q", key)
	}
	return nil
}
