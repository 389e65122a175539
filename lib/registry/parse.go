// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// sourceData is the embedded hand-maintained registry source. Tooling
// that wants a different file (tests, audit --registry) uses ReadFile.
//
//go:embed registry.jsonc
var sourceData []byte

// tableSource mirrors one category block of the source file. Entries
// are authored as a key→id object: JSON guarantees key uniqueness
// within the object, and duplicate ids across keys (an invariant
// violation) remain representable for Audit to find.
type tableSource struct {
	Entries    map[string]int `json:"entries"`
	Tombstones []Tombstone    `json:"tombstones"`
}

// Load parses the embedded registry source.
func Load() (*Registry, error) {
	return Parse(sourceData)
}

// ReadFile parses a registry source file from disk.
func ReadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse strips JSONC comments and trailing commas from data, then
// builds the registry. Structural problems (malformed JSON, a
// category name that does not exist) are errors; invariant violations
// (duplicate ids, incomplete tombstones) are not — they parse fine
// and are reported by Audit.
func Parse(data []byte) (*Registry, error) {
	stripped := jsonc.ToJSON(data)

	var raw map[string]tableSource
	if err := json.Unmarshal(stripped, &raw); err != nil {
		return nil, fmt.Errorf("parsing registry source: %w", err)
	}

	known := make(map[string]bool, len(Categories))
	for _, category := range Categories {
		known[string(category)] = true
	}
	for name := range raw {
		if !known[name] {
			return nil, fmt.Errorf("parsing registry source: unknown category %q", name)
		}
	}

	reg := New()
	for _, category := range Categories {
		source, ok := raw[string(category)]
		if !ok {
			continue
		}
		entries := make([]Entry, 0, len(source.Entries))
		for key, id := range source.Entries {
			entries = append(entries, Entry{Key: key, ID: id})
		}
		reg.tables[category] = newTableFromRaw(entries, source.Tombstones)
	}
	return reg, nil
}
