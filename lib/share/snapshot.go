// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/rigforge/rigforge/lib/registry"
)

// Snapshot is one decoder runtime's immutable view of the registry:
// id→key per category, as of the release the runtime shipped with.
// The web app and the terminal script each embed their own generated
// table file (rigforge-gen writes both from the registry source);
// rigforge-audit proves the copies agree before release. At runtime a
// snapshot is read-only and safe for concurrent use.
type Snapshot struct {
	sourceHash string
	tables     map[registry.Category]map[int]string
	reverse    map[registry.Category]map[string]int
}

// tableFile is the serialized form of a generated snapshot table.
// Ids become string keys because JSON objects require them.
type tableFile struct {
	SourceHash string                       `json:"source_hash"`
	Tables     map[string]map[string]string `json:"tables"`
}

// generatedHeader marks table files as machine-written. ParseSnapshot
// reads the files as JSONC, so the comment survives parsing.
const generatedHeader = "// Code generated by rigforge-gen from lib/registry/registry.jsonc. DO NOT EDIT.\n"

// BuildSnapshot derives a snapshot from a registry: live entries
// only, stamped with the registry's canonical hash. Tombstoned ids
// are absent — a decoder holding this snapshot cannot tell them from
// ids that were never assigned, which is the contract.
func BuildSnapshot(reg *registry.Registry) *Snapshot {
	snapshot := &Snapshot{
		sourceHash: reg.SourceHash(),
		tables:     make(map[registry.Category]map[int]string),
		reverse:    make(map[registry.Category]map[string]int),
	}
	for _, category := range registry.Categories {
		byID := make(map[int]string)
		byKey := make(map[string]int)
		for _, entry := range reg.Table(category).Entries() {
			byID[entry.ID] = entry.Key
			byKey[entry.Key] = entry.ID
		}
		snapshot.tables[category] = byID
		snapshot.reverse[category] = byKey
	}
	return snapshot
}

// MarshalTable serializes the snapshot as a generated table file:
// header comment, then indented JSON with sorted keys. Deterministic,
// so regenerating without a registry change is a no-op diff.
func (s *Snapshot) MarshalTable() ([]byte, error) {
	file := tableFile{
		SourceHash: s.sourceHash,
		Tables:     make(map[string]map[string]string, len(s.tables)),
	}
	for category, byID := range s.tables {
		table := make(map[string]string, len(byID))
		for id, key := range byID {
			table[strconv.Itoa(id)] = key
		}
		file.Tables[string(category)] = table
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot table: %w", err)
	}
	return append([]byte(generatedHeader), append(data, '\n')...), nil
}

// ParseSnapshot reads a generated table file. Errors are structural
// (malformed JSON, a non-numeric id, an unknown category) — a
// well-formed table is trusted, because rigforge-audit validated it
// against the registry source before it shipped.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var file tableFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("parsing snapshot table: %w", err)
	}

	known := make(map[string]registry.Category, len(registry.Categories))
	for _, category := range registry.Categories {
		known[string(category)] = category
	}

	snapshot := &Snapshot{
		sourceHash: file.SourceHash,
		tables:     make(map[registry.Category]map[int]string),
		reverse:    make(map[registry.Category]map[string]int),
	}
	for _, category := range registry.Categories {
		snapshot.tables[category] = make(map[int]string)
		snapshot.reverse[category] = make(map[string]int)
	}

	for name, table := range file.Tables {
		category, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("parsing snapshot table: unknown category %q", name)
		}
		for idText, key := range table {
			id, err := strconv.Atoi(idText)
			if err != nil {
				return nil, fmt.Errorf("parsing snapshot table: category %s has non-numeric id %q", name, idText)
			}
			snapshot.tables[category][id] = key
			snapshot.reverse[category][key] = id
		}
	}
	return snapshot, nil
}

// SourceHash returns the canonical registry hash this snapshot was
// generated from. rigforge-audit compares it against the current
// source to catch stale tables.
func (s *Snapshot) SourceHash() string { return s.sourceHash }

// Resolve returns the key bound to id in category. Misses for both
// never-assigned and tombstoned ids.
func (s *Snapshot) Resolve(category registry.Category, id int) (string, bool) {
	key, ok := s.tables[category][id]
	return key, ok
}

// Lookup returns the id bound to key in category.
func (s *Snapshot) Lookup(category registry.Category, key string) (int, bool) {
	id, ok := s.reverse[category][key]
	return id, ok
}

// IDs returns the ids present in category, sorted ascending.
func (s *Snapshot) IDs(category registry.Category) []int {
	ids := make([]int, 0, len(s.tables[category]))
	for id := range s.tables[category] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
