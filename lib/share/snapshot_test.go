// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"bytes"
	"testing"

	"github.com/rigforge/rigforge/lib/registry"
)

func TestSnapshotTableRoundTrip(t *testing.T) {
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}

	built := BuildSnapshot(reg)
	data, err := built.MarshalTable()
	if err != nil {
		t.Fatalf("MarshalTable: %v", err)
	}
	parsed, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}

	if parsed.SourceHash() != reg.SourceHash() {
		t.Errorf("hash stamp %q does not match registry hash %q", parsed.SourceHash(), reg.SourceHash())
	}

	for _, category := range registry.Categories {
		for _, entry := range reg.Table(category).Entries() {
			key, ok := parsed.Resolve(category, entry.ID)
			if !ok || key != entry.Key {
				t.Errorf("%s id %d = %q, %v; want %q", category, entry.ID, key, ok, entry.Key)
			}
		}
	}
}

func TestSnapshotExcludesTombstones(t *testing.T) {
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}

	snapshot := BuildSnapshot(reg)
	for _, tomb := range reg.Table(registry.CategoryOptimization).Tombstones() {
		if key, ok := snapshot.Resolve(registry.CategoryOptimization, tomb.ID); ok {
			t.Errorf("tombstoned id %d resolves to %q in the snapshot", tomb.ID, key)
		}
		if id, ok := snapshot.Lookup(registry.CategoryOptimization, tomb.Key); ok {
			t.Errorf("retired key %q resolves to id %d in the snapshot", tomb.Key, id)
		}
	}
}

func TestMarshalTableIsDeterministic(t *testing.T) {
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}

	snapshot := BuildSnapshot(reg)
	first, err := snapshot.MarshalTable()
	if err != nil {
		t.Fatalf("MarshalTable: %v", err)
	}
	second, err := snapshot.MarshalTable()
	if err != nil {
		t.Fatalf("MarshalTable: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("marshaling the same snapshot twice produced different bytes")
	}
	if !bytes.HasPrefix(first, []byte("// Code generated")) {
		t.Errorf("table file is missing the generated header: %.60q", first)
	}
}

func TestParseSnapshotRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"malformed json":   `{`,
		"unknown category": `{"tables": {"gadgets": {"1": "widget"}}}`,
		"non-numeric id":   `{"tables": {"cpu": {"one": "amd_x3d"}}}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSnapshot([]byte(input)); err == nil {
				t.Error("bad table parsed without error")
			}
		})
	}
}
