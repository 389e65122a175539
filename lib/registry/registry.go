// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"sort"
)

// Category names one id space. Every selectable field of a share
// payload resolves ids in exactly one category; ids are only unique
// within their category (cpu 1 and gpu 1 are unrelated).
type Category string

// Category values are protocol constants — they appear in generated
// snapshot tables and in audit output. Changing one orphans every
// existing snapshot.
const (
	CategoryCPU          Category = "cpu"
	CategoryGPU          Category = "gpu"
	CategoryDNS          Category = "dns"
	CategoryPeripheral   Category = "peripheral"
	CategoryMonitor      Category = "monitor"
	CategoryOptimization Category = "optimization"
	CategoryPreset       Category = "preset"
)

// Categories lists every category in canonical order. Iteration over
// this slice (never over a map) keeps audit output, canonical hashes,
// and generated tables deterministic.
var Categories = []Category{
	CategoryCPU,
	CategoryGPU,
	CategoryDNS,
	CategoryPeripheral,
	CategoryMonitor,
	CategoryOptimization,
	CategoryPreset,
}

// Entry is one live key↔id binding.
type Entry struct {
	Key string `json:"key"`
	ID  int    `json:"id"`
}

// Tombstone is one deprecation ledger record: an id permanently
// retired from its category. The id can never be reassigned; the key
// records what the id used to mean so old payloads can be explained,
// though decoders never resurrect it.
type Tombstone struct {
	ID      int    `json:"id"`
	Key     string `json:"key"`
	Removed string `json:"removed"` // date, YYYY-MM-DD
	Reason  string `json:"reason"`
}

// Table is one category's append-only id space: the live bindings
// plus the deprecation ledger. The raw entry and tombstone slices are
// preserved as parsed (including any invariant-violating duplicates)
// so Audit can report exactly what the source file says; the lookup
// maps index only well-formed live bindings.
type Table struct {
	entries    []Entry
	tombstones []Tombstone

	byID  map[int]string
	byKey map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		byID:  make(map[int]string),
		byKey: make(map[string]int),
	}
}

// newTableFromRaw builds a table from parsed source data. Entries are
// sorted by id (then key) so downstream iteration is deterministic
// regardless of JSON map ordering. Duplicate ids or keys stay in the
// entries slice for Audit; the maps keep the first binding in sorted
// order.
func newTableFromRaw(entries []Entry, tombstones []Tombstone) *Table {
	table := NewTable()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ID != entries[j].ID {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Key < entries[j].Key
	})
	sort.Slice(tombstones, func(i, j int) bool {
		return tombstones[i].ID < tombstones[j].ID
	})

	table.entries = entries
	table.tombstones = tombstones

	for _, entry := range entries {
		if _, taken := table.byID[entry.ID]; !taken {
			table.byID[entry.ID] = entry.Key
		}
		if _, taken := table.byKey[entry.Key]; !taken {
			table.byKey[entry.Key] = entry.ID
		}
	}
	return table
}

// Resolve returns the key currently bound to id. A tombstoned or
// never-assigned id resolves to nothing — callers cannot distinguish
// the two cases, which is exactly the decoder contract.
func (t *Table) Resolve(id int) (string, bool) {
	key, ok := t.byID[id]
	return key, ok
}

// Lookup returns the live id for key.
func (t *Table) Lookup(key string) (int, bool) {
	id, ok := t.byKey[key]
	return id, ok
}

// NextID returns the next id available for assignment: one more than
// the highest id ever issued, counting tombstones. Gaps below the
// high-water mark are retirements, never free space.
func (t *Table) NextID() int {
	highest := 0
	for _, entry := range t.entries {
		if entry.ID > highest {
			highest = entry.ID
		}
	}
	for _, tomb := range t.tombstones {
		if tomb.ID > highest {
			highest = tomb.ID
		}
	}
	return highest + 1
}

// Assign binds key to a fresh id and returns it. Fails if key already
// has a live binding, or formerly meant something (a retired key must
// not come back with a new id — old documentation and scripts would
// silently change meaning).
func (t *Table) Assign(key string) (int, error) {
	if id, live := t.byKey[key]; live {
		return 0, fmt.Errorf("key %q already assigned id %d", key, id)
	}
	for _, tomb := range t.tombstones {
		if tomb.Key == key {
			return 0, fmt.Errorf("key %q was retired %s (id %d); retired keys are never reassigned", key, tomb.Removed, tomb.ID)
		}
	}

	id := t.NextID()
	t.entries = append(t.entries, Entry{Key: key, ID: id})
	t.byID[id] = key
	t.byKey[key] = id
	return id, nil
}

// TombstoneID retires a live id into the deprecation ledger. After
// this call Resolve(id) fails permanently and the id is never
// reassigned. Both reason and removed date are required: the ledger
// is the only record of why an id died.
func (t *Table) TombstoneID(id int, reason, removed string) error {
	key, live := t.byID[id]
	if !live {
		return fmt.Errorf("id %d is not live (never assigned, or already tombstoned)", id)
	}
	if reason == "" || removed == "" {
		return fmt.Errorf("tombstoning id %d (%s): reason and removal date are required", id, key)
	}

	kept := t.entries[:0]
	for _, entry := range t.entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	t.entries = kept
	delete(t.byID, id)
	delete(t.byKey, key)

	t.tombstones = append(t.tombstones, Tombstone{
		ID:      id,
		Key:     key,
		Removed: removed,
		Reason:  reason,
	})
	sort.Slice(t.tombstones, func(i, j int) bool {
		return t.tombstones[i].ID < t.tombstones[j].ID
	})
	return nil
}

// Entries returns the live bindings sorted by id. The returned slice
// is a copy.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Tombstones returns the deprecation ledger sorted by id. The
// returned slice is a copy.
func (t *Table) Tombstones() []Tombstone {
	out := make([]Tombstone, len(t.tombstones))
	copy(out, t.tombstones)
	return out
}

// Registry is the full id registry: one table per category.
type Registry struct {
	tables map[Category]*Table
}

// New returns a registry with an empty table for every category.
func New() *Registry {
	tables := make(map[Category]*Table, len(Categories))
	for _, category := range Categories {
		tables[category] = NewTable()
	}
	return &Registry{tables: tables}
}

// Table returns the table for category. Unknown categories return an
// empty throwaway table rather than nil so lookups on a bad category
// simply miss.
func (r *Registry) Table(category Category) *Table {
	if table, ok := r.tables[category]; ok {
		return table
	}
	return NewTable()
}
