// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
)

// registryDomainKey is the BLAKE3 keyed-hash domain for registry
// content hashes. A fixed constant — changing it invalidates the
// source-hash stamp in every generated snapshot. The byte value is
// the ASCII domain name zero-padded to 32 bytes, readable in hex
// dumps without losing any property of keyed hashing.
var registryDomainKey = [32]byte{
	'r', 'i', 'g', 'f', 'o', 'r', 'g', 'e', '.', 'r', 'e', 'g', 'i', 's', 't', 'r',
	'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// canonicalTable is the hash-input form of one table: slices sorted
// at parse time, fields in declaration order.
type canonicalTable struct {
	Entries    []Entry     `json:"entries"`
	Tombstones []Tombstone `json:"tombstones"`
}

// Canonical returns a deterministic serialization of the registry:
// categories in Categories order, entries and tombstones sorted by
// id. Two source files with the same logical content (different
// comments, whitespace, or authoring order) canonicalize identically.
func (r *Registry) Canonical() []byte {
	type namedTable struct {
		Category Category       `json:"category"`
		Table    canonicalTable `json:"table"`
	}

	ordered := make([]namedTable, 0, len(Categories))
	for _, category := range Categories {
		table := r.Table(category)
		ordered = append(ordered, namedTable{
			Category: category,
			Table: canonicalTable{
				Entries:    table.Entries(),
				Tombstones: table.Tombstones(),
			},
		})
	}

	data, err := json.Marshal(ordered)
	if err != nil {
		// Marshaling slices of plain structs cannot fail.
		panic("registry: canonical marshal failed: " + err.Error())
	}
	return data
}

// SourceHash returns the hex BLAKE3 keyed hash of the canonical
// registry. rigforge-gen stamps this into each generated snapshot
// table; rigforge-audit recomputes it to catch stale tables.
func (r *Registry) SourceHash() string {
	hasher, err := blake3.NewKeyed(registryDomainKey[:])
	if err != nil {
		panic("registry: blake3 init failed: " + err.Error())
	}
	hasher.Write(r.Canonical())
	return hex.EncodeToString(hasher.Sum(nil))
}
