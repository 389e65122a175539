// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import "fmt"

// ViolationCode classifies one audit finding. Codes are stable
// machine-readable strings for CI tooling; the Message carries the
// human explanation.
type ViolationCode string

const (
	// ViolationDuplicateID: one id bound to two different keys,
	// whether both live, or live and tombstoned, or twice in the
	// ledger. The cardinal sin — an old payload would change meaning.
	ViolationDuplicateID ViolationCode = "duplicate_id"

	// ViolationDuplicateKey: one key bound to two different ids.
	ViolationDuplicateKey ViolationCode = "duplicate_key"

	// ViolationKeyResurrected: a retired key appears live again
	// under a new id.
	ViolationKeyResurrected ViolationCode = "key_resurrected"

	// ViolationBadID: an id outside the valid range (ids are
	// positive integers).
	ViolationBadID ViolationCode = "bad_id"

	// ViolationTombstoneMetadataMissing: a ledger entry without a
	// former key, removal date, or reason.
	ViolationTombstoneMetadataMissing ViolationCode = "tombstone_metadata_missing"
)

// Violation is one audit finding.
type Violation struct {
	Code     ViolationCode `json:"code"`
	Category Category      `json:"category"`
	ID       int           `json:"id,omitempty"`
	Key      string        `json:"key,omitempty"`
	Message  string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s/%s: %s", v.Category, v.Code, v.Message)
}

// Audit checks every registry invariant and returns all findings,
// never stopping at the first. Pure: the registry is not modified. An
// empty result means the registry is internally consistent (generated
// snapshots and the catalog are checked separately by rigforge-audit,
// which layers those comparisons on top of this).
func (r *Registry) Audit() []Violation {
	var violations []Violation
	for _, category := range Categories {
		violations = append(violations, auditTable(category, r.Table(category))...)
	}
	return violations
}

func auditTable(category Category, table *Table) []Violation {
	var violations []Violation

	// Every binding an id has ever had, live and ledger both.
	// More than one distinct key per id is a duplicate_id finding.
	bindings := make(map[int][]string)
	liveKeys := make(map[string][]int)

	for _, entry := range table.entries {
		if entry.ID < 1 {
			violations = append(violations, Violation{
				Code:     ViolationBadID,
				Category: category,
				ID:       entry.ID,
				Key:      entry.Key,
				Message:  fmt.Sprintf("key %q has id %d; ids must be positive", entry.Key, entry.ID),
			})
		}
		bindings[entry.ID] = append(bindings[entry.ID], entry.Key)
		liveKeys[entry.Key] = append(liveKeys[entry.Key], entry.ID)
	}

	for _, tomb := range table.tombstones {
		if tomb.ID < 1 {
			violations = append(violations, Violation{
				Code:     ViolationBadID,
				Category: category,
				ID:       tomb.ID,
				Key:      tomb.Key,
				Message:  fmt.Sprintf("tombstone for key %q has id %d; ids must be positive", tomb.Key, tomb.ID),
			})
		}
		if tomb.Key == "" || tomb.Removed == "" || tomb.Reason == "" {
			violations = append(violations, Violation{
				Code:     ViolationTombstoneMetadataMissing,
				Category: category,
				ID:       tomb.ID,
				Key:      tomb.Key,
				Message:  fmt.Sprintf("tombstone for id %d is missing metadata (key %q, removed %q, reason %q)", tomb.ID, tomb.Key, tomb.Removed, tomb.Reason),
			})
		}
		bindings[tomb.ID] = append(bindings[tomb.ID], tomb.Key)

		if liveKey, live := table.byID[tomb.ID]; live && liveKey == tomb.Key {
			// Same binding present on both sides. Distinct keys for
			// one id are caught below as duplicate_id.
			violations = append(violations, Violation{
				Code:     ViolationDuplicateID,
				Category: category,
				ID:       tomb.ID,
				Key:      tomb.Key,
				Message:  fmt.Sprintf("id %d (%q) is both live and tombstoned", tomb.ID, tomb.Key),
			})
		}

		if ids, live := liveKeys[tomb.Key]; live && tomb.Key != "" && ids[0] != tomb.ID {
			violations = append(violations, Violation{
				Code:     ViolationKeyResurrected,
				Category: category,
				ID:       ids[0],
				Key:      tomb.Key,
				Message:  fmt.Sprintf("key %q was retired %s (id %d) but is live again as id %d", tomb.Key, tomb.Removed, tomb.ID, ids[0]),
			})
		}
	}

	// Report in deterministic order: entries then tombstones were
	// sorted by id at parse time, so walking the sorted entry and
	// tombstone slices again keeps findings stable across runs.
	reportedID := make(map[int]bool)
	for _, entry := range table.entries {
		violations = append(violations, duplicateIDFinding(category, entry.ID, bindings, reportedID)...)
	}
	for _, tomb := range table.tombstones {
		violations = append(violations, duplicateIDFinding(category, tomb.ID, bindings, reportedID)...)
	}

	reportedKey := make(map[string]bool)
	for _, entry := range table.entries {
		ids := liveKeys[entry.Key]
		if len(ids) > 1 && !reportedKey[entry.Key] {
			reportedKey[entry.Key] = true
			violations = append(violations, Violation{
				Code:     ViolationDuplicateKey,
				Category: category,
				ID:       ids[0],
				Key:      entry.Key,
				Message:  fmt.Sprintf("key %q is bound to %d ids: %v", entry.Key, len(ids), ids),
			})
		}
	}

	return violations
}

func duplicateIDFinding(category Category, id int, bindings map[int][]string, reported map[int]bool) []Violation {
	if reported[id] {
		return nil
	}
	keys := bindings[id]
	distinct := distinctStrings(keys)
	if len(distinct) <= 1 {
		return nil
	}
	reported[id] = true
	return []Violation{{
		Code:     ViolationDuplicateID,
		Category: category,
		ID:       id,
		Message:  fmt.Sprintf("id %d has been bound to %d different keys across history: %v", id, len(distinct), distinct),
	}}
}

func distinctStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			out = append(out, value)
		}
	}
	return out
}
