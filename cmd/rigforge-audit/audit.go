// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/rigforge/rigforge/lib/catalog"
	"github.com/rigforge/rigforge/lib/registry"
	"github.com/rigforge/rigforge/lib/share"
)

// Cross-artifact violation codes, extending the registry-internal
// set. Same stable-string contract as registry.ViolationCode.
const (
	// violationCatalogKeyUnregistered: the catalog offers an
	// optimization with no live registry id, so it cannot be shared.
	violationCatalogKeyUnregistered registry.ViolationCode = "catalog_key_unregistered"

	// violationSnapshotDrift: a decoder table and the registry
	// disagree — an id is missing from one side or resolves to a
	// different key.
	violationSnapshotDrift registry.ViolationCode = "snapshot_drift"

	// violationSnapshotStale: a decoder table was generated from an
	// older registry source (hash stamp mismatch).
	violationSnapshotStale registry.ViolationCode = "snapshot_stale"

	// violationSnapshotDisagreement: the two decoder tables resolve
	// a shared id to different keys.
	violationSnapshotDisagreement registry.ViolationCode = "snapshot_disagreement"
)

// auditInputs bundles everything the audit compares.
type auditInputs struct {
	registry *registry.Registry
	catalog  *catalog.Catalog

	// webName/scriptName label the snapshots in findings.
	webName    string
	web        *share.Snapshot
	scriptName string
	script     *share.Snapshot
}

// runAudit performs every consistency check and returns all findings.
// Deterministic: the same inputs always produce the same list in the
// same order, so CI output is diffable across runs.
func runAudit(inputs auditInputs) []registry.Violation {
	violations := inputs.registry.Audit()
	violations = append(violations, auditCatalog(inputs.registry, inputs.catalog)...)
	violations = append(violations, auditSnapshot(inputs.registry, inputs.webName, inputs.web)...)
	violations = append(violations, auditSnapshot(inputs.registry, inputs.scriptName, inputs.script)...)
	violations = append(violations, auditAgreement(inputs)...)
	return violations
}

// auditCatalog checks that every offered optimization key has a live
// id. A key without an id can be toggled in the UI but never shared —
// always a registry edit that was forgotten.
func auditCatalog(reg *registry.Registry, cat *catalog.Catalog) []registry.Violation {
	var violations []registry.Violation
	table := reg.Table(registry.CategoryOptimization)
	for _, key := range cat.OptimizationKeys() {
		if _, ok := table.Lookup(key); !ok {
			violations = append(violations, registry.Violation{
				Code:     violationCatalogKeyUnregistered,
				Category: registry.CategoryOptimization,
				Key:      key,
				Message:  fmt.Sprintf("catalog offers %q but the registry has no live id for it", key),
			})
		}
	}
	return violations
}

// auditSnapshot checks one decoder table against the registry: the
// hash stamp, and an exact id-set and binding match per category. A
// tombstoned id still present in a table shows up here as an id the
// registry no longer resolves.
func auditSnapshot(reg *registry.Registry, name string, snapshot *share.Snapshot) []registry.Violation {
	var violations []registry.Violation

	if snapshot.SourceHash() != reg.SourceHash() {
		violations = append(violations, registry.Violation{
			Code:    violationSnapshotStale,
			Message: fmt.Sprintf("%s table was generated from a different registry source (hash %.12s…, want %.12s…)", name, snapshot.SourceHash(), reg.SourceHash()),
		})
	}

	for _, category := range registry.Categories {
		table := reg.Table(category)

		for _, id := range snapshot.IDs(category) {
			snapshotKey, _ := snapshot.Resolve(category, id)
			registryKey, live := table.Resolve(id)
			switch {
			case !live:
				violations = append(violations, registry.Violation{
					Code:     violationSnapshotDrift,
					Category: category,
					ID:       id,
					Key:      snapshotKey,
					Message:  fmt.Sprintf("%s table has id %d = %q but the registry does not resolve it", name, id, snapshotKey),
				})
			case registryKey != snapshotKey:
				violations = append(violations, registry.Violation{
					Code:     violationSnapshotDrift,
					Category: category,
					ID:       id,
					Key:      snapshotKey,
					Message:  fmt.Sprintf("%s table resolves id %d to %q, registry says %q", name, id, snapshotKey, registryKey),
				})
			}
		}

		for _, entry := range table.Entries() {
			if _, ok := snapshot.Resolve(category, entry.ID); !ok {
				violations = append(violations, registry.Violation{
					Code:     violationSnapshotDrift,
					Category: category,
					ID:       entry.ID,
					Key:      entry.Key,
					Message:  fmt.Sprintf("registry has live id %d = %q but the %s table lacks it", entry.ID, entry.Key, name),
				})
			}
		}
	}
	return violations
}

// auditAgreement checks that the two decoder tables resolve every id
// they share to the same key. With both tables generated from one
// source this cannot fail unless a file was edited by hand — which is
// exactly the situation worth catching.
func auditAgreement(inputs auditInputs) []registry.Violation {
	var violations []registry.Violation
	for _, category := range registry.Categories {
		for _, id := range inputs.web.IDs(category) {
			webKey, _ := inputs.web.Resolve(category, id)
			scriptKey, shared := inputs.script.Resolve(category, id)
			if shared && webKey != scriptKey {
				violations = append(violations, registry.Violation{
					Code:     violationSnapshotDisagreement,
					Category: category,
					ID:       id,
					Message:  fmt.Sprintf("%s table resolves id %d to %q, %s table to %q", inputs.webName, id, webKey, inputs.scriptName, scriptKey),
				})
			}
		}
	}
	return violations
}
