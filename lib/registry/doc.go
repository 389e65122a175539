// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry holds the append-only mapping between stable semantic
// keys ("pagefile", "amd_x3d") and the stable numeric ids that share
// payloads carry. It is the single source of truth: both decoder
// snapshot tables (the web app's and the terminal script's) are
// generated from it by rigforge-gen, and rigforge-audit gates releases
// on its invariants.
//
// The rules are strict because share links live forever:
//
//   - An id, once issued, refers to the same key for the lifetime of
//     the system. Retired ids are tombstoned into the deprecation
//     ledger, never deleted and never reassigned.
//   - New ids are always max(ever issued)+1, counting tombstones, so
//     a gap in the live table is a retirement, not free space.
//   - A key is never reused for a different meaning after retirement.
//
// The source file registry.jsonc is hand-maintained (JSONC, so the
// history can be annotated with comments) and embedded into this
// package. Parse is deliberately lenient about invariant violations —
// a duplicated id or an incomplete tombstone parses fine and is
// reported by Audit, which enumerates every violation rather than
// stopping at the first. CI runs rigforge-audit so a bad edit never
// ships.
package registry
