// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Rigforge-audit is the release gate for the id registry and its
// consumers. It proves, statically, that the registry source, both
// generated decoder tables (web app and terminal script), and the
// catalog agree — so that a share link encoded by any release decodes
// to the same meaning in every other release that knows its ids.
//
// Every check reports all findings, never just the first:
//
//   - registry invariants: no id ever bound to two keys across
//     history, no retired key live again, complete tombstone metadata
//   - every catalog optimization key has a live registry id
//   - each decoder table matches the registry exactly and carries the
//     current source hash (a stale table means rigforge-gen was not
//     run after an edit)
//   - the two decoder tables agree on every id they share
//
// On success the next available id per category is printed, ready for
// the next assignment.
//
// Exit codes:
//
//	0  consistent
//	1  violations found (all printed)
//	2  error (unreadable input, bad arguments)
package main
