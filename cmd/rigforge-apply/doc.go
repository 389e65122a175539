// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Rigforge-apply decodes a terminal share and emits the worklist for
// the interactive effector runner. The share travels in the
// RIGFORGE_SHARE environment variable (the one-liner printed by
// rigforge-share sets it), uncompressed and human-readable so the
// user can see every requested id before running anything:
//
//	RIGFORGE_SHARE='v=1&c=1&g=1&o=1,2,10,50&s=steam,discord' rigforge-apply
//
// The binary embeds its own decoder table, independent of the web
// app's copy. Ids this build does not know — assigned after it
// shipped, or retired before — are skipped and reported on stderr,
// never guessed at. An undecodable or incompatible share produces an
// empty worklist, never a partial one.
//
// Exit codes:
//
//	0  decoded (possibly with skipped ids)
//	1  share is incompatible or corrupt
//	2  error (no share given, bad arguments)
package main
