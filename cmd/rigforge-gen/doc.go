// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Rigforge-gen regenerates the two decoder snapshot tables from the
// registry source. The web app and the terminal script each embed
// their own copy of the id→key tables; generating both from
// lib/registry/registry.jsonc makes drift between them structurally
// impossible instead of merely detectable. Run after every registry
// edit, then rigforge-audit.
//
// With --check, writes nothing and reports whether the files on disk
// match what would be generated (for CI).
//
// Exit codes:
//
//	0  tables written (or --check: tables up to date)
//	1  --check: at least one table is out of date
//	2  error (unreadable registry, unwritable output)
package main
