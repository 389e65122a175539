// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Rigforge-share encodes a loadout selection into both share forms:
// the web URL (payload in the fragment, after "#", so it never
// travels in an HTTP request) and the copy-pasteable terminal
// one-liner. It embeds the web decoder table and refuses ids that are
// not live in it — a share can only be authored from the current
// offering.
//
// Hardware, DNS, and optimization selections accept either the
// numeric id or the semantic key; packages are always keys.
//
//	rigforge-share --cpu amd_x3d --gpu nvidia \
//	    --opt pagefile --opt fastboot --opt gamedvr --opt msi_mode \
//	    --package steam --package discord
//
// Exit codes:
//
//	0  encoded
//	2  error (unknown key, dead id, bad arguments)
package main
