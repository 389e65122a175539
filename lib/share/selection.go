// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

// SchemaVersion is the payload schema produced by this release's
// encoder. Bumped only for incompatible layout changes — adding a
// field is not a bump (decoders ignore unknown fields), changing the
// meaning of an existing one is.
const SchemaVersion = 1

// Selection is one loadout: everything a user picked, referenced by
// registry id. The single-character field tags are the wire schema
// for both transport forms — the CBOR body of a web fragment and the
// keys of a terminal query string use the same names.
//
// Packages is the one field carrying raw string keys instead of ids.
// The package catalog predates the id registry and its keys were
// already embedded in circulating share links, so they stay strings.
//
// A zero scalar or empty list means "not selected" and is omitted
// from the payload entirely.
type Selection struct {
	Version       int      `json:"v"`
	CPU           int      `json:"c,omitempty"`
	GPU           int      `json:"g,omitempty"`
	DNS           int      `json:"d,omitempty"`
	Peripherals   []int    `json:"p,omitempty"`
	Monitors      []int    `json:"m,omitempty"`
	Optimizations []int    `json:"o,omitempty"`
	Packages      []string `json:"s,omitempty"`
	Preset        int      `json:"r,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.CPU == 0 && s.GPU == 0 && s.DNS == 0 && s.Preset == 0 &&
		len(s.Peripherals) == 0 && len(s.Monitors) == 0 &&
		len(s.Optimizations) == 0 && len(s.Packages) == 0
}

// Equal reports whether two selections are identical, including the
// order of every list (payload lists are ordered — the effector
// runner walks optimizations in the order the author arranged them).
func (s Selection) Equal(other Selection) bool {
	return s.Version == other.Version &&
		s.CPU == other.CPU && s.GPU == other.GPU &&
		s.DNS == other.DNS && s.Preset == other.Preset &&
		equalInts(s.Peripherals, other.Peripherals) &&
		equalInts(s.Monitors, other.Monitors) &&
		equalInts(s.Optimizations, other.Optimizations) &&
		equalStrings(s.Packages, other.Packages)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
