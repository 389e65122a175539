// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"errors"
	"testing"

	"github.com/rigforge/rigforge/lib/registry"
)

// legacySource models the registry as it stood before id 45 was
// tombstoned: a release from that era could legitimately encode 45.
const legacySource = `
{
  "optimization": {
    "entries": {
      "pagefile": 1,
      "fastboot": 2,
      "nagle_disable": 45
    }
  }
}`

// futureSource models a registry from a newer release that has
// assigned ids this build has never seen.
const futureSource = `
{
  "cpu": {"entries": {"amd_x3d": 1}},
  "optimization": {
    "entries": {
      "pagefile": 1,
      "fastboot": 2,
      "turbo_cache": 99
    }
  }
}`

func TestFragmentRoundTrip(t *testing.T) {
	snapshot := currentSnapshot(t)
	selection := Selection{
		Version:       SchemaVersion,
		CPU:           1,
		GPU:           1,
		DNS:           2,
		Peripherals:   []int{1, 3},
		Monitors:      []int{3},
		Optimizations: []int{1, 2, 10, 50},
		Packages:      []string{"steam", "discord"},
		Preset:        1,
	}

	fragment, err := NewEncoder(snapshot).EncodeFragment(selection)
	if err != nil {
		t.Fatalf("EncodeFragment: %v", err)
	}
	result, err := NewDecoder(snapshot).DecodeFragment(fragment)
	if err != nil {
		t.Fatalf("DecodeFragment: %v", err)
	}

	if !result.Selection.Equal(selection) {
		t.Errorf("round trip changed the selection:\n got %+v\nwant %+v", result.Selection, selection)
	}
	if result.DropCount() != 0 {
		t.Errorf("round trip dropped %d ids: %v", result.DropCount(), result.Dropped)
	}
}

func TestQueryRoundTrip(t *testing.T) {
	snapshot := currentSnapshot(t)
	selection := Selection{
		Version:       SchemaVersion,
		CPU:           1,
		GPU:           1,
		Optimizations: []int{1, 2, 10, 50},
		Packages:      []string{"steam", "discord"},
	}

	encoder := NewEncoder(snapshot)
	query, err := encoder.EncodeQuery(selection)
	if err != nil {
		t.Fatalf("EncodeQuery: %v", err)
	}
	result, err := NewDecoder(snapshot).DecodeQuery(query)
	if err != nil {
		t.Fatalf("DecodeQuery: %v", err)
	}

	if !result.Selection.Equal(selection) {
		t.Errorf("round trip changed the selection:\n got %+v\nwant %+v", result.Selection, selection)
	}
	if result.DropCount() != 0 {
		t.Errorf("round trip dropped %d ids: %v", result.DropCount(), result.Dropped)
	}
}

func TestReEncodeReproducesPayloadBytes(t *testing.T) {
	// A decoded selection re-encoded under the same version must
	// reproduce the identical payload, both forms.
	snapshot := currentSnapshot(t)
	encoder := NewEncoder(snapshot)
	decoder := NewDecoder(snapshot)
	selection := Selection{
		CPU:           1,
		GPU:           1,
		Optimizations: []int{1, 2, 10, 50},
		Packages:      []string{"steam", "discord"},
	}

	fragment, err := encoder.EncodeFragment(selection)
	if err != nil {
		t.Fatalf("EncodeFragment: %v", err)
	}
	decoded, err := decoder.DecodeFragment(fragment)
	if err != nil {
		t.Fatalf("DecodeFragment: %v", err)
	}
	again, err := encoder.EncodeFragment(decoded.Selection)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if again != fragment {
		t.Errorf("re-encoded fragment differs:\n%s\n%s", fragment, again)
	}

	query, err := encoder.EncodeQuery(selection)
	if err != nil {
		t.Fatalf("EncodeQuery: %v", err)
	}
	decodedQuery, err := decoder.DecodeQuery(query)
	if err != nil {
		t.Fatalf("DecodeQuery: %v", err)
	}
	againQuery, err := encoder.EncodeQuery(decodedQuery.Selection)
	if err != nil {
		t.Fatalf("re-encode query: %v", err)
	}
	if againQuery != query {
		t.Errorf("re-encoded query differs:\n%s\n%s", query, againQuery)
	}
}

func TestDecodeResolvesSemanticKeys(t *testing.T) {
	// The worked example for the wire format: ids chosen when the
	// registry shipped, resolved against the current snapshot.
	snapshot := currentSnapshot(t)
	result, err := NewDecoder(snapshot).DecodeQuery("v=1&c=1&g=1&o=1,2,10,50&s=steam,discord")
	if err != nil {
		t.Fatalf("DecodeQuery: %v", err)
	}

	if key, _ := snapshot.Resolve(registry.CategoryCPU, result.Selection.CPU); key != "amd_x3d" {
		t.Errorf("cpu resolves to %q, want amd_x3d", key)
	}
	if key, _ := snapshot.Resolve(registry.CategoryGPU, result.Selection.GPU); key != "nvidia" {
		t.Errorf("gpu resolves to %q, want nvidia", key)
	}

	wantKeys := []string{"pagefile", "fastboot", "gamedvr", "msi_mode"}
	if len(result.Selection.Optimizations) != len(wantKeys) {
		t.Fatalf("decoded %d optimizations, want %d", len(result.Selection.Optimizations), len(wantKeys))
	}
	for i, id := range result.Selection.Optimizations {
		if key, _ := snapshot.Resolve(registry.CategoryOptimization, id); key != wantKeys[i] {
			t.Errorf("optimization %d resolves to %q, want %q", id, key, wantKeys[i])
		}
	}
	if !equalStrings(result.Selection.Packages, []string{"steam", "discord"}) {
		t.Errorf("packages = %v, want [steam discord]", result.Selection.Packages)
	}
}

func TestDecodeDropsUnknownIDs(t *testing.T) {
	// A payload from a newer release references id 99, which this
	// build's snapshot has never seen. Decode succeeds, skips it,
	// and counts the skip.
	future := snapshotFromSource(t, futureSource)
	fragment, err := NewEncoder(future).EncodeFragment(Selection{
		CPU:           1,
		Optimizations: []int{1, 99, 2},
	})
	if err != nil {
		t.Fatalf("EncodeFragment: %v", err)
	}

	result, err := NewDecoder(currentSnapshot(t)).DecodeFragment(fragment)
	if err != nil {
		t.Fatalf("DecodeFragment: %v", err)
	}

	if !equalInts(result.Selection.Optimizations, []int{1, 2}) {
		t.Errorf("optimizations = %v, want [1 2]", result.Selection.Optimizations)
	}
	if result.DropCount() != 1 {
		t.Fatalf("drop count = %d, want 1", result.DropCount())
	}
	drop := result.Dropped[0]
	if drop.Category != registry.CategoryOptimization || drop.ID != 99 {
		t.Errorf("dropped %+v, want optimization id 99", drop)
	}
}

func TestDecodeDropsTombstonedID(t *testing.T) {
	// Id 45 was live when the legacy release encoded it; the ledger
	// has since retired it. It must decode exactly like an unknown
	// id — skipped and counted, never resurrected.
	legacy := snapshotFromSource(t, legacySource)
	query, err := NewEncoder(legacy).EncodeQuery(Selection{Optimizations: []int{1, 45}})
	if err != nil {
		t.Fatalf("EncodeQuery: %v", err)
	}

	snapshot := currentSnapshot(t)
	result, err := NewDecoder(snapshot).DecodeQuery(query)
	if err != nil {
		t.Fatalf("DecodeQuery: %v", err)
	}

	if !equalInts(result.Selection.Optimizations, []int{1}) {
		t.Errorf("optimizations = %v, want [1]", result.Selection.Optimizations)
	}
	if result.DropCount() != 1 {
		t.Fatalf("drop count = %d, want 1", result.DropCount())
	}
	if drop := result.Dropped[0]; drop.ID != 45 {
		t.Errorf("dropped id %d, want 45", drop.ID)
	}
	for _, id := range result.Selection.Optimizations {
		if key, _ := snapshot.Resolve(registry.CategoryOptimization, id); key == "nagle_disable" {
			t.Error("tombstoned id was resurrected to its former meaning")
		}
	}
}

func TestDecodeDropsUnknownScalar(t *testing.T) {
	result, err := NewDecoder(currentSnapshot(t)).DecodeQuery("v=1&c=77&o=1")
	if err != nil {
		t.Fatalf("DecodeQuery: %v", err)
	}
	if result.Selection.CPU != 0 {
		t.Errorf("cpu = %d, want 0 (dropped)", result.Selection.CPU)
	}
	if result.DropCount() != 1 {
		t.Errorf("drop count = %d, want 1", result.DropCount())
	}
}

func TestDecodeKeyStabilityAcrossSnapshots(t *testing.T) {
	// The same live selection, shared from an older release and a
	// newer one, must mean the same keys when each share is decoded
	// by its matching release.
	older := snapshotFromSource(t, legacySource)
	newer := snapshotFromSource(t, futureSource)
	selection := Selection{Optimizations: []int{1, 2}}

	resolveKeys := func(snapshot *Snapshot) []string {
		t.Helper()
		query, err := NewEncoder(snapshot).EncodeQuery(selection)
		if err != nil {
			t.Fatalf("EncodeQuery: %v", err)
		}
		result, err := NewDecoder(snapshot).DecodeQuery(query)
		if err != nil {
			t.Fatalf("DecodeQuery: %v", err)
		}
		keys := make([]string, len(result.Selection.Optimizations))
		for i, id := range result.Selection.Optimizations {
			keys[i], _ = snapshot.Resolve(registry.CategoryOptimization, id)
		}
		return keys
	}

	olderKeys := resolveKeys(older)
	newerKeys := resolveKeys(newer)
	if !equalStrings(olderKeys, newerKeys) {
		t.Errorf("same ids mean different keys across releases: %v vs %v", olderKeys, newerKeys)
	}
	if !equalStrings(olderKeys, []string{"pagefile", "fastboot"}) {
		t.Errorf("resolved keys = %v, want [pagefile fastboot]", olderKeys)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	decoder := NewDecoder(currentSnapshot(t))

	cases := map[string]func() error{
		"fragment": func() error {
			_, err := decoder.DecodeFragment("2.AAAA")
			return err
		},
		"query": func() error {
			_, err := decoder.DecodeQuery("v=2&o=1")
			return err
		},
		"query without version": func() error {
			_, err := decoder.DecodeQuery("o=1")
			return err
		},
	}
	for name, decode := range cases {
		t.Run(name, func(t *testing.T) {
			err := decode()
			var versionErr *SchemaVersionError
			if !errors.As(err, &versionErr) {
				t.Fatalf("err = %v, want SchemaVersionError", err)
			}
			if versionErr.Code() != "schema_version" {
				t.Errorf("reason code = %q, want schema_version", versionErr.Code())
			}
		})
	}
}

func TestDecodeCorruptPayload(t *testing.T) {
	decoder := NewDecoder(currentSnapshot(t))

	cases := map[string]func() error{
		"no version separator": func() error {
			_, err := decoder.DecodeFragment("AAAA")
			return err
		},
		"non-numeric version": func() error {
			_, err := decoder.DecodeFragment("x.AAAA")
			return err
		},
		"invalid base64": func() error {
			_, err := decoder.DecodeFragment("1.!!!!")
			return err
		},
		"empty body": func() error {
			_, err := decoder.DecodeFragment("1.AA")
			return err
		},
		"malformed list id": func() error {
			_, err := decoder.DecodeQuery("v=1&o=1,abc")
			return err
		},
		"malformed scalar id": func() error {
			_, err := decoder.DecodeQuery("v=1&c=-2")
			return err
		},
		"unparseable query": func() error {
			_, err := decoder.DecodeQuery("v=1&s=%zz")
			return err
		},
		"explicit version zero": func() error {
			_, err := decoder.DecodeQuery("v=0&o=1")
			return err
		},
		"version zero fragment": func() error {
			_, err := decoder.DecodeFragment("0.AAAA")
			return err
		},
	}
	for name, decode := range cases {
		t.Run(name, func(t *testing.T) {
			err := decode()
			var corruptErr *PayloadCorruptError
			if !errors.As(err, &corruptErr) {
				t.Fatalf("err = %v, want PayloadCorruptError", err)
			}
			if corruptErr.Code() != "payload_corrupt" {
				t.Errorf("reason code = %q, want payload_corrupt", corruptErr.Code())
			}
		})
	}
}

func TestQueryPackageKeyWithComma(t *testing.T) {
	// The encoder escapes each package key individually and joins
	// with literal commas; the decoder must split on those commas
	// before unescaping, or a comma inside a key fragments it.
	snapshot := currentSnapshot(t)
	selection := Selection{Packages: []string{"my,pkg", "steam"}}

	query, err := NewEncoder(snapshot).EncodeQuery(selection)
	if err != nil {
		t.Fatalf("EncodeQuery: %v", err)
	}
	if query != "v=1&s=my%2Cpkg,steam" {
		t.Errorf("EncodeQuery = %q, want v=1&s=my%%2Cpkg,steam", query)
	}

	result, err := NewDecoder(snapshot).DecodeQuery(query)
	if err != nil {
		t.Fatalf("DecodeQuery: %v", err)
	}
	want := []string{"my,pkg", "steam"}
	got := result.Selection.Packages
	if len(got) != len(want) {
		t.Fatalf("packages round-tripped as %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("packages round-tripped as %v, want %v", got, want)
		}
	}
}

func TestDecodeEmptySelection(t *testing.T) {
	result, err := NewDecoder(currentSnapshot(t)).DecodeQuery("v=1")
	if err != nil {
		t.Fatalf("DecodeQuery: %v", err)
	}
	if !result.Selection.IsEmpty() {
		t.Errorf("selection = %+v, want empty", result.Selection)
	}
	if result.DropCount() != 0 {
		t.Errorf("drop count = %d, want 0", result.DropCount())
	}
}
