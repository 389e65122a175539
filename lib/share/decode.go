// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rigforge/rigforge/lib/codec"
	"github.com/rigforge/rigforge/lib/registry"
)

// Drop records one id removed from a decoded selection because the
// decoder's snapshot could not resolve it: assigned after this
// decoder shipped, or tombstoned before it. The two cases are
// deliberately indistinguishable — a tombstoned id is never
// resurrected to its former meaning.
type Drop struct {
	Category registry.Category `json:"category"`
	ID       int               `json:"id"`
}

// Result is a successful decode: the reconstructed selection plus
// every id that was dropped, in payload order. A non-empty drop list
// is not an error — it is the forward-compatibility contract working.
type Result struct {
	Selection Selection
	Dropped   []Drop
}

// DropCount returns the number of ids dropped during decoding.
func (r Result) DropCount() int { return len(r.Dropped) }

// Decoder reconstructs selections from transport strings. Both
// runtimes — the web app and the terminal script — run this same
// logic, each instantiated over its own embedded snapshot.
type Decoder struct {
	snapshot *Snapshot
}

// NewDecoder returns a decoder over the given snapshot.
func NewDecoder(snapshot *Snapshot) *Decoder {
	return &Decoder{snapshot: snapshot}
}

// DecodeFragment decodes the web transport form produced by
// [Encoder.EncodeFragment]. The argument is the fragment payload
// itself ("1.q1ZK…"), without the "#b=" marker.
func (d *Decoder) DecodeFragment(fragment string) (Result, error) {
	versionText, encoded, found := strings.Cut(fragment, ".")
	if !found {
		return Result{}, corrupt("missing version tag separator", nil)
	}

	version, err := strconv.Atoi(versionText)
	if err != nil || version < 1 {
		return Result{}, corrupt(fmt.Sprintf("malformed version tag %q", versionText), nil)
	}
	if version != SchemaVersion {
		return Result{}, &SchemaVersionError{Version: version}
	}

	framed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Result{}, corrupt("invalid base64 body", err)
	}

	body, err := decompressBody(framed)
	if err != nil {
		return Result{}, corrupt("decompressing body", err)
	}

	var selection Selection
	if err := codec.Unmarshal(body, &selection); err != nil {
		return Result{}, corrupt("parsing body", err)
	}
	if selection.Version != version {
		return Result{}, corrupt(fmt.Sprintf("version tag %d does not match body version %d", version, selection.Version), nil)
	}

	return d.filter(selection), nil
}

// DecodeQuery decodes the terminal transport form produced by
// [Encoder.EncodeQuery].
func (d *Decoder) DecodeQuery(query string) (Result, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return Result{}, corrupt("parsing query string", err)
	}

	versionText := values.Get("v")
	if versionText == "" {
		return Result{}, &SchemaVersionError{}
	}
	// Schema versions start at 1, so "v=0" is a malformed value, not
	// a missing or unsupported version.
	version, err := strconv.Atoi(versionText)
	if err != nil || version < 1 {
		return Result{}, corrupt(fmt.Sprintf("malformed version value %q", versionText), nil)
	}
	if version != SchemaVersion {
		return Result{}, &SchemaVersionError{Version: version}
	}

	selection := Selection{Version: version}
	if selection.CPU, err = scalarField(values, "c"); err != nil {
		return Result{}, err
	}
	if selection.GPU, err = scalarField(values, "g"); err != nil {
		return Result{}, err
	}
	if selection.DNS, err = scalarField(values, "d"); err != nil {
		return Result{}, err
	}
	if selection.Preset, err = scalarField(values, "r"); err != nil {
		return Result{}, err
	}
	if selection.Peripherals, err = listField(values, "p"); err != nil {
		return Result{}, err
	}
	if selection.Monitors, err = listField(values, "m"); err != nil {
		return Result{}, err
	}
	if selection.Optimizations, err = listField(values, "o"); err != nil {
		return Result{}, err
	}
	if selection.Packages, err = packagesField(query); err != nil {
		return Result{}, err
	}

	return d.filter(selection), nil
}

// packagesField extracts the package list from the raw query string.
// The encoder escapes each key individually and joins the list with
// literal commas, so the split must happen before unescaping — going
// through url.ParseQuery first would unescape a %2C inside a key back
// to a comma and fragment it.
func packagesField(query string) ([]string, error) {
	for _, segment := range strings.Split(query, "&") {
		field, raw, found := strings.Cut(segment, "=")
		if !found || field != "s" || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		keys := make([]string, 0, len(parts))
		for _, part := range parts {
			key, err := url.QueryUnescape(part)
			if err != nil {
				return nil, corrupt(fmt.Sprintf("field \"s\" has malformed escape in %q", part), err)
			}
			keys = append(keys, key)
		}
		return keys, nil
	}
	return nil, nil
}

// filter reconstructs the selection this decoder can act on: every
// id is resolved against the snapshot, unresolvable ids are dropped
// and recorded in payload order. Package keys pass through — they
// are opaque strings, vetted later by the catalog lookup.
func (d *Decoder) filter(selection Selection) Result {
	result := Result{Selection: Selection{Version: selection.Version, Packages: selection.Packages}}

	scalar := func(category registry.Category, id int) int {
		if id == 0 {
			return 0
		}
		if _, ok := d.snapshot.Resolve(category, id); !ok {
			result.Dropped = append(result.Dropped, Drop{Category: category, ID: id})
			return 0
		}
		return id
	}
	list := func(category registry.Category, ids []int) []int {
		var kept []int
		for _, id := range ids {
			if _, ok := d.snapshot.Resolve(category, id); !ok {
				result.Dropped = append(result.Dropped, Drop{Category: category, ID: id})
				continue
			}
			kept = append(kept, id)
		}
		return kept
	}

	result.Selection.CPU = scalar(registry.CategoryCPU, selection.CPU)
	result.Selection.GPU = scalar(registry.CategoryGPU, selection.GPU)
	result.Selection.DNS = scalar(registry.CategoryDNS, selection.DNS)
	result.Selection.Peripherals = list(registry.CategoryPeripheral, selection.Peripherals)
	result.Selection.Monitors = list(registry.CategoryMonitor, selection.Monitors)
	result.Selection.Optimizations = list(registry.CategoryOptimization, selection.Optimizations)
	result.Selection.Preset = scalar(registry.CategoryPreset, selection.Preset)
	return result
}

func scalarField(values url.Values, field string) (int, error) {
	text := values.Get(field)
	if text == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(text)
	if err != nil || id < 1 {
		return 0, corrupt(fmt.Sprintf("field %q has malformed id %q", field, text), nil)
	}
	return id, nil
}

func listField(values url.Values, field string) ([]int, error) {
	text := values.Get(field)
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(part)
		if err != nil || id < 1 {
			return nil, corrupt(fmt.Sprintf("field %q has malformed id %q", field, part), nil)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
