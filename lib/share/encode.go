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

// Encoder turns selections into transport strings. Every id in a
// selection must be live in the encoder's snapshot — encoding is the
// authoring side, and an id that does not resolve here is an
// authoring bug, not a compatibility event. In particular a
// tombstoned id can never be emitted under its former meaning.
type Encoder struct {
	snapshot *Snapshot
}

// NewEncoder returns an encoder over the given snapshot.
func NewEncoder(snapshot *Snapshot) *Encoder {
	return &Encoder{snapshot: snapshot}
}

// EncodeFragment produces the web transport form:
// "{version}.{base64url(tagged body)}". The body is deterministic
// CBOR, so the same selection always yields the same string — the
// full share URL is "https://…/#b=" plus this value, and the "#"
// placement keeps the payload out of every HTTP request.
func (e *Encoder) EncodeFragment(selection Selection) (string, error) {
	selection, err := e.prepare(selection)
	if err != nil {
		return "", err
	}

	body, err := codec.Marshal(selection)
	if err != nil {
		return "", fmt.Errorf("serializing selection: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(compressBody(body))
	return strconv.Itoa(selection.Version) + "." + encoded, nil
}

// queryFields fixes the emission order of the query form. Order is
// part of the byte-identity promise, so it is a constant, not map
// iteration.
var queryFields = []string{"v", "c", "g", "d", "p", "m", "o", "s", "r"}

// EncodeQuery produces the terminal transport form: a flat
// "key=value&key=value" string with multi-valued fields comma-joined
// and no compression. Deliberately human-readable — a user pastes
// this into a shell and should be able to see every id it requests.
func (e *Encoder) EncodeQuery(selection Selection) (string, error) {
	selection, err := e.prepare(selection)
	if err != nil {
		return "", err
	}

	values := map[string]string{
		"v": strconv.Itoa(selection.Version),
		"c": scalarValue(selection.CPU),
		"g": scalarValue(selection.GPU),
		"d": scalarValue(selection.DNS),
		"p": listValue(selection.Peripherals),
		"m": listValue(selection.Monitors),
		"o": listValue(selection.Optimizations),
		"s": packagesValue(selection.Packages),
		"r": scalarValue(selection.Preset),
	}

	var builder strings.Builder
	for _, field := range queryFields {
		value := values[field]
		if value == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(field)
		builder.WriteByte('=')
		builder.WriteString(value)
	}
	return builder.String(), nil
}

// prepare stamps the schema version and validates every id against
// the snapshot.
func (e *Encoder) prepare(selection Selection) (Selection, error) {
	if selection.Version == 0 {
		selection.Version = SchemaVersion
	}
	if selection.Version != SchemaVersion {
		return Selection{}, fmt.Errorf("encoder writes schema version %d, cannot write version %d", SchemaVersion, selection.Version)
	}

	if err := e.validate(selection); err != nil {
		return Selection{}, err
	}
	return selection, nil
}

func (e *Encoder) validate(selection Selection) error {
	live := func(category registry.Category, id int) error {
		if _, ok := e.snapshot.Resolve(category, id); !ok {
			return fmt.Errorf("%s id %d is not live in this table (never assigned, or retired)", category, id)
		}
		return nil
	}
	// Scalar fields use 0 as "not selected"; list elements have no
	// absent form, so 0 in a list is an error like any dead id.
	check := func(category registry.Category, id int) error {
		if id == 0 {
			return nil
		}
		return live(category, id)
	}

	if err := check(registry.CategoryCPU, selection.CPU); err != nil {
		return err
	}
	if err := check(registry.CategoryGPU, selection.GPU); err != nil {
		return err
	}
	if err := check(registry.CategoryDNS, selection.DNS); err != nil {
		return err
	}
	if err := check(registry.CategoryPreset, selection.Preset); err != nil {
		return err
	}
	for _, id := range selection.Peripherals {
		if err := live(registry.CategoryPeripheral, id); err != nil {
			return err
		}
	}
	for _, id := range selection.Monitors {
		if err := live(registry.CategoryMonitor, id); err != nil {
			return err
		}
	}
	for _, id := range selection.Optimizations {
		if err := live(registry.CategoryOptimization, id); err != nil {
			return err
		}
	}
	// Package keys are opaque to the registry. Each key is escaped
	// individually and the list is joined with literal commas; the
	// decoder splits on those commas before unescaping, so any key
	// value survives the query form, commas included.
	return nil
}

func scalarValue(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}

func listValue(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func packagesValue(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	escaped := make([]string, len(keys))
	for i, key := range keys {
		escaped[i] = url.QueryEscape(key)
	}
	return strings.Join(escaped, ",")
}
