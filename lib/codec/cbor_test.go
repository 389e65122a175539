// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarshalIsDeterministic(t *testing.T) {
	payload := map[string]any{
		"v": 1,
		"o": []int{1, 2, 10, 50},
		"s": []string{"steam", "discord"},
		"c": 1,
	}

	first, err := Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same payload marshaled to different bytes")
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	type narrow struct {
		V int `json:"v"`
	}
	type wide struct {
		V     int    `json:"v"`
		Extra string `json:"extra"`
	}

	data, err := Marshal(wide{V: 1, Extra: "future field"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded narrow
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.V != 1 {
		t.Errorf("v = %d, want 1", decoded.V)
	}
}

func TestUnmarshalAnyUsesStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]int{"v": 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Errorf("decoded into %T, want map[string]any", decoded)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]int{"v": 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(text, `"v"`) {
		t.Errorf("diagnostic %q does not mention the field", text)
	}
}
