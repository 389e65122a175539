// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	bodies := map[string][]byte{
		"empty":          {},
		"tiny":           []byte("abc"),
		"typical":        []byte(`{"v":1,"c":1,"o":[1,2,10,50],"s":["steam","discord"]}`),
		"compressible":   []byte(strings.Repeat("pagefile,fastboot,gamedvr,", 200)),
		"incompressible": {0x8f, 0x3a, 0xc1, 0x55, 0x02, 0xee, 0x91, 0x7b, 0x44, 0xd0},
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			framed := compressBody(body)
			restored, err := decompressBody(framed)
			if err != nil {
				t.Fatalf("decompressBody: %v", err)
			}
			if !bytes.Equal(restored, body) {
				t.Errorf("round trip changed body: got %d bytes, want %d", len(restored), len(body))
			}
		})
	}
}

func TestCompressIsDeterministic(t *testing.T) {
	body := []byte(strings.Repeat("optimization id list ", 100))
	first := compressBody(body)
	second := compressBody(body)
	if !bytes.Equal(first, second) {
		t.Error("compressing the same body twice produced different bytes")
	}
}

func TestCompressShrinksLargeBodies(t *testing.T) {
	body := []byte(strings.Repeat("pagefile,fastboot,gamedvr,msi_mode,", 100))
	framed := compressBody(body)
	if len(framed) >= len(body) {
		t.Errorf("framed size %d, want smaller than body %d", len(framed), len(body))
	}
	if tag := compressionTag(framed[0]); tag == compressionNone {
		t.Error("highly repetitive body was framed uncompressed")
	}
}

func TestDecompressRejectsCorruptFraming(t *testing.T) {
	cases := map[string][]byte{
		"empty":            {},
		"unknown tag":      {0xff, 0x01, 0x02},
		"truncated prefix": {byte(compressionZstd)},
		"bogus zstd":       {byte(compressionZstd), 0x05, 0x01, 0x02, 0x03},
		"bogus lz4":        {byte(compressionLZ4), 0x05, 0xff},
		"oversize claim":   append([]byte{byte(compressionZstd)}, 0xff, 0xff, 0xff, 0xff, 0x7f),
	}
	for name, framed := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := decompressBody(framed); err == nil {
				t.Error("corrupt framing decompressed without error")
			}
		})
	}
}
