// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compressionTag identifies the compression applied to a fragment
// body. The tag is the first byte of the base64-decoded payload.
// These values are protocol constants — changing them breaks every
// circulating share link.
type compressionTag byte

const (
	// compressionNone: body follows the tag byte unmodified. The
	// usual case for short selections, where compression framing
	// costs more than it saves.
	compressionNone compressionTag = 0

	// compressionLZ4: LZ4 block compression, minimal framing.
	compressionLZ4 compressionTag = 1

	// compressionZstd: zstd at the default level, better ratios on
	// larger selections.
	compressionZstd compressionTag = 2
)

// maxBodySize caps the decompressed body. Selections are tiny; a
// size prefix beyond this is a corrupt or hostile payload, not a
// loadout.
const maxBodySize = 1 << 20

// zstdEncoder and zstdDecoder are reused across calls. Both are safe
// for concurrent use. Single-threaded encoding with a pinned level:
// compressed bytes are part of the payload's byte-identity promise,
// so the output must not vary with core count.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic("share: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("share: zstd decoder initialization failed: " + err.Error())
	}
}

// compressBody wraps a serialized body in the tagged compression
// framing: tag byte, then for compressed tags a uvarint of the
// original size, then the (possibly compressed) bytes. Both
// algorithms are probed and the smallest complete framing wins; when
// neither beats the raw body the none tag is used. Deterministic for
// a given input.
func compressBody(body []byte) []byte {
	raw := make([]byte, 0, len(body)+1)
	raw = append(raw, byte(compressionNone))
	raw = append(raw, body...)
	best := raw

	sizePrefix := binary.AppendUvarint(nil, uint64(len(body)))

	if compressed := compressLZ4(body); compressed != nil {
		framed := frame(compressionLZ4, sizePrefix, compressed)
		if len(framed) < len(best) {
			best = framed
		}
	}

	compressed := zstdEncoder.EncodeAll(body, nil)
	framed := frame(compressionZstd, sizePrefix, compressed)
	if len(framed) < len(best) {
		best = framed
	}

	return best
}

func frame(tag compressionTag, sizePrefix, compressed []byte) []byte {
	framed := make([]byte, 0, 1+len(sizePrefix)+len(compressed))
	framed = append(framed, byte(tag))
	framed = append(framed, sizePrefix...)
	framed = append(framed, compressed...)
	return framed
}

func compressLZ4(body []byte) []byte {
	bound := lz4.CompressBlockBound(len(body))
	destination := make([]byte, bound)
	written, err := lz4.CompressBlock(body, destination, nil)
	// CompressBlock returns 0 for incompressible input.
	if err != nil || written == 0 {
		return nil
	}
	return destination[:written]
}

// decompressBody reverses compressBody. Any framing problem is a
// corrupt payload.
func decompressBody(framed []byte) ([]byte, error) {
	if len(framed) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	tag := compressionTag(framed[0])
	rest := framed[1:]

	if tag == compressionNone {
		return rest, nil
	}

	size, consumed := binary.Uvarint(rest)
	if consumed <= 0 {
		return nil, fmt.Errorf("truncated size prefix")
	}
	if size > maxBodySize {
		return nil, fmt.Errorf("declared body size %d exceeds limit %d", size, maxBodySize)
	}
	rest = rest[consumed:]

	switch tag {
	case compressionLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(rest, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != int(size) {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
		}
		return destination, nil

	case compressionZstd:
		result, err := zstdDecoder.DecodeAll(rest, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != int(size) {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
		}
		return result, nil

	default:
		return nil, fmt.Errorf("unknown compression tag %d", tag)
	}
}
