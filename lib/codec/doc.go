// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides RigForge's standard CBOR encoding configuration.
//
// Share payloads promise byte-identical re-encoding: the same loadout
// selection encoded twice under the same schema version must produce the
// same transport string, because users compare and deduplicate share
// links by their literal text. That promise starts here. The encoder
// uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. Same logical
// data always produces identical bytes.
//
// The decoder ignores unknown fields. A payload written by a newer
// release may carry fields this release has never heard of; they are
// skipped, not rejected. Unknown-id handling happens above this layer,
// in lib/share — codec only guarantees the container parses.
//
// Field naming for payload types is controlled by `json` struct tags
// (fxamacker/cbor reads them as fallback when `cbor` tags are absent),
// so the same type definition describes both the CBOR body of a web
// fragment and the conceptual JSON schema documented for the format.
package codec
