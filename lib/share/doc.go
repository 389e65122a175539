// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package share implements the loadout share pipeline: a selection of
// hardware profile, DNS provider, optimization flags, and packages,
// encoded into a compact versioned transport string and decoded back.
//
// Two transport forms exist for the same payload:
//
//   - Fragment form, "{version}.{base64url body}", carried in a web
//     URL after "#". The body is deterministic CBOR, compressed with
//     a tagged scheme. Fragments never leave the browser — placement
//     after "#" means no server ever sees the payload.
//   - Query form, "v=1&c=1&o=1,2,10&s=steam,discord", carried in an
//     environment variable for the terminal one-liner. Uncompressed
//     on purpose: a user should be able to read exactly what a
//     command will request before piping anything into a shell.
//
// Encoding is deterministic: the same selection under the same schema
// version always yields byte-identical output, in both forms.
//
// Decoding is built for payloads that outlive releases. Every decoder
// instance carries its own registry snapshot (see lib/registry and
// rigforge-gen); an id the snapshot cannot resolve — not yet assigned
// when this decoder shipped, or tombstoned since — is dropped from the
// reconstructed selection and counted, and the decode still succeeds.
// Only two conditions are fatal: an unrecognized schema version
// (SchemaVersionError) and an undecodable payload (PayloadCorruptError).
// Package keys are opaque strings and pass through undropped; the
// catalog, not the decoder, decides what they mean.
package share
