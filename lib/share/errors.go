// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package share

import "fmt"

// SchemaVersionError reports a payload whose schema version this
// decoder does not support. Hard failure: the caller must tell the
// user the link or command comes from an incompatible release and
// needs regenerating — guessing a mapping would silently apply the
// wrong optimizations.
type SchemaVersionError struct {
	// Version is the schema version the payload claims, 0 when the
	// payload carries no version tag at all.
	Version int
}

func (e *SchemaVersionError) Error() string {
	if e.Version == 0 {
		return "payload carries no schema version"
	}
	return fmt.Sprintf("unsupported payload schema version %d (this build supports version %d)", e.Version, SchemaVersion)
}

// Code returns the machine-readable reason code.
func (e *SchemaVersionError) Code() string { return "schema_version" }

// PayloadCorruptError reports a payload that could not be decoded:
// bad base64, an unknown compression tag, decompression failure, or
// an unparseable body. Hard failure; the caller falls back to an
// empty selection, never a partial one.
type PayloadCorruptError struct {
	Reason string
	Err    error
}

func (e *PayloadCorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt payload: %s", e.Reason)
}

func (e *PayloadCorruptError) Unwrap() error { return e.Err }

// Code returns the machine-readable reason code.
func (e *PayloadCorruptError) Code() string { return "payload_corrupt" }

func corrupt(reason string, err error) error {
	return &PayloadCorruptError{Reason: reason, Err: err}
}
