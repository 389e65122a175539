// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog lists what RigForge currently offers: the
// optimization flags a user can toggle and the software packages a
// user can request. The catalog is presentation data — titles and
// installer metadata — and deliberately knows nothing about numeric
// ids. The registry is the only place keys meet ids; rigforge-audit
// proves every catalog optimization key has a live registry id before
// a release ships.
//
// Package entries are looked up by their raw string key, which is
// also exactly what share payloads carry for the "s" field. Unknown
// keys at lookup time mean the package was withdrawn after the share
// was created; callers skip them.
package catalog
