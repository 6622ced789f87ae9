// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token persists the snitch token: the opaque identifier the
// snitch API returns when a snitch is created, and the only local state
// dms keeps between runs.
//
// The token file holds the raw token, at most [MaxSize] bytes, with an
// optional trailing newline (so operators can write it with echo).
// [Store.Save] writes to a temporary file in the same directory,
// fsyncs, and renames it into place, so a reader never sees a partial
// token. The file is not locked: two dms processes sharing a token file
// race.
package token
