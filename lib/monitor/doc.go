// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitor runs one dms action against the snitch API.
//
// Each run performs exactly one [Action], chosen before any I/O:
//
//   - [Commission] creates the snitch and saves its token. It is a
//     no-op when a readable token file already exists, and it only
//     writes the token file after the create response has been
//     validated, so a failed create leaves no file behind.
//   - [Decommission] deletes the snitch, then removes the token file.
//     A failed delete leaves the token file untouched. A failed removal
//     after a successful delete is still reported as a failure even
//     though the snitch is gone; rerunning then gets a 404.
//   - [Report] checks in. Anything other than 202 is a failure.
//   - [Pause] pauses the snitch. Anything other than 204 is a failure.
//
// Failures carry a [failure.Category]. A service that answered with
// the wrong status is reported as [failure.CategoryUnexpectedStatus],
// distinct from a transport failure.
package monitor
