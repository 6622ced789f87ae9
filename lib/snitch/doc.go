// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snitch is a client for the Dead Man's Snitch HTTP API.
//
// Four calls are supported, each one blocking HTTP exchange bounded by
// a 30 second connect and total timeout:
//
//   - [Client.Create] POSTs a JSON snitch description to the snitches
//     collection and returns the new snitch's token.
//   - [Client.CheckIn] GETs https://nosnch.in/<token>, which answers 202.
//   - [Client.Delete] DELETEs <collection>/<token>.
//   - [Client.Pause] POSTs an empty body to <collection>/<token>/pause,
//     which answers 204.
//
// Calls that take an API key send it as the HTTP Basic username with a
// blank password, and send no credentials when the key is empty.
//
// Two kinds of failure are kept apart. A request that never completed
// (DNS, connect, TLS, timeout) returns a transport-category error. A
// request the service answered returns a nil error together with a
// [Status]; when the status is not the documented one the client logs a
// warning but leaves the decision to the caller. Create is the
// exception: its result is the parsed token, so an unusable body is a
// protocol-category error and a 404 is a not-found error.
//
// When Options.Verbose is set, every request and response is logged at
// debug level with the Authorization header redacted.
package snitch
