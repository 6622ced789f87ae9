// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler. It
// covers the one raw stderr write that exists outside the structured
// logger: reporting the error that ends the process.
package process
