// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports how the dms binary was built.
//
// [Version], [GitCommit], [GitDirty] and [BuildTime] are injected at
// build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/dms/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/dms
//
// [Current] collects them into a [Build], which prints itself for -v
// and logs itself as a group in the verbose start-up record.
package version
