// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
)

// Set with -ldflags -X. GitDirty is "true" for a build from a modified
// tree.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "1.0.0"
)

// Build describes the running binary.
type Build struct {
	Version string
	Commit  string
	Dirty   bool
	Time    string
}

// Current returns the Build stamped into this binary.
func Current() Build {
	return Build{
		Version: Version,
		Commit:  GitCommit,
		Dirty:   GitDirty == "true",
		Time:    BuildTime,
	}
}

// String formats the build as "1.0.0 (abc1234-dirty, 2026-...)".
func (b Build) String() string {
	commit := b.Commit
	if b.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", b.Version, commit, b.Time)
}

// LogValue groups the build with the Go runtime and platform for the
// start-up record.
func (b Build) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("version", b.Version),
		slog.String("commit", b.Commit),
		slog.Bool("dirty", b.Dirty),
		slog.String("built", b.Time),
		slog.String("go", runtime.Version()),
		slog.String("platform", runtime.GOOS+"/"+runtime.GOARCH),
	)
}

// Print writes "<binary> <build>" to w.
func Print(w io.Writer, binary string) {
	fmt.Fprintf(w, "%s %s\n", binary, Current())
}
