// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry a process exit code.
type exitCoder interface {
	ExitCode() int
}

// Report writes "error: err" to w and returns the exit code for err:
// the code carried by an error implementing ExitCode() int anywhere in
// the chain, otherwise 1. A nil err writes nothing and returns 0.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(w, "error: %v\n", err)
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// Fatal writes "error: err" to stderr and exits with the code Report
// returns. Use it in main() for errors from run() where the structured
// logger may not be initialized.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}
