// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return e.code }

func TestReport(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantOutput string
	}{
		{name: "nil", err: nil, wantCode: 0, wantOutput: ""},
		{name: "plain", err: errors.New("boom"), wantCode: 1, wantOutput: "error: boom\n"},
		{name: "wrapped exit code", err: fmt.Errorf("outer: %w", codedError{code: 3}), wantCode: 3, wantOutput: "error: outer: coded\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output bytes.Buffer
			if code := Report(&output, test.err); code != test.wantCode {
				t.Errorf("Report code = %d, want %d", code, test.wantCode)
			}
			if output.String() != test.wantOutput {
				t.Errorf("Report wrote %q, want %q", output.String(), test.wantOutput)
			}
		})
	}
}
