// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/dms/lib/failure"
	"github.com/bureau-foundation/dms/lib/monitor"
	"github.com/bureau-foundation/dms/lib/process"
	"github.com/bureau-foundation/dms/lib/snitch"
	"github.com/bureau-foundation/dms/lib/version"
)

func TestParseArguments(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantAction  monitor.Action
		wantVersion bool
		wantHelp    bool
		wantErr     bool
	}{
		{name: "no flags reports", args: nil, wantAction: monitor.Report},
		{name: "commission", args: []string{"-c"}, wantAction: monitor.Commission},
		{name: "long decommission", args: []string{"--decommission"}, wantAction: monitor.Decommission},
		{name: "pause", args: []string{"-p"}, wantAction: monitor.Pause},
		{name: "last action wins", args: []string{"-c", "-p", "-r"}, wantAction: monitor.Report},
		{name: "combined shorthands", args: []string{"-cd"}, wantAction: monitor.Decommission},
		{name: "explicit false ignored", args: []string{"-c", "--pause=false"}, wantAction: monitor.Commission},
		{name: "version", args: []string{"-v"}, wantVersion: true},
		{name: "help", args: []string{"-h"}, wantHelp: true},
		{name: "unknown flag", args: []string{"-x"}, wantHelp: true, wantErr: true},
		{name: "positional argument", args: []string{"report"}, wantHelp: true, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed, _, err := parseArguments(test.args)
			if (err != nil) != test.wantErr {
				t.Fatalf("parseArguments(%q) error = %v, wantErr %v", test.args, err, test.wantErr)
			}
			if parsed.action != test.wantAction {
				t.Errorf("action = %v, want %v", parsed.action, test.wantAction)
			}
			if parsed.version != test.wantVersion {
				t.Errorf("version = %v, want %v", parsed.version, test.wantVersion)
			}
			if parsed.help != test.wantHelp {
				t.Errorf("help = %v, want %v", parsed.help, test.wantHelp)
			}
		})
	}
}

// testRun runs dms with args against server, with CONFIG and TOKEN
// pointing into directory.
type testRun struct {
	directory string
	server    *httptest.Server
	verbose   string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

func (r *testRun) configPath() string { return filepath.Join(r.directory, "dms.conf") }
func (r *testRun) tokenPath() string  { return filepath.Join(r.directory, "token") }

func (r *testRun) run(t *testing.T, args ...string) error {
	t.Helper()
	environment := map[string]string{
		"CONFIG":  r.configPath(),
		"TOKEN":   r.tokenPath(),
		"VERBOSE": r.verbose,
	}
	options := snitch.Options{}
	if r.server != nil {
		options.APIURL = r.server.URL + "/v1/snitches"
		options.CheckInURL = r.server.URL
		options.Transport = r.server.Client().Transport
	}
	return run(context.Background(), invocation{
		args: args,
		lookup: func(name string) (string, bool) {
			value, ok := environment[name]
			return value, ok
		},
		stdout: &r.stdout,
		stderr: &r.stderr,
		snitch: options,
	})
}

func newTestRun(t *testing.T, handler http.Handler) *testRun {
	t.Helper()
	testRun := &testRun{directory: t.TempDir()}
	if handler != nil {
		testRun.server = httptest.NewServer(handler)
		t.Cleanup(testRun.server.Close)
	}
	writeFile(t, testRun.configPath(), "# dms\ndmsapikey=\"abc123\"\nsystemname webserver1\n")
	return testRun
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestRunVersion(t *testing.T) {
	testRun := newTestRun(t, nil)
	if err := testRun.run(t, "-v"); err != nil {
		t.Fatalf("run -v: %v", err)
	}
	if got, want := testRun.stdout.String(), "dms "+version.Current().String()+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunHelpAndUnknownFlagExitZero(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--bogus"}} {
		testRun := newTestRun(t, nil)
		err := testRun.run(t, args...)
		if code := process.Report(io.Discard, err); code != 0 {
			t.Errorf("run %q exit code = %d, want 0", args, code)
		}
		if !strings.Contains(testRun.stderr.String(), "Usage:") {
			t.Errorf("run %q stderr = %q, want usage", args, testRun.stderr.String())
		}
	}
}

func TestRunMissingConfig(t *testing.T) {
	testRun := newTestRun(t, nil)
	if err := os.Remove(testRun.configPath()); err != nil {
		t.Fatal(err)
	}
	writeFile(t, testRun.tokenPath(), "tok_xyz")

	err := testRun.run(t, "-r")
	if failure.CategoryOf(err) != failure.CategoryConfig {
		t.Fatalf("error = %v, want config failure", err)
	}
	if code := process.Report(io.Discard, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunReport(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantExit int
	}{
		{name: "accepted", code: http.StatusAccepted, wantExit: 0},
		{name: "server error", code: http.StatusInternalServerError, wantExit: 1},
		{name: "ok is not accepted", code: http.StatusOK, wantExit: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var path string
			testRun := newTestRun(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				if r.Header.Get("X-Request-Id") == "" {
					t.Error("missing X-Request-Id")
				}
				w.WriteHeader(test.code)
			}))
			writeFile(t, testRun.tokenPath(), "tok_xyz\n")

			err := testRun.run(t)
			if code := process.Report(io.Discard, err); code != test.wantExit {
				t.Errorf("exit code = %d (error %v), want %d", code, err, test.wantExit)
			}
			if path != "/tok_xyz" {
				t.Errorf("check-in path = %q, want /tok_xyz", path)
			}
		})
	}
}

func TestRunReportWithoutToken(t *testing.T) {
	testRun := newTestRun(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	err := testRun.run(t, "-r")
	if failure.CategoryOf(err) != failure.CategoryToken {
		t.Fatalf("error = %v, want token failure", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	var requests []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/snitches", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, "create")
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"name":"webserver1 daily ClamAV"`) {
			t.Errorf("create body = %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"token":"tok_xyz","name":"webserver1 daily ClamAV"}`)
	})
	mux.HandleFunc("GET /tok_xyz", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, "checkin")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("POST /v1/snitches/tok_xyz/pause", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, "pause")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /v1/snitches/tok_xyz", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, "delete")
		w.WriteHeader(http.StatusNoContent)
	})
	testRun := newTestRun(t, mux)

	for _, args := range [][]string{{"-c"}, {"-c"}, {}, {"-p"}, {"-d"}} {
		if err := testRun.run(t, args...); err != nil {
			t.Fatalf("run %q: %v", args, err)
		}
		if len(args) == 1 && args[0] == "-c" {
			saved, err := os.ReadFile(testRun.tokenPath())
			if err != nil || string(saved) != "tok_xyz" {
				t.Fatalf("token file after -c = (%q, %v), want tok_xyz", saved, err)
			}
		}
	}

	want := "create,checkin,pause,delete"
	if got := strings.Join(requests, ","); got != want {
		t.Errorf("requests = %s, want %s", got, want)
	}
	if _, err := os.Stat(testRun.tokenPath()); !os.IsNotExist(err) {
		t.Errorf("token file after -d: %v, want not exist", err)
	}
}

func TestRunVerboseRedactsCredentials(t *testing.T) {
	testRun := newTestRun(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	testRun.verbose = "1"
	writeFile(t, testRun.tokenPath(), "tok_xyz")

	if err := testRun.run(t, "-p"); err != nil {
		t.Fatalf("run -p: %v", err)
	}
	logs := testRun.stderr.String()
	if !strings.Contains(logs, "http request") || !strings.Contains(logs, "[REDACTED]") {
		t.Errorf("verbose logs missing redacted wire dump:\n%s", logs)
	}
	if credentials := base64.StdEncoding.EncodeToString([]byte("abc123:")); strings.Contains(logs, credentials) {
		t.Errorf("verbose logs leak basic credentials:\n%s", logs)
	}
	if !strings.Contains(logs, `"action":"pause"`) || !strings.Contains(logs, `"request_id"`) {
		t.Errorf("logs missing action or request id attributes:\n%s", logs)
	}
}

func TestRunQuietByDefault(t *testing.T) {
	testRun := newTestRun(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	writeFile(t, testRun.tokenPath(), "tok_xyz")

	if err := testRun.run(t); err != nil {
		t.Fatalf("run: %v", err)
	}
	if testRun.stderr.Len() != 0 || testRun.stdout.Len() != 0 {
		t.Errorf("successful report wrote output: stdout=%q stderr=%q", testRun.stdout.String(), testRun.stderr.String())
	}
}
