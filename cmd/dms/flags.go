// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dms/lib/config"
	"github.com/bureau-foundation/dms/lib/monitor"
)

// actionFlag is a boolean flag that selects an action. All action
// flags share one destination, so the last one given wins.
type actionFlag struct {
	destination *monitor.Action
	action      monitor.Action
}

func (f *actionFlag) String() string {
	if f.destination == nil {
		return "false"
	}
	return strconv.FormatBool(*f.destination == f.action)
}

func (f *actionFlag) Set(value string) error {
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	if enabled {
		*f.destination = f.action
	}
	return nil
}

func (f *actionFlag) Type() string { return "bool" }

// command is the parsed command line.
type command struct {
	action  monitor.Action
	version bool
	help    bool
}

func newFlagSet(parsed *command) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("dms", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}
	flagSet.SortFlags = false

	for _, entry := range []struct {
		name      string
		shorthand string
		action    monitor.Action
		usage     string
	}{
		{"commission", "c", monitor.Commission, "create the snitch and save its token"},
		{"decommission", "d", monitor.Decommission, "delete the snitch and the token file"},
		{"report", "r", monitor.Report, "check in with the snitch (default)"},
		{"pause", "p", monitor.Pause, "pause the snitch"},
	} {
		flag := flagSet.VarPF(&actionFlag{destination: &parsed.action, action: entry.action}, entry.name, entry.shorthand, entry.usage)
		flag.NoOptDefVal = "true"
		flag.DefValue = "false"
	}
	flagSet.BoolVarP(&parsed.version, "version", "v", false, "print the version and exit")
	flagSet.BoolVarP(&parsed.help, "help", "h", false, "show help")
	return flagSet
}

// parseArguments parses args (without the program name). A parse error
// or a positional argument returns the error with help set, so the
// caller prints usage.
func parseArguments(args []string) (command, *pflag.FlagSet, error) {
	var parsed command
	flagSet := newFlagSet(&parsed)
	if err := flagSet.Parse(args); err != nil {
		parsed.help = true
		return parsed, flagSet, err
	}
	if flagSet.NArg() > 0 {
		parsed.help = true
		return parsed, flagSet, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	return parsed, flagSet, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `dms keeps a dead man's snitch for this host's daily antivirus scan.

Usage:
  dms [-c | -d | -r | -p]

Flags:
%s
Environment:
  CONFIG   configuration file (default %s)
  TOKEN    token file (default %s)
  VERBOSE  non-zero enables debug logging of HTTP exchanges
`, flagSet.FlagUsages(), config.DefaultConfigPath, config.DefaultTokenPath)
}
