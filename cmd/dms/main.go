// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/dms/lib/config"
	"github.com/bureau-foundation/dms/lib/monitor"
	"github.com/bureau-foundation/dms/lib/process"
	"github.com/bureau-foundation/dms/lib/snitch"
	"github.com/bureau-foundation/dms/lib/token"
	"github.com/bureau-foundation/dms/lib/version"
)

func main() {
	signal.Ignore(unix.SIGPIPE)
	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)

	err := run(ctx, invocation{
		args:   os.Args[1:],
		lookup: os.LookupEnv,
		stdout: os.Stdout,
		stderr: os.Stderr,
		snitch: snitch.DefaultOptions(),
	})
	stop()
	if err != nil {
		process.Fatal(err)
	}
}

// invocation is everything a run takes from its process.
type invocation struct {
	args   []string
	lookup func(string) (string, bool)
	stdout io.Writer
	stderr io.Writer
	snitch snitch.Options
}

func run(ctx context.Context, call invocation) error {
	parsed, flagSet, err := parseArguments(call.args)
	if err != nil {
		fmt.Fprintf(call.stderr, "dms: %v\n", err)
	}
	if parsed.help {
		printHelp(call.stderr, flagSet)
		return nil
	}
	if parsed.version {
		version.Print(call.stdout, "dms")
		return nil
	}

	environment := config.ResolveEnvironment(call.lookup)
	requestID := uuid.NewString()
	logger := newLogger(call.stderr, environment.Verbose).With(
		"action", parsed.action.String(),
		"request_id", requestID,
	)
	logger.Debug("starting", "build", version.Current(),
		"config", environment.ConfigPath, "token", environment.TokenPath)

	configuration, err := config.LoadEnvironment(environment, logger)
	if err != nil {
		return err
	}
	if !configuration.HasAPIKey() && parsed.action != monitor.Report {
		logger.Warn("no dmsapikey configured, sending unauthenticated request")
	}

	options := call.snitch
	options.RequestID = requestID
	options.Verbose = configuration.Verbose
	options.Logger = logger

	dms := &monitor.Monitor{
		Config:   configuration,
		Tokens:   token.NewStore(environment.TokenPath),
		Snitches: snitch.NewClient(options),
		Logger:   logger,
	}
	return dms.Run(ctx, parsed.action)
}
