// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"strconv"
)

// Default file locations, overridden by CONFIG and TOKEN.
const (
	DefaultConfigPath = "/etc/dms.conf"
	DefaultTokenPath  = "/var/lib/dms/token"
)

// Environment is what the process environment contributes to a run.
type Environment struct {
	ConfigPath string
	TokenPath  string
	Verbose    bool
}

// ResolveEnvironment reads CONFIG, TOKEN and VERBOSE through lookup
// (os.LookupEnv in production). Empty values fall back to the defaults.
// VERBOSE enables verbose mode when it is a non-zero integer or any
// non-numeric string.
func ResolveEnvironment(lookup func(string) (string, bool)) Environment {
	environment := Environment{
		ConfigPath: DefaultConfigPath,
		TokenPath:  DefaultTokenPath,
	}

	if value, ok := lookup("CONFIG"); ok && value != "" {
		environment.ConfigPath = value
	}
	if value, ok := lookup("TOKEN"); ok && value != "" {
		environment.TokenPath = value
	}
	if value, ok := lookup("VERBOSE"); ok && value != "" {
		level, err := strconv.Atoi(value)
		environment.Verbose = err != nil || level != 0
	}

	return environment
}

// LoadEnvironment loads the configuration file named by environment
// and carries its verbosity into the returned Config.
func LoadEnvironment(environment Environment, logger *slog.Logger) (*Config, error) {
	config, err := Load(environment.ConfigPath, logger)
	if err != nil {
		return nil, err
	}
	config.Verbose = environment.Verbose
	return config, nil
}
