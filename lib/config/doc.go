// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the dms configuration file and resolves the
// environment variables that locate it.
//
// The configuration file is line-oriented. Each line is blank, a
// comment starting with '#', or a directive:
//
//	dmsapikey  0123456789abcdef
//	systemname="webserver 1"
//
// Keywords match case-insensitively; values are kept verbatim. One '='
// between keyword and value counts as whitespace, and a double-quoted
// value may contain whitespace. Recognized keywords are dmsapikey and
// systemname. A bad line (unknown keyword, missing value, unterminated
// quote) is logged as a warning and skipped; it never fails the load.
// Only an unreadable file is fatal.
//
// A path ending in .yaml or .yml is decoded as a YAML mapping with the
// same two keys instead.
//
// Key exports:
//
//   - [Config] -- the settings, built once per run and passed explicitly
//   - [Load] and [Parse] -- file and reader entry points
//   - [ParseLine] -- the grammar for a single line, returning a [Directive]
//   - [ResolveEnvironment] -- CONFIG, TOKEN and VERBOSE handling
package config
