// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/dms/lib/failure"
)

// maxLineLength is the longest config line accepted. Longer lines are
// reported and skipped.
const maxLineLength = 1024

// Config holds the settings for one dms run. It is built once by
// LoadEnvironment, Load or Parse and not modified afterwards.
type Config struct {
	// APIKey authenticates snitch API calls with HTTP Basic auth. Empty
	// means no credentials are sent.
	APIKey string

	// SystemName names the snitch created by commissioning.
	SystemName string

	// Verbose enables wire logging of HTTP exchanges. It comes from the
	// VERBOSE environment variable, not from the file.
	Verbose bool
}

// HasAPIKey reports whether an API key was configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// RequireSystemName returns the configured system name, or a config
// failure when none was set.
func (c *Config) RequireSystemName() (string, error) {
	if c.SystemName == "" {
		return "", failure.Config("systemname is not set in the configuration")
	}
	return c.SystemName, nil
}

// apply records one directive. A later directive overrides an earlier
// one for the same keyword.
func (c *Config) apply(directive Directive) {
	switch directive.Kind {
	case DirectiveAPIKey:
		c.APIKey = directive.Value
	case DirectiveSystemName:
		c.SystemName = directive.Value
	}
}

// Load reads the configuration file at path. An unreadable file is a
// fatal config failure; bad lines are logged to logger and skipped.
func Load(path string, logger *slog.Logger) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, failure.Config("%s is missing or unreadable: %w", path, err)
	}
	defer file.Close()

	var config *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		config, err = decodeYAML(file, logger)
	default:
		config, err = Parse(file, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return config, nil
}

// Parse reads directives from reader, one per line. Each bad line is
// logged at warn level with its line number and does not stop parsing.
// Lines longer than maxLineLength are discarded without being held in
// memory. The returned error is non-nil only when reader itself fails.
func Parse(reader io.Reader, logger *slog.Logger) (*Config, error) {
	config := &Config{}

	buffered := bufio.NewReaderSize(reader, 4096)
	lineNumber := 0
	for {
		line, tooLong, err := readLine(buffered)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, failure.Config("reading configuration: %w", err)
		}
		lineNumber++

		if tooLong {
			logger.Warn("bad configuration line",
				"line", lineNumber,
				"error", &DirectiveError{Err: ErrLineTooLong})
			continue
		}

		directive, err := ParseLine(line)
		if err != nil {
			logger.Warn("bad configuration line", "line", lineNumber, "error", err)
			continue
		}
		config.apply(directive)
	}

	return config, nil
}

// readLine returns the next line without its line ending. A line longer
// than maxLineLength is consumed through its newline and reported as
// tooLong with no content. io.EOF is returned only when nothing was
// left to read.
func readLine(reader *bufio.Reader) (line string, tooLong bool, err error) {
	var content []byte
	read := false
	for {
		chunk, err := reader.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			// Keep room for the line ending, which is trimmed below.
			if len(content)+len(chunk) > maxLineLength+2 {
				tooLong = true
				content = nil
			} else {
				content = append(content, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && read {
			err = nil
		}
		if err != nil {
			return "", false, err
		}

		line = strings.TrimSuffix(strings.TrimSuffix(string(content), "\n"), "\r")
		if len(line) > maxLineLength {
			return "", true, nil
		}
		return line, tooLong, nil
	}
}

// decodeYAML reads a YAML mapping with the same keys as the line
// grammar. Unknown keys and non-string values are logged and skipped,
// matching the line parser's tolerance.
func decodeYAML(reader io.Reader, logger *slog.Logger) (*Config, error) {
	var document map[string]any
	if err := yaml.NewDecoder(reader).Decode(&document); err != nil && !errors.Is(err, io.EOF) {
		return nil, failure.Config("parsing YAML configuration: %w", err)
	}

	config := &Config{}
	for key, raw := range document {
		kind := lookupKeyword(strings.ToLower(key))
		if kind == DirectiveUnrecognized {
			logger.Warn("bad configuration key", "key", key, "error", ErrUnrecognized)
			continue
		}
		value, ok := raw.(string)
		if !ok || value == "" {
			logger.Warn("bad configuration key", "key", key, "error", ErrMissingArgument)
			continue
		}
		config.apply(Directive{Kind: kind, Keyword: key, Value: value})
	}
	return config, nil
}
