// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/dms/lib/failure"
)

const (
	whitespace = " \t\r\n"
	delimiters = whitespace + `"=`
)

// Directive errors, testable with errors.Is on the error from ParseLine.
var (
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrMissingArgument   = errors.New("missing argument")
	ErrUnrecognized      = errors.New("bad configuration directive")
	ErrLineTooLong       = errors.New("line too long")
)

// DirectiveKind identifies what a config line sets.
type DirectiveKind int

const (
	// DirectiveNone is a blank or comment line.
	DirectiveNone DirectiveKind = iota
	DirectiveAPIKey
	DirectiveSystemName
	DirectiveUnrecognized
)

func (kind DirectiveKind) String() string {
	switch kind {
	case DirectiveNone:
		return "none"
	case DirectiveAPIKey:
		return "dmsapikey"
	case DirectiveSystemName:
		return "systemname"
	case DirectiveUnrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("DirectiveKind(%d)", int(kind))
	}
}

// Directive is one parsed config line. Keyword is lowercased; Value is
// exactly as written, without surrounding quotes.
type Directive struct {
	Kind    DirectiveKind
	Keyword string
	Value   string
}

// DirectiveError describes a config line that could not be applied.
type DirectiveError struct {
	Keyword string
	Err     error
}

func (e *DirectiveError) Error() string {
	if e.Keyword == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Keyword, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }

func directiveError(keyword string, err error) error {
	return failure.Wrap(failure.CategoryDirective, &DirectiveError{Keyword: keyword, Err: err})
}

// ParseLine parses a single config line. Blank and comment lines return
// a DirectiveNone directive. An unrecognized keyword returns a
// DirectiveUnrecognized directive together with an ErrUnrecognized
// error; a recognized keyword without a usable value returns
// ErrMissingArgument and leaves Value empty.
func ParseLine(line string) (Directive, error) {
	line = strings.TrimRight(line, whitespace)
	line = strings.TrimLeft(line, whitespace)
	if line == "" || line[0] == '#' {
		return Directive{Kind: DirectiveNone}, nil
	}

	scanner := lineScanner{rest: line}
	keyword, ok, err := scanner.next()
	if err != nil {
		return Directive{}, directiveError("", err)
	}
	if !ok {
		return Directive{Kind: DirectiveNone}, nil
	}
	keyword = strings.ToLower(keyword)

	kind := lookupKeyword(keyword)
	if kind == DirectiveUnrecognized {
		return Directive{Kind: kind, Keyword: keyword}, directiveError(keyword, ErrUnrecognized)
	}

	value, ok, err := scanner.next()
	if err != nil {
		return Directive{}, directiveError(keyword, err)
	}
	if !ok || value == "" {
		return Directive{}, directiveError(keyword, ErrMissingArgument)
	}

	return Directive{Kind: kind, Keyword: keyword, Value: value}, nil
}

func lookupKeyword(keyword string) DirectiveKind {
	switch keyword {
	case "dmsapikey":
		return DirectiveAPIKey
	case "systemname":
		return DirectiveSystemName
	default:
		return DirectiveUnrecognized
	}
}

// lineScanner splits a config line into tokens. A token ends at the
// first delimiter. A double quote starts a section copied verbatim up
// to the next double quote. After a bare token, whitespace and at most
// one '=' are skipped before the next token.
type lineScanner struct {
	rest string
	done bool
}

// next returns the next token. ok is false once the line is exhausted.
// A token with no closing quote returns ErrUnterminatedQuote and ends
// the scan.
func (s *lineScanner) next() (token string, ok bool, err error) {
	if s.done {
		return "", false, nil
	}

	index := strings.IndexAny(s.rest, delimiters)
	if index < 0 {
		token = s.rest
		s.rest, s.done = "", true
		return token, true, nil
	}

	if s.rest[index] == '"' {
		quoted := s.rest[index+1:]
		closing := strings.IndexByte(quoted, '"')
		if closing < 0 {
			s.rest, s.done = "", true
			return "", false, ErrUnterminatedQuote
		}
		token = s.rest[:index] + quoted[:closing]
		s.rest = strings.TrimLeft(quoted[closing+1:], whitespace)
		return token, true, nil
	}

	skippedEquals := s.rest[index] == '='
	token = s.rest[:index]
	s.rest = strings.TrimLeft(s.rest[index+1:], whitespace)
	if !skippedEquals && strings.HasPrefix(s.rest, "=") {
		s.rest = strings.TrimLeft(s.rest[1:], whitespace)
	}
	return token, true, nil
}
