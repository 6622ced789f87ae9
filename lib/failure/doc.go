// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package failure classifies the errors dms can hit during one
// invocation so that the binary can report them uniformly and tests can
// assert on the kind of failure without matching message text.
//
// An [*Error] wraps the underlying error with a [Category]. Use the
// category constructors ([Config], [Directive], [Token], [Transport],
// [NotFound], [Protocol], [UnexpectedStatus], [Internal]) or [Wrap]
// rather than building an Error directly. [CategoryOf] walks the chain
// with errors.As and returns the outermost category.
//
// Every failure maps to process exit status 1. Only [CategoryDirective]
// is non-fatal: the config parser logs directive errors and keeps going.
//
// This package has no dms-internal dependencies.
package failure
