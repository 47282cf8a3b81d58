// Package errors re-exports github.com/cockroachdb/errors so the rest of
// crawlgraph wraps, annotates and inspects errors through one import.
//
//	if err := doc.Load(path); err != nil {
//	    return errors.Wrap(err, "load crawl document")
//	}
//
// Hints attached with WithHint are shown to the user by the CLI and the
// HTTP server; see FlattenHints.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	Mark      = crdb.Mark
	WithStack = crdb.WithStack
)

// User-facing hints
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	FlattenHints = crdb.FlattenHints
)

// Inspection
var (
	Is    = crdb.Is
	IsAny = crdb.IsAny
	As    = crdb.As
)
