// Package errors provides error handling for the emmet language service.
//
// This package re-exports github.com/cockroachdb/errors so that every
// package wraps errors the same way and keeps stack traces:
//
//	// Wrap with context
//	if err := load(path); err != nil {
//	    return errors.Wrapf(err, "failed to load snippets from %s", path)
//	}
//
//	// Check for a domain sentinel
//	if errors.Is(err, errors.ErrSourceUnavailable) {
//	    // fall back to built-in snippets
//	}
//
// Errors never travel to the editor: extraction and validation failures are
// reported as empty results, and these errors only reach logs and the CLI.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint        = crdb.WithHint
	WithHintf       = crdb.WithHintf
	WithDetail      = crdb.WithDetail
	WithDetailf     = crdb.WithDetailf
	GetAllHints     = crdb.GetAllHints
	GetAllDetails   = crdb.GetAllDetails
	FlattenHints    = crdb.FlattenHints
	FlattenDetails  = crdb.FlattenDetails
	WithSafeDetails = crdb.WithSafeDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors. Wrap them with Wrap/Wrapf to add context; test with Is.
var (
	// ErrCyclicInheritance reports a syntax whose parent chain loops back on itself
	ErrCyclicInheritance = New("cyclic syntax inheritance")

	// ErrSourceUnavailable reports a missing or unreadable external snippet source
	ErrSourceUnavailable = New("external snippet source unavailable")

	// ErrUnsupportedFormat reports a snippet or profile file with an unknown extension
	ErrUnsupportedFormat = New("unsupported file format")

	// ErrInvalidAbbreviation reports text that does not parse as an abbreviation
	ErrInvalidAbbreviation = New("invalid abbreviation")

	// ErrExpansionTooLarge reports an abbreviation whose output exceeds the expansion limits
	ErrExpansionTooLarge = New("expansion too large")
)

// IsSourceUnavailable checks if an error is or wraps ErrSourceUnavailable
func IsSourceUnavailable(err error) bool {
	return err != nil && Is(err, ErrSourceUnavailable)
}

// IsExpansionTooLarge checks if an error is or wraps ErrExpansionTooLarge
func IsExpansionTooLarge(err error) bool {
	return err != nil && Is(err, ErrExpansionTooLarge)
}

// IsInvalidAbbreviation checks if an error is or wraps ErrInvalidAbbreviation
func IsInvalidAbbreviation(err error) bool {
	return err != nil && Is(err, ErrInvalidAbbreviation)
}

// NewInvalidAbbreviation creates an ErrInvalidAbbreviation carrying the offending text
func NewInvalidAbbreviation(abbreviation string) error {
	return WithDetailf(Wrapf(ErrInvalidAbbreviation, "%q", abbreviation),
		"abbreviation: %s", abbreviation)
}

// WrapSourceUnavailable marks err as a source failure for path
func WrapSourceUnavailable(err error, path string) error {
	return WithSecondary(Wrapf(ErrSourceUnavailable, "path %s", path), err)
}

// WithSecondary attaches cause as a secondary error, keeping primary as the Is target
var WithSecondary = crdb.WithSecondaryError
