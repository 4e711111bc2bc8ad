package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Components
	FieldComponent = "component"
	FieldService   = "service"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"

	// Documents
	FieldURI       = "uri"
	FieldLine      = "line"
	FieldCharacter = "character"
	FieldLanguage  = "language"

	// Abbreviations
	FieldSyntax       = "syntax"
	FieldAbbreviation = "abbreviation"
	FieldFilters      = "filters"
	FieldGeneration   = "generation"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Store struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewStore() *Store {
//	    return &Store{logger: logger.ComponentLogger("options.store")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	reqLogger := logger.ChildLogger(base, logger.FieldURI, uri)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
