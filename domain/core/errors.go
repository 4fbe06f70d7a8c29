package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrParse           = errors.New("malformed dataset")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrInvalidPlotKind = errors.New("invalid plot kind")
	ErrEmptyQuestion   = errors.New("question is empty")

	// Data availability errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNoDataset        = errors.New("no dataset loaded")

	// Collaborator errors
	ErrGeneration = errors.New("text generation failed")
)

// Error constructors with context
func NewParseError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

func NewInvalidColumnError(column string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidColumn, column, reason)
}

func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

func NewGenerationError(err error) error {
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}

// Error checking helpers
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsInvalidColumnError(err error) bool {
	return errors.Is(err, ErrInvalidColumn)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsGenerationError(err error) bool {
	return errors.Is(err, ErrGeneration)
}

// IsInputError reports whether err was caused by a bad request rather than
// by the data or a collaborator.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidColumn) ||
		errors.Is(err, ErrInvalidPlotKind) ||
		errors.Is(err, ErrEmptyQuestion)
}
