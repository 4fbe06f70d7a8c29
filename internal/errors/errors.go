package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"datadash/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// asAppError finds the outermost AppError in err's chain
func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Wrap adds context to err, keeping the code of any AppError in its chain
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	if appErr, ok := asAppError(err); ok {
		code = appErr.Code
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// WithCode sets the code of err
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{Code: code, Message: appErr.Message, Cause: appErr.Cause}
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// GetCode returns the code of the first AppError in err's chain, or "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeParseError       = "PARSE_ERROR"
	CodeInvalidColumn    = "INVALID_COLUMN"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeNoDataset        = "NO_DATASET"
	CodeGenerationError  = "GENERATION_ERROR"
	CodeNotConfigured    = "NOT_CONFIGURED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func NotConfigured(feature string) *AppError {
	return New(CodeNotConfigured, fmt.Sprintf("%s is not configured", feature))
}

func PayloadTooLarge() *AppError {
	return New(CodePayloadTooLarge, "uploaded file exceeds the size limit")
}

// FromDomain converts an error returned by the analysis core into an
// AppError carrying a user-facing message. Errors that already are AppErrors
// pass through unchanged.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := asAppError(err); ok {
		return appErr
	}

	code := CodeInternalError
	switch {
	case stderrors.Is(err, core.ErrParse):
		code = CodeParseError
	case stderrors.Is(err, core.ErrInvalidColumn):
		code = CodeInvalidColumn
	case stderrors.Is(err, core.ErrInvalidPlotKind), stderrors.Is(err, core.ErrEmptyQuestion):
		code = CodeInvalidInput
	case stderrors.Is(err, core.ErrInsufficientData):
		code = CodeInsufficientData
	case stderrors.Is(err, core.ErrNoDataset):
		code = CodeNoDataset
	case stderrors.Is(err, core.ErrGeneration):
		code = CodeGenerationError
	}

	message := err.Error()
	if code == CodeInternalError {
		message = "An unexpected error occurred"
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidInput, CodeInvalidColumn:
		return http.StatusBadRequest
	case CodeParseError, CodeInsufficientData:
		return http.StatusUnprocessableEntity
	case CodeNoDataset:
		return http.StatusNotFound
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeGenerationError:
		return http.StatusBadGateway
	case CodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
