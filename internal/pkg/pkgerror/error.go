package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that no record matched the requested ID.
	ErrNotFound = errors.New("record not found")
)

// Type classifies errors into high-level buckets.
type Type int

const (
	TypeServer     Type = iota // I/O or programming errors.
	TypeBusiness               // Ledger rule violations (missing account, overdraft).
	TypeValidation             // Malformed or out-of-range input.
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier for a failure.
type Code int

const (
	CodeInternal          Code = iota // Internal or unspecified error.
	CodeInvalidFormat                 // Body or line could not be decoded.
	CodeInvalidInput                  // Input decoded but rejected.
	CodeNotFound                      // Customer or account ID unmatched.
	CodeInsufficientFunds             // Withdrawal or transfer exceeds balance.
	CodeUnauthorized                  // Credential check failed.
	CodeUnavailable                   // Backing file could not be read or written.
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeInsufficientFunds:
		return "ERROR_CODE_INSUFFICIENT_FUNDS"
	case CodeUnauthorized:
		return "ERROR_CODE_UNAUTHORIZED"
	case CodeUnavailable:
		return "ERROR_CODE_UNAVAILABLE"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is the structured error used across the application.
//
// It can wrap an underlying error while also carrying a user-facing message,
// a high-level type and a stable code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil && e.msg != "" {
		return e.msg + ": " + e.err.Error()
	}

	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Invalid input"
	case TypeBusiness:
		return "Operation not allowed"
	default:
		return "Internal error"
	}
}

// String returns a verbose representation for logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the user-facing message.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInsufficientFunds:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the code carried by err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.code
	}
	return CodeInternal
}

// MsgOf returns the user-facing message of err, falling back to err.Error().
func MsgOf(err error) string {
	var perr *Error
	if errors.As(err, &perr) && perr.msg != "" {
		return perr.msg
	}
	return err.Error()
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error wrapping err.
func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness creates a business-type error with the given message and code.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

// NewInvalidInput creates a validation error with a user-facing message.
func NewInvalidInput(msg string) error {
	return new(nil, msg, TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat creates a validation error for undecodable input.
func NewInvalidFormat(err error) error {
	return new(err, "invalid format", TypeValidation, CodeInvalidFormat)
}

// NewUnauthorized creates an authentication failure.
func NewUnauthorized(msg string) error {
	return new(nil, msg, TypeBusiness, CodeUnauthorized)
}

// NewUnavailable creates an I/O failure carrying msg and the cause.
func NewUnavailable(msg string, err error) error {
	return new(err, msg, TypeServer, CodeUnavailable)
}
