package match

import (
	"errors"
	"fmt"
)

// Error is a caller-input validation failure detected while building a
// predicate. It is always returned synchronously; nothing is deferred to query
// execution.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (offending field, value, zone).
	Details map[string]string
}

// ErrorCode categorizes match errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a required scalar input is empty or
	// a value object violates its shape.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeMissingExactDate indicates an exact date match without a date.
	ErrCodeMissingExactDate ErrorCode = "MISSING_EXACT_DATE"

	// ErrCodeInvalidDateRange indicates a range with neither bound.
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"

	// ErrCodeUndefinedRangeType indicates the range discriminator is unset or
	// does not match the populated sub-range.
	ErrCodeUndefinedRangeType ErrorCode = "UNDEFINED_RANGE_TYPE"

	// ErrCodeInvalidMatchKind indicates a match discriminator is unset or
	// unrecognized.
	ErrCodeInvalidMatchKind ErrorCode = "INVALID_MATCH_KIND"

	// ErrCodeUnknownTimeZone indicates a zone name that does not resolve.
	ErrCodeUnknownTimeZone ErrorCode = "UNKNOWN_TIME_ZONE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf creates an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns e with an additional detail entry.
func (e *Error) WithDetail(key, value string) *Error {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

// IsCode reports whether err (or anything it wraps) is an Error with code.
func IsCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// CodeOf returns the code of the first Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var me *Error
	if errors.As(err, &me) {
		return me.Code
	}
	return ""
}
