// File: internal/services/response/errors.go
package response

import (
    "fmt"
    "strings"
)

type ErrorType string

const (
    ErrTypeConfig      ErrorType = "CONFIG"
    ErrTypeRateLimit   ErrorType = "RATE_LIMIT"
    ErrTypeUnavailable ErrorType = "UNAVAILABLE"
    ErrTypeProvider    ErrorType = "PROVIDER"
    ErrTypeValidation  ErrorType = "VALIDATION"
)

// User-facing failure strings, one per error class. Handlers surface these
// verbatim; they never expose provider internals.
const (
    MsgMissingCredential = "The assistant is not configured with a valid API credential. Please contact the administrator."
    MsgRateLimited       = "The assistant is handling too many requests right now. Please try again in a moment."
    MsgUnavailable       = "The assistant is temporarily unavailable. Please try again shortly."
    MsgGenericFailure    = "Something went wrong while generating a response. Please try again."
)

type Error struct {
    Type      ErrorType
    Operation string
    Message   string
    Cause     error
}

func (e *Error) Error() string {
    if e.Cause != nil {
        return fmt.Sprintf("Response %s error in %s: %s (caused by: %v)",
            e.Type, e.Operation, e.Message, e.Cause)
    }
    return fmt.Sprintf("Response %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// UserMessage maps the error class to its fixed user-facing string.
func (e *Error) UserMessage() string {
    switch e.Type {
    case ErrTypeConfig:
        return MsgMissingCredential
    case ErrTypeRateLimit:
        return MsgRateLimited
    case ErrTypeUnavailable:
        return MsgUnavailable
    default:
        return MsgGenericFailure
    }
}

func NewValidationError(operation, msg string) *Error {
    return &Error{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewProviderError(operation, msg string, cause error) *Error {
    return &Error{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

// Classify converts a raw provider failure into a typed Error by matching
// well-known substrings of the underlying message.
func Classify(operation string, cause error) *Error {
    if cause == nil {
        return nil
    }
    msg := strings.ToLower(cause.Error())

    switch {
    case containsAny(msg, "api key", "api_key", "unauthorized", "401", "invalid authentication", "no credential"):
        return &Error{Type: ErrTypeConfig, Operation: operation, Message: "missing or invalid provider credential", Cause: cause}
    case containsAny(msg, "rate limit", "429", "quota", "too many requests"):
        return &Error{Type: ErrTypeRateLimit, Operation: operation, Message: "provider rate limit exceeded", Cause: cause}
    case containsAny(msg, "timeout", "deadline exceeded", "unavailable", "503", "502", "connection refused", "connection reset"):
        return &Error{Type: ErrTypeUnavailable, Operation: operation, Message: "provider temporarily unavailable", Cause: cause}
    default:
        return &Error{Type: ErrTypeProvider, Operation: operation, Message: "provider request failed", Cause: cause}
    }
}

func containsAny(s string, subs ...string) bool {
    for _, sub := range subs {
        if strings.Contains(s, sub) {
            return true
        }
    }
    return false
}
