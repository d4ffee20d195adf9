// File: internal/services/speech/errors.go
package speech

import "fmt"

type ErrorType string

const (
    ErrTypeConfig      ErrorType = "CONFIG"
    ErrTypeNetwork     ErrorType = "NETWORK"
    ErrTypeProvider    ErrorType = "PROVIDER"
    ErrTypeUnsupported ErrorType = "UNSUPPORTED"
    ErrTypeCanceled    ErrorType = "CANCELED"
)

type SpeechError struct {
    Type      ErrorType
    Code      int
    Operation string
    Message   string
    Cause     error
}

func (e *SpeechError) Error() string {
    if e.Cause != nil {
        return fmt.Sprintf("Speech %s error in %s: %s (caused by: %v)",
            e.Type, e.Operation, e.Message, e.Cause)
    }
    return fmt.Sprintf("Speech %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *SpeechError) Unwrap() error { return e.Cause }

func NewConfigError(operation, msg string) *SpeechError {
    return &SpeechError{Type: ErrTypeConfig, Operation: operation, Message: msg}
}

func NewProviderError(operation, msg string, cause error) *SpeechError {
    return &SpeechError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}
