// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
    ErrTypeValidation   ErrorType = "VALIDATION"
    ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
    ErrTypeNotFound     ErrorType = "NOT_FOUND"
    ErrTypeStorage      ErrorType = "STORAGE"
)

type ChatError struct {
    Type      ErrorType
    Operation string
    Message   string
    ChatID    uint
    UserID    uint
    Cause     error
}

func (e *ChatError) Error() string {
    if e.Cause != nil {
        return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
            e.Type, e.Operation, e.Message, e.Cause)
    }
    return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
    return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewStorageError(operation, msg string, cause error) *ChatError {
    return &ChatError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

func NewUnauthorizedError(userID, chatID uint) *ChatError {
    return &ChatError{
        Type:      ErrTypeUnauthorized,
        Operation: "authorization",
        Message:   "chat not found or unauthorized",
        UserID:    userID,
        ChatID:    chatID,
    }
}
