// File: internal/domain/message.go
package domain

import "time"

// Message roles. A message is written either by the user or by the assistant.
const (
    RoleUser      = "user"
    RoleAssistant = "assistant"
)

// Message represents a single message within a chat. Messages are immutable
// once created and are removed only when their chat is deleted.
type Message struct {
    ID        uint      `json:"id" gorm:"primarykey"`
    ChatID    uint      `json:"chat_id" gorm:"not null;index"`
    Role      string    `json:"role" gorm:"not null"` // "user" or "assistant"
    Content   string    `json:"content" gorm:"not null"`
    CreatedAt time.Time `json:"created_at"`
}

// IsValidRole reports whether role is one of the known message roles.
func IsValidRole(role string) bool {
    return role == RoleUser || role == RoleAssistant
}
