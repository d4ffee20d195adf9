// File: internal/domain/chat.go
package domain

import (
    "strings"
    "time"
)

// TitleMaxRunes is the number of leading characters of the first user
// message used to derive a chat title.
const TitleMaxRunes = 50

// Chat represents a single conversation thread owned by one user.
type Chat struct {
    ID        uint      `json:"id" gorm:"primarykey"`
    UserID    uint      `json:"-" gorm:"not null;index"`
    Title     string    `json:"title"` // Derived from the first message, renamable by the owner.
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

// DeriveTitle builds a chat title from the first user message of a
// conversation: the first TitleMaxRunes runes, whitespace-trimmed.
func DeriveTitle(firstMessage string) string {
    runes := []rune(strings.TrimSpace(firstMessage))
    if len(runes) > TitleMaxRunes {
        runes = runes[:TitleMaxRunes]
    }
    return strings.TrimSpace(string(runes))
}
