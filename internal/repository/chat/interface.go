package chat

import (
    "context"

    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
    Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
    FindByID(ctx context.Context, id uint) (*domain.Chat, error)
    FindByUserID(ctx context.Context, userID uint) ([]domain.Chat, error)
    UpdateTitle(ctx context.Context, chatID, userID uint, title string) error
    Delete(ctx context.Context, chatID uint, userID uint) error
    TouchUpdatedAt(ctx context.Context, chatID uint) error
}
