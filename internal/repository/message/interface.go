package message

import (
    "context"

    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
    Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
    FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
    CountByChatID(ctx context.Context, chatID uint) (int64, error)
    FindRecentByChatID(ctx context.Context, chatID uint, limit int) ([]domain.Message, error)
    DeleteByChatID(ctx context.Context, chatID uint) error
}
