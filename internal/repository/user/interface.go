package user

import (
    "context"

    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
    Create(ctx context.Context, user *domain.User) (*domain.User, error)
    FindByID(ctx context.Context, id uint) (*domain.User, error)
    FindByUsername(ctx context.Context, username string) (*domain.User, error)
    Delete(ctx context.Context, userID uint) error
}
