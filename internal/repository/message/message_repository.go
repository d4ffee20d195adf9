// File: internal/repository/message/message_repository.go
package message

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"

    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
    "gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
    db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
    return &gormMessageRepository{db: db}
}

// Create inserts a new message after validating its input.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
    if err := r.validateMessageInput(message); err != nil {
        log.Printf("[MessageRepository] Validation failed: %v", err)
        return nil, fmt.Errorf("validation failed: %w", err)
    }

    err := r.db.WithContext(ctx).Create(message).Error
    if err != nil {
        // Secure logging - no conversation content exposed
        log.Printf("[MessageRepository] Database error during message creation for chat ID %d: %v", message.ChatID, err)
        return nil, errors.New("database error creating message")
    }
    return message, nil
}

// FindByChatID returns all messages of a chat in creation order.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error) {
    if chatID == 0 {
        return nil, errors.New("invalid chat ID")
    }

    var messages []domain.Message
    err := r.db.WithContext(ctx).
        Where("chat_id = ?", chatID).
        Order("created_at asc, id asc").
        Find(&messages).Error

    if err != nil {
        log.Printf("[MessageRepository] Database error finding messages for chat ID %d: %v", chatID, err)
        return nil, errors.New("database error fetching messages")
    }

    return messages, nil
}

// CountByChatID counts the messages of a chat without loading them.
func (r *gormMessageRepository) CountByChatID(ctx context.Context, chatID uint) (int64, error) {
    if chatID == 0 {
        return 0, errors.New("invalid chat ID")
    }

    var count int64
    err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID).Count(&count).Error
    if err != nil {
        log.Printf("[MessageRepository] Database error counting messages for chat ID %d: %v", chatID, err)
        return 0, errors.New("database error counting chat messages")
    }

    return count, nil
}

// FindRecentByChatID returns the last limit messages of a chat in
// chronological order, for use as short conversational context.
func (r *gormMessageRepository) FindRecentByChatID(ctx context.Context, chatID uint, limit int) ([]domain.Message, error) {
    if chatID == 0 {
        return nil, errors.New("invalid chat ID")
    }
    if limit <= 0 || limit > 100 {
        limit = 10 // Safe default
    }

    var messages []domain.Message
    err := r.db.WithContext(ctx).
        Where("chat_id = ?", chatID).
        Order("created_at DESC, id DESC").
        Limit(limit).
        Find(&messages).Error

    if err != nil {
        log.Printf("[MessageRepository] Database error finding recent messages for chat ID %d: %v", chatID, err)
        return nil, errors.New("database error finding recent messages")
    }

    // Reverse to oldest first
    for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
        messages[i], messages[j] = messages[j], messages[i]
    }

    return messages, nil
}

// DeleteByChatID performs a bulk deletion of all messages associated with a
// given chatID. Used when a chat is deleted so the cascade never leaves
// orphaned rows.
func (r *gormMessageRepository) DeleteByChatID(ctx context.Context, chatID uint) error {
    if chatID == 0 {
        return errors.New("invalid chat ID")
    }

    result := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&domain.Message{})
    if result.Error != nil {
        log.Printf("[MessageRepository] Database error deleting messages for chat ID %d: %v", chatID, result.Error)
        return errors.New("database error deleting messages by chat ID")
    }
    return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
    if message == nil {
        return errors.New("message cannot be nil")
    }
    if message.ChatID == 0 {
        return errors.New("chat ID is required")
    }
    if !domain.IsValidRole(message.Role) {
        return errors.New("invalid message role")
    }
    if strings.TrimSpace(message.Content) == "" {
        return errors.New("message content cannot be empty")
    }
    if len(message.Content) > 10000 {
        return errors.New("message content too long (max 10000 characters)")
    }
    return nil
}
