// File: internal/services/chat/service.go
package chat

import (
    "context"
    "errors"
    "strings"

    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
    chatrepo "github.com/cswiz2003/voice-ai-assistant/internal/repository/chat"
    messagerepo "github.com/cswiz2003/voice-ai-assistant/internal/repository/message"
)

const defaultChatTitle = "New Chat"

// Service owns the conversation store: chats, their messages, and the
// ordering and ownership rules between them.
type Service struct {
    chatRepo    chatrepo.ChatRepository
    messageRepo messagerepo.MessageRepository
    logger      Logger
}

func NewService(chatRepo chatrepo.ChatRepository, messageRepo messagerepo.MessageRepository, logger Logger) *Service {
    return &Service{
        chatRepo:    chatRepo,
        messageRepo: messageRepo,
        logger:      logger,
    }
}

// CreateChat creates an empty chat for userID. An empty title gets a
// placeholder until the first message names the chat.
func (s *Service) CreateChat(ctx context.Context, userID uint, title string) (*domain.Chat, error) {
    if userID == 0 {
        return nil, NewValidationError("create_chat", "user ID cannot be zero")
    }
    title = strings.TrimSpace(title)
    if title == "" {
        title = defaultChatTitle
    }

    created, err := s.chatRepo.Create(ctx, &domain.Chat{UserID: userID, Title: title})
    if err != nil {
        s.logger.Error("chat creation failed", "error", err, "user_id", userID)
        return nil, NewStorageError("create_chat", "failed to create chat", err)
    }

    s.logger.Info("chat created", "chat_id", created.ID, "user_id", userID)
    return created, nil
}

// GetUserChats lists the user's chats, most recently active first.
func (s *Service) GetUserChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
    if userID == 0 {
        return nil, NewValidationError("get_user_chats", "user ID cannot be zero")
    }
    chats, err := s.chatRepo.FindByUserID(ctx, userID)
    if err != nil {
        s.logger.Error("failed to list chats", "error", err, "user_id", userID)
        return nil, NewStorageError("get_user_chats", "failed to list chats", err)
    }
    return chats, nil
}

// GetChatMessages returns the chat's messages oldest first. The chat must
// belong to userID.
func (s *Service) GetChatMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error) {
    if _, err := s.authorize(ctx, userID, chatID, "get_chat_messages"); err != nil {
        return nil, err
    }
    messages, err := s.messageRepo.FindByChatID(ctx, chatID)
    if err != nil {
        s.logger.Error("failed to load messages", "error", err, "chat_id", chatID)
        return nil, NewStorageError("get_chat_messages", "failed to load messages", err)
    }
    return messages, nil
}

// RenameChat replaces the chat title.
func (s *Service) RenameChat(ctx context.Context, userID, chatID uint, title string) error {
    title = strings.TrimSpace(title)
    if title == "" {
        return NewValidationError("rename_chat", "title cannot be empty")
    }
    if err := s.chatRepo.UpdateTitle(ctx, chatID, userID, title); err != nil {
        if errors.Is(err, chatrepo.ErrUnauthorizedAccess) || errors.Is(err, chatrepo.ErrChatNotFound) {
            return NewUnauthorizedError(userID, chatID)
        }
        s.logger.Error("failed to rename chat", "error", err, "chat_id", chatID)
        return NewStorageError("rename_chat", "failed to rename chat", err)
    }
    return nil
}

// DeleteChat removes the chat and every message in it.
func (s *Service) DeleteChat(ctx context.Context, userID, chatID uint) error {
    if _, err := s.authorize(ctx, userID, chatID, "delete_chat"); err != nil {
        return err
    }

    // Messages first so a failed chat delete never strands orphans.
    if err := s.messageRepo.DeleteByChatID(ctx, chatID); err != nil {
        s.logger.Error("failed to delete chat messages", "error", err, "chat_id", chatID)
        return NewStorageError("delete_chat", "failed to delete messages", err)
    }
    if err := s.chatRepo.Delete(ctx, chatID, userID); err != nil {
        if errors.Is(err, chatrepo.ErrUnauthorizedAccess) || errors.Is(err, chatrepo.ErrChatNotFound) {
            return NewUnauthorizedError(userID, chatID)
        }
        s.logger.Error("failed to delete chat", "error", err, "chat_id", chatID)
        return NewStorageError("delete_chat", "failed to delete chat", err)
    }

    s.logger.Info("chat deleted", "chat_id", chatID, "user_id", userID)
    return nil
}

// AppendMessage stores one message in the chat. The first message also
// names the chat from its leading characters, and every append bumps the
// chat's activity timestamp so listings stay ordered by recency.
func (s *Service) AppendMessage(ctx context.Context, userID, chatID uint, role, content string) (*domain.Message, error) {
    if !domain.IsValidRole(role) {
        return nil, NewValidationError("append_message", "invalid message role")
    }
    content = strings.TrimSpace(content)
    if content == "" {
        return nil, NewValidationError("append_message", "message content cannot be empty")
    }

    if _, err := s.authorize(ctx, userID, chatID, "append_message"); err != nil {
        return nil, err
    }

    count, err := s.messageRepo.CountByChatID(ctx, chatID)
    if err != nil {
        s.logger.Error("failed to count messages", "error", err, "chat_id", chatID)
        return nil, NewStorageError("append_message", "failed to count messages", err)
    }

    message, err := s.messageRepo.Create(ctx, &domain.Message{
        ChatID:  chatID,
        Role:    role,
        Content: content,
    })
    if err != nil {
        s.logger.Error("failed to store message", "error", err, "chat_id", chatID, "role", role)
        return nil, NewStorageError("append_message", "failed to store message", err)
    }

    if count == 0 {
        if err := s.chatRepo.UpdateTitle(ctx, chatID, userID, domain.DeriveTitle(content)); err != nil {
            s.logger.Warn("failed to set chat title from first message", "error", err, "chat_id", chatID)
        }
    }
    if err := s.chatRepo.TouchUpdatedAt(ctx, chatID); err != nil {
        s.logger.Warn("failed to bump chat activity", "error", err, "chat_id", chatID)
    }

    return message, nil
}

// RecentMessages returns up to limit of the chat's newest messages in
// chronological order, for building conversation context.
func (s *Service) RecentMessages(ctx context.Context, userID, chatID uint, limit int) ([]domain.Message, error) {
    if _, err := s.authorize(ctx, userID, chatID, "recent_messages"); err != nil {
        return nil, err
    }
    messages, err := s.messageRepo.FindRecentByChatID(ctx, chatID, limit)
    if err != nil {
        s.logger.Error("failed to load recent messages", "error", err, "chat_id", chatID)
        return nil, NewStorageError("recent_messages", "failed to load recent messages", err)
    }
    return messages, nil
}

func (s *Service) authorize(ctx context.Context, userID, chatID uint, operation string) (*domain.Chat, error) {
    if userID == 0 || chatID == 0 {
        return nil, NewValidationError(operation, "user ID and chat ID are required")
    }
    found, err := s.chatRepo.FindByID(ctx, chatID)
    if err != nil {
        if errors.Is(err, chatrepo.ErrChatNotFound) {
            return nil, NewUnauthorizedError(userID, chatID)
        }
        return nil, NewStorageError(operation, "failed to load chat", err)
    }
    if found.UserID != userID {
        s.logger.Warn("chat access denied", "chat_id", chatID, "owner_id", found.UserID, "user_id", userID)
        return nil, NewUnauthorizedError(userID, chatID)
    }
    return found, nil
}
