// File: internal/handlers/turn_pipeline.go
package handlers

import (
	"context"
	"errors"

	"github.com/cswiz2003/voice-ai-assistant/internal/domain"
	"github.com/cswiz2003/voice-ai-assistant/internal/services"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/chat"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/response"
)

// TurnResult is the outcome of one conversation turn.
type TurnResult struct {
	UserMessage      *domain.Message `json:"user_message"`
	AssistantMessage *domain.Message `json:"assistant_message"`
	Reply            string          `json:"reply"`
	ReplyHTML        string          `json:"reply_html"`
}

// TurnPipeline runs one full conversation turn: persist the user text,
// generate a reply from recent context, persist the reply. Typed and
// voice-committed input go through the same pipeline.
type TurnPipeline struct {
	chatService     *chat.Service
	responseService *response.Service
	logger          services.Logger
}

func NewTurnPipeline(chatService *chat.Service, responseService *response.Service, logger services.Logger) *TurnPipeline {
	return &TurnPipeline{
		chatService:     chatService,
		responseService: responseService,
		logger:          logger,
	}
}

// Run executes the turn. The assistant message is only persisted on
// success; a generation failure returns the classified error after the
// user message is already stored.
func (p *TurnPipeline) Run(ctx context.Context, userID, chatID uint, text string) (*TurnResult, error) {
	history, err := p.chatService.RecentMessages(ctx, userID, chatID, p.responseService.ContextTurns())
	if err != nil {
		return nil, err
	}

	userMessage, err := p.chatService.AppendMessage(ctx, userID, chatID, domain.RoleUser, text)
	if err != nil {
		return nil, err
	}

	turns := make([]response.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, response.Turn{Role: m.Role, Text: m.Content})
	}

	reply, err := p.responseService.Reply(ctx, text, turns)
	if err != nil {
		p.logger.Error("turn failed during generation", "error", err, "chat_id", chatID)
		return nil, err
	}

	assistantMessage, err := p.chatService.AppendMessage(ctx, userID, chatID, domain.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}

	return &TurnResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Reply:            reply,
		ReplyHTML:        renderMarkdown(reply),
	}, nil
}

// userFacingError maps pipeline failures to a message safe to show and an
// HTTP-ish status class.
func userFacingError(err error) (string, int) {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return respErr.UserMessage(), 502
	}
	var chatErr *chat.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chat.ErrTypeValidation:
			return chatErr.Message, 400
		case chat.ErrTypeUnauthorized, chat.ErrTypeNotFound:
			return "Chat not found", 404
		}
	}
	return "Something went wrong. Please try again.", 500
}
