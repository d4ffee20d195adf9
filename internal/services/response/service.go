// File: internal/services/response/service.go
package response

import (
    "context"
    "strings"

    "github.com/cswiz2003/voice-ai-assistant/internal/domain"
)

// Logger defines the logging interface for the response service.
type Logger interface {
    Info(msg string, keysAndValues ...interface{})
    Error(msg string, keysAndValues ...interface{})
    Debug(msg string, keysAndValues ...interface{})
    Warn(msg string, keysAndValues ...interface{})
}

// Fixed replies returned without a provider call.
const (
    IdentityReply = "I'm your voice-enabled assistant. You can talk or type, and I'll do my best to help."
    GreetingReply = "Hello there! How can I assist you today?"
)

// identityPhrases trigger the identity short-circuit on a case-insensitive
// substring match.
var identityPhrases = []string{
    "who are you",
    "what are you",
    "who made you",
    "your name",
}

// greetingTokens trigger the greeting short-circuit on an exact match of the
// trimmed, lowercased input.
var greetingTokens = map[string]bool{
    "hi":             true,
    "hello":          true,
    "hey":            true,
    "hi there":       true,
    "hello there":    true,
    "good morning":   true,
    "good afternoon": true,
    "good evening":   true,
}

// Service turns one user utterance into one assistant reply, with bounded
// retry against the generation provider and app-specific output shaping.
type Service struct {
    config   *Config
    provider Provider
    logger   Logger
}

func NewService(config *Config, provider Provider, logger Logger) (*Service, error) {
    if config == nil {
        return nil, NewValidationError("constructor", "config is required")
    }
    if provider == nil {
        return nil, NewValidationError("constructor", "provider is required")
    }
    if err := config.Validate(); err != nil {
        return nil, NewValidationError("config", err.Error())
    }
    return &Service{config: config, provider: provider, logger: logger}, nil
}

// ContextTurns reports how many prior turns the prompt uses, so callers
// know how much history to fetch.
func (s *Service) ContextTurns() int {
    return s.config.ContextTurns
}

// Reply produces the assistant reply for userText. history carries the most
// recent turns of the conversation, oldest first.
func (s *Service) Reply(ctx context.Context, userText string, history []Turn) (string, error) {
    trimmed := strings.TrimSpace(userText)
    if trimmed == "" {
        return "", NewValidationError("reply", "user text cannot be empty")
    }

    if fixed, ok := s.shortCircuit(trimmed); ok {
        s.logger.Debug("short-circuit reply", "input_length", len(trimmed))
        return fixed, nil
    }

    prompt := s.buildPrompt(trimmed, history)

    callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
    defer cancel()

    var raw string
    err := Retry(callCtx, s.config.MaxAttempts, s.config.RetryDelay, func(ctx context.Context) error {
        out, callErr := s.provider.Complete(ctx, prompt, s.config.MaxTokens)
        if callErr != nil {
            s.logger.Warn("provider call failed", "error", callErr)
            return callErr
        }
        raw = out
        return nil
    })
    if err != nil {
        classified := Classify("reply", err)
        s.logger.Error("reply generation failed", "type", string(classified.Type), "error", err)
        return "", classified
    }

    reply := s.CleanReply(raw)
    s.logger.Info("reply generated", "reply_length", len(reply))
    return reply, nil
}

// shortCircuit answers identity and greeting inputs from fixed strings.
func (s *Service) shortCircuit(trimmed string) (string, bool) {
    lower := strings.ToLower(trimmed)

    for _, phrase := range identityPhrases {
        if strings.Contains(lower, phrase) {
            return IdentityReply, true
        }
    }
    if greetingTokens[strings.TrimRight(lower, "!.?, ")] {
        return GreetingReply, true
    }
    return "", false
}

// buildPrompt formats the recent turns plus the latest user text with
// role labels, the latest user line last.
func (s *Service) buildPrompt(userText string, history []Turn) string {
    var b strings.Builder
    b.WriteString("You are a friendly voice assistant. Reply conversationally and concisely.\n\n")

    start := 0
    if len(history) > s.config.ContextTurns {
        start = len(history) - s.config.ContextTurns
    }
    for _, turn := range history[start:] {
        label := "User"
        if turn.Role == domain.RoleAssistant {
            label = "Assistant"
        }
        b.WriteString(label)
        b.WriteString(": ")
        b.WriteString(turn.Text)
        b.WriteString("\n")
    }

    b.WriteString("User: ")
    b.WriteString(userText)
    b.WriteString("\nAssistant:")
    return b.String()
}
