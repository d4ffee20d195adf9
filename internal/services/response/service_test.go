// File: internal/services/response/service_test.go
package response

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

// fakeProvider returns scripted outcomes in order, then repeats the last one.
type fakeProvider struct {
	calls    int
	script   []func() (string, error)
	lastSeen string
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	f.lastSeen = prompt
	if len(f.script) == 0 {
		return "A perfectly reasonable reply.", nil
	}
	idx := f.calls - 1
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	return f.script[idx]()
}

func newServiceWithProvider(t *testing.T, provider *fakeProvider) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.Model = "test-model"
	cfg.RetryDelay = time.Millisecond
	svc, err := NewService(cfg, provider, noopLogger{})
	require.NoError(t, err)
	return svc
}

func TestReply_EmptyInputRejected(t *testing.T) {
	provider := &fakeProvider{}
	svc := newServiceWithProvider(t, provider)

	_, err := svc.Reply(context.Background(), "   ", nil)
	require.Error(t, err)
	assert.Equal(t, 0, provider.calls)
}

func TestReply_IdentityShortCircuit(t *testing.T) {
	provider := &fakeProvider{}
	svc := newServiceWithProvider(t, provider)

	for _, input := range []string{"Who are you?", "tell me your name", "WHO MADE YOU"} {
		reply, err := svc.Reply(context.Background(), input, nil)
		require.NoError(t, err)
		assert.Equal(t, IdentityReply, reply)
	}
	assert.Equal(t, 0, provider.calls, "identity inputs must not hit the provider")
}

func TestReply_GreetingShortCircuit(t *testing.T) {
	provider := &fakeProvider{}
	svc := newServiceWithProvider(t, provider)

	for _, input := range []string{"hi", "Hello!", "good morning", "hey."} {
		reply, err := svc.Reply(context.Background(), input, nil)
		require.NoError(t, err)
		assert.Equal(t, GreetingReply, reply)
	}
	assert.Equal(t, 0, provider.calls)

	// A greeting embedded in a longer utterance is not a greeting.
	_, err := svc.Reply(context.Background(), "hello, can you explain goroutines", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestReply_RetriesThenSucceeds(t *testing.T) {
	transient := errors.New("connection reset")
	provider := &fakeProvider{script: []func() (string, error){
		func() (string, error) { return "", transient },
		func() (string, error) { return "", transient },
		func() (string, error) { return "Third time works fine.", nil },
	}}
	svc := newServiceWithProvider(t, provider)

	reply, err := svc.Reply(context.Background(), "what is a channel", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, "Third time works fine.", reply)
}

func TestReply_ExhaustedRetriesClassified(t *testing.T) {
	provider := &fakeProvider{script: []func() (string, error){
		func() (string, error) { return "", errors.New("429 rate limit exceeded") },
	}}
	svc := newServiceWithProvider(t, provider)

	_, err := svc.Reply(context.Background(), "what is a channel", nil)
	require.Error(t, err)
	assert.Equal(t, 3, provider.calls, "all attempts should be used")

	var respErr *Error
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, ErrTypeRateLimit, respErr.Type)
	assert.Equal(t, MsgRateLimited, respErr.UserMessage())
}

func TestReply_HistoryBoundedInPrompt(t *testing.T) {
	provider := &fakeProvider{}
	svc := newServiceWithProvider(t, provider)

	history := make([]Turn, 0, 20)
	for i := 0; i < 10; i++ {
		history = append(history, Turn{Role: "user", Text: "old question"})
		history = append(history, Turn{Role: "assistant", Text: "old answer"})
	}

	_, err := svc.Reply(context.Background(), "latest question", history)
	require.NoError(t, err)
	assert.Contains(t, provider.lastSeen, "latest question")

	// Only the most recent turns make it into the prompt.
	count := 0
	for _, line := range splitLines(provider.lastSeen) {
		if line == "User: old question" || line == "Assistant: old answer" {
			count++
		}
	}
	assert.Equal(t, svc.ContextTurns(), count)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		cause error
		want  ErrorType
		msg   string
	}{
		{errors.New("invalid api key"), ErrTypeConfig, MsgMissingCredential},
		{errors.New("401 unauthorized"), ErrTypeConfig, MsgMissingCredential},
		{errors.New("429 too many requests: rate limit"), ErrTypeRateLimit, MsgRateLimited},
		{errors.New("context deadline exceeded"), ErrTypeUnavailable, MsgUnavailable},
		{errors.New("503 service unavailable"), ErrTypeUnavailable, MsgUnavailable},
		{errors.New("something odd"), ErrTypeProvider, MsgGenericFailure},
	}
	for _, tc := range cases {
		got := Classify("reply", tc.cause)
		assert.Equal(t, tc.want, got.Type, "cause: %v", tc.cause)
		assert.Equal(t, tc.msg, got.UserMessage(), "cause: %v", tc.cause)
	}
}

func TestRetry_ContextCancelAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, 50*time.Millisecond, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
