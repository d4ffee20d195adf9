// File: internal/services/chat/service_test.go
package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cswiz2003/voice-ai-assistant/internal/domain"
	chatrepo "github.com/cswiz2003/voice-ai-assistant/internal/repository/chat"
	messagerepo "github.com/cswiz2003/voice-ai-assistant/internal/repository/message"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One shared in-memory database across the pool.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}))

	svc := NewService(chatrepo.NewChatRepository(db), messagerepo.NewMessageRepository(db), noopLogger{})
	return svc, db
}

func TestCreateChat_DefaultTitle(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChat(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "New Chat", created.Title)
	assert.NotZero(t, created.ID)
}

func TestAppendMessage_FirstMessageNamesChat(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChat(ctx, 1, "")
	require.NoError(t, err)

	long := strings.Repeat("x", 80)
	_, err = svc.AppendMessage(ctx, 1, created.ID, domain.RoleUser, long)
	require.NoError(t, err)

	chats, err := svc.GetUserChats(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, strings.Repeat("x", 50), chats[0].Title)

	// Later messages leave the title alone.
	_, err = svc.AppendMessage(ctx, 1, created.ID, domain.RoleAssistant, "a reply")
	require.NoError(t, err)
	chats, err = svc.GetUserChats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 50), chats[0].Title)
}

func TestGetChatMessages_ChronologicalOrder(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChat(ctx, 1, "")
	require.NoError(t, err)

	inputs := []struct {
		role    string
		content string
	}{
		{domain.RoleUser, "first question"},
		{domain.RoleAssistant, "first answer"},
		{domain.RoleUser, "second question"},
		{domain.RoleAssistant, "second answer"},
	}
	for _, in := range inputs {
		_, err := svc.AppendMessage(ctx, 1, created.ID, in.role, in.content)
		require.NoError(t, err)
	}

	messages, err := svc.GetChatMessages(ctx, 1, created.ID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	for i, in := range inputs {
		assert.Equal(t, in.role, messages[i].Role)
		assert.Equal(t, in.content, messages[i].Content)
	}
}

func TestGetUserChats_MostRecentlyActiveFirst(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	older, err := svc.CreateChat(ctx, 1, "older")
	require.NoError(t, err)
	newer, err := svc.CreateChat(ctx, 1, "newer")
	require.NoError(t, err)

	// Make recency explicit; sqlite timestamps have second resolution.
	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&domain.Chat{}).Where("id = ?", older.ID).
		Update("updated_at", base).Error)
	require.NoError(t, db.Model(&domain.Chat{}).Where("id = ?", newer.ID).
		Update("updated_at", base.Add(time.Minute)).Error)

	chats, err := svc.GetUserChats(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "newer", chats[0].Title)

	// Activity on the older chat moves it to the top.
	require.NoError(t, db.Model(&domain.Chat{}).Where("id = ?", older.ID).
		Update("updated_at", base.Add(2*time.Minute)).Error)

	chats, err = svc.GetUserChats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "older", chats[0].Title)
}

func TestDeleteChat_RemovesMessages(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChat(ctx, 1, "")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, 1, created.ID, domain.RoleUser, "hello there friend")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, 1, created.ID, domain.RoleAssistant, "hi, how can I help")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteChat(ctx, 1, created.ID))

	chats, err := svc.GetUserChats(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, chats)

	var orphaned int64
	require.NoError(t, db.Model(&domain.Message{}).Where("chat_id = ?", created.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestChatOwnership_Enforced(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChat(ctx, 1, "mine")
	require.NoError(t, err)

	var chatErr *ChatError

	_, err = svc.GetChatMessages(ctx, 2, created.ID)
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeUnauthorized, chatErr.Type)

	_, err = svc.AppendMessage(ctx, 2, created.ID, domain.RoleUser, "intrusion")
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeUnauthorized, chatErr.Type)

	err = svc.DeleteChat(ctx, 2, created.ID)
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeUnauthorized, chatErr.Type)

	err = svc.RenameChat(ctx, 2, created.ID, "stolen")
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeUnauthorized, chatErr.Type)

	// The owner still sees an intact chat.
	chats, err := svc.GetUserChats(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "mine", chats[0].Title)
}

func TestAppendMessage_RejectsInvalidInput(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChat(ctx, 1, "")
	require.NoError(t, err)

	var chatErr *ChatError
	_, err = svc.AppendMessage(ctx, 1, created.ID, "narrator", "not a real role")
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeValidation, chatErr.Type)

	_, err = svc.AppendMessage(ctx, 1, created.ID, domain.RoleUser, "   ")
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ErrTypeValidation, chatErr.Type)
}

func TestRecentMessages_BoundedAndChronological(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChat(ctx, 1, "")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = svc.AppendMessage(ctx, 1, created.ID, domain.RoleUser, "question number "+string(rune('a'+i)))
		require.NoError(t, err)
	}

	recent, err := svc.RecentMessages(ctx, 1, created.ID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "question number c", recent[0].Content)
	assert.Equal(t, "question number e", recent[2].Content)
}
