package usecase_test

import (
	"context"
	"testing"
	"time"

	"rezo-backend/internal/domain"
	"rezo-backend/internal/usecase"
	"rezo-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newConversationFixture(t *testing.T) (*MockUserRepo, *memConversationRepo, domain.ConversationUsecase, int64) {
	t.Helper()
	users := new(MockUserRepo)
	convs := newMemConversationRepo()
	conv, err := convs.Create(context.Background(), 1, 5)
	require.NoError(t, err)
	return users, convs, usecase.NewConversationUsecase(users, convs, validation.New()), conv.ID
}

func TestSendMessage(t *testing.T) {
	t.Run("Participant can send and timestamp defaults to now", func(t *testing.T) {
		_, _, uc, convID := newConversationFixture(t)
		before := time.Now().UTC().Add(-time.Second)

		msg, err := uc.SendMessage(context.Background(), 5, &domain.SendMessageInput{
			ConversationID: convID,
			Content:        "  Hello there  ",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), msg.SenderID)
		assert.Equal(t, "Hello there", msg.Content)
		assert.True(t, msg.Timestamp.After(before))
		assert.Equal(t, time.UTC, msg.Timestamp.Location())
	})

	t.Run("Explicit timestamp is kept", func(t *testing.T) {
		_, _, uc, convID := newConversationFixture(t)
		ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

		msg, err := uc.SendMessage(context.Background(), 1, &domain.SendMessageInput{
			ConversationID: convID,
			SenderID:       1,
			Content:        "hi",
			Timestamp:      &ts,
		})
		require.NoError(t, err)
		assert.True(t, ts.Equal(msg.Timestamp))
	})

	t.Run("Outsider is rejected", func(t *testing.T) {
		_, convs, uc, convID := newConversationFixture(t)

		_, err := uc.SendMessage(context.Background(), 9, &domain.SendMessageInput{
			ConversationID: convID,
			Content:        "let me in",
		})
		assert.ErrorIs(t, err, domain.ErrNotParticipant)

		msgs, _ := convs.ListMessages(context.Background(), convID)
		assert.Empty(t, msgs)
	})

	t.Run("Sender must be the caller", func(t *testing.T) {
		_, _, uc, convID := newConversationFixture(t)

		_, err := uc.SendMessage(context.Background(), 1, &domain.SendMessageInput{
			ConversationID: convID,
			SenderID:       5,
			Content:        "spoof",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "as yourself")
	})

	t.Run("Empty content fails validation", func(t *testing.T) {
		_, _, uc, convID := newConversationFixture(t)

		_, err := uc.SendMessage(context.Background(), 1, &domain.SendMessageInput{
			ConversationID: convID,
			Content:        "   ",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Message: is required")
	})

	t.Run("Unknown conversation is not found", func(t *testing.T) {
		_, _, uc, _ := newConversationFixture(t)

		_, err := uc.SendMessage(context.Background(), 1, &domain.SendMessageInput{
			ConversationID: 404,
			Content:        "hello?",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListMessagesOrder(t *testing.T) {
	_, _, uc, convID := newConversationFixture(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, content := range []string{"one", "two", "three"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		_, err := uc.SendMessage(context.Background(), 1, &domain.SendMessageInput{
			ConversationID: convID,
			Content:        content,
			Timestamp:      &ts,
		})
		require.NoError(t, err)
	}

	msgs, err := uc.ListMessages(context.Background(), 5, convID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp))
	}

	_, err = uc.ListMessages(context.Background(), 9, convID)
	assert.ErrorIs(t, err, domain.ErrNotParticipant)
}

func TestListForUser(t *testing.T) {
	t.Run("Own inbox shows the other participant", func(t *testing.T) {
		_, _, uc, convID := newConversationFixture(t)

		details, err := uc.ListForUser(context.Background(), 5, 5)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, convID, details[0].ID)
		assert.Equal(t, int64(1), details[0].OtherParticipant.ID)
		assert.Nil(t, details[0].LastMessage)
	})

	t.Run("Someone else's inbox is forbidden", func(t *testing.T) {
		_, _, uc, _ := newConversationFixture(t)

		_, err := uc.ListForUser(context.Background(), 1, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "your own conversations")
	})
}

func TestCreateDirect(t *testing.T) {
	t.Run("Existing pair is returned in either order", func(t *testing.T) {
		users, convs, uc, convID := newConversationFixture(t)
		users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, IsActive: true}, nil)

		conv, created, err := uc.CreateDirect(context.Background(), 5, 1)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, convID, conv.ID)
		assert.Equal(t, 1, convs.count())
	})

	t.Run("New pair is created", func(t *testing.T) {
		users, convs, uc, _ := newConversationFixture(t)
		users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, IsActive: true}, nil)

		conv, created, err := uc.CreateDirect(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(1), conv.ParticipantA)
		assert.Equal(t, 2, convs.count())
	})

	t.Run("Self conversation is rejected", func(t *testing.T) {
		_, _, uc, _ := newConversationFixture(t)
		_, _, err := uc.CreateDirect(context.Background(), 1, 1)
		assert.Error(t, err)
	})

	t.Run("Unknown user is not found", func(t *testing.T) {
		users, _, uc, _ := newConversationFixture(t)
		users.On("GetByID", mock.Anything, int64(8)).Return(nil, domain.ErrNotFound)

		_, _, err := uc.CreateDirect(context.Background(), 1, 8)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestFindByPairIsSymmetric(t *testing.T) {
	_, convs, _, convID := newConversationFixture(t)

	ab, err := convs.FindByPair(context.Background(), 1, 5)
	require.NoError(t, err)
	ba, err := convs.FindByPair(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, convID, ab.ID)
	assert.Equal(t, ab, ba)
}
