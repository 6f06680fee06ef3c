package usecase

import (
	"context"
	"strings"
	"time"

	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type conversationUsecase struct {
	userRepo domain.UserRepository
	convRepo domain.ConversationRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewConversationUsecase(userRepo domain.UserRepository, convRepo domain.ConversationRepository, validate *validator.Validate) domain.ConversationUsecase {
	return &conversationUsecase{
		userRepo: userRepo,
		convRepo: convRepo,
		validate: validate,
		now:      time.Now,
	}
}

// ListForUser returns the inbox of userID. Only the user may read it.
func (u *conversationUsecase) ListForUser(ctx context.Context, actorID, userID int64) ([]domain.ConversationDetail, error) {
	if actorID != userID {
		return nil, apperror.Forbidden("You can only view your own conversations")
	}
	return u.convRepo.ListForUser(ctx, userID)
}

func (u *conversationUsecase) ListMessages(ctx context.Context, actorID, conversationID int64) ([]domain.Message, error) {
	if _, err := u.participantConversation(ctx, actorID, conversationID); err != nil {
		return nil, err
	}
	return u.convRepo.ListMessages(ctx, conversationID)
}

func (u *conversationUsecase) SendMessage(ctx context.Context, actorID int64, input *domain.SendMessageInput) (*domain.Message, error) {
	if input.SenderID == 0 {
		input.SenderID = actorID
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}
	if input.SenderID != actorID {
		return nil, apperror.Forbidden("You can only send messages as yourself")
	}

	if _, err := u.participantConversation(ctx, actorID, input.ConversationID); err != nil {
		return nil, err
	}

	ts := u.now().UTC()
	if input.Timestamp != nil && !input.Timestamp.IsZero() {
		ts = input.Timestamp.UTC()
	}

	msg := &domain.Message{
		ConversationID: input.ConversationID,
		SenderID:       actorID,
		Content:        input.Content,
		Timestamp:      ts,
	}
	if err := u.convRepo.AppendMessage(ctx, msg); err != nil {
		return nil, notFoundAs(err, "Conversation not found")
	}
	return msg, nil
}

// CreateDirect opens (or returns) the conversation between the caller and another user.
func (u *conversationUsecase) CreateDirect(ctx context.Context, actorID, otherUserID int64) (*domain.Conversation, bool, error) {
	if actorID == otherUserID {
		return nil, false, apperror.BadRequest("Cannot start a conversation with yourself")
	}
	if _, err := u.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, false, notFoundAs(err, "User not found")
	}
	return u.convRepo.FindOrCreate(ctx, actorID, otherUserID)
}

// participantConversation loads the conversation and checks that actorID is in it.
func (u *conversationUsecase) participantConversation(ctx context.Context, actorID, conversationID int64) (*domain.Conversation, error) {
	conv, err := u.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, notFoundAs(err, "Conversation not found")
	}
	if !conv.HasParticipant(actorID) {
		return nil, apperror.Wrap(apperror.Forbidden("You are not a participant of this conversation"), domain.ErrNotParticipant)
	}
	return conv, nil
}
