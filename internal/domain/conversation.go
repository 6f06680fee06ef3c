package domain

import (
	"context"
	"time"
)

// Pair is an unordered pair of users stored in canonical order.
type Pair struct {
	Low  int64
	High int64
}

func NewPair(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

func (p Pair) Contains(userID int64) bool {
	return p.Low == userID || p.High == userID
}

// Conversation is a two-party thread. ParticipantA is whoever opened it.
type Conversation struct {
	ID           int64     `json:"id"`
	ParticipantA int64     `json:"participant_a"`
	ParticipantB int64     `json:"participant_b"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Conversation) Pair() Pair {
	return NewPair(c.ParticipantA, c.ParticipantB)
}

func (c *Conversation) HasParticipant(userID int64) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID int64) (int64, bool) {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB, true
	case c.ParticipantB:
		return c.ParticipantA, true
	}
	return 0, false
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// ConversationDetail is one row of a user's inbox.
type ConversationDetail struct {
	ID               int64       `json:"id"`
	OtherParticipant *PublicUser `json:"other_participant"`
	LastMessage      *Message    `json:"last_message"`
	CreatedAt        time.Time   `json:"created_at"`
}

type SendMessageInput struct {
	ConversationID int64      `json:"conversation_id" validate:"required,gt=0"`
	SenderID       int64      `json:"sender_id" validate:"required,gt=0"`
	Content        string     `json:"content" validate:"required,min=1,max=5000"`
	Timestamp      *time.Time `json:"timestamp"`
}

type CreateConversationInput struct {
	ParticipantID int64 `json:"participant_id" validate:"required,gt=0"`
}

type ConversationRepository interface {
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	FindByPair(ctx context.Context, a, b int64) (*Conversation, error)
	Create(ctx context.Context, a, b int64) (*Conversation, error)
	// FindOrCreate returns the pair's conversation, creating it with a as
	// ParticipantA when absent. created reports whether this call inserted it.
	FindOrCreate(ctx context.Context, a, b int64) (conv *Conversation, created bool, err error)
	ListForUser(ctx context.Context, userID int64) ([]ConversationDetail, error)
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
	AppendMessage(ctx context.Context, msg *Message) error
}

type ConversationUsecase interface {
	ListForUser(ctx context.Context, actorID, userID int64) ([]ConversationDetail, error)
	ListMessages(ctx context.Context, actorID, conversationID int64) ([]Message, error)
	SendMessage(ctx context.Context, actorID int64, input *SendMessageInput) (*Message, error)
	CreateDirect(ctx context.Context, actorID, otherUserID int64) (*Conversation, bool, error)
}
