package domain

import (
	"context"
	"time"
)

// MatchTarget is the thing a like points at. Exactly one variant exists
// per like, so "both" and "neither" cannot be represented.
type MatchTarget interface {
	isMatchTarget()
}

type OfferTarget struct {
	OfferID int64
}

type FormationTarget struct {
	FormationID int64
}

func (OfferTarget) isMatchTarget()     {}
func (FormationTarget) isMatchTarget() {}

// NewMatchTarget converts the optional wire ids into a target.
func NewMatchTarget(offerID, formationID *int64) (MatchTarget, error) {
	switch {
	case offerID != nil && formationID != nil:
		return nil, ErrInvalidTarget
	case offerID != nil:
		if *offerID <= 0 {
			return nil, ErrInvalidTarget
		}
		return OfferTarget{OfferID: *offerID}, nil
	case formationID != nil:
		if *formationID <= 0 {
			return nil, ErrInvalidTarget
		}
		return FormationTarget{FormationID: *formationID}, nil
	default:
		return nil, ErrInvalidTarget
	}
}

// Match is a recorded like. One of OfferID and FormationID is set.
type Match struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	OfferID     *int64    `json:"offer_id"`
	FormationID *int64    `json:"formation_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewMatch(userID int64, target MatchTarget) *Match {
	m := &Match{UserID: userID}
	switch t := target.(type) {
	case OfferTarget:
		id := t.OfferID
		m.OfferID = &id
	case FormationTarget:
		id := t.FormationID
		m.FormationID = &id
	}
	return m
}

// Target rebuilds the typed target from the stored columns.
func (m *Match) Target() (MatchTarget, error) {
	return NewMatchTarget(m.OfferID, m.FormationID)
}

// MatchResult is returned by RecordLike. ConversationID is nil when no
// counterpart could be resolved or the conversation step failed.
type MatchResult struct {
	Match             *Match `json:"match"`
	IsNewConversation bool   `json:"is_new_conversation"`
	ConversationID    *int64 `json:"conversation_id"`
}

// RecordLikeInput is the wire shape of a like.
type RecordLikeInput struct {
	UserID      *int64 `json:"user_id" validate:"omitempty,gt=0"`
	OfferID     *int64 `json:"offer_id" validate:"omitempty,gt=0"`
	FormationID *int64 `json:"formation_id" validate:"omitempty,gt=0"`
}

type MatchRepository interface {
	Create(ctx context.Context, match *Match) error
	FetchByUserID(ctx context.Context, userID int64, limit, offset int) ([]Match, int64, error)
}

type MatchUsecase interface {
	RecordLike(ctx context.Context, userID int64, target MatchTarget) (*MatchResult, error)
	ListLikes(ctx context.Context, userID int64, page, pageSize int) ([]Match, int64, error)
}
