package usecase

import (
	"context"
	"time"

	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/logger"
)

type matchUsecase struct {
	userRepo      domain.UserRepository
	offerRepo     domain.OfferRepository
	formationRepo domain.FormationRepository
	matchRepo     domain.MatchRepository
	convRepo      domain.ConversationRepository
}

func NewMatchUsecase(
	userRepo domain.UserRepository,
	offerRepo domain.OfferRepository,
	formationRepo domain.FormationRepository,
	matchRepo domain.MatchRepository,
	convRepo domain.ConversationRepository,
) domain.MatchUsecase {
	return &matchUsecase{
		userRepo:      userRepo,
		offerRepo:     offerRepo,
		formationRepo: formationRepo,
		matchRepo:     matchRepo,
		convRepo:      convRepo,
	}
}

// RecordLike stores the like, then links the liker and the target's owner
// in a single conversation. The like is kept even if linking fails.
// The offer or formation must exist: a missing one is NotFound and nothing is stored.
func (u *matchUsecase) RecordLike(ctx context.Context, userID int64, target domain.MatchTarget) (*domain.MatchResult, error) {
	if target == nil {
		return nil, apperror.Wrap(apperror.BadRequest(domain.ErrInvalidTarget.Error()), domain.ErrInvalidTarget)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	if !user.IsActive {
		return nil, apperror.Wrap(apperror.Forbidden("Account is inactive"), domain.ErrInactiveUser)
	}

	// Resolve before inserting so a like never points at a missing target
	counterpart, err := u.resolveCounterpart(ctx, target)
	if err != nil {
		return nil, err
	}

	match := domain.NewMatch(userID, target)
	match.CreatedAt = time.Now().UTC()
	if err := u.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}

	result := &domain.MatchResult{Match: match}
	if counterpart == nil {
		logger.Log.InfoContext(ctx, "like recorded without counterpart", "match_id", match.ID, "user_id", userID)
		return result, nil
	}
	if *counterpart == userID {
		return result, nil
	}

	conv, created, err := u.convRepo.FindOrCreate(ctx, userID, *counterpart)
	if err != nil {
		logger.Log.ErrorContext(ctx, "conversation link failed after like",
			"match_id", match.ID,
			"user_id", userID,
			"counterpart_id", *counterpart,
			"error", err,
		)
		return result, nil
	}

	result.IsNewConversation = created
	result.ConversationID = &conv.ID
	return result, nil
}

// resolveCounterpart walks offer -> company -> owner or formation -> university -> owner.
// A nil id with a nil error means the organization has no owning user.
func (u *matchUsecase) resolveCounterpart(ctx context.Context, target domain.MatchTarget) (*int64, error) {
	switch t := target.(type) {
	case domain.OfferTarget:
		offer, err := u.offerRepo.GetByIDWithCompany(ctx, t.OfferID)
		if err != nil {
			return nil, notFoundAs(err, "Offer not found")
		}
		return offer.OwnerUserID, nil
	case domain.FormationTarget:
		formation, err := u.formationRepo.GetByIDWithUniversity(ctx, t.FormationID)
		if err != nil {
			return nil, notFoundAs(err, "Formation not found")
		}
		return formation.OwnerUserID, nil
	default:
		return nil, apperror.Wrap(apperror.BadRequest(domain.ErrInvalidTarget.Error()), domain.ErrInvalidTarget)
	}
}

func (u *matchUsecase) ListLikes(ctx context.Context, userID int64, page, pageSize int) ([]domain.Match, int64, error) {
	limit, offset := pageToLimitOffset(page, pageSize)
	return u.matchRepo.FetchByUserID(ctx, userID, limit, offset)
}
