// Package services contains server-side business logic. This file implements
// QueueService, which assembles the ordered batch of cards an account studies
// next, bounded by the day's remaining quota.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/kotoba-app/kotoba/internal/server/repositories/repomanager"
	"github.com/kotoba-app/kotoba/internal/validatex"
)

// FetchQueueParams is the input of FetchQueue. Today is the client's
// calendar day and is authoritative for due-ness and quota bucketing.
type FetchQueueParams struct {
	AccountID  string            `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	DeckID     int64             `validate:"required" errcode:"ERR_INVALID_DECK"`
	ReviewType models.ReviewType `validate:"required,oneof=RECALL RECOGNISE WRITE" errcode:"ERR_INVALID_REVIEW_TYPE"`
	Mode       models.QueueMode  `validate:"required,oneof=NEW DUE" errcode:"ERR_INVALID_MODE"`
	Today      datex.Day         `validate:"-"`
}

// QueueService selects study queues. Reads only; quota is recomputed from
// the review ledger on every call, so the cap is best-effort under
// concurrent sessions.
type QueueService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewQueueService(db *sql.DB, m repomanager.RepositoryManager) *QueueService {
	return &QueueService{db: db, repomanager: m}
}

// FetchQueue returns card IDs for one study batch. An exhausted quota yields
// an empty, non-error batch: that is the normal end of a study session.
func (s *QueueService) FetchQueue(ctx context.Context, params *FetchQueueParams) ([]int64, error) {
	if err := validatex.Struct(params); err != nil {
		return nil, err
	}
	if params.Today.IsZero() {
		return nil, &validatex.Error{Codes: []string{"ERR_INVALID_DATE"}}
	}

	cardsRepo := s.repomanager.Cards(s.db)
	if _, err := cardsRepo.GetDeck(ctx, params.DeckID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading deck: %w", err)
	}

	settings, err := getOrCreateSettings(ctx, s.db, s.repomanager, params.AccountID, params.DeckID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.remainingQuota(ctx, params, settings)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return []int64{}, nil
	}

	switch params.Mode {
	case models.QueueModeNew:
		return cardsRepo.SelectNewCardIDs(ctx, params.AccountID, params.DeckID, params.ReviewType, remaining)
	case models.QueueModeDue:
		return s.repomanager.AccountCards(s.db).SelectDueCardIDs(ctx, params.AccountID, params.DeckID, params.ReviewType, params.Today, remaining)
	default:
		return nil, &validatex.Error{Codes: []string{"ERR_INVALID_MODE"}}
	}
}

// remainingQuota derives today's remaining allowance from the review ledger.
// It is never cached: counter drift is impossible because there is no counter.
func (s *QueueService) remainingQuota(ctx context.Context, params *FetchQueueParams, settings *models.DeckSettings) (int, error) {
	perDay := settings.ReviewsPerDay
	newCard := false
	if params.Mode == models.QueueModeNew {
		perDay = settings.NewCardsPerDay
		newCard = true
	}

	done, err := s.repomanager.Reviews(s.db).CountOnDay(ctx, params.AccountID, params.DeckID, params.ReviewType, newCard, params.Today)
	if err != nil {
		return 0, fmt.Errorf("error counting today's reviews: %w", err)
	}

	remaining := perDay - done
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
