package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/kotoba-app/kotoba/internal/server/repositories/repomanager"
	"github.com/kotoba-app/kotoba/internal/validatex"
)

// RecordReviewParams is the input of RecordReview. NewInterval and
// NewEasyFactor come from the caller's grading algorithm; the engine
// validates their bounds but never computes them.
type RecordReviewParams struct {
	AccountID     string              `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	CardID        int64               `validate:"required" errcode:"ERR_INVALID_CARD"`
	ReviewType    models.ReviewType   `validate:"required,oneof=RECALL RECOGNISE WRITE" errcode:"ERR_INVALID_REVIEW_TYPE"`
	Result        models.ReviewResult `validate:"required,oneof=AGAIN GOOD" errcode:"ERR_INVALID_RESULT"`
	NewInterval   int                 `validate:"min=1,max=999" errcode:"ERR_INVALID_INTERVAL"`
	NewEasyFactor float64             `validate:"gt=0" errcode:"ERR_INVALID_EASY_FACTOR"`
	ExtraReview   bool
	Timing        *float64            `validate:"omitempty,gte=0" errcode:"ERR_INVALID_TIMING"`
	Today         datex.Day           `validate:"-"`
}

// ReviewService applies review outcomes. The scheduling-record write and the
// ledger append happen in one transaction: quota accounting reads the ledger,
// so the two must become visible together or not at all.
type ReviewService struct {
	db                         *sql.DB
	repomanager                repomanager.RepositoryManager
	extraReviewAffectsSchedule bool
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, extraReviewAffectsSchedule bool) *ReviewService {
	return &ReviewService{
		db:                         db,
		repomanager:                m,
		extraReviewAffectsSchedule: extraReviewAffectsSchedule,
	}
}

// RecordReview persists one review outcome and returns the scheduling record
// after the write. The first official review of a card creates its record
// ("new card becomes known"); extra reviews append history only, unless the
// legacy extra_review_affects_schedule mode is on. The snapshot is nil for
// extra reviews of cards with no record.
func (s *ReviewService) RecordReview(ctx context.Context, params *RecordReviewParams) (*models.AccountCard, error) {
	if err := validatex.Struct(params); err != nil {
		return nil, err
	}
	if params.Today.IsZero() {
		return nil, &validatex.Error{Codes: []string{"ERR_INVALID_DATE"}}
	}

	if _, err := s.repomanager.Cards(s.db).GetByID(ctx, params.CardID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading card: %w", err)
	}

	official := !params.ExtraReview || s.extraReviewAffectsSchedule
	dueAt := params.Today.AddDays(params.NewInterval)
	mature := params.NewInterval > models.MatureIntervalDays

	var snapshot *models.AccountCard
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cardsTx := s.repomanager.AccountCards(tx)

		record, err := cardsTx.Get(ctx, params.AccountID, params.CardID, params.ReviewType)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("error loading scheduling record: %w", err)
		}

		newCard := false
		switch {
		case record == nil && official:
			record, err = cardsTx.Create(ctx, &models.AccountCard{
				AccountID:   params.AccountID,
				CardID:      params.CardID,
				ReviewType:  params.ReviewType,
				ReviewCount: 1,
				EasyFactor:  params.NewEasyFactor,
				DueAt:       dueAt,
				Mature:      mature,
			})
			if errors.Is(err, common.ErrConflict) {
				// Lost a create race; the triple is unique, so treat it
				// as the update it would have been.
				record, err = cardsTx.Get(ctx, params.AccountID, params.CardID, params.ReviewType)
				if err != nil {
					return fmt.Errorf("error reloading scheduling record: %w", err)
				}
				if err := cardsTx.UpdateSchedule(ctx, record.ID, params.NewEasyFactor, dueAt, mature); err != nil {
					return fmt.Errorf("error updating scheduling record: %w", err)
				}
				record.ReviewCount++
				record.EasyFactor = params.NewEasyFactor
				record.DueAt = dueAt
				record.Mature = mature
			} else if err != nil {
				return fmt.Errorf("error creating scheduling record: %w", err)
			} else {
				newCard = true
			}
		case record != nil && official:
			if err := cardsTx.UpdateSchedule(ctx, record.ID, params.NewEasyFactor, dueAt, mature); err != nil {
				return fmt.Errorf("error updating scheduling record: %w", err)
			}
			record.ReviewCount++
			record.EasyFactor = params.NewEasyFactor
			record.DueAt = dueAt
			record.Mature = mature
		}

		event := &models.ReviewEvent{
			AccountID:   params.AccountID,
			CardID:      params.CardID,
			ReviewType:  params.ReviewType,
			Result:      params.Result,
			ExtraReview: params.ExtraReview,
			NewCard:     newCard,
			Timing:      params.Timing,
			CreatedAt:   params.Today,
		}
		if err := s.repomanager.Reviews(tx).Append(ctx, event); err != nil {
			return fmt.Errorf("error appending review event: %w", err)
		}

		snapshot = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
