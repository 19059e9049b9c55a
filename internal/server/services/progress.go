package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/kotoba-app/kotoba/internal/server/repositories/repomanager"
	"github.com/kotoba-app/kotoba/internal/validatex"
)

// LearningStatisticsParams selects one card type and review type slice of an
// account's progress.
type LearningStatisticsParams struct {
	AccountID  string            `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	CardType   models.CardType   `validate:"required,oneof=KANJI KANA VOCABULARY" errcode:"ERR_INVALID_CARD_TYPE"`
	ReviewType models.ReviewType `validate:"required,oneof=RECALL RECOGNISE WRITE" errcode:"ERR_INVALID_REVIEW_TYPE"`
}

// DueProjectionParams bounds the due forecast.
type DueProjectionParams struct {
	AccountID string    `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	LimitDays int       `validate:"min=1,max=365" errcode:"ERR_INVALID_LIMIT_DAYS"`
	Today     datex.Day `validate:"-"`
}

// ReviewHistoryParams bounds the per-day history listing.
type ReviewHistoryParams struct {
	AccountID string `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	LimitDays int    `validate:"min=1,max=365" errcode:"ERR_INVALID_LIMIT_DAYS"`
}

// ProgressService derives reporting figures from scheduling state and the
// review ledger. Reads only.
type ProgressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProgressService(db *sql.DB, m repomanager.RepositoryManager) *ProgressService {
	return &ProgressService{db: db, repomanager: m}
}

// LearningStatistics counts the account's cards of one type by learning
// status. New cards are catalog entries with no scheduling record at all.
func (s *ProgressService) LearningStatistics(ctx context.Context, params *LearningStatisticsParams) (*models.LearningProgress, error) {
	if err := validatex.Struct(params); err != nil {
		return nil, err
	}

	unseen, err := s.repomanager.Cards(s.db).CountUnseen(ctx, params.AccountID, params.CardType, params.ReviewType)
	if err != nil {
		return nil, fmt.Errorf("error counting unseen cards: %w", err)
	}

	learning, mature, err := s.repomanager.AccountCards(s.db).LearningCounts(ctx, params.AccountID, params.CardType, params.ReviewType)
	if err != nil {
		return nil, fmt.Errorf("error counting scheduling records: %w", err)
	}

	return &models.LearningProgress{New: unseen, Learning: learning, Mature: mature}, nil
}

// DueProjection forecasts per-day due counts from today forward, with the
// overdue backlog collapsed into today's bucket.
func (s *ProgressService) DueProjection(ctx context.Context, params *DueProjectionParams) ([]models.DueProjectionBucket, error) {
	if err := validatex.Struct(params); err != nil {
		return nil, err
	}
	if params.Today.IsZero() {
		return nil, &validatex.Error{Codes: []string{"ERR_INVALID_DATE"}}
	}

	buckets, err := s.repomanager.AccountCards(s.db).DueProjection(ctx, params.AccountID, params.Today, params.LimitDays)
	if err != nil {
		return nil, fmt.Errorf("error projecting due counts: %w", err)
	}
	return buckets, nil
}

// ReviewHistory lists the account's per-day review totals, newest first.
func (s *ProgressService) ReviewHistory(ctx context.Context, params *ReviewHistoryParams) ([]models.DailyReviewCount, error) {
	if err := validatex.Struct(params); err != nil {
		return nil, err
	}

	counts, err := s.repomanager.Reviews(s.db).DailyCounts(ctx, params.AccountID, params.LimitDays)
	if err != nil {
		return nil, fmt.Errorf("error loading review history: %w", err)
	}
	return counts, nil
}
