package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/kotoba-app/kotoba/internal/server/repositories/repomanager"
	"github.com/kotoba-app/kotoba/internal/validatex"
)

// UpdateSettingsParams carries the bounded policy fields of a deck. Out-of-
// range values are rejected, never clamped.
type UpdateSettingsParams struct {
	AccountID      string `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	DeckID         int64  `validate:"required" errcode:"ERR_INVALID_DECK"`
	Favorite       bool
	ReviewInterval int `validate:"min=1,max=999" errcode:"ERR_INVALID_INTERVAL"`
	ReviewsPerDay  int `validate:"min=0,max=999" errcode:"ERR_INVALID_REVIEWS_PER_DAY"`
	NewCardsPerDay int `validate:"min=0,max=100" errcode:"ERR_INVALID_NEW_CARDS_PER_DAY"`
}

// DeckService owns the per-account per-deck quota policy.
type DeckService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDeckService(db *sql.DB, m repomanager.RepositoryManager) *DeckService {
	return &DeckService{db: db, repomanager: m}
}

// GetOrCreateSettings returns the policy row for the pair, materializing it
// with defaults on first access. Calling it any number of times yields the
// same row.
func (s *DeckService) GetOrCreateSettings(ctx context.Context, accountID string, deckID int64) (*models.DeckSettings, error) {
	if _, err := s.repomanager.Cards(s.db).GetDeck(ctx, deckID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading deck: %w", err)
	}
	return getOrCreateSettings(ctx, s.db, s.repomanager, accountID, deckID)
}

// UpdateSettings overwrites the policy fields after validation. The row is
// materialized first so a PATCH against a never-configured deck behaves the
// same as one against a configured deck.
func (s *DeckService) UpdateSettings(ctx context.Context, params *UpdateSettingsParams) (*models.DeckSettings, error) {
	if err := validatex.Struct(params); err != nil {
		return nil, err
	}

	settings, err := s.GetOrCreateSettings(ctx, params.AccountID, params.DeckID)
	if err != nil {
		return nil, err
	}

	settings.Favorite = params.Favorite
	settings.ReviewInterval = params.ReviewInterval
	settings.ReviewsPerDay = params.ReviewsPerDay
	settings.NewCardsPerDay = params.NewCardsPerDay

	if err := s.repomanager.DeckSettings(s.db).Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("error updating deck settings: %w", err)
	}
	return settings, nil
}

// getOrCreateSettings is the shared lazy-materialization path. A concurrent
// first access loses the insert race and re-reads the winner's row.
func getOrCreateSettings(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, accountID string, deckID int64) (*models.DeckSettings, error) {
	repo := m.DeckSettings(db)

	settings, err := repo.Get(ctx, accountID, deckID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error loading deck settings: %w", err)
	}

	settings = models.DefaultDeckSettings(accountID, deckID)
	if err := repo.Create(ctx, settings); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return repo.Get(ctx, accountID, deckID)
		}
		return nil, fmt.Errorf("error creating deck settings: %w", err)
	}
	return settings, nil
}
