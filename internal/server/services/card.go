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

// EditCustomDataParams sets per-account story and hint text on a card. Nil
// fields are left unchanged.
type EditCustomDataParams struct {
	AccountID  string            `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	CardID     int64             `validate:"required" errcode:"ERR_INVALID_CARD"`
	ReviewType models.ReviewType `validate:"required,oneof=RECALL RECOGNISE WRITE" errcode:"ERR_INVALID_REVIEW_TYPE"`
	Story      *string           `validate:"omitempty,min=1,max=160" errcode:"ERR_INVALID_STORY"`
	Hint       *string           `validate:"omitempty,min=1,max=25" errcode:"ERR_INVALID_HINT"`
	Today      datex.Day         `validate:"-"`
}

// CardService handles per-account card personalization. Story and hint are
// orthogonal to scheduling, but they live on the scheduling record, so
// editing an unseen card materializes the record without counting a review.
type CardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCardService(db *sql.DB, m repomanager.RepositoryManager) *CardService {
	return &CardService{db: db, repomanager: m}
}

// EditCustomData stores the account's story/hint for a card. A missing
// scheduling record is created due today with a zero review count.
func (s *CardService) EditCustomData(ctx context.Context, params *EditCustomDataParams) (*models.AccountCard, error) {
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

	repo := s.repomanager.AccountCards(s.db)

	record, err := repo.Get(ctx, params.AccountID, params.CardID, params.ReviewType)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("error loading scheduling record: %w", err)
		}
		created, createErr := repo.Create(ctx, &models.AccountCard{
			AccountID:  params.AccountID,
			CardID:     params.CardID,
			ReviewType: params.ReviewType,
			EasyFactor: models.DefaultEasyFactor,
			DueAt:      params.Today,
			Story:      params.Story,
			Hint:       params.Hint,
		})
		if createErr == nil {
			return created, nil
		}
		if !errors.Is(createErr, common.ErrConflict) {
			return nil, fmt.Errorf("error creating scheduling record: %w", createErr)
		}
		// Lost a create race; fall through to the update path.
		record, err = repo.Get(ctx, params.AccountID, params.CardID, params.ReviewType)
		if err != nil {
			return nil, fmt.Errorf("error reloading scheduling record: %w", err)
		}
	}

	if err := repo.UpdateCustomData(ctx, record.ID, params.Story, params.Hint); err != nil {
		return nil, fmt.Errorf("error updating custom data: %w", err)
	}
	if params.Story != nil {
		record.Story = params.Story
	}
	if params.Hint != nil {
		record.Hint = params.Hint
	}
	return record, nil
}
