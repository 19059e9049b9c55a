package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/repositories/accountcards"
	"github.com/kotoba-app/kotoba/internal/server/repositories/repomanager"
	"github.com/kotoba-app/kotoba/internal/validatex"
)

// PushCardsParams is the input of PushCards. A nil DeckID pushes every
// scheduling record the account has.
type PushCardsParams struct {
	AccountID string    `validate:"required" errcode:"ERR_INVALID_ACCOUNT"`
	DeckID    *int64    `validate:"omitempty,gt=0" errcode:"ERR_INVALID_DECK"`
	Days      int       `validate:"min=1,max=7" errcode:"ERR_INVALID_PUSH_DAYS"`
	Today     datex.Day `validate:"-"`
}

// PushService defers review backlogs for members. The shift is relative, so
// pushing twice pushes twice.
type PushService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPushService(db *sql.DB, m repomanager.RepositoryManager) *PushService {
	return &PushService{db: db, repomanager: m}
}

// PushCards shifts the account's due dates forward. Cards due today or
// overdue collapse onto today+days; cards not yet due move out by days.
// Requires an active membership. Returns the number of records shifted.
func (s *PushService) PushCards(ctx context.Context, params *PushCardsParams) (int64, error) {
	if err := validatex.Struct(params); err != nil {
		return 0, err
	}
	if params.Today.IsZero() {
		return 0, &validatex.Error{Codes: []string{"ERR_INVALID_DATE"}}
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, params.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, common.ErrUnauthorized
		}
		return 0, fmt.Errorf("error loading account: %w", err)
	}
	if !account.Role.IsMember() {
		return 0, common.ErrForbidden
	}

	if params.DeckID != nil {
		if _, err := s.repomanager.Cards(s.db).GetDeck(ctx, *params.DeckID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return 0, common.ErrNotFound
			}
			return 0, fmt.Errorf("error loading deck: %w", err)
		}
	}

	scope := accountcards.PushScope{DeckID: params.DeckID}
	affected, err := s.repomanager.AccountCards(s.db).Push(ctx, params.AccountID, scope, params.Days, params.Today)
	if err != nil {
		return 0, fmt.Errorf("error pushing cards: %w", err)
	}
	return affected, nil
}
