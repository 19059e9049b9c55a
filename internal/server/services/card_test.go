package services

import (
	"context"
	"strings"
	"testing"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func customParams() *EditCustomDataParams {
	return &EditCustomDataParams{
		AccountID:  "acc-1",
		CardID:     42,
		ReviewType: models.ReviewTypeRecall,
		Story:      strptr("the crow remembers"),
		Today:      datex.New(2024, 1, 5),
	}
}

func TestEditCustomData_ExistingRecord(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.record = &models.AccountCard{ID: 9, ReviewCount: 3}

	svc := NewCardService(db, rm)
	record, err := svc.EditCustomData(context.Background(), customParams())
	require.NoError(t, err)
	require.Equal(t, "the crow remembers", *record.Story)
	require.Equal(t, 3, record.ReviewCount)
	require.Equal(t, "the crow remembers", *rm.accountCards.customStory)
	require.Nil(t, rm.accountCards.customHint)
}

func TestEditCustomData_UnseenCardMaterializesRecord(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.getErr = common.ErrNotFound

	svc := NewCardService(db, rm)
	record, err := svc.EditCustomData(context.Background(), customParams())
	require.NoError(t, err)
	require.NotNil(t, rm.accountCards.created)
	// materialized without counting as a review
	require.Zero(t, record.ReviewCount)
	require.Equal(t, models.DefaultEasyFactor, record.EasyFactor)
	require.Equal(t, "2024-01-05", record.DueAt.String())
	require.Equal(t, "the crow remembers", *record.Story)
}

func TestEditCustomData_CardNotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.cards.cardErr = common.ErrNotFound

	svc := NewCardService(db, rm)
	_, err := svc.EditCustomData(context.Background(), customParams())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEditCustomData_LengthBounds(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}

	svc := NewCardService(db, rm)
	for _, mutate := range []func(*EditCustomDataParams){
		func(p *EditCustomDataParams) { p.Story = strptr("") },
		func(p *EditCustomDataParams) { p.Story = strptr(strings.Repeat("a", 161)) },
		func(p *EditCustomDataParams) { p.Hint = strptr(strings.Repeat("b", 26)) },
	} {
		params := customParams()
		mutate(params)
		_, err := svc.EditCustomData(context.Background(), params)
		require.ErrorIs(t, err, common.ErrValidation)
	}
}

func TestEditCustomData_CreateRaceUpdatesWinnerRow(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.getErr = common.ErrNotFound
	rm.accountCards.getErrOnce = true
	rm.accountCards.createErr = common.ErrConflict
	rm.accountCards.record = &models.AccountCard{ID: 9}

	svc := NewCardService(db, rm)
	record, err := svc.EditCustomData(context.Background(), customParams())
	require.NoError(t, err)
	require.Equal(t, int64(9), record.ID)
	require.Equal(t, "the crow remembers", *rm.accountCards.customStory)
}
