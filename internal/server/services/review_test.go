package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/stretchr/testify/require"
)

func reviewParams() *RecordReviewParams {
	return &RecordReviewParams{
		AccountID:     "acc-1",
		CardID:        42,
		ReviewType:    models.ReviewTypeRecall,
		Result:        models.ReviewResultGood,
		NewInterval:   3,
		NewEasyFactor: 2.5,
		Today:         datex.New(2024, 1, 5),
	}
}

func TestRecordReview_FirstReviewCreatesRecord(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.getErr = common.ErrNotFound

	svc := NewReviewService(db, rm, false)
	record, err := svc.RecordReview(context.Background(), reviewParams())
	require.NoError(t, err)
	require.Equal(t, 1, record.ReviewCount)
	require.Equal(t, "2024-01-08", record.DueAt.String())
	require.False(t, record.Mature)

	require.Len(t, rm.reviews.appended, 1)
	require.True(t, rm.reviews.appended[0].NewCard)
	require.Equal(t, "2024-01-05", rm.reviews.appended[0].CreatedAt.String())
}

func TestRecordReview_SecondReviewUpdatesInPlace(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.record = &models.AccountCard{ID: 9, ReviewCount: 4, EasyFactor: 2.1}

	params := reviewParams()
	params.NewInterval = 10
	params.NewEasyFactor = 2.7

	svc := NewReviewService(db, rm, false)
	record, err := svc.RecordReview(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, 5, record.ReviewCount)
	require.Equal(t, 2.7, record.EasyFactor)
	require.Equal(t, "2024-01-15", record.DueAt.String())
	require.Equal(t, 1, rm.accountCards.updateScheduleCalls)

	require.Len(t, rm.reviews.appended, 1)
	require.False(t, rm.reviews.appended[0].NewCard)
}

func TestRecordReview_MaturityBoundaryExclusive(t *testing.T) {
	for _, tc := range []struct {
		interval int
		mature   bool
	}{
		{21, false},
		{22, true},
	} {
		db, mock := newSQLMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		rm := newFakeRepoManager()
		rm.cards.card = &models.Card{ID: 42}
		rm.accountCards.getErr = common.ErrNotFound

		params := reviewParams()
		params.NewInterval = tc.interval

		svc := NewReviewService(db, rm, false)
		record, err := svc.RecordReview(context.Background(), params)
		require.NoError(t, err)
		require.Equal(t, tc.mature, record.Mature, "interval %d", tc.interval)
		db.Close()
	}
}

func TestRecordReview_ExtraReviewLeavesScheduleAlone(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.record = &models.AccountCard{ID: 9, ReviewCount: 4}

	params := reviewParams()
	params.ExtraReview = true

	svc := NewReviewService(db, rm, false)
	record, err := svc.RecordReview(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, 4, record.ReviewCount)
	require.Zero(t, rm.accountCards.updateScheduleCalls)

	require.Len(t, rm.reviews.appended, 1)
	require.True(t, rm.reviews.appended[0].ExtraReview)
	require.False(t, rm.reviews.appended[0].NewCard)
}

func TestRecordReview_ExtraReviewOfUnseenCardAppendsHistoryOnly(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.getErr = common.ErrNotFound

	params := reviewParams()
	params.ExtraReview = true

	svc := NewReviewService(db, rm, false)
	record, err := svc.RecordReview(context.Background(), params)
	require.NoError(t, err)
	require.Nil(t, record)
	require.Nil(t, rm.accountCards.created)
	require.Len(t, rm.reviews.appended, 1)
}

func TestRecordReview_LegacyExtraReviewMode(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.record = &models.AccountCard{ID: 9, ReviewCount: 4}

	params := reviewParams()
	params.ExtraReview = true

	svc := NewReviewService(db, rm, true)
	record, err := svc.RecordReview(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, 5, record.ReviewCount)
	require.Equal(t, 1, rm.accountCards.updateScheduleCalls)
}

func TestRecordReview_CardNotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.cards.cardErr = common.ErrNotFound

	svc := NewReviewService(db, rm, false)
	_, err := svc.RecordReview(context.Background(), reviewParams())
	require.ErrorIs(t, err, common.ErrNotFound)
	require.Empty(t, rm.reviews.appended)
}

func TestRecordReview_ValidationRejectsBeforeAnyWrite(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}

	for _, mutate := range []func(*RecordReviewParams){
		func(p *RecordReviewParams) { p.NewInterval = 0 },
		func(p *RecordReviewParams) { p.NewInterval = 1000 },
		func(p *RecordReviewParams) { p.NewEasyFactor = 0 },
		func(p *RecordReviewParams) { p.NewEasyFactor = -1 },
		func(p *RecordReviewParams) { p.Result = "MAYBE" },
	} {
		params := reviewParams()
		mutate(params)

		svc := NewReviewService(db, rm, false)
		_, err := svc.RecordReview(context.Background(), params)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	require.Empty(t, rm.reviews.appended)
}

func TestRecordReview_AppendFailureRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.record = &models.AccountCard{ID: 9}
	rm.reviews.appendErr = errors.New("disk full")

	svc := NewReviewService(db, rm, false)
	_, err := svc.RecordReview(context.Background(), reviewParams())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordReview_CreateRaceFallsBackToUpdate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.cards.card = &models.Card{ID: 42}
	rm.accountCards.getErr = common.ErrNotFound
	rm.accountCards.getErrOnce = true
	rm.accountCards.createErr = common.ErrConflict
	rm.accountCards.record = &models.AccountCard{ID: 9, ReviewCount: 1}

	svc := NewReviewService(db, rm, false)
	record, err := svc.RecordReview(context.Background(), reviewParams())
	require.NoError(t, err)
	require.Equal(t, 2, record.ReviewCount)
	require.Equal(t, 1, rm.accountCards.updateScheduleCalls)

	require.Len(t, rm.reviews.appended, 1)
	require.False(t, rm.reviews.appended[0].NewCard)
}
