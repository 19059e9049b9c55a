package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/models"
	accountcardsrepo "github.com/kotoba-app/kotoba/internal/server/repositories/accountcards"
	accountsrepo "github.com/kotoba-app/kotoba/internal/server/repositories/accounts"
	cardsrepo "github.com/kotoba-app/kotoba/internal/server/repositories/cards"
	decksettingsrepo "github.com/kotoba-app/kotoba/internal/server/repositories/decksettings"
	reviewsrepo "github.com/kotoba-app/kotoba/internal/server/repositories/reviews"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeCardsRepo struct {
	card    *models.Card
	cardErr error

	deck    *models.Deck
	deckErr error

	newIDs    []int64
	newErr    error
	newLimit  int // records the limit passed to SelectNewCardIDs
	unseen    int
	unseenErr error
}

func (f *fakeCardsRepo) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	if f.cardErr != nil {
		return nil, f.cardErr
	}
	return f.card, nil
}
func (f *fakeCardsRepo) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	if f.deckErr != nil {
		return nil, f.deckErr
	}
	return f.deck, nil
}
func (f *fakeCardsRepo) SelectNewCardIDs(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, limit int) ([]int64, error) {
	f.newLimit = limit
	if f.newErr != nil {
		return nil, f.newErr
	}
	if limit < len(f.newIDs) {
		return f.newIDs[:limit], nil
	}
	return f.newIDs, nil
}
func (f *fakeCardsRepo) CountUnseen(ctx context.Context, accountID string, cardType models.CardType, reviewType models.ReviewType) (int, error) {
	return f.unseen, f.unseenErr
}

type fakeAccountCardsRepo struct {
	record *models.AccountCard
	getErr error
	// getErrOnce makes getErr fire only on the first Get, modelling a row
	// that appears between two reads.
	getErrOnce bool
	getCalls   int

	createErr error
	created   *models.AccountCard

	updateScheduleErr   error
	updateScheduleCalls int
	updatedEasyFactor   float64
	updatedDueAt        datex.Day
	updatedMature       bool

	customErr   error
	customStory *string
	customHint  *string

	dueIDs   []int64
	dueErr   error
	dueLimit int

	pushAffected int64
	pushErr      error
	pushDays     int
	pushScope    accountcardsrepo.PushScope

	learning  int
	mature    int
	countsErr error

	projection    []models.DueProjectionBucket
	projectionErr error
}

func (f *fakeAccountCardsRepo) Get(ctx context.Context, accountID string, cardID int64, reviewType models.ReviewType) (*models.AccountCard, error) {
	f.getCalls++
	if f.getErr != nil {
		if !f.getErrOnce || f.getCalls == 1 {
			return nil, f.getErr
		}
	}
	return f.record, nil
}
func (f *fakeAccountCardsRepo) Create(ctx context.Context, card *models.AccountCard) (*models.AccountCard, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	card.ID = 101
	f.created = card
	return card, nil
}
func (f *fakeAccountCardsRepo) UpdateSchedule(ctx context.Context, id int64, easyFactor float64, dueAt datex.Day, mature bool) error {
	if f.updateScheduleErr != nil {
		return f.updateScheduleErr
	}
	f.updateScheduleCalls++
	f.updatedEasyFactor = easyFactor
	f.updatedDueAt = dueAt
	f.updatedMature = mature
	return nil
}
func (f *fakeAccountCardsRepo) UpdateCustomData(ctx context.Context, id int64, story, hint *string) error {
	if f.customErr != nil {
		return f.customErr
	}
	f.customStory = story
	f.customHint = hint
	return nil
}
func (f *fakeAccountCardsRepo) SelectDueCardIDs(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, today datex.Day, limit int) ([]int64, error) {
	f.dueLimit = limit
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	return f.dueIDs, nil
}
func (f *fakeAccountCardsRepo) Push(ctx context.Context, accountID string, scope accountcardsrepo.PushScope, days int, today datex.Day) (int64, error) {
	f.pushScope = scope
	f.pushDays = days
	if f.pushErr != nil {
		return 0, f.pushErr
	}
	return f.pushAffected, nil
}
func (f *fakeAccountCardsRepo) LearningCounts(ctx context.Context, accountID string, cardType models.CardType, reviewType models.ReviewType) (int, int, error) {
	return f.learning, f.mature, f.countsErr
}
func (f *fakeAccountCardsRepo) DueProjection(ctx context.Context, accountID string, today datex.Day, limitDays int) ([]models.DueProjectionBucket, error) {
	if f.projectionErr != nil {
		return nil, f.projectionErr
	}
	return f.projection, nil
}

type fakeReviewsRepo struct {
	appendErr error
	appended  []*models.ReviewEvent

	count    int
	countErr error

	daily    []models.DailyReviewCount
	dailyErr error
}

func (f *fakeReviewsRepo) Append(ctx context.Context, event *models.ReviewEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, event)
	return nil
}
func (f *fakeReviewsRepo) CountOnDay(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, newCard bool, day datex.Day) (int, error) {
	return f.count, f.countErr
}
func (f *fakeReviewsRepo) DailyCounts(ctx context.Context, accountID string, limitDays int) ([]models.DailyReviewCount, error) {
	if f.dailyErr != nil {
		return nil, f.dailyErr
	}
	return f.daily, nil
}

type fakeDeckSettingsRepo struct {
	settings *models.DeckSettings
	getErr   error
	// getErrOnce makes getErr fire only on the first Get, modelling a row
	// inserted by a concurrent winner between two reads.
	getErrOnce bool
	getCalls   int

	createErr   error
	createCalls int

	updateErr error
	updated   *models.DeckSettings
}

func (f *fakeDeckSettingsRepo) Get(ctx context.Context, accountID string, deckID int64) (*models.DeckSettings, error) {
	f.getCalls++
	if f.getErr != nil {
		if !f.getErrOnce || f.getCalls == 1 {
			return nil, f.getErr
		}
	}
	return f.settings, nil
}
func (f *fakeDeckSettingsRepo) Create(ctx context.Context, settings *models.DeckSettings) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	settings.ID = 55
	f.settings = settings
	f.getErr = nil
	return nil
}
func (f *fakeDeckSettingsRepo) Update(ctx context.Context, settings *models.DeckSettings) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = settings
	return nil
}

type fakeAccountsRepo struct {
	account *models.Account
	getErr  error
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.account, nil
}

type fakeRepoManager struct {
	accounts     *fakeAccountsRepo
	cards        *fakeCardsRepo
	accountCards *fakeAccountCardsRepo
	reviews      *fakeReviewsRepo
	deckSettings *fakeDeckSettingsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.accounts }
func (m *fakeRepoManager) Cards(db dbx.DBTX) cardsrepo.Repository       { return m.cards }
func (m *fakeRepoManager) AccountCards(db dbx.DBTX) accountcardsrepo.Repository {
	return m.accountCards
}
func (m *fakeRepoManager) Reviews(db dbx.DBTX) reviewsrepo.Repository { return m.reviews }
func (m *fakeRepoManager) DeckSettings(db dbx.DBTX) decksettingsrepo.Repository {
	return m.deckSettings
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts:     &fakeAccountsRepo{},
		cards:        &fakeCardsRepo{},
		accountCards: &fakeAccountCardsRepo{},
		reviews:      &fakeReviewsRepo{},
		deckSettings: &fakeDeckSettingsRepo{},
	}
}
