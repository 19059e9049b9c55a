package accountcards

import (
	"context"

	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

// PushScope limits a bulk push to one deck, or to all of the account's
// records when DeckID is nil.
type PushScope struct {
	DeckID *int64
}

type Repository interface {
	Get(ctx context.Context, accountID string, cardID int64, reviewType models.ReviewType) (*models.AccountCard, error)
	Create(ctx context.Context, card *models.AccountCard) (*models.AccountCard, error)

	// UpdateSchedule applies a review outcome: bumps the review count and
	// replaces easy factor, due date, and maturity.
	UpdateSchedule(ctx context.Context, id int64, easyFactor float64, dueAt datex.Day, mature bool) error

	// UpdateCustomData sets the per-account story/hint text. Nil fields keep
	// their current value.
	UpdateCustomData(ctx context.Context, id int64, story, hint *string) error

	// SelectDueCardIDs returns up to limit cards due on or before today,
	// oldest due date first.
	SelectDueCardIDs(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, today datex.Day, limit int) ([]int64, error)

	// Push shifts due dates forward: due/overdue rows collapse onto
	// today+days, future rows move by days. Returns affected rows.
	Push(ctx context.Context, accountID string, scope PushScope, days int, today datex.Day) (int64, error)

	// LearningCounts returns (learning, mature) record counts for cards of
	// the given type under the given review type.
	LearningCounts(ctx context.Context, accountID string, cardType models.CardType, reviewType models.ReviewType) (int, int, error)

	// DueProjection buckets due dates per day from today through
	// today+limitDays, collapsing overdue rows into today's bucket.
	DueProjection(ctx context.Context, accountID string, today datex.Day, limitDays int) ([]models.DueProjectionBucket, error)
}
