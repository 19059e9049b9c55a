package reviews

import (
	"context"

	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

type Repository interface {
	// Append writes one immutable ledger row. The event's ID is assigned if
	// empty.
	Append(ctx context.Context, event *models.ReviewEvent) error

	// CountOnDay counts official (non-extra) reviews of the account in the
	// deck for one study day. newCard selects the quota bucket: true counts
	// first-time reviews, false counts repeat reviews.
	CountOnDay(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, newCard bool, day datex.Day) (int, error)

	// DailyCounts returns per-day review totals, newest day first.
	DailyCounts(ctx context.Context, accountID string, limitDays int) ([]models.DailyReviewCount, error)
}
