// Package reviews provides the PostgreSQL-backed append-only review ledger.
// The ledger doubles as the source of truth for daily quota accounting:
// counts are derived per request instead of maintained as counters, so
// concurrent writers can never leave a counter drifted.
package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

// PostgresRepository implements the review ledger over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts one review event. Rows are never updated or deleted.
func (r *PostgresRepository) Append(ctx context.Context, event *models.ReviewEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	query := `
		INSERT INTO account_reviews (id, account_id, card_id, review_type, result, extra_review, new_card, timing, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.AccountID, event.CardID, event.ReviewType, event.Result,
		event.ExtraReview, event.NewCard, event.Timing, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review event: %w", err)
	}
	return nil
}

// CountOnDay counts the account's official reviews in the deck for one day
// and quota bucket. Deck membership goes through card_lists since events
// store only the card.
func (r *PostgresRepository) CountOnDay(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, newCard bool, day datex.Day) (int, error) {
	query := `
		SELECT COUNT(*) FROM account_reviews ar
		INNER JOIN card_lists cl ON cl.card_id = ar.card_id AND cl.review_type = ar.review_type
		WHERE ar.account_id = $1 AND cl.deck_id = $2 AND ar.review_type = $3
			AND ar.extra_review = FALSE AND ar.new_card = $4 AND ar.created_at = $5
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, accountID, deckID, reviewType, newCard, day).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n, nil
}

// DailyCounts groups the account's past reviews per day, newest first.
func (r *PostgresRepository) DailyCounts(ctx context.Context, accountID string, limitDays int) ([]models.DailyReviewCount, error) {
	query := `
		SELECT created_at AS day, COUNT(*) AS count FROM account_reviews
		WHERE account_id = $1
		GROUP BY created_at
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, accountID, limitDays)
	if err != nil {
		return nil, fmt.Errorf("failed to select review history: %w", err)
	}
	defer rows.Close()

	var counts []models.DailyReviewCount
	for rows.Next() {
		var c models.DailyReviewCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
