// Package accountcards provides the PostgreSQL-backed scheduling state
// store: one row per (account, card, review type) holding the easy factor,
// due date, review count, and maturity flag.
package accountcards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// PostgresRepository implements the scheduling state store over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the scheduling record for the triple or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, accountID string, cardID int64, reviewType models.ReviewType) (*models.AccountCard, error) {
	query := `
		SELECT id, account_id, card_id, review_type, review_count, easy_factor, due_at, mature, story, hint, created_at, updated_at
		FROM account_cards
		WHERE account_id = $1 AND card_id = $2 AND review_type = $3
	`
	var ac models.AccountCard
	err := r.db.QueryRowContext(ctx, query, accountID, cardID, reviewType).Scan(
		&ac.ID, &ac.AccountID, &ac.CardID, &ac.ReviewType, &ac.ReviewCount,
		&ac.EasyFactor, &ac.DueAt, &ac.Mature, &ac.Story, &ac.Hint,
		&ac.CreatedAt, &ac.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select account card: %w", err)
	}
	return &ac, nil
}

// Create inserts a new scheduling record. A second insert for the same
// (account, card, review type) triple returns common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, card *models.AccountCard) (*models.AccountCard, error) {
	query := `
		INSERT INTO account_cards (account_id, card_id, review_type, review_count, easy_factor, due_at, mature, story, hint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		card.AccountID, card.CardID, card.ReviewType, card.ReviewCount,
		card.EasyFactor, card.DueAt, card.Mature, card.Story, card.Hint,
	).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert account card: %w", err)
	}
	return card, nil
}

// UpdateSchedule records one official review on the row.
func (r *PostgresRepository) UpdateSchedule(ctx context.Context, id int64, easyFactor float64, dueAt datex.Day, mature bool) error {
	query := `
		UPDATE account_cards
		SET review_count = review_count + 1, easy_factor = $2, due_at = $3, mature = $4, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, easyFactor, dueAt, mature)
	if err != nil {
		return fmt.Errorf("failed to update account card: %w", err)
	}
	return requireOneRow(res)
}

// UpdateCustomData sets story/hint, keeping current values where nil.
func (r *PostgresRepository) UpdateCustomData(ctx context.Context, id int64, story, hint *string) error {
	query := `
		UPDATE account_cards
		SET story = COALESCE($2, story), hint = COALESCE($3, hint), updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, story, hint)
	if err != nil {
		return fmt.Errorf("failed to update custom data: %w", err)
	}
	return requireOneRow(res)
}

// SelectDueCardIDs returns due cards in the deck, oldest overdue first.
func (r *PostgresRepository) SelectDueCardIDs(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, today datex.Day, limit int) ([]int64, error) {
	query := `
		SELECT cl.card_id FROM card_lists cl
		INNER JOIN account_cards ac ON ac.card_id = cl.card_id AND ac.review_type = cl.review_type
		WHERE cl.deck_id = $1 AND cl.review_type = $2 AND cl.active = TRUE
			AND ac.account_id = $3 AND ac.due_at <= $4
		ORDER BY ac.due_at ASC
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query, deckID, reviewType, accountID, today, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select due cards: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Push shifts due dates in a single statement so the due/future split is
// decided on a consistent snapshot: rows already due collapse onto one
// target date, future rows keep their relative spacing.
func (r *PostgresRepository) Push(ctx context.Context, accountID string, scope PushScope, days int, today datex.Day) (int64, error) {
	query := `
		UPDATE account_cards
		SET due_at = CASE WHEN due_at <= $2::date THEN $2::date + $3 ELSE due_at + $3 END,
			updated_at = now()
		WHERE account_id = $1
	`
	args := []any{accountID, today, days}
	if scope.DeckID != nil {
		query += ` AND card_id IN (
			SELECT card_id FROM card_lists WHERE deck_id = $4 AND review_type = account_cards.review_type
		)`
		args = append(args, *scope.DeckID)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to push cards: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// LearningCounts returns learning and mature record counts.
func (r *PostgresRepository) LearningCounts(ctx context.Context, accountID string, cardType models.CardType, reviewType models.ReviewType) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE ac.mature = FALSE) AS learning,
			COUNT(*) FILTER (WHERE ac.mature = TRUE) AS mature
		FROM account_cards ac
		INNER JOIN cards c ON c.id = ac.card_id
		WHERE ac.account_id = $1 AND c.type = $2 AND ac.review_type = $3
	`
	var learning, mature int
	if err := r.db.QueryRowContext(ctx, query, accountID, cardType, reviewType).Scan(&learning, &mature); err != nil {
		return 0, 0, fmt.Errorf("failed to count learning status: %w", err)
	}
	return learning, mature, nil
}

// DueProjection buckets upcoming due counts per day. GREATEST collapses
// overdue rows into today's bucket.
func (r *PostgresRepository) DueProjection(ctx context.Context, accountID string, today datex.Day, limitDays int) ([]models.DueProjectionBucket, error) {
	query := `
		SELECT GREATEST(due_at, $2::date) AS day, COUNT(*) AS count
		FROM account_cards
		WHERE account_id = $1 AND due_at <= $2::date + $3
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID, today, limitDays)
	if err != nil {
		return nil, fmt.Errorf("failed to project due counts: %w", err)
	}
	defer rows.Close()

	var buckets []models.DueProjectionBucket
	for rows.Next() {
		var b models.DueProjectionBucket
		if err := rows.Scan(&b.Day, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
