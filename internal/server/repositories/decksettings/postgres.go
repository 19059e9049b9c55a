package decksettings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, accountID string, deckID int64) (*models.DeckSettings, error) {
	query := `
		SELECT id, account_id, deck_id, favorite, review_interval, reviews_per_day, new_cards_per_day, created_at, updated_at
		FROM account_deck_settings
		WHERE account_id = $1 AND deck_id = $2
	`
	var s models.DeckSettings
	err := r.db.QueryRowContext(ctx, query, accountID, deckID).Scan(
		&s.ID, &s.AccountID, &s.DeckID, &s.Favorite,
		&s.ReviewInterval, &s.ReviewsPerDay, &s.NewCardsPerDay,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select deck settings: %w", err)
	}
	return &s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, settings *models.DeckSettings) error {
	query := `
		INSERT INTO account_deck_settings (account_id, deck_id, favorite, review_interval, reviews_per_day, new_cards_per_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		settings.AccountID, settings.DeckID, settings.Favorite,
		settings.ReviewInterval, settings.ReviewsPerDay, settings.NewCardsPerDay,
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrConflict
		}
		return fmt.Errorf("failed to insert deck settings: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, settings *models.DeckSettings) error {
	query := `
		UPDATE account_deck_settings
		SET favorite = $1, review_interval = $2, reviews_per_day = $3, new_cards_per_day = $4, updated_at = NOW()
		WHERE account_id = $5 AND deck_id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		settings.Favorite, settings.ReviewInterval, settings.ReviewsPerDay, settings.NewCardsPerDay,
		settings.AccountID, settings.DeckID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck settings: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
