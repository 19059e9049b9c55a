// Package cards provides the PostgreSQL-backed read side of the card
// catalog: card/deck lookups and new-card selection in learning order. The
// catalog is owned by content authoring; this engine never writes to it.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

// PostgresRepository implements catalog reads over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the active card or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	query := `
		SELECT id, type, active, created_at, updated_at FROM cards
		WHERE id = $1 AND active = TRUE
	`
	var card models.Card
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.Type, &card.Active, &card.CreatedAt, &card.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select card: %w", err)
	}
	return &card, nil
}

// GetDeck returns the active deck or common.ErrNotFound.
func (r *PostgresRepository) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	query := `
		SELECT id, jlpt_level, category, member_only, active FROM decks
		WHERE id = $1 AND active = TRUE
	`
	var deck models.Deck
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID, &deck.JlptLevel, &deck.Category, &deck.MemberOnly, &deck.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select deck: %w", err)
	}
	return &deck, nil
}

// SelectNewCardIDs selects deck cards with no scheduling record for the
// account, ascending by learning order. The order is the fixed curriculum:
// it does not depend on review history.
func (r *PostgresRepository) SelectNewCardIDs(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, limit int) ([]int64, error) {
	query := `
		SELECT cl.card_id FROM card_lists cl
		INNER JOIN cards c ON c.id = cl.card_id AND c.active = TRUE
		WHERE cl.deck_id = $1 AND cl.review_type = $2 AND cl.active = TRUE AND NOT EXISTS (
			SELECT NULL FROM account_cards ac
			WHERE ac.account_id = $3 AND ac.card_id = cl.card_id AND ac.review_type = cl.review_type
		)
		ORDER BY cl.learning_order ASC
		LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, deckID, reviewType, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select new cards: %w", err)
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

// CountUnseen counts active cards of the given type without a scheduling
// record for the account and review type.
func (r *PostgresRepository) CountUnseen(ctx context.Context, accountID string, cardType models.CardType, reviewType models.ReviewType) (int, error) {
	query := `
		SELECT COUNT(*) FROM cards c
		INNER JOIN card_lists cl ON cl.card_id = c.id AND cl.review_type = $3 AND cl.active = TRUE
		WHERE c.type = $2 AND c.active = TRUE AND NOT EXISTS (
			SELECT NULL FROM account_cards ac
			WHERE ac.account_id = $1 AND ac.card_id = c.id AND ac.review_type = $3
		)
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, accountID, cardType, reviewType).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unseen cards: %w", err)
	}
	return n, nil
}
