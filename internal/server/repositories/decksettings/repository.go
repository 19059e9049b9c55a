package decksettings

import (
	"context"

	"github.com/kotoba-app/kotoba/internal/server/models"
)

type Repository interface {
	// Get returns the settings row for the (account, deck) pair, or
	// common.ErrNotFound when the pair was never configured.
	Get(ctx context.Context, accountID string, deckID int64) (*models.DeckSettings, error)

	// Create inserts a settings row and fills its ID and timestamps.
	// A concurrent insert of the same pair yields common.ErrConflict.
	Create(ctx context.Context, settings *models.DeckSettings) error

	// Update overwrites the mutable policy fields of an existing row.
	Update(ctx context.Context, settings *models.DeckSettings) error
}
