package cards

import (
	"context"

	"github.com/kotoba-app/kotoba/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)

	// SelectNewCardIDs returns up to limit catalog cards in the deck that the
	// account has no scheduling record for, in learning order.
	SelectNewCardIDs(ctx context.Context, accountID string, deckID int64, reviewType models.ReviewType, limit int) ([]int64, error)

	// CountUnseen counts active catalog cards of the given type the account
	// has never reviewed under the given review type.
	CountUnseen(ctx context.Context, accountID string, cardType models.CardType, reviewType models.ReviewType) (int, error)
}
