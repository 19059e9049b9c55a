package models

import "time"

// DeckSettings is the per-account per-deck quota policy. Rows are
// materialized lazily with defaults the first time any scheduling operation
// touches the (account, deck) pair.
type DeckSettings struct {
	ID             int64     `db:"id"`
	AccountID      string    `db:"account_id"`
	DeckID         int64     `db:"deck_id"`
	Favorite       bool      `db:"favorite"`
	ReviewInterval int       `db:"review_interval"`
	ReviewsPerDay  int       `db:"reviews_per_day"`
	NewCardsPerDay int       `db:"new_cards_per_day"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// DefaultDeckSettings returns the documented defaults for a never-configured
// (account, deck) pair.
func DefaultDeckSettings(accountID string, deckID int64) *DeckSettings {
	return &DeckSettings{
		AccountID:      accountID,
		DeckID:         deckID,
		Favorite:       false,
		ReviewInterval: DefaultReviewInterval,
		ReviewsPerDay:  DefaultReviewsPerDay,
		NewCardsPerDay: DefaultNewCardsPerDay,
	}
}
