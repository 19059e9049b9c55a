package models

import (
	"time"

	"github.com/kotoba-app/kotoba/internal/datex"
)

// AccountCard is the per-account scheduling record for one card and review
// type. It is created lazily on the first official review ("new card becomes
// known") and mutated on every subsequent one. Exactly one row may exist per
// (account, card, review type).
type AccountCard struct {
	ID          int64      `db:"id"`
	AccountID   string     `db:"account_id"`
	CardID      int64      `db:"card_id"`
	ReviewType  ReviewType `db:"review_type"`
	ReviewCount int        `db:"review_count"`
	EasyFactor  float64    `db:"easy_factor"`
	DueAt       datex.Day  `db:"due_at"`
	Mature      bool       `db:"mature"`
	Story       *string    `db:"story"`
	Hint        *string    `db:"hint"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
