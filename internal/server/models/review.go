package models

import "github.com/kotoba-app/kotoba/internal/datex"

// ReviewResult is the grading outcome reported by the client.
type ReviewResult string

const (
	ReviewResultAgain ReviewResult = "AGAIN"
	ReviewResultGood  ReviewResult = "GOOD"
)

// ReviewEvent is one row of the append-only review ledger. CreatedAt is the
// client-supplied study day, which is also the quota bucket key. NewCard
// marks the review that lazily created the scheduling record; daily new-card
// quota counts exactly those rows. ExtraReview rows are history-only and
// never count against quota.
type ReviewEvent struct {
	ID          string       `db:"id"`
	AccountID   string       `db:"account_id"`
	CardID      int64        `db:"card_id"`
	ReviewType  ReviewType   `db:"review_type"`
	Result      ReviewResult `db:"result"`
	ExtraReview bool         `db:"extra_review"`
	NewCard     bool         `db:"new_card"`
	Timing      *float64     `db:"timing"`
	CreatedAt   datex.Day    `db:"created_at"`
}

// DailyReviewCount is one bucket of per-day review history.
type DailyReviewCount struct {
	Day   datex.Day `db:"day"`
	Count int       `db:"count"`
}
