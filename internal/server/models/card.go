// Package models defines the persistent domain entities of the scheduling
// engine and the policy constants that bound them.
package models

import "time"

// CardType discriminates the content payload a card carries. The scheduling
// state itself is type-agnostic; the type only matters for catalog selection
// and progress grouping.
type CardType string

const (
	CardTypeKanji      CardType = "KANJI"
	CardTypeKana       CardType = "KANA"
	CardTypeVocabulary CardType = "VOCABULARY"
)

// ReviewType is the study direction a card is scheduled under. The same
// catalog card can be scheduled independently per review type.
type ReviewType string

const (
	ReviewTypeRecall    ReviewType = "RECALL"
	ReviewTypeRecognise ReviewType = "RECOGNISE"
	ReviewTypeWrite     ReviewType = "WRITE"
)

// QueueMode selects which study queue is fetched.
type QueueMode string

const (
	QueueModeNew QueueMode = "NEW"
	QueueModeDue QueueMode = "DUE"
)

// Card is an immutable catalog entity. Content payloads (kanji, readings,
// answer options) live with the content-authoring system; the engine only
// needs identity, type and active flag.
type Card struct {
	ID        int64     `db:"id"`
	Type      CardType  `db:"type"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CardListEntry is a card's membership in a deck for one review type, with
// the position that fixes the new-card introduction order.
type CardListEntry struct {
	DeckID        int64      `db:"deck_id"`
	CardID        int64      `db:"card_id"`
	ReviewType    ReviewType `db:"review_type"`
	LearningOrder int        `db:"learning_order"`
	Active        bool       `db:"active"`
}

// Deck groups cards into a study unit.
type Deck struct {
	ID         int64  `db:"id"`
	JlptLevel  int    `db:"jlpt_level"`
	Category   string `db:"category"`
	MemberOnly bool   `db:"member_only"`
	Active     bool   `db:"active"`
}
