package models

import "github.com/kotoba-app/kotoba/internal/datex"

// LearningProgress groups an account's cards of one card type and review
// type by learning status. New cards have no scheduling record at all.
type LearningProgress struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Mature   int `json:"mature"`
}

// DueProjectionBucket is the number of cards falling due on one day.
// Overdue cards are collapsed into the current day's bucket.
type DueProjectionBucket struct {
	Day   datex.Day `db:"day" json:"date"`
	Count int       `db:"count" json:"count"`
}
