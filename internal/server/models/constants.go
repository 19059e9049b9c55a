package models

// Scheduling policy constants. Values mirror the study policy the content
// team ships with the decks; they are not tunable per deployment.
const (
	// A card matures once its applied interval exceeds this many days.
	// The boundary is exclusive: an interval of exactly 21 stays learning.
	MatureIntervalDays = 21

	DefaultEasyFactor = 2.5

	MinReviewInterval = 1
	MaxReviewInterval = 999

	MinReviewsPerDay = 0
	MaxReviewsPerDay = 999

	MinNewCardsPerDay = 0
	MaxNewCardsPerDay = 100

	DefaultReviewInterval = 999
	DefaultReviewsPerDay  = 999
	DefaultNewCardsPerDay = 15

	MinPushDays = 1
	MaxPushDays = 7

	StoryMinLength = 1
	StoryMaxLength = 160
	HintMinLength  = 1
	HintMaxLength  = 25
)
