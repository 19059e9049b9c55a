package common

// Stable machine-readable error codes returned to clients. The calling layer
// localizes them; the engine never emits human-readable messages on the wire.
const (
	CodeCardNotFound    = "ERR_CARD_NOT_FOUND"
	CodeDeckNotFound    = "ERR_DECK_NOT_FOUND"
	CodeAccountNotFound = "ERR_ACCOUNT_NOT_FOUND"
	CodeNotFound        = "ERR_NOT_FOUND"

	CodeUnauthorized = "ERR_UNAUTHORIZED"
	CodeMemberOnly   = "ERR_MEMBER_FEATURE"

	CodeConflict = "ERR_ALREADY_EXISTS"
	CodeInternal = "ERR_INTERNAL"

	// Returned with an empty card batch; a terminal session state, not a failure.
	CodeNoCardsAvailable = "NO_CARDS_AVAILABLE"
)
