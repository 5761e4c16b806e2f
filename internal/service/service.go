// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, sanitizes, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services take repository interfaces, never *sqlite.DB, so tests inject
// in-memory fakes. They return apperror values; the handler layer decides
// which HTTP status each one becomes.
package service

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	DefaultHotQuestionsLimit = 5
	DefaultPopularTagsLimit  = 5
)

// clampList normalises pagination parameters.
func clampList(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
