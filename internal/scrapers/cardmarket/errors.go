package cardmarket

import "errors"

var (
	// ErrAuthExpired is returned when an authenticated page answers 401/403,
	// the user has to log in again.
	ErrAuthExpired = errors.New("session expired, please log in again")
	// ErrRateLimited is returned when 429 persists past the retry budget.
	ErrRateLimited = errors.New("rate limited by cardmarket")
	// ErrUnexpectedPage covers non-200 statuses and pages that could not be
	// parsed, the body is always dumped to a diagnostics file first.
	ErrUnexpectedPage = errors.New("unexpected page")
	ErrLoginFailed    = errors.New("login failed")
	ErrNoSession      = errors.New("not logged in")
)
