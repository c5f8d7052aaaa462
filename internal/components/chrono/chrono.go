package chrono

import "time"

// API is the clock of the application, it exists so that stored
// timestamps can be pinned in tests.
type API interface {
	Now() time.Time
}

type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

// FixedImpl always returns the same instant.
type FixedImpl struct {
	Time time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Time
}
