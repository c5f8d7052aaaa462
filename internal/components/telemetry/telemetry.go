// Package telemetry is the reporting surface every component of cmwizard
// logs through. Components never call slog directly, they receive an API so
// that tests can assert on what was reported.
package telemetry

import (
	"fmt"
)

// API reports events by id. An id names the component that reported
// (`<struct>.<method>`, lowercase, dashes between words), never a line of
// its implementation. Params carry the details.
type API interface {
	// ReportBroken is for failures someone has to look at, a scraper that
	// no longer understands a page for example.
	ReportBroken(id string, params ...any)
	// ReportWarning is for unusual but recoverable situations.
	ReportWarning(id string, params ...any)
	// ReportDebug is only shown in verbose mode.
	ReportDebug(msg string, params ...any)
	// ReportCount records a point in time value of a counter, values are
	// samples and must not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, usually the package name.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
