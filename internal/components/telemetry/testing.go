package telemetry

import (
	"sync"
)

// Report is a single call recorded by TestAPI.
type Report struct {
	Kind   string
	ID     string
	Params []any
	Count  int64
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// TestAPI records every report so tests can assert on them.
// It also forwards to SlogAPI so the output shows up with `go test -v`.
type TestAPI struct {
	lock    sync.Mutex
	reports []Report
}

func NewTestAPI() *TestAPI {
	return &TestAPI{}
}

func (t *TestAPI) record(r Report) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.reports = append(t.reports, r)
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.record(Report{Kind: KindBroken, ID: id, Params: params})
	SlogAPI{}.ReportBroken(id, params...)
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.record(Report{Kind: KindWarning, ID: id, Params: params})
	SlogAPI{}.ReportWarning(id, params...)
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.record(Report{Kind: KindDebug, ID: msg, Params: params})
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.record(Report{Kind: KindCount, ID: id, Count: count})
}

// Reports returns the recorded reports of the given kind.
func (t *TestAPI) Reports(kind string) []Report {
	t.lock.Lock()
	defer t.lock.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
