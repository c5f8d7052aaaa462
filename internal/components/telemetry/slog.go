package telemetry

import (
	"fmt"
	"log/slog"
	"os"
)

// InitSlog installs the default slog logger, debug reports are only
// printed when verbose is set.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// SlogAPI implements API on top of the default slog logger.
type SlogAPI struct{}

// attrs turns report params into slog attributes, errors go under "err"
// and everything else is keyed by position.
func attrs(id string, params []any) []any {
	out := make([]any, 0, 2*len(params)+2)
	if id != "" {
		out = append(out, "id", id)
	}
	for i, p := range params {
		if err, ok := p.(error); ok {
			out = append(out, "err", err.Error())
			continue
		}
		out = append(out, fmt.Sprintf("p%d", i), p)
	}
	return out
}

func (SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken component", attrs(id, params)...)
}

func (SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("warning", attrs(id, params)...)
}

func (SlogAPI) ReportDebug(message string, params ...any) {
	slog.Debug(message, attrs("", params)...)
}

func (SlogAPI) ReportCount(id string, count int64) {
	slog.Debug("count", "id", id, "n", count)
}
