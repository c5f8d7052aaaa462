// Package serviceutil holds process level helpers shared by the commands.
package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext is cancelled on the first SIGINT or SIGTERM. A second
// signal falls through to the default handler and kills the process.
func SignalContext() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx
}

// Fatal logs err and exits with status 1.
func Fatal(message string, err error) {
	slog.Error(message, "err", err)
	os.Exit(1)
}
