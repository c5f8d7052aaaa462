package commands

import (
	"cmwizard/internal/scrapers/cardmarket"
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

func openSession(ctx context.Context, a *app) (*cardmarket.Service, error) {
	opts, err := a.cfg.loginOptions(ctx, runtime.GOOS)
	if err != nil {
		return nil, err
	}
	slog.Debug("logging in", "username", opts.Credentials.Username, "cookies", len(opts.Client.Cookies))

	service := cardmarket.NewService(a.tel)
	err = service.Login(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return service, nil
}
