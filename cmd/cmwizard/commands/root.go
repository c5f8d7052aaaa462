package commands

import (
	"cmwizard/internal/components/configutil"
	"cmwizard/internal/components/serviceutil"
	"cmwizard/internal/components/telemetry"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var configPath *string
var verbose *bool

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file, <name>.local.<ext> overrides it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug logs.")
}

type appKey struct{}

// app is what every command gets from the root command.
type app struct {
	cfg Config
	tel telemetry.API
}

func getApp(ctx context.Context) *app {
	return ctx.Value(appKey{}).(*app)
}

var otelProviders telemetry.Providers

var rootCmd = &cobra.Command{
	Use:           "cmwizard",
	Short:         "cmwizard finds the cheapest way to buy a cardmarket want-list.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)

		providers, err := telemetry.SetupFromEnv(cmd.Context(), "cmwizard")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		otelProviders = providers
		if providers.MeterProvider != nil {
			telemetry.InstrumentPerfStats(cmd.Context(), providers.MeterProvider, 30*time.Second, telemetry.SlogAPI{})
		}

		cfg, err := configutil.ReadConfig[Config](*configPath)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
		cfg.setDefaults()

		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{
			cfg: cfg,
			tel: telemetry.SlogAPI{},
		}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelProviders.Shutdown(ctx)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("cmwizard failed", err)
	}
}
