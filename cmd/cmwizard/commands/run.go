package commands

import (
	"cmwizard/internal/components/chrono"
	"cmwizard/internal/history"
	"cmwizard/internal/scrapers/cardmarket"
	"cmwizard/internal/wizard"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var runShipping *int
var runDb *string

func init() {
	runShipping = runCmd.Flags().Int("shipping", 0, "The estimated shipping cost per seller in euro cents, overrides the config.")
	runDb = runCmd.Flags().String("db", "", "The run history database to save the result to, overrides the config.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <wants list id> [--shipping <cents>] [--db <path/to/history.db>]",
	Short: "Finds the cheapest combination of sellers for a want-list.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := getApp(ctx)
		wantsListID := args[0]

		shippingCost := a.cfg.ShippingCost
		if *runShipping > 0 {
			shippingCost = *runShipping
		}
		dbPath := a.cfg.Database
		if *runDb != "" {
			dbPath = *runDb
		}

		service, err := openSession(ctx, a)
		if err != nil {
			return err
		}
		defer service.Logout()

		clock := chrono.StandardImpl{}
		startedAt := clock.Now()

		orchestrator := wizard.NewOrchestrator(service, a.tel, wizard.Options{
			ShippingCost: shippingCost,
		})
		bars := newStageProgress(cmd.ErrOrStderr())
		bars.start()
		result, err := orchestrator.Run(ctx, wantsListID, bars.report)
		bars.stop(err)
		if errors.Is(err, wizard.ErrCancelled) {
			return fmt.Errorf("stopped before the wizard was done")
		}
		if err != nil {
			return err
		}

		_, game, err := a.cfg.site()
		if err != nil {
			return err
		}
		renderResult(cmd.OutOrStdout(), result, shippingCost, resultLinks{
			baseURL:     a.cfg.BaseURL,
			language:    service.Language(),
			game:        game,
			wantsListID: wantsListID,
		})

		if dbPath == "" {
			return nil
		}
		sqldb, err := history.Open(dbPath)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		store := history.NewStore(sqldb, clock, a.tel)
		id, err := store.Save(ctx, history.Run{
			WantsListID:  wantsListID,
			StartedAt:    startedAt,
			ShippingCost: shippingCost,
			Result:       result,
		})
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.Info("saved run", "id", id, "db", dbPath)
		return nil
	},
}

var _ wizard.Marketplace = (*cardmarket.Service)(nil)
