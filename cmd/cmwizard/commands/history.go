package commands

import (
	"cmwizard/internal/components/chrono"
	"cmwizard/internal/history"
	"cmwizard/internal/scrapers/cardmarket"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyDb *string
var historyLimit *int

func init() {
	historyDb = historyCmd.PersistentFlags().String("db", "", "The run history database, overrides the config.")
	historyLimit = historyCmd.Flags().Int("limit", 20, "The number of runs to list.")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(a *app) (history.Store, *sql.DB, error) {
	path := a.cfg.Database
	if *historyDb != "" {
		path = *historyDb
	}
	if path == "" {
		return history.Store{}, nil, fmt.Errorf("no history database, pass --db or set database in the config")
	}
	sqldb, err := history.Open(path)
	if err != nil {
		return history.Store{}, nil, err
	}
	return history.NewStore(sqldb, chrono.StandardImpl{}, a.tel), sqldb, nil
}

func parseRunID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id '%s'", arg)
	}
	return id, nil
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <path/to/history.db>] [--limit <n>]",
	Short: "Lists the saved wizard runs, most recent first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, sqldb, err := openHistory(getApp(cmd.Context()))
		if err != nil {
			return err
		}
		defer sqldb.Close()

		runs, err := store.List(cmd.Context(), *historyLimit)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Run", "Started", "Wants list", "Total", "Sellers", "Missing", "Shipping"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.ID,
				run.StartedAt.Format(time.DateTime),
				run.WantsListID,
				cardmarket.FormatPrice(run.TotalPrice),
				run.SellerCount,
				run.MissingCount,
				cardmarket.FormatPrice(run.ShippingCost),
			})
		}
		t.Render()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run id>",
	Short: "Prints the result of a saved run.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		a := getApp(cmd.Context())
		store, sqldb, err := openHistory(a)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		run, err := store.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		lang, game, err := a.cfg.site()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run %d of wants list %s, %s\n", run.ID, run.WantsListID, run.StartedAt.Format(time.DateTime))
		renderResult(cmd.OutOrStdout(), run.Result, run.ShippingCost, resultLinks{
			baseURL:     a.cfg.BaseURL,
			language:    lang,
			game:        game,
			wantsListID: run.WantsListID,
		})
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run id>",
	Short: "Deletes a saved run.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		store, sqldb, err := openHistory(getApp(cmd.Context()))
		if err != nil {
			return err
		}
		defer sqldb.Close()
		return store.Delete(cmd.Context(), id)
	},
}
