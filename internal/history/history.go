// Package history keeps the results of finished wizard runs in sqlite.
package history

import (
	"cmwizard/internal/components/assert"
	"cmwizard/internal/components/chrono"
	"cmwizard/internal/components/telemetry"
	"cmwizard/internal/history/db"
	"cmwizard/internal/wizard"
	"cmwizard/pkg/migrations"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	report_db_query  = "db.query"
	report_store_get = "store.get"
)

var ErrRunNotFound = errors.New("run not found")

type Run struct {
	ID           int64
	WantsListID  string
	StartedAt    time.Time
	ShippingCost int
	Result       wizard.Result
}

type RunSummary struct {
	ID           int64
	WantsListID  string
	StartedAt    time.Time
	TotalPrice   int
	ShippingCost int
	SellerCount  int
	MissingCount int
}

type Store struct {
	db     *db.Queries
	makeTx db.MakeTx
	time   chrono.API
	tel    telemetry.API
}

func NewStore(sqldb *sql.DB, time chrono.API, tel telemetry.API) Store {
	assert.NotNil(sqldb)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Store{
		db:     db.New(sqldb),
		makeTx: db.NewMakeTx(sqldb),
		time:   time,
		tel:    telemetry.NewScopedAPI("history", tel),
	}
}

func isRemote(path string) bool {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}

// Open opens the history database and creates its tables if needed. `path`
// is either a local sqlite file or the url of a libsql server.
func Open(path string) (*sql.DB, error) {
	if !isRemote(path) {
		return migrations.OpenAndMigrateDB(db.Schema, path)
	}

	sqldb, err := sql.Open("libsql", path)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	_, err = sqldb.Exec(db.Schema)
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("migrate libsql: %w", err)
	}
	return sqldb, nil
}

// Save stores a run and returns its id, a zero StartedAt is set to the
// current time.
func (s Store) Save(ctx context.Context, run Run) (int64, error) {
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = s.time.Now()
	}

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return 0, err
	}
	defer discard()

	runParams := db.CreateRunParams{
		WantsListID:  run.WantsListID,
		StartedAt:    startedAt.Unix(),
		TotalPrice:   int64(run.Result.TotalPrice),
		ShippingCost: int64(run.ShippingCost),
	}
	id, err := tx.CreateRun(ctx, runParams)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "CreateRun", runParams)
		return 0, err
	}

	idx := int64(0)
	for _, seller := range run.Result.Sellers {
		for _, offer := range seller.Offers {
			param := db.CreatePurchaseParams{
				RunID:    id,
				Idx:      idx,
				SellerID: seller.ID,
				CardID:   offer.CardID,
				CardName: offer.CardName,
				ImageUrl: offer.ImageURL,
				Price:    int64(offer.Price),
			}
			err := tx.CreatePurchase(ctx, param)
			if err != nil {
				s.tel.ReportBroken(report_db_query, err, "CreatePurchase", param)
				return 0, err
			}
			idx++
		}
	}

	for i, cardID := range run.Result.MissingCards {
		param := db.CreateMissingParams{
			RunID:  id,
			Idx:    int64(i),
			CardID: cardID,
		}
		err := tx.CreateMissing(ctx, param)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "CreateMissing", param)
			return 0, err
		}
	}

	err = commit()
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("commit: %w", err))
		return 0, err
	}
	return id, nil
}

// List returns the most recent runs first.
func (s Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.ListRuns(ctx, int64(limit))
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "ListRuns", limit)
		return nil, err
	}

	summaries := make([]RunSummary, len(rows))
	for i, row := range rows {
		summaries[i] = RunSummary{
			ID:           row.ID,
			WantsListID:  row.WantsListID,
			StartedAt:    time.Unix(row.StartedAt, 0),
			TotalPrice:   int(row.TotalPrice),
			ShippingCost: int(row.ShippingCost),
			SellerCount:  int(row.SellerCount),
			MissingCount: int(row.MissingCount),
		}
	}
	return summaries, nil
}

func (s Store) Get(ctx context.Context, id int64) (Run, error) {
	dbRun, err := s.db.GetRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRun", id)
		return Run{}, err
	}

	purchases, err := s.db.GetRunPurchases(ctx, id)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRunPurchases", id)
		return Run{}, err
	}
	missing, err := s.db.GetRunMissing(ctx, id)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRunMissing", id)
		return Run{}, err
	}

	run := Run{
		ID:           dbRun.ID,
		WantsListID:  dbRun.WantsListID,
		StartedAt:    time.Unix(dbRun.StartedAt, 0),
		ShippingCost: int(dbRun.ShippingCost),
		Result: wizard.Result{
			TotalPrice:   int(dbRun.TotalPrice),
			MissingCards: missing,
		},
	}

	// purchases of a seller are stored next to each other
	sellerIdx := map[string]int{}
	for _, p := range purchases {
		i, ok := sellerIdx[p.SellerID]
		if !ok {
			i = len(run.Result.Sellers)
			sellerIdx[p.SellerID] = i
			run.Result.Sellers = append(run.Result.Sellers, wizard.Seller{ID: p.SellerID})
		} else if i != len(run.Result.Sellers)-1 {
			s.tel.ReportWarning(report_store_get, "purchases of a seller are not contiguous", id, p.SellerID)
		}
		run.Result.Sellers[i].Offers = append(run.Result.Sellers[i].Offers, wizard.Offer{
			CardID:   p.CardID,
			CardName: p.CardName,
			Price:    int(p.Price),
			ImageURL: p.ImageUrl,
		})
	}

	return run, nil
}

// Delete removes a run with its purchases and missing cards. Child rows are
// deleted explicitly since remote libsql connections do not enforce foreign
// keys.
func (s Store) Delete(ctx context.Context, id int64) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return err
	}
	defer discard()

	err = tx.DeleteRunPurchases(ctx, id)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "DeleteRunPurchases", id)
		return err
	}
	err = tx.DeleteRunMissing(ctx, id)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "DeleteRunMissing", id)
		return err
	}
	deleted, err := tx.DeleteRun(ctx, id)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "DeleteRun", id)
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}

	err = commit()
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("commit: %w", err))
		return err
	}
	return nil
}
