package history

import (
	"cmwizard/internal/components/chrono"
	"cmwizard/internal/components/telemetry"
	"cmwizard/internal/wizard"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 3, 12, 30, 0, 0, time.UTC)

func testStore(t *testing.T) Store {
	sqldb, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	return NewStore(sqldb, chrono.FixedImpl{Time: testNow}, telemetry.NewTestAPI())
}

func testResult() wizard.Result {
	return wizard.Result{
		TotalPrice:   655,
		MissingCards: []string{"Black-Lotus", "Mox-Pearl"},
		Sellers: []wizard.Seller{
			{ID: "alice", Offers: []wizard.Offer{
				{CardID: "Sol-Ring", CardName: "Sol Ring", Price: 120, ImageURL: "https://img/sol.jpg"},
				{CardID: "Counterspell", CardName: "Counterspell", Price: 35},
			}},
			{ID: "bob", Offers: []wizard.Offer{
				{CardID: "Sol-Ring", CardName: "Sol Ring", Price: 100, ImageURL: "https://img/sol.jpg"},
			}},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	id, err := store.Save(ctx, Run{
		WantsListID:  "42",
		ShippingCost: 200,
		Result:       testResult(),
	})
	require.NoError(t, err)

	run, err := store.Get(ctx, id)
	require.NoError(t, err)

	expected := Run{
		ID:           id,
		WantsListID:  "42",
		StartedAt:    testNow,
		ShippingCost: 200,
		Result:       testResult(),
	}
	diff := cmp.Diff(expected, run)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestSaveEmptyResult(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	startedAt := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	id, err := store.Save(ctx, Run{WantsListID: "7", StartedAt: startedAt})
	require.NoError(t, err)

	run, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, wizard.Result{}, run.Result)
	require.True(t, startedAt.Equal(run.StartedAt))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	first, err := store.Save(ctx, Run{WantsListID: "1", ShippingCost: 200, Result: testResult()})
	require.NoError(t, err)
	second, err := store.Save(ctx, Run{WantsListID: "2", ShippingCost: 150})
	require.NoError(t, err)

	summaries, err := store.List(ctx, 10)
	require.NoError(t, err)

	expected := []RunSummary{
		{ID: second, WantsListID: "2", StartedAt: testNow, ShippingCost: 150},
		{
			ID:           first,
			WantsListID:  "1",
			StartedAt:    testNow,
			TotalPrice:   655,
			ShippingCost: 200,
			SellerCount:  2,
			MissingCount: 2,
		},
	}
	diff := cmp.Diff(expected, summaries)
	if diff != "" {
		t.Fatal(diff)
	}

	summaries, err = store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, second, summaries[0].ID)
}

func TestGetMissing(t *testing.T) {
	_, err := testStore(t).Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	id, err := store.Save(ctx, Run{WantsListID: "1", Result: testResult()})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, ErrRunNotFound)

	summaries, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestDeleteUnknownRun(t *testing.T) {
	err := testStore(t).Delete(context.Background(), 404)
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestDeleteWithoutForeignKeys(t *testing.T) {
	ctx := context.Background()
	sqldb, err := Open(":memory:")
	require.NoError(t, err)
	defer sqldb.Close()
	// remote libsql databases do not cascade
	_, err = sqldb.Exec("PRAGMA foreign_keys=OFF")
	require.NoError(t, err)
	store := NewStore(sqldb, chrono.FixedImpl{Time: testNow}, telemetry.NewTestAPI())

	kept, err := store.Save(ctx, Run{WantsListID: "1", Result: testResult()})
	require.NoError(t, err)
	deleted, err := store.Save(ctx, Run{WantsListID: "2", Result: testResult()})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, deleted))

	count := func(table string, runID int64) int {
		var n int
		err := sqldb.QueryRow("SELECT count(*) FROM "+table+" WHERE run_id = ?", runID).Scan(&n)
		require.NoError(t, err)
		return n
	}
	require.Zero(t, count("wizard_purchase", deleted))
	require.Zero(t, count("wizard_missing", deleted))
	require.Equal(t, 3, count("wizard_purchase", kept))
	require.Equal(t, 2, count("wizard_missing", kept))
}

func TestIsRemote(t *testing.T) {
	require.True(t, isRemote("libsql://history-buyer.turso.io?authToken=x"))
	require.True(t, isRemote("http://127.0.0.1:8080"))
	require.False(t, isRemote("history.db"))
	require.False(t, isRemote(":memory:"))
	require.False(t, isRemote("/home/buyer/.cmwizard/history.db"))
}
