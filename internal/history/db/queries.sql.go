package db

import (
	"context"
)

const createMissing = `-- name: CreateMissing :exec
INSERT INTO wizard_missing (run_id, idx, card_id)
VALUES (?, ?, ?)
`

type CreateMissingParams struct {
	RunID  int64
	Idx    int64
	CardID string
}

func (q *Queries) CreateMissing(ctx context.Context, arg CreateMissingParams) error {
	_, err := q.db.ExecContext(ctx, createMissing, arg.RunID, arg.Idx, arg.CardID)
	return err
}

const createPurchase = `-- name: CreatePurchase :exec
INSERT INTO wizard_purchase (run_id, idx, seller_id, card_id, card_name, image_url, price)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreatePurchaseParams struct {
	RunID    int64
	Idx      int64
	SellerID string
	CardID   string
	CardName string
	ImageUrl string
	Price    int64
}

func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) error {
	_, err := q.db.ExecContext(ctx, createPurchase,
		arg.RunID,
		arg.Idx,
		arg.SellerID,
		arg.CardID,
		arg.CardName,
		arg.ImageUrl,
		arg.Price,
	)
	return err
}

const createRun = `-- name: CreateRun :one
INSERT INTO wizard_run (wants_list_id, started_at, total_price, shipping_cost)
VALUES (?, ?, ?, ?)
RETURNING id
`

type CreateRunParams struct {
	WantsListID  string
	StartedAt    int64
	TotalPrice   int64
	ShippingCost int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRun,
		arg.WantsListID,
		arg.StartedAt,
		arg.TotalPrice,
		arg.ShippingCost,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const deleteRun = `-- name: DeleteRun :execrows
DELETE FROM wizard_run
WHERE id = ?
`

func (q *Queries) DeleteRun(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRun, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteRunMissing = `-- name: DeleteRunMissing :exec
DELETE FROM wizard_missing
WHERE run_id = ?
`

func (q *Queries) DeleteRunMissing(ctx context.Context, runID int64) error {
	_, err := q.db.ExecContext(ctx, deleteRunMissing, runID)
	return err
}

const deleteRunPurchases = `-- name: DeleteRunPurchases :exec
DELETE FROM wizard_purchase
WHERE run_id = ?
`

func (q *Queries) DeleteRunPurchases(ctx context.Context, runID int64) error {
	_, err := q.db.ExecContext(ctx, deleteRunPurchases, runID)
	return err
}

const getRun = `-- name: GetRun :one
SELECT id, wants_list_id, started_at, total_price, shipping_cost FROM wizard_run
WHERE id = ?
`

func (q *Queries) GetRun(ctx context.Context, id int64) (WizardRun, error) {
	row := q.db.QueryRowContext(ctx, getRun, id)
	var i WizardRun
	err := row.Scan(
		&i.ID,
		&i.WantsListID,
		&i.StartedAt,
		&i.TotalPrice,
		&i.ShippingCost,
	)
	return i, err
}

const getRunMissing = `-- name: GetRunMissing :many
SELECT card_id FROM wizard_missing
WHERE run_id = ?
ORDER BY idx
`

func (q *Queries) GetRunMissing(ctx context.Context, runID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getRunMissing, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var card_id string
		if err := rows.Scan(&card_id); err != nil {
			return nil, err
		}
		items = append(items, card_id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRunPurchases = `-- name: GetRunPurchases :many
SELECT run_id, idx, seller_id, card_id, card_name, image_url, price FROM wizard_purchase
WHERE run_id = ?
ORDER BY idx
`

func (q *Queries) GetRunPurchases(ctx context.Context, runID int64) ([]WizardPurchase, error) {
	rows, err := q.db.QueryContext(ctx, getRunPurchases, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WizardPurchase
	for rows.Next() {
		var i WizardPurchase
		if err := rows.Scan(
			&i.RunID,
			&i.Idx,
			&i.SellerID,
			&i.CardID,
			&i.CardName,
			&i.ImageUrl,
			&i.Price,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRuns = `-- name: ListRuns :many
SELECT
    wizard_run.id, wizard_run.wants_list_id, wizard_run.started_at, wizard_run.total_price, wizard_run.shipping_cost,
    (SELECT count(DISTINCT seller_id) FROM wizard_purchase WHERE run_id = wizard_run.id) AS seller_count,
    (SELECT count(*) FROM wizard_missing WHERE run_id = wizard_run.id) AS missing_count
FROM wizard_run
ORDER BY id DESC
LIMIT ?
`

type ListRunsRow struct {
	ID           int64
	WantsListID  string
	StartedAt    int64
	TotalPrice   int64
	ShippingCost int64
	SellerCount  int64
	MissingCount int64
}

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]ListRunsRow, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRunsRow
	for rows.Next() {
		var i ListRunsRow
		if err := rows.Scan(
			&i.ID,
			&i.WantsListID,
			&i.StartedAt,
			&i.TotalPrice,
			&i.ShippingCost,
			&i.SellerCount,
			&i.MissingCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
