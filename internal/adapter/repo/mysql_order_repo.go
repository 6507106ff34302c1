package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aq2208/gshop-api/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// UpdateStatusIf moves the order only while it is still in fromStatus.
// false means the id is unknown or another transition won.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, fromStatus, toStatus string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, version = version + 1, updated_at = NOW()
        WHERE id = ? AND status = ?`,
		toStatus, id, fromStatus,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLOrderRepo) Create(ctx context.Context, o *usecase.OrderRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id,user_id,session_id,status,subtotal,tax,total,currency,items_json,idempotency_key,version,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,0,NOW(),NOW())
`, o.ID, o.UserID, o.SessionID, o.Status,
		o.Subtotal.StringFixed(2), o.Tax.StringFixed(2), o.Total.StringFixed(2),
		o.Currency, o.ItemsJSON, nullable(o.IdempotencyKey))
	return err
}

const selectOrder = `
SELECT id,user_id,session_id,status,subtotal,tax,total,currency,items_json,COALESCE(idempotency_key,'')
FROM orders `

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*usecase.OrderRecord, error) {
	return scanOrder(r.db.QueryRowContext(ctx, selectOrder+`WHERE id=?`, id))
}

// GetBySessionAndIdemKey reads through the (session_id, idempotency_key) unique index.
func (r *MySQLOrderRepo) GetBySessionAndIdemKey(ctx context.Context, sessionID, key string) (*usecase.OrderRecord, error) {
	if key == "" {
		return nil, usecase.ErrOrderNotFound
	}
	return scanOrder(r.db.QueryRowContext(ctx, selectOrder+`WHERE session_id=? AND idempotency_key=?`, sessionID, key))
}

func scanOrder(row *sql.Row) (*usecase.OrderRecord, error) {
	var rec usecase.OrderRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.SessionID, &rec.Status,
		&rec.Subtotal, &rec.Tax, &rec.Total, &rec.Currency, &rec.ItemsJSON, &rec.IdempotencyKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
