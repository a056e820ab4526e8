package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

const archivedOrderColumns = `archive_id, order_id, user_id, canteen_id, canteen_name, cart,
	payment_method, payment_order_id, scheduled_time, order_status, version,
	created_at, updated_at, archived_at`

// MySQLAdapter is the durable store: order archive, spend ledger, catalog
// and user profiles.
type MySQLAdapter struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (m *MySQLAdapter) ArchiveOrder(ctx context.Context, order domain.Order) (domain.ArchivedOrder, error) {
	cart, err := json.Marshal(order.Cart)
	if err != nil {
		return domain.ArchivedOrder{}, fmt.Errorf("encode cart: %w", err)
	}

	rec := domain.ArchivedOrder{
		ArchiveID:  uuid.New().String(),
		Order:      order,
		ArchivedAt: m.now(),
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO completed_orders (`+archivedOrderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ArchiveID, order.ID, order.UserID, order.CanteenID, order.CanteenName, cart,
		order.PaymentMethod, order.PaymentOrderID, nullTime(order.ScheduledTime), order.Status, order.Version,
		order.CreatedAt, order.UpdatedAt, rec.ArchivedAt,
	)
	if err != nil {
		return domain.ArchivedOrder{}, domain.NewTransportError("mysql: insert archived order", err)
	}
	return rec, nil
}

func (m *MySQLAdapter) DeleteArchivedOrder(ctx context.Context, archiveID string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM completed_orders WHERE archive_id = ?`, archiveID)
	return domain.NewTransportError("mysql: delete archived order", err)
}

func (m *MySQLAdapter) GetArchivedOrder(ctx context.Context, archiveID string) (*domain.ArchivedOrder, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+archivedOrderColumns+` FROM completed_orders WHERE archive_id = ?`, archiveID)
	rec, err := scanArchivedOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("archived order %s: %w", archiveID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewTransportError("mysql: query archived order", err)
	}
	return rec, nil
}

func (m *MySQLAdapter) FindByOrderID(ctx context.Context, orderID string) (*domain.ArchivedOrder, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+archivedOrderColumns+` FROM completed_orders WHERE order_id = ?`, orderID)
	rec, err := scanArchivedOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("archived order for %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewTransportError("mysql: query archived order", err)
	}
	return rec, nil
}

func (m *MySQLAdapter) ListArchivedOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.ArchivedOrder, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.CanteenID != "" {
		where = append(where, "canteen_id = ?")
		args = append(args, filter.CanteenID)
	}
	if len(where) == 0 {
		return nil, fmt.Errorf("%w: archive listing needs a user or canteen", domain.ErrValidation)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT `+archivedOrderColumns+` FROM completed_orders
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY archived_at DESC`, args...)
	if err != nil {
		return nil, domain.NewTransportError("mysql: list archived orders", err)
	}
	defer rows.Close()

	var out []domain.ArchivedOrder
	for rows.Next() {
		rec, err := scanArchivedOrder(rows)
		if err != nil {
			return nil, domain.NewTransportError("mysql: scan archived order", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewTransportError("mysql: list archived orders", err)
	}
	return out, nil
}

// RecordSpend appends a ledger entry and moves the user's running total in
// one transaction.
func (m *MySQLAdapter) RecordSpend(ctx context.Context, userID, orderID string, amount decimal.Decimal) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewTransportError("mysql: begin tx", err)
	}
	defer tx.Rollback()

	now := m.now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO spend_ledger (user_id, order_id, amount, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, orderID, amount, now,
	)
	if err != nil {
		return domain.NewTransportError("mysql: insert ledger entry", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (uid, role, amount_spent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE amount_spent = amount_spent + VALUES(amount_spent), updated_at = VALUES(updated_at)`,
		userID, domain.RoleCustomer, amount, now, now,
	)
	if err != nil {
		return domain.NewTransportError("mysql: update amount spent", err)
	}

	return domain.NewTransportError("mysql: commit", tx.Commit())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArchivedOrder(row rowScanner) (*domain.ArchivedOrder, error) {
	var (
		rec       domain.ArchivedOrder
		cart      []byte
		scheduled sql.NullTime
	)
	err := row.Scan(
		&rec.ArchiveID, &rec.ID, &rec.UserID, &rec.CanteenID, &rec.CanteenName, &cart,
		&rec.PaymentMethod, &rec.PaymentOrderID, &scheduled, &rec.Status, &rec.Version,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(cart, &rec.Cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if scheduled.Valid {
		t := scheduled.Time
		rec.ScheduledTime = &t
	}
	return &rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
