package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

func (m *MySQLAdapter) SaveCanteen(ctx context.Context, c domain.Canteen) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO canteens (id, name, owner_id, location, image_url, is_open, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), location = VALUES(location), image_url = VALUES(image_url),
			is_open = VALUES(is_open), updated_at = VALUES(updated_at)`,
		c.ID, c.Name, c.OwnerID, c.Location, c.ImageURL, c.Open, c.CreatedAt, c.UpdatedAt,
	)
	return domain.NewTransportError("mysql: save canteen", err)
}

func (m *MySQLAdapter) GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error) {
	var c domain.Canteen
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, location, image_url, is_open, created_at, updated_at
		FROM canteens WHERE id = ?`, canteenID,
	).Scan(&c.ID, &c.Name, &c.OwnerID, &c.Location, &c.ImageURL, &c.Open, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("canteen %s: %w", canteenID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewTransportError("mysql: query canteen", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, owner_id, location, image_url, is_open, created_at, updated_at
		FROM canteens ORDER BY name`)
	if err != nil {
		return nil, domain.NewTransportError("mysql: list canteens", err)
	}
	defer rows.Close()

	var out []domain.Canteen
	for rows.Next() {
		var c domain.Canteen
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.Location, &c.ImageURL, &c.Open, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, domain.NewTransportError("mysql: scan canteen", err)
		}
		out = append(out, c)
	}
	return out, domain.NewTransportError("mysql: list canteens", rows.Err())
}

func (m *MySQLAdapter) SaveMenuItem(ctx context.Context, item domain.MenuItem) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, canteen_id, name, description, price, category, image_url, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), description = VALUES(description), price = VALUES(price),
			category = VALUES(category), image_url = VALUES(image_url), available = VALUES(available),
			updated_at = VALUES(updated_at)`,
		item.ID, item.CanteenID, item.Name, item.Description, item.Price, item.Category,
		item.ImageURL, item.Available, item.CreatedAt, item.UpdatedAt,
	)
	return domain.NewTransportError("mysql: save menu item", err)
}

func (m *MySQLAdapter) GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, canteen_id, name, description, price, category, image_url, available, created_at, updated_at
		FROM menu_items WHERE canteen_id = ? AND id = ?`, canteenID, itemID)

	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu item %s: %w", itemID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewTransportError("mysql: query menu item", err)
	}
	return item, nil
}

func (m *MySQLAdapter) ListMenuItems(ctx context.Context, canteenID string) ([]domain.MenuItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, canteen_id, name, description, price, category, image_url, available, created_at, updated_at
		FROM menu_items WHERE canteen_id = ? ORDER BY category, name`, canteenID)
	if err != nil {
		return nil, domain.NewTransportError("mysql: list menu items", err)
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, domain.NewTransportError("mysql: scan menu item", err)
		}
		out = append(out, *item)
	}
	return out, domain.NewTransportError("mysql: list menu items", rows.Err())
}

func (m *MySQLAdapter) DeleteMenuItem(ctx context.Context, canteenID, itemID string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM menu_items WHERE canteen_id = ? AND id = ?`, canteenID, itemID)
	return domain.NewTransportError("mysql: delete menu item", err)
}

func (m *MySQLAdapter) UpsertUser(ctx context.Context, identity domain.Identity) error {
	now := m.now()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO users (uid, display_name, email, photo_url, role, amount_spent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON DUPLICATE KEY UPDATE
			display_name = VALUES(display_name), email = VALUES(email), photo_url = VALUES(photo_url),
			role = VALUES(role), updated_at = VALUES(updated_at)`,
		identity.UID, identity.DisplayName, identity.Email, identity.PhotoURL, identity.Role, now, now,
	)
	return domain.NewTransportError("mysql: upsert user", err)
}

func (m *MySQLAdapter) GetUser(ctx context.Context, uid string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := m.db.QueryRowContext(ctx, `
		SELECT uid, display_name, email, photo_url, role, amount_spent, created_at, updated_at
		FROM users WHERE uid = ?`, uid,
	).Scan(&p.UID, &p.DisplayName, &p.Email, &p.PhotoURL, &p.Role, &p.AmountSpent, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewTransportError("mysql: query user", err)
	}
	return &p, nil
}

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.CanteenID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
