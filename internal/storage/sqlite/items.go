package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olomek/trolley/internal/models"
	"github.com/olomek/trolley/internal/storage"
)

const itemColumns = "id, list_id, name, quantity, unit, status, priority, added_by_id, purchased_by_id, purchased_at, created_at, updated_at"

// CreateItem persists a new item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.ListID, item.Name, item.Quantity, nullString(item.Unit),
		string(item.Status), string(item.Priority), item.AddedByID,
		nullString(item.PurchasedByID), nullInt64(item.PurchasedAt),
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ItemsByList returns all items on a list, newest first.
func (s *SQLiteStore) ItemsByList(ctx context.Context, listID string) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE list_id = ? ORDER BY created_at DESC, id",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// UpdateItem overwrites a stored item.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, quantity = ?, unit = ?, status = ?, priority = ?,
		 purchased_by_id = ?, purchased_at = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.Quantity, nullString(item.Unit), string(item.Status), string(item.Priority),
		nullString(item.PurchasedByID), nullInt64(item.PurchasedAt), item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("item %s: %w", item.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteItem removes an item by ID.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("item %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*models.Item, error) {
	item := &models.Item{}
	var (
		status, priority  string
		unit, purchasedBy sql.NullString
		purchasedAt       sql.NullInt64
	)
	err := row.Scan(&item.ID, &item.ListID, &item.Name, &item.Quantity, &unit,
		&status, &priority, &item.AddedByID, &purchasedBy, &purchasedAt,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Unit = fromNullString(unit)
	item.Status = models.ItemStatus(status)
	item.Priority = models.ItemPriority(priority)
	item.PurchasedByID = fromNullString(purchasedBy)
	item.PurchasedAt = fromNullInt64(purchasedAt)
	return item, nil
}
