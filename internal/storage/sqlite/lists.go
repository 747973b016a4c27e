package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olomek/trolley/internal/models"
	"github.com/olomek/trolley/internal/storage"
)

// CreateList persists a new shopping list.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.ShoppingList) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (id, title, description, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		list.ID, list.Title, nullString(list.Description), list.OwnerID, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// GetList retrieves a list by ID.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*models.ShoppingList, error) {
	list := &models.ShoppingList{}
	var description sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, owner_id, created_at, updated_at FROM lists WHERE id = ?",
		id,
	).Scan(&list.ID, &list.Title, &description, &list.OwnerID, &list.CreatedAt, &list.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	list.Description = fromNullString(description)
	return list, nil
}

// ListsByUser returns every list the user holds a membership on,
// newest first.
func (s *SQLiteStore) ListsByUser(ctx context.Context, userID string) ([]*models.ShoppingList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.title, l.description, l.owner_id, l.created_at, l.updated_at
		 FROM lists l
		 JOIN list_members m ON m.list_id = l.id
		 WHERE m.user_id = ?
		 ORDER BY l.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.ShoppingList
	for rows.Next() {
		list := &models.ShoppingList{}
		var description sql.NullString
		if err := rows.Scan(&list.ID, &list.Title, &description, &list.OwnerID, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		list.Description = fromNullString(description)
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	return lists, nil
}

// DeleteList removes a list. Memberships and items cascade via foreign keys.
func (s *SQLiteStore) DeleteList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("list %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// CreateMember persists a new membership. The UNIQUE (list_id, user_id)
// constraint rejects duplicate memberships.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.ListMember) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO list_members (id, list_id, user_id, role, joined_at) VALUES (?, ?, ?, ?, ?)",
		member.ID, member.ListID, member.UserID, string(member.Role), member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// MembersByList returns all memberships on a list, owner first.
func (s *SQLiteStore) MembersByList(ctx context.Context, listID string) ([]*models.ListMember, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, list_id, user_id, role, joined_at FROM list_members WHERE list_id = ? ORDER BY joined_at",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []*models.ListMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// MemberByUserAndList returns the membership tying userID to listID.
func (s *SQLiteStore) MemberByUserAndList(ctx context.Context, userID, listID string) (*models.ListMember, error) {
	m := &models.ListMember{}
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, list_id, user_id, role, joined_at FROM list_members WHERE user_id = ? AND list_id = ?",
		userID, listID,
	).Scan(&m.ID, &m.ListID, &m.UserID, &role, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("membership of %s on %s: %w", userID, listID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	m.Role = models.Role(role)
	return m, nil
}

// DeleteMember removes a membership by ID.
func (s *SQLiteStore) DeleteMember(ctx context.Context, memberID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM list_members WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	return nil
}

func scanMember(rows *sql.Rows) (*models.ListMember, error) {
	m := &models.ListMember{}
	var role string
	if err := rows.Scan(&m.ID, &m.ListID, &m.UserID, &role, &m.JoinedAt); err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}
	m.Role = models.Role(role)
	return m, nil
}
