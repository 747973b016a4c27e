// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/olomek/trolley/internal/models"
)

// ErrNotFound is returned (possibly wrapped) by lookups whose subject does
// not exist. Services translate it into their own error taxonomy.
var ErrNotFound = errors.New("not found")

// Store defines the persistence gateway consumed by the services. The
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Fails if the username or email is
	// already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUsername retrieves a user by username. Returns ErrNotFound
	// if absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateList persists a new shopping list.
	CreateList(ctx context.Context, list *models.ShoppingList) error

	// GetList retrieves a list by ID. Returns ErrNotFound if absent.
	GetList(ctx context.Context, id string) (*models.ShoppingList, error)

	// ListsByUser returns every list the user holds a membership on.
	ListsByUser(ctx context.Context, userID string) ([]*models.ShoppingList, error)

	// DeleteList removes a list and cascades its memberships and items.
	DeleteList(ctx context.Context, id string) error

	// CreateMember persists a new membership.
	CreateMember(ctx context.Context, member *models.ListMember) error

	// MembersByList returns all memberships on a list.
	MembersByList(ctx context.Context, listID string) ([]*models.ListMember, error)

	// MemberByUserAndList returns the membership tying userID to listID,
	// or ErrNotFound when the user is not a member.
	MemberByUserAndList(ctx context.Context, userID, listID string) (*models.ListMember, error)

	// DeleteMember removes a membership by ID.
	DeleteMember(ctx context.Context, memberID string) error

	// CreateItem persists a new item.
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItem retrieves an item by ID. Returns ErrNotFound if absent.
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// ItemsByList returns all items on a list, newest first.
	ItemsByList(ctx context.Context, listID string) ([]*models.Item, error)

	// UpdateItem overwrites a stored item. Returns ErrNotFound if absent.
	UpdateItem(ctx context.Context, item *models.Item) error

	// DeleteItem removes an item by ID. Returns ErrNotFound if absent.
	DeleteItem(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
