package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

// ShoppingList is a named, owned collection of items shared among members.
// Ownership does not transfer; the owner is fixed at creation.
type ShoppingList struct {
	// ID is the unique identifier for the list (UUID format).
	ID string `json:"id"`

	// Title is the display name of the list (1-100 characters).
	Title string `json:"title"`

	// Description is an optional free-form note (up to 500 characters).
	Description *string `json:"description"`

	// OwnerID is the account that created the list.
	OwnerID string `json:"ownerId"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewShoppingList validates the field bounds and creates a list owned by
// ownerID with a fresh ID and timestamps.
func NewShoppingList(title string, description *string, ownerID string) (*ShoppingList, error) {
	if len(title) < 1 || len(title) > maxTitleLen {
		return nil, &ValidationError{Field: "title", Reason: "must be 1-100 characters"}
	}
	if description != nil && len(*description) > maxDescriptionLen {
		return nil, &ValidationError{Field: "description", Reason: "must be at most 500 characters"}
	}
	now := time.Now().Unix()
	return &ShoppingList{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsOwnedBy reports whether userID is the list's owner.
func (l *ShoppingList) IsOwnedBy(userID string) bool {
	return l.OwnerID == userID
}
