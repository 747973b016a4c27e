package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	maxItemNameLen = 100
	maxUnitLen     = 20
)

// ItemStatus is the purchase state of an item.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPurchased ItemStatus = "purchased"
)

// ParseItemStatus constructs an ItemStatus from external input.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch st := ItemStatus(s); st {
	case ItemStatusPending, ItemStatusPurchased:
		return st, nil
	default:
		return "", &ValidationError{Field: "status", Reason: "must be pending or purchased"}
	}
}

// ItemPriority orders items within a list.
type ItemPriority string

const (
	ItemPriorityLow    ItemPriority = "low"
	ItemPriorityMedium ItemPriority = "medium"
	ItemPriorityHigh   ItemPriority = "high"
)

// ParseItemPriority constructs an ItemPriority from external input.
func ParseItemPriority(s string) (ItemPriority, error) {
	switch p := ItemPriority(s); p {
	case ItemPriorityLow, ItemPriorityMedium, ItemPriorityHigh:
		return p, nil
	default:
		return "", &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
}

// Item is a single entry on a shopping list.
//
// PurchasedByID and PurchasedAt are stamped on the pending->purchased
// transition and retained when the item is reverted to pending, so the last
// purchase attribution stays visible.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// ListID is the list the item belongs to.
	ListID string `json:"listId"`

	// Name is the item description (1-100 characters).
	Name string `json:"name"`

	// Quantity is the amount to buy; always positive, fractions allowed.
	Quantity float64 `json:"quantity"`

	// Unit is an optional measurement unit (up to 20 characters), e.g. "kg".
	Unit *string `json:"unit"`

	// Status is pending or purchased; new items start pending.
	Status ItemStatus `json:"status"`

	// Priority defaults to medium.
	Priority ItemPriority `json:"priority"`

	// AddedByID is the account that created the item.
	AddedByID string `json:"addedById"`

	// PurchasedByID is the account that last marked the item purchased.
	PurchasedByID *string `json:"purchasedById"`

	// PurchasedAt is the Unix timestamp of the last purchase, if any.
	PurchasedAt *int64 `json:"purchasedAt"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewItem validates the field bounds and creates a pending item added by
// addedByID. A nil priority defaults to medium.
func NewItem(listID, name string, quantity float64, unit *string, priority *ItemPriority, addedByID string) (*Item, error) {
	if err := validateItemFields(name, quantity, unit); err != nil {
		return nil, err
	}
	p := ItemPriorityMedium
	if priority != nil {
		p = *priority
	}
	now := time.Now().Unix()
	return &Item{
		ID:        uuid.New().String(),
		ListID:    listID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		Status:    ItemStatusPending,
		Priority:  p,
		AddedByID: addedByID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateItemFields(name string, quantity float64, unit *string) error {
	if len(name) < 1 || len(name) > maxItemNameLen {
		return &ValidationError{Field: "name", Reason: "must be 1-100 characters"}
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if unit != nil && len(*unit) > maxUnitLen {
		return &ValidationError{Field: "unit", Reason: "must be at most 20 characters"}
	}
	return nil
}
