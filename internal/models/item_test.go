package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewItem(t *testing.T) {
	t.Run("defaults to pending and medium priority", func(t *testing.T) {
		item, err := NewItem("list-1", "Milk", 2, strPtr("l"), nil, "user-1")
		if err != nil {
			t.Fatalf("NewItem failed: %v", err)
		}
		if item.ID == "" {
			t.Error("expected generated ID")
		}
		if item.Status != ItemStatusPending {
			t.Errorf("status: expected pending, got %s", item.Status)
		}
		if item.Priority != ItemPriorityMedium {
			t.Errorf("priority: expected medium, got %s", item.Priority)
		}
		if item.PurchasedByID != nil || item.PurchasedAt != nil {
			t.Error("expected no purchase attribution on a new item")
		}
		if item.AddedByID != "user-1" {
			t.Errorf("addedBy: expected user-1, got %s", item.AddedByID)
		}
	})

	t.Run("no unit stays nil", func(t *testing.T) {
		item, err := NewItem("list-1", "Bread", 1, nil, nil, "user-1")
		if err != nil {
			t.Fatalf("NewItem failed: %v", err)
		}
		if item.Unit != nil {
			t.Errorf("unit: expected nil, got %q", *item.Unit)
		}
	})

	t.Run("explicit priority respected", func(t *testing.T) {
		p := ItemPriorityHigh
		item, err := NewItem("list-1", "Eggs", 12, nil, &p, "user-1")
		if err != nil {
			t.Fatalf("NewItem failed: %v", err)
		}
		if item.Priority != ItemPriorityHigh {
			t.Errorf("priority: expected high, got %s", item.Priority)
		}
	})

	t.Run("rejects bad fields", func(t *testing.T) {
		cases := []struct {
			name     string
			itemName string
			quantity float64
			unit     *string
		}{
			{"empty name", "", 1, nil},
			{"name too long", strings.Repeat("x", 101), 1, nil},
			{"zero quantity", "Milk", 0, nil},
			{"negative quantity", "Milk", -2, nil},
			{"unit too long", "Milk", 1, strPtr(strings.Repeat("u", 21))},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewItem("list-1", tc.itemName, tc.quantity, tc.unit, nil, "user-1")
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			})
		}
	})
}

func TestApplyPatch(t *testing.T) {
	t.Run("partial patch keeps absent fields", func(t *testing.T) {
		item := newTestItem(t)
		name := "Oat milk"
		if err := item.ApplyPatch(ItemPatch{Name: &name}, "user-2"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if item.Name != "Oat milk" {
			t.Errorf("name: expected Oat milk, got %s", item.Name)
		}
		if item.Quantity != 2 {
			t.Errorf("quantity: expected 2, got %f", item.Quantity)
		}
		if item.Status != ItemStatusPending {
			t.Errorf("status: expected pending, got %s", item.Status)
		}
	})

	t.Run("unit tri-state", func(t *testing.T) {
		item := newTestItem(t)

		// Absent: retained.
		if err := item.ApplyPatch(ItemPatch{}, "user-1"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if item.Unit == nil || *item.Unit != "l" {
			t.Errorf("unit: expected l, got %v", item.Unit)
		}

		// Set to null: cleared.
		if err := item.ApplyPatch(ItemPatch{UnitSet: true}, "user-1"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if item.Unit != nil {
			t.Errorf("unit: expected nil, got %q", *item.Unit)
		}

		// Set to value: replaced.
		u := "kg"
		if err := item.ApplyPatch(ItemPatch{Unit: &u, UnitSet: true}, "user-1"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if item.Unit == nil || *item.Unit != "kg" {
			t.Errorf("unit: expected kg, got %v", item.Unit)
		}
	})

	t.Run("purchase stamps actor and time", func(t *testing.T) {
		item := newTestItem(t)
		before := time.Now().Unix()
		status := ItemStatusPurchased
		if err := item.ApplyPatch(ItemPatch{Status: &status}, "user-2"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if item.Status != ItemStatusPurchased {
			t.Errorf("status: expected purchased, got %s", item.Status)
		}
		if item.PurchasedByID == nil || *item.PurchasedByID != "user-2" {
			t.Errorf("purchasedBy: expected user-2, got %v", item.PurchasedByID)
		}
		if item.PurchasedAt == nil || *item.PurchasedAt < before {
			t.Errorf("purchasedAt: expected >= %d, got %v", before, item.PurchasedAt)
		}
	})

	t.Run("revert to pending keeps attribution", func(t *testing.T) {
		item := newTestItem(t)
		purchased := ItemStatusPurchased
		if err := item.ApplyPatch(ItemPatch{Status: &purchased}, "user-2"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		pending := ItemStatusPending
		if err := item.ApplyPatch(ItemPatch{Status: &pending}, "user-3"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if item.Status != ItemStatusPending {
			t.Errorf("status: expected pending, got %s", item.Status)
		}
		if item.PurchasedByID == nil || *item.PurchasedByID != "user-2" {
			t.Errorf("purchasedBy: expected user-2 retained, got %v", item.PurchasedByID)
		}
		if item.PurchasedAt == nil {
			t.Error("purchasedAt: expected retained")
		}
	})

	t.Run("repeated purchased status does not restamp", func(t *testing.T) {
		item := newTestItem(t)
		purchased := ItemStatusPurchased
		if err := item.ApplyPatch(ItemPatch{Status: &purchased}, "user-2"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if err := item.ApplyPatch(ItemPatch{Status: &purchased}, "user-3"); err != nil {
			t.Fatalf("ApplyPatch failed: %v", err)
		}
		if *item.PurchasedByID != "user-2" {
			t.Errorf("purchasedBy: expected user-2, got %s", *item.PurchasedByID)
		}
	})

	t.Run("invalid patch leaves item untouched", func(t *testing.T) {
		item := newTestItem(t)
		bad := -1.0
		if err := item.ApplyPatch(ItemPatch{Quantity: &bad}, "user-1"); err == nil {
			t.Fatal("expected validation error")
		}
		if item.Quantity != 2 {
			t.Errorf("quantity: expected unchanged 2, got %f", item.Quantity)
		}
	})
}

func TestParseEnums(t *testing.T) {
	if _, err := ParseItemStatus("eaten"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseItemPriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
	if _, err := ParseRole("admin"); err == nil {
		t.Error("expected error for unknown role")
	}
	if r, err := ParseRole("owner"); err != nil || r != RoleOwner {
		t.Errorf("expected owner role, got %v, %v", r, err)
	}
}

func newTestItem(t *testing.T) *Item {
	t.Helper()
	item, err := NewItem("list-1", "Milk", 2, strPtr("l"), nil, "user-1")
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	return item
}

func strPtr(s string) *string { return &s }
