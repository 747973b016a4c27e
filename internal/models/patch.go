package models

import "time"

// ItemPatch is a partial item update. Nil fields retain their prior values.
// Unit is tri-state: UnitSet false means "not provided", UnitSet true with a
// nil Unit clears the field, UnitSet true with a value replaces it.
type ItemPatch struct {
	Name     *string
	Quantity *float64
	Unit     *string
	UnitSet  bool
	Status   *ItemStatus
	Priority *ItemPriority
}

// ApplyPatch validates the patch against the item's field bounds and applies
// it, advancing the status state machine. The pending->purchased transition
// stamps PurchasedByID/PurchasedAt with the acting account and current time;
// reverting to pending retains both fields. A patch that re-sends purchased
// on an already purchased item does not restamp.
func (it *Item) ApplyPatch(p ItemPatch, actorID string) error {
	name := it.Name
	if p.Name != nil {
		name = *p.Name
	}
	quantity := it.Quantity
	if p.Quantity != nil {
		quantity = *p.Quantity
	}
	unit := it.Unit
	if p.UnitSet {
		unit = p.Unit
	}
	if err := validateItemFields(name, quantity, unit); err != nil {
		return err
	}

	it.Name = name
	it.Quantity = quantity
	it.Unit = unit
	if p.Priority != nil {
		it.Priority = *p.Priority
	}

	now := time.Now().Unix()
	if p.Status != nil && *p.Status != it.Status {
		if *p.Status == ItemStatusPurchased {
			it.PurchasedByID = &actorID
			purchasedAt := now
			it.PurchasedAt = &purchasedAt
		}
		it.Status = *p.Status
	}

	it.UpdatedAt = now
	return nil
}
