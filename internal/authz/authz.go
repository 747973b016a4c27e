// Package authz holds the pure authorization predicates gating every list,
// member and item operation. Predicates only inspect the entities they are
// given; callers load the relevant list and memberships first, so existence
// failures surface as not-found before any deny from this package.
package authz

import "github.com/olomek/trolley/internal/models"

// CanReadList reports whether the actor may read the list: any membership
// grants read access.
func CanReadList(actorID string, memberships []*models.ListMember) bool {
	return membershipOf(actorID, memberships) != nil
}

// CanMutateItems reports whether the actor may add, update or delete items.
// Deliberately the same predicate as reading: membership is binary, there is
// no finer read/write split.
func CanMutateItems(actorID string, memberships []*models.ListMember) bool {
	return CanReadList(actorID, memberships)
}

// CanManageMembers reports whether the actor may add or remove members.
// Only the list owner manages membership.
func CanManageMembers(actorID string, list *models.ShoppingList) bool {
	return list.IsOwnedBy(actorID)
}

// CanDeleteList reports whether the actor may delete the list.
func CanDeleteList(actorID string, list *models.ShoppingList) bool {
	return list.IsOwnedBy(actorID)
}

// CanRemoveMember reports whether the target membership may be removed at
// all. The owner membership is created with the list and is never removable.
func CanRemoveMember(target *models.ListMember) bool {
	switch target.Role {
	case models.RoleOwner:
		return false
	case models.RoleMember:
		return true
	default:
		// Unknown roles never pass an authorization check.
		return false
	}
}

func membershipOf(actorID string, memberships []*models.ListMember) *models.ListMember {
	for _, m := range memberships {
		if m.UserID == actorID {
			return m
		}
	}
	return nil
}
