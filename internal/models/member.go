package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the membership role on a list. The set is closed: a membership is
// either the single owner created with the list, or a regular member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleMember:
		return r, nil
	default:
		return "", &ValidationError{Field: "role", Reason: "must be owner or member"}
	}
}

// ListMember ties one account to one list with a role. A (user, list) pair
// has at most one membership record; the owner membership is created
// atomically with the list and can never be removed.
type ListMember struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string `json:"id"`

	// ListID is the list this membership grants access to.
	ListID string `json:"listId"`

	// UserID is the account holding the membership.
	UserID string `json:"userId"`

	// Role is owner or member.
	Role Role `json:"role"`

	// JoinedAt is the Unix timestamp when the membership was created.
	JoinedAt int64 `json:"joinedAt"`
}

// NewListMember creates a membership with a fresh ID and join timestamp.
func NewListMember(listID, userID string, role Role) *ListMember {
	return &ListMember{
		ID:       uuid.New().String(),
		ListID:   listID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().Unix(),
	}
}

// MemberDetail is a membership enriched with the member's account info for
// display. Username and Email are nil when the account cannot be resolved;
// a dangling reference does not fail the read.
type MemberDetail struct {
	ListMember
	Username *string `json:"username"`
	Email    *string `json:"email"`
}
