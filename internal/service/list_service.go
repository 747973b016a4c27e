package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olomek/trolley/internal/authz"
	"github.com/olomek/trolley/internal/models"
	"github.com/olomek/trolley/internal/storage"
)

// ListService orchestrates every list and membership mutation: authorize,
// validate, persist. List operations are not broadcast; only item mutations
// reach the room fan-out.
type ListService struct {
	store storage.Store
}

// NewListService creates a new ListService with the given storage backend.
func NewListService(store storage.Store) *ListService {
	return &ListService{store: store}
}

// ListDetail is a list together with its memberships, each enriched with the
// member's account info for display.
type ListDetail struct {
	models.ShoppingList
	Members []*models.MemberDetail `json:"members"`
}

// CreateList creates a list owned by the actor together with its owner
// membership. Both are persisted before returning.
func (s *ListService) CreateList(ctx context.Context, title string, description *string, actorID string) (*models.ShoppingList, error) {
	list, err := models.NewShoppingList(title, description, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateList(ctx, list); err != nil {
		slog.Error("CreateList failed", "error", err)
		return nil, err
	}

	owner := models.NewListMember(list.ID, actorID, models.RoleOwner)
	if err := s.store.CreateMember(ctx, owner); err != nil {
		slog.Error("CreateList failed to add owner membership", "list_id", list.ID, "error", err)
		return nil, err
	}

	slog.Info("list created", "list_id", list.ID, "owner_id", actorID)
	return list, nil
}

// GetUserLists returns every list the actor is a member of.
func (s *ListService) GetUserLists(ctx context.Context, actorID string) ([]*models.ShoppingList, error) {
	return s.store.ListsByUser(ctx, actorID)
}

// GetListDetail returns the list and its members, requiring the actor to be
// a member. Each membership is enriched with the member's username and email;
// a dangling account reference leaves both nil rather than failing the read.
func (s *ListService) GetListDetail(ctx context.Context, listID, actorID string) (*ListDetail, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.MembersByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !authz.CanReadList(actorID, members) {
		return nil, fmt.Errorf("%w: you are not a member of this list", ErrForbidden)
	}

	detail := &ListDetail{ShoppingList: *list, Members: make([]*models.MemberDetail, 0, len(members))}
	for _, m := range members {
		md := &models.MemberDetail{ListMember: *m}
		if user, err := s.store.GetUserByID(ctx, m.UserID); err == nil {
			md.Username = &user.Username
			md.Email = &user.Email
		}
		detail.Members = append(detail.Members, md)
	}
	return detail, nil
}

// DeleteList deletes a list and its cascading memberships and items.
// Only the owner may delete.
func (s *ListService) DeleteList(ctx context.Context, listID, actorID string) error {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteList(actorID, list) {
		return fmt.Errorf("%w: only owner can delete the list", ErrForbidden)
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		slog.Error("DeleteList failed", "list_id", listID, "error", err)
		return err
	}

	slog.Info("list deleted", "list_id", listID, "actor_id", actorID)
	return nil
}

// AddMember grants usernameOrEmail a member-role membership on the list.
// Only the owner may add members; the target is resolved by username first,
// then email. Adding an existing member is a conflict.
func (s *ListService) AddMember(ctx context.Context, listID, usernameOrEmail, actorID string) (*models.ListMember, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageMembers(actorID, list) {
		return nil, fmt.Errorf("%w: only owner can add members", ErrForbidden)
	}

	target, err := s.resolveUser(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.MemberByUserAndList(ctx, target.ID, listID); err == nil {
		return nil, fmt.Errorf("%w: user is already a member of this list", ErrConflict)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	member := models.NewListMember(listID, target.ID, models.RoleMember)
	if err := s.store.CreateMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "list_id", listID, "error", err)
		return nil, err
	}

	slog.Info("member added", "list_id", listID, "member_id", member.ID, "user_id", target.ID)
	return member, nil
}

// RemoveMember removes a membership from the list. Only the owner may remove
// members, the membership must belong to this list, and the owner membership
// itself is never removable.
func (s *ListService) RemoveMember(ctx context.Context, listID, memberID, actorID string) error {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return err
	}
	if !authz.CanManageMembers(actorID, list) {
		return fmt.Errorf("%w: only owner can remove members", ErrForbidden)
	}

	members, err := s.store.MembersByList(ctx, listID)
	if err != nil {
		return err
	}
	var target *models.ListMember
	for _, m := range members {
		if m.ID == memberID {
			target = m
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: member not found", ErrNotFound)
	}
	if !authz.CanRemoveMember(target) {
		return fmt.Errorf("%w: cannot remove the owner", ErrForbidden)
	}

	if err := s.store.DeleteMember(ctx, memberID); err != nil {
		slog.Error("RemoveMember failed", "list_id", listID, "member_id", memberID, "error", err)
		return err
	}

	slog.Info("member removed", "list_id", listID, "member_id", memberID, "actor_id", actorID)
	return nil
}

// getList loads a list, mapping a missing row to the service's ErrNotFound.
func (s *ListService) getList(ctx context.Context, listID string) (*models.ShoppingList, error) {
	list, err := s.store.GetList(ctx, listID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: list not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// resolveUser finds an account by username first, then by email.
func (s *ListService) resolveUser(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	user, err = s.store.GetUserByEmail(ctx, usernameOrEmail)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
