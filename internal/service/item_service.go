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

// ItemService orchestrates item mutations. Every write runs the full
// pipeline: authorize, validate, persist, emit. Any failure aborts before
// the next step, so no event ever describes unpersisted state.
type ItemService struct {
	store       storage.Store
	broadcaster Broadcaster
}

// NewItemService creates a new ItemService with the given storage backend
// and fan-out capability.
func NewItemService(store storage.Store, broadcaster Broadcaster) *ItemService {
	return &ItemService{store: store, broadcaster: broadcaster}
}

// CreateItemInput carries the caller-supplied item fields. Unit and Priority
// are optional; an absent priority defaults to medium.
type CreateItemInput struct {
	Name     string
	Quantity float64
	Unit     *string
	Priority *models.ItemPriority
}

// CreateItem adds a pending item to the list on behalf of the actor, who
// must be a member. Emits item-created to the list's room.
func (s *ItemService) CreateItem(ctx context.Context, listID string, in CreateItemInput, actorID string) (*models.Item, error) {
	if err := s.requireMembership(ctx, listID, actorID); err != nil {
		return nil, err
	}

	item, err := models.NewItem(listID, in.Name, in.Quantity, in.Unit, in.Priority, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		slog.Error("CreateItem failed", "list_id", listID, "error", err)
		return nil, err
	}

	slog.Info("item created", "item_id", item.ID, "list_id", listID, "actor_id", actorID)
	s.broadcaster.Emit(listID, EventItemCreated, item)
	return item, nil
}

// GetListItems returns the items of a list the actor is a member of.
func (s *ItemService) GetListItems(ctx context.Context, listID, actorID string) ([]*models.Item, error) {
	if err := s.requireMembership(ctx, listID, actorID); err != nil {
		return nil, err
	}
	return s.store.ItemsByList(ctx, listID)
}

// UpdateItem applies a partial patch to an item on behalf of the actor, who
// must be a member of the item's list. Emits item-updated with the full
// resulting item.
func (s *ItemService) UpdateItem(ctx context.Context, itemID string, patch models.ItemPatch, actorID string) (*models.Item, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireItemMembership(ctx, item.ListID, actorID); err != nil {
		return nil, err
	}

	if err := item.ApplyPatch(patch, actorID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		slog.Error("UpdateItem failed", "item_id", itemID, "error", err)
		return nil, err
	}

	slog.Info("item updated", "item_id", itemID, "list_id", item.ListID, "actor_id", actorID)
	s.broadcaster.Emit(item.ListID, EventItemUpdated, item)
	return item, nil
}

// DeleteItem removes an item on behalf of the actor, who must be a member of
// the item's list. Emits item-deleted carrying only the item id.
func (s *ItemService) DeleteItem(ctx context.Context, itemID, actorID string) error {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.requireItemMembership(ctx, item.ListID, actorID); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		slog.Error("DeleteItem failed", "item_id", itemID, "error", err)
		return err
	}

	slog.Info("item deleted", "item_id", itemID, "list_id", item.ListID, "actor_id", actorID)
	s.broadcaster.Emit(item.ListID, EventItemDeleted, map[string]string{"itemId": itemID})
	return nil
}

// requireMembership checks that the list exists (NotFound first) and that
// the actor may mutate its items.
func (s *ItemService) requireMembership(ctx context.Context, listID, actorID string) error {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: list not found", ErrNotFound)
		}
		return err
	}
	return s.requireItemMembership(ctx, listID, actorID)
}

// requireItemMembership checks actor membership on an already known list.
func (s *ItemService) requireItemMembership(ctx context.Context, listID, actorID string) error {
	members, err := s.store.MembersByList(ctx, listID)
	if err != nil {
		return err
	}
	if !authz.CanMutateItems(actorID, members) {
		return fmt.Errorf("%w: you are not a member of this list", ErrForbidden)
	}
	return nil
}

func (s *ItemService) getItem(ctx context.Context, itemID string) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: item not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}
