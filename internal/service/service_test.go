package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/olomek/trolley/internal/models"
	"github.com/olomek/trolley/internal/storage"
	"github.com/olomek/trolley/internal/storage/sqlite"
)

// recordingBroadcaster captures emitted events for assertions.
type recordingBroadcaster struct {
	events []capturedEvent
}

type capturedEvent struct {
	listID  string
	event   string
	payload any
}

func (b *recordingBroadcaster) Emit(listID, event string, payload any) {
	b.events = append(b.events, capturedEvent{listID: listID, event: event, payload: payload})
}

type fixture struct {
	store     storage.Store
	lists     *ListService
	items     *ItemService
	broadcast *recordingBroadcaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "trolley-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	broadcast := &recordingBroadcaster{}
	return &fixture{
		store:     store,
		lists:     NewListService(store),
		items:     NewItemService(store, broadcast),
		broadcast: broadcast,
	}
}

func (f *fixture) createUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user, err := models.NewUser(username, email, "hash")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	if err := f.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func strPtr(s string) *string { return &s }

func TestCreateList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice", "alice@example.com")

	list, err := f.lists.CreateList(ctx, "Groceries", strPtr("weekly run"), alice.ID)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("owner membership created alongside", func(t *testing.T) {
		m, err := f.store.MemberByUserAndList(ctx, alice.ID, list.ID)
		if err != nil {
			t.Fatalf("MemberByUserAndList failed: %v", err)
		}
		if m.Role != models.RoleOwner {
			t.Errorf("role: expected owner, got %s", m.Role)
		}
	})

	t.Run("list shows up for the owner", func(t *testing.T) {
		lists, err := f.lists.GetUserLists(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUserLists failed: %v", err)
		}
		if len(lists) != 1 || lists[0].ID != list.ID {
			t.Errorf("unexpected lists: %+v", lists)
		}
	})

	t.Run("invalid title rejected", func(t *testing.T) {
		_, err := f.lists.CreateList(ctx, "", nil, alice.ID)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}

func TestGetListDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice", "alice@example.com")
	mallory := f.createUser(t, "mallory", "mallory@example.com")

	list, err := f.lists.CreateList(ctx, "Groceries", nil, alice.ID)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("member sees enriched detail", func(t *testing.T) {
		detail, err := f.lists.GetListDetail(ctx, list.ID, alice.ID)
		if err != nil {
			t.Fatalf("GetListDetail failed: %v", err)
		}
		if len(detail.Members) != 1 {
			t.Fatalf("expected 1 member, got %d", len(detail.Members))
		}
		m := detail.Members[0]
		if m.Username == nil || *m.Username != "alice" {
			t.Errorf("username: expected alice, got %v", m.Username)
		}
	})

	t.Run("non-member gets Forbidden", func(t *testing.T) {
		_, err := f.lists.GetListDetail(ctx, list.ID, mallory.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing list gets NotFound even for a stranger", func(t *testing.T) {
		_, err := f.lists.GetListDetail(ctx, "nope", mallory.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice", "alice@example.com")
	bob := f.createUser(t, "bob", "bob@example.com")

	list, err := f.lists.CreateList(ctx, "Groceries", nil, alice.ID)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("owner invites by username", func(t *testing.T) {
		m, err := f.lists.AddMember(ctx, list.ID, "bob", alice.ID)
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if m.Role != models.RoleMember {
			t.Errorf("role: expected member, got %s", m.Role)
		}
	})

	t.Run("re-invite conflicts and keeps the roster", func(t *testing.T) {
		_, err := f.lists.AddMember(ctx, list.ID, "bob@example.com", alice.ID)
		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
		members, err := f.store.MembersByList(ctx, list.ID)
		if err != nil {
			t.Fatalf("MembersByList failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members, got %d", len(members))
		}
	})

	t.Run("non-owner cannot invite", func(t *testing.T) {
		_, err := f.lists.AddMember(ctx, list.ID, "alice", bob.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown invitee yields NotFound", func(t *testing.T) {
		_, err := f.lists.AddMember(ctx, list.ID, "carol", alice.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("owner membership is not removable", func(t *testing.T) {
		members, err := f.store.MembersByList(ctx, list.ID)
		if err != nil {
			t.Fatalf("MembersByList failed: %v", err)
		}
		var ownerMembership *models.ListMember
		for _, m := range members {
			if m.Role == models.RoleOwner {
				ownerMembership = m
			}
		}
		if ownerMembership == nil {
			t.Fatal("owner membership missing")
		}

		err = f.lists.RemoveMember(ctx, list.ID, ownerMembership.ID, alice.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("owner removes a member", func(t *testing.T) {
		m, err := f.store.MemberByUserAndList(ctx, bob.ID, list.ID)
		if err != nil {
			t.Fatalf("MemberByUserAndList failed: %v", err)
		}
		if err := f.lists.RemoveMember(ctx, list.ID, m.ID, alice.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if _, err := f.store.MemberByUserAndList(ctx, bob.ID, list.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected membership gone, got %v", err)
		}
	})

	t.Run("only the owner deletes the list", func(t *testing.T) {
		if err := f.lists.DeleteList(ctx, list.ID, bob.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
		if err := f.lists.DeleteList(ctx, list.ID, alice.ID); err != nil {
			t.Fatalf("DeleteList failed: %v", err)
		}
		if _, err := f.store.GetList(ctx, list.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected list gone, got %v", err)
		}
	})
}

func TestCreateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice", "alice@example.com")
	mallory := f.createUser(t, "mallory", "mallory@example.com")

	list, err := f.lists.CreateList(ctx, "Groceries", nil, alice.ID)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("member adds an item with defaults", func(t *testing.T) {
		item, err := f.items.CreateItem(ctx, list.ID, CreateItemInput{
			Name:     "Milk",
			Quantity: 2,
			Unit:     strPtr("l"),
		}, alice.ID)
		if err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if item.Status != models.ItemStatusPending {
			t.Errorf("status: expected pending, got %s", item.Status)
		}
		if item.Priority != models.ItemPriorityMedium {
			t.Errorf("priority: expected medium, got %s", item.Priority)
		}
		if item.PurchasedByID != nil || item.PurchasedAt != nil {
			t.Error("expected no purchase attribution on a new item")
		}
		if item.AddedByID != alice.ID {
			t.Errorf("addedBy: expected %s, got %s", alice.ID, item.AddedByID)
		}

		if len(f.broadcast.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(f.broadcast.events))
		}
		ev := f.broadcast.events[0]
		if ev.event != EventItemCreated || ev.listID != list.ID {
			t.Errorf("unexpected event: %+v", ev)
		}
	})

	t.Run("non-member is rejected and nothing persists", func(t *testing.T) {
		before := len(f.broadcast.events)
		_, err := f.items.CreateItem(ctx, list.ID, CreateItemInput{Name: "Eggs", Quantity: 12}, mallory.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
		items, err := f.items.GetListItems(ctx, list.ID, alice.ID)
		if err != nil {
			t.Fatalf("GetListItems failed: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("expected 1 item, got %d", len(items))
		}
		if len(f.broadcast.events) != before {
			t.Error("expected no event for a rejected mutation")
		}
	})

	t.Run("missing list yields NotFound", func(t *testing.T) {
		_, err := f.items.CreateItem(ctx, "nope", CreateItemInput{Name: "Eggs", Quantity: 12}, mallory.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice", "alice@example.com")
	bob := f.createUser(t, "bob", "bob@example.com")
	mallory := f.createUser(t, "mallory", "mallory@example.com")

	list, err := f.lists.CreateList(ctx, "Groceries", nil, alice.ID)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	if _, err := f.lists.AddMember(ctx, list.ID, "bob", alice.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	item, err := f.items.CreateItem(ctx, list.ID, CreateItemInput{Name: "Milk", Quantity: 2}, alice.ID)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	f.broadcast.events = nil

	t.Run("purchase stamps the actor and broadcasts", func(t *testing.T) {
		status := models.ItemStatusPurchased
		updated, err := f.items.UpdateItem(ctx, item.ID, models.ItemPatch{Status: &status}, bob.ID)
		if err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		if updated.PurchasedByID == nil || *updated.PurchasedByID != bob.ID {
			t.Errorf("purchasedBy: expected %s, got %v", bob.ID, updated.PurchasedByID)
		}
		if updated.PurchasedAt == nil {
			t.Error("purchasedAt: expected set")
		}

		if len(f.broadcast.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(f.broadcast.events))
		}
		ev := f.broadcast.events[0]
		if ev.event != EventItemUpdated || ev.listID != list.ID {
			t.Errorf("unexpected event: %+v", ev)
		}
		payload, ok := ev.payload.(*models.Item)
		if !ok {
			t.Fatalf("expected full item payload, got %T", ev.payload)
		}
		if payload.ID != item.ID {
			t.Errorf("payload item: expected %s, got %s", item.ID, payload.ID)
		}
	})

	t.Run("revert keeps the attribution", func(t *testing.T) {
		status := models.ItemStatusPending
		updated, err := f.items.UpdateItem(ctx, item.ID, models.ItemPatch{Status: &status}, alice.ID)
		if err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		if updated.PurchasedByID == nil || *updated.PurchasedByID != bob.ID {
			t.Errorf("attribution lost on revert: %v", updated.PurchasedByID)
		}
	})

	t.Run("non-member cannot update", func(t *testing.T) {
		_, err := f.items.UpdateItem(ctx, item.ID, models.ItemPatch{Name: strPtr("Oat milk")}, mallory.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing item yields NotFound", func(t *testing.T) {
		_, err := f.items.UpdateItem(ctx, "nope", models.ItemPatch{}, alice.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice", "alice@example.com")
	mallory := f.createUser(t, "mallory", "mallory@example.com")

	list, err := f.lists.CreateList(ctx, "Groceries", nil, alice.ID)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	item, err := f.items.CreateItem(ctx, list.ID, CreateItemInput{Name: "Milk", Quantity: 1}, alice.ID)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	f.broadcast.events = nil

	t.Run("non-member cannot delete", func(t *testing.T) {
		if err := f.items.DeleteItem(ctx, item.ID, mallory.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("member deletes and the id is broadcast", func(t *testing.T) {
		if err := f.items.DeleteItem(ctx, item.ID, alice.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		if len(f.broadcast.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(f.broadcast.events))
		}
		ev := f.broadcast.events[0]
		if ev.event != EventItemDeleted {
			t.Errorf("event: expected %s, got %s", EventItemDeleted, ev.event)
		}
		payload, ok := ev.payload.(map[string]string)
		if !ok || payload["itemId"] != item.ID {
			t.Errorf("unexpected payload: %#v", ev.payload)
		}

		if err := f.items.DeleteItem(ctx, item.ID, alice.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}
