package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

type fakeFriendStore struct {
	friends map[int64][]int64
	links   [][2]int64
}

func newFakeFriendStore() *fakeFriendStore {
	return &fakeFriendStore{friends: make(map[int64][]int64)}
}

func (f *fakeFriendStore) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.friends[userID], nil
}

func (f *fakeFriendStore) AreFriends(ctx context.Context, userID, friendID int64) (bool, error) {
	for _, id := range f.friends[userID] {
		if id == friendID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendStore) CreateFriendship(ctx context.Context, userID, friendID int64) error {
	f.friends[userID] = append(f.friends[userID], friendID)
	f.friends[friendID] = append(f.friends[friendID], userID)
	return nil
}

func (f *fakeFriendStore) CreateLink(ctx context.Context, userID, linkedUserID int64) error {
	f.links = append(f.links, [2]int64{userID, linkedUserID})
	return nil
}

func TestAddFriendWritesBothDirections(t *testing.T) {
	users := newFakeUsers(
		testUser(1, "Casey", "One", models.RoleStudent),
		testUser(2, "Alex", "Two", models.RoleStudent),
	)
	store := newFakeFriendStore()
	svc := NewFriendService(store, users, zerolog.Nop())

	if err := svc.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}

	for _, userID := range []int64{1, 2} {
		ids, _ := store.GetFriendIDs(context.Background(), userID)
		if len(ids) != 1 {
			t.Errorf("user %d: expected one friend edge, got %v", userID, ids)
		}
	}
}

func TestAddFriendRejections(t *testing.T) {
	users := newFakeUsers(
		testUser(1, "Casey", "One", models.RoleStudent),
		testUser(2, "Alex", "Two", models.RoleStudent),
	)
	store := newFakeFriendStore()
	svc := NewFriendService(store, users, zerolog.Nop())

	if err := svc.AddFriend(context.Background(), 1, 1); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("self-friendship: expected bad request, got %v", err)
	}
	if err := svc.AddFriend(context.Background(), 1, 99); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("unknown friend: expected not-found, got %v", err)
	}

	if err := svc.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	if err := svc.AddFriend(context.Background(), 1, 2); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("duplicate: expected conflict, got %v", err)
	}
}

func TestLinkAccountsAdminOnly(t *testing.T) {
	users := newFakeUsers(
		testUser(1, "Casey", "One", models.RoleStudent),
		testUser(2, "Alex", "Two", models.RoleStudent),
	)
	store := newFakeFriendStore()
	svc := NewFriendService(store, users, zerolog.Nop())

	if err := svc.LinkAccounts(context.Background(), models.RoleParent, 1, 2); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for non-admin, got %v", err)
	}

	if err := svc.LinkAccounts(context.Background(), models.RoleAdmin, 1, 2); err != nil {
		t.Fatalf("LinkAccounts: %v", err)
	}
	if len(store.links) != 1 {
		t.Errorf("expected one link recorded, got %v", store.links)
	}
}
