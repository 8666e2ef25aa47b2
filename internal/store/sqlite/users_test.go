package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/librarianapp/librarian-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "admin", true)
	if user.ID == 0 {
		t.Fatal("expected generated ID")
	}

	got, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.Username != "admin" {
		t.Errorf("Username: got %q, want %q", got.Username, "admin")
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if !got.IsAdmin {
		t.Error("expected IsAdmin true")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), 9999)
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUserByUsername_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreateUser(t, s, "Admin", true)

	got, err := s.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID: got %d, want %d", got.ID, created.ID)
	}
	// Original casing is preserved.
	if got.Username != "Admin" {
		t.Errorf("Username: got %q, want %q", got.Username, "Admin")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user1", false)

	dup := mustCreateUser(t, s, "user2", false)
	dup.Username = "USER1"
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
}

func TestListUsers_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "admin", true)
	mustCreateUser(t, s, "user1", false)
	mustCreateUser(t, s, "user2", false)

	all, err := s.ListUsers(ctx, store.UserFilter{})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}

	// Partial username match.
	matched, err := s.ListUsers(ctx, store.UserFilter{Username: "user"})
	if err != nil {
		t.Fatalf("ListUsers(username): %v", err)
	}
	if len(matched) != 2 {
		t.Errorf("expected 2 users matching %q, got %d", "user", len(matched))
	}

	// Admin flag filter.
	isAdmin := true
	admins, err := s.ListUsers(ctx, store.UserFilter{IsAdmin: &isAdmin})
	if err != nil {
		t.Fatalf("ListUsers(isAdmin): %v", err)
	}
	if len(admins) != 1 || admins[0].Username != "admin" {
		t.Errorf("expected only admin, got %d users", len(admins))
	}
}
