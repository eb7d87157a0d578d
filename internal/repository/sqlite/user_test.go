package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/notebox/internal/apperror"
	"github.com/sakif/notebox/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$04$fakehash",
	}

	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}

	got, err := db.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got.ID != user.ID || got.Email != "alice@example.com" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.PasswordHash != "$2a$04$fakehash" {
		t.Error("PasswordHash not persisted")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Username: "alice", PasswordHash: "x"}
	if err := db.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	dup := &model.User{Username: "alice", PasswordHash: "y"}
	err := db.CreateUser(ctx, dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate username should be ErrConflict, got %v", err)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing user should be ErrNotFound, got %v", err)
	}
}

func TestUpsertGitHubUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// First login creates the account.
	first := &model.User{GitHubID: 1234567, Username: "octo", Email: "octo@example.com"}
	if err := db.UpsertGitHubUser(ctx, first); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("upsert did not set user.ID")
	}

	// Second login refreshes the profile but keeps the internal ID, so the
	// user's notes stay attached.
	second := &model.User{GitHubID: 1234567, Username: "octo-renamed", Email: "new@example.com"}
	if err := db.UpsertGitHubUser(ctx, second); err != nil {
		t.Fatalf("second UpsertGitHubUser() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed the internal ID: %q → %q", first.ID, second.ID)
	}

	got, err := db.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Username != "octo-renamed" || got.Email != "new@example.com" {
		t.Errorf("profile not refreshed: %+v", got)
	}
}
