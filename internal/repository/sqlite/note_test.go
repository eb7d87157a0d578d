package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/notebox/internal/apperror"
	"github.com/sakif/notebox/internal/model"
	"github.com/sakif/notebox/internal/repository"
)

// newTestDB opens a fresh in-memory database per test. ":memory:" keeps
// tests fast and fully isolated; t.Cleanup closes it even in subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts an account so notes have a valid owner row
// (foreign keys are ON).
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestNote inserts a note and fails the test on error. A short sleep
// after the insert keeps created_at strictly increasing, which the
// ordering tests depend on.
func createTestNote(t *testing.T, db *DB, ownerID string, note model.Note) *model.Note {
	t.Helper()
	note.UserID = ownerID
	if note.Category == "" {
		note.Category = model.CategoryPersonal
	}
	if note.Color == "" {
		note.Color = model.DefaultColor
	}
	if err := db.Create(context.Background(), &note); err != nil {
		t.Fatalf("failed to create test note: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	return &note
}

func TestNoteCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	note := &model.Note{
		Title:    "Groceries",
		Content:  "milk, eggs",
		Category: model.CategoryPersonal,
		Color:    model.DefaultColor,
		UserID:   user.ID,
	}

	if err := db.Create(context.Background(), note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if note.ID == "" {
		t.Error("Create() did not set note.ID")
	}
	if note.CreatedAt.IsZero() || note.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestNoteGetByID_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	created := createTestNote(t, db, user.ID, model.Note{Title: "A", Content: "B"})

	got, err := db.GetByID(context.Background(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Title != "A" || got.Content != "B" {
		t.Errorf("GetByID() = %q/%q, want A/B", got.Title, got.Content)
	}
	if got.Category != model.CategoryPersonal {
		t.Errorf("Category = %q, want personal", got.Category)
	}
	if got.Color != "#ffffff" {
		t.Errorf("Color = %q, want #ffffff", got.Color)
	}
	if got.IsPinned {
		t.Error("IsPinned should default to false")
	}
}

// A note owned by another user must be indistinguishable from a note that
// doesn't exist.
func TestNoteGetByID_OtherOwnerLooksAbsent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	note := createTestNote(t, db, alice.ID, model.Note{Title: "secret", Content: "mine"})

	_, errOther := db.GetByID(context.Background(), bob.ID, note.ID)
	_, errMissing := db.GetByID(context.Background(), alice.ID, "does-not-exist")

	if !errors.Is(errOther, apperror.ErrNotFound) {
		t.Errorf("cross-owner get should be ErrNotFound, got %v", errOther)
	}
	if !errors.Is(errMissing, apperror.ErrNotFound) {
		t.Errorf("missing get should be ErrNotFound, got %v", errMissing)
	}
}

func TestNoteList_PinnedFirstThenNewest(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	older := createTestNote(t, db, user.ID, model.Note{Title: "older", Content: "c"})
	pinned := createTestNote(t, db, user.ID, model.Note{Title: "pinned", Content: "c", IsPinned: true})
	newest := createTestNote(t, db, user.ID, model.Note{Title: "newest", Content: "c"})

	notes, err := db.List(context.Background(), user.ID, repository.NoteFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(notes) != 3 {
		t.Fatalf("List() returned %d notes, want 3", len(notes))
	}
	if notes[0].ID != pinned.ID {
		t.Errorf("first note = %q, want the pinned one", notes[0].Title)
	}
	if notes[1].ID != newest.ID || notes[2].ID != older.ID {
		t.Errorf("unpinned notes out of order: %q, %q", notes[1].Title, notes[2].Title)
	}
}

// Pinning an old note must move it ahead of unpinned notes created later.
func TestNoteList_PinReorders(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ctx := context.Background()

	first := createTestNote(t, db, user.ID, model.Note{Title: "first", Content: "c"})
	createTestNote(t, db, user.ID, model.Note{Title: "second", Content: "c"})

	first.IsPinned = true
	if err := db.Update(ctx, user.ID, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	notes, err := db.List(ctx, user.ID, repository.NoteFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if notes[0].ID != first.ID {
		t.Errorf("pinned note should list first, got %q", notes[0].Title)
	}
}

func TestNoteList_OwnerScoped(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	createTestNote(t, db, alice.ID, model.Note{Title: "mine", Content: "c"})
	createTestNote(t, db, bob.ID, model.Note{Title: "his", Content: "c"})

	notes, err := db.List(context.Background(), alice.ID, repository.NoteFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "mine" {
		t.Errorf("List() leaked notes across owners: %+v", notes)
	}
}

func TestNoteList_CategoryFilter(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ctx := context.Background()

	createTestNote(t, db, user.ID, model.Note{Title: "standup", Content: "c", Category: model.CategoryWork})
	createTestNote(t, db, user.ID, model.Note{Title: "groceries", Content: "c", Category: model.CategoryPersonal})

	filter := repository.NoteFilter{Category: model.CategoryWork, Limit: 10}

	notes, err := db.List(ctx, user.ID, filter)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "standup" {
		t.Errorf("category filter failed: %+v", notes)
	}

	total, err := db.Count(ctx, user.ID, filter)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 1 {
		t.Errorf("Count() = %d, want 1", total)
	}
}

func TestNoteList_FullTextSearch(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ctx := context.Background()

	createTestNote(t, db, user.ID, model.Note{Title: "Meeting notes", Content: "quarterly planning"})
	createTestNote(t, db, user.ID, model.Note{Title: "Groceries", Content: "milk and planning nothing"})
	createTestNote(t, db, user.ID, model.Note{Title: "Recipe", Content: "pasta"})

	// Matches in title and in content, prefix included.
	notes, err := db.List(ctx, user.ID, repository.NoteFilter{Search: "plan", Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("search 'plan' returned %d notes, want 2", len(notes))
	}

	// Category AND search must both hold.
	createTestNote(t, db, user.ID, model.Note{Title: "Work planning", Content: "c", Category: model.CategoryWork})
	notes, err = db.List(ctx, user.ID, repository.NoteFilter{
		Search:   "planning",
		Category: model.CategoryWork,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "Work planning" {
		t.Errorf("combined filter failed: %+v", notes)
	}
}

// Raw FTS5 operators in user input must not cause a query error.
func TestNoteList_SearchWithSpecialCharacters(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	createTestNote(t, db, user.ID, model.Note{Title: "plain", Content: "text"})

	for _, search := range []string{`"unbalanced`, `AND OR NOT`, `title:x`, `(((`} {
		if _, err := db.List(context.Background(), user.ID, repository.NoteFilter{Search: search, Limit: 10}); err != nil {
			t.Errorf("List(search=%q) error = %v", search, err)
		}
	}
}

func TestNoteList_Pagination(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createTestNote(t, db, user.ID, model.Note{Title: "n", Content: "c"})
	}

	page1, err := db.List(ctx, user.ID, repository.NoteFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	page3, err := db.List(ctx, user.ID, repository.NoteFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	beyond, err := db.List(ctx, user.ID, repository.NoteFilter{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(page1) != 2 || len(page3) != 1 {
		t.Errorf("pagination sizes = %d, %d; want 2, 1", len(page1), len(page3))
	}
	if len(beyond) != 0 {
		t.Errorf("page beyond the end should be empty, got %d notes", len(beyond))
	}

	total, err := db.Count(ctx, user.ID, repository.NoteFilter{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 5 {
		t.Errorf("Count() = %d, want 5", total)
	}
}

func TestNoteUpdate_OtherOwnerLooksAbsent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	note := createTestNote(t, db, alice.ID, model.Note{Title: "mine", Content: "c"})

	note.Title = "hijacked"
	err := db.Update(context.Background(), bob.ID, note)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("cross-owner update should be ErrNotFound, got %v", err)
	}

	// The note is untouched.
	got, err := db.GetByID(context.Background(), alice.ID, note.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "mine" {
		t.Errorf("cross-owner update modified the note: %q", got.Title)
	}
}

func TestNoteDelete_Twice(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ctx := context.Background()

	note := createTestNote(t, db, user.ID, model.Note{Title: "gone soon", Content: "c"})

	if err := db.Delete(ctx, user.ID, note.ID); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}

	err := db.Delete(ctx, user.ID, note.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() should be ErrNotFound, got %v", err)
	}
}

// The FTS index must follow deletes: a deleted note can't keep matching.
func TestNoteDelete_RemovesFromSearch(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ctx := context.Background()

	note := createTestNote(t, db, user.ID, model.Note{Title: "ephemeral", Content: "c"})

	if err := db.Delete(ctx, user.ID, note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	notes, err := db.List(ctx, user.ID, repository.NoteFilter{Search: "ephemeral", Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("deleted note still matches search: %+v", notes)
	}
}
