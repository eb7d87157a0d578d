package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/notebox/internal/apperror"
	"github.com/sakif/notebox/internal/model"
	"github.com/sakif/notebox/internal/repository"
)

// Compile-time check that *DB implements repository.NoteRepository.
// If a method is missing or has the wrong signature, this line fails to
// compile instead of surfacing much later at a call site.
var _ repository.NoteRepository = (*DB)(nil)

// Create inserts a new note. The repository assigns the ID and timestamps,
// so after Create the caller's note is fully populated (pointer receiver).
//
// The owner is carried inside note.UserID — the service sets it from the
// authenticated identity before calling here, never from client input.
func (db *DB) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()

	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, category, color, is_pinned, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.Content,
		string(note.Category),
		note.Color,
		note.IsPinned,
		note.UserID,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	return nil
}

// GetByID retrieves a single note owned by ownerID.
//
// The WHERE clause filters by id AND user_id in one query, so a note owned
// by someone else scans exactly like a note that doesn't exist: both return
// sql.ErrNoRows, translated to the same NotFound error. No existence signal
// leaks across users.
func (db *DB) GetByID(ctx context.Context, ownerID, id string) (*model.Note, error) {
	var n model.Note

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, content, category, color, is_pinned, user_id, created_at, updated_at
		 FROM notes
		 WHERE id = ? AND user_id = ?`,
		id, ownerID,
	).Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.Category,
		&n.Color,
		&n.IsPinned,
		&n.UserID,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}

	return &n, nil
}

// noteQuery builds the shared WHERE clause for List and Count so both
// always agree on what "matching" means. The owner predicate comes first
// and is never optional.
//
// When filter.Search is set we join against the FTS5 index; category and
// search combine with AND.
func noteQuery(ownerID string, filter repository.NoteFilter) (from, where string, args []any) {
	from = "notes n"
	conds := []string{"n.user_id = ?"}
	args = []any{ownerID}

	if filter.Category != "" {
		conds = append(conds, "n.category = ?")
		args = append(args, string(filter.Category))
	}

	if filter.Search != "" {
		from = "notes n JOIN notes_fts f ON f.rowid = n.rowid"
		conds = append(conds, "f.notes_fts MATCH ?")
		args = append(args, ftsMatchExpr(filter.Search))
	}

	return from, strings.Join(conds, " AND "), args
}

// ftsMatchExpr turns free-form user input into a safe FTS5 MATCH expression.
//
// FTS5 has its own query syntax (AND, OR, NEAR, quotes, column filters).
// Feeding raw user input to MATCH either errors out ("fts5: syntax error")
// or lets users run operators we don't want. Quoting each whitespace-split
// term disables the syntax; the trailing * makes each term a prefix match,
// so searching "gro" finds "groceries". Terms are implicitly ANDed.
func ftsMatchExpr(search string) string {
	terms := strings.Fields(search)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		quoted = append(quoted, `"`+t+`"*`)
	}
	return strings.Join(quoted, " ")
}

// List retrieves one page of ownerID's notes matching the filter, ordered
// pinned-first and then newest-first.
func (db *DB) List(ctx context.Context, ownerID string, filter repository.NoteFilter) ([]model.Note, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	from, where, args := noteQuery(ownerID, filter)
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT n.id, n.title, n.content, n.category, n.color, n.is_pinned, n.user_id, n.created_at, n.updated_at
		 FROM %s
		 WHERE %s
		 ORDER BY n.is_pinned DESC, n.created_at DESC
		 LIMIT ? OFFSET ?`, from, where),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0, limit)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Content, &n.Category, &n.Color,
			&n.IsPinned, &n.UserID, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

// Count returns the total number of ownerID's notes matching the filter,
// ignoring pagination. The service uses it to compute the page count.
func (db *DB) Count(ctx context.Context, ownerID string, filter repository.NoteFilter) (int, error) {
	from, where, args := noteQuery(ownerID, filter)

	var total int
	err := db.conn.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE %s`, from, where),
		args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting notes: %w", err)
	}

	return total, nil
}

// Update saves the mutable fields of note, scoped to ownerID.
//
// The WHERE clause matches id AND user_id, so updating someone else's note
// affects zero rows and reports NotFound — same as a nonexistent id. A
// single UPDATE statement is atomic at the row level; there is no partial
// write to clean up on failure.
func (db *DB) Update(ctx context.Context, ownerID string, note *model.Note) error {
	note.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE notes
		 SET title = ?, content = ?, category = ?, color = ?, is_pinned = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		note.Title,
		note.Content,
		string(note.Category),
		note.Color,
		note.IsPinned,
		note.UpdatedAt,
		note.ID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", note.ID)
	}

	return nil
}

// Delete removes ownerID's note with the given id.
// Deleting an already-deleted (or never-owned) note reports NotFound, which
// makes repeated deletes safe from the caller's perspective.
func (db *DB) Delete(ctx context.Context, ownerID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", id)
	}

	return nil
}
