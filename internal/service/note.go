// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-layer shape:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// NoteService takes a repository.NoteRepository (interface), not a concrete
// *sqlite.DB. Tests inject an in-memory mock; main injects SQLite. The
// service has zero knowledge of HTTP or SQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/notebox/internal/apperror"
	"github.com/sakif/notebox/internal/model"
	"github.com/sakif/notebox/internal/repository"
)

const (
	MaxTitleLength   = 100
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// colorPattern accepts a 6-digit hex color like "#ffcc00".
var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NoteService handles business logic for notes: field validation, defaults,
// and pagination math. Ownership is threaded through every call as an
// explicit userID argument — there is no way to reach the repository
// without naming an owner.
type NoteService struct {
	repo   repository.NoteRepository
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(repo repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{
		repo:   repo,
		logger: logger,
	}
}

// NotePage is one page of a note listing plus the pagination metadata the
// client needs to render page controls.
type NotePage struct {
	Notes       []model.Note
	Total       int
	TotalPages  int
	CurrentPage int
}

// CreateNoteParams carries the client-settable fields for a new note.
// The owner is deliberately NOT here — it comes from the authenticated
// identity, never from the request body.
type CreateNoteParams struct {
	Title    string
	Content  string
	Category string
	Color    string
}

// UpdateNoteParams carries a partial update. Nil pointer = "leave this
// field alone"; a set pointer is validated and applied. This lets a client
// flip isPinned without resending title and content.
type UpdateNoteParams struct {
	Title    *string
	Content  *string
	Category *string
	Color    *string
	IsPinned *bool
}

// List returns one page of userID's notes.
//
// page is 1-based. category "" or "all" means no category restriction.
// search "" means no text filter; when both category and search are given,
// a note must match both (AND semantics).
//
// A page past the end returns an empty notes slice, not an error — the
// total/totalPages fields still describe the full result set.
func (s *NoteService) List(ctx context.Context, userID string, page, limit int, category, search string) (*NotePage, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	filter := repository.NoteFilter{
		Search: strings.TrimSpace(search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	// "all" is the filter dropdown's reset value — treat it as no filter.
	if category != "" && category != "all" {
		c := model.Category(category)
		if !c.Valid() {
			return nil, apperror.ValidationFailed("category",
				fmt.Sprintf("unknown category %q", category))
		}
		filter.Category = c
	}

	notes, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list notes",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	total, err := s.repo.Count(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to count notes",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("counting notes: %w", err)
	}

	// ceil(total/limit) without importing math — integer ceiling division.
	totalPages := (total + limit - 1) / limit

	return &NotePage{
		Notes:       notes,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// Get returns userID's note with the given id.
// Returns apperror.ErrNotFound whether the note is absent or owned by
// someone else — the repository makes no distinction and neither do we.
func (s *NoteService) Get(ctx context.Context, userID, id string) (*model.Note, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "note ID is required")
	}

	return s.repo.GetByID(ctx, userID, id)
}

// Create validates and persists a new note owned by userID.
//
// Validation happens entirely before the repository call, so a rejected
// create leaves no record behind. Missing category and color fall back to
// their defaults (personal, #ffffff).
func (s *NoteService) Create(ctx context.Context, userID string, params CreateNoteParams) (*model.Note, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}

	title, content, err := validateTitleContent(params.Title, params.Content)
	if err != nil {
		return nil, err
	}

	category := model.CategoryPersonal
	if c := strings.TrimSpace(params.Category); c != "" {
		category = model.Category(c)
		if !category.Valid() {
			return nil, apperror.ValidationFailed("category",
				fmt.Sprintf("unknown category %q", c))
		}
	}

	color := model.DefaultColor
	if c := strings.TrimSpace(params.Color); c != "" {
		if !colorPattern.MatchString(c) {
			return nil, apperror.ValidationFailed("color",
				"color must be a hex code like #ffcc00")
		}
		color = strings.ToLower(c)
	}

	note := &model.Note{
		Title:    title,
		Content:  content,
		Category: category,
		Color:    color,
		UserID:   userID,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error("failed to create note",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("userID", userID),
		slog.String("category", string(note.Category)),
	)

	return note, nil
}

// Update applies a partial update to userID's note with the given id.
//
// Fetch-then-update: we load the owned note first (which doubles as the
// ownership check), apply only the fields present in params, re-validate
// them, and save. Returns the updated note.
func (s *NoteService) Update(ctx context.Context, userID, id string, params UpdateNoteParams) (*model.Note, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "note ID is required")
	}

	note, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "note title is required")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("note title must be %d characters or less", MaxTitleLength))
		}
		note.Title = title
	}

	if params.Content != nil {
		content := strings.TrimSpace(*params.Content)
		if content == "" {
			return nil, apperror.ValidationFailed("content", "note content is required")
		}
		note.Content = content
	}

	if params.Category != nil {
		category := model.Category(strings.TrimSpace(*params.Category))
		if !category.Valid() {
			return nil, apperror.ValidationFailed("category",
				fmt.Sprintf("unknown category %q", *params.Category))
		}
		note.Category = category
	}

	if params.Color != nil {
		color := strings.TrimSpace(*params.Color)
		if !colorPattern.MatchString(color) {
			return nil, apperror.ValidationFailed("color",
				"color must be a hex code like #ffcc00")
		}
		note.Color = strings.ToLower(color)
	}

	if params.IsPinned != nil {
		note.IsPinned = *params.IsPinned
	}

	if err := s.repo.Update(ctx, userID, note); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// The note vanished between the fetch and the write (deleted
			// concurrently). Surface it as the same NotFound.
			return nil, err
		}
		s.logger.Error("failed to update note",
			slog.String("id", id),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating note: %w", err)
	}

	s.logger.Info("note updated",
		slog.String("id", note.ID),
		slog.String("userID", userID),
	)

	return note, nil
}

// Delete removes userID's note with the given id.
// A second delete of the same note returns apperror.ErrNotFound.
func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperror.Unauthorized("authentication required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "note ID is required")
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("note deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}

// validateTitleContent trims and checks the two required text fields.
func validateTitleContent(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" {
		return "", "", apperror.ValidationFailed("title", "note title is required")
	}
	if len(title) > MaxTitleLength {
		return "", "", apperror.ValidationFailed("title",
			fmt.Sprintf("note title must be %d characters or less", MaxTitleLength))
	}
	if content == "" {
		return "", "", apperror.ValidationFailed("content", "note content is required")
	}

	return title, content, nil
}
