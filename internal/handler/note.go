// Package handler contains the HTTP request handlers.
//
// Handlers are the glue between HTTP and the service layer: they parse the
// request (query params, body, URL params, the userID the auth middleware
// put in the context), call the service, and write the JSON envelope. No
// business rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/notebox/internal/apperror"
	"github.com/sakif/notebox/internal/auth"
	"github.com/sakif/notebox/internal/model"
	"github.com/sakif/notebox/internal/service"
)

// NoteHandler serves the five /api/notes operations.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		notes:  notes,
		logger: logger,
	}
}

// listResponse is the paginated listing envelope.
type listResponse struct {
	Success     bool         `json:"success"`
	Notes       []model.Note `json:"notes"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Total       int          `json:"total"`
}

// noteResponse wraps a single note, with an optional message for mutations.
type noteResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Note    *model.Note `json:"note"`
}

// messageResponse is the body for operations that return no record.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// createNoteRequest is the POST /api/notes body. Note that there is no
// owner field: the owner always comes from the authenticated identity.
type createNoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// updateNoteRequest is the PUT /api/notes/{id} body. Pointer fields
// distinguish "field absent" (nil, leave unchanged) from "field present"
// (validate and apply) — this is what lets a client pin a note without
// resending its text.
type updateNoteRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Color    *string `json:"color"`
	IsPinned *bool   `json:"isPinned"`
}

// HandleList returns one page of the caller's notes.
//
// HTTP: GET /api/notes?page=1&limit=10&category=work&search=meeting
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 10)

	result, err := h.notes.List(r.Context(), userID, page, limit, q.Get("category"), q.Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success:     true,
		Notes:       result.Notes,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		Total:       result.Total,
	})
}

// HandleGet returns a single note by ID.
//
// HTTP: GET /api/notes/{id}
func (h *NoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	note, err := h.notes.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{
		Success: true,
		Note:    note,
	})
}

// HandleCreate creates a new note owned by the caller.
//
// HTTP: POST /api/notes
// Body: {"title": "...", "content": "...", "category": "work", "color": "#fff8b0"}
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	note, err := h.notes.Create(r.Context(), userID, service.CreateNoteParams{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Color:    req.Color,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, noteResponse{
		Success: true,
		Message: "Note created successfully",
		Note:    note,
	})
}

// HandleUpdate applies a partial update to a note.
//
// HTTP: PUT /api/notes/{id}
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	note, err := h.notes.Update(r.Context(), userID, r.PathValue("id"), service.UpdateNoteParams{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Color:    req.Color,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{
		Success: true,
		Message: "Note updated successfully",
		Note:    note,
	})
}

// HandleDelete removes a note.
//
// HTTP: DELETE /api/notes/{id}
// A repeat delete of the same id returns 404 — the service reports NotFound
// for anything the caller doesn't (or no longer does) own.
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := h.notes.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: "Note deleted successfully",
	})
}

// parseIntParam parses a positive integer query parameter, falling back to
// def for anything missing or malformed.
func parseIntParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
