// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Category classifies a note. It is a "typed string" — a distinct type whose
// underlying representation is a string. The type makes it impossible to
// accidentally pass an arbitrary string where a category is expected, while
// still serializing to plain JSON strings.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryStudy    Category = "study"
	CategoryIdeas    Category = "ideas"
	CategoryOther    Category = "other"
)

// Categories lists every valid category, in display order.
// Used by validation and by the category filter dropdown.
var Categories = []Category{
	CategoryPersonal,
	CategoryWork,
	CategoryStudy,
	CategoryIdeas,
	CategoryOther,
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryStudy, CategoryIdeas, CategoryOther:
		return true
	}
	return false
}

// Label returns the human-readable display label for the category.
// Unrecognized values fall back to the raw string so that nothing ever
// renders blank.
func (c Category) Label() string {
	switch c {
	case CategoryPersonal:
		return "Personal"
	case CategoryWork:
		return "Work"
	case CategoryStudy:
		return "Study"
	case CategoryIdeas:
		return "Ideas"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

// DefaultColor is the background color assigned to a note when the client
// doesn't pick one.
const DefaultColor = "#ffffff"

// Note is a single user-owned note record.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize
// this struct to/from JSON. UserID carries `json:"-"` — the owner is bound
// from the authenticated request and must never be client-settable, so it
// is omitted from every API payload.
type Note struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Content   string    `json:"content"   db:"content"`
	Category  Category  `json:"category"  db:"category"`
	Color     string    `json:"color"     db:"color"`
	IsPinned  bool      `json:"isPinned"  db:"is_pinned"`
	UserID    string    `json:"-"         db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
