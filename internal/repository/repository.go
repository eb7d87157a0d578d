package repository

import (
	"context"

	"github.com/sakif/notebox/internal/model"
)

// NoteFilter narrows and paginates a note listing. Category and Search are
// optional (empty means "no restriction"); when both are set, a note must
// match both.
type NoteFilter struct {
	Category model.Category // "" = all categories
	Search   string         // "" = no text match
	Limit    int
	Offset   int
}

// NoteRepository is the storage contract for notes.
//
// Every method takes the owner's user ID as an explicit, mandatory
// parameter. Ownership scoping is applied inside the store on reads AND
// mutations, so forgetting to scope a query is a compile-time error here,
// not a runtime data leak.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Note, error)
	List(ctx context.Context, ownerID string, filter NoteFilter) ([]model.Note, error)
	Count(ctx context.Context, ownerID string, filter NoteFilter) (int, error)
	Update(ctx context.Context, ownerID string, note *model.Note) error
	Delete(ctx context.Context, ownerID, id string) error
}

// UserRepository is the storage contract for user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}
