// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Two ways to get an account:
//   - username/password registration (PasswordHash is set, GitHubID is 0)
//   - "sign in with GitHub" OAuth (GitHubID is set, PasswordHash is empty)
//
// Either way we generate our own internal string ID (xid) so notes reference
// a stable key that isn't tied to a third party's numbering scheme.
//
// WHY PasswordHash `json:"-"`?
// The hash must never leave the server, not even to the account's own
// browser. The json:"-" tag excludes it from every serialized response.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"-"         db:"github_id"` // 0 for password accounts
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
