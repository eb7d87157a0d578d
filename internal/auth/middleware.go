package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// Using a package-private type (instead of a bare string) means no other
// package can read or shadow the userID stored in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// TokenCookieName is the HttpOnly cookie the login handlers set. API calls
// are expected to send the token as an Authorization header instead; the
// cookie exists so plain page navigations are authenticated too.
const TokenCookieName = "token"

// RequireAuth enforces authentication on protected routes.
//
// It resolves the JWT from "Authorization: Bearer <jwt>" first, then falls
// back to the token cookie, validates it, and stores the userID in the
// request context. Missing or invalid credentials end the chain with a 401
// and the standard {success:false,...} envelope.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

var errNoCredentials = errors.New("auth: no credentials in request")

// extractUserID finds and validates the JWT on a request.
// Header wins over cookie: an explicit Authorization header is what API
// clients send, and it should never be overridden by a stale cookie.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return "", errNoCredentials
		}
		return tokens.Validate(strings.TrimSpace(raw))
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		return "", errNoCredentials
	}
	return tokens.Validate(cookie.Value)
}
