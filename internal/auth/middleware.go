package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const userIDKey ctxKey = 0

// UserID extracts the authenticated user's ID from the request context.
// The second return value is false for anonymous requests.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

// RequireUser rejects requests without a valid bearer token with 401 and
// stores the user ID in the request context otherwise.
func RequireUser(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := bearerUserID(r, secretKey)
			if !ok {
				http.Error(w, "Not Authorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalUser stores the user ID in the context when a valid bearer token
// is presented and lets anonymous requests through untouched. Read endpoints
// use it to compute ownership flags.
func OptionalUser(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := bearerUserID(r, secretKey); ok {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerUserID(r *http.Request, secretKey []byte) (uint, bool) {
	header := strings.Split(r.Header.Get("Authorization"), " ")
	if len(header) != 2 || !strings.EqualFold(header[0], "Bearer") {
		return 0, false
	}
	userID, err := UserIDFromToken(header[1], secretKey)
	if err != nil {
		return 0, false
	}
	return userID, true
}
