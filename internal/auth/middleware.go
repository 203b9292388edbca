package auth

import (
	"context"
	"net/http"
	"strings"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/models"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// UserResolver looks up a user by the email carried in a validated token.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Middleware validates the bearer token on each request and resolves it to
// a user, which is stashed in the request context. Any failure yields a
// uniform 401 with a WWW-Authenticate challenge.
func Middleware(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			// Expect "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w)
				return
			}

			email, err := tokens.Validate(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetUserByEmail(r.Context(), email)
			if err != nil {
				// A token whose subject no longer resolves is treated the
				// same as an invalid token.
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user from the request context.
func CurrentUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}

// RequireRole enforces an exact role match. Roles are disjoint operational
// capabilities here, not a privilege ladder: an admin does not satisfy a
// user-only gate.
func RequireRole(user *models.User, role models.Role) error {
	if user == nil || user.Role != role {
		return apperrors.ErrAuthorization
	}
	return nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"` + apperrors.ErrAuthentication.Error() + `"}`))
}
