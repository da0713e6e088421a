package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/models"
	"github.com/crucial707/student-records/internal/repo"
)

type key string

const userKey key = "user"

// LoginPath is where anonymous requests to protected routes are sent.
const LoginPath = "/login"

// MsgLoginRequired is flashed when an anonymous request hits a protected route.
const MsgLoginRequired = "Please log in to access this page."

// RequireAuth loads the user named by the session into the request context.
// Requests without a session, or whose user no longer exists, are redirected to LoginPath.
func RequireAuth(sessions *auth.Sessions, users *repo.UserRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessions.UserID(r)
			if !ok {
				redirectToLogin(w, r, sessions)
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if errors.Is(err, repo.ErrNotFound) {
				if err := sessions.Logout(w, r, loginRequired); err != nil {
					slog.Error("clear stale session", "user_id", id, "error", err)
				}
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			if err != nil {
				slog.Error("load session user", "user_id", id, "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var loginRequired = auth.Flash{Category: auth.FlashInfo, Message: MsgLoginRequired}

func redirectToLogin(w http.ResponseWriter, r *http.Request, sessions *auth.Sessions) {
	if err := sessions.AddFlash(w, r, loginRequired.Category, loginRequired.Message); err != nil {
		slog.Error("save login flash", "error", err)
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

// GetUser returns the authenticated user stored by RequireAuth.
func GetUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// GetUserID returns the authenticated user's id.
func GetUserID(ctx context.Context) (int, bool) {
	u, ok := GetUser(ctx)
	if !ok {
		return 0, false
	}
	return u.ID, true
}

// WithUser returns ctx carrying u. Tests use it to skip the session round trip.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
