package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/metrics"
	"github.com/crucial707/student-records/internal/repo"
	"github.com/crucial707/student-records/internal/views"
)

// Messages shown by the auth pages.
const (
	MsgUsernameTaken      = "Username already exists!"
	MsgRegistered         = "Registration successful! Please log in."
	MsgLoggedIn           = "Login successful!"
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoggedOut          = "You have been logged out."
	MsgCredentialsMissing = "Username and password are required."
	MsgUsernameTooLong    = "Username must be at most 100 characters."
	MsgBadForm            = "Invalid form submission."
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users    *repo.UserRepo
	Sessions *auth.Sessions
	Views    *views.Renderer
}

// ==========================
// Register Form
// ==========================
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusOK, views.Register, page(w, r, h.Sessions, "Register"))
}

// ==========================
// Register (password stored as bcrypt hash)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := page(w, r, h.Sessions, "Register")
		data.Error = MsgBadForm
		h.Views.Render(w, http.StatusBadRequest, views.Register, data)
		return
	}
	username := r.PostFormValue("username")

	user, err := auth.Register(r.Context(), h.Users, username, r.PostFormValue("password"))
	switch {
	case errors.Is(err, repo.ErrUsernameTaken):
		flash(w, r, h.Sessions, auth.FlashDanger, MsgUsernameTaken)
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	case errors.Is(err, auth.ErrMissingCredentials):
		data := page(w, r, h.Sessions, "Register")
		data.Username = username
		data.Error = MsgCredentialsMissing
		h.Views.Render(w, http.StatusBadRequest, views.Register, data)
		return
	case errors.Is(err, auth.ErrUsernameTooLong):
		data := page(w, r, h.Sessions, "Register")
		data.Error = MsgUsernameTooLong
		h.Views.Render(w, http.StatusBadRequest, views.Register, data)
		return
	case err != nil:
		serverError(w, r, h.Views, "register user", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	flash(w, r, h.Sessions, auth.FlashSuccess, MsgRegistered)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// ==========================
// Login Form
// ==========================
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusOK, views.Login, page(w, r, h.Sessions, "Login"))
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := page(w, r, h.Sessions, "Login")
		data.Error = MsgBadForm
		h.Views.Render(w, http.StatusBadRequest, views.Login, data)
		return
	}
	username := r.PostFormValue("username")

	user, err := auth.Authenticate(r.Context(), h.Users, username, r.PostFormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		metrics.IncLoginAttempt("failure")
		slog.Info("login failed", "username", username)
		data := page(w, r, h.Sessions, "Login")
		data.Username = username
		data.Flashes = append(data.Flashes, auth.Flash{Category: auth.FlashDanger, Message: MsgInvalidCredentials})
		h.Views.Render(w, http.StatusOK, views.Login, data)
		return
	}
	if err != nil {
		serverError(w, r, h.Views, "authenticate user", err)
		return
	}

	if err := h.Sessions.Login(w, r, user.ID, auth.Flash{Category: auth.FlashSuccess, Message: MsgLoggedIn}); err != nil {
		serverError(w, r, h.Views, "save session", err)
		return
	}
	metrics.IncLoginAttempt("success")
	slog.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r, auth.Flash{Category: auth.FlashInfo, Message: MsgLoggedOut}); err != nil {
		serverError(w, r, h.Views, "clear session", err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func logSessionError(r *http.Request, msg string, err error) {
	slog.Error(msg, "path", r.URL.Path, "error", err)
}
