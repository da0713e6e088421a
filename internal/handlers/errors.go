package handlers

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/student-records/internal/views"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// serverError logs err with request context and renders the generic 500 page.
func serverError(w http.ResponseWriter, r *http.Request, v *views.Renderer, msg string, err error) {
	slog.Error(msg,
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	v.RenderError(w, http.StatusInternalServerError, views.Data{Error: ErrMessageInternal})
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(v *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v.RenderError(w, http.StatusNotFound, views.Data{Error: "The page you requested does not exist."})
	}
}

// MethodNotAllowed renders the 405 page.
func MethodNotAllowed(v *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v.RenderError(w, http.StatusMethodNotAllowed, views.Data{})
	}
}

// InternalError renders the generic 500 page. Used by the panic recoverer.
func InternalError(v *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v.RenderError(w, http.StatusInternalServerError, views.Data{Error: ErrMessageInternal})
	}
}
