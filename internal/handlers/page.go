package handlers

import (
	"net/http"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/middleware"
	"github.com/crucial707/student-records/internal/views"
)

// page returns view data with the current user and any pending flashes.
// Flashes are consumed, so call it only when the page is about to render.
func page(w http.ResponseWriter, r *http.Request, s *auth.Sessions, title string) views.Data {
	data := views.Data{Title: title, Flashes: s.Flashes(w, r)}
	if u, ok := middleware.GetUser(r.Context()); ok {
		data.User = u
	}
	return data
}

// flash queues a message and logs a failed session write instead of failing the request.
func flash(w http.ResponseWriter, r *http.Request, s *auth.Sessions, category, message string) {
	if err := s.AddFlash(w, r, category, message); err != nil {
		logSessionError(r, "save flash", err)
	}
}
