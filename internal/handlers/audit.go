package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/repo"
	"github.com/crucial707/student-records/internal/views"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditHandler serves the audit log page.
type AuditHandler struct {
	Repo     *repo.AuditRepo
	Sessions *auth.Sessions
	Views    *views.Renderer
}

// ListAudit renders recent audit log entries. Query: limit (default 50, clamped to 200), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = min(val, maxAuditLimit)
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		serverError(w, r, h.Views, "list audit entries", err)
		return
	}

	data := page(w, r, h.Sessions, "Audit log")
	data.Audit = entries
	data.Limit = limit
	data.Offset = offset
	h.Views.Render(w, http.StatusOK, views.Audit, data)
}
