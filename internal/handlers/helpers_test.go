package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/middleware"
	"github.com/crucial707/student-records/internal/models"
	"github.com/crucial707/student-records/internal/views"
)

func init() {
	auth.HashCost = bcrypt.MinCost
}

var testViews = views.MustNew()

func testSessions() *auth.Sessions {
	return auth.NewSessions(auth.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), 0, false))
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// postForm returns a form-encoded POST request.
func postForm(path string, vals url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// requestWithChiURLParams sets a chi route context with the given URL params on r.
func requestWithChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser puts an authenticated user in the request context, as RequireAuth would.
func asUser(r *http.Request, id int) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), &models.User{ID: id, Username: "tester"}))
}

// nextRequest carries the last cookie of each name from rr onto a new GET request.
func nextRequest(rr *httptest.ResponseRecorder, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	last := make(map[string]*http.Cookie)
	for _, c := range rr.Result().Cookies() {
		last[c.Name] = c
	}
	for _, c := range last {
		req.AddCookie(c)
	}
	return req
}

// flashesAfter returns the flashes the response left in the session.
func flashesAfter(s *auth.Sessions, rr *httptest.ResponseRecorder) []auth.Flash {
	return s.Flashes(httptest.NewRecorder(), nextRequest(rr, "/"))
}

func hasFlash(flashes []auth.Flash, category, message string) bool {
	for _, f := range flashes {
		if f.Category == category && f.Message == message {
			return true
		}
	}
	return false
}
