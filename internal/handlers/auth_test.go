package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/repo"
)

var userCols = []string{"id", "username", "password_hash"}

func newAuthHandler(db *sql.DB) (*AuthHandler, *auth.Sessions) {
	s := testSessions()
	return &AuthHandler{Users: repo.NewUserRepo(db), Sessions: s, Views: testViews}, s
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "alice"))

	h, s := newAuthHandler(db)
	rr := httptest.NewRecorder()
	h.Register(rr, postForm("/register", url.Values{"username": {"alice"}, "password": {"s3cret"}}))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
		t.Fatalf("got %d %q, want 302 /login", rr.Code, rr.Header().Get("Location"))
	}
	if !hasFlash(flashesAfter(s, rr), auth.FlashSuccess, MsgRegistered) {
		t.Error("missing registration flash")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	// The lookup finds the user; no INSERT may follow.
	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "hash"))

	h, s := newAuthHandler(db)
	rr := httptest.NewRecorder()
	h.Register(rr, postForm("/register", url.Values{"username": {"alice"}, "password": {"other"}}))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/register" {
		t.Fatalf("got %d %q, want 302 /register", rr.Code, rr.Header().Get("Location"))
	}
	if !hasFlash(flashesAfter(s, rr), auth.FlashDanger, MsgUsernameTaken) {
		t.Error("missing duplicate username flash")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Missing(t *testing.T) {
	db, mock := newMock(t)
	h, _ := newAuthHandler(db)

	rr := httptest.NewRecorder()
	h.Register(rr, postForm("/register", url.Values{"username": {"alice"}}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), MsgCredentialsMissing) {
		t.Error("missing credentials message")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_UsernameTooLong(t *testing.T) {
	db, mock := newMock(t)
	h, _ := newAuthHandler(db)

	rr := httptest.NewRecorder()
	long := strings.Repeat("a", auth.MaxUsernameLen+1)
	h.Register(rr, postForm("/register", url.Values{"username": {long}, "password": {"pw"}}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), MsgUsernameTooLong) {
		t.Error("missing username length message")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "alice", hash))

	h, s := newAuthHandler(db)
	rr := httptest.NewRecorder()
	h.Login(rr, postForm("/login", url.Values{"username": {"alice"}, "password": {"s3cret"}}))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("got %d %q, want 302 /", rr.Code, rr.Header().Get("Location"))
	}
	next := nextRequest(rr, "/")
	if id, ok := s.UserID(next); !ok || id != 4 {
		t.Errorf("session user: got %d %v, want 4", id, ok)
	}
	if !hasFlash(s.Flashes(httptest.NewRecorder(), next), auth.FlashSuccess, MsgLoggedIn) {
		t.Error("missing login flash")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
		user  string
	}{
		{"wrong password", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(`SELECT id, username, password_hash`).
				WithArgs("alice").
				WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "alice", hash))
		}, "alice"},
		{"unknown user", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(`SELECT id, username, password_hash`).
				WithArgs("nobody").
				WillReturnError(sql.ErrNoRows)
		}, "nobody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.setup(mock)

			h, s := newAuthHandler(db)
			rr := httptest.NewRecorder()
			h.Login(rr, postForm("/login", url.Values{"username": {tt.user}, "password": {"wrong"}}))

			if rr.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), MsgInvalidCredentials) {
				t.Error("missing invalid credentials message")
			}
			if _, ok := s.UserID(nextRequest(rr, "/")); ok {
				t.Error("failed login must not establish a session")
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	db, _ := newMock(t)
	h, s := newAuthHandler(db)

	rr := httptest.NewRecorder()
	if err := s.Login(rr, httptest.NewRequest(http.MethodGet, "/", nil), 4); err != nil {
		t.Fatal(err)
	}

	out := httptest.NewRecorder()
	h.Logout(out, nextRequest(rr, "/logout"))

	if out.Code != http.StatusFound || out.Header().Get("Location") != "/login" {
		t.Fatalf("got %d %q, want 302 /login", out.Code, out.Header().Get("Location"))
	}
	next := nextRequest(out, "/login")
	if _, ok := s.UserID(next); ok {
		t.Error("session should be anonymous after logout")
	}
	if !hasFlash(s.Flashes(httptest.NewRecorder(), next), auth.FlashInfo, MsgLoggedOut) {
		t.Error("missing logout flash")
	}
}

func TestAuthHandler_Forms(t *testing.T) {
	db, _ := newMock(t)
	h, _ := newAuthHandler(db)

	for path, fn := range map[string]http.HandlerFunc{"/login": h.LoginForm, "/register": h.RegisterForm} {
		rr := httptest.NewRecorder()
		fn(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `action="`+path+`"`) {
			t.Errorf("%s: got %d", path, rr.Code)
		}
	}
}
