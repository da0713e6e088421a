package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/repo"
)

func testSessions() *auth.Sessions {
	return auth.NewSessions(auth.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), 0, false))
}

// loggedInRequest returns a request carrying a session cookie for userID.
func loggedInRequest(t *testing.T, s *auth.Sessions, userID int) *http.Request {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := s.Login(rr, httptest.NewRequest(http.MethodGet, "/", nil), userID); err != nil {
		t.Fatalf("Login: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_Anonymous(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := testSessions()
	called := false
	h := RequireAuth(s, repo.NewUserRepo(db))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Error("handler should not run for anonymous request")
	}
	if rr.Code != http.StatusFound {
		t.Fatalf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Location: got %q, want %q", loc, LoginPath)
	}

	// The guard leaves a flash for the login page.
	req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	flashes := s.Flashes(httptest.NewRecorder(), req)
	if len(flashes) != 1 || flashes[0].Message != MsgLoginRequired || flashes[0].Category != auth.FlashInfo {
		t.Errorf("unexpected flashes: %+v", flashes)
	}
}

func TestRequireAuth_LoadsUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(7, "alice", "hash"))

	s := testSessions()
	var gotID int
	var gotName string
	h := RequireAuth(s, repo.NewUserRepo(db))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		if u, ok := GetUser(r.Context()); ok {
			gotName = u.Username
		}
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, loggedInRequest(t, s, 7))

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if gotID != 7 || gotName != "alice" {
		t.Errorf("context user: got %d %q", gotID, gotName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)

	s := testSessions()
	h := RequireAuth(s, repo.NewUserRepo(db))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for a deleted user")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, loggedInRequest(t, s, 9))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != LoginPath {
		t.Errorf("got %d %q, want redirect to login", rr.Code, rr.Header().Get("Location"))
	}
}

func TestRequireAuth_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(3).
		WillReturnError(sql.ErrConnDone)

	s := testSessions()
	h := RequireAuth(s, repo.NewUserRepo(db))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, loggedInRequest(t, s, 3))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}

func TestGetUser_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetUser(req.Context()); ok {
		t.Error("GetUser should be false without a user")
	}
	if _, ok := GetUserID(req.Context()); ok {
		t.Error("GetUserID should be false without a user")
	}
}
