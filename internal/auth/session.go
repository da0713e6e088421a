package auth

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie that carries the signed session.
	SessionName = "student-records-session"

	userIDKey = "user_id"
)

// Flash categories shown by the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-shot message rendered on the next page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// NewCookieStore returns a signed cookie store. An empty secret gets a random
// key, which invalidates sessions on restart. maxAge 0 keeps the cookie for the
// browser session.
func NewCookieStore(secret []byte, maxAge int, secure bool) *sessions.CookieStore {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(maxAge)
	return store
}

// Sessions reads and writes the login state and flash messages.
type Sessions struct {
	Store sessions.Store
}

func NewSessions(store sessions.Store) *Sessions {
	return &Sessions{Store: store}
}

// get never fails: an undecodable cookie yields a fresh session.
func (s *Sessions) get(r *http.Request) *sessions.Session {
	sess, err := s.Store.Get(r, SessionName)
	if err != nil {
		slog.Debug("discarding invalid session cookie", "error", err)
	}
	return sess
}

// UserID returns the logged-in user id, if any.
func (s *Sessions) UserID(r *http.Request) (int, bool) {
	id, ok := s.get(r).Values[userIDKey].(int)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// Login stores the user id in the session. Flashes are queued in the same save.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID int, flashes ...Flash) error {
	sess := s.get(r)
	sess.Values[userIDKey] = userID
	for _, f := range flashes {
		sess.AddFlash(f)
	}
	return sess.Save(r, w)
}

// Logout removes the user id but keeps the session so the given flashes survive.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request, flashes ...Flash) error {
	sess := s.get(r)
	delete(sess.Values, userIDKey)
	for _, f := range flashes {
		sess.AddFlash(f)
	}
	return sess.Save(r, w)
}

// AddFlash queues a message for the next rendered page.
func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	sess := s.get(r)
	sess.AddFlash(Flash{Category: category, Message: message})
	return sess.Save(r, w)
}

// Flashes pops all queued messages. Call before the response body is written.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := s.get(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		slog.Error("save session after reading flashes", "error", err)
	}
	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(Flash); ok {
			out = append(out, fl)
		}
	}
	return out
}
