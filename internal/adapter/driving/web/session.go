package web

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

const sessionName = "vaultpanel-session"

func init() {
	gob.Register(model.Notice{})
	gob.Register(&ViewState{})
}

// SessionStore wraps the encrypted cookie store holding the backend token,
// the derived identity, and the per-session view state. The token never
// reaches the browser in readable form; the cookie is signed and encrypted
// with keys derived from the configured secret.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a SessionStore. Two 32-byte keys are derived from
// the secret: one for HMAC signing, one for AES content encryption. ttl
// bounds the cookie lifetime; the backend token usually expires sooner and
// a 401 ends the session regardless.
func NewSessionStore(secret string, ttl time.Duration, secure bool) *SessionStore {
	authKey := sha256.Sum256([]byte(secret + "auth"))
	encKey := sha256.Sum256([]byte(secret + "encryption"))

	store := sessions.NewCookieStore(authKey[:], encKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionStore{store: store}
}

// Current returns the session carried by the request, or ok=false when the
// request holds no valid session.
func (s *SessionStore) Current(r *http.Request) (model.Session, bool) {
	sess, _ := s.store.Get(r, sessionName)

	token, _ := sess.Values["token"].(string)
	username, _ := sess.Values["username"].(string)
	kind, _ := sess.Values["kind"].(string)
	expires, _ := sess.Values["expires"].(int64)

	session := model.Session{
		Token:     token,
		Username:  username,
		Kind:      model.SessionKind(kind),
		ExpiresAt: time.Unix(expires, 0),
	}
	if !session.Valid() {
		return model.Session{}, false
	}
	return session, true
}

// Set stores a session in the cookie, replacing any previous one. The view
// state is reset; a fresh login starts on the default tab with nothing
// revealed.
func (s *SessionStore) Set(w http.ResponseWriter, r *http.Request, session model.Session) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values["token"] = session.Token
	sess.Values["username"] = session.Username
	sess.Values["kind"] = string(session.Kind)
	sess.Values["expires"] = session.ExpiresAt.Unix()
	sess.Values["state"] = NewViewState(session.Kind)
	return sess.Save(r, w)
}

// Clear tears down the session. There is one teardown path for logout,
// token expiry, and backend 401s alike.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	_ = sess.Save(r, w)
}

// State returns the session's view state, creating a default one when the
// cookie predates the current layout.
func (s *SessionStore) State(r *http.Request) *ViewState {
	sess, _ := s.store.Get(r, sessionName)
	if state, ok := sess.Values["state"].(*ViewState); ok && state != nil {
		return state
	}
	kind, _ := sess.Values["kind"].(string)
	return NewViewState(model.SessionKind(kind))
}

// SaveState persists a mutated view state back into the cookie.
func (s *SessionStore) SaveState(w http.ResponseWriter, r *http.Request, state *ViewState) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values["state"] = state
	return sess.Save(r, w)
}

// Notify queues a one-shot notice shown on the next rendered page.
func (s *SessionStore) Notify(w http.ResponseWriter, r *http.Request, kind model.NoticeKind, message string) {
	sess, _ := s.store.Get(r, sessionName)
	sess.AddFlash(model.Notice{Kind: kind, Message: message})
	_ = sess.Save(r, w)
}

// Notices drains the queued notices. Reading them removes them; each notice
// is shown exactly once.
func (s *SessionStore) Notices(w http.ResponseWriter, r *http.Request) []model.Notice {
	sess, _ := s.store.Get(r, sessionName)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	notices := make([]model.Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(model.Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}
