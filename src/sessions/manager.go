package sessions

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finance/src/config"
	"finance/src/utils"
)

type contextKey string

const accountIDKey = contextKey("account_id")

// WithAccountID stores the authenticated account id for the request.
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFromContext returns the account id set by WithAccountID.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}

// Manager binds sessions in a Store to an HttpOnly cookie.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(store Store, cfg config.SessionConfig) *Manager {
	return &Manager{
		store:      store,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
	}
}

// Start creates a session for accountID and sets the cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, accountID int64) error {
	id, err := m.store.Create(ctx, accountID, m.ttl)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.ttl > 0 {
		cookie.MaxAge = int(m.ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// Authenticate returns the account id of the request's session. Store
// failures are logged and treated as no session.
func (m *Manager) Authenticate(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}

	accountID, err := m.store.Get(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			utils.LoggerFromContext(r.Context()).WithError(err).Error("session lookup failed")
		}
		return 0, false
	}
	return accountID, true
}

// End deletes the request's session, if any, and expires the cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.store.Delete(ctx, cookie.Value)
}
