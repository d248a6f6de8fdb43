// Package cookie implements the session store adapter: opaque session
// state persisted as browser-held, server-set cookies. It carries no
// business logic; the identity gateway decides what goes in.
package cookie

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"expense-tracker/app/domain"
)

const sessionTTL = 30 * 24 * time.Hour

// Store is a request-scoped session accessor backed by the request's
// cookies for reads and the response's Set-Cookie headers for writes.
// Values written in a request are visible to reads within the same
// request, so a callback can store tokens and resolve the identity in
// one round-trip.
type Store struct {
	c       echo.Context
	secure  bool
	written map[string]string
	removed map[string]bool
}

// New creates a session store bound to the given request context. The
// secure flag controls the cookies' Secure attribute; everything else
// (HttpOnly, SameSite=Lax, host-only, Path=/) is fixed policy.
func New(c echo.Context, secure bool) *Store {
	return &Store{
		c:       c,
		secure:  secure,
		written: make(map[string]string),
		removed: make(map[string]bool),
	}
}

// Get returns the session value for key, or "" if absent.
func (s *Store) Get(key string) string {
	if s.removed[key] {
		return ""
	}
	if v, ok := s.written[key]; ok {
		return v
	}
	cookie, err := s.c.Cookie(key)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Set writes the session value for key.
func (s *Store) Set(key, value string) {
	delete(s.removed, key)
	s.written[key] = value
	s.c.SetCookie(s.newCookie(key, value, sessionTTL))
}

// Remove deletes the session value for key.
func (s *Store) Remove(key string) {
	delete(s.written, key)
	s.removed[key] = true
	s.c.SetCookie(s.newCookie(key, "", -time.Hour))
}

// Destroy removes every session key as one unit.
func (s *Store) Destroy() {
	for _, key := range domain.SessionKeys {
		s.Remove(key)
	}
}

func (s *Store) newCookie(key, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}
