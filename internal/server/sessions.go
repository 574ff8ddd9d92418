package server

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultSessionTimeout is how long an idle session is kept before
	// the sweep loop drops it.
	DefaultSessionTimeout = 24 * time.Hour

	// sessionSweepInterval is how often expired sessions are removed.
	sessionSweepInterval = 10 * time.Minute
)

// ErrNoAuthorization is returned when a request carries no Authorization
// header to derive a session from.
var ErrNoAuthorization = errors.New("no authorization header provided")

// SessionTracker derives stable session IDs for the HTTP transport.
// Each distinct bearer token hashes to one session ID, so concurrent
// clients can be told apart in logs without the token itself ever being
// logged or stored. Idle sessions are swept in the background; call
// Stop when the transport shuts down.
type SessionTracker struct {
	mu       sync.Mutex
	sessions map[string]time.Time // session ID -> last access

	timeout time.Duration
	ticker  *time.Ticker
	done    chan struct{}
	logger  *slog.Logger
}

// NewSessionTracker creates a session tracker and starts its sweep loop.
// A non-positive timeout falls back to DefaultSessionTimeout.
func NewSessionTracker(timeout time.Duration, logger *slog.Logger) *SessionTracker {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	t := &SessionTracker{
		sessions: make(map[string]time.Time),
		timeout:  timeout,
		ticker:   time.NewTicker(sessionSweepInterval),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go t.sweep()
	return t
}

// Resolve derives the session ID for a request from its Authorization
// header. The header value is hashed, never kept.
func (t *SessionTracker) Resolve(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", ErrNoAuthorization
	}

	sum := sha256.Sum256([]byte(auth))
	return hex.EncodeToString(sum[:]), nil
}

// Touch records activity on a session and reports whether the session
// was seen for the first time.
func (t *SessionTracker) Touch(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, known := t.sessions[sessionID]
	t.sessions[sessionID] = time.Now()
	return !known
}

// Count returns the number of sessions active within the timeout window.
func (t *SessionTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// sweep drops sessions that have been idle past the timeout.
func (t *SessionTracker) sweep() {
	for {
		select {
		case <-t.ticker.C:
			t.mu.Lock()
			now := time.Now()
			expired := 0
			for id, last := range t.sessions {
				if now.Sub(last) > t.timeout {
					delete(t.sessions, id)
					expired++
				}
			}
			t.mu.Unlock()
			if expired > 0 {
				t.logger.Info("expired idle sessions", "count", expired)
			}
		case <-t.done:
			return
		}
	}
}

// Stop stops the sweep loop.
func (t *SessionTracker) Stop() {
	t.ticker.Stop()
	close(t.done)
}
