package session

import (
	"context"
	"errors"
	"time"

	"github.com/freightops/hq-access/internal/rbac"
)

// Domain errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInvalid  = errors.New("session invalid")
)

// Session represents an authenticated HQ employee session. The embedded
// principal is snapshotted at login; enforcement re-derives permissions from
// the registry, so the snapshot going stale only affects display.
type Session struct {
	ID         string         `json:"id"`
	Principal  rbac.Principal `json:"principal"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	ExpiresAt  time.Time      `json:"expires_at"`
	CreatedAt  time.Time      `json:"created_at"`
	LastSeenAt time.Time      `json:"last_seen_at"`
}

// IsExpired checks if the session has passed its absolute lifetime
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsIdle checks if the session has been idle for too long
func (s *Session) IsIdle(idleTimeout time.Duration) bool {
	return time.Since(s.LastSeenAt) > idleTimeout
}

// Repository defines the interface for session persistence
type Repository interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Update persists session changes (last seen time)
	Update(ctx context.Context, session *Session) error

	// Delete deletes a session
	Delete(ctx context.Context, sessionID string) error

	// DeleteByEmployee deletes all sessions belonging to an employee
	DeleteByEmployee(ctx context.Context, employeeID string) error
}
