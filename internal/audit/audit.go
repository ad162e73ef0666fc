// Copyright 2026 FreightOps Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Event types
const (
	TypeLoginSuccess        = "login_success"
	TypeLoginFailed         = "login_failed"
	TypeLogout              = "logout"
	TypeEmployeeLocked      = "employee_locked"
	TypeEmployeeCreated     = "employee_created"
	TypeEmployeeDeactivated = "employee_deactivated"
	TypeRoleAssigned        = "role_assigned"
	TypePasswordChanged     = "password_changed"
	TypeAccessDenied        = "access_denied"
	TypeTokenIssued         = "token_issued"
	TypeTenantCreated       = "tenant_created"
	TypeTenantUpdated       = "tenant_updated"
	TypeTenantSuspended     = "tenant_suspended"
	TypeTenantActivated     = "tenant_activated"
	TypeOwnerBootstrap      = "platform_owner_bootstrap"
)

// Well-known metadata keys
const (
	AttrReason     = "reason"
	AttrAttempts   = "attempts"
	AttrEmail      = "email"
	AttrTenantID   = "tenant_id"
	AttrRole       = "role"
	AttrDepartment = "department"
	AttrRequired   = "required"
	AttrCurrent    = "current"
	AttrGuard      = "guard"
)

// Well-known actor and resource identifiers
const (
	ActorSystemBootstrap = "system:bootstrap"
	ResourcePlatform     = "platform"
)

// Event represents an auditable action
type Event struct {
	Type      string         `json:"type"`
	TenantID  string         `json:"tenant_id,omitempty"`
	ActorID   string         `json:"actor_id,omitempty"`
	Resource  string         `json:"resource,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, event Event)
}

// SlogLogger implements Logger using slog
type SlogLogger struct{}

// NewSlogLogger creates a new audit logger
func NewSlogLogger() *SlogLogger {
	return &SlogLogger{}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String("audit_type", event.Type),
		slog.String("tenant_id", event.TenantID),
		slog.String("actor_id", event.ActorID),
		slog.String("resource", event.Resource),
		slog.Time("timestamp", event.Timestamp),
	}

	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	// Flatten metadata
	if len(event.Metadata) > 0 {
		group := []any{}
		for k, v := range event.Metadata {
			// Redact secrets
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", group...))
	}

	// Log at INFO level with "audit" component
	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String("component", "audit"))...)
}

// Fanout sends each event to every wrapped logger. Used to pair the slog
// sink with a persistent one.
type Fanout []Logger

// Log records an audit event on every wrapped logger
func (f Fanout) Log(ctx context.Context, event Event) {
	for _, l := range f {
		l.Log(ctx, event)
	}
}

// isSecret checks if a key likely contains a secret
func isSecret(key string) bool {
	k := strings.ToLower(key)
	markers := []string{"password", "secret", "token", "key", "authorization", "hash", "credential"}
	for _, m := range markers {
		if strings.Contains(k, m) {
			return true
		}
	}
	return false
}
