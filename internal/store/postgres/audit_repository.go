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

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/freightops/hq-access/internal/audit"
)

// AuditRepository persists audit events and implements audit.Logger.
// Writes are best effort; a failed insert is reported to the error
// logger but never blocks the operation being audited.
type AuditRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *slog.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

// Log stores an audit event
func (r *AuditRepository) Log(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	metadata := []byte("{}")
	if len(event.Metadata) > 0 {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to marshal audit metadata",
				slog.String("event_type", event.Type),
				slog.String("error", err.Error()),
			)
		} else {
			metadata = data
		}
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO audit_events (
			event_type, tenant_id, actor_id, resource, metadata,
			ip_address, user_agent, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		event.Type, event.TenantID, event.ActorID, event.Resource, metadata,
		event.IPAddress, event.UserAgent, event.Timestamp,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to persist audit event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}

// List retrieves stored audit events, newest first
func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Event, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	query := `
		SELECT event_type, tenant_id, actor_id, resource, metadata,
			ip_address, user_agent, occurred_at
		FROM audit_events
		WHERE ($1 = '' OR event_type = $1)
		  AND ($2 = '' OR actor_id = $2)
		  AND ($3 = '' OR tenant_id = $3)
		ORDER BY occurred_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.pool.Query(ctx, query,
		filter.EventType, filter.ActorID, filter.TenantID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []*audit.Event
	for rows.Next() {
		var e audit.Event
		var metadata []byte

		err := rows.Scan(&e.Type, &e.TenantID, &e.ActorID, &e.Resource, &metadata,
			&e.IPAddress, &e.UserAgent, &e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}

		events = append(events, &e)
	}

	return events, rows.Err()
}
