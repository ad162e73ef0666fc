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

package http

import (
	"log/slog"
	"net/http"

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/observability/logger"
)

// ListAuditEvents returns persisted audit events, newest first.
// Supports event_type, actor_id and tenant_id query filters.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 100)

	q := r.URL.Query()
	filter := audit.ListFilter{
		EventType: q.Get("event_type"),
		ActorID:   q.Get("actor_id"),
		TenantID:  q.Get("tenant_id"),
		Limit:     limit,
		Offset:    offset,
	}

	events, err := h.auditStore.List(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list audit events", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list audit events")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"limit":  limit,
		"offset": offset,
	})
}
