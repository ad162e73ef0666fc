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
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freightops/hq-access/internal/observability/logger"
	"github.com/freightops/hq-access/internal/tenant"
)

// CreateTenantRequest represents new tenant data
type CreateTenantRequest struct {
	Name      string `json:"name" validate:"required"`
	DOTNumber string `json:"dot_number"`
	MCNumber  string `json:"mc_number"`
}

// CreateTenant registers a new tenant in the directory
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	actor := GetPrincipal(r.Context())

	t, err := h.tenantService.Create(r.Context(), tenant.CreateInput{
		Name:      req.Name,
		DOTNumber: req.DOTNumber,
		MCNumber:  req.MCNumber,
	}, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantAlreadyExists) {
			respondError(w, http.StatusConflict, "tenant already exists")
			return
		}
		slog.ErrorContext(r.Context(), "failed to create tenant", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create tenant")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// ListTenants lists tenants with pagination
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 50)

	tenants, err := h.tenantService.List(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list tenants", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"tenants": tenants,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetTenant returns a single tenant by ID
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	t, err := h.tenantService.Get(r.Context(), tenantID)
	if err != nil {
		respondError(w, http.StatusNotFound, "tenant not found")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// UpdateTenantRequest represents tenant directory edits
type UpdateTenantRequest struct {
	Name      string `json:"name"`
	DOTNumber string `json:"dot_number"`
	MCNumber  string `json:"mc_number"`
}

// UpdateTenant edits a tenant's directory entry
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var req UpdateTenantRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	actor := GetPrincipal(r.Context())

	t, err := h.tenantService.Update(r.Context(), tenantID, tenant.UpdateInput{
		Name:      req.Name,
		DOTNumber: req.DOTNumber,
		MCNumber:  req.MCNumber,
	}, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to update tenant", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to update tenant")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// SuspendTenantRequest carries the operator's reason for the status
// change, recorded in the audit trail.
type SuspendTenantRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SuspendTenant blocks a tenant from using the platform
func (h *Handler) SuspendTenant(w http.ResponseWriter, r *http.Request) {
	h.setTenantStatus(w, r, h.tenantService.Suspend, "tenant suspended")
}

// ActivateTenant restores a suspended tenant
func (h *Handler) ActivateTenant(w http.ResponseWriter, r *http.Request) {
	h.setTenantStatus(w, r, h.tenantService.Activate, "tenant activated")
}

func (h *Handler) setTenantStatus(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, tenantID, actorID, reason string) error,
	message string,
) {
	tenantID := chi.URLParam(r, "tenantID")

	var req SuspendTenantRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	actor := GetPrincipal(r.Context())

	if err := op(r.Context(), tenantID, actor.EmployeeID, req.Reason); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to change tenant status", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to change tenant status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}
