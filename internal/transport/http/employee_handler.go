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
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightops/hq-access/internal/hq"
	"github.com/freightops/hq-access/internal/observability/logger"
	"github.com/freightops/hq-access/internal/rbac"
)

// ProvisionEmployeeRequest represents new employee data
type ProvisionEmployeeRequest struct {
	Email      string `json:"email" validate:"required,email"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
}

type employeeResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Active      bool   `json:"active"`
	LastLoginAt any    `json:"last_login_at,omitempty"`
}

func toEmployeeResponse(e *hq.Employee) employeeResponse {
	resp := employeeResponse{
		ID:         e.ID,
		Email:      e.Email,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Role:       string(e.Role),
		Department: string(e.Department),
		Active:     e.Active,
	}
	if e.LastLoginAt != nil {
		resp.LastLoginAt = *e.LastLoginAt
	}
	return resp
}

// ProvisionEmployee creates a new HQ employee account
func (h *Handler) ProvisionEmployee(w http.ResponseWriter, r *http.Request) {
	var req ProvisionEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	actor := GetPrincipal(r.Context())

	// An actor may only grant roles at or below their own position.
	targetRole := rbac.Role(req.Role)
	if h.registry.IsRole(targetRole) && !h.registry.CanAccessRole(actor.Role, targetRole) {
		respondError(w, http.StatusForbidden, "cannot grant a role senior to your own")
		return
	}

	emp, err := h.hqService.ProvisionEmployee(r.Context(),
		req.Email, req.FirstName, req.LastName,
		targetRole, rbac.Department(req.Department),
		actor.EmployeeID,
	)
	if err != nil {
		switch {
		case errors.Is(err, hq.ErrEmployeeAlreadyExists):
			respondError(w, http.StatusConflict, "employee already exists")
		case errors.Is(err, hq.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, hq.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, "unknown role")
		case errors.Is(err, hq.ErrInvalidDepartment):
			respondError(w, http.StatusBadRequest, "unknown department")
		default:
			slog.ErrorContext(r.Context(), "failed to provision employee",
				logger.Error(err),
				logger.Email(req.Email),
			)
			respondError(w, http.StatusInternalServerError, "failed to create employee")
		}
		return
	}

	if err := h.hqService.AddPassword(r.Context(), emp.ID, req.Password); err != nil {
		slog.ErrorContext(r.Context(), "failed to set password",
			logger.Error(err),
			logger.EmployeeID(emp.ID),
		)
		respondError(w, http.StatusBadRequest, "failed to set password: "+err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, toEmployeeResponse(emp))
}

// ListEmployees lists HQ employees with pagination
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 50)

	employees, err := h.hqService.ListEmployees(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list employees", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}

	resp := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, toEmployeeResponse(e))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"employees": resp,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetEmployee returns a single employee by ID
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	emp, err := h.hqService.GetEmployee(r.Context(), employeeID)
	if err != nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}

	respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

// AssignRoleRequest represents a role change
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// AssignRole changes an employee's role. The actor must hold a role
// senior to or equal with the one being granted; existing sessions of
// the target employee are revoked so the stale display cache cannot
// linger.
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var req AssignRoleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	actor := GetPrincipal(r.Context())
	targetRole := rbac.Role(req.Role)

	if h.registry.IsRole(targetRole) && !h.registry.CanAccessRole(actor.Role, targetRole) {
		respondError(w, http.StatusForbidden, "cannot grant a role senior to your own")
		return
	}

	if err := h.hqService.AssignRole(r.Context(), employeeID, targetRole, actor.EmployeeID); err != nil {
		switch {
		case errors.Is(err, hq.ErrEmployeeNotFound):
			respondError(w, http.StatusNotFound, "employee not found")
		case errors.Is(err, hq.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, "unknown role")
		default:
			slog.ErrorContext(r.Context(), "failed to assign role", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to assign role")
		}
		return
	}

	if err := h.sessionService.RevokeEmployee(r.Context(), employeeID); err != nil {
		slog.ErrorContext(r.Context(), "failed to revoke sessions after role change",
			logger.Error(err),
			logger.EmployeeID(employeeID),
		)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "role assigned",
		"role":    req.Role,
	})
}

// DeactivateEmployee disables an employee account and revokes their
// sessions.
func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	actor := GetPrincipal(r.Context())

	if employeeID == actor.EmployeeID {
		respondError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}

	if err := h.hqService.Deactivate(r.Context(), employeeID, actor.EmployeeID); err != nil {
		if errors.Is(err, hq.ErrEmployeeNotFound) {
			respondError(w, http.StatusNotFound, "employee not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to deactivate employee", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to deactivate employee")
		return
	}

	if err := h.sessionService.RevokeEmployee(r.Context(), employeeID); err != nil {
		slog.ErrorContext(r.Context(), "failed to revoke sessions after deactivation",
			logger.Error(err),
			logger.EmployeeID(employeeID),
		)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "employee deactivated",
	})
}

func paginationParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
