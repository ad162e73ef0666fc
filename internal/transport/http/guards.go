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
	"net/http"

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/rbac"
)

// Denial codes. Every guard rejection carries exactly one of these in
// the response body. Unauthenticated maps to 401; everything else is a
// 403 on an authenticated but insufficient principal.
const (
	DenialUnauthenticated  = "unauthenticated"
	DenialNotHQPrincipal   = "not_hq_principal"
	DenialRoleDenied       = "role_denied"
	DenialPermissionDenied = "permission_denied"
	DenialDepartmentDenied = "department_denied"
)

// DenialResponse is the terminal body for a rejected request. Required
// lists what the route demands; Current echoes what the principal
// holds. Echoing the held role/permissions back is a deliberate
// operator-debugging aid for an internal-only surface.
type DenialResponse struct {
	Error    string   `json:"error"`
	Required []string `json:"required,omitempty"`
	Current  []string `json:"current,omitempty"`
}

// RequireRole allows only principals whose role is in the given
// allow-list. Exact match; seniors do not pass implicitly. Use
// RequireSeniorRole where hierarchy should apply.
func (h *Handler) RequireRole(roles ...rbac.Role) func(http.Handler) http.Handler {
	required := make([]string, len(roles))
	for i, role := range roles {
		required[i] = string(role)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := h.requireHQPrincipal(w, r, "require_role")
			if !ok {
				return
			}

			if !rbac.HasAnyRole(p, roles...) {
				h.denyForbidden(w, r, "require_role", DenialResponse{
					Error:    DenialRoleDenied,
					Required: required,
					Current:  []string{string(p.Role)},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSeniorRole allows the given role and every role senior to it
// in the hierarchy.
func (h *Handler) RequireSeniorRole(role rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := h.requireHQPrincipal(w, r, "require_senior_role")
			if !ok {
				return
			}

			if !h.registry.CanAccessRole(p.Role, role) {
				h.denyForbidden(w, r, "require_senior_role", DenialResponse{
					Error:    DenialRoleDenied,
					Required: []string{string(role)},
					Current:  []string{string(p.Role)},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission allows only principals whose role grants ALL the
// given permissions. Permissions are derived from the registry by
// role; the session's embedded permission list is never consulted.
func (h *Handler) RequirePermission(perms ...rbac.Permission) func(http.Handler) http.Handler {
	required := make([]string, len(perms))
	for i, perm := range perms {
		required[i] = string(perm)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := h.requireHQPrincipal(w, r, "require_permission")
			if !ok {
				return
			}

			if !h.registry.HasAllPermissions(p, perms...) {
				held := h.registry.PermissionsForRole(p.Role)
				current := make([]string, len(held))
				for i, perm := range held {
					current[i] = string(perm)
				}

				h.denyForbidden(w, r, "require_permission", DenialResponse{
					Error:    DenialPermissionDenied,
					Required: required,
					Current:  current,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireDepartment allows only principals belonging to one of the
// given departments.
func (h *Handler) RequireDepartment(depts ...rbac.Department) func(http.Handler) http.Handler {
	required := make([]string, len(depts))
	for i, dept := range depts {
		required[i] = string(dept)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := h.requireHQPrincipal(w, r, "require_department")
			if !ok {
				return
			}

			allowed := false
			for _, dept := range depts {
				if p.Department == dept {
					allowed = true
					break
				}
			}

			if !allowed {
				h.denyForbidden(w, r, "require_department", DenialResponse{
					Error:    DenialDepartmentDenied,
					Required: required,
					Current:  []string{string(p.Department)},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requireHQPrincipal performs the checks shared by every guard: a
// principal must be present, and it must carry an HQ employee ID.
// Writes the denial itself and returns ok=false when either fails.
func (h *Handler) requireHQPrincipal(w http.ResponseWriter, r *http.Request, guard string) (*rbac.Principal, bool) {
	p := GetPrincipal(r.Context())
	if p == nil {
		h.auditDenial(r, guard, DenialUnauthenticated, nil)
		respondJSON(w, http.StatusUnauthorized, DenialResponse{
			Error: DenialUnauthenticated,
		})
		return nil, false
	}

	if !p.IsHQ() {
		h.denyForbidden(w, r, guard, DenialResponse{
			Error: DenialNotHQPrincipal,
		})
		return nil, false
	}

	return p, true
}

func (h *Handler) denyForbidden(w http.ResponseWriter, r *http.Request, guard string, denial DenialResponse) {
	h.auditDenial(r, guard, denial.Error, denial.Required)
	respondJSON(w, http.StatusForbidden, denial)
}

func (h *Handler) auditDenial(r *http.Request, guard, reason string, required []string) {
	metadata := map[string]any{
		audit.AttrGuard:  guard,
		audit.AttrReason: reason,
		"path":           r.URL.Path,
	}
	if len(required) > 0 {
		metadata[audit.AttrRequired] = required
	}

	actorID := ""
	if p := GetPrincipal(r.Context()); p != nil {
		actorID = p.EmployeeID
		metadata[audit.AttrRole] = string(p.Role)
		metadata[audit.AttrDepartment] = string(p.Department)
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeAccessDenied,
		ActorID:   actorID,
		Resource:  r.Method + " " + r.URL.Path,
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  metadata,
	})
}
