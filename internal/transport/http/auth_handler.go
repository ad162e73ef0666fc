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

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/hq"
	"github.com/freightops/hq-access/internal/observability/logger"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an employee and creates a session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	emp, err := h.hqService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, hq.ErrAccountLocked):
			respondError(w, http.StatusLocked, "account is temporarily locked")
		case errors.Is(err, hq.ErrEmployeeInactive):
			respondError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			respondError(w, http.StatusUnauthorized, "invalid credentials")
		}
		return
	}

	principal := h.hqService.PrincipalFor(emp)

	sess, err := h.sessionService.Create(r.Context(), *principal, getIPAddress(r), r.UserAgent())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID)

	respondJSON(w, http.StatusOK, principal)
}

// Logout destroys the current session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionID(r.Context())
	if sessionID != "" {
		if err := h.sessionService.Delete(r.Context(), sessionID); err != nil {
			slog.ErrorContext(r.Context(), "failed to delete session", logger.Error(err))
		}

		if p := GetPrincipal(r.Context()); p != nil {
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeLogout,
				ActorID:   p.EmployeeID,
				Resource:  "session",
				IPAddress: getIPAddress(r),
				UserAgent: r.UserAgent(),
			})
		}
	}

	h.clearSessionCookie(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Me returns the authenticated principal, including the display
// permission list for the current role.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())
	if p == nil {
		respondJSON(w, http.StatusUnauthorized, DenialResponse{Error: DenialUnauthenticated})
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword updates the password for the current employee
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())
	if p == nil || !p.IsHQ() {
		respondJSON(w, http.StatusUnauthorized, DenialResponse{Error: DenialUnauthenticated})
		return
	}

	var req ChangePasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.hqService.ChangePassword(r.Context(), p.EmployeeID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, hq.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid old password")
		case errors.Is(err, hq.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "new password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// IssueToken mints a bearer access token for the current employee,
// for use by automation clients.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())
	if p == nil || !p.IsHQ() {
		respondJSON(w, http.StatusUnauthorized, DenialResponse{Error: DenialUnauthenticated})
		return
	}

	signed, expiresAt, err := h.tokenService.Issue(p)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue token", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeTokenIssued,
		ActorID:   p.EmployeeID,
		Resource:  "access_token",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{audit.AttrRole: string(p.Role)},
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_at":   expiresAt,
	})
}
