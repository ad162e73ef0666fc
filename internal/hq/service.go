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

package hq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/id"
	"github.com/freightops/hq-access/internal/rbac"
)

// Service provides HQ employee business logic
type Service struct {
	repo               Repository
	hasher             *PasswordHasher
	registry           *rbac.Registry
	auditLogger        audit.Logger
	lockoutMaxAttempts int
	lockoutDuration    time.Duration
}

// NewService creates a new HQ employee service
func NewService(
	repo Repository,
	hasher *PasswordHasher,
	registry *rbac.Registry,
	auditLogger audit.Logger,
	lockoutMaxAttempts int,
	lockoutDuration time.Duration,
) *Service {
	return &Service{
		repo:               repo,
		hasher:             hasher,
		registry:           registry,
		auditLogger:        auditLogger,
		lockoutMaxAttempts: lockoutMaxAttempts,
		lockoutDuration:    lockoutDuration,
	}
}

// ProvisionEmployee creates a new employee record with a role and department
// drawn from the registry vocabulary.
func (s *Service) ProvisionEmployee(ctx context.Context, email, firstName, lastName string, role rbac.Role, dept rbac.Department, createdBy string) (*Employee, error) {
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !s.registry.IsRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	if !s.registry.IsDepartment(dept) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDepartment, dept)
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmployeeAlreadyExists
	}

	emp := &Employee{
		ID:         id.NewUUIDv7(),
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       role,
		Department: dept,
		Active:     true,
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeEmployeeCreated,
		ActorID:  createdBy,
		Resource: emp.ID,
		Metadata: map[string]any{
			audit.AttrEmail:      email,
			audit.AttrRole:       string(role),
			audit.AttrDepartment: string(dept),
		},
	})

	return emp, nil
}

// AddPassword adds a password credential to an existing employee
func (s *Service) AddPassword(ctx context.Context, employeeID, password string) error {
	if !isStrongPassword(password) {
		return ErrWeakPassword
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.AddCredentials(ctx, &Credentials{
		EmployeeID:   employeeID,
		PasswordHash: passwordHash,
	}); err != nil {
		return fmt.Errorf("failed to add credentials: %w", err)
	}

	return nil
}

// Authenticate authenticates an employee with email and password, enforcing
// the failed-attempt lockout. On success the last-login timestamp is updated
// and the returned employee reflects it.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Employee, error) {
	emp, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Audit failed attempt (unknown employee)
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			Resource: email,
			Metadata: map[string]any{audit.AttrReason: "employee_not_found"},
		})
		return nil, ErrInvalidCredentials
	}

	if !emp.Active {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			ActorID:  emp.ID,
			Resource: "login",
			Metadata: map[string]any{audit.AttrReason: "deactivated"},
		})
		return nil, ErrEmployeeInactive
	}

	if emp.LockedUntil != nil && emp.LockedUntil.After(time.Now()) {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			ActorID:  emp.ID,
			Resource: "login",
			Metadata: map[string]any{audit.AttrReason: "locked_out"},
		})
		return nil, ErrAccountLocked
	}

	credentials, err := s.repo.GetCredentials(ctx, emp.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := s.hasher.Verify(password, credentials.PasswordHash)
	if err != nil || !valid {
		newAttempts := emp.FailedLoginAttempts + 1
		var newLockedUntil *time.Time

		if newAttempts >= s.lockoutMaxAttempts {
			until := time.Now().Add(s.lockoutDuration)
			newLockedUntil = &until
			s.auditLogger.Log(ctx, audit.Event{
				Type:     audit.TypeEmployeeLocked,
				ActorID:  emp.ID,
				Resource: "login",
				Metadata: map[string]any{audit.AttrAttempts: newAttempts},
			})
		}

		_ = s.repo.UpdateLockout(ctx, emp.ID, newAttempts, newLockedUntil)

		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			ActorID:  emp.ID,
			Resource: "login",
			Metadata: map[string]any{
				audit.AttrReason:   "invalid_password",
				audit.AttrAttempts: newAttempts,
			},
		})

		return nil, ErrInvalidCredentials
	}

	if emp.FailedLoginAttempts > 0 || emp.LockedUntil != nil {
		_ = s.repo.UpdateLockout(ctx, emp.ID, 0, nil)
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, emp.ID, now); err == nil {
		emp.LastLoginAt = &now
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLoginSuccess,
		ActorID:  emp.ID,
		Resource: "login",
	})

	return emp, nil
}

// PrincipalFor builds the request principal for an employee. The embedded
// permission list is a display cache; enforcement always re-derives from the
// registry by role.
func (s *Service) PrincipalFor(emp *Employee) *rbac.Principal {
	p := &rbac.Principal{
		EmployeeID:  emp.ID,
		Email:       emp.Email,
		FirstName:   emp.FirstName,
		LastName:    emp.LastName,
		Role:        emp.Role,
		Department:  emp.Department,
		Permissions: s.registry.PermissionsForRole(emp.Role),
	}
	if emp.LastLoginAt != nil {
		p.LastLogin = *emp.LastLoginAt
	}
	return p
}

// GetEmployee retrieves an employee by ID
func (s *Service) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	emp, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

// GetByEmail retrieves an employee by email
func (s *Service) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	return s.repo.GetByEmail(ctx, email)
}

// ListEmployees lists employees with pagination
func (s *Service) ListEmployees(ctx context.Context, limit, offset int) ([]*Employee, error) {
	return s.repo.List(ctx, limit, offset)
}

// AssignRole reassigns an employee's role. The change takes effect on the
// next authorization check; live sessions carry only a display cache.
func (s *Service) AssignRole(ctx context.Context, employeeID string, role rbac.Role, grantedBy string) error {
	if !s.registry.IsRole(role) {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	emp, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return ErrEmployeeNotFound
	}

	previous := emp.Role
	emp.Role = role
	if err := s.repo.Update(ctx, emp); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleAssigned,
		ActorID:  grantedBy,
		Resource: employeeID,
		Metadata: map[string]any{
			audit.AttrRole: string(role),
			"previous":     string(previous),
		},
	})

	return nil
}

// Deactivate disables an employee's access. Sessions are revoked by the
// caller; authentication refuses deactivated employees outright.
func (s *Service) Deactivate(ctx context.Context, employeeID, actorID string) error {
	emp, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return ErrEmployeeNotFound
	}

	emp.Active = false
	if err := s.repo.Update(ctx, emp); err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeEmployeeDeactivated,
		ActorID:  actorID,
		Resource: employeeID,
	})

	return nil
}

// ChangePassword changes an employee's password
func (s *Service) ChangePassword(ctx context.Context, employeeID, oldPassword, newPassword string) error {
	credentials, err := s.repo.GetCredentials(ctx, employeeID)
	if err != nil {
		return ErrEmployeeNotFound
	}

	valid, err := s.hasher.Verify(oldPassword, credentials.PasswordHash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	if !isStrongPassword(newPassword) {
		return ErrWeakPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, employeeID, newHash); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePasswordChanged,
		ActorID:  employeeID,
		Resource: employeeID,
	})

	return nil
}

// Helper functions
func isValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && len(email) < 255
}

func isStrongPassword(password string) bool {
	// Password must be at least 8 characters
	return len(password) >= 8
}
