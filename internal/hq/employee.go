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
	"errors"
	"time"

	"github.com/freightops/hq-access/internal/rbac"
)

// Domain errors
var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeAlreadyExists = errors.New("employee already exists")
	ErrEmployeeInactive      = errors.New("employee is deactivated")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrWeakPassword          = errors.New("password does not meet security requirements")
	ErrAccountLocked         = errors.New("account is locked")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidDepartment     = errors.New("invalid department")
)

// Employee represents an internal FreightOps staff member. Employees are the
// only subjects the HQ control plane authenticates; tenant (carrier) users
// never pass through this service.
type Employee struct {
	ID                  string
	Email               string
	FirstName           string
	LastName            string
	Role                rbac.Role
	Department          rbac.Department
	Active              bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// Credentials represents an employee's password credential
type Credentials struct {
	EmployeeID   string
	PasswordHash string
	UpdatedAt    time.Time
}

// Repository defines the interface for employee persistence
type Repository interface {
	// Create creates a new employee record
	Create(ctx context.Context, e *Employee) error

	// AddCredentials stores credentials for an employee
	AddCredentials(ctx context.Context, c *Credentials) error

	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (*Employee, error)

	// GetByEmail retrieves an employee by email
	GetByEmail(ctx context.Context, email string) (*Employee, error)

	// Update updates employee information
	Update(ctx context.Context, e *Employee) error

	// UpdateLockout updates lockout state after a login attempt
	UpdateLockout(ctx context.Context, employeeID string, failedAttempts int, lockedUntil *time.Time) error

	// UpdateLastLogin records a successful login
	UpdateLastLogin(ctx context.Context, employeeID string, at time.Time) error

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, employeeID, passwordHash string) error

	// GetCredentials retrieves an employee's credentials
	GetCredentials(ctx context.Context, employeeID string) (*Credentials, error)

	// List retrieves employees with pagination
	List(ctx context.Context, limit, offset int) ([]*Employee, error)

	// CountByRole counts active employees holding a role
	CountByRole(ctx context.Context, role rbac.Role) (int, error)
}
