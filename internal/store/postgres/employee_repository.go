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
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/freightops/hq-access/internal/hq"
	"github.com/freightops/hq-access/internal/rbac"
)

// EmployeeRepository implements hq.Repository
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `
	id, email, first_name, last_name, role, department, active,
	failed_login_attempts, locked_until, last_login_at,
	created_at, updated_at, deleted_at
`

// Create creates a new employee record
func (r *EmployeeRepository) Create(ctx context.Context, e *hq.Employee) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO employees (
			id, email, first_name, last_name, role, department, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		e.ID, e.Email, e.FirstName, e.LastName, string(e.Role), string(e.Department),
		e.Active, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}

	e.CreatedAt = now
	e.UpdatedAt = now

	return nil
}

// AddCredentials stores credentials for an employee
func (r *EmployeeRepository) AddCredentials(ctx context.Context, c *hq.Credentials) error {
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO employee_credentials (employee_id, password_hash, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at
	`, c.EmployeeID, c.PasswordHash, now)
	if err != nil {
		return fmt.Errorf("failed to insert credentials: %w", err)
	}

	c.UpdatedAt = now

	return nil
}

func scanEmployee(row pgx.Row) (*hq.Employee, error) {
	var e hq.Employee
	var role, department string
	var lockedUntil, lastLoginAt, deletedAt sql.NullTime

	err := row.Scan(
		&e.ID, &e.Email, &e.FirstName, &e.LastName, &role, &department, &e.Active,
		&e.FailedLoginAttempts, &lockedUntil, &lastLoginAt,
		&e.CreatedAt, &e.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hq.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}

	e.Role = rbac.Role(role)
	e.Department = rbac.Department(department)
	if lockedUntil.Valid {
		e.LockedUntil = &lockedUntil.Time
	}
	if lastLoginAt.Valid {
		e.LastLoginAt = &lastLoginAt.Time
	}
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}

	return &e, nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*hq.Employee, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanEmployee(row)
}

// GetByEmail retrieves an employee by email
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*hq.Employee, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE email = $1 AND deleted_at IS NULL
	`, email)
	return scanEmployee(row)
}

// Update updates employee information
func (r *EmployeeRepository) Update(ctx context.Context, e *hq.Employee) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE employees SET
			email = $2,
			first_name = $3,
			last_name = $4,
			role = $5,
			department = $6,
			active = $7,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`,
		e.ID, e.Email, e.FirstName, e.LastName, string(e.Role), string(e.Department), e.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}

	if result.RowsAffected() == 0 {
		return hq.ErrEmployeeNotFound
	}

	return nil
}

// UpdateLockout updates lockout state after a login attempt
func (r *EmployeeRepository) UpdateLockout(ctx context.Context, employeeID string, failedAttempts int, lockedUntil *time.Time) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE employees
		SET failed_login_attempts = $1, locked_until = $2, updated_at = NOW()
		WHERE id = $3
	`, failedAttempts, lockedUntil, employeeID)
	if err != nil {
		return fmt.Errorf("failed to update employee lockout status: %w", err)
	}
	return nil
}

// UpdateLastLogin records a successful login
func (r *EmployeeRepository) UpdateLastLogin(ctx context.Context, employeeID string, at time.Time) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE employees
		SET last_login_at = $1, updated_at = NOW()
		WHERE id = $2
	`, at, employeeID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *EmployeeRepository) UpdatePassword(ctx context.Context, employeeID, passwordHash string) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE employee_credentials SET password_hash = $2, updated_at = NOW()
		WHERE employee_id = $1
	`, employeeID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return hq.ErrEmployeeNotFound
	}

	return nil
}

// GetCredentials retrieves an employee's credentials
func (r *EmployeeRepository) GetCredentials(ctx context.Context, employeeID string) (*hq.Credentials, error) {
	var creds hq.Credentials

	err := r.db.pool.QueryRow(ctx, `
		SELECT employee_id, password_hash, updated_at
		FROM employee_credentials
		WHERE employee_id = $1
	`, employeeID).Scan(&creds.EmployeeID, &creds.PasswordHash, &creds.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hq.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}

	return &creds, nil
}

// List retrieves employees with pagination
func (r *EmployeeRepository) List(ctx context.Context, limit, offset int) ([]*hq.Employee, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE deleted_at IS NULL
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*hq.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

// CountByRole counts active employees holding a role
func (r *EmployeeRepository) CountByRole(ctx context.Context, role rbac.Role) (int, error) {
	var count int
	err := r.db.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM employees
		WHERE role = $1 AND active AND deleted_at IS NULL
	`, string(role)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees by role: %w", err)
	}
	return count, nil
}
