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

//go:build integration
// +build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/freightops/hq-access/internal/hq"
	"github.com/freightops/hq-access/internal/id"
	"github.com/freightops/hq-access/internal/rbac"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Host:         envOr("PGHOST", "localhost"),
		Port:         envOr("PGPORT", "5432"),
		User:         envOr("PGUSER", "freightops"),
		Password:     envOr("PGPASSWORD", "freightops_dev_password"),
		Database:     envOr("PGDATABASE", "hq_access"),
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 5,
	}

	ctx := context.Background()
	db, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx, InitialSchema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TestPurpose: Validates employee persistence round-trip including lockout state.
// Scope: Database Integration Test
// Expected: An employee written through the repository is read back with the
// same role, department and lockout fields.
// Test Case ID: EMP-DB-01
func TestEmployeeRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	e := &hq.Employee{
		ID:         id.NewUUIDv7(),
		Email:      fmt.Sprintf("it-%s@freightops.example", id.NewUUIDv7()),
		FirstName:  "Integration",
		LastName:   "Test",
		Role:       rbac.RoleSupportSpecialist,
		Department: rbac.DeptSupport,
		Active:     true,
	}

	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}

	got, err := repo.GetByEmail(ctx, e.Email)
	if err != nil {
		t.Fatalf("failed to get employee by email: %v", err)
	}
	if got.Role != rbac.RoleSupportSpecialist || got.Department != rbac.DeptSupport {
		t.Errorf("round-trip mismatch: role=%s department=%s", got.Role, got.Department)
	}

	lockedUntil := time.Now().Add(15 * time.Minute)
	if err := repo.UpdateLockout(ctx, e.ID, 3, &lockedUntil); err != nil {
		t.Fatalf("failed to update lockout: %v", err)
	}

	got, err = repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("failed to get employee by id: %v", err)
	}
	if got.FailedLoginAttempts != 3 || got.LockedUntil == nil {
		t.Errorf("lockout state not persisted: attempts=%d locked=%v",
			got.FailedLoginAttempts, got.LockedUntil)
	}
}
