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

package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/id"
)

// Service provides tenant directory business logic. Callers are
// expected to be HQ principals; permission checks happen in the
// transport guards, not here.
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new tenant service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// CreateInput holds the fields for creating a tenant
type CreateInput struct {
	Name      string
	DOTNumber string
	MCNumber  string
}

// Create registers a new tenant in the directory
func (s *Service) Create(ctx context.Context, input CreateInput, actorID string) (*Tenant, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}

	if _, err := s.repo.GetByName(ctx, input.Name); err == nil {
		return nil, ErrTenantAlreadyExists
	}

	now := time.Now()
	t := &Tenant{
		ID:        id.NewUUIDv7(),
		Name:      input.Name,
		DOTNumber: input.DOTNumber,
		MCNumber:  input.MCNumber,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantCreated,
		TenantID: t.ID,
		ActorID:  actorID,
		Resource: t.Name,
	})

	return t, nil
}

// Get retrieves a tenant by ID
func (s *Service) Get(ctx context.Context, tenantID string) (*Tenant, error) {
	return s.repo.GetByID(ctx, tenantID)
}

// GetByName retrieves a tenant by name
func (s *Service) GetByName(ctx context.Context, name string) (*Tenant, error) {
	return s.repo.GetByName(ctx, name)
}

// List lists tenants with pagination
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateInput holds the mutable tenant fields
type UpdateInput struct {
	Name      string
	DOTNumber string
	MCNumber  string
}

// Update edits a tenant's directory entry
func (s *Service) Update(ctx context.Context, tenantID string, input UpdateInput, actorID string) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		t.Name = input.Name
	}
	if input.DOTNumber != "" {
		t.DOTNumber = input.DOTNumber
	}
	if input.MCNumber != "" {
		t.MCNumber = input.MCNumber
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantUpdated,
		TenantID: t.ID,
		ActorID:  actorID,
		Resource: t.Name,
	})

	return t, nil
}

// Suspend blocks a tenant from using the platform. Suspending an
// already suspended tenant is a no-op.
func (s *Service) Suspend(ctx context.Context, tenantID, actorID, reason string) error {
	return s.setStatus(ctx, tenantID, StatusSuspended, audit.TypeTenantSuspended, actorID, reason)
}

// Activate restores a suspended tenant
func (s *Service) Activate(ctx context.Context, tenantID, actorID, reason string) error {
	return s.setStatus(ctx, tenantID, StatusActive, audit.TypeTenantActivated, actorID, reason)
}

func (s *Service) setStatus(ctx context.Context, tenantID, status, eventType, actorID, reason string) error {
	t, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}

	if t.Status == status {
		return nil
	}

	t.Status = status
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     eventType,
		TenantID: t.ID,
		ActorID:  actorID,
		Resource: t.Name,
		Metadata: map[string]any{audit.AttrReason: reason},
	})

	return nil
}

// RequireActive returns an error when the tenant is missing or
// suspended. Used by callers that act on behalf of a tenant.
func (s *Service) RequireActive(ctx context.Context, tenantID string) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if !t.IsActive() {
		return nil, ErrTenantSuspended
	}
	return t, nil
}
