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
	"os"

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/rbac"
)

const (
	EnvBootstrapOwnerEmail    = "FO_BOOTSTRAP_OWNER_EMAIL"
	EnvBootstrapOwnerPassword = "FO_BOOTSTRAP_OWNER_PASSWORD"
)

// Bootstrap seeds the initial platform owner from environment configuration.
// It is a no-op when no bootstrap email is configured or when a platform
// owner already exists, so it is safe to run on every startup.
func (s *Service) Bootstrap(ctx context.Context) error {
	email := os.Getenv(EnvBootstrapOwnerEmail)
	password := os.Getenv(EnvBootstrapOwnerPassword)

	if email == "" {
		return nil
	}

	owners, err := s.repo.CountByRole(ctx, rbac.RolePlatformOwner)
	if err != nil {
		return fmt.Errorf("failed to check for existing platform owner: %w", err)
	}
	if owners > 0 {
		// Already bootstrapped, skip silently
		return nil
	}

	if password == "" {
		return fmt.Errorf("%s is required when bootstrapping the platform owner", EnvBootstrapOwnerPassword)
	}

	emp, err := s.ProvisionEmployee(ctx, email, "Platform", "Owner", rbac.RolePlatformOwner, rbac.DeptExecutive, audit.ActorSystemBootstrap)
	if err != nil {
		return fmt.Errorf("failed to provision platform owner: %w", err)
	}

	if err := s.AddPassword(ctx, emp.ID, password); err != nil {
		return fmt.Errorf("failed to set platform owner password: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeOwnerBootstrap,
		ActorID:  emp.ID,
		Resource: audit.ResourcePlatform,
		Metadata: map[string]any{audit.AttrEmail: email},
	})

	fmt.Printf("Successfully bootstrapped initial Platform Owner: %s\n", email)
	return nil
}
