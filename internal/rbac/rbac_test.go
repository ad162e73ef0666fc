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

package rbac_test

import (
	"testing"

	"github.com/freightops/hq-access/internal/rbac"
)

func newRegistry(t *testing.T) *rbac.Registry {
	t.Helper()
	reg, err := rbac.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func principalWithRole(role rbac.Role) *rbac.Principal {
	return &rbac.Principal{
		EmployeeID: "emp-1",
		Email:      "staff@freightops.com",
		Role:       role,
		Department: rbac.DeptOperations,
	}
}

// TestPurpose: Validates that the static vocabulary tables pass construction
// validation: every role has a permission entry, the hierarchy is acyclic.
// Scope: Unit Test
// Expected: NewRegistry succeeds.
func TestRegistry_Construction(t *testing.T) {
	newRegistry(t)
}

// TestPurpose: Validates the closed-vocabulary invariant: for every defined
// role, PermissionsForRole returns a subset of the global permission set.
// Scope: Unit Test
// Security: No permission leaks outside the closed vocabulary.
// Expected: Every granted permission is a member of AllPermissions.
func TestRegistry_PermissionsSubsetOfVocabulary(t *testing.T) {
	reg := newRegistry(t)

	global := make(map[rbac.Permission]bool)
	for _, p := range reg.AllPermissions() {
		global[p] = true
	}

	for _, role := range reg.AllRoles() {
		for _, p := range reg.PermissionsForRole(role) {
			if !global[p] {
				t.Errorf("role %s grants %s which is outside the permission vocabulary", role, p)
			}
		}
	}
}

// TestPurpose: Validates that the platform owner's permission set is the full
// vocabulary, expanded explicitly rather than via a wildcard marker.
// Scope: Unit Test
// Expected: PermissionsForRole(platform_owner) covers AllPermissions exactly.
func TestRegistry_PlatformOwnerHoldsFullSet(t *testing.T) {
	reg := newRegistry(t)

	owner := reg.PermissionsForRole(rbac.RolePlatformOwner)
	if got, want := len(owner), len(reg.AllPermissions()); got != want {
		t.Fatalf("platform_owner holds %d permissions, want %d", got, want)
	}
	p := principalWithRole(rbac.RolePlatformOwner)
	for _, perm := range reg.AllPermissions() {
		if !reg.HasPermission(p, perm) {
			t.Errorf("platform_owner should hold %s", perm)
		}
	}
}

// TestPurpose: Validates that unknown roles fail open to an empty permission
// set instead of erroring, and that empty sets deny everything.
// Scope: Unit Test
// Security: Unrecognized roles are granted nothing.
// Expected: Empty set, all permission checks false.
func TestRegistry_UnknownRoleGrantsNothing(t *testing.T) {
	reg := newRegistry(t)

	if perms := reg.PermissionsForRole(rbac.Role("intern")); len(perms) != 0 {
		t.Fatalf("unknown role returned %d permissions, want 0", len(perms))
	}

	p := principalWithRole(rbac.Role("intern"))
	if reg.HasPermission(p, rbac.PermTenantView) {
		t.Error("unknown role must not be granted tenant:view")
	}
}

// TestPurpose: Validates that HasPermission is equivalent to membership in
// PermissionsForRole for every role/permission pair.
// Scope: Unit Test
// Expected: HasPermission(role R, P) iff P in PermissionsForRole(R).
func TestEvaluator_HasPermissionMatchesRegistry(t *testing.T) {
	reg := newRegistry(t)

	for _, role := range reg.AllRoles() {
		granted := make(map[rbac.Permission]bool)
		for _, p := range reg.PermissionsForRole(role) {
			granted[p] = true
		}
		principal := principalWithRole(role)
		for _, perm := range reg.AllPermissions() {
			if got := reg.HasPermission(principal, perm); got != granted[perm] {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", role, perm, got, granted[perm])
			}
		}
	}
}

// TestPurpose: Validates concrete policy decisions against the static tables.
// Scope: Unit Test
// Expected: platform_owner holds financial:view; hr_coordinator does not
// hold tenant:edit; support_specialist holds both support permissions while
// marketing_coordinator holds neither.
func TestEvaluator_PolicyScenarios(t *testing.T) {
	reg := newRegistry(t)

	tests := []struct {
		name       string
		role       rbac.Role
		permission rbac.Permission
		expected   bool
	}{
		{"platform owner can view financials", rbac.RolePlatformOwner, rbac.PermFinancialView, true},
		{"hr coordinator cannot edit tenants", rbac.RoleHRCoordinator, rbac.PermTenantEdit, false},
		{"support specialist can view tickets", rbac.RoleSupportSpecialist, rbac.PermSupportView, true},
		{"support specialist can respond", rbac.RoleSupportSpecialist, rbac.PermSupportRespond, true},
		{"marketing coordinator cannot view tickets", rbac.RoleMarketingCoordinator, rbac.PermSupportView, false},
		{"marketing coordinator cannot respond", rbac.RoleMarketingCoordinator, rbac.PermSupportRespond, false},
		{"financial analyst can reconcile", rbac.RoleFinancialAnalyst, rbac.PermFinancialReconcile, true},
		{"developer cannot run payroll", rbac.RoleDeveloper, rbac.PermPayrollRun, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := principalWithRole(tt.role)
			if got := reg.HasPermission(p, tt.permission); got != tt.expected {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.permission, got, tt.expected)
			}
		})
	}
}

// TestPurpose: Validates AND semantics of HasAllPermissions and the denial
// payload helper MissingPermissions.
// Scope: Unit Test
// Expected: All listed permissions must be held; missing ones are reported
// in order.
func TestEvaluator_HasAllPermissions(t *testing.T) {
	reg := newRegistry(t)

	support := principalWithRole(rbac.RoleSupportSpecialist)
	if !reg.HasAllPermissions(support, rbac.PermSupportView, rbac.PermSupportRespond) {
		t.Error("support_specialist holds both support:view and support:respond")
	}
	if reg.HasAllPermissions(support, rbac.PermSupportView, rbac.PermSupportEscalate) {
		t.Error("support_specialist must not satisfy a set containing support:escalate")
	}

	marketing := principalWithRole(rbac.RoleMarketingCoordinator)
	missing := reg.MissingPermissions(marketing, rbac.PermSupportView, rbac.PermSupportRespond)
	if len(missing) != 2 {
		t.Fatalf("marketing_coordinator should be missing both permissions, got %v", missing)
	}

	if reg.HasAllPermissions(nil, rbac.PermSupportView) {
		t.Error("nil principal must never satisfy a permission set")
	}
}

// TestPurpose: Validates exact-match role checks.
// Scope: Unit Test
// Expected: HasRole matches only the identical role; HasAnyRole matches set
// membership; nil principals always fail.
func TestEvaluator_RoleChecks(t *testing.T) {
	p := principalWithRole(rbac.RoleOperationsManager)

	if !rbac.HasRole(p, rbac.RoleOperationsManager) {
		t.Error("exact role match should pass")
	}
	if rbac.HasRole(p, rbac.RoleHQAdmin) {
		t.Error("exact role check must not match a different role")
	}
	if !rbac.HasAnyRole(p, rbac.RoleHQAdmin, rbac.RoleOperationsManager) {
		t.Error("set membership should pass")
	}
	if rbac.HasAnyRole(p, rbac.RolePlatformOwner, rbac.RoleHQAdmin) {
		t.Error("role outside the set must not pass")
	}
	if rbac.HasRole(nil, rbac.RoleHQAdmin) || rbac.HasAnyRole(nil, rbac.RoleHQAdmin) {
		t.Error("nil principal must fail every role check")
	}
}

// TestPurpose: Validates the transitive seniority relation used by the
// hierarchy-aware checks.
// Scope: Unit Test
// Expected: Seniors satisfy junior requirements transitively; the relation
// is not symmetric; unknown roles satisfy nothing.
func TestRegistry_Hierarchy(t *testing.T) {
	reg := newRegistry(t)

	tests := []struct {
		name     string
		acting   rbac.Role
		target   rbac.Role
		expected bool
	}{
		{"owner satisfies hq_admin", rbac.RolePlatformOwner, rbac.RoleHQAdmin, true},
		{"owner satisfies support_specialist transitively", rbac.RolePlatformOwner, rbac.RoleSupportSpecialist, true},
		{"hq_admin satisfies hr_coordinator transitively", rbac.RoleHQAdmin, rbac.RoleHRCoordinator, true},
		{"exact match satisfies itself", rbac.RoleQAEngineer, rbac.RoleQAEngineer, true},
		{"junior does not satisfy senior", rbac.RoleSupportSpecialist, rbac.RoleOperationsManager, false},
		{"siblings do not satisfy each other", rbac.RoleSalesManager, rbac.RoleHRManager, false},
		{"unknown role satisfies nothing", rbac.Role("intern"), rbac.RoleSupportSpecialist, false},
		{"unknown role does not satisfy itself", rbac.Role("intern"), rbac.Role("intern"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.CanAccessRole(tt.acting, tt.target); got != tt.expected {
				t.Errorf("CanAccessRole(%s, %s) = %v, want %v", tt.acting, tt.target, got, tt.expected)
			}
		})
	}

	// RolesBelow drives the same relation.
	for _, junior := range reg.RolesBelow(rbac.RoleHQAdmin) {
		if !reg.CanAccessRole(rbac.RoleHQAdmin, junior) {
			t.Errorf("RolesBelow and CanAccessRole disagree on %s", junior)
		}
	}
}

// TestPurpose: Validates the internal-staff marker check.
// Scope: Unit Test
// Security: Principals without an employee ID must be recognizable so guards
// can deny them regardless of role.
// Expected: IsHQ is false for nil principals and empty employee IDs.
func TestPrincipal_IsHQ(t *testing.T) {
	var nilPrincipal *rbac.Principal
	if nilPrincipal.IsHQ() {
		t.Error("nil principal is not HQ")
	}
	if (&rbac.Principal{Role: rbac.RolePlatformOwner}).IsHQ() {
		t.Error("principal without employee ID is not HQ even with a strong role")
	}
	if !(&rbac.Principal{EmployeeID: "emp-1"}).IsHQ() {
		t.Error("principal with employee ID is HQ")
	}
}
