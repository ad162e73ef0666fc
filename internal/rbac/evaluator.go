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

package rbac

import "time"

// Principal is the authenticated subject of an authorization decision,
// attached to the request by the authentication layer.
//
// Permissions is a display cache computed from the registry at login time.
// The decision functions never consult it: permission checks always derive
// from the registry by role, so a role reassignment takes effect at the next
// check rather than drifting behind a stale session copy.
type Principal struct {
	EmployeeID  string       `json:"employee_id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Role        Role         `json:"role"`
	Department  Department   `json:"department"`
	Permissions []Permission `json:"permissions"`
	LastLogin   time.Time    `json:"last_login"`
}

// IsHQ reports whether the principal carries the internal-staff marker.
// Principals without an employee ID are denied by every guard regardless of
// role, permission, or department.
func (p *Principal) IsHQ() bool {
	return p != nil && p.EmployeeID != ""
}

// HasRole reports whether the principal holds exactly the given role.
// Not hierarchy-aware; see Registry.CanAccessRole for seniority checks.
func HasRole(p *Principal, role Role) bool {
	return p != nil && p.Role == role
}

// HasAnyRole reports whether the principal's role is a member of the set.
func HasAnyRole(p *Principal, roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the principal's role grants the permission.
// Derived from the registry at check time; the principal's embedded
// permission list is ignored.
func (r *Registry) HasPermission(p *Principal, perm Permission) bool {
	if p == nil {
		return false
	}
	set, ok := r.rolePerms[p.Role]
	if !ok {
		return false
	}
	_, granted := set[perm]
	return granted
}

// HasAllPermissions reports whether the principal's role grants every listed
// permission. An empty list is vacuously satisfied.
func (r *Registry) HasAllPermissions(p *Principal, perms ...Permission) bool {
	for _, perm := range perms {
		if !r.HasPermission(p, perm) {
			return false
		}
	}
	return p != nil
}

// MissingPermissions returns the subset of perms the principal's role does
// not grant, preserving order. Used to build denial payloads.
func (r *Registry) MissingPermissions(p *Principal, perms ...Permission) []Permission {
	var missing []Permission
	for _, perm := range perms {
		if !r.HasPermission(p, perm) {
			missing = append(missing, perm)
		}
	}
	return missing
}

// CanAccessRole reports whether the acting role satisfies a requirement for
// the target role: either an exact match or the target sits below the acting
// role in the seniority hierarchy.
func (r *Registry) CanAccessRole(acting, target Role) bool {
	if acting == target {
		_, known := r.roleSet[acting]
		return known
	}
	juniors, ok := r.juniors[acting]
	if !ok {
		return false
	}
	_, below := juniors[target]
	return below
}
