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

import (
	"errors"
	"fmt"
	"sort"
)

// Domain errors
var (
	ErrMissingRoleEntry     = errors.New("role has no permission map entry")
	ErrUnknownPermission    = errors.New("permission not in the global permission set")
	ErrUnknownHierarchyRole = errors.New("hierarchy references an undefined role")
	ErrCyclicHierarchy      = errors.New("role hierarchy contains a cycle")
)

// Registry is the immutable role/permission/department vocabulary together
// with the role→permission map and the transitive seniority relation.
// It is constructed once at startup and injected into everything that makes
// authorization decisions; after NewRegistry returns it is never mutated.
type Registry struct {
	rolePerms map[Role]map[Permission]struct{}
	juniors   map[Role]map[Role]struct{} // transitive closure of roleJuniors
	roleSet   map[Role]struct{}
	permSet   map[Permission]struct{}
	deptSet   map[Department]struct{}
}

// NewRegistry builds the registry from the static vocabulary tables and
// validates them: every role must have a permission entry, every attached
// permission must belong to the closed permission set, and the seniority
// hierarchy must be acyclic. A violation is a startup error, not a runtime
// condition.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		rolePerms: make(map[Role]map[Permission]struct{}, len(allRoles)),
		juniors:   make(map[Role]map[Role]struct{}, len(allRoles)),
		roleSet:   make(map[Role]struct{}, len(allRoles)),
		permSet:   make(map[Permission]struct{}, len(allPermissions)),
		deptSet:   make(map[Department]struct{}, len(allDepartments)),
	}

	for _, p := range allPermissions {
		r.permSet[p] = struct{}{}
	}
	for _, d := range allDepartments {
		r.deptSet[d] = struct{}{}
	}
	for _, role := range allRoles {
		r.roleSet[role] = struct{}{}
	}

	for _, role := range allRoles {
		perms, ok := rolePermissions[role]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingRoleEntry, role)
		}
		set := make(map[Permission]struct{}, len(perms))
		if role == RolePlatformOwner {
			// The owner holds the full permission set, expanded explicitly so
			// the subset invariant holds without wildcard entries.
			for _, p := range allPermissions {
				set[p] = struct{}{}
			}
		} else {
			for _, p := range perms {
				if _, known := r.permSet[p]; !known {
					return nil, fmt.Errorf("%w: %s on role %s", ErrUnknownPermission, p, role)
				}
				set[p] = struct{}{}
			}
		}
		r.rolePerms[role] = set
	}

	if err := r.buildHierarchy(); err != nil {
		return nil, err
	}

	return r, nil
}

// buildHierarchy validates roleJuniors and computes its transitive closure
// into r.juniors. Cycle detection is a three-color depth-first walk.
func (r *Registry) buildHierarchy() error {
	for senior, juniors := range roleJuniors {
		if _, ok := r.roleSet[senior]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHierarchyRole, senior)
		}
		for _, junior := range juniors {
			if _, ok := r.roleSet[junior]; !ok {
				return fmt.Errorf("%w: %s under %s", ErrUnknownHierarchyRole, junior, senior)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[Role]int, len(allRoles))

	var visit func(role Role) error
	visit = func(role Role) error {
		color[role] = gray
		for _, junior := range roleJuniors[role] {
			switch color[junior] {
			case gray:
				return fmt.Errorf("%w: %s is reachable from itself via %s", ErrCyclicHierarchy, junior, role)
			case white:
				if err := visit(junior); err != nil {
					return err
				}
			}
		}
		color[role] = black
		return nil
	}

	for _, role := range allRoles {
		if color[role] == white {
			if err := visit(role); err != nil {
				return err
			}
		}
	}

	// Transitive closure: a role satisfies everything its juniors satisfy.
	// The walk above guarantees termination.
	var collect func(role Role, into map[Role]struct{})
	collect = func(role Role, into map[Role]struct{}) {
		for _, junior := range roleJuniors[role] {
			if _, seen := into[junior]; seen {
				continue
			}
			into[junior] = struct{}{}
			collect(junior, into)
		}
	}

	for _, role := range allRoles {
		closure := make(map[Role]struct{})
		collect(role, closure)
		r.juniors[role] = closure
	}

	return nil
}

// PermissionsForRole returns the permissions granted to a role, sorted for
// stable output. An unknown role yields an empty set rather than an error:
// an unrecognized role is granted nothing, and callers must treat an empty
// set as deny.
func (r *Registry) PermissionsForRole(role Role) []Permission {
	set, ok := r.rolePerms[role]
	if !ok {
		return nil
	}
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// RolesBelow returns every role whose requirements the given role also
// satisfies under the seniority hierarchy, transitively. Unknown roles
// yield an empty set.
func (r *Registry) RolesBelow(role Role) []Role {
	set, ok := r.juniors[role]
	if !ok {
		return nil
	}
	roles := make([]Role, 0, len(set))
	for junior := range set {
		roles = append(roles, junior)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// AllRoles returns the closed role vocabulary.
func (r *Registry) AllRoles() []Role {
	roles := make([]Role, len(allRoles))
	copy(roles, allRoles)
	return roles
}

// AllPermissions returns the closed permission vocabulary.
func (r *Registry) AllPermissions() []Permission {
	perms := make([]Permission, len(allPermissions))
	copy(perms, allPermissions)
	return perms
}

// AllDepartments returns the closed department vocabulary.
func (r *Registry) AllDepartments() []Department {
	depts := make([]Department, len(allDepartments))
	copy(depts, allDepartments)
	return depts
}

// IsRole reports whether the identifier is part of the role vocabulary.
func (r *Registry) IsRole(role Role) bool {
	_, ok := r.roleSet[role]
	return ok
}

// IsDepartment reports whether the identifier is part of the department
// vocabulary.
func (r *Registry) IsDepartment(dept Department) bool {
	_, ok := r.deptSet[dept]
	return ok
}
