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

// Role identifies an HQ staff role. Roles are a closed set defined at
// compile time; they are never created or destroyed at runtime.
type Role string

// Permission identifies a guarded capability, namespaced as "area:action".
type Permission string

// Department identifies the HQ department an employee belongs to.
// Department checks are orthogonal to role and permission checks.
type Department string

// -----------------------------------------------------------------------------
// Role Constants
// These are the canonical names for HQ roles stored with employee records.
// -----------------------------------------------------------------------------

const (
	// RolePlatformOwner is the platform-wide owner role.
	// Permissions: all defined permissions.
	RolePlatformOwner Role = "platform_owner"

	// RoleHQAdmin is the HQ administrator role, one step below the owner.
	RoleHQAdmin Role = "hq_admin"

	RoleOperationsManager      Role = "operations_manager"
	RoleCustomerSuccessManager Role = "customer_success_manager"
	RoleFinancialAnalyst       Role = "financial_analyst"
	RoleSupportSpecialist      Role = "support_specialist"
	RoleDeveloper              Role = "developer"
	RoleQAEngineer             Role = "qa_engineer"
	RoleSalesManager           Role = "sales_manager"
	RoleMarketingCoordinator   Role = "marketing_coordinator"
	RoleHRManager              Role = "hr_manager"
	RoleHRCoordinator          Role = "hr_coordinator"
)

// -----------------------------------------------------------------------------
// Department Constants
// -----------------------------------------------------------------------------

const (
	DeptExecutive       Department = "executive"
	DeptAdministration  Department = "administration"
	DeptOperations      Department = "operations"
	DeptCustomerSuccess Department = "customer_success"
	DeptFinance         Department = "finance"
	DeptSupport         Department = "support"
	DeptHR              Department = "hr"
	DeptEngineering     Department = "engineering"
	DeptQA              Department = "qa"
	DeptSales           Department = "sales"
	DeptMarketing       Department = "marketing"
)

// -----------------------------------------------------------------------------
// Permission Constants
// Namespaced by resource area. Adding a permission here without attaching it
// to at least one role makes it unreachable, which NewRegistry tolerates;
// attaching a permission that is not listed here is a construction error.
// -----------------------------------------------------------------------------

const (
	PermTenantView    Permission = "tenant:view"
	PermTenantCreate  Permission = "tenant:create"
	PermTenantEdit    Permission = "tenant:edit"
	PermTenantSuspend Permission = "tenant:suspend"

	PermFinancialView      Permission = "financial:view"
	PermFinancialReconcile Permission = "financial:reconcile"
	PermFinancialExport    Permission = "financial:export"

	PermBillingView   Permission = "billing:view"
	PermBillingManage Permission = "billing:manage"

	PermBankingView     Permission = "banking:view"
	PermBankingTransfer Permission = "banking:transfer"

	PermPayrollView Permission = "payroll:view"
	PermPayrollRun  Permission = "payroll:run"

	PermSupportView     Permission = "support:view"
	PermSupportRespond  Permission = "support:respond"
	PermSupportEscalate Permission = "support:escalate"

	PermUserView   Permission = "user:view"
	PermUserManage Permission = "user:manage"

	PermIntegrationView   Permission = "integration:view"
	PermIntegrationManage Permission = "integration:manage"

	PermSystemConfigure Permission = "system:configure"
	PermSystemDeploy    Permission = "system:deploy"

	PermAuditView Permission = "audit:view"

	PermSalesView   Permission = "sales:view"
	PermSalesManage Permission = "sales:manage"

	PermMarketingView   Permission = "marketing:view"
	PermMarketingManage Permission = "marketing:manage"

	PermHRView   Permission = "hr:view"
	PermHRManage Permission = "hr:manage"
)

// allRoles is the closed role vocabulary, in seniority-ish display order.
var allRoles = []Role{
	RolePlatformOwner,
	RoleHQAdmin,
	RoleOperationsManager,
	RoleCustomerSuccessManager,
	RoleFinancialAnalyst,
	RoleSupportSpecialist,
	RoleDeveloper,
	RoleQAEngineer,
	RoleSalesManager,
	RoleMarketingCoordinator,
	RoleHRManager,
	RoleHRCoordinator,
}

// allDepartments is the closed department vocabulary.
var allDepartments = []Department{
	DeptExecutive,
	DeptAdministration,
	DeptOperations,
	DeptCustomerSuccess,
	DeptFinance,
	DeptSupport,
	DeptHR,
	DeptEngineering,
	DeptQA,
	DeptSales,
	DeptMarketing,
}

// allPermissions is the closed permission vocabulary.
var allPermissions = []Permission{
	PermTenantView,
	PermTenantCreate,
	PermTenantEdit,
	PermTenantSuspend,
	PermFinancialView,
	PermFinancialReconcile,
	PermFinancialExport,
	PermBillingView,
	PermBillingManage,
	PermBankingView,
	PermBankingTransfer,
	PermPayrollView,
	PermPayrollRun,
	PermSupportView,
	PermSupportRespond,
	PermSupportEscalate,
	PermUserView,
	PermUserManage,
	PermIntegrationView,
	PermIntegrationManage,
	PermSystemConfigure,
	PermSystemDeploy,
	PermAuditView,
	PermSalesView,
	PermSalesManage,
	PermMarketingView,
	PermMarketingManage,
	PermHRView,
	PermHRManage,
}

// rolePermissions maps every role to its granted permissions.
// RolePlatformOwner is the sole exception: it is expanded to the full
// permission set by NewRegistry so that PermissionsForRole always returns a
// subset of allPermissions (no wildcard entries that can leak outside the
// closed vocabulary).
var rolePermissions = map[Role][]Permission{
	RolePlatformOwner: nil, // expanded to allPermissions at construction

	RoleHQAdmin: {
		PermTenantView,
		PermTenantCreate,
		PermTenantEdit,
		PermTenantSuspend,
		PermFinancialView,
		PermFinancialExport,
		PermBillingView,
		PermBillingManage,
		PermBankingView,
		PermPayrollView,
		PermSupportView,
		PermSupportRespond,
		PermSupportEscalate,
		PermUserView,
		PermUserManage,
		PermIntegrationView,
		PermIntegrationManage,
		PermSystemConfigure,
		PermAuditView,
		PermSalesView,
		PermMarketingView,
		PermHRView,
	},

	RoleOperationsManager: {
		PermTenantView,
		PermTenantEdit,
		PermSupportView,
		PermSupportEscalate,
		PermIntegrationView,
		PermAuditView,
	},

	RoleCustomerSuccessManager: {
		PermTenantView,
		PermSupportView,
		PermSupportRespond,
		PermSupportEscalate,
	},

	RoleFinancialAnalyst: {
		PermTenantView,
		PermFinancialView,
		PermFinancialReconcile,
		PermFinancialExport,
		PermBillingView,
		PermBankingView,
	},

	RoleSupportSpecialist: {
		PermTenantView,
		PermSupportView,
		PermSupportRespond,
	},

	RoleDeveloper: {
		PermSystemConfigure,
		PermSystemDeploy,
		PermIntegrationView,
		PermIntegrationManage,
		PermAuditView,
	},

	RoleQAEngineer: {
		PermTenantView,
		PermSystemConfigure,
		PermIntegrationView,
	},

	RoleSalesManager: {
		PermTenantView,
		PermTenantCreate,
		PermSalesView,
		PermSalesManage,
		PermMarketingView,
	},

	RoleMarketingCoordinator: {
		PermMarketingView,
		PermMarketingManage,
	},

	RoleHRManager: {
		PermHRView,
		PermHRManage,
		PermPayrollView,
		PermPayrollRun,
	},

	RoleHRCoordinator: {
		PermHRView,
		PermPayrollView,
	},
}

// roleJuniors maps a role to the roles directly below it in the seniority
// hierarchy. A senior role satisfies a junior role's requirement only through
// the hierarchy-aware checks (CanAccessRole, RequireSeniorRole); the exact
// allow-list checks ignore this table on purpose so call sites can keep
// explicit allow-lists auditable.
var roleJuniors = map[Role][]Role{
	RolePlatformOwner: {RoleHQAdmin},
	RoleHQAdmin: {
		RoleOperationsManager,
		RoleCustomerSuccessManager,
		RoleFinancialAnalyst,
		RoleSalesManager,
		RoleDeveloper,
		RoleHRManager,
	},
	RoleOperationsManager:      {RoleSupportSpecialist},
	RoleCustomerSuccessManager: {RoleSupportSpecialist},
	RoleDeveloper:              {RoleQAEngineer},
	RoleSalesManager:           {RoleMarketingCoordinator},
	RoleHRManager:              {RoleHRCoordinator},
}
