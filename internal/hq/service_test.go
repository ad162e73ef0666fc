package hq

import (
	"context"
	"testing"
	"time"

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, e *Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockRepo) AddCredentials(ctx context.Context, c *Credentials) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Employee), args.Error(1)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Employee), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, e *Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockRepo) UpdateLockout(ctx context.Context, employeeID string, failedAttempts int, lockedUntil *time.Time) error {
	args := m.Called(ctx, employeeID, failedAttempts, lockedUntil)
	return args.Error(0)
}

func (m *mockRepo) UpdateLastLogin(ctx context.Context, employeeID string, at time.Time) error {
	args := m.Called(ctx, employeeID, at)
	return args.Error(0)
}

func (m *mockRepo) UpdatePassword(ctx context.Context, employeeID, passwordHash string) error {
	args := m.Called(ctx, employeeID, passwordHash)
	return args.Error(0)
}

func (m *mockRepo) GetCredentials(ctx context.Context, employeeID string) (*Credentials, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Credentials), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Employee, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Employee), args.Error(1)
}

func (m *mockRepo) CountByRole(ctx context.Context, role rbac.Role) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

func newTestService(t *testing.T, repo Repository) (*Service, *PasswordHasher) {
	t.Helper()
	reg, err := rbac.NewRegistry()
	require.NoError(t, err)
	hasher := NewPasswordHasher(1024, 1, 1, 16, 32)
	svc := NewService(repo, hasher, reg, audit.NewSlogLogger(), 3, 15*time.Minute)
	return svc, hasher
}

func TestAuthenticate_Success(t *testing.T) {
	repo := new(mockRepo)
	svc, hasher := newTestService(t, repo)
	ctx := context.Background()

	hash, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)

	emp := &Employee{
		ID:         "emp-1",
		Email:      "ops@freightops.com",
		Role:       rbac.RoleOperationsManager,
		Department: rbac.DeptOperations,
		Active:     true,
	}
	repo.On("GetByEmail", ctx, "ops@freightops.com").Return(emp, nil)
	repo.On("GetCredentials", ctx, "emp-1").Return(&Credentials{EmployeeID: "emp-1", PasswordHash: hash}, nil)
	repo.On("UpdateLastLogin", ctx, "emp-1", mock.AnythingOfType("time.Time")).Return(nil)

	got, err := svc.Authenticate(ctx, "ops@freightops.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", got.ID)
	assert.NotNil(t, got.LastLoginAt)
	repo.AssertExpectations(t)
}

func TestAuthenticate_WrongPasswordIncrementsLockout(t *testing.T) {
	repo := new(mockRepo)
	svc, hasher := newTestService(t, repo)
	ctx := context.Background()

	hash, err := hasher.Hash("the-real-password")
	require.NoError(t, err)

	emp := &Employee{ID: "emp-1", Email: "ops@freightops.com", Role: rbac.RoleOperationsManager, Active: true, FailedLoginAttempts: 1}
	repo.On("GetByEmail", ctx, "ops@freightops.com").Return(emp, nil)
	repo.On("GetCredentials", ctx, "emp-1").Return(&Credentials{EmployeeID: "emp-1", PasswordHash: hash}, nil)
	repo.On("UpdateLockout", ctx, "emp-1", 2, (*time.Time)(nil)).Return(nil)

	_, err = svc.Authenticate(ctx, "ops@freightops.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertExpectations(t)
}

func TestAuthenticate_LockoutAfterMaxAttempts(t *testing.T) {
	repo := new(mockRepo)
	svc, hasher := newTestService(t, repo)
	ctx := context.Background()

	hash, err := hasher.Hash("the-real-password")
	require.NoError(t, err)

	// Third failure with max=3 locks the account.
	emp := &Employee{ID: "emp-1", Email: "ops@freightops.com", Role: rbac.RoleOperationsManager, Active: true, FailedLoginAttempts: 2}
	repo.On("GetByEmail", ctx, "ops@freightops.com").Return(emp, nil)
	repo.On("GetCredentials", ctx, "emp-1").Return(&Credentials{EmployeeID: "emp-1", PasswordHash: hash}, nil)
	repo.On("UpdateLockout", ctx, "emp-1", 3, mock.AnythingOfType("*time.Time")).Return(nil)

	_, err = svc.Authenticate(ctx, "ops@freightops.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertExpectations(t)
}

func TestAuthenticate_LockedAccountRejected(t *testing.T) {
	repo := new(mockRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	until := time.Now().Add(10 * time.Minute)
	emp := &Employee{ID: "emp-1", Email: "ops@freightops.com", Active: true, LockedUntil: &until}
	repo.On("GetByEmail", ctx, "ops@freightops.com").Return(emp, nil)

	_, err := svc.Authenticate(ctx, "ops@freightops.com", "whatever")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthenticate_DeactivatedRejected(t *testing.T) {
	repo := new(mockRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	emp := &Employee{ID: "emp-1", Email: "former@freightops.com", Active: false}
	repo.On("GetByEmail", ctx, "former@freightops.com").Return(emp, nil)

	_, err := svc.Authenticate(ctx, "former@freightops.com", "whatever")
	assert.ErrorIs(t, err, ErrEmployeeInactive)
}

func TestProvisionEmployee_RejectsUnknownVocabulary(t *testing.T) {
	repo := new(mockRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.ProvisionEmployee(ctx, "new@freightops.com", "New", "Hire", rbac.Role("intern"), rbac.DeptOperations, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.ProvisionEmployee(ctx, "new@freightops.com", "New", "Hire", rbac.RoleDeveloper, rbac.Department("growth"), "admin-1")
	assert.ErrorIs(t, err, ErrInvalidDepartment)

	_, err = svc.ProvisionEmployee(ctx, "not-an-email", "New", "Hire", rbac.RoleDeveloper, rbac.DeptEngineering, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestProvisionEmployee_CreatesActiveRecord(t *testing.T) {
	repo := new(mockRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "new@freightops.com").Return(nil, ErrEmployeeNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(e *Employee) bool {
		return e.Email == "new@freightops.com" && e.Active && e.Role == rbac.RoleQAEngineer
	})).Return(nil)

	emp, err := svc.ProvisionEmployee(ctx, "new@freightops.com", "New", "Hire", rbac.RoleQAEngineer, rbac.DeptQA, "admin-1")
	require.NoError(t, err)
	assert.NotEmpty(t, emp.ID)
	repo.AssertExpectations(t)
}

func TestAssignRole_RejectsUnknownRole(t *testing.T) {
	repo := new(mockRepo)
	svc, _ := newTestService(t, repo)

	err := svc.AssignRole(context.Background(), "emp-1", rbac.Role("czar"), "admin-1")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestPrincipalFor_DerivesPermissionCache(t *testing.T) {
	repo := new(mockRepo)
	svc, _ := newTestService(t, repo)

	emp := &Employee{
		ID:         "emp-1",
		Email:      "support@freightops.com",
		Role:       rbac.RoleSupportSpecialist,
		Department: rbac.DeptSupport,
	}
	p := svc.PrincipalFor(emp)

	assert.True(t, p.IsHQ())
	assert.Contains(t, p.Permissions, rbac.PermSupportRespond)
	assert.NotContains(t, p.Permissions, rbac.PermTenantSuspend)
}
