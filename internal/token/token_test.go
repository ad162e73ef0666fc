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

package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightops/hq-access/internal/rbac"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()

	registry, err := rbac.NewRegistry()
	require.NoError(t, err)

	return NewService([]byte("test-secret-32-bytes-minimum-aaaa"), "freightops-hq", ttl, registry)
}

func testPrincipal() *rbac.Principal {
	return &rbac.Principal{
		EmployeeID: "emp-100",
		Email:      "analyst@freightops.example",
		Role:       rbac.RoleFinancialAnalyst,
		Department: rbac.DeptFinance,
	}
}

/*
TestPurpose: Verify issued tokens round-trip through verification.

Expected Results:
- Verify returns a principal matching the issued identity
- Permissions on the returned principal come from the registry
*/
func TestService_IssueAndVerify(t *testing.T) {
	svc := newTestService(t, time.Hour)

	signed, expiresAt, err := svc.Issue(testPrincipal())
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	p, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "emp-100", p.EmployeeID)
	assert.Equal(t, rbac.RoleFinancialAnalyst, p.Role)
	assert.Equal(t, rbac.DeptFinance, p.Department)
	assert.Contains(t, p.Permissions, rbac.PermFinancialView)
	assert.NotContains(t, p.Permissions, rbac.PermTenantEdit)
}

/*
TestPurpose: Verify expired tokens are rejected.

Expected Results:
- A token issued with a negative TTL fails with ErrTokenExpired
*/
func TestService_VerifyExpired(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	signed, _, err := svc.Issue(testPrincipal())
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

/*
TestPurpose: Verify tokens signed by another service are rejected.

Security Considerations:
- A token minted with a different secret or issuer must never
  authenticate against this service.

Expected Results:
- Foreign secret fails verification
- Foreign issuer fails verification
*/
func TestService_VerifyForeign(t *testing.T) {
	svc := newTestService(t, time.Hour)

	registry, err := rbac.NewRegistry()
	require.NoError(t, err)

	wrongSecret := NewService([]byte("a-completely-different-secret-bbb"), "freightops-hq", time.Hour, registry)
	signed, _, err := wrongSecret.Issue(testPrincipal())
	require.NoError(t, err)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongIssuer := NewService([]byte("test-secret-32-bytes-minimum-aaaa"), "someone-else", time.Hour, registry)
	signed, _, err = wrongIssuer.Issue(testPrincipal())
	require.NoError(t, err)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

/*
TestPurpose: Verify garbage and non-HQ input is rejected.

Expected Results:
- Malformed token strings fail with ErrTokenInvalid
- Issue refuses a nil or non-HQ principal
*/
func TestService_InvalidInput(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, _, err = svc.Issue(nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, _, err = svc.Issue(&rbac.Principal{Email: "no-id@freightops.example"})
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
