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

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightops/hq-access/internal/rbac"
	"github.com/freightops/hq-access/internal/session"
)

func newTestRepository(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSessionRepository(client), mr
}

func testSession(id, employeeID string, lifetime time.Duration) *session.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &session.Session{
		ID: id,
		Principal: rbac.Principal{
			EmployeeID: employeeID,
			Email:      "ops@freightops.example",
			Role:       rbac.RoleOperationsManager,
			Department: rbac.DeptOperations,
		},
		IPAddress:  "10.0.0.1",
		UserAgent:  "test-agent",
		ExpiresAt:  now.Add(lifetime),
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

/*
TestPurpose: Verify session round-trip through the Redis store.

Expected Results:
- Create followed by Get returns the same session fields
- Session key carries a TTL matching the expiry
*/
func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	s := testSession("sess-1", "emp-1", time.Hour)
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Principal.EmployeeID, got.Principal.EmployeeID)
	assert.Equal(t, s.Principal.Role, got.Principal.Role)
	assert.Equal(t, s.IPAddress, got.IPAddress)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	ttl := mr.TTL("hq:session:sess-1")
	assert.Greater(t, ttl, 59*time.Minute)
}

/*
TestPurpose: Verify missing and expired sessions are not returned.

Expected Results:
- Get on an unknown ID returns ErrSessionNotFound
- Get after the TTL elapses returns ErrSessionNotFound
*/
func TestSessionRepository_GetMissing(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	s := testSession("sess-ttl", "emp-1", time.Minute)
	require.NoError(t, repo.Create(ctx, s))

	mr.FastForward(2 * time.Minute)

	_, err = repo.Get(ctx, "sess-ttl")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

/*
TestPurpose: Verify Update persists changed fields.

Expected Results:
- LastSeenAt written by Update is visible on the next Get
*/
func TestSessionRepository_Update(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	s := testSession("sess-2", "emp-2", time.Hour)
	require.NoError(t, repo.Create(ctx, s))

	s.LastSeenAt = s.LastSeenAt.Add(10 * time.Minute)
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, s.LastSeenAt.Equal(got.LastSeenAt))
}

/*
TestPurpose: Verify Delete removes one session without touching others.

Expected Results:
- Deleted session is gone, sibling session survives
- Deleting an already-missing session is not an error
*/
func TestSessionRepository_Delete(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testSession("sess-a", "emp-3", time.Hour)))
	require.NoError(t, repo.Create(ctx, testSession("sess-b", "emp-3", time.Hour)))

	require.NoError(t, repo.Delete(ctx, "sess-a"))

	_, err := repo.Get(ctx, "sess-a")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = repo.Get(ctx, "sess-b")
	assert.NoError(t, err)

	assert.NoError(t, repo.Delete(ctx, "sess-a"))
}

/*
TestPurpose: Verify revoking an employee removes every session they own.

Expected Results:
- All of the employee's sessions are gone after DeleteByEmployee
- Another employee's session is untouched
*/
func TestSessionRepository_DeleteByEmployee(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testSession("sess-x", "emp-4", time.Hour)))
	require.NoError(t, repo.Create(ctx, testSession("sess-y", "emp-4", time.Hour)))
	require.NoError(t, repo.Create(ctx, testSession("sess-z", "emp-5", time.Hour)))

	require.NoError(t, repo.DeleteByEmployee(ctx, "emp-4"))

	_, err := repo.Get(ctx, "sess-x")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = repo.Get(ctx, "sess-y")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = repo.Get(ctx, "sess-z")
	assert.NoError(t, err)
}
