// Copyright 2026 The RentDesk Authors
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

package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rentdesk/rentdesk/internal/audit"
)

// mockOwnerRepository is a simple in-memory implementation of OwnerRepository
type mockOwnerRepository struct {
	owners map[int64]*Owner
	nextID int64
}

func newMockOwnerRepository() *mockOwnerRepository {
	return &mockOwnerRepository{owners: make(map[int64]*Owner), nextID: 1}
}

func (m *mockOwnerRepository) Create(ctx context.Context, owner *Owner) error {
	for _, o := range m.owners {
		if o.Email == owner.Email {
			return ErrEmailTaken
		}
	}
	owner.ID = m.nextID
	m.nextID++
	m.owners[owner.ID] = owner
	return nil
}

func (m *mockOwnerRepository) GetByCredentials(ctx context.Context, name, email string) (*Owner, error) {
	for _, o := range m.owners {
		if o.Name == name && o.Email == email {
			return o, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockOwnerRepository) GetByID(ctx context.Context, id int64) (*Owner, error) {
	o, ok := m.owners[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return o, nil
}

// mockTenantRepository is a simple in-memory implementation of TenantRepository
type mockTenantRepository struct {
	tenants map[int64]*Tenant
	nextID  int64
}

func newMockTenantRepository() *mockTenantRepository {
	return &mockTenantRepository{tenants: make(map[int64]*Tenant), nextID: 1}
}

func (m *mockTenantRepository) Create(ctx context.Context, tenant *Tenant) error {
	for _, t := range m.tenants {
		if t.Email == tenant.Email {
			return ErrEmailTaken
		}
	}
	tenant.ID = m.nextID
	m.nextID++
	m.tenants[tenant.ID] = tenant
	return nil
}

func (m *mockTenantRepository) GetByCredentials(ctx context.Context, name, email string) (*Tenant, error) {
	for _, t := range m.tenants {
		if t.Name == name && t.Email == email {
			return t, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockTenantRepository) GetByID(ctx context.Context, id int64) (*Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return t, nil
}

func (m *mockTenantRepository) List(ctx context.Context) ([]*TenantSummary, error) {
	var out []*TenantSummary
	for _, t := range m.tenants {
		out = append(out, &TenantSummary{ID: t.ID, Name: t.Name, Email: t.Email})
	}
	return out, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	hasher := NewPasswordHasher(8192, 1, 1, 16, 32)
	hash, err := hasher.Hash("letmein")
	if err != nil {
		t.Fatalf("failed to hash admin password: %v", err)
	}
	return NewService(
		newMockOwnerRepository(),
		newMockTenantRepository(),
		hasher,
		AdminConfig{Username: "admin", PasswordHash: hash},
		audit.NewSlogLogger(),
	)
}

// TestPurpose: Validates signup input rules and the duplicate email rejection.
// Scope: Unit Test
// Expected: ErrInvalidCredentials for blank fields, ErrInvalidEmail for
// malformed addresses, ErrEmailTaken on reuse.
// Test Case ID: ACC-01
func TestAccount_Service_Signup(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.SignupOwner(ctx, "", "a@b.com", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.SignupOwner(ctx, "Asha", "not-an-email", "", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	owner, err := s.SignupOwner(ctx, "  Asha  ", "asha@example.com", "555-0101", "HDFC 001")
	assert.NoError(t, err)
	assert.Equal(t, "Asha", owner.Name) // trimmed
	assert.NotZero(t, owner.ID)

	_, err = s.SignupOwner(ctx, "Other", "asha@example.com", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	tenant, err := s.SignupTenant(ctx, "Ravi", "ravi@example.com", "555-0102", "DL-42")
	assert.NoError(t, err)
	assert.NotZero(t, tenant.ID)
}

// TestPurpose: Validates owner and tenant login by exact (name, email) pair.
// Scope: Unit Test
// Expected: Success for the exact pair, ErrInvalidCredentials for any other
// combination including a correct email with the wrong name.
// Test Case ID: ACC-02
func TestAccount_Service_AuthenticateByCredentials(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.SignupOwner(ctx, "Asha", "asha@example.com", "", "")
	assert.NoError(t, err)

	owner, err := s.AuthenticateOwner(ctx, "Asha", "asha@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "Asha", owner.Name)

	_, err = s.AuthenticateOwner(ctx, "Wrong", "asha@example.com")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.AuthenticateOwner(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.AuthenticateTenant(ctx, "Asha", "asha@example.com")
	assert.ErrorIs(t, err, ErrInvalidCredentials) // owner is not a tenant
}

// TestPurpose: Validates the configured admin credential check.
// Scope: Unit Test
// Security: Constant-time username comparison plus Argon2id verification.
// Expected: Success for the configured pair, ErrInvalidCredentials otherwise,
// and login disabled entirely when no hash is configured.
// Test Case ID: ACC-03
func TestAccount_Service_AuthenticateAdmin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, s.AuthenticateAdmin(ctx, "admin", "letmein"))
	assert.ErrorIs(t, s.AuthenticateAdmin(ctx, "admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.AuthenticateAdmin(ctx, "root", "letmein"), ErrInvalidCredentials)

	disabled := NewService(
		newMockOwnerRepository(),
		newMockTenantRepository(),
		NewPasswordHasher(8192, 1, 1, 16, 32),
		AdminConfig{},
		audit.NewSlogLogger(),
	)
	assert.ErrorIs(t, disabled.AuthenticateAdmin(ctx, "admin", "letmein"), ErrInvalidCredentials)
}

// TestPurpose: Validates the Argon2id encode and verify roundtrip.
// Scope: Unit Test
// Expected: A hashed password verifies, a different one does not, and
// malformed hashes report an error rather than a silent mismatch.
// Test Case ID: ACC-04
func TestAccount_PasswordHasher_Roundtrip(t *testing.T) {
	hasher := NewPasswordHasher(8192, 1, 1, 16, 32)

	encoded, err := hasher.Hash("s3cret")
	assert.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")

	ok, err := hasher.Verify("s3cret", encoded)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("other", encoded)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = hasher.Verify("s3cret", "not-a-hash")
	assert.Error(t, err)

	// Two hashes of the same password differ by salt
	second, err := hasher.Hash("s3cret")
	assert.NoError(t, err)
	assert.NotEqual(t, encoded, second)
}
