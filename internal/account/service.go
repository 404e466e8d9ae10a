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
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/rentdesk/rentdesk/internal/audit"
)

// AdminConfig holds the configured administrator credential. The password is
// stored only as an Argon2id hash.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// Service provides signup and credential-lookup login for the three roles.
type Service struct {
	owners      OwnerRepository
	tenants     TenantRepository
	hasher      *PasswordHasher
	admin       AdminConfig
	auditLogger audit.Logger
}

// NewService creates a new account service
func NewService(owners OwnerRepository, tenants TenantRepository, hasher *PasswordHasher, admin AdminConfig, auditLogger audit.Logger) *Service {
	return &Service{
		owners:      owners,
		tenants:     tenants,
		hasher:      hasher,
		admin:       admin,
		auditLogger: auditLogger,
	}
}

// SignupOwner registers a new owner account.
func (s *Service) SignupOwner(ctx context.Context, name, email, phone, bankDetails string) (*Owner, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := validateIdentity(name, email); err != nil {
		return nil, err
	}

	owner := &Owner{
		Name:        name,
		Email:       email,
		Phone:       strings.TrimSpace(phone),
		BankDetails: bankDetails,
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSignup,
		Role:     RoleOwner,
		ActorID:  owner.ID,
		Resource: "owner",
		Metadata: map[string]any{"email": owner.Email},
	})

	return owner, nil
}

// SignupTenant registers a new tenant account.
func (s *Service) SignupTenant(ctx context.Context, name, email, phone, idProof string) (*Tenant, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := validateIdentity(name, email); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		Name:    name,
		Email:   email,
		Phone:   strings.TrimSpace(phone),
		IDProof: idProof,
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSignup,
		Role:     RoleTenant,
		ActorID:  tenant.ID,
		Resource: "tenant",
		Metadata: map[string]any{"email": tenant.Email},
	})

	return tenant, nil
}

// AuthenticateOwner resolves an owner by the exact (name, email) pair.
func (s *Service) AuthenticateOwner(ctx context.Context, name, email string) (*Owner, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrInvalidCredentials
	}

	owner, err := s.owners.GetByCredentials(ctx, name, email)
	if err != nil {
		s.auditLoginFailure(ctx, RoleOwner, email)
		return nil, ErrInvalidCredentials
	}
	return owner, nil
}

// AuthenticateTenant resolves a tenant by the exact (name, email) pair.
func (s *Service) AuthenticateTenant(ctx context.Context, name, email string) (*Tenant, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrInvalidCredentials
	}

	tenant, err := s.tenants.GetByCredentials(ctx, name, email)
	if err != nil {
		s.auditLoginFailure(ctx, RoleTenant, email)
		return nil, ErrInvalidCredentials
	}
	return tenant, nil
}

// AuthenticateAdmin verifies the configured admin credential.
func (s *Service) AuthenticateAdmin(ctx context.Context, username, password string) error {
	if s.admin.Username == "" || s.admin.PasswordHash == "" {
		return fmt.Errorf("admin login disabled: %w", ErrInvalidCredentials)
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1

	ok, err := s.hasher.Verify(password, s.admin.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify admin password: %w", err)
	}
	if !usernameOK || !ok {
		s.auditLoginFailure(ctx, RoleAdmin, username)
		return ErrInvalidCredentials
	}
	return nil
}

// GetTenants returns the tenant directory used by the owner assignment form.
func (s *Service) GetTenants(ctx context.Context) ([]*TenantSummary, error) {
	return s.tenants.List(ctx)
}

func (s *Service) auditLoginFailure(ctx context.Context, role, identifier string) {
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLoginFailed,
		Role:     role,
		Resource: identifier,
		Metadata: map[string]any{"reason": "invalid_credentials"},
	})
}

func validateIdentity(name, email string) error {
	if name == "" || email == "" {
		return ErrInvalidCredentials
	}
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
