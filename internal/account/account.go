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
	"errors"
	"time"
)

// Domain errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
)

// Roles recognized by the API. Owners list properties, tenants rent them,
// the admin sees aggregate reports. Owner and tenant identities live in
// separate tables; the admin is a configured credential, not a row.
const (
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
	RoleTenant = "tenant"
)

// ValidRole reports whether role is one of the three recognized roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOwner || role == RoleTenant
}

// Owner represents a property owner account
type Owner struct {
	ID          int64
	Name        string
	Email       string
	Phone       string
	BankDetails string
	CreatedAt   time.Time
}

// Tenant represents a renter account
type Tenant struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	IDProof   string
	CreatedAt time.Time
}

// TenantSummary is the directory row owners see when assigning a tenant.
type TenantSummary struct {
	ID    int64  `json:"tenant_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnerRepository defines the interface for owner persistence
type OwnerRepository interface {
	// Create inserts a new owner and fills in the generated ID.
	Create(ctx context.Context, owner *Owner) error

	// GetByCredentials looks up an owner by the exact (name, email) pair.
	GetByCredentials(ctx context.Context, name, email string) (*Owner, error)

	// GetByID retrieves an owner by ID.
	GetByID(ctx context.Context, id int64) (*Owner, error)
}

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// Create inserts a new tenant and fills in the generated ID.
	Create(ctx context.Context, tenant *Tenant) error

	// GetByCredentials looks up a tenant by the exact (name, email) pair.
	GetByCredentials(ctx context.Context, name, email string) (*Tenant, error)

	// GetByID retrieves a tenant by ID.
	GetByID(ctx context.Context, id int64) (*Tenant, error)

	// List returns all tenants ordered by name.
	List(ctx context.Context) ([]*TenantSummary, error)
}
