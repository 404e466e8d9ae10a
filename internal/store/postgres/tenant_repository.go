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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rentdesk/rentdesk/internal/account"
)

// TenantRepository implements account.TenantRepository
type TenantRepository struct {
	db *DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create inserts a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *account.Tenant) error {
	now := time.Now()
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO tenants (name, email, phone, id_proof, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING tenant_id
	`, tenant.Name, tenant.Email, tenant.Phone, tenant.IDProof, now).Scan(&tenant.ID)
	if err != nil {
		if violatesConstraint(err, "tenants_email_key") {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert tenant: %w", normalize(err))
	}

	tenant.CreatedAt = now
	return nil
}

// GetByCredentials looks up a tenant by the exact (name, email) pair
func (r *TenantRepository) GetByCredentials(ctx context.Context, name, email string) (*account.Tenant, error) {
	return r.get(ctx, `
		SELECT tenant_id, name, email, phone, id_proof, created_at
		FROM tenants
		WHERE name = $1 AND email = $2
	`, name, email)
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*account.Tenant, error) {
	return r.get(ctx, `
		SELECT tenant_id, name, email, phone, id_proof, created_at
		FROM tenants
		WHERE tenant_id = $1
	`, id)
}

// List returns all tenants ordered by name
func (r *TenantRepository) List(ctx context.Context) ([]*account.TenantSummary, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT tenant_id, name, email
		FROM tenants
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", normalize(err))
	}
	defer rows.Close()

	var tenants []*account.TenantSummary
	for rows.Next() {
		var t account.TenantSummary
		if err := rows.Scan(&t.ID, &t.Name, &t.Email); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenants: %w", normalize(err))
	}

	return tenants, nil
}

func (r *TenantRepository) get(ctx context.Context, query string, args ...any) (*account.Tenant, error) {
	var tenant account.Tenant
	err := r.db.pool.QueryRow(ctx, query, args...).Scan(
		&tenant.ID, &tenant.Name, &tenant.Email, &tenant.Phone, &tenant.IDProof, &tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", normalize(err))
	}
	return &tenant, nil
}
