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

// OwnerRepository implements account.OwnerRepository
type OwnerRepository struct {
	db *DB
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Create inserts a new owner
func (r *OwnerRepository) Create(ctx context.Context, owner *account.Owner) error {
	now := time.Now()
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO owners (name, email, phone, bank_details, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING owner_id
	`, owner.Name, owner.Email, owner.Phone, owner.BankDetails, now).Scan(&owner.ID)
	if err != nil {
		if violatesConstraint(err, "owners_email_key") {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert owner: %w", normalize(err))
	}

	owner.CreatedAt = now
	return nil
}

// GetByCredentials looks up an owner by the exact (name, email) pair
func (r *OwnerRepository) GetByCredentials(ctx context.Context, name, email string) (*account.Owner, error) {
	return r.get(ctx, `
		SELECT owner_id, name, email, phone, bank_details, created_at
		FROM owners
		WHERE name = $1 AND email = $2
	`, name, email)
}

// GetByID retrieves an owner by ID
func (r *OwnerRepository) GetByID(ctx context.Context, id int64) (*account.Owner, error) {
	return r.get(ctx, `
		SELECT owner_id, name, email, phone, bank_details, created_at
		FROM owners
		WHERE owner_id = $1
	`, id)
}

func (r *OwnerRepository) get(ctx context.Context, query string, args ...any) (*account.Owner, error) {
	var owner account.Owner
	err := r.db.pool.QueryRow(ctx, query, args...).Scan(
		&owner.ID, &owner.Name, &owner.Email, &owner.Phone, &owner.BankDetails, &owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", normalize(err))
	}
	return &owner, nil
}
