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
	"github.com/rentdesk/rentdesk/internal/property"
	"github.com/rentdesk/rentdesk/internal/tenancy"
)

// TenancyRepository implements tenancy.Repository
type TenancyRepository struct {
	db *DB
}

// NewTenancyRepository creates a new tenancy repository
func NewTenancyRepository(db *DB) *TenancyRepository {
	return &TenancyRepository{db: db}
}

// StartTenancy opens an occupancy and flips the property to Rented in one
// transaction. The property row is locked first so two concurrent starts
// serialize; the partial unique index on open occupancies backstops the check.
func (r *TenancyRepository) StartTenancy(ctx context.Context, propertyID, tenantID int64, start time.Time) (*tenancy.Occupancy, error) {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", normalize(err))
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `
		SELECT status FROM properties WHERE property_id = $1 FOR UPDATE
	`, propertyID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, property.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to lock property: %w", normalize(err))
	}
	if status != property.StatusAvailable {
		return nil, tenancy.ErrAlreadyRented
	}

	var duplicate bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM occupancies
			WHERE property_id = $1 AND tenant_id = $2 AND start_date = $3
		)
	`, propertyID, tenantID, start).Scan(&duplicate)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", normalize(err))
	}
	if duplicate {
		return nil, tenancy.ErrDuplicateAssignment
	}

	occ := &tenancy.Occupancy{
		TenantID:   tenantID,
		PropertyID: propertyID,
		StartDate:  start,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO occupancies (tenant_id, property_id, start_date)
		VALUES ($1, $2, $3)
		RETURNING occupancy_id
	`, tenantID, propertyID, start).Scan(&occ.ID)
	if err != nil {
		if violatesConstraint(err, "uq_occupancies_open") {
			return nil, tenancy.ErrAlreadyRented
		}
		return nil, fmt.Errorf("failed to insert occupancy: %w", normalize(err))
	}

	if _, err := tx.Exec(ctx, `
		UPDATE properties SET status = $2 WHERE property_id = $1
	`, propertyID, property.StatusRented); err != nil {
		return nil, fmt.Errorf("failed to mark property rented: %w", normalize(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit tenancy start: %w", normalize(err))
	}
	return occ, nil
}

// CloseTenancy ends an open occupancy and flips the property back to
// Available in one transaction.
func (r *TenancyRepository) CloseTenancy(ctx context.Context, occupancyID int64, end time.Time) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", normalize(err))
	}
	defer tx.Rollback(ctx)

	var propertyID int64
	err = tx.QueryRow(ctx, `
		UPDATE occupancies
		SET end_date = $2
		WHERE occupancy_id = $1 AND end_date IS NULL
		RETURNING property_id
	`, occupancyID, end).Scan(&propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the occupancy does not exist or it was already closed;
			// callers check existence first, so report the latter.
			return tenancy.ErrTenancyClosed
		}
		return fmt.Errorf("failed to close occupancy: %w", normalize(err))
	}

	if _, err := tx.Exec(ctx, `
		UPDATE properties SET status = $2 WHERE property_id = $1
	`, propertyID, property.StatusAvailable); err != nil {
		return fmt.Errorf("failed to mark property available: %w", normalize(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tenancy close: %w", normalize(err))
	}
	return nil
}

// GetDetail retrieves an occupancy with the property owner joined in
func (r *TenancyRepository) GetDetail(ctx context.Context, occupancyID int64) (*tenancy.OccupancyDetail, error) {
	var d tenancy.OccupancyDetail
	err := r.db.pool.QueryRow(ctx, `
		SELECT occ.occupancy_id, occ.tenant_id, occ.property_id,
			occ.start_date, occ.end_date, p.owner_id
		FROM occupancies occ
		JOIN properties p ON occ.property_id = p.property_id
		WHERE occ.occupancy_id = $1
	`, occupancyID).Scan(
		&d.ID, &d.TenantID, &d.PropertyID, &d.StartDate, &d.EndDate, &d.PropertyOwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrOccupancyNotFound
		}
		return nil, fmt.Errorf("failed to get occupancy: %w", normalize(err))
	}
	return &d, nil
}

// InsertPayment records a payment
func (r *TenancyRepository) InsertPayment(ctx context.Context, p *tenancy.Payment) error {
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO payments (occupancy_id, amount, payment_date, month_year, method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment_id
	`,
		p.OccupancyID, p.Amount, p.PaymentDate, p.MonthYear, p.Method, p.Status,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", normalize(err))
	}
	return nil
}

// ListRentalsByTenant returns the tenant's occupancies newest first, with
// property and owner contact joined in. Payments are attached by the service.
func (r *TenancyRepository) ListRentalsByTenant(ctx context.Context, tenantID int64) ([]*tenancy.Rental, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT
			p.property_id, p.address, p.city, p.description, p.sq_footage,
			p.monthly_rent, p.status,
			o.name, o.phone,
			occ.occupancy_id, occ.start_date, occ.end_date
		FROM occupancies occ
		JOIN properties p ON occ.property_id = p.property_id
		JOIN owners o ON p.owner_id = o.owner_id
		WHERE occ.tenant_id = $1
		ORDER BY occ.start_date DESC, occ.occupancy_id DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", normalize(err))
	}
	defer rows.Close()

	var rentals []*tenancy.Rental
	for rows.Next() {
		var rt tenancy.Rental
		if err := rows.Scan(
			&rt.PropertyID, &rt.Address, &rt.City, &rt.Description, &rt.SqFootage,
			&rt.MonthlyRent, &rt.Status,
			&rt.OwnerName, &rt.OwnerPhone,
			&rt.OccupancyID, &rt.StartDate, &rt.EndDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rentals: %w", normalize(err))
	}

	return rentals, nil
}

// ListPaymentsByTenant returns all payments across the tenant's occupancies
func (r *TenancyRepository) ListPaymentsByTenant(ctx context.Context, tenantID int64) ([]tenancy.Payment, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT pm.payment_id, pm.occupancy_id, pm.amount, pm.payment_date,
			pm.month_year, pm.method, pm.status
		FROM payments pm
		JOIN occupancies occ ON pm.occupancy_id = occ.occupancy_id
		WHERE occ.tenant_id = $1
		ORDER BY pm.payment_date DESC, pm.payment_id DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", normalize(err))
	}
	defer rows.Close()

	var payments []tenancy.Payment
	for rows.Next() {
		var p tenancy.Payment
		if err := rows.Scan(
			&p.ID, &p.OccupancyID, &p.Amount, &p.PaymentDate,
			&p.MonthYear, &p.Method, &p.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", normalize(err))
	}

	return payments, nil
}

// ListOwnerPayments returns payments for the owner's properties in a month
func (r *TenancyRepository) ListOwnerPayments(ctx context.Context, ownerID int64, monthYear string) ([]*tenancy.OwnerPayment, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT pm.payment_id, pm.amount, pm.payment_date, pm.month_year,
			pm.method, pm.status,
			t.name, p.address
		FROM payments pm
		JOIN occupancies occ ON pm.occupancy_id = occ.occupancy_id
		JOIN tenants t ON occ.tenant_id = t.tenant_id
		JOIN properties p ON occ.property_id = p.property_id
		WHERE p.owner_id = $1 AND pm.month_year = $2
		ORDER BY pm.payment_date DESC, pm.payment_id DESC
	`, ownerID, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner payments: %w", normalize(err))
	}
	defer rows.Close()

	var payments []*tenancy.OwnerPayment
	for rows.Next() {
		var p tenancy.OwnerPayment
		if err := rows.Scan(
			&p.ID, &p.Amount, &p.PaymentDate, &p.MonthYear,
			&p.Method, &p.Status,
			&p.TenantName, &p.PropertyAddress,
		); err != nil {
			return nil, fmt.Errorf("failed to scan owner payment: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owner payments: %w", normalize(err))
	}

	return payments, nil
}
