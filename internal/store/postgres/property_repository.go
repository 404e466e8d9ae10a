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
)

// PropertyRepository implements property.Repository
type PropertyRepository struct {
	db *DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create inserts a new property
func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	now := time.Now()
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO properties (owner_id, address, city, description, sq_footage, monthly_rent, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING property_id
	`,
		p.OwnerID, p.Address, p.City, p.Description, p.SqFootage, p.MonthlyRent, p.Status, now,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", normalize(err))
	}

	p.CreatedAt = now
	return nil
}

// GetByID retrieves a property by ID
func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*property.Property, error) {
	var p property.Property
	err := r.db.pool.QueryRow(ctx, `
		SELECT property_id, owner_id, address, city, description, sq_footage, monthly_rent, status, created_at
		FROM properties
		WHERE property_id = $1
	`, id).Scan(
		&p.ID, &p.OwnerID, &p.Address, &p.City, &p.Description, &p.SqFootage, &p.MonthlyRent, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, property.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", normalize(err))
	}
	return &p, nil
}

// Update overwrites the mutable property fields
func (r *PropertyRepository) Update(ctx context.Context, p *property.Property) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE properties
		SET address = $2, city = $3, description = $4,
			sq_footage = $5, monthly_rent = $6, status = $7
		WHERE property_id = $1
	`, p.ID, p.Address, p.City, p.Description, p.SqFootage, p.MonthlyRent, p.Status)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", normalize(err))
	}
	if result.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

// DeleteCascade removes the property and every dependent record in one
// transaction, children first: payments, occupancies, reviews, property.
func (r *PropertyRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", normalize(err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM payments
		WHERE occupancy_id = ANY (
			SELECT occupancy_id FROM occupancies WHERE property_id = $1
		)
	`, id); err != nil {
		return fmt.Errorf("failed to delete payments: %w", normalize(err))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM occupancies WHERE property_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete occupancies: %w", normalize(err))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE property_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete reviews: %w", normalize(err))
	}

	result, err := tx.Exec(ctx, `DELETE FROM properties WHERE property_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", normalize(err))
	}
	if result.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", normalize(err))
	}
	return nil
}

// ListByOwner returns the owner's properties with the current open
// occupancy and its tenant joined in.
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*property.OwnerUnit, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT
			p.property_id, p.address, p.city, p.description, p.sq_footage,
			p.monthly_rent, p.status,
			occ.occupancy_id, occ.start_date,
			t.tenant_id, t.name, t.email, t.phone
		FROM properties p
		LEFT JOIN occupancies occ ON p.property_id = occ.property_id AND occ.end_date IS NULL
		LEFT JOIN tenants t ON occ.tenant_id = t.tenant_id
		WHERE p.owner_id = $1
		ORDER BY p.property_id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", normalize(err))
	}
	defer rows.Close()

	var units []*property.OwnerUnit
	for rows.Next() {
		var u property.OwnerUnit
		if err := rows.Scan(
			&u.ID, &u.Address, &u.City, &u.Description, &u.SqFootage,
			&u.MonthlyRent, &u.Status,
			&u.OccupancyID, &u.StartDate,
			&u.TenantID, &u.TenantName, &u.TenantEmail, &u.TenantPhone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		units = append(units, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", normalize(err))
	}

	return units, nil
}

// Browse returns public listings with owner contact and average rating.
// When no filter is set only Available properties are shown; a keyword or
// city search also surfaces rented ones, matching the storefront search.
func (r *PropertyRepository) Browse(ctx context.Context, filter property.BrowseFilter) ([]*property.Listing, error) {
	query := `
		SELECT
			p.property_id, p.address, p.city, p.description, p.sq_footage,
			p.monthly_rent, p.status,
			o.name, o.phone,
			COALESCE(rt.avg_rating, 0)
		FROM properties p
		JOIN owners o ON p.owner_id = o.owner_id
		LEFT JOIN (
			SELECT property_id, AVG(rating) AS avg_rating
			FROM reviews
			GROUP BY property_id
		) rt ON p.property_id = rt.property_id`

	var conditions []string
	var args []any

	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(p.description ILIKE $%d OR p.address ILIKE $%d)", n, n))
	}
	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		conditions = append(conditions, fmt.Sprintf("p.city ILIKE $%d", len(args)))
	}
	if len(conditions) == 0 {
		conditions = append(conditions, "p.status = 'Available'")
	}

	query += " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		query += " AND " + c
	}
	query += " ORDER BY p.city, p.monthly_rent"

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to browse properties: %w", normalize(err))
	}
	defer rows.Close()

	var listings []*property.Listing
	for rows.Next() {
		var l property.Listing
		if err := rows.Scan(
			&l.ID, &l.Address, &l.City, &l.Description, &l.SqFootage,
			&l.MonthlyRent, &l.Status,
			&l.OwnerName, &l.OwnerPhone,
			&l.AvgRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", normalize(err))
	}

	return listings, nil
}

// CountByOwner returns total and rented property counts for an owner
func (r *PropertyRepository) CountByOwner(ctx context.Context, ownerID int64) (property.OwnerStats, error) {
	var stats property.OwnerStats
	err := r.db.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'Rented')
		FROM properties
		WHERE owner_id = $1
	`, ownerID).Scan(&stats.TotalProperties, &stats.RentedProperties)
	if err != nil {
		return property.OwnerStats{}, fmt.Errorf("failed to count properties: %w", normalize(err))
	}
	return stats, nil
}
