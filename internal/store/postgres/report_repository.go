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
	"fmt"

	"github.com/rentdesk/rentdesk/internal/report"
)

// ReportRepository implements report.Repository
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Stats counts accounts across both role tables and properties
func (r *ReportRepository) Stats(ctx context.Context) (report.Stats, error) {
	var s report.Stats
	err := r.db.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM owners) + (SELECT COUNT(*) FROM tenants),
			(SELECT COUNT(*) FROM properties)
	`).Scan(&s.TotalUsers, &s.TotalProperties)
	if err != nil {
		return report.Stats{}, fmt.Errorf("failed to count stats: %w", normalize(err))
	}
	return s, nil
}

// AllUsers returns owners and tenants combined, ordered by name
func (r *ReportRepository) AllUsers(ctx context.Context) ([]*report.UserRow, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT owner_id, name, email, phone, 'owner' AS role FROM owners
		UNION ALL
		SELECT tenant_id, name, email, phone, 'tenant' AS role FROM tenants
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", normalize(err))
	}
	defer rows.Close()

	var users []*report.UserRow
	for rows.Next() {
		var u report.UserRow
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", normalize(err))
	}

	return users, nil
}

// AllApartments returns every property with owner and current tenant
func (r *ReportRepository) AllApartments(ctx context.Context) ([]*report.ApartmentRow, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT
			p.property_id, p.address, p.city, p.description, p.sq_footage,
			p.monthly_rent, p.status,
			o.name, o.email, o.phone,
			t.name
		FROM properties p
		JOIN owners o ON p.owner_id = o.owner_id
		LEFT JOIN occupancies occ ON p.property_id = occ.property_id AND occ.end_date IS NULL
		LEFT JOIN tenants t ON occ.tenant_id = t.tenant_id
		ORDER BY p.property_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", normalize(err))
	}
	defer rows.Close()

	var apartments []*report.ApartmentRow
	for rows.Next() {
		var a report.ApartmentRow
		if err := rows.Scan(
			&a.PropertyID, &a.Address, &a.City, &a.Description, &a.SqFootage,
			&a.MonthlyRent, &a.Status,
			&a.OwnerName, &a.OwnerEmail, &a.OwnerPhone,
			&a.TenantName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan apartment: %w", err)
		}
		apartments = append(apartments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate apartments: %w", normalize(err))
	}

	return apartments, nil
}

// AllComplaints returns every review, newest first
func (r *ReportRepository) AllComplaints(ctx context.Context) ([]*report.ComplaintRow, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT rv.review_id, rv.rating, rv.comment, rv.review_date,
			t.name, p.address
		FROM reviews rv
		JOIN tenants t ON rv.tenant_id = t.tenant_id
		JOIN properties p ON rv.property_id = p.property_id
		ORDER BY rv.review_date DESC, rv.review_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", normalize(err))
	}
	defer rows.Close()

	var complaints []*report.ComplaintRow
	for rows.Next() {
		var c report.ComplaintRow
		if err := rows.Scan(
			&c.ReviewID, &c.Rating, &c.Comment, &c.ReviewDate,
			&c.TenantName, &c.Address,
		); err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate complaints: %w", normalize(err))
	}

	return complaints, nil
}

// RatingReport returns per-property average ratings, best first
func (r *ReportRepository) RatingReport(ctx context.Context) ([]*report.RatingRow, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT p.property_id, p.address, p.city, o.name, AVG(rv.rating)
		FROM properties p
		JOIN owners o ON p.owner_id = o.owner_id
		LEFT JOIN reviews rv ON p.property_id = rv.property_id
		GROUP BY p.property_id, p.address, p.city, o.name
		ORDER BY AVG(rv.rating) DESC NULLS LAST, p.property_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", normalize(err))
	}
	defer rows.Close()

	var ratings []*report.RatingRow
	for rows.Next() {
		var rw report.RatingRow
		if err := rows.Scan(&rw.PropertyID, &rw.Address, &rw.City, &rw.OwnerName, &rw.AverageRating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, &rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ratings: %w", normalize(err))
	}

	return ratings, nil
}
