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

	"github.com/rentdesk/rentdesk/internal/review"
)

// ReviewRepository implements review.Repository
type ReviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO reviews (tenant_id, property_id, rating, comment, review_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING review_id
	`,
		rv.TenantID, rv.PropertyID, rv.Rating, rv.Comment, rv.ReviewDate,
	).Scan(&rv.ID)
	if err != nil {
		if violatesConstraint(err, "uq_reviews_tenant_property") {
			return review.ErrDuplicateReview
		}
		return fmt.Errorf("failed to insert review: %w", normalize(err))
	}
	return nil
}

// AverageRating returns the mean rating for a property, nil when unrated
func (r *ReviewRepository) AverageRating(ctx context.Context, propertyID int64) (*float64, error) {
	var avg *float64
	err := r.db.pool.QueryRow(ctx, `
		SELECT AVG(rating) FROM reviews WHERE property_id = $1
	`, propertyID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", normalize(err))
	}
	return avg, nil
}
