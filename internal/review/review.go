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

package review

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrDuplicateReview = errors.New("property already reviewed by this tenant")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Review represents a tenant's one-time review of a property. The
// application never updates or deletes reviews.
type Review struct {
	ID         int64     `json:"review_id"`
	TenantID   int64     `json:"tenant_id"`
	PropertyID int64     `json:"property_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"review_date"`
}

// Repository defines the interface for review persistence
type Repository interface {
	// Create inserts a review and fills in the generated ID. Returns
	// ErrDuplicateReview when the (tenant, property) pair already has one.
	Create(ctx context.Context, r *Review) error

	// AverageRating returns the mean rating for a property, or nil when
	// the property has no reviews.
	AverageRating(ctx context.Context, propertyID int64) (*float64, error)
}
