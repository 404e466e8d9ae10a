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
	"time"

	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/property"
)

// PropertyStore is the slice of the property repository review submission
// needs to confirm the target exists.
type PropertyStore interface {
	GetByID(ctx context.Context, id int64) (*property.Property, error)
}

// Service encodes the review rules the original schema kept in the
// duplicate-review trigger and fn_get_avg_rating.
type Service struct {
	repo        Repository
	props       PropertyStore
	auditLogger audit.Logger
}

// NewService creates a new review service
func NewService(repo Repository, props PropertyStore, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		props:       props,
		auditLogger: auditLogger,
	}
}

// Submit records a tenant's review of a property. One review per
// (tenant, property) pair, ever.
func (s *Service) Submit(ctx context.Context, tenantID, propertyID int64, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}

	y, m, d := time.Now().UTC().Date()
	r := &Review{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Rating:     rating,
		Comment:    comment,
		ReviewDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeReviewSubmitted,
		Role:     "tenant",
		ActorID:  tenantID,
		Resource: "review",
		Metadata: map[string]any{
			"review_id":   r.ID,
			"property_id": propertyID,
			"rating":      rating,
		},
	})

	return r, nil
}

// AverageRating returns the mean rating for a property, nil when unrated.
// The aggregate lives in SQL; the nil return replaces the divide-by-zero
// the naive computation would hit.
func (s *Service) AverageRating(ctx context.Context, propertyID int64) (*float64, error) {
	return s.repo.AverageRating(ctx, propertyID)
}
