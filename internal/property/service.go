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

package property

import (
	"context"
	"fmt"
	"strings"

	"github.com/rentdesk/rentdesk/internal/audit"
)

// ListingCache caches public browse results. Implementations must be
// fail-open: a cache miss and a cache failure look the same to the service.
type ListingCache interface {
	GetBrowse(ctx context.Context, filter BrowseFilter) ([]*Listing, bool)
	SetBrowse(ctx context.Context, filter BrowseFilter, listings []*Listing)
	Invalidate(ctx context.Context)
}

// Service provides property management and public browsing.
type Service struct {
	repo        Repository
	cache       ListingCache
	auditLogger audit.Logger
}

// NewService creates a new property service. cache may be nil.
func NewService(repo Repository, cache ListingCache, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		auditLogger: auditLogger,
	}
}

// Create lists a new property for an owner. New listings always start
// Available; status is owned by the tenancy operations afterwards.
func (s *Service) Create(ctx context.Context, ownerID int64, p *Property) (*Property, error) {
	if strings.TrimSpace(p.Address) == "" || strings.TrimSpace(p.City) == "" {
		return nil, fmt.Errorf("%w: address and city are required", ErrInvalidProperty)
	}
	if p.MonthlyRent <= 0 {
		return nil, fmt.Errorf("%w: monthly rent must be positive", ErrInvalidProperty)
	}

	p.OwnerID = ownerID
	p.Status = StatusAvailable

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePropertyCreated,
		Role:     "owner",
		ActorID:  ownerID,
		Resource: "property",
		Metadata: map[string]any{"property_id": p.ID, "city": p.City},
	})

	return p, nil
}

// Get retrieves a property, enforcing ownership.
func (s *Service) Get(ctx context.Context, ownerID, propertyID int64) (*Property, error) {
	p, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// Update overwrites a property's mutable fields, enforcing ownership. The
// stored status always survives the update: Available/Rented tracks the
// open occupancy and only the tenancy operations may flip it.
func (s *Service) Update(ctx context.Context, ownerID int64, p *Property) error {
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}

	p.OwnerID = ownerID
	p.Status = existing.Status
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidateListings(ctx)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePropertyUpdated,
		Role:     "owner",
		ActorID:  ownerID,
		Resource: "property",
		Metadata: map[string]any{"property_id": p.ID},
	})

	return nil
}

// Delete removes a property and all dependent records, enforcing ownership.
func (s *Service) Delete(ctx context.Context, ownerID, propertyID int64) error {
	existing, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.repo.DeleteCascade(ctx, propertyID); err != nil {
		return err
	}
	s.invalidateListings(ctx)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePropertyDeleted,
		Role:     "owner",
		ActorID:  ownerID,
		Resource: "property",
		Metadata: map[string]any{"property_id": propertyID},
	})

	return nil
}

// ListByOwner returns the owner's properties with current tenancy details.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*OwnerUnit, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Stats returns dashboard counts for an owner.
func (s *Service) Stats(ctx context.Context, ownerID int64) (OwnerStats, error) {
	return s.repo.CountByOwner(ctx, ownerID)
}

// Browse returns public listings, consulting the cache first.
func (s *Service) Browse(ctx context.Context, filter BrowseFilter) ([]*Listing, error) {
	if s.cache != nil {
		if listings, ok := s.cache.GetBrowse(ctx, filter); ok {
			return listings, nil
		}
	}

	listings, err := s.repo.Browse(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetBrowse(ctx, filter, listings)
	}
	return listings, nil
}

// InvalidateListings drops cached browse results. Exposed for the tenancy
// service, whose status flips change what the storefront shows.
func (s *Service) InvalidateListings(ctx context.Context) {
	s.invalidateListings(ctx)
}

func (s *Service) invalidateListings(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
