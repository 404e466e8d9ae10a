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
	"errors"
	"time"
)

// Domain errors
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotOwner         = errors.New("property not owned by caller")
	ErrInvalidProperty  = errors.New("invalid property data")
)

// Property status values. A property is Rented exactly while an open
// occupancy (end_date NULL) exists for it; the tenancy operations are the
// only way to move between the two states.
const (
	StatusAvailable = "Available"
	StatusRented    = "Rented"
)

// Property represents a rentable unit listed by an owner
type Property struct {
	ID          int64   `json:"property_id"`
	OwnerID     int64   `json:"owner_id"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	SqFootage   int     `json:"sq_footage"`
	MonthlyRent float64 `json:"monthly_rent"`
	Status      string  `json:"status"`
	CreatedAt   time.Time `json:"-"`
}

// Listing is the public browse row: property plus owner contact and the
// aggregate review rating (0 when the property has no reviews).
type Listing struct {
	ID          int64   `json:"property_id"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	SqFootage   int     `json:"sq_footage"`
	MonthlyRent float64 `json:"monthly_rent"`
	Status      string  `json:"status"`
	OwnerName   string  `json:"owner_name"`
	OwnerPhone  string  `json:"owner_phone"`
	AvgRating   float64 `json:"avg_rating"`
}

// OwnerUnit is an owner-dashboard row: the property joined with its current
// open occupancy and tenant contact, when one exists.
type OwnerUnit struct {
	ID          int64   `json:"property_id"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	SqFootage   int     `json:"sq_footage"`
	MonthlyRent float64 `json:"monthly_rent"`
	Status      string  `json:"status"`

	OccupancyID *int64     `json:"occupancy_id"`
	StartDate   *time.Time `json:"start_date"`
	TenantID    *int64     `json:"tenant_id"`
	TenantName  *string    `json:"tenant_name"`
	TenantEmail *string    `json:"tenant_email"`
	TenantPhone *string    `json:"tenant_phone"`
}

// OwnerStats summarizes an owner's portfolio for the dashboard cards.
type OwnerStats struct {
	TotalProperties  int64 `json:"total_properties"`
	RentedProperties int64 `json:"rented_properties"`
}

// BrowseFilter narrows the public listing search. Zero values mean no filter;
// an unfiltered browse returns Available properties only, matching the
// public storefront.
type BrowseFilter struct {
	Keyword string
	City    string
}

// Repository defines the interface for property persistence
type Repository interface {
	// Create inserts a new property and fills in the generated ID.
	Create(ctx context.Context, p *Property) error

	// GetByID retrieves a property by ID.
	GetByID(ctx context.Context, id int64) (*Property, error)

	// Update overwrites the mutable property fields.
	Update(ctx context.Context, p *Property) error

	// DeleteCascade removes the property and every dependent payment,
	// occupancy and review in one transaction, children first.
	DeleteCascade(ctx context.Context, id int64) error

	// ListByOwner returns the owner's properties with current tenancy joined in.
	ListByOwner(ctx context.Context, ownerID int64) ([]*OwnerUnit, error)

	// Browse returns public listings matching the filter.
	Browse(ctx context.Context, filter BrowseFilter) ([]*Listing, error)

	// CountByOwner returns total and rented property counts for an owner.
	CountByOwner(ctx context.Context, ownerID int64) (OwnerStats, error)
}
