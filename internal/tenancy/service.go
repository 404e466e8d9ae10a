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

package tenancy

import (
	"context"
	"regexp"
	"time"

	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/property"
)

var monthYearRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PropertyStore is the slice of the property repository the tenancy rules
// need for precondition checks.
type PropertyStore interface {
	GetByID(ctx context.Context, id int64) (*property.Property, error)
}

// ListingInvalidator drops cached storefront listings after a status flip.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context)
}

// Service encodes the occupancy and payment rules the original schema kept
// in triggers and sp_checkout_tenant: status sync on start/end of tenancy,
// same-day duplicate assignment rejection, and checkout side effects.
type Service struct {
	repo        Repository
	props       PropertyStore
	listings    ListingInvalidator
	auditLogger audit.Logger
}

// NewService creates a new tenancy service. listings may be nil.
func NewService(repo Repository, props PropertyStore, listings ListingInvalidator, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		props:       props,
		listings:    listings,
		auditLogger: auditLogger,
	}
}

// AssignTenant opens a tenancy on behalf of the owner. The property must be
// owned by the caller and Available; the repository re-checks both inside
// the transaction so a concurrent assignment cannot double-rent.
func (s *Service) AssignTenant(ctx context.Context, ownerID, propertyID, tenantID int64) (*Occupancy, error) {
	p, err := s.props.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, property.ErrNotOwner
	}
	if p.Status != property.StatusAvailable {
		return nil, ErrAlreadyRented
	}

	return s.startTenancy(ctx, "owner", ownerID, propertyID, tenantID)
}

// RequestRent opens a tenancy on behalf of the tenant. Same preconditions
// and effect as AssignTenant, minus the ownership requirement.
func (s *Service) RequestRent(ctx context.Context, tenantID, propertyID int64) (*Occupancy, error) {
	p, err := s.props.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.Status != property.StatusAvailable {
		return nil, ErrAlreadyRented
	}

	return s.startTenancy(ctx, "tenant", tenantID, propertyID, tenantID)
}

func (s *Service) startTenancy(ctx context.Context, role string, actorID, propertyID, tenantID int64) (*Occupancy, error) {
	occ, err := s.repo.StartTenancy(ctx, propertyID, tenantID, today())
	if err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenancyStarted,
		Role:     role,
		ActorID:  actorID,
		Resource: "occupancy",
		Metadata: map[string]any{
			"occupancy_id": occ.ID,
			"property_id":  propertyID,
			"tenant_id":    tenantID,
		},
	})

	return occ, nil
}

// EndTenancy closes an open occupancy and releases the property. Only the
// owner of the associated property may end a tenancy.
func (s *Service) EndTenancy(ctx context.Context, ownerID, occupancyID int64) error {
	detail, err := s.repo.GetDetail(ctx, occupancyID)
	if err != nil {
		return err
	}
	if detail.PropertyOwnerID != ownerID {
		return property.ErrNotOwner
	}
	if detail.EndDate != nil {
		return ErrTenancyClosed
	}

	if err := s.repo.CloseTenancy(ctx, occupancyID, today()); err != nil {
		return err
	}
	s.invalidateListings(ctx)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenancyEnded,
		Role:     "owner",
		ActorID:  ownerID,
		Resource: "occupancy",
		Metadata: map[string]any{
			"occupancy_id": occupancyID,
			"property_id":  detail.PropertyID,
		},
	})

	return nil
}

// RecordPayment records rent paid by the tenant holding the occupancy.
// Nothing stops a tenant paying the same month twice; the original system
// is permissive here and that behavior is kept.
func (s *Service) RecordPayment(ctx context.Context, tenantID, occupancyID int64, amount float64, monthYear, method string) (*Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !monthYearRe.MatchString(monthYear) {
		return nil, ErrInvalidPeriod
	}

	detail, err := s.repo.GetDetail(ctx, occupancyID)
	if err != nil {
		return nil, err
	}
	if detail.TenantID != tenantID {
		return nil, ErrNotTenant
	}

	p := &Payment{
		OccupancyID: occupancyID,
		Amount:      amount,
		PaymentDate: today(),
		MonthYear:   monthYear,
		Method:      method,
		Status:      PaymentPaid,
	}
	if err := s.repo.InsertPayment(ctx, p); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePaymentRecorded,
		Role:     "tenant",
		ActorID:  tenantID,
		Resource: "payment",
		Metadata: map[string]any{
			"payment_id":   p.ID,
			"occupancy_id": occupancyID,
			"month_year":   monthYear,
		},
	})

	return p, nil
}

// Rentals returns the tenant's occupancies with payments attached and the
// rent_due flag computed for now's month: due iff the tenancy is open and no
// Paid or Pending payment covers the current month.
func (s *Service) Rentals(ctx context.Context, tenantID int64, now time.Time) ([]*Rental, error) {
	rentals, err := s.repo.ListRentalsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPaymentsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byOccupancy := make(map[int64][]Payment)
	for _, p := range payments {
		byOccupancy[p.OccupancyID] = append(byOccupancy[p.OccupancyID], p)
	}

	currentMonth := now.Format("2006-01")
	for _, r := range rentals {
		r.Payments = byOccupancy[r.OccupancyID]
		if r.Payments == nil {
			r.Payments = []Payment{}
		}
		r.RentDue = rentDue(r, currentMonth)
	}

	return rentals, nil
}

// OwnerPayments returns payments for the owner's properties in a month.
func (s *Service) OwnerPayments(ctx context.Context, ownerID int64, monthYear string) ([]*OwnerPayment, error) {
	if !monthYearRe.MatchString(monthYear) {
		return nil, ErrInvalidPeriod
	}
	return s.repo.ListOwnerPayments(ctx, ownerID, monthYear)
}

func rentDue(r *Rental, currentMonth string) bool {
	if r.EndDate != nil {
		return false
	}
	for _, p := range r.Payments {
		if p.MonthYear == currentMonth && (p.Status == PaymentPaid || p.Status == PaymentPending) {
			return false
		}
	}
	return true
}

func (s *Service) invalidateListings(ctx context.Context) {
	if s.listings != nil {
		s.listings.InvalidateListings(ctx)
	}
}

// today truncates the UTC clock to the date, matching the CURDATE()
// semantics the original relied on. UTC date parts keep the application
// date in step with the database's now().
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
