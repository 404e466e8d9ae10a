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
	"errors"
	"time"
)

// Domain errors
var (
	ErrOccupancyNotFound   = errors.New("occupancy not found")
	ErrAlreadyRented       = errors.New("property is already rented")
	ErrDuplicateAssignment = errors.New("tenant already assigned to this property today")
	ErrTenancyClosed       = errors.New("tenancy already ended")
	ErrNotTenant           = errors.New("occupancy does not belong to caller")
	ErrInvalidAmount       = errors.New("payment amount must be positive")
	ErrInvalidPeriod       = errors.New("billing period must be YYYY-MM")
)

// Payment status values
const (
	PaymentPaid    = "Paid"
	PaymentPending = "Pending"
)

// Occupancy links a tenant to a property over an interval. An open
// occupancy (EndDate nil) is what makes a property Rented; at most one open
// occupancy may exist per property.
type Occupancy struct {
	ID         int64      `json:"occupancy_id"`
	TenantID   int64      `json:"tenant_id"`
	PropertyID int64      `json:"property_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// OccupancyDetail is an occupancy with the joined property owner, used for
// ownership and tenancy checks before mutating.
type OccupancyDetail struct {
	Occupancy
	PropertyOwnerID int64
}

// Payment represents rent paid against an occupancy. Immutable once recorded.
type Payment struct {
	ID          int64     `json:"payment_id"`
	OccupancyID int64     `json:"occupancy_id"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	MonthYear   string    `json:"month_year"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
}

// Rental is a tenant-dashboard row: one occupancy with its property, the
// owner contact, the payments made against it, and the computed rent_due flag.
type Rental struct {
	PropertyID  int64      `json:"property_id"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Description string     `json:"description"`
	SqFootage   int        `json:"sq_footage"`
	MonthlyRent float64    `json:"monthly_rent"`
	Status      string     `json:"status"`
	OwnerName   string     `json:"owner_name"`
	OwnerPhone  string     `json:"owner_phone"`
	OccupancyID int64      `json:"occupancy_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Payments    []Payment  `json:"payments"`
	RentDue     bool       `json:"rent_due"`
}

// OwnerPayment is an owner-dashboard row: a payment with the paying tenant
// and the property it covers.
type OwnerPayment struct {
	ID              int64     `json:"payment_id"`
	Amount          float64   `json:"amount"`
	PaymentDate     time.Time `json:"payment_date"`
	MonthYear       string    `json:"month_year"`
	Method          string    `json:"method"`
	Status          string    `json:"status"`
	TenantName      string    `json:"tenant_name"`
	PropertyAddress string    `json:"property_address"`
}

// Repository defines the interface for occupancy and payment persistence.
// StartTenancy and CloseTenancy are transactional: the occupancy change and
// the property status flip commit together or not at all.
type Repository interface {
	// StartTenancy opens an occupancy and marks the property Rented.
	// Fails with ErrAlreadyRented if an open occupancy exists, or
	// ErrDuplicateAssignment if the same tenant was assigned the same
	// property on the same day.
	StartTenancy(ctx context.Context, propertyID, tenantID int64, start time.Time) (*Occupancy, error)

	// CloseTenancy sets the occupancy end date and marks the property
	// Available. Fails with ErrTenancyClosed if the occupancy is not open.
	CloseTenancy(ctx context.Context, occupancyID int64, end time.Time) error

	// GetDetail retrieves an occupancy with the property owner joined in.
	GetDetail(ctx context.Context, occupancyID int64) (*OccupancyDetail, error)

	// InsertPayment records a payment and fills in the generated ID.
	InsertPayment(ctx context.Context, p *Payment) error

	// ListRentalsByTenant returns the tenant's occupancies newest first,
	// without payments attached.
	ListRentalsByTenant(ctx context.Context, tenantID int64) ([]*Rental, error)

	// ListPaymentsByTenant returns all payments across the tenant's occupancies.
	ListPaymentsByTenant(ctx context.Context, tenantID int64) ([]Payment, error)

	// ListOwnerPayments returns payments for the owner's properties in a month.
	ListOwnerPayments(ctx context.Context, ownerID int64, monthYear string) ([]*OwnerPayment, error)
}
