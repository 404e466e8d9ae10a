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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/property"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) StartTenancy(ctx context.Context, propertyID, tenantID int64, start time.Time) (*Occupancy, error) {
	args := m.Called(ctx, propertyID, tenantID, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Occupancy), args.Error(1)
}

func (m *mockRepo) CloseTenancy(ctx context.Context, occupancyID int64, end time.Time) error {
	args := m.Called(ctx, occupancyID, end)
	return args.Error(0)
}

func (m *mockRepo) GetDetail(ctx context.Context, occupancyID int64) (*OccupancyDetail, error) {
	args := m.Called(ctx, occupancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OccupancyDetail), args.Error(1)
}

func (m *mockRepo) InsertPayment(ctx context.Context, p *Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockRepo) ListRentalsByTenant(ctx context.Context, tenantID int64) ([]*Rental, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*Rental), args.Error(1)
}

func (m *mockRepo) ListPaymentsByTenant(ctx context.Context, tenantID int64) ([]Payment, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]Payment), args.Error(1)
}

func (m *mockRepo) ListOwnerPayments(ctx context.Context, ownerID int64, monthYear string) ([]*OwnerPayment, error) {
	args := m.Called(ctx, ownerID, monthYear)
	return args.Get(0).([]*OwnerPayment), args.Error(1)
}

type mockPropertyStore struct {
	mock.Mock
}

func (m *mockPropertyStore) GetByID(ctx context.Context, id int64) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

// TestPurpose: Validates that assigning a tenant enforces ownership and the
// Available precondition before opening an occupancy.
// Scope: Unit Test
// Expected: ErrNotOwner for foreign properties, ErrAlreadyRented for rented
// ones, and a started tenancy when both checks pass.
// Test Case ID: TNC-01
func TestTenancy_Service_AssignTenant(t *testing.T) {
	repo := new(mockRepo)
	props := new(mockPropertyStore)
	s := NewService(repo, props, nil, audit.NewSlogLogger())
	ctx := context.Background()

	// Foreign property
	props.On("GetByID", ctx, int64(1)).Return(&property.Property{
		ID: 1, OwnerID: 99, Status: property.StatusAvailable,
	}, nil)
	_, err := s.AssignTenant(ctx, 10, 1, 20)
	assert.ErrorIs(t, err, property.ErrNotOwner)

	// Already rented
	props.On("GetByID", ctx, int64(2)).Return(&property.Property{
		ID: 2, OwnerID: 10, Status: property.StatusRented,
	}, nil)
	_, err = s.AssignTenant(ctx, 10, 2, 20)
	assert.ErrorIs(t, err, ErrAlreadyRented)

	// Success
	props.On("GetByID", ctx, int64(3)).Return(&property.Property{
		ID: 3, OwnerID: 10, Status: property.StatusAvailable,
	}, nil)
	repo.On("StartTenancy", ctx, int64(3), int64(20), mock.AnythingOfType("time.Time")).
		Return(&Occupancy{ID: 7, TenantID: 20, PropertyID: 3}, nil)

	occ, err := s.AssignTenant(ctx, 10, 3, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), occ.ID)

	repo.AssertExpectations(t)
	props.AssertExpectations(t)
}

// TestPurpose: Validates that a tenant can rent an Available property without
// owning it, and that the rented precondition still applies.
// Scope: Unit Test
// Expected: Tenancy starts on an Available property; ErrAlreadyRented otherwise.
// Test Case ID: TNC-02
func TestTenancy_Service_RequestRent(t *testing.T) {
	repo := new(mockRepo)
	props := new(mockPropertyStore)
	s := NewService(repo, props, nil, audit.NewSlogLogger())
	ctx := context.Background()

	props.On("GetByID", ctx, int64(5)).Return(&property.Property{
		ID: 5, OwnerID: 99, Status: property.StatusAvailable,
	}, nil)
	repo.On("StartTenancy", ctx, int64(5), int64(20), mock.AnythingOfType("time.Time")).
		Return(&Occupancy{ID: 8, TenantID: 20, PropertyID: 5}, nil)

	occ, err := s.RequestRent(ctx, 20, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(8), occ.ID)

	props.On("GetByID", ctx, int64(6)).Return(&property.Property{
		ID: 6, OwnerID: 99, Status: property.StatusRented,
	}, nil)
	_, err = s.RequestRent(ctx, 20, 6)
	assert.ErrorIs(t, err, ErrAlreadyRented)
}

// TestPurpose: Validates that ending a tenancy requires ownership and an open
// occupancy.
// Scope: Unit Test
// Expected: ErrNotOwner for foreign occupancies, ErrTenancyClosed when the
// end date is already set, success otherwise.
// Test Case ID: TNC-03
func TestTenancy_Service_EndTenancy(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, new(mockPropertyStore), nil, audit.NewSlogLogger())
	ctx := context.Background()

	repo.On("GetDetail", ctx, int64(1)).Return(&OccupancyDetail{
		Occupancy:       Occupancy{ID: 1, TenantID: 20, PropertyID: 3},
		PropertyOwnerID: 99,
	}, nil)
	err := s.EndTenancy(ctx, 10, 1)
	assert.ErrorIs(t, err, property.ErrNotOwner)

	ended := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	repo.On("GetDetail", ctx, int64(2)).Return(&OccupancyDetail{
		Occupancy:       Occupancy{ID: 2, TenantID: 20, PropertyID: 3, EndDate: &ended},
		PropertyOwnerID: 10,
	}, nil)
	err = s.EndTenancy(ctx, 10, 2)
	assert.ErrorIs(t, err, ErrTenancyClosed)

	repo.On("GetDetail", ctx, int64(3)).Return(&OccupancyDetail{
		Occupancy:       Occupancy{ID: 3, TenantID: 20, PropertyID: 3},
		PropertyOwnerID: 10,
	}, nil)
	repo.On("CloseTenancy", ctx, int64(3), mock.AnythingOfType("time.Time")).Return(nil)
	err = s.EndTenancy(ctx, 10, 3)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

// TestPurpose: Validates payment recording rules: positive amount, YYYY-MM
// period, and occupancy ownership by the paying tenant.
// Scope: Unit Test
// Expected: ErrInvalidAmount, ErrInvalidPeriod and ErrNotTenant on the
// respective violations; a Paid payment dated today on success.
// Test Case ID: TNC-04
func TestTenancy_Service_RecordPayment(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, new(mockPropertyStore), nil, audit.NewSlogLogger())
	ctx := context.Background()

	_, err := s.RecordPayment(ctx, 20, 1, 0, "2026-03", "card")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.RecordPayment(ctx, 20, 1, 900, "March 2026", "card")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = s.RecordPayment(ctx, 20, 1, 900, "2026-13", "card")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	repo.On("GetDetail", ctx, int64(1)).Return(&OccupancyDetail{
		Occupancy:       Occupancy{ID: 1, TenantID: 77, PropertyID: 3},
		PropertyOwnerID: 10,
	}, nil)
	_, err = s.RecordPayment(ctx, 20, 1, 900, "2026-03", "card")
	assert.ErrorIs(t, err, ErrNotTenant)

	repo.On("GetDetail", ctx, int64(2)).Return(&OccupancyDetail{
		Occupancy:       Occupancy{ID: 2, TenantID: 20, PropertyID: 3},
		PropertyOwnerID: 10,
	}, nil)
	repo.On("InsertPayment", ctx, mock.MatchedBy(func(p *Payment) bool {
		return p.OccupancyID == 2 && p.Amount == 900 && p.Status == PaymentPaid && p.MonthYear == "2026-03"
	})).Return(nil)

	payment, err := s.RecordPayment(ctx, 20, 2, 900, "2026-03", "card")
	assert.NoError(t, err)
	assert.Equal(t, PaymentPaid, payment.Status)

	repo.AssertExpectations(t)
}

// TestPurpose: Validates the rent_due computation: due only while the tenancy
// is open and no Paid or Pending payment covers the current month.
// Scope: Unit Test
// Expected: Open unpaid rental is due; paid, pending and ended rentals are not.
// Test Case ID: TNC-05
func TestTenancy_Service_Rentals_RentDue(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, new(mockPropertyStore), nil, audit.NewSlogLogger())
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ended := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	repo.On("ListRentalsByTenant", ctx, int64(20)).Return([]*Rental{
		{OccupancyID: 1},                 // open, unpaid
		{OccupancyID: 2},                 // open, paid this month
		{OccupancyID: 3},                 // open, pending this month
		{OccupancyID: 4, EndDate: &ended}, // closed
		{OccupancyID: 5},                 // open, paid a previous month only
	}, nil)
	repo.On("ListPaymentsByTenant", ctx, int64(20)).Return([]Payment{
		{ID: 1, OccupancyID: 2, MonthYear: "2026-03", Status: PaymentPaid},
		{ID: 2, OccupancyID: 3, MonthYear: "2026-03", Status: PaymentPending},
		{ID: 3, OccupancyID: 5, MonthYear: "2026-02", Status: PaymentPaid},
	}, nil)

	rentals, err := s.Rentals(ctx, 20, now)
	assert.NoError(t, err)
	assert.Len(t, rentals, 5)

	assert.True(t, rentals[0].RentDue)
	assert.False(t, rentals[1].RentDue)
	assert.False(t, rentals[2].RentDue)
	assert.False(t, rentals[3].RentDue)
	assert.True(t, rentals[4].RentDue)

	// Payments end up attached to their occupancy, never nil
	assert.Empty(t, rentals[0].Payments)
	assert.Len(t, rentals[1].Payments, 1)
}

// TestPurpose: Validates the month filter on the owner payment report.
// Scope: Unit Test
// Expected: ErrInvalidPeriod on malformed months; pass-through otherwise.
// Test Case ID: TNC-06
func TestTenancy_Service_OwnerPayments(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, new(mockPropertyStore), nil, audit.NewSlogLogger())
	ctx := context.Background()

	_, err := s.OwnerPayments(ctx, 10, "bad")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	repo.On("ListOwnerPayments", ctx, int64(10), "2026-03").Return([]*OwnerPayment{
		{ID: 1, Amount: 900, MonthYear: "2026-03"},
	}, nil)
	payments, err := s.OwnerPayments(ctx, 10, "2026-03")
	assert.NoError(t, err)
	assert.Len(t, payments, 1)
}

// TestPurpose: Validates that recorded dates are UTC midnights derived
// from the UTC calendar date, so the application date agrees with the
// database's now() regardless of the process timezone.
// Scope: Unit Test
// Expected: today() is midnight UTC on the current UTC date.
// Test Case ID: TNC-07
func TestTenancy_TodayIsUTCDate(t *testing.T) {
	before := time.Now().UTC()
	got := today()
	after := time.Now().UTC()

	assert.Equal(t, time.UTC, got.Location())
	assert.Zero(t, got.Hour())
	assert.Zero(t, got.Minute())
	assert.Zero(t, got.Second())

	// The test may straddle midnight; either surrounding UTC date is fine.
	day := got.Format("2006-01-02")
	assert.Contains(t, []string{before.Format("2006-01-02"), after.Format("2006-01-02")}, day)
}
