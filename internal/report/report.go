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

// Package report provides the read-only aggregates behind the admin
// dashboard. Everything here is plain SQL projection; no mutation.
package report

import (
	"context"
	"time"
)

// Stats holds the admin dashboard card counts.
type Stats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalProperties int64 `json:"total_properties"`
}

// UserRow is one row of the combined owner/tenant directory.
type UserRow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// ApartmentRow is one property with its owner and current tenant, if any.
type ApartmentRow struct {
	PropertyID  int64   `json:"property_id"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	SqFootage   int     `json:"sq_footage"`
	MonthlyRent float64 `json:"monthly_rent"`
	Status      string  `json:"status"`
	OwnerName   string  `json:"owner_name"`
	OwnerEmail  string  `json:"owner_email"`
	OwnerPhone  string  `json:"owner_phone"`
	TenantName  *string `json:"tenant_name"`
}

// ComplaintRow is a review joined with its author and property.
type ComplaintRow struct {
	ReviewID   int64     `json:"review_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"review_date"`
	TenantName string    `json:"tenant_name"`
	Address    string    `json:"address"`
}

// RatingRow is one property's average rating, nil when unrated.
type RatingRow struct {
	PropertyID    int64    `json:"property_id"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	OwnerName     string   `json:"owner_name"`
	AverageRating *float64 `json:"average_rating"`
}

// Repository defines the interface for admin reporting queries
type Repository interface {
	// Stats counts distinct accounts across both role tables and properties.
	Stats(ctx context.Context) (Stats, error)

	// AllUsers returns owners and tenants combined, ordered by name.
	AllUsers(ctx context.Context) ([]*UserRow, error)

	// AllApartments returns every property with owner and current tenant.
	AllApartments(ctx context.Context) ([]*ApartmentRow, error)

	// AllComplaints returns every review, newest first.
	AllComplaints(ctx context.Context) ([]*ComplaintRow, error)

	// RatingReport returns per-property average ratings, best first.
	RatingReport(ctx context.Context) ([]*RatingRow, error)
}

// Service provides admin reporting
type Service struct {
	repo Repository
}

// NewService creates a new report service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) AllUsers(ctx context.Context) ([]*UserRow, error) {
	return s.repo.AllUsers(ctx)
}

func (s *Service) AllApartments(ctx context.Context) ([]*ApartmentRow, error) {
	return s.repo.AllApartments(ctx)
}

func (s *Service) AllComplaints(ctx context.Context) ([]*ComplaintRow, error) {
	return s.repo.AllComplaints(ctx)
}

func (s *Service) RatingReport(ctx context.Context) ([]*RatingRow, error) {
	return s.repo.RatingReport(ctx)
}
