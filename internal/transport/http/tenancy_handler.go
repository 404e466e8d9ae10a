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

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rentdesk/rentdesk/internal/tenancy"
)

// AssignTenantRequest names the tenant and the owner's property to rent out
type AssignTenantRequest struct {
	PropertyID int64 `json:"property_id"`
	TenantID   int64 `json:"tenant_id"`
}

// AssignTenant opens a tenancy on one of the calling owner's properties
func (h *Handler) AssignTenant(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	var req AssignTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	occ, err := h.tenancyService.AssignTenant(r.Context(), p.AccountID, req.PropertyID, req.TenantID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, occ)
}

// EndTenancyRequest names the occupancy to close
type EndTenancyRequest struct {
	OccupancyID int64 `json:"occupancy_id"`
}

// EndTenancy closes an open tenancy on one of the calling owner's properties
func (h *Handler) EndTenancy(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	var req EndTenancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tenancyService.EndTenancy(r.Context(), p.AccountID, req.OccupancyID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "tenancy ended")
}

// RequestRentRequest names the property the calling tenant wants to rent
type RequestRentRequest struct {
	PropertyID int64 `json:"property_id"`
}

// RequestRent opens a tenancy on behalf of the calling tenant
func (h *Handler) RequestRent(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	var req RequestRentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	occ, err := h.tenancyService.RequestRent(r.Context(), p.AccountID, req.PropertyID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, occ)
}

// MakePaymentRequest carries a rent payment against an occupancy
type MakePaymentRequest struct {
	OccupancyID int64   `json:"occupancy_id"`
	Amount      float64 `json:"amount"`
	MonthYear   string  `json:"month_year"`
	Method      string  `json:"method"`
}

// MakePayment records rent paid by the calling tenant
func (h *Handler) MakePayment(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	var req MakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.tenancyService.RecordPayment(r.Context(), p.AccountID, req.OccupancyID, req.Amount, req.MonthYear, req.Method)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, payment)
}

// TenantRentals returns the calling tenant's occupancies with payments and
// the rent_due flag
func (h *Handler) TenantRentals(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	rentals, err := h.tenancyService.Rentals(r.Context(), p.AccountID, time.Now())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if rentals == nil {
		rentals = []*tenancy.Rental{}
	}
	respondData(w, http.StatusOK, rentals)
}
