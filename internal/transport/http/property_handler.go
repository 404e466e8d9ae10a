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
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rentdesk/rentdesk/internal/property"
)

// BrowseProperties returns public listings, optionally filtered by keyword
// and city
func (h *Handler) BrowseProperties(w http.ResponseWriter, r *http.Request) {
	filter := property.BrowseFilter{
		Keyword: r.URL.Query().Get("keyword"),
		City:    r.URL.Query().Get("city"),
	}

	listings, err := h.propertyService.Browse(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if listings == nil {
		listings = []*property.Listing{}
	}
	respondData(w, http.StatusOK, listings)
}

// PropertyRequest carries property fields for create and update. A status
// field in the payload is ignored: status follows the open occupancy and
// only the tenancy endpoints change it.
type PropertyRequest struct {
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	SqFootage   int     `json:"sq_footage"`
	MonthlyRent float64 `json:"monthly_rent"`
}

// CreateProperty lists a new property for the calling owner
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.propertyService.Create(r.Context(), p.AccountID, &property.Property{
		Address:     req.Address,
		City:        req.City,
		Description: req.Description,
		SqFootage:   req.SqFootage,
		MonthlyRent: req.MonthlyRent,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, created)
}

// GetProperty returns one of the owner's properties
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	propertyID, ok := pathID(w, r, "propertyID")
	if !ok {
		return
	}

	prop, err := h.propertyService.Get(r.Context(), p.AccountID, propertyID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, prop)
}

// UpdateProperty overwrites one of the owner's properties
func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	propertyID, ok := pathID(w, r, "propertyID")
	if !ok {
		return
	}

	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.propertyService.Update(r.Context(), p.AccountID, &property.Property{
		ID:          propertyID,
		Address:     req.Address,
		City:        req.City,
		Description: req.Description,
		SqFootage:   req.SqFootage,
		MonthlyRent: req.MonthlyRent,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "property updated")
}

// DeleteProperty removes one of the owner's properties and all its history
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	propertyID, ok := pathID(w, r, "propertyID")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(r.Context(), p.AccountID, propertyID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "property deleted")
}

// OwnerProperties returns the owner's portfolio with current tenancy details
func (h *Handler) OwnerProperties(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	units, err := h.propertyService.ListByOwner(r.Context(), p.AccountID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if units == nil {
		units = []*property.OwnerUnit{}
	}
	respondData(w, http.StatusOK, units)
}

// OwnerStats returns the owner's dashboard counts
func (h *Handler) OwnerStats(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	stats, err := h.propertyService.Stats(r.Context(), p.AccountID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

// OwnerAllTenants returns the tenant directory for the assignment form
func (h *Handler) OwnerAllTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.accountService.GetTenants(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, tenants)
}

// OwnerPayments returns payments for the owner's properties in a month,
// defaulting to the current one
func (h *Handler) OwnerPayments(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	payments, err := h.tenancyService.OwnerPayments(r.Context(), p.AccountID, month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"month":    month,
		"payments": payments,
	})
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
