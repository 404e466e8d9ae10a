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
	"net/http"

	"github.com/rentdesk/rentdesk/internal/report"
)

// AdminStats returns the admin dashboard counts
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.Stats(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

// AdminAllUsers returns the combined owner and tenant directory
func (h *Handler) AdminAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.reportService.AllUsers(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if users == nil {
		users = []*report.UserRow{}
	}
	respondData(w, http.StatusOK, users)
}

// AdminAllApartments returns every property with its owner and current tenant
func (h *Handler) AdminAllApartments(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.reportService.AllApartments(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if apartments == nil {
		apartments = []*report.ApartmentRow{}
	}
	respondData(w, http.StatusOK, apartments)
}

// AdminAllComplaints returns every review, newest first
func (h *Handler) AdminAllComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.reportService.AllComplaints(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if complaints == nil {
		complaints = []*report.ComplaintRow{}
	}
	respondData(w, http.StatusOK, complaints)
}

// AdminRatingReport returns per-property average ratings, best first
func (h *Handler) AdminRatingReport(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.reportService.RatingReport(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []*report.RatingRow{}
	}
	respondData(w, http.StatusOK, ratings)
}
