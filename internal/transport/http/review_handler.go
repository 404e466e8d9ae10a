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
	"log/slog"
	"net/http"

	"github.com/rentdesk/rentdesk/internal/observability/logger"
)

// ReviewRequest carries a tenant's review of a property
type ReviewRequest struct {
	PropertyID int64  `json:"property_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// SubmitReview records the calling tenant's review of a property
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rv, err := h.reviewService.Submit(r.Context(), p.AccountID, req.PropertyID, req.Rating, req.Comment)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	// The review is committed at this point; a failed aggregate read only
	// costs the convenience field.
	avg, err := h.reviewService.AverageRating(r.Context(), req.PropertyID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute average rating",
			logger.Error(err),
			slog.Int64("property_id", req.PropertyID),
		)
		avg = nil
	}

	respondData(w, http.StatusCreated, map[string]any{
		"review":         rv,
		"average_rating": avg,
	})
}
