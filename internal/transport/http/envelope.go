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
	"errors"
	"log/slog"
	"net/http"

	"github.com/rentdesk/rentdesk/internal/account"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/property"
	"github.com/rentdesk/rentdesk/internal/review"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/tenancy"
)

// Envelope is the uniform response shape. Success responses carry data and
// optionally a message; failures carry an error string.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, Envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Success: false, Error: message})
}

// respondDomainError maps domain sentinels to HTTP statuses. Anything
// unrecognized (including the storage taxonomy) is logged and surfaced as a
// generic 500 so SQLSTATE details never leak to clients.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, account.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, account.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, "invalid email address")
	case errors.Is(err, account.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, property.ErrPropertyNotFound):
		respondError(w, http.StatusNotFound, "property not found")
	case errors.Is(err, property.ErrNotOwner), errors.Is(err, tenancy.ErrNotTenant):
		respondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, property.ErrInvalidProperty),
		errors.Is(err, tenancy.ErrInvalidAmount),
		errors.Is(err, tenancy.ErrInvalidPeriod),
		errors.Is(err, review.ErrInvalidRating):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tenancy.ErrOccupancyNotFound):
		respondError(w, http.StatusNotFound, "occupancy not found")
	case errors.Is(err, tenancy.ErrAlreadyRented),
		errors.Is(err, tenancy.ErrDuplicateAssignment),
		errors.Is(err, tenancy.ErrTenancyClosed),
		errors.Is(err, review.ErrDuplicateReview):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionExpired):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			logger.Error(err),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
		)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func getIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
