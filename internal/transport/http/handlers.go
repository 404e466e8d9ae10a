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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rentdesk/rentdesk/internal/account"
	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/property"
	"github.com/rentdesk/rentdesk/internal/report"
	"github.com/rentdesk/rentdesk/internal/review"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/tenancy"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	accountService  *account.Service
	sessionService  *session.Service
	propertyService *property.Service
	tenancyService  *tenancy.Service
	reviewService   *review.Service
	reportService   *report.Service
	auditLogger     audit.Logger
	sessionConfig   SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	CookieMaxAge   int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	accountService *account.Service,
	sessionService *session.Service,
	propertyService *property.Service,
	tenancyService *tenancy.Service,
	reviewService *review.Service,
	reportService *report.Service,
	auditLogger audit.Logger,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		accountService:  accountService,
		sessionService:  sessionService,
		propertyService: propertyService,
		tenancyService:  tenancyService,
		reviewService:   reviewService,
		reportService:   reportService,
		auditLogger:     auditLogger,
		sessionConfig:   sessionConfig,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
		r.Get("/properties/browse", h.BrowseProperties)

		// Any authenticated role
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.GetSession)
		})

		// Admin subtree
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(RequireRole(account.RoleAdmin))
			r.Get("/stats", h.AdminStats)
			r.Get("/all_users", h.AdminAllUsers)
			r.Get("/all_apartments", h.AdminAllApartments)
			r.Get("/all_complaints", h.AdminAllComplaints)
			r.Get("/rating_report", h.AdminRatingReport)
		})

		// Owner subtree
		r.Route("/owner", func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(RequireRole(account.RoleOwner))
			r.Get("/properties", h.OwnerProperties)
			r.Get("/stats", h.OwnerStats)
			r.Get("/all_tenants", h.OwnerAllTenants)
			r.Get("/payments", h.OwnerPayments)
			r.Post("/property", h.CreateProperty)
			r.Route("/property/{propertyID}", func(r chi.Router) {
				r.Get("/", h.GetProperty)
				r.Put("/", h.UpdateProperty)
				r.Delete("/", h.DeleteProperty)
			})
			r.Post("/assign_tenant", h.AssignTenant)
			r.Post("/end_tenancy", h.EndTenancy)
		})

		// Tenant subtree
		r.Route("/tenant", func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(RequireRole(account.RoleTenant))
			r.Get("/rentals", h.TenantRentals)
			r.Post("/make_payment", h.MakePayment)
			r.Post("/review", h.SubmitReview)
			r.Post("/request-rent", h.RequestRent)
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "rentdesk",
	})
}

// LoginRequest carries credentials for any of the three roles. Owners and
// tenants authenticate by exact (name, email); the admin by username and
// password.
type LoginRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a caller and establishes a session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		accountID int64
		name      string
		email     string
		redirect  string
	)

	switch req.Role {
	case account.RoleAdmin:
		if err := h.accountService.AuthenticateAdmin(r.Context(), req.Username, req.Password); err != nil {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		name = req.Username
		redirect = "/admin/dashboard"
	case account.RoleOwner:
		owner, err := h.accountService.AuthenticateOwner(r.Context(), req.Name, req.Email)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		accountID, name, email = owner.ID, owner.Name, owner.Email
		redirect = "/owner/dashboard"
	case account.RoleTenant:
		tenant, err := h.accountService.AuthenticateTenant(r.Context(), req.Name, req.Email)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		accountID, name, email = tenant.ID, tenant.Name, tenant.Email
		redirect = "/tenant/dashboard"
	default:
		respondError(w, http.StatusBadRequest, "unknown role")
		return
	}

	sess, err := h.sessionService.Create(
		r.Context(),
		req.Role,
		accountID,
		name,
		email,
		getIPAddress(r),
		r.UserAgent(),
	)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID)

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeLoginSuccess,
		Role:      req.Role,
		ActorID:   accountID,
		Resource:  "session",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{"session_id": sess.ID},
	})

	respondData(w, http.StatusOK, map[string]any{
		"role":     req.Role,
		"id":       accountID,
		"name":     name,
		"redirect": redirect,
	})
}

// SignupRequest carries registration data for an owner or tenant
type SignupRequest struct {
	Role        string `json:"role"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	BankDetails string `json:"bank_details"`
	IDProof     string `json:"id_proof"`
}

// Signup registers a new owner or tenant
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Role {
	case account.RoleOwner:
		owner, err := h.accountService.SignupOwner(r.Context(), req.Name, req.Email, req.Phone, req.BankDetails)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		respondData(w, http.StatusCreated, map[string]any{"id": owner.ID, "role": account.RoleOwner})
	case account.RoleTenant:
		tenant, err := h.accountService.SignupTenant(r.Context(), req.Name, req.Email, req.Phone, req.IDProof)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		respondData(w, http.StatusCreated, map[string]any{"id": tenant.ID, "role": account.RoleTenant})
	default:
		respondError(w, http.StatusBadRequest, "unknown role")
	}
}

// Logout destroys the current session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	if err := h.sessionService.Destroy(r.Context(), p.SessionID); err != nil {
		slog.ErrorContext(r.Context(), "failed to destroy session", logger.Error(err))
	}
	h.clearSessionCookie(w)

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeLogout,
		Role:      p.Role,
		ActorID:   p.AccountID,
		Resource:  "session",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{"session_id": p.SessionID},
	})

	respondMessage(w, http.StatusOK, "logged out successfully")
}

// GetSession returns the current principal
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())
	respondData(w, http.StatusOK, map[string]any{
		"role":  p.Role,
		"id":    p.AccountID,
		"name":  p.Name,
		"email": p.Email,
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   h.sessionConfig.CookieMaxAge,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
