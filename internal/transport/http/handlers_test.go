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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentdesk/rentdesk/internal/account"
	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/property"
	"github.com/rentdesk/rentdesk/internal/report"
	"github.com/rentdesk/rentdesk/internal/review"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/tenancy"
)

// In-memory fakes. Only the behavior the routing tests reach is implemented;
// everything else returns empty results.

type fakeOwnerRepo struct {
	owners map[int64]*account.Owner
	nextID int64
}

func (f *fakeOwnerRepo) Create(ctx context.Context, o *account.Owner) error {
	for _, existing := range f.owners {
		if existing.Email == o.Email {
			return account.ErrEmailTaken
		}
	}
	f.nextID++
	o.ID = f.nextID
	f.owners[o.ID] = o
	return nil
}

func (f *fakeOwnerRepo) GetByCredentials(ctx context.Context, name, email string) (*account.Owner, error) {
	for _, o := range f.owners {
		if o.Name == name && o.Email == email {
			return o, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (f *fakeOwnerRepo) GetByID(ctx context.Context, id int64) (*account.Owner, error) {
	o, ok := f.owners[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return o, nil
}

type fakeTenantRepo struct {
	tenants map[int64]*account.Tenant
	nextID  int64
}

func (f *fakeTenantRepo) Create(ctx context.Context, t *account.Tenant) error {
	f.nextID++
	t.ID = f.nextID
	f.tenants[t.ID] = t
	return nil
}

func (f *fakeTenantRepo) GetByCredentials(ctx context.Context, name, email string) (*account.Tenant, error) {
	for _, t := range f.tenants {
		if t.Name == name && t.Email == email {
			return t, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (f *fakeTenantRepo) GetByID(ctx context.Context, id int64) (*account.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return t, nil
}

func (f *fakeTenantRepo) List(ctx context.Context) ([]*account.TenantSummary, error) {
	out := []*account.TenantSummary{}
	for _, t := range f.tenants {
		out = append(out, &account.TenantSummary{ID: t.ID, Name: t.Name, Email: t.Email})
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[string]*session.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *session.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, id string) (*session.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) Touch(ctx context.Context, id string, seenAt time.Time) error {
	if s, ok := f.sessions[id]; ok {
		s.LastSeenAt = seenAt
	}
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

type fakePropertyRepo struct {
	properties map[int64]*property.Property
	nextID     int64
}

func (f *fakePropertyRepo) Create(ctx context.Context, p *property.Property) error {
	f.nextID++
	p.ID = f.nextID
	f.properties[p.ID] = p
	return nil
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, id int64) (*property.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, property.ErrPropertyNotFound
	}
	return p, nil
}

func (f *fakePropertyRepo) Update(ctx context.Context, p *property.Property) error {
	f.properties[p.ID] = p
	return nil
}

func (f *fakePropertyRepo) DeleteCascade(ctx context.Context, id int64) error {
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*property.OwnerUnit, error) {
	units := []*property.OwnerUnit{}
	for _, p := range f.properties {
		if p.OwnerID == ownerID {
			units = append(units, &property.OwnerUnit{ID: p.ID, Address: p.Address, City: p.City, Status: p.Status})
		}
	}
	return units, nil
}

func (f *fakePropertyRepo) Browse(ctx context.Context, filter property.BrowseFilter) ([]*property.Listing, error) {
	listings := []*property.Listing{}
	for _, p := range f.properties {
		if p.Status == property.StatusAvailable {
			listings = append(listings, &property.Listing{ID: p.ID, Address: p.Address, City: p.City})
		}
	}
	return listings, nil
}

func (f *fakePropertyRepo) CountByOwner(ctx context.Context, ownerID int64) (property.OwnerStats, error) {
	var stats property.OwnerStats
	for _, p := range f.properties {
		if p.OwnerID == ownerID {
			stats.TotalProperties++
			if p.Status == property.StatusRented {
				stats.RentedProperties++
			}
		}
	}
	return stats, nil
}

type fakeTenancyRepo struct{}

func (fakeTenancyRepo) StartTenancy(ctx context.Context, propertyID, tenantID int64, start time.Time) (*tenancy.Occupancy, error) {
	return &tenancy.Occupancy{ID: 1, TenantID: tenantID, PropertyID: propertyID, StartDate: start}, nil
}

func (fakeTenancyRepo) CloseTenancy(ctx context.Context, occupancyID int64, end time.Time) error {
	return nil
}

func (fakeTenancyRepo) GetDetail(ctx context.Context, occupancyID int64) (*tenancy.OccupancyDetail, error) {
	return nil, tenancy.ErrOccupancyNotFound
}

func (fakeTenancyRepo) InsertPayment(ctx context.Context, p *tenancy.Payment) error { return nil }

func (fakeTenancyRepo) ListRentalsByTenant(ctx context.Context, tenantID int64) ([]*tenancy.Rental, error) {
	return []*tenancy.Rental{}, nil
}

func (fakeTenancyRepo) ListPaymentsByTenant(ctx context.Context, tenantID int64) ([]tenancy.Payment, error) {
	return []tenancy.Payment{}, nil
}

func (fakeTenancyRepo) ListOwnerPayments(ctx context.Context, ownerID int64, monthYear string) ([]*tenancy.OwnerPayment, error) {
	return []*tenancy.OwnerPayment{}, nil
}

type fakeReviewRepo struct{}

func (fakeReviewRepo) Create(ctx context.Context, r *review.Review) error { return nil }

func (fakeReviewRepo) AverageRating(ctx context.Context, propertyID int64) (*float64, error) {
	return nil, nil
}

type fakeReportRepo struct{}

func (fakeReportRepo) Stats(ctx context.Context) (report.Stats, error) { return report.Stats{}, nil }

func (fakeReportRepo) AllUsers(ctx context.Context) ([]*report.UserRow, error) {
	return []*report.UserRow{}, nil
}

func (fakeReportRepo) AllApartments(ctx context.Context) ([]*report.ApartmentRow, error) {
	return []*report.ApartmentRow{}, nil
}

func (fakeReportRepo) AllComplaints(ctx context.Context) ([]*report.ComplaintRow, error) {
	return []*report.ComplaintRow{}, nil
}

func (fakeReportRepo) RatingReport(ctx context.Context) ([]*report.RatingRow, error) {
	return []*report.RatingRow{}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *account.Service) {
	t.Helper()

	auditLogger := audit.NewSlogLogger()
	hasher := account.NewPasswordHasher(8192, 1, 1, 16, 32)
	adminHash, err := hasher.Hash("letmein")
	require.NoError(t, err)

	propertyRepo := &fakePropertyRepo{properties: make(map[int64]*property.Property)}

	accountService := account.NewService(
		&fakeOwnerRepo{owners: make(map[int64]*account.Owner)},
		&fakeTenantRepo{tenants: make(map[int64]*account.Tenant)},
		hasher,
		account.AdminConfig{Username: "admin", PasswordHash: adminHash},
		auditLogger,
	)
	sessionService := session.NewService(&fakeSessionRepo{sessions: make(map[string]*session.Session)}, time.Hour, 30*time.Minute)
	propertyService := property.NewService(propertyRepo, nil, auditLogger)
	tenancyService := tenancy.NewService(fakeTenancyRepo{}, propertyRepo, nil, auditLogger)
	reviewService := review.NewService(fakeReviewRepo{}, propertyRepo, auditLogger)
	reportService := report.NewService(fakeReportRepo{})

	h := NewHandler(
		accountService,
		sessionService,
		propertyService,
		tenancyService,
		reviewService,
		reportService,
		auditLogger,
		SessionConfig{
			CookieName:     "rentdesk_session",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
			CookieMaxAge:   3600,
		},
	)

	return NewRouter(h, NewRateLimiter(1000, 1000)), accountService
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "rentdesk_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("expected a session cookie")
	return nil
}

// TestPurpose: Validates that unauthenticated writes to role-gated routes are
// rejected with the Unauthorized envelope.
// Scope: HTTP routing test
// Security: Fail-closed role gates on every role subtree.
// Expected: 401 with {"success":false,"error":"Unauthorized"} and a JSON
// content type.
// Test Case ID: HTP-01
func TestHTTP_Unauthenticated_Rejected(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/owner/property"},
		{http.MethodPost, "/api/owner/assign_tenant"},
		{http.MethodPost, "/api/tenant/make_payment"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/session"},
	} {
		rec := doJSON(t, router, tc.method, tc.path, map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Unauthorized", env.Error)
	}
}

// TestPurpose: Validates the owner login flow end to end: signup, login by
// (name, email), session introspection, and role gating.
// Scope: HTTP routing test
// Expected: Login sets a session cookie; /api/session reflects the owner
// principal; owner routes open up while tenant routes stay Unauthorized.
// Test Case ID: HTP-02
func TestHTTP_OwnerLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/signup", map[string]any{
		"role": "owner", "name": "Asha", "email": "asha@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "owner", "name": "Asha", "email": "asha@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	data := env.Data.(map[string]any)
	assert.Equal(t, "owner", data["role"])
	assert.Equal(t, "/owner/dashboard", data["redirect"])

	rec = doJSON(t, router, http.MethodGet, "/api/session", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, "owner", env.Data.(map[string]any)["role"])

	rec = doJSON(t, router, http.MethodGet, "/api/owner/properties", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong role fails closed
	rec = doJSON(t, router, http.MethodGet, "/api/tenant/rentals", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeEnvelope(t, rec).Error)
}

// TestPurpose: Validates failed logins and unknown roles.
// Scope: HTTP routing test
// Expected: 401 for a credential mismatch, 400 for an unknown role, no
// session cookie in either case.
// Test Case ID: HTP-03
func TestHTTP_LoginFailures(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "owner", "name": "Nobody", "email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)

	rec = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "admin", "username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestPurpose: Validates admin login against the configured credential and
// access to the reporting routes.
// Scope: HTTP routing test
// Expected: Admin session reaches /api/admin/stats; owner routes stay closed.
// Test Case ID: HTP-04
func TestHTTP_AdminLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "admin", "username": "admin", "password": "letmein",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	rec = doJSON(t, router, http.MethodGet, "/api/admin/stats", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)

	rec = doJSON(t, router, http.MethodGet, "/api/owner/properties", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestPurpose: Validates the public surface: health and unfiltered browse.
// Scope: HTTP routing test
// Expected: Both respond 200 without a session, browse returns a JSON array.
// Test Case ID: HTP-05
func TestHTTP_PublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)

	rec = doJSON(t, router, http.MethodGet, "/api/properties/browse", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	_, isArray := env.Data.([]any)
	assert.True(t, isArray)
}

// TestPurpose: Validates logout destroys the session and clears the cookie.
// Scope: HTTP routing test
// Expected: The session cookie stops working after logout.
// Test Case ID: HTP-06
func TestHTTP_Logout(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/signup", map[string]any{
		"role": "tenant", "name": "Ravi", "email": "ravi@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "tenant", "name": "Ravi", "email": "ravi@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/session", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestPurpose: Validates the tenant review flow: a submitted review comes
// back with the property's aggregate rating attached.
// Scope: HTTP routing test
// Expected: 201 with data.review and data.average_rating in the envelope.
// Test Case ID: HTP-07
func TestHTTP_TenantReviewFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/signup", map[string]any{
		"role": "owner", "name": "Asha", "email": "asha@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "owner", "name": "Asha", "email": "asha@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	ownerCookie := sessionCookie(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/owner/property", map[string]any{
		"address": "1 Main St", "city": "Pune", "monthly_rent": 900,
	}, ownerCookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/signup", map[string]any{
		"role": "tenant", "name": "Ravi", "email": "ravi@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"role": "tenant", "name": "Ravi", "email": "ravi@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	tenantCookie := sessionCookie(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/tenant/review", map[string]any{
		"property_id": 1, "rating": 5, "comment": "Great landlord",
	}, tenantCookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	data := env.Data.(map[string]any)
	assert.Contains(t, data, "review")
	assert.Contains(t, data, "average_rating")
}
