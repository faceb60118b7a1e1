package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/jwt"
	rbac "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/rbac"
	config "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Config"
	logger "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Logger"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	api_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/api"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTService() *jwt.Service {
	return jwt.NewService(api_models.Config{
		SecretKey:            "test-secret",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		Issuer:               "telemetry-test",
	})
}

func mintToken(t *testing.T, svc *jwt.Service, role string) string {
	t.Helper()
	user := &auth_models.User{UserID: "u-1", TenantID: 7, Role: role}
	tenant := &tlmmodels.Tenant{ID: 7, Slug: "acme", IsActive: true}
	pair, err := svc.GenerateTokens(user, tenant)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	return pair.AccessToken
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware(newJWTService(), rbac.NewService(), DefaultConfig())

	router := gin.New()
	router.GET("/x", m.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateLoadsTenantBinding(t *testing.T) {
	svc := newJWTService()
	m := NewAuthMiddleware(svc, rbac.NewService(), DefaultConfig())

	var gotSlug string
	var gotTenantID int64
	router := gin.New()
	router.GET("/x", m.Authenticate(), func(c *gin.Context) {
		gotSlug, _ = GetTenantSlugFromGinContext(c)
		gotTenantID, _ = GetTenantIDFromGinContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, svc, auth_models.RoleViewer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotSlug != "acme" || gotTenantID != 7 {
		t.Errorf("tenant binding: slug=%q id=%d", gotSlug, gotTenantID)
	}
}

func TestRequireAdmin(t *testing.T) {
	svc := newJWTService()
	m := NewAuthMiddleware(svc, rbac.NewService(), DefaultConfig())

	router := gin.New()
	router.GET("/admin", m.Authenticate(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		role string
		want int
	}{
		{auth_models.RoleAdmin, http.StatusOK},
		{auth_models.RoleViewer, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, svc, tc.role))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("role %s: status = %d, want %d", tc.role, w.Code, tc.want)
		}
	}
}

// sessionStore records acquire/release pairs for the tenant middleware tests.
type sessionStore struct {
	acquireErr error
	acquired   int
	released   int
	slug       string
}

func (s *sessionStore) Acquire(_ context.Context, slug string) (interfaces.TenantSession, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.acquired++
	s.slug = slug
	return &recordedSession{store: s}, nil
}

type recordedSession struct {
	store *sessionStore
}

func (s *recordedSession) Devices() interfaces.DeviceRepository     { return nil }
func (s *recordedSession) Readings() interfaces.ReadingRepository   { return nil }
func (s *recordedSession) Locations() interfaces.LocationRepository { return nil }
func (s *recordedSession) Release(context.Context) error {
	s.store.released++
	return nil
}

func newTenantTestRouter(svc *jwt.Service, store *sessionStore, handler gin.HandlerFunc) *gin.Engine {
	log := logger.NewLogger(&config.LoggingConfig{Level: "disabled", Format: "json"})
	auth := NewAuthMiddleware(svc, rbac.NewService(), DefaultConfig())
	tenant := NewTenantMiddleware(store, log, time.Second)

	router := gin.New()
	router.GET("/x", auth.Authenticate(), tenant.OpenSession(), handler)
	return router
}

func TestOpenSessionBracketsTheRequest(t *testing.T) {
	svc := newJWTService()
	store := &sessionStore{}

	var sawSession bool
	router := newTenantTestRouter(svc, store, func(c *gin.Context) {
		session, err := GetTenantSession(c)
		sawSession = err == nil && session != nil
		if store.released != 0 {
			t.Error("session released before the handler ran")
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, svc, auth_models.RoleViewer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !sawSession {
		t.Error("handler did not receive a tenant session")
	}
	if store.slug != "acme" {
		t.Errorf("session opened for slug %q, want acme", store.slug)
	}
	if store.acquired != 1 || store.released != 1 {
		t.Errorf("bracket broken: acquired=%d released=%d", store.acquired, store.released)
	}
}

func TestOpenSessionReleasesOnHandlerError(t *testing.T) {
	svc := newJWTService()
	store := &sessionStore{}

	router := newTenantTestRouter(svc, store, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, svc, auth_models.RoleViewer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if store.acquired != 1 || store.released != 1 {
		t.Errorf("session leaked on error path: acquired=%d released=%d", store.acquired, store.released)
	}
}

func TestOpenSessionStorageUnavailable(t *testing.T) {
	svc := newJWTService()
	store := &sessionStore{acquireErr: errors.New("pool exhausted")}

	router := newTenantTestRouter(svc, store, func(c *gin.Context) {
		t.Error("handler must not run without a session")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, svc, auth_models.RoleViewer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestOperatorAuthMiddleware(t *testing.T) {
	t.Setenv("OPERATOR_API_SECRET", "op-secret")

	router := gin.New()
	router.GET("/internal", OperatorAuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer op-secret", http.StatusOK},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "op-secret", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/internal", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.want)
		}
	}
}
