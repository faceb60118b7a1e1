package jwt

import (
	"testing"
	"time"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	api_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/api"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
)

func testService(secret string) *Service {
	return NewService(api_models.Config{
		SecretKey:            secret,
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "telemetry-test",
	})
}

func testUserAndTenant() (*auth_models.User, *tlmmodels.Tenant) {
	user := &auth_models.User{
		UserID:   "a3c5b8e0-0000-0000-0000-000000000001",
		TenantID: 42,
		Email:    "admin@acme.test",
		Role:     auth_models.RoleAdmin,
	}
	tenant := &tlmmodels.Tenant{ID: 42, Slug: "acme", Name: "Acme", IsActive: true}
	return user, tenant
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := testService("test-secret")
	user, tenant := testUserAndTenant()

	pair, err := svc.GenerateTokens(user, tenant)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty tokens")
	}

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != user.UserID {
		t.Errorf("user id: got %q", claims.UserID)
	}
	if claims.Role != auth_models.RoleAdmin {
		t.Errorf("role: got %q", claims.Role)
	}
	if claims.TenantID != tenant.ID || claims.TenantSlug != tenant.Slug {
		t.Errorf("tenant binding: got id=%d slug=%q", claims.TenantID, claims.TenantSlug)
	}
	if claims.TokenID != pair.TokenID {
		t.Errorf("token id: got %q, want %q", claims.TokenID, pair.TokenID)
	}

	refreshClaims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if refreshClaims.UserID != user.UserID || refreshClaims.TokenID != pair.TokenID {
		t.Errorf("refresh claims: %+v", refreshClaims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	user, tenant := testUserAndTenant()
	pair, err := testService("secret-a").GenerateTokens(user, tenant)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	if _, err := testService("secret-b").ValidateAccessToken(pair.AccessToken); err == nil {
		t.Fatal("expected validation failure with different secret")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := testService("test-secret")
	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := svc.ValidateAccessToken(tok); err == nil {
			t.Errorf("expected error for %q", tok)
		}
	}
}

func TestAccessAndRefreshTokensAreNotInterchangeable(t *testing.T) {
	svc := testService("test-secret")
	user, tenant := testUserAndTenant()

	pair, err := svc.GenerateTokens(user, tenant)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	// A refresh token validated as access token parses but must not carry a
	// tenant binding; the access claims it decodes into come back empty.
	claims, err := svc.ValidateAccessToken(pair.RefreshToken)
	if err == nil && claims.TenantSlug != "" {
		t.Error("refresh token must not yield a tenant-bound access claim")
	}
}
