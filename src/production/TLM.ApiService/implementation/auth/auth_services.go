package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	uuid "github.com/google/uuid"
	jwt "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/jwt"
	rbac "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/rbac"
	config "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Config"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	api_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/api"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"

	"golang.org/x/crypto/bcrypt"
)

// AuthService aggregates auth operations
type AuthService struct {
	cfg         *config.AuthConfig
	userRepo    interfaces.UserRepository
	tenantRepo  interfaces.TenantRepository
	jwtService  *jwt.Service
	rbacService *rbac.Service
}

type RegisterRequest struct {
	TenantName string `json:"tenant_name"`
	TenantSlug string `json:"tenant_slug"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type InviteRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenID     string `json:"token_id"`
	ExpiresAt   int64  `json:"expires_at"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	TenantSlug  string `json:"tenant_slug"`
	TenantName  string `json:"tenant_name"`
}

type RegisterResponse struct {
	AuthResponse
	MQTTUser string `json:"mqtt_user"`
	MQTTPass string `json:"mqtt_pass"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenID     string `json:"token_id"`
	ExpiresAt   int64  `json:"expires_at"`
}

// NewAuthService creates a new auth service
func NewAuthService(
	cfg *config.AuthConfig,
	userRepo interfaces.UserRepository,
	tenantRepo interfaces.TenantRepository,
	jwtService *jwt.Service,
	rbacService *rbac.Service,
) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		tenantRepo:  tenantRepo,
		jwtService:  jwtService,
		rbacService: rbacService,
	}
}

// RegisterTenant provisions a tenant with its admin user and broker
// credentials. Tenant row, admin user and schema are created atomically by
// the repository.
func (s *AuthService) RegisterTenant(ctx context.Context, req RegisterRequest) (*RegisterResponse, *api_models.TokenPair, error) {
	slug := strings.ToLower(strings.TrimSpace(req.TenantSlug))
	if !tlmmodels.ValidSlug(slug) {
		return nil, nil, errors.New("invalid tenant slug: use lowercase letters, digits and hyphens")
	}
	if req.TenantName == "" || req.Email == "" || req.Name == "" {
		return nil, nil, errors.New("tenant name, email and name are required")
	}
	if len(req.Password) < s.cfg.PasswordMinLength {
		return nil, nil, fmt.Errorf("password must be at least %d characters", s.cfg.PasswordMinLength)
	}

	existing, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, errors.New("tenant slug already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, err
	}

	tenant := &tlmmodels.Tenant{
		Name:     req.TenantName,
		Slug:     slug,
		MQTTUser: "mqtt_" + slug,
		MQTTPass: newMQTTSecret(),
		IsActive: true,
	}
	admin := auth_models.NewUser(0, req.Email, string(hashedPassword), req.Name, auth_models.RoleAdmin)

	tenant, err = s.tenantRepo.CreateTenant(ctx, tenant, admin)
	if err != nil {
		return nil, nil, err
	}

	tokenPair, err := s.jwtService.GenerateTokens(admin, tenant)
	if err != nil {
		return nil, nil, err
	}

	return &RegisterResponse{
		AuthResponse: AuthResponse{
			AccessToken: tokenPair.AccessToken,
			TokenID:     tokenPair.TokenID,
			ExpiresAt:   tokenPair.ExpiresAt,
			UserID:      admin.UserID,
			Email:       admin.Email,
			Name:        admin.Name,
			Role:        admin.Role,
			TenantSlug:  tenant.Slug,
			TenantName:  tenant.Name,
		},
		MQTTUser: tenant.MQTTUser,
		MQTTPass: tenant.MQTTPass,
	}, tokenPair, nil
}

// Login authenticates a user and returns tokens. Users of inactive tenants
// cannot log in.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, *api_models.TokenPair, error) {
	user, tenant, err := s.userRepo.GetByEmailWithTenant(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || tenant == nil {
		return nil, nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	tokenPair, err := s.jwtService.GenerateTokens(user, tenant)
	if err != nil {
		return nil, nil, err
	}

	return &AuthResponse{
		AccessToken: tokenPair.AccessToken,
		TokenID:     tokenPair.TokenID,
		ExpiresAt:   tokenPair.ExpiresAt,
		UserID:      user.UserID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		TenantSlug:  tenant.Slug,
		TenantName:  tenant.Name,
	}, tokenPair, nil
}

// Invite adds a user to the caller's tenant. Admin only; enforced by the
// route middleware.
func (s *AuthService) Invite(ctx context.Context, tenantID int64, req InviteRequest) (*auth_models.User, error) {
	role := req.Role
	if role == "" {
		role = auth_models.RoleViewer
	}
	if !s.rbacService.IsValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if req.Email == "" || req.Name == "" {
		return nil, errors.New("email and name are required")
	}
	if len(req.Password) < s.cfg.PasswordMinLength {
		return nil, fmt.Errorf("password must be at least %d characters", s.cfg.PasswordMinLength)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := auth_models.NewUser(tenantID, req.Email, string(hashedPassword), req.Name, role)
	return s.userRepo.Create(ctx, user)
}

// RefreshTokens uses a refresh token to generate a new token pair
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*RefreshTokenResponse, *api_models.TokenPair, error) {
	tokenPair, err := s.jwtService.RefreshTokens(refreshToken, s.userRepo, s.tenantRepo)
	if err != nil {
		return nil, nil, err
	}

	return &RefreshTokenResponse{
		AccessToken: tokenPair.AccessToken,
		TokenID:     tokenPair.TokenID,
		ExpiresAt:   tokenPair.ExpiresAt,
	}, tokenPair, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*auth_models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetTenantByID retrieves a tenant by ID
func (s *AuthService) GetTenantByID(ctx context.Context, id int64) (*tlmmodels.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

// newMQTTSecret derives a 16-character broker secret from a fresh uuid.
func newMQTTSecret() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
