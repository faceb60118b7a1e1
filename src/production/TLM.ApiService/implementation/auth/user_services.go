package auth

import (
	"context"
	"errors"
	"fmt"

	rbac "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/rbac"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"
)

// UserService provides user management operations within one tenant
type UserService struct {
	userRepo    interfaces.UserRepository
	rbacService *rbac.Service
}

// NewUserService creates a new user service
func NewUserService(userRepo interfaces.UserRepository, rbacService *rbac.Service) *UserService {
	return &UserService{
		userRepo:    userRepo,
		rbacService: rbacService,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*auth_models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListTenantUsers retrieves all users of a tenant
func (s *UserService) ListTenantUsers(ctx context.Context, tenantID int64) ([]*auth_models.User, error) {
	return s.userRepo.ListByTenant(ctx, tenantID)
}

// UpdateUserRole changes a user's role within the caller's tenant. An admin
// cannot demote themselves; that would leave the operation irreversible from
// inside the tenant.
func (s *UserService) UpdateUserRole(ctx context.Context, callerID, targetID string, tenantID int64, newRole string) (*auth_models.User, error) {
	if !s.rbacService.IsValidRole(newRole) {
		return nil, fmt.Errorf("invalid role %q", newRole)
	}
	if callerID == targetID && newRole != auth_models.RoleAdmin {
		return nil, errors.New("admins cannot change their own role")
	}
	return s.userRepo.UpdateRole(ctx, targetID, tenantID, newRole)
}
