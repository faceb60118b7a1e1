package rbac

import auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"

// Service provides RBAC operations
type Service struct {
	roles map[string]bool
}

// NewService creates a new RBAC service with predefined roles
func NewService() *Service {
	return &Service{
		roles: map[string]bool{
			auth_models.RoleAdmin:  true,
			auth_models.RoleViewer: true,
		},
	}
}

// IsValidRole checks if a role is valid
func (s *Service) IsValidRole(roleName string) bool {
	return s.roles[roleName]
}

// IsAdmin checks if a role is admin
func (s *Service) IsAdmin(roleName string) bool {
	return roleName == auth_models.RoleAdmin
}

// GetValidRoles returns all valid roles
func (s *Service) GetValidRoles() []string {
	var roles []string
	for role := range s.roles {
		roles = append(roles, role)
	}
	return roles
}
