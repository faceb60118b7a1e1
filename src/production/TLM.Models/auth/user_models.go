package auth_models

import (
	"time"
)

// Roles assignable to dashboard users.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User represents a dashboard user. Users live in the shared public schema
// and belong to exactly one tenant.
type User struct {
	UserID    string    `json:"user_id" db:"user_id"`
	TenantID  int64     `json:"tenant_id" db:"tenant_id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Password is not exposed in JSON
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User instance
func NewUser(tenantID int64, email, password, name, role string) *User {
	now := time.Now()
	return &User{
		TenantID:  tenantID,
		Email:     email,
		Password:  password, // Note: This should be hashed before saving
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
