package auth

import (
	"context"
	"testing"

	rbac "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/rbac"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
)

// fakeUserRepo covers the paths the user service exercises.
type fakeUserRepo struct {
	users map[string]*auth_models.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *auth_models.User) (*auth_models.User, error) {
	f.users[u.UserID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*auth_models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth_models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmailWithTenant(context.Context, string) (*auth_models.User, *tlmmodels.Tenant, error) {
	return nil, nil, nil
}

func (f *fakeUserRepo) ListByTenant(_ context.Context, tenantID int64) ([]*auth_models.User, error) {
	var out []*auth_models.User
	for _, u := range f.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, userID string, tenantID int64, role string) (*auth_models.User, error) {
	u := f.users[userID]
	if u == nil || u.TenantID != tenantID {
		return nil, nil
	}
	u.Role = role
	return u, nil
}

func newUserServiceFixture() (*UserService, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[string]*auth_models.User{
		"admin-1":  {UserID: "admin-1", TenantID: 1, Email: "admin@acme.test", Role: auth_models.RoleAdmin},
		"viewer-1": {UserID: "viewer-1", TenantID: 1, Email: "viewer@acme.test", Role: auth_models.RoleViewer},
	}}
	return NewUserService(repo, rbac.NewService()), repo
}

func TestUpdateUserRolePromotesViewer(t *testing.T) {
	svc, repo := newUserServiceFixture()

	user, err := svc.UpdateUserRole(context.Background(), "admin-1", "viewer-1", 1, auth_models.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if user.Role != auth_models.RoleAdmin {
		t.Errorf("role: got %q", user.Role)
	}
	if repo.users["viewer-1"].Role != auth_models.RoleAdmin {
		t.Error("role change not persisted")
	}
}

func TestUpdateUserRoleRejectsSelfDemotion(t *testing.T) {
	svc, repo := newUserServiceFixture()

	if _, err := svc.UpdateUserRole(context.Background(), "admin-1", "admin-1", 1, auth_models.RoleViewer); err == nil {
		t.Fatal("expected self-demotion to be rejected")
	}
	if repo.users["admin-1"].Role != auth_models.RoleAdmin {
		t.Error("admin role must be untouched")
	}
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	svc, _ := newUserServiceFixture()

	if _, err := svc.UpdateUserRole(context.Background(), "admin-1", "viewer-1", 1, "superuser"); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}
