package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/pkg/jwt"
)

type memUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*entities.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, u *entities.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memUserRepo) FindByName(ctx context.Context, name string) (*entities.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Name, name) {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memUserRepo) Snapshot(ctx context.Context) ([]entities.User, error) {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *entities.User) error {
	r.users[u.ID] = u
	return nil
}

func newTestService() (Service, *memUserRepo) {
	repo := newMemUserRepo()
	mgr := jwt.NewManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewService(repo, mgr, zap.NewNop()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, "Sarah@Company.com", "secret123", "Sarah Kim", entities.RolePM)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "sarah@company.com" {
		t.Errorf("email = %q, want lower-cased", user.Email)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("missing tokens")
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Error("password stored unhashed")
	}

	got, _, err := svc.Login(ctx, "sarah@company.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got.ID != user.ID {
		t.Error("login returned a different user")
	}

	if _, _, err := svc.Login(ctx, "sarah@company.com", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, _, err := svc.Login(ctx, "nobody@company.com", "secret123"); err == nil {
		t.Error("unknown email accepted")
	}
}

func TestRegisterNameFallback(t *testing.T) {
	svc, _ := newTestService()

	user, _, err := svc.Register(context.Background(), "mark@company.com", "secret123", "", entities.RoleSales)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Name != "mark" {
		t.Errorf("name = %q, want email local part", user.Name)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "", "secret123", "x", entities.RolePM); err == nil {
		t.Error("empty email accepted")
	}
	if _, _, err := svc.Register(ctx, "a@b.com", "short", "x", entities.RolePM); err == nil {
		t.Error("short password accepted")
	}
	if _, _, err := svc.Register(ctx, "a@b.com", "secret123", "x", entities.UserRole("Wizard")); err == nil {
		t.Error("invalid role accepted")
	}

	if _, _, err := svc.Register(ctx, "dup@b.com", "secret123", "x", entities.RolePM); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Register(ctx, "DUP@b.com", "secret123", "y", entities.RolePM); err == nil {
		t.Error("duplicate email accepted")
	}
}

func TestAdminUserOperations(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "john@company.com", "secret123", "John Smith", entities.RoleEngineer)
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateRole(ctx, user.ID, entities.RoleProduct)
	if err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	if updated.Role != entities.RoleProduct {
		t.Errorf("role = %q", updated.Role)
	}
	if _, err := svc.UpdateRole(ctx, user.ID, entities.UserRole("Wizard")); err == nil {
		t.Error("invalid role accepted")
	}
	if _, err := svc.UpdateRole(ctx, uuid.New(), entities.RolePM); err == nil {
		t.Error("unknown user accepted")
	}

	if _, err := svc.ResetPassword(ctx, user.ID, "newsecret"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "john@company.com", "newsecret"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "john@company.com", "secret123"); err == nil {
		t.Error("old password still valid")
	}
	if _, err := svc.ResetPassword(ctx, user.ID, "short"); err == nil {
		t.Error("short password accepted")
	}

	list, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(list) != 1 || list[0].Email != "john@company.com" {
		t.Errorf("users = %+v", list)
	}
}
