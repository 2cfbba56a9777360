package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users []*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
	}
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, id := range userIDs {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newAuthForTest(t *testing.T) (AuthService, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{}
	svc := NewAuthService(nil, testLogger(t), repo, "test-secret", time.Hour)
	return svc, repo
}

func TestRegisterLoginValidateRoundTrip(t *testing.T) {
	svc, _ := newAuthForTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Lee@Plant.example", "strongpassword", "Lee", "Chan")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.Email != "lee@plant.example" {
		t.Fatalf("email not normalized: %q", reg.User.Email)
	}
	if reg.User.Password == "strongpassword" {
		t.Fatalf("password stored in clear")
	}
	if reg.User.Role != types.RoleOperator {
		t.Fatalf("default role: %q", reg.User.Role)
	}

	login, err := svc.Login(ctx, "lee@plant.example", "strongpassword")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.ValidateToken(login.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != reg.User.ID.String() || claims.Role != types.RoleOperator {
		t.Fatalf("claims: %+v", claims)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := newAuthForTest(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "strongpassword", "", ""); err == nil {
		t.Fatalf("expected invalid email error")
	}
	if _, err := svc.Register(ctx, "a@b.example", "short", "", ""); err == nil {
		t.Fatalf("expected weak password error")
	}

	if _, err := svc.Register(ctx, "a@b.example", "strongpassword", "", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.example", "strongpassword", "", ""); err == nil {
		t.Fatalf("expected duplicate email error")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuthForTest(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.example", "strongpassword", "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(ctx, "a@b.example", "wrongpassword"); err == nil {
		t.Fatalf("expected invalid credentials")
	}
	if _, err := svc.Login(ctx, "missing@b.example", "strongpassword"); err == nil {
		t.Fatalf("expected unknown user error")
	}
}

func TestRefreshReissuesForCurrentUser(t *testing.T) {
	svc, repo := newAuthForTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@b.example", "strongpassword", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	repo.users[0].Role = types.RoleSupervisor
	refreshed, err := svc.Refresh(ctx, reg.Token)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := svc.ValidateToken(refreshed.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != types.RoleSupervisor {
		t.Fatalf("refreshed role: %q", claims.Role)
	}

	if _, err := svc.Refresh(ctx, reg.Token+"x"); err == nil {
		t.Fatalf("mangled token should not refresh")
	}

	repo.users = nil
	if _, err := svc.Refresh(ctx, reg.Token); err == nil {
		t.Fatalf("deleted user should not refresh")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newAuthForTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@b.example", "strongpassword", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	other := NewAuthService(nil, testLogger(t), &fakeUserRepo{}, "other-secret", time.Hour)
	if _, err := other.ValidateToken(reg.Token); err == nil {
		t.Fatalf("token signed with another secret should fail")
	}
	if _, err := svc.ValidateToken(reg.Token + "x"); err == nil {
		t.Fatalf("mangled token should fail")
	}
}
