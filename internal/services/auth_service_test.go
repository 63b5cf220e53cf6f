package services

import (
	"errors"
	"testing"
	"time"

	"biryanipos_backend/internal/models"
	"biryanipos_backend/pkg/utils"
)

const testJWTSecret = "test-secret-not-for-production"

func newAuthFixture() (AuthService, *mockAuthRepo) {
	authRepo := newMockAuthRepo()
	svc := NewAuthService(newMockTxManager(), authRepo, testJWTSecret, time.Hour)
	return svc, authRepo
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.RegisterUser(RegisterUserRequest{
		Username: "ravi", Password: "s3cret-pass", DisplayName: "Ravi Kumar", Role: models.RoleCashier,
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash must never leave the service")
	}
	if !user.IsActive {
		t.Error("new accounts start active")
	}

	resp, err := svc.LoginUser(LoginRequest{Username: "ravi", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("login must issue a token")
	}

	claims, err := utils.ValidateToken(resp.AccessToken, testJWTSecret)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != string(models.RoleCashier) {
		t.Errorf("claims = %+v, want user %d role CASHIER", claims, user.ID)
	}
}

func TestRegisterUserDefaultsAndValidation(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.RegisterUser(RegisterUserRequest{
		Username: "meera", Password: "another-pass", DisplayName: "Meera",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Role != models.RoleCashier {
		t.Errorf("role = %s, want CASHIER default", user.Role)
	}

	if _, err := svc.RegisterUser(RegisterUserRequest{
		Username: "x", Password: "p-assword", DisplayName: "X", Role: "SUPERHERO",
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown role: got %v, want ErrValidation", err)
	}

	if _, err := svc.RegisterUser(RegisterUserRequest{
		Username: "meera", Password: "another-pass", DisplayName: "Duplicate",
	}); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate username: got %v, want ErrUsernameExists", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, authRepo := newAuthFixture()
	if _, err := svc.RegisterUser(RegisterUserRequest{
		Username: "ravi", Password: "s3cret-pass", DisplayName: "Ravi",
	}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	if _, err := svc.LoginUser(LoginRequest{Username: "ravi", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.LoginUser(LoginRequest{Username: "ghost", Password: "s3cret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}

	// Deactivated accounts fail indistinguishably from bad passwords.
	authRepo.mu.Lock()
	for _, u := range authRepo.users {
		u.IsActive = false
	}
	authRepo.mu.Unlock()
	if _, err := svc.LoginUser(LoginRequest{Username: "ravi", Password: "s3cret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestGetUserProfile(t *testing.T) {
	svc, _ := newAuthFixture()
	user, err := svc.RegisterUser(RegisterUserRequest{
		Username: "ravi", Password: "s3cret-pass", DisplayName: "Ravi",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	profile, err := svc.GetUserProfile(user.ID)
	if err != nil {
		t.Fatalf("GetUserProfile: %v", err)
	}
	if profile.Username != "ravi" || profile.PasswordHash != "" {
		t.Errorf("profile = %+v, want ravi without hash", profile)
	}

	if _, err := svc.GetUserProfile(9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}
