package services_test

import (
	"errors"
	"testing"
	"time"

	"project-tracker/internal/apperr"
	"project-tracker/internal/models"
	"project-tracker/internal/services"
)

func newTestAuthService() *services.AuthServiceImpl {
	return services.NewAuthService("test-secret", 7*24*time.Hour)
}

func TestLoginUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	authService := newTestAuthService()

	loggedIn, err := authService.LoginUser(db, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, loggedIn.ID)
	}
}

// Unknown email and wrong password must be indistinguishable so the login
// endpoint leaks no user existence.
func TestLoginUser_NoExistenceLeakage(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "alice")

	authService := newTestAuthService()

	_, wrongPassword := authService.LoginUser(db, "alice@example.com", "wrong-password")
	_, unknownEmail := authService.LoginUser(db, "nobody@example.com", "password123")

	if !errors.Is(wrongPassword, services.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, services.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("Expected identical errors, got %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	authService := newTestAuthService()

	token, err := authService.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	verified, err := authService.VerifyToken(db, token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if verified.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, verified.ID)
	}
}

func TestVerifyToken_ExpiredToken(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	expired := services.NewAuthService("test-secret", -time.Hour)
	token, err := expired.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, err = newTestAuthService().VerifyToken(db, token)
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for expired token, got %v", err)
	}
}

// A valid token for a user who no longer exists must fail: the user is
// re-loaded from storage on every request, with no session cache.
func TestVerifyToken_DeletedUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	authService := newTestAuthService()
	token, err := authService.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if err := db.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	_, err = authService.VerifyToken(db, token)
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for deleted user, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	other := services.NewAuthService("other-secret", time.Hour)
	token, err := other.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, err = newTestAuthService().VerifyToken(db, token)
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for wrong secret, got %v", err)
	}
}
