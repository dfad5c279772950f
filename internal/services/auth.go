package services

import (
	"errors"
	"fmt"
	"time"

	"project-tracker/internal/apperr"
	"project-tracker/internal/models"
	"project-tracker/internal/utils"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is deliberately the same for an unknown email and a
// wrong password so the login endpoint never leaks which users exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	LoginUser(db *gorm.DB, email, password string) (*models.User, error)
	GenerateToken(userID uuid.UUID) (string, error)
	VerifyToken(db *gorm.DB, tokenString string) (*models.User, error)
}

type AuthServiceImpl struct {
	secret string
	ttl    time.Duration
}

func NewAuthService(secret string, ttl time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{secret: secret, ttl: ttl}
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GenerateToken signs a bearer token carrying the user id, valid for the
// configured TTL (7 days by default).
func (s *AuthServiceImpl) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
		"iss":     "project-tracker",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates the signature and expiry, then re-loads the user
// from storage. There is no session cache: a user deleted or renamed since
// the token was issued is reflected immediately.
func (s *AuthServiceImpl) VerifyToken(db *gorm.DB, tokenString string) (*models.User, error) {
	claims, err := utils.ParseJWT(tokenString, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing user_id claim", apperr.ErrUnauthenticated)
	}

	userID, err := uuid.FromString(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user_id claim", apperr.ErrUnauthenticated)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperr.ErrUnauthenticated)
		}
		return nil, err
	}
	return &user, nil
}
