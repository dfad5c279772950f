package services

import (
	"errors"
	"fmt"

	"project-tracker/internal/apperr"
	"project-tracker/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegistrationRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterService interface {
	RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct{}

func NewRegisterService() *RegisterServiceImpl {
	return &RegisterServiceImpl{}
}

// RegisterUser creates a user with a bcrypt-hashed password. A duplicate
// username or email fails with Conflict and persists nothing. Uniqueness is
// enforced by the indexes, not a racy pre-check: the insert's duplicate-key
// error is the authoritative signal.
func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:         uuid.Must(uuid.NewV4()),
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hashedPassword),
		ProfilePic: "/images/default-avatar.svg",
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var count int64
			db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
			if count > 0 {
				return nil, fmt.Errorf("email %w", apperr.ErrConflict)
			}
			return nil, fmt.Errorf("username %w", apperr.ErrConflict)
		}
		return nil, err
	}

	return &user, nil
}
