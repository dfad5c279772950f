package services

import (
	"project-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const searchResultLimit = 20

type UserService interface {
	SearchUsers(db *gorm.DB, query string, exclude uuid.UUID) ([]models.Profile, error)
}

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

// SearchUsers matches usernames by substring for the invite/assign flows.
// The caller is excluded from the results and the list is capped.
func (s *UserServiceImpl) SearchUsers(db *gorm.DB, query string, exclude uuid.UUID) ([]models.Profile, error) {
	var users []models.User
	err := db.Where("username LIKE ? AND id <> ?", "%"+query+"%", exclude).
		Order("username asc").
		Limit(searchResultLimit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}
