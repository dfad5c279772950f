package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username   string    `json:"username" gorm:"uniqueIndex;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"not null"`
	ProfilePic string    `json:"profilePic" gorm:"not null;default:'/images/default-avatar.svg'"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Profile is the safe field subset returned by the API. The password hash
// never leaves the models package in a response payload.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}
