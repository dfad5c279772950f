package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Comment is immutable once created; there is no edit or delete path.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Content   string    `json:"content" gorm:"not null"`
	TaskID    uuid.UUID `json:"taskId" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"createdAt"`
}
