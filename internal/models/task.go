package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Task status values. Transitions are unconstrained: any participant may set
// any of the three values in any order.
const (
	StatusTodo       = "todo"
	StatusInProgress = "inprogress"
	StatusCompleted  = "completed"
)

func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusCompleted
}

type Task struct {
	ID           uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	ProjectID    uuid.UUID  `json:"projectId" gorm:"type:uuid;not null;index"`
	AssignedToID *uuid.UUID `json:"assignedToId" gorm:"type:uuid"`
	AssignedTo   *User      `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID"`
	Status       string     `json:"status" gorm:"not null;default:'todo'"`
	DueDate      *time.Time `json:"dueDate"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
