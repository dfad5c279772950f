package services

import (
	"errors"
	"fmt"
	"time"

	"project-tracker/internal/apperr"
	"project-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskCreate struct {
	Title       string
	Description string
	ProjectID   uuid.UUID
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
}

// TaskUpdate carries a partial update; nil fields are untouched. A non-nil
// AssignedTo of uuid.Nil clears the assignee. There is no status state
// machine: any of the three values is accepted in any order.
type TaskUpdate struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	Status      *string
	DueDate     *time.Time
}

type TaskService interface {
	CreateTask(db *gorm.DB, create TaskCreate) (*models.Task, error)
	GetTaskByID(db *gorm.DB, id uuid.UUID) (*models.Task, error)
	ListProjectTasks(db *gorm.DB, projectID uuid.UUID) ([]models.Task, error)
	UpdateTask(db *gorm.DB, task *models.Task, update TaskUpdate) error
	DeleteTask(db *gorm.DB, task *models.Task) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, create TaskCreate) (*models.Task, error) {
	task := models.Task{
		ID:           uuid.Must(uuid.NewV4()),
		Title:        create.Title,
		Description:  create.Description,
		ProjectID:    create.ProjectID,
		AssignedToID: create.AssignedTo,
		Status:       models.StatusTodo,
		DueDate:      create.DueDate,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := db.Preload("AssignedTo").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) ListProjectTasks(db *gorm.DB, projectID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Preload("AssignedTo").
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// UpdateTask applies a partial update. The assignee is not validated against
// the project's member list.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, task *models.Task, update TaskUpdate) error {
	fields := map[string]interface{}{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.AssignedTo != nil {
		if *update.AssignedTo == uuid.Nil {
			fields["assigned_to_id"] = nil
		} else {
			fields["assigned_to_id"] = *update.AssignedTo
		}
	}
	if update.Status != nil {
		if !models.ValidStatus(*update.Status) {
			return fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, *update.Status)
		}
		fields["status"] = *update.Status
	}
	if update.DueDate != nil {
		fields["due_date"] = *update.DueDate
	}
	if len(fields) == 0 {
		return nil
	}
	return db.Model(task).Updates(fields).Error
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, task *models.Task) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", task.ID).Error
	})
}
