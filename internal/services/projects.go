package services

import (
	"errors"
	"fmt"

	"project-tracker/internal/apperr"
	"project-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ProjectUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type ProjectService interface {
	CreateProject(db *gorm.DB, ownerID uuid.UUID, title, description string) (*models.Project, error)
	GetProjectByID(db *gorm.DB, id uuid.UUID) (*models.Project, error)
	ListProjectsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Project, error)
	UpdateProject(db *gorm.DB, project *models.Project, update ProjectUpdate) error
	DeleteProject(db *gorm.DB, project *models.Project) error
	AddMember(db *gorm.DB, project *models.Project, userID uuid.UUID) error
	RemoveMember(db *gorm.DB, project *models.Project, userID uuid.UUID) error
}

type ProjectServiceImpl struct{}

func NewProjectService() *ProjectServiceImpl {
	return &ProjectServiceImpl{}
}

func (s *ProjectServiceImpl) CreateProject(db *gorm.DB, ownerID uuid.UUID, title, description string) (*models.Project, error) {
	project := models.Project{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectServiceImpl) GetProjectByID(db *gorm.DB, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Owner").Preload("Members").First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &project, nil
}

// ListProjectsForUser returns every project the user owns or is a member of.
func (s *ProjectServiceImpl) ListProjectsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := db.Preload("Owner").Preload("Members").
		Where("owner_id = ? OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)", userID, userID).
		Order("created_at desc").
		Find(&projects).Error
	return projects, err
}

func (s *ProjectServiceImpl) UpdateProject(db *gorm.DB, project *models.Project, update ProjectUpdate) error {
	fields := map[string]interface{}{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if len(fields) == 0 {
		return nil
	}
	return db.Model(project).Updates(fields).Error
}

// DeleteProject removes the project together with its tasks, their comments
// and the membership rows, in one transaction.
func (s *ProjectServiceImpl) DeleteProject(db *gorm.DB, project *models.Project) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN (SELECT id FROM tasks WHERE project_id = ?)", project.ID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", project.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", project.ID).Error
	})
}

func (s *ProjectServiceImpl) AddMember(db *gorm.DB, project *models.Project, userID uuid.UUID) error {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %w", apperr.ErrNotFound)
		}
		return err
	}
	// Appending the owner again would make them owner and member at once;
	// adding an existing member is a no-op either way.
	if project.OwnerID == userID {
		return nil
	}
	return db.Model(project).Association("Members").Append(&user)
}

func (s *ProjectServiceImpl) RemoveMember(db *gorm.DB, project *models.Project, userID uuid.UUID) error {
	return db.Exec("DELETE FROM project_members WHERE project_id = ? AND user_id = ?", project.ID, userID).Error
}
