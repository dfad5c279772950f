package services

import (
	"errors"
	"fmt"

	"project-tracker/internal/apperr"
	"project-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Membership is the tagged owner/member relation between a user and a
// project. Owner and member carry identical read/write power today; keeping
// them as distinct variants means a future read-only role is an addition
// here, not a rewritten conditional at every call site.
type Membership int

const (
	MembershipNone Membership = iota
	MembershipMember
	MembershipOwner
)

func (m Membership) String() string {
	switch m {
	case MembershipOwner:
		return "owner"
	case MembershipMember:
		return "member"
	default:
		return "none"
	}
}

// AuthorizationService decides whether a principal may touch a project and
// resolves the owning project of tasks and comments. Decisions are never
// cached: every call reads the membership stored right now, so revoking a
// member takes effect on the next request.
type AuthorizationService interface {
	MembershipOf(db *gorm.DB, userID uuid.UUID, project *models.Project) (Membership, error)
	CanAccessProject(db *gorm.DB, userID uuid.UUID, project *models.Project) (bool, error)
	Authorize(db *gorm.DB, userID uuid.UUID, project *models.Project) error
	ProjectForTask(db *gorm.DB, task *models.Task) (*models.Project, error)
	ProjectForComment(db *gorm.DB, comment *models.Comment) (*models.Project, error)
}

type AuthorizationServiceImpl struct{}

func NewAuthorizationService() *AuthorizationServiceImpl {
	return &AuthorizationServiceImpl{}
}

func (s *AuthorizationServiceImpl) MembershipOf(db *gorm.DB, userID uuid.UUID, project *models.Project) (Membership, error) {
	if project.OwnerID == userID {
		return MembershipOwner, nil
	}

	var count int64
	err := db.Table("project_members").
		Where("project_id = ? AND user_id = ?", project.ID, userID).
		Count(&count).Error
	if err != nil {
		return MembershipNone, fmt.Errorf("membership lookup: %w", err)
	}
	if count > 0 {
		return MembershipMember, nil
	}
	return MembershipNone, nil
}

func (s *AuthorizationServiceImpl) CanAccessProject(db *gorm.DB, userID uuid.UUID, project *models.Project) (bool, error) {
	m, err := s.MembershipOf(db, userID, project)
	if err != nil {
		return false, err
	}
	return m != MembershipNone, nil
}

func (s *AuthorizationServiceImpl) Authorize(db *gorm.DB, userID uuid.UUID, project *models.Project) error {
	ok, err := s.CanAccessProject(db, userID, project)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrForbidden
	}
	return nil
}

// ProjectForTask resolves the project a task belongs to. A dangling
// reference should not happen since projects cascade their tasks on delete,
// but it still surfaces as NotFound rather than an internal error.
func (s *AuthorizationServiceImpl) ProjectForTask(db *gorm.DB, task *models.Task) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", task.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project for task %s: %w", task.ID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &project, nil
}

// ProjectForComment is the two-hop resolution comment -> task -> project.
func (s *AuthorizationServiceImpl) ProjectForComment(db *gorm.DB, comment *models.Comment) (*models.Project, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", comment.TaskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task for comment %s: %w", comment.ID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return s.ProjectForTask(db, &task)
}
