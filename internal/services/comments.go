package services

import (
	"project-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(db *gorm.DB, taskID, userID uuid.UUID, content string) (*models.Comment, error)
	ListTaskComments(db *gorm.DB, taskID uuid.UUID) ([]models.Comment, error)
}

type CommentServiceImpl struct{}

func NewCommentService() *CommentServiceImpl {
	return &CommentServiceImpl{}
}

func (s *CommentServiceImpl) CreateComment(db *gorm.DB, taskID, userID uuid.UUID, content string) (*models.Comment, error) {
	comment := models.Comment{
		ID:      uuid.Must(uuid.NewV4()),
		Content: content,
		TaskID:  taskID,
		UserID:  userID,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentServiceImpl) ListTaskComments(db *gorm.DB, taskID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}
