package handlers

import (
	"net/http"

	"project-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CommentHandler struct {
	accessGuard
	commentService services.CommentService
}

func NewCommentHandler(db *gorm.DB, commentService services.CommentService, taskService services.TaskService, projectService services.ProjectService, authz services.AuthorizationService) *CommentHandler {
	return &CommentHandler{
		accessGuard:    newAccessGuard(db, authz, projectService, taskService),
		commentService: commentService,
	}
}

// Create checks project access through the comment's task before anything is
// written; a forbidden caller persists no comment.
func (h *CommentHandler) Create(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
		TaskID  string `json:"taskId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	taskID, err := uuid.FromString(req.TaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid task id"})
		return
	}

	task, _, ok := h.requireTask(c, user, taskID)
	if !ok {
		return
	}

	comment, err := h.commentService.CreateComment(h.db, task.ID, user.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListForTask returns a task's comments newest first.
func (h *CommentHandler) ListForTask(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, _, ok := h.requireTask(c, user, taskID)
	if !ok {
		return
	}

	comments, err := h.commentService.ListTaskComments(h.db, task.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
