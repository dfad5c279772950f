package handlers

import (
	"net/http"
	"time"

	"project-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	accessGuard
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, projectService services.ProjectService, authz services.AuthorizationService) *TaskHandler {
	return &TaskHandler{
		accessGuard: newAccessGuard(db, authz, projectService, taskService),
		taskService: taskService,
	}
}

func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		ProjectID   string     `json:"projectId" binding:"required"`
		AssignedTo  string     `json:"assignedTo"`
		DueDate     *time.Time `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	projectID, err := uuid.FromString(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid project id"})
		return
	}

	project, ok := h.requireProject(c, user, projectID)
	if !ok {
		return
	}

	create := services.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   project.ID,
		DueDate:     req.DueDate,
	}
	// The assignee is stored as-is; it is not checked against the member list.
	if req.AssignedTo != "" {
		assignee, err := uuid.FromString(req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid assignee id"})
			return
		}
		create.AssignedTo = &assignee
	}

	task, err := h.taskService.CreateTask(h.db, create)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, _, ok := h.requireTask(c, user, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update re-derives project access from the task's current project on every
// call; nothing is trusted from task creation time.
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		AssignedTo  *string    `json:"assignedTo"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	update := services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
	// An empty assignedTo string clears the assignee.
	if req.AssignedTo != nil {
		assignee := uuid.Nil
		if *req.AssignedTo != "" {
			parsed, err := uuid.FromString(*req.AssignedTo)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid assignee id"})
				return
			}
			assignee = parsed
		}
		update.AssignedTo = &assignee
	}

	task, _, ok := h.requireTask(c, user, id)
	if !ok {
		return
	}

	if err := h.taskService.UpdateTask(h.db, task, update); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.taskService.GetTaskByID(h.db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, _, ok := h.requireTask(c, user, id)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(h.db, task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}
