package handlers

import (
	"net/http"

	"project-tracker/internal/apperr"
	"project-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	accessGuard
	projectService services.ProjectService
	taskService    services.TaskService
}

func NewProjectHandler(db *gorm.DB, projectService services.ProjectService, taskService services.TaskService, authz services.AuthorizationService) *ProjectHandler {
	return &ProjectHandler{
		accessGuard:    newAccessGuard(db, authz, projectService, taskService),
		projectService: projectService,
		taskService:    taskService,
	}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	project, err := h.projectService.CreateProject(h.db, user.ID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjectsForUser(h.db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	project, ok := h.requireProject(c, user, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var update services.ProjectUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondValidation(c, err)
		return
	}

	project, ok := h.requireProject(c, user, id)
	if !ok {
		return
	}

	if err := h.projectService.UpdateProject(h.db, project, update); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.projectService.GetProjectByID(h.db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete is owner-only: members can leave a project but not destroy it.
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	project, ok := h.requireProject(c, user, id)
	if !ok {
		return
	}
	if project.OwnerID != user.ID {
		respondError(c, apperr.ErrForbidden)
		return
	}

	if err := h.projectService.DeleteProject(h.db, project); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	memberID, err := uuid.FromString(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}

	project, ok := h.requireProject(c, user, id)
	if !ok {
		return
	}
	if project.OwnerID != user.ID {
		respondError(c, apperr.ErrForbidden)
		return
	}

	if err := h.projectService.AddMember(h.db, project, memberID); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.projectService.GetProjectByID(h.db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	memberID, ok := h.parseID(c, "userId")
	if !ok {
		return
	}

	project, ok := h.requireProject(c, user, id)
	if !ok {
		return
	}
	// Only the owner manages membership, with one carve-out: a member may
	// remove themselves to leave the project.
	if project.OwnerID != user.ID && memberID != user.ID {
		respondError(c, apperr.ErrForbidden)
		return
	}

	if err := h.projectService.RemoveMember(h.db, project, memberID); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.projectService.GetProjectByID(h.db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProjectHandler) ListTasks(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	project, ok := h.requireProject(c, user, id)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListProjectTasks(h.db, project.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
