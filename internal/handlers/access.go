package handlers

import (
	"net/http"

	"project-tracker/internal/middleware"
	"project-tracker/internal/models"
	"project-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// accessGuard is the one authorize-then-execute pipeline every
// resource-scoped handler goes through: load the entity, resolve its owning
// project, ask the evaluator, and write the 401/403/404 response itself.
// Membership is re-derived from storage on every call, never cached.
type accessGuard struct {
	db       *gorm.DB
	authz    services.AuthorizationService
	projects services.ProjectService
	tasks    services.TaskService
}

func newAccessGuard(db *gorm.DB, authz services.AuthorizationService, projects services.ProjectService, tasks services.TaskService) accessGuard {
	return accessGuard{db: db, authz: authz, projects: projects, tasks: tasks}
}

func (g *accessGuard) requireUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return nil, false
	}
	return user, true
}

func (g *accessGuard) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// requireProject loads a project and authorizes the caller against it.
func (g *accessGuard) requireProject(c *gin.Context, user *models.User, projectID uuid.UUID) (*models.Project, bool) {
	project, err := g.projects.GetProjectByID(g.db, projectID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if err := g.authz.Authorize(g.db, user.ID, project); err != nil {
		respondError(c, err)
		return nil, false
	}
	return project, true
}

// requireTask loads a task, resolves its owning project through the
// evaluator and authorizes the caller.
func (g *accessGuard) requireTask(c *gin.Context, user *models.User, taskID uuid.UUID) (*models.Task, *models.Project, bool) {
	task, err := g.tasks.GetTaskByID(g.db, taskID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	project, err := g.authz.ProjectForTask(g.db, task)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	if err := g.authz.Authorize(g.db, user.ID, project); err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return task, project, true
}
