package services_test

import (
	"fmt"
	"testing"

	"project-tracker/internal/models"
	"project-tracker/internal/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}, &models.Comment{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	registerService := services.NewRegisterService()
	user, err := registerService.RegisterUser(db, services.RegistrationRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Project {
	t.Helper()

	projectService := services.NewProjectService()
	project, err := projectService.CreateProject(db, owner.ID, title, "")
	if err != nil {
		t.Fatalf("Failed to create test project %s: %v", title, err)
	}
	return project
}

func addTestMember(t *testing.T, db *gorm.DB, project *models.Project, user *models.User) {
	t.Helper()

	if err := services.NewProjectService().AddMember(db, project, user.ID); err != nil {
		t.Fatalf("Failed to add member %s: %v", user.Username, err)
	}
}
