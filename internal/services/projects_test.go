package services_test

import (
	"testing"

	"project-tracker/internal/models"
	"project-tracker/internal/services"
)

func TestListProjectsForUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	owned := createTestProject(t, db, alice, "Owned by alice")
	shared := createTestProject(t, db, bob, "Owned by bob")
	addTestMember(t, db, shared, alice)
	createTestProject(t, db, carol, "Unrelated")

	projectService := services.NewProjectService()

	projects, err := projectService.ListProjectsForUser(db, alice.ID)
	if err != nil {
		t.Fatalf("ListProjectsForUser failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects for alice, got %d", len(projects))
	}

	seen := map[string]bool{}
	for _, p := range projects {
		seen[p.Title] = true
	}
	if !seen[owned.Title] || !seen[shared.Title] {
		t.Errorf("Expected owned and member projects, got %v", seen)
	}
}

func TestGetProjectByID_PreloadsParticipants(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice, "Launch")
	addTestMember(t, db, project, bob)

	loaded, err := services.NewProjectService().GetProjectByID(db, project.ID)
	if err != nil {
		t.Fatalf("GetProjectByID failed: %v", err)
	}

	if loaded.Owner == nil || loaded.Owner.Username != "alice" {
		t.Error("Expected owner to be preloaded")
	}
	if len(loaded.Members) != 1 || loaded.Members[0].Username != "bob" {
		t.Errorf("Expected bob as the only member, got %v", loaded.Members)
	}
}

func TestAddMember_OwnerIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice, "Launch")

	if err := services.NewProjectService().AddMember(db, project, alice.ID); err != nil {
		t.Fatalf("AddMember(owner) failed: %v", err)
	}

	var count int64
	db.Table("project_members").Where("project_id = ?", project.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected owner not to appear in member list, found %d rows", count)
	}
}

func TestUpdateProject_Partial(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice, "Launch")
	projectService := services.NewProjectService()

	title := "Launch v2"
	if err := projectService.UpdateProject(db, project, services.ProjectUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}

	updated, err := projectService.GetProjectByID(db, project.ID)
	if err != nil {
		t.Fatalf("GetProjectByID failed: %v", err)
	}
	if updated.Title != "Launch v2" {
		t.Errorf("Expected updated title, got %q", updated.Title)
	}
}

func TestDeleteProject_Cascades(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice, "Launch")
	addTestMember(t, db, project, bob)

	task, err := services.NewTaskService().CreateTask(db, services.TaskCreate{
		Title:     "Write docs",
		ProjectID: project.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := services.NewCommentService().CreateComment(db, task.ID, alice.ID, "note"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if err := services.NewProjectService().DeleteProject(db, project); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	var tasks, comments, memberships int64
	db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&tasks)
	db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&comments)
	db.Table("project_members").Where("project_id = ?", project.ID).Count(&memberships)

	if tasks != 0 || comments != 0 || memberships != 0 {
		t.Errorf("Expected full cascade, got tasks=%d comments=%d memberships=%d", tasks, comments, memberships)
	}
}

func TestSearchUsers_ExcludesCaller(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "alicia")
	createTestUser(t, db, "bob")

	profiles, err := services.NewUserService().SearchUsers(db, "ali", alice.ID)
	if err != nil {
		t.Fatalf("SearchUsers failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(profiles))
	}
	if profiles[0].Username != "alicia" {
		t.Errorf("Expected alicia, got %q", profiles[0].Username)
	}
}
