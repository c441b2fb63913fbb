package handlers

import (
	"net/http"

	"taskboard/internal/database"
	"taskboard/internal/models"

	"github.com/gin-gonic/gin"
)

const recentLimit = 5

// Dashboard returns the role-scoped view: the projects the user is involved
// with, the tasks visible inside them, and the five most recent of each for
// the "recent" panels. Relevance per role:
//
//	admin         everything
//	head_manager  projects where they are the head manager
//	manager       projects they manage
//	engineer      projects they have tasks or logged time in; only own tasks
func (h *Handler) Dashboard(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var projects []models.Project
	var tasks []models.Task

	switch actor.Role {
	case models.RoleAdmin:
		database.DB.Where("archived = ?", false).Order("created_at desc").Find(&projects)
		database.DB.Where("archived = ?", false).Order("created_at desc").Find(&tasks)

	case models.RoleHeadManager:
		database.DB.
			Where("head_manager_id = ? AND archived = ?", actor.ID, false).
			Order("created_at desc").
			Find(&projects)
		database.DB.
			Where("project_id IN (?) AND archived = ?", projectIDs(projects), false).
			Order("created_at desc").
			Find(&tasks)

	case models.RoleManager:
		database.DB.
			Where("manager_id = ? AND archived = ?", actor.ID, false).
			Order("created_at desc").
			Find(&projects)
		database.DB.
			Where("project_id IN (?) AND archived = ?", projectIDs(projects), false).
			Order("created_at desc").
			Find(&tasks)

	case models.RoleEngineer:
		// worked-on: assigned tasks plus tasks they booked time against
		database.DB.
			Where("archived = ? AND (assigned_to = ? OR id IN (?))",
				false, actor.ID,
				database.DB.Model(&models.TimeEntry{}).
					Select("task_id").
					Where("user_id = ?", actor.ID),
			).
			Order("created_at desc").
			Find(&tasks)

		ids := map[uint]struct{}{}
		for _, t := range tasks {
			ids[t.ProjectID] = struct{}{}
		}
		pids := make([]uint, 0, len(ids))
		for id := range ids {
			pids = append(pids, id)
		}
		database.DB.
			Where("id IN (?) AND archived = ?", pids, false).
			Order("created_at desc").
			Find(&projects)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"projects":        projects,
		"tasks":           tasks,
		"recent_projects": head(projects, recentLimit),
		"recent_tasks":    headTasks(tasks, recentLimit),
	})
}

func projectIDs(projects []models.Project) []uint {
	ids := make([]uint, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}

func head(projects []models.Project, n int) []models.Project {
	if len(projects) > n {
		return projects[:n]
	}
	return projects
}

func headTasks(tasks []models.Task, n int) []models.Task {
	if len(tasks) > n {
		return tasks[:n]
	}
	return tasks
}
