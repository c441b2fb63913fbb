package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"taskboard/internal/database"
	"taskboard/internal/history"
	"taskboard/internal/models"
	"taskboard/internal/notify"
	"taskboard/internal/timeutil"

	"github.com/gin-gonic/gin"
)

// fields the change diff tracks on a task. assigned_by is deliberately
// absent: it keeps the original creator attribution forever.
var taskTrackedFields = []string{
	"title", "description", "status", "assigned_to",
	"due_date", "allocated_time", "archived", "custom_fields",
}

func taskSnapshot(t models.Task) map[string]string {
	return map[string]string{
		"title":          t.Title,
		"description":    t.Description,
		"status":         string(t.Status),
		"assigned_to":    uintPtrString(t.AssignedTo),
		"due_date":       datePtrString(t.DueDate),
		"allocated_time": t.AllocatedTime,
		"archived":       strconv.FormatBool(t.Archived),
		"custom_fields":  jsonMapString(t.CustomFields),
	}
}

//
// LIST / GET
//

func (h *Handler) ListTasks(c *gin.Context) {
	dbq := database.DB.Order("created_at desc")

	if pid := c.Query("project_id"); pid != "" {
		if id, err := strconv.Atoi(pid); err == nil && id > 0 {
			dbq = dbq.Where("project_id = ?", id)
		}
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", models.NormalizeTaskStatus(status))
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		if id, err := strconv.Atoi(assignee); err == nil && id > 0 {
			dbq = dbq.Where("assigned_to = ?", id)
		}
	}
	// archived tasks stay out of default views
	if c.Query("archived") == "true" {
		dbq = dbq.Where("archived = ?", true)
	} else {
		dbq = dbq.Where("archived = ?", false)
	}

	var tasks []models.Task
	if err := dbq.Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks})
}

func (h *Handler) GetTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var task models.Task
	if err := database.DB.Preload("Project").First(&task, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

//
// CREATE
//

func (h *Handler) CreateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	projectID, ok := payloadUint(payload, "project_id")
	if !ok {
		respondError(c, http.StatusBadRequest, "project_id is required")
		return
	}
	title, _ := payloadString(payload, "title")
	title = strings.TrimSpace(title)
	if title == "" {
		respondError(c, http.StatusBadRequest, "title is required")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}

	task := models.Task{
		ProjectID:  project.ID,
		Title:      title,
		Status:     models.TaskPending,
		AssignedBy: actor.Name,
	}

	if s, ok := payloadString(payload, "status"); ok {
		status := models.NormalizeTaskStatus(s)
		if !models.ValidTaskStatus(status) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		task.Status = status
	}
	if desc, ok := payloadString(payload, "description"); ok {
		task.Description = desc
	}

	assignee, present, err := payloadUintPtr(payload, "assigned_to")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if present && assignee != nil {
		var u models.User
		if err := database.DB.First(&u, *assignee).Error; err != nil {
			respondError(c, http.StatusBadRequest, "assignee not found")
			return
		}
		task.AssignedTo = assignee
	}

	due, _, err := payloadDate(payload, "due_date")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task.DueDate = due

	if alloc, ok := payloadString(payload, "allocated_time"); ok && alloc != "" {
		if _, err := timeutil.TimeToSeconds(alloc); err != nil {
			respondError(c, http.StatusBadRequest, "invalid allocated_time: want HH:MM:SS")
			return
		}
		task.AllocatedTime = alloc
	}

	if cf, present, err := payloadObject(payload, "custom_fields"); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	} else if present {
		merged, err := models.MergeCustomFields(nil, cf)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		task.CustomFields = merged
	}

	if err := database.DB.Create(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save task")
		return
	}

	go h.taskCascade(notify.ActionCreate, task, project, actor, "", nil, nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "task created", "task": task})
}

//
// UPDATE
//

func (h *Handler) UpdateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, task.ProjectID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load project")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// creator attribution never changes, whatever the payload says
	delete(payload, "assigned_by")

	before := taskSnapshot(task)
	prevStatus := task.Status
	prevAssigned := task.AssignedTo

	if title, ok := payloadString(payload, "title"); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			respondError(c, http.StatusBadRequest, "title cannot be empty")
			return
		}
		task.Title = title
	}
	if desc, ok := payloadString(payload, "description"); ok {
		task.Description = desc
	}
	if s, ok := payloadString(payload, "status"); ok {
		status := models.NormalizeTaskStatus(s)
		if !models.ValidTaskStatus(status) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		task.Status = status
	}

	assignee, present, err := payloadUintPtr(payload, "assigned_to")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if present {
		if assignee != nil {
			var u models.User
			if err := database.DB.First(&u, *assignee).Error; err != nil {
				respondError(c, http.StatusBadRequest, "assignee not found")
				return
			}
		}
		task.AssignedTo = assignee
	}

	if due, present, err := payloadDate(payload, "due_date"); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	} else if present {
		task.DueDate = due
	}

	if alloc, ok := payloadString(payload, "allocated_time"); ok {
		if alloc != "" {
			if _, err := timeutil.TimeToSeconds(alloc); err != nil {
				respondError(c, http.StatusBadRequest, "invalid allocated_time: want HH:MM:SS")
				return
			}
		}
		task.AllocatedTime = alloc
	}
	if archived, ok := payloadBool(payload, "archived"); ok {
		task.Archived = archived
	}

	if cf, present, err := payloadObject(payload, "custom_fields"); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	} else if present {
		merged, err := models.MergeCustomFields(task.CustomFields, cf)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		task.CustomFields = merged
	}

	if err := database.DB.Save(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save task")
		return
	}

	changes := history.Diff(taskTrackedFields, before, taskSnapshot(task))
	go h.taskCascade(notify.ActionUpdate, task, project, actor, prevStatus, prevAssigned, changes)

	respondOK(c, "task updated")
}

//
// DELETE / ARCHIVE
//

func (h *Handler) DeleteTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}
	var project models.Project
	if err := database.DB.First(&project, task.ProjectID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load project")
		return
	}

	if err := database.DB.Delete(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete task")
		return
	}

	go h.taskCascade(notify.ActionDelete, task, project, actor, task.Status, task.AssignedTo, nil)

	respondOK(c, "task deleted")
}

func (h *Handler) ArchiveTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}
	var project models.Project
	if err := database.DB.First(&project, task.ProjectID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load project")
		return
	}

	if task.Archived {
		respondOK(c, "task already archived")
		return
	}

	before := taskSnapshot(task)
	task.Archived = true
	if err := database.DB.Save(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to archive task")
		return
	}

	changes := history.Diff(taskTrackedFields, before, taskSnapshot(task))
	go h.taskCascade(notify.ActionUpdate, task, project, actor, task.Status, task.AssignedTo, changes)

	respondOK(c, "task archived")
}

//
// HISTORY
//

func (h *Handler) TaskHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}

	var entries []models.HistoryEntry
	database.DB.
		Where("entity = ? AND entity_id = ?", "task", id).
		Order("created_at desc").
		Find(&entries)

	c.JSON(http.StatusOK, gin.H{"success": true, "history": entries})
}

// taskCascade runs the post-commit side effects, detached from the HTTP
// response: audit rows, notification fan-out, spreadsheet mirror. Each step
// contains its own failures.
func (h *Handler) taskCascade(action string, task models.Task, project models.Project, actor models.User, prevStatus models.TaskStatus, prevAssigned *uint, changes []history.Change) {
	if action == notify.ActionUpdate {
		history.Record("task", task.ID, action, changes, actor)
	} else {
		history.RecordAction("task", task.ID, action, actor)
	}

	h.Notifier.TaskChanged(notify.TaskChange{
		Action:         action,
		Task:           task,
		Project:        project,
		Actor:          actor,
		PrevStatus:     prevStatus,
		PrevAssignedTo: prevAssigned,
	})

	if !h.Sheets.SyncTask(action, task) {
		log.Printf("task %d: spreadsheet sync (%s) did not complete", task.ID, action)
	}
}
