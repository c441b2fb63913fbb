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

var projectTrackedFields = []string{
	"name", "description", "customer_id", "manager_id", "head_manager_id",
	"status", "region", "start_date", "end_date", "allocated_time",
	"attachment_path", "archived", "custom_fields",
}

func projectSnapshot(p models.Project) map[string]string {
	return map[string]string{
		"name":            p.Name,
		"description":     p.Description,
		"customer_id":     strconv.FormatUint(uint64(p.CustomerID), 10),
		"manager_id":      uintPtrString(p.ManagerID),
		"head_manager_id": uintPtrString(p.HeadManagerID),
		"status":          string(p.Status),
		"region":          p.Region,
		"start_date":      datePtrString(p.StartDate),
		"end_date":        datePtrString(p.EndDate),
		"allocated_time":  p.AllocatedTime,
		"attachment_path": p.AttachmentPath,
		"archived":        strconv.FormatBool(p.Archived),
		"custom_fields":   jsonMapString(p.CustomFields),
	}
}

//
// LIST / GET
//

func (h *Handler) ListProjects(c *gin.Context) {
	dbq := database.DB.Preload("Customer").Order("created_at desc")

	if cid := c.Query("customer_id"); cid != "" {
		if id, err := strconv.Atoi(cid); err == nil && id > 0 {
			dbq = dbq.Where("customer_id = ?", id)
		}
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", models.NormalizeProjectStatus(status))
	}
	if region := c.Query("region"); region != "" {
		dbq = dbq.Where("region = ?", region)
	}
	if c.Query("archived") == "true" {
		dbq = dbq.Where("archived = ?", true)
	} else {
		dbq = dbq.Where("archived = ?", false)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.Preload("Customer").Preload("Tasks").First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
}

//
// CREATE
//

func (h *Handler) CreateProject(c *gin.Context) {
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

	name, _ := payloadString(payload, "name")
	name = strings.TrimSpace(name)
	if name == "" {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}
	customerID, ok := payloadUint(payload, "customer_id")
	if !ok {
		respondError(c, http.StatusBadRequest, "customer_id is required")
		return
	}
	var customer models.Customer
	if err := database.DB.First(&customer, customerID).Error; err != nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}

	project := models.Project{
		CustomerID: customer.ID,
		Name:       name,
		Status:     models.ProjectOnTrack,
	}

	if err := h.applyProjectFields(payload, &project); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.DB.Create(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save project")
		return
	}

	go h.projectCascade(notify.ActionCreate, project, actor, "", nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "project created", "project": project})
}

//
// UPDATE
//

func (h *Handler) UpdateProject(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	before := projectSnapshot(project)
	prevStatus := project.Status

	if name, ok := payloadString(payload, "name"); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			respondError(c, http.StatusBadRequest, "name cannot be empty")
			return
		}
		project.Name = name
	}
	if cid, ok := payloadUint(payload, "customer_id"); ok {
		var customer models.Customer
		if err := database.DB.First(&customer, cid).Error; err != nil {
			respondError(c, http.StatusBadRequest, "customer not found")
			return
		}
		project.CustomerID = customer.ID
	}

	if err := h.applyProjectFields(payload, &project); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.DB.Save(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save project")
		return
	}

	changes := history.Diff(projectTrackedFields, before, projectSnapshot(project))
	go h.projectCascade(notify.ActionUpdate, project, actor, prevStatus, changes)

	respondOK(c, "project updated")
}

// applyProjectFields handles the optional fields shared by create and update.
func (h *Handler) applyProjectFields(payload map[string]interface{}, project *models.Project) error {
	if desc, ok := payloadString(payload, "description"); ok {
		project.Description = desc
	}
	if s, ok := payloadString(payload, "status"); ok {
		status := models.NormalizeProjectStatus(s)
		if !models.ValidProjectStatus(status) {
			return errInvalidStatus
		}
		project.Status = status
	}
	if region, ok := payloadString(payload, "region"); ok {
		project.Region = region
	}

	for key, target := range map[string]**uint{
		"manager_id":      &project.ManagerID,
		"head_manager_id": &project.HeadManagerID,
	} {
		id, present, err := payloadUintPtr(payload, key)
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		if id != nil {
			var u models.User
			if err := database.DB.First(&u, *id).Error; err != nil {
				return errUserNotFound(key)
			}
		}
		*target = id
	}

	if start, present, err := payloadDate(payload, "start_date"); err != nil {
		return err
	} else if present {
		project.StartDate = start
	}
	if end, present, err := payloadDate(payload, "end_date"); err != nil {
		return err
	} else if present {
		project.EndDate = end
	}

	if alloc, ok := payloadString(payload, "allocated_time"); ok {
		if alloc != "" {
			if _, err := timeutil.TimeToSeconds(alloc); err != nil {
				return errInvalidAllocatedTime
			}
		}
		project.AllocatedTime = alloc
	}
	if path, ok := payloadString(payload, "attachment_path"); ok {
		project.AttachmentPath = path
	}
	if archived, ok := payloadBool(payload, "archived"); ok {
		project.Archived = archived
	}

	if cf, present, err := payloadObject(payload, "custom_fields"); err != nil {
		return err
	} else if present {
		merged, err := models.MergeCustomFields(project.CustomFields, cf)
		if err != nil {
			return err
		}
		project.CustomFields = merged
	}

	return nil
}

//
// DELETE / ARCHIVE
//

func (h *Handler) DeleteProject(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}

	if err := database.DB.Delete(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete project")
		return
	}

	go h.projectCascade(notify.ActionDelete, project, actor, project.Status, nil)

	respondOK(c, "project deleted")
}

func (h *Handler) ArchiveProject(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}
	if project.Archived {
		respondOK(c, "project already archived")
		return
	}

	before := projectSnapshot(project)
	project.Archived = true
	if err := database.DB.Save(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to archive project")
		return
	}

	changes := history.Diff(projectTrackedFields, before, projectSnapshot(project))
	go h.projectCascade(notify.ActionUpdate, project, actor, project.Status, changes)

	respondOK(c, "project archived")
}

//
// HISTORY
//

func (h *Handler) ProjectHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}

	var entries []models.HistoryEntry
	database.DB.
		Where("entity = ? AND entity_id = ?", "project", id).
		Order("created_at desc").
		Find(&entries)

	c.JSON(http.StatusOK, gin.H{"success": true, "history": entries})
}

//
// FOLLOWERS
//

func (h *Handler) AddFollower(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		respondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	var user models.User
	if err := database.DB.First(&user, req.UserID).Error; err != nil {
		respondError(c, http.StatusBadRequest, "user not found")
		return
	}

	var count int64
	database.DB.Model(&models.ProjectFollower{}).
		Where("project_id = ? AND user_id = ?", project.ID, user.ID).
		Count(&count)
	if count > 0 {
		respondOK(c, "already following")
		return
	}

	follower := models.ProjectFollower{ProjectID: project.ID, UserID: user.ID}
	if err := database.DB.Create(&follower).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to add follower")
		return
	}

	respondOK(c, "follower added")
}

func (h *Handler) RemoveFollower(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil || userID <= 0 {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	res := database.DB.
		Where("project_id = ? AND user_id = ?", id, userID).
		Delete(&models.ProjectFollower{})
	if res.Error != nil {
		respondError(c, http.StatusInternalServerError, "failed to remove follower")
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "follower not found")
		return
	}

	respondOK(c, "follower removed")
}

// projectCascade mirrors taskCascade for project mutations.
func (h *Handler) projectCascade(action string, project models.Project, actor models.User, prevStatus models.ProjectStatus, changes []history.Change) {
	if action == notify.ActionUpdate {
		history.Record("project", project.ID, action, changes, actor)
	} else {
		history.RecordAction("project", project.ID, action, actor)
	}

	h.Notifier.ProjectChanged(notify.ProjectChange{
		Action:     action,
		Project:    project,
		Actor:      actor,
		PrevStatus: prevStatus,
	})

	if !h.Sheets.SyncProject(action, project) {
		log.Printf("project %d: spreadsheet sync (%s) did not complete", project.ID, action)
	}
}
