package handlers

import (
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/database"
	"taskboard/internal/models"
	"taskboard/internal/notify"
	"taskboard/internal/timeutil"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTaskTimeEntries(c *gin.Context) {
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

	var entries []models.TimeEntry
	database.DB.
		Where("task_id = ?", id).
		Order("entry_date desc").
		Find(&entries)

	c.JSON(http.StatusOK, gin.H{"success": true, "time_entries": entries, "total": sumDurations(entries)})
}

func (h *Handler) ListUserTimeEntries(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var entries []models.TimeEntry
	database.DB.
		Where("user_id = ?", id).
		Order("entry_date desc").
		Find(&entries)

	c.JSON(http.StatusOK, gin.H{"success": true, "time_entries": entries, "total": sumDurations(entries)})
}

func (h *Handler) CreateTimeEntry(c *gin.Context) {
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

	var req struct {
		EntryDate   string `json:"entry_date"`
		Duration    string `json:"duration"` // HH:MM:SS
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	seconds, err := timeutil.TimeToSeconds(req.Duration)
	if err != nil || seconds == 0 {
		respondError(c, http.StatusBadRequest, "duration must be a non-zero HH:MM:SS value")
		return
	}

	entryDate := time.Now().Truncate(24 * time.Hour)
	if req.EntryDate != "" {
		t, err := time.Parse(dateLayout, req.EntryDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid entry_date")
			return
		}
		entryDate = t
	}

	entry := models.TimeEntry{
		TaskID:          task.ID,
		UserID:          actor.ID,
		EntryDate:       entryDate,
		DurationSeconds: seconds,
		Description:     req.Description,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save time entry")
		return
	}

	go h.Sheets.SyncTimeEntry(notify.ActionCreate, entry)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "time entry added", "time_entry": entry})
}

func sumDurations(entries []models.TimeEntry) string {
	total := 0
	for _, e := range entries {
		total += e.DurationSeconds
	}
	return timeutil.SecondsToTime(total)
}
