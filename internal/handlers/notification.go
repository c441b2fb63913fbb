package handlers

import (
	"net/http"
	"strconv"

	"taskboard/internal/database"
	"taskboard/internal/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the calling user's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	dbq := database.DB.Where("user_id = ?", actor.ID).Order("created_at desc")
	if c.Query("unread") == "true" {
		dbq = dbq.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := dbq.Find(&notifications).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

// MarkNotificationRead flips the read flag. Only the recipient may do it.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid notification id")
		return
	}

	var n models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", id, actor.ID).First(&n).Error; err != nil {
		respondError(c, http.StatusNotFound, "notification not found")
		return
	}

	if !n.Read {
		n.Read = true
		if err := database.DB.Save(&n).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "failed to update notification")
			return
		}
	}

	respondOK(c, "notification marked read")
}
