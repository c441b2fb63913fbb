package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"taskboard/internal/database"
	"taskboard/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListComments(c *gin.Context) {
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

	var comments []models.Comment
	database.DB.
		Where("task_id = ?", id).
		Order("created_at asc").
		Find(&comments)

	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

func (h *Handler) CreateComment(c *gin.Context) {
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
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		respondError(c, http.StatusBadRequest, "body is required")
		return
	}

	comment := models.Comment{
		TaskID:     task.ID,
		UserID:     actor.ID,
		AuthorName: actor.Name,
		Body:       strings.TrimSpace(req.Body),
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "comment added", "comment": comment})
}
