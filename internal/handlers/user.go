package handlers

import (
	"net/http"
	"strconv"

	"taskboard/internal/database"
	"taskboard/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(c *gin.Context) {
	dbq := database.DB.Order("name asc")
	if role := c.Query("role"); role != "" {
		dbq = dbq.Where("role = ?", role)
	}

	var users []models.User
	if err := dbq.Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": actor})
}
