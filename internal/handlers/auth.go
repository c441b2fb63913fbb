package handlers

import (
	"net/http"
	"strings"

	"taskboard/internal/database"
	"taskboard/internal/models"
	"taskboard/internal/notify"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondError(c, http.StatusBadRequest, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusBadRequest, "invalid email or password")
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	_ = sess.Save()

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	respondOK(c, "logged out")
}

type registerRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagerID *uint  `json:"manager_id"`
}

// Register creates a user account. Admin only; the default admin itself is
// seeded at startup.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || len(req.Password) < 6 {
		respondError(c, http.StatusBadRequest, "email, name and a password of at least 6 characters are required")
		return
	}

	role := models.UserRole(req.Role)
	switch role {
	case models.RoleAdmin, models.RoleHeadManager, models.RoleManager, models.RoleEngineer:
	default:
		respondError(c, http.StatusBadRequest, "invalid role")
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "user already exists")
		return
	}

	if req.ManagerID != nil {
		var mgr models.User
		if err := database.DB.First(&mgr, *req.ManagerID).Error; err != nil {
			respondError(c, http.StatusBadRequest, "manager not found")
			return
		}
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		ManagerID:    req.ManagerID,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save user")
		return
	}

	go h.Sheets.SyncUser(notify.ActionCreate, user)

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
