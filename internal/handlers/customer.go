package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"taskboard/internal/database"
	"taskboard/internal/models"
	"taskboard/internal/notify"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCustomers(c *gin.Context) {
	dbq := database.DB.Order("name asc")
	if c.Query("archived") == "true" {
		dbq = dbq.Where("archived = ?", true)
	} else {
		dbq = dbq.Where("archived = ?", false)
	}

	var customers []models.Customer
	if err := dbq.Find(&customers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load customers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "customers": customers})
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid customer id")
		return
	}

	var customer models.Customer
	if err := database.DB.Preload("Projects").First(&customer, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "customer": customer})
}

type customerRequest struct {
	Name         string `json:"name"`
	Industry     string `json:"industry"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Notes        string `json:"notes"`
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	customer := models.Customer{
		Name:         req.Name,
		Industry:     req.Industry,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Notes:        req.Notes,
	}
	if err := database.DB.Create(&customer).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save customer")
		return
	}

	go h.Sheets.SyncCustomer(notify.ActionCreate, customer)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "customer created", "customer": customer})
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid customer id")
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if name, ok := payloadString(payload, "name"); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			respondError(c, http.StatusBadRequest, "name cannot be empty")
			return
		}
		customer.Name = name
	}
	if v, ok := payloadString(payload, "industry"); ok {
		customer.Industry = v
	}
	if v, ok := payloadString(payload, "contact_name"); ok {
		customer.ContactName = v
	}
	if v, ok := payloadString(payload, "contact_email"); ok {
		customer.ContactEmail = v
	}
	if v, ok := payloadString(payload, "contact_phone"); ok {
		customer.ContactPhone = v
	}
	if v, ok := payloadString(payload, "notes"); ok {
		customer.Notes = v
	}
	if v, ok := payloadBool(payload, "archived"); ok {
		customer.Archived = v
	}

	if err := database.DB.Save(&customer).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save customer")
		return
	}

	go h.Sheets.SyncCustomer(notify.ActionUpdate, customer)

	respondOK(c, "customer updated")
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid customer id")
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}

	var projectCount int64
	database.DB.Model(&models.Project{}).Where("customer_id = ?", id).Count(&projectCount)
	if projectCount > 0 {
		respondError(c, http.StatusBadRequest, "customer still has projects")
		return
	}

	if err := database.DB.Delete(&customer).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete customer")
		return
	}

	go h.Sheets.SyncCustomer(notify.ActionDelete, customer)

	respondOK(c, "customer deleted")
}
