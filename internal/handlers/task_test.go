package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handlers"
	"taskboard/internal/mail"
	"taskboard/internal/models"
	"taskboard/internal/notify"
	"taskboard/internal/server"
	"taskboard/internal/sheets"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type env struct {
	router *gin.Engine
	db     *gorm.DB

	admin    models.User
	engineer models.User
	project  models.Project
	task     models.Task
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	e := &env{db: db}
	e.admin = seedUser(t, db, "admin@x.local", "Ann Admin", models.RoleAdmin, nil)
	e.engineer = seedUser(t, db, "eng@x.local", "Erin Engineer", models.RoleEngineer, nil)

	customer := models.Customer{Name: "Acme"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	e.project = models.Project{CustomerID: customer.ID, Name: "Rollout", Status: models.ProjectOnTrack}
	if err := db.Create(&e.project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	e.task = models.Task{
		ProjectID:  e.project.ID,
		Title:      "Initial setup",
		Status:     models.TaskPending,
		AssignedBy: "Sam Seeder",
	}
	if err := db.Create(&e.task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	notifier := notify.NewService(db, mail.NewSender("", 0, "", "", ""))
	h := handlers.New(notifier, sheets.Noop{})
	cfg := &config.Config{SessionSecret: "test-secret", ServerPort: "0"}
	e.router = server.NewRouter(cfg, h)

	return e
}

func seedUser(t *testing.T, db *gorm.DB, email, name string, role models.UserRole, managerID *uint) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password1!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	u := models.User{Email: email, Name: name, PasswordHash: string(hash), Role: role, ManagerID: managerID}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

// login performs a real /login round trip and returns the session cookies.
func (e *env) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": "Password1!"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", email, w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func (e *env) do(t *testing.T, method, url string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUpdateTaskRequiresAuth(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodPut, "/tasks/1", map[string]interface{}{"title": "x"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUpdateTaskBadID(t *testing.T) {
	e := newEnv(t)
	cookies := e.login(t, e.admin.Email)
	w := e.do(t, http.MethodPut, "/tasks/notanumber", map[string]interface{}{"title": "x"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	e := newEnv(t)
	cookies := e.login(t, e.admin.Email)
	w := e.do(t, http.MethodPut, "/tasks/99999", map[string]interface{}{"title": "x"}, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpdateTaskPersistsAndKeepsAssignedBy(t *testing.T) {
	e := newEnv(t)
	cookies := e.login(t, e.engineer.Email)

	w := e.do(t, http.MethodPut, "/tasks/1", map[string]interface{}{
		"title":       "Renamed",
		"status":      "in-progress",
		"assigned_by": "Hacker", // must be ignored
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got %s", w.Body.String())
	}

	var task models.Task
	if err := e.db.First(&task, e.task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if task.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", task.Title)
	}
	if task.Status != models.TaskInProgress {
		t.Errorf("status = %q, want in_progress (alias not normalized)", task.Status)
	}
	if task.AssignedBy != "Sam Seeder" {
		t.Errorf("assigned_by was altered to %q", task.AssignedBy)
	}
}

func TestUpdateTaskRejectsReservedCustomField(t *testing.T) {
	e := newEnv(t)
	cookies := e.login(t, e.admin.Email)

	w := e.do(t, http.MethodPut, "/tasks/1", map[string]interface{}{
		"custom_fields": map[string]interface{}{"status": "smuggled"},
	}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reserved custom field, got %d", w.Code)
	}
}

func TestUpdateTaskInvalidStatus(t *testing.T) {
	e := newEnv(t)
	cookies := e.login(t, e.admin.Email)

	w := e.do(t, http.MethodPut, "/tasks/1", map[string]interface{}{"status": "bogus"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", w.Code)
	}
}

func TestDeleteTaskRoleGate(t *testing.T) {
	e := newEnv(t)

	engCookies := e.login(t, e.engineer.Email)
	w := e.do(t, http.MethodDelete, "/tasks/1", nil, engCookies)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for engineer delete, got %d", w.Code)
	}

	adminCookies := e.login(t, e.admin.Email)
	w = e.do(t, http.MethodDelete, "/tasks/1", nil, adminCookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	e.db.Model(&models.Task{}).Count(&count)
	if count != 0 {
		t.Fatalf("task still present after delete")
	}
}

func TestTaskHistoryEndpoint(t *testing.T) {
	e := newEnv(t)
	cookies := e.login(t, e.admin.Email)

	// seed two history rows out of order to check newest-first
	for _, field := range []string{"title", "status"} {
		entry := models.HistoryEntry{Entity: "task", EntityID: e.task.ID, Action: "update", FieldName: field}
		if err := e.db.Create(&entry).Error; err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	w := e.do(t, http.MethodGet, "/tasks/1/history", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		History []models.HistoryEntry `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(resp.History))
	}
}
