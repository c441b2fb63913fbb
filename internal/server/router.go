package server

import (
	"net/http"

	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("taskboard_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/me", h.Me)

	// user administration stays with admins
	auth.POST("/register",
		middleware.RequireRole(models.RoleAdmin),
		h.Register,
	)
	auth.GET("/users", h.ListUsers)
	auth.GET("/users/:id", h.GetUser)
	auth.GET("/users/:id/time-entries", h.ListUserTimeEntries)

	// CUSTOMERS
	auth.GET("/customers", h.ListCustomers)
	auth.GET("/customers/:id", h.GetCustomer)
	auth.POST("/customers",
		middleware.RequireRole(models.RoleAdmin, models.RoleHeadManager, models.RoleManager),
		h.CreateCustomer,
	)
	auth.PUT("/customers/:id",
		middleware.RequireRole(models.RoleAdmin, models.RoleHeadManager, models.RoleManager),
		h.UpdateCustomer,
	)
	auth.DELETE("/customers/:id",
		middleware.RequireRole(models.RoleAdmin),
		h.DeleteCustomer,
	)

	// PROJECTS
	auth.GET("/projects", h.ListProjects)
	auth.GET("/projects/:id", h.GetProject)
	auth.POST("/projects",
		middleware.RequireRole(models.RoleAdmin, models.RoleHeadManager, models.RoleManager),
		h.CreateProject,
	)
	auth.PUT("/projects/:id", h.UpdateProject)
	auth.DELETE("/projects/:id",
		middleware.RequireRole(models.RoleAdmin),
		h.DeleteProject,
	)
	auth.POST("/projects/:id/archive", h.ArchiveProject)
	auth.GET("/projects/:id/history", h.ProjectHistory)
	auth.POST("/projects/:id/followers", h.AddFollower)
	auth.DELETE("/projects/:id/followers/:user_id", h.RemoveFollower)

	// TASKS
	auth.GET("/tasks", h.ListTasks)
	auth.GET("/tasks/:id", h.GetTask)
	auth.POST("/tasks", h.CreateTask)
	auth.PUT("/tasks/:id", h.UpdateTask)
	auth.DELETE("/tasks/:id",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		h.DeleteTask,
	)
	auth.POST("/tasks/:id/archive", h.ArchiveTask)
	auth.GET("/tasks/:id/history", h.TaskHistory)
	auth.GET("/tasks/:id/comments", h.ListComments)
	auth.POST("/tasks/:id/comments", h.CreateComment)
	auth.GET("/tasks/:id/time-entries", h.ListTaskTimeEntries)
	auth.POST("/tasks/:id/time-entries", h.CreateTimeEntry)

	// NOTIFICATIONS
	auth.GET("/notifications", h.ListNotifications)
	auth.POST("/notifications/:id/read", h.MarkNotificationRead)

	// DASHBOARD
	auth.GET("/dashboard", h.Dashboard)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
