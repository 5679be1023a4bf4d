package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackteam/action-tracker/internal/domain/repositories"
	"github.com/trackteam/action-tracker/internal/infrastructure/http/middleware"
	"github.com/trackteam/action-tracker/pkg/config"
	"github.com/trackteam/action-tracker/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg        *config.Config
	jwtManager *jwt.Manager
	userRepo   repositories.UserRepository

	authHandler       *Auth
	meetingHandler    *Meeting
	taskHandler       *Task
	userHandler       *User
	adminHandler      *Admin
	transcribeHandler *Transcribe
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	userRepo repositories.UserRepository,
	authHandler *Auth,
	meetingHandler *Meeting,
	taskHandler *Task,
	userHandler *User,
	adminHandler *Admin,
	transcribeHandler *Transcribe,
) *Router {
	return &Router{
		cfg:               cfg,
		jwtManager:        jwtManager,
		userRepo:          userRepo,
		authHandler:       authHandler,
		meetingHandler:    meetingHandler,
		taskHandler:       taskHandler,
		userHandler:       userHandler,
		adminHandler:      adminHandler,
		transcribeHandler: transcribeHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	// Public routes
	v1.POST("/auth/register", rt.authHandler.Register)
	v1.POST("/auth/login", rt.authHandler.Login)
	v1.GET("/share/:token", rt.meetingHandler.Shared)

	// Authenticated routes
	authed := v1.Group("", middleware.EchoAuth(rt.jwtManager, rt.userRepo))
	authed.GET("/auth/me", rt.authHandler.Me)

	rt.setupMeetingRoutes(authed)
	rt.setupUserRoutes(authed)
	rt.setupAdminRoutes(authed)
}

// setupMeetingRoutes configures meeting, task, and processing routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.POST("/process", rt.meetingHandler.Process, middleware.RequireAdmin())
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)
	meetings.GET("/:id/export", rt.meetingHandler.Export)
	meetings.POST("/:id/share", rt.meetingHandler.Share)
	meetings.POST("/:id/email", rt.meetingHandler.Email)

	meetings.PATCH("/:id/tasks/:taskId", rt.taskHandler.Update)
	meetings.POST("/:id/tasks/:taskId/comments", rt.taskHandler.AddComment)
	meetings.POST("/:id/tasks/:taskId/change-requests", rt.taskHandler.AddChangeRequest)
	meetings.PATCH("/:id/tasks/:taskId/change-requests/:requestId", rt.taskHandler.SetChangeRequestStatus)

	g.POST("/transcribe", rt.transcribeHandler.Audio, middleware.RequireAdmin())
}

// setupUserRoutes configures user lookup and insight routes
func (rt *Router) setupUserRoutes(g *echo.Group) {
	users := g.Group("/users")

	users.GET("/me/tasks", rt.userHandler.MyTasks)
	users.GET("/:id/tasks", rt.userHandler.Tasks)
	users.GET("/by-name/:name", rt.userHandler.ByName)

	g.GET("/calendar", rt.userHandler.Calendar)
	g.GET("/metrics", rt.userHandler.Metrics)
}

// setupAdminRoutes configures user administration routes
func (rt *Router) setupAdminRoutes(g *echo.Group) {
	admin := g.Group("/admin", middleware.RequireAdmin())

	admin.GET("/users", rt.adminHandler.ListUsers)
	admin.PATCH("/users/:id/role", rt.adminHandler.UpdateRole)
	admin.POST("/users/:id/password", rt.adminHandler.ResetPassword)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
