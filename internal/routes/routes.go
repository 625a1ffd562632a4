package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/internal/handlers"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	sprintHandler *handlers.SprintHandler,
	boardHandler *handlers.BoardHandler,
	taskHandler *handlers.TaskHandler,
	chatHandler *handlers.ChatHandler,
	documentHandler *handlers.DocumentHandler,
	ticketHandler *handlers.TicketHandler,
	reportsHandler *handlers.ReportsHandler,
	integrationsHandler *handlers.IntegrationsHandler, // nil when no bot token
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.Refresh)

	if integrationsHandler != nil {
		r.POST("/integrations/telegram/webhook", integrationsHandler.Webhook)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))
	r.Use(middleware.ReadOnlyGuard())

	r.POST("/logout", authHandler.Logout)

	if integrationsHandler != nil {
		integr := r.Group("/integrations")
		{
			integr.POST("/telegram/link", integrationsHandler.CreateLinkCode)
		}
	}

	// USERS
	users := r.Group("/users")
	{
		users.GET("/me", userHandler.Me)
		users.GET("/", userHandler.List)
		users.GET("/:id", userHandler.GetByID)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)
	}

	// PROJECTS (sprints, boards and summaries hang off the project)
	projects := r.Group("/projects")
	{
		projects.POST("/", projectHandler.Create)
		projects.GET("/", projectHandler.List)
		projects.GET("/:id", projectHandler.GetByID)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.POST("/:id/members", projectHandler.AddMember)
		projects.GET("/:id/members", projectHandler.ListMembers)
		projects.POST("/:id/sprints", sprintHandler.Create)
		projects.GET("/:id/sprints", sprintHandler.ListByProject)
		projects.POST("/:id/boards", boardHandler.Create)
		projects.GET("/:id/boards", boardHandler.ListByProject)
		projects.GET("/:id/summary", reportsHandler.ProjectSummary)
	}

	// SPRINTS
	sprints := r.Group("/sprints")
	{
		sprints.GET("/:id", sprintHandler.GetByID)
		sprints.POST("/:id/start", sprintHandler.Start)
		sprints.POST("/:id/complete", sprintHandler.Complete)
		sprints.GET("/:id/report", reportsHandler.SprintReport)
	}

	// BOARDS / SECTIONS
	boards := r.Group("/boards")
	{
		boards.GET("/:id", boardHandler.GetByID)
	}
	sections := r.Group("/sections")
	{
		sections.GET("/:id/tasks", taskHandler.ListBySection)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/complete", taskHandler.Complete)
		tasks.POST("/:id/checklist", taskHandler.AddChecklistItem)
		tasks.PUT("/:id/checklist/:itemID", taskHandler.ToggleChecklistItem)
		tasks.POST("/:id/comments", taskHandler.AddComment)
		tasks.GET("/:id/comments", taskHandler.ListComments)
		tasks.POST("/:id/subtasks", taskHandler.AddSubtask)
		tasks.GET("/:id/subtasks", taskHandler.ListSubtasks)
		tasks.POST("/:id/documents", taskHandler.AttachDocument)
		tasks.GET("/:id/documents", taskHandler.ListAttachedDocuments)
	}

	// CHAT
	chat := r.Group("/chat")
	{
		chat.POST("/rooms", chatHandler.CreateRoom)
		chat.GET("/rooms", chatHandler.ListRooms)
		chat.GET("/rooms/:id", chatHandler.GetRoom)
		chat.POST("/rooms/:id/messages", chatHandler.PostMessage)
		chat.GET("/stream", chatHandler.Stream)
	}

	// DOCUMENTS
	docs := r.Group("/documents")
	{
		docs.POST("/", documentHandler.Upload)
		docs.GET("/", documentHandler.List)
		docs.GET("/:id/download", documentHandler.Download)
		docs.DELETE("/:id", documentHandler.Delete)
	}

	// TICKETS
	tickets := r.Group("/tickets")
	{
		tickets.POST("/", ticketHandler.Create)
		tickets.GET("/", ticketHandler.List)
		tickets.GET("/:id", ticketHandler.GetByID)
		tickets.PUT("/:id", ticketHandler.Update)
		tickets.DELETE("/:id", ticketHandler.Delete)
	}

	return r
}
