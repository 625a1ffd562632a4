package app

import (
	"database/sql"
	"fmt"
	"log"

	"teamhub/internal/config"
	"teamhub/internal/handlers"
	"teamhub/internal/pdf"
	"teamhub/internal/realtime"
	"teamhub/internal/repositories"
	"teamhub/internal/routes"
	"teamhub/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "teamhub/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	sprintRepo := repositories.NewSprintRepository(db)
	boardRepo := repositories.NewBoardRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)
	linkRepo := repositories.NewTelegramLinkRepository(db)

	// === Services ===
	authService := services.NewAuthService([]byte(cfg.Auth.JWTSecret))
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	tgService, err := services.NewTelegramService(cfg.Telegram.BotToken)
	if err != nil {
		log.Printf("[tg][init][err] %v, continuing without telegram", err)
		tgService = nil
	}
	if err := tgService.SetWebhook(cfg.Telegram.WebhookURL); err != nil {
		log.Printf("[tg][init][err] set webhook: %v", err)
	}

	notifier := services.NewTaskNotifier(userRepo, linkRepo, emailService, tgService)
	notifier.Start()
	defer notifier.Close()

	hub := realtime.NewHub()

	userService := services.NewUserService(userRepo, emailService, authService)
	projectService := services.NewProjectService(projectRepo)
	sprintService := services.NewSprintService(sprintRepo, projectRepo)
	boardService := services.NewBoardService(boardRepo, projectRepo)
	taskService := services.NewTaskService(taskRepo, boardRepo, projectRepo, notifier)
	chatService := services.NewChatService(chatRepo, hub)
	documentService := services.NewDocumentService(documentRepo, cfg.Files.RootDir)
	ticketService := services.NewTicketService(ticketRepo)

	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir)
	reportService := services.NewReportService(projectRepo, boardRepo, sprintRepo, taskRepo, pdfGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, userRepo)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	sprintHandler := handlers.NewSprintHandler(sprintService)
	boardHandler := handlers.NewBoardHandler(boardService)
	taskHandler := handlers.NewTaskHandler(taskService)
	chatHandler := handlers.NewChatHandler(chatService, hub)
	documentHandler := handlers.NewDocumentHandler(documentService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	reportsHandler := handlers.NewReportsHandler(reportService)

	var integrationsHandler *handlers.IntegrationsHandler
	if tgService != nil {
		integrationsHandler = handlers.NewIntegrationsHandler(linkRepo, tgService)
	}

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		[]byte(cfg.Auth.JWTSecret),
		authHandler,
		userHandler,
		projectHandler,
		sprintHandler,
		boardHandler,
		taskHandler,
		chatHandler,
		documentHandler,
		ticketHandler,
		reportsHandler,
		integrationsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
