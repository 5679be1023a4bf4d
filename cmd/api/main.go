package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/trackteam/action-tracker/pkg/validator"

	"github.com/trackteam/action-tracker/internal/adapter/handler"
	"github.com/trackteam/action-tracker/internal/adapter/repository"
	"github.com/trackteam/action-tracker/internal/domain/repositories"
	"github.com/trackteam/action-tracker/internal/infrastructure/cache"
	"github.com/trackteam/action-tracker/internal/infrastructure/database"
	"github.com/trackteam/action-tracker/internal/infrastructure/storage"
	"github.com/trackteam/action-tracker/internal/usecase/auth"
	"github.com/trackteam/action-tracker/internal/usecase/extraction"
	"github.com/trackteam/action-tracker/internal/usecase/meeting"
	pkgai "github.com/trackteam/action-tracker/pkg/ai"
	"github.com/trackteam/action-tracker/pkg/config"
	"github.com/trackteam/action-tracker/pkg/jwt"
	"github.com/trackteam/action-tracker/pkg/mailer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	// Initialize Redis for share tokens, falling back to the in-process store
	// when Redis is unreachable
	log.Println("📦 Connecting to Redis...")
	var shareStore repositories.ShareTokenStore
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, share tokens will not survive a restart: %v", err)
		shareStore = repository.NewMemoryShareTokenStore(cache.NewMemoryStore())
	} else {
		defer redisClient.Close()
		shareStore = repository.NewShareTokenStore(redisClient)
	}

	// Initialize transcript archive (optional)
	log.Println("🗄️  Initializing transcript archive...")
	var archiver extraction.TranscriptArchiver
	archive, err := storage.NewTranscriptArchive(&cfg.Storage)
	if err != nil {
		log.Printf("⚠️  Object storage unavailable, transcripts will not be archived: %v", err)
	} else {
		archiver = archive
	}

	// Initialize AI clients
	log.Println("🤖 Initializing AI components...")
	extractorClient := pkgai.NewExtractorClient(&cfg.Extractor)
	var transcriber *pkgai.Transcriber
	if cfg.Assembly.APIKey != "" {
		transcriber = pkgai.NewTranscriber(&cfg.Assembly)
	}

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	log.Println("✨ Initializing services...")
	authService := auth.NewService(userRepo, jwtManager, logger)
	extractionService := extraction.NewService(userRepo, meetingRepo, extractorClient, archiver, cfg.Extractor.MaxRetries, logger)

	var meetingMailer meeting.Mailer
	if cfg.SMTP.IsConfigured() {
		meetingMailer = mailer.New(cfg.SMTP)
	} else {
		log.Println("⚠️  SMTP not configured, email features disabled")
	}
	meetingService := meeting.NewService(meetingRepo, userRepo, shareStore, meetingMailer, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, logger)
	meetingHandler := handler.NewMeeting(extractionService, meetingService, logger)
	taskHandler := handler.NewTask(meetingService, logger)
	userHandler := handler.NewUser(meetingService, userRepo, logger)
	adminHandler := handler.NewAdmin(authService, logger)
	transcribeHandler := handler.NewTranscribe(transcriber, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, userRepo,
		authHandler, meetingHandler, taskHandler, userHandler, adminHandler, transcribeHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
