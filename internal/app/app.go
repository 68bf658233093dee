package app

import (
	"fmt"

	"college_backend/internal/auth"
	"college_backend/internal/config"
	"college_backend/internal/email"
	"college_backend/internal/handlers"
	"college_backend/internal/logger"
	"college_backend/internal/middleware"
	"college_backend/internal/models"
	"college_backend/internal/repositories"
	"college_backend/internal/routes"
	"college_backend/internal/services"
	"college_backend/internal/storage"
	"college_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// Migrate создает схему под все модели приложения
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.VerificationCode{},
		&models.Course{},
		&models.CourseInfo{},
		&models.Section{},
		&models.Lesson{},
	)
}

// SetupRouter собирает весь стек приложения: хранилище, репозитории,
// сервисы, хэндлеры и маршруты. Используется также в тестах
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	serviceContainer := initializeServices(cfg, gormDB, storageInstance, tokenManager)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg)

	routes.RegisterRoutes(ginRouter, appHandlers, middleware.AuthMiddleware(tokenManager), storageInstance)

	return ginRouter
}

func initializeServices(
	cfg *config.Config,
	gormDB *gorm.DB,
	storageInstance storage.Storage,
	tokenManager *auth.TokenManager,
) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP не настроен, письма пишутся в память (mock)")
		emailProvider = email.NewMockProvider()
	} else {
		emailProvider = email.NewSMTPProvider(cfg.Email)
	}

	userRepo := repositories.NewUserRepository(gormDB)
	codeRepo := repositories.NewVerificationCodeRepository(gormDB)
	courseRepo := repositories.NewCourseRepository(gormDB)
	enrollmentRepo := repositories.NewEnrollmentRepository(gormDB)

	authService := services.NewAuthService(userRepo, codeRepo, emailProvider, tokenManager, cfg.Verification.CodeTTL)
	userService := services.NewUserService(userRepo, enrollmentRepo, codeRepo, emailProvider, storageInstance, cfg.Upload)
	courseService := services.NewCourseService(courseRepo, storageInstance, cfg.Upload)
	pdfService := services.NewPDFService(courseService)

	return &services.ServiceContainer{
		AuthService:   authService,
		UserService:   userService,
		CourseService: courseService,
		PDFService:    pdfService,
		EmailProvider: emailProvider,
		Storage:       storageInstance,
	}
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:   handlers.NewAuthHandler(base, sc.AuthService),
		UserHandler:   handlers.NewUserHandler(base, sc.UserService),
		CourseHandler: handlers.NewCourseHandler(base, sc.CourseService),
		PDFHandler:    handlers.NewPDFHandler(base, sc.PDFService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())

	return ginRouter
}
