package routes

import (
	"net/http"
	"path/filepath"

	"college_backend/internal/handlers"
	"college_backend/internal/logger"
	"college_backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
	store storage.Storage,
) {
	ginRouter.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Коды подтверждения живут на корне, без префикса /api
	appHandlers.AuthHandler.RegisterVerificationRoutes(ginRouter)

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMW)
		appHandlers.UserHandler.RegisterRoutes(api, authMW)
		appHandlers.CourseHandler.RegisterRoutes(api)
		appHandlers.PDFHandler.RegisterRoutes(api)
	}

	// Картинки отдаются напрямую только при локальном хранилище,
	// S3 доступен по публичным URL
	if local, ok := store.(*storage.LocalStorage); ok {
		ginRouter.Static("/courseimg", filepath.Join(local.BasePath(), "courseimg"))
		ginRouter.Static("/userimg", filepath.Join(local.BasePath(), "userimg"))
		logger.Info("Static image routes registered", "base_path", local.BasePath())
	}
}
