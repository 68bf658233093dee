package services

import (
	"fmt"
	"testing"

	"college_backend/internal/auth"
	"college_backend/internal/config"
	"college_backend/internal/email"
	"college_backend/internal/models"
	"college_backend/internal/repositories"
	"college_backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv собирает слой сервисов поверх in-memory базы
type testEnv struct {
	db            *gorm.DB
	emailProvider *email.MockProvider
	authService   AuthService
	userService   UserService
	courseService CourseService
	pdfService    PDFService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "не удалось открыть sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.VerificationCode{},
		&models.Course{},
		&models.CourseInfo{},
		&models.Section{},
		&models.Lesson{},
	))

	store, err := storage.NewLocalStorage(config.StorageConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	uploadCfg := config.UploadConfig{
		MaxSize:      10 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png"},
	}

	provider := email.NewMockProvider()
	tm := auth.NewTokenManager("test-secret", 60)

	userRepo := repositories.NewUserRepository(db)
	codeRepo := repositories.NewVerificationCodeRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)

	courseService := NewCourseService(courseRepo, store, uploadCfg)

	return &testEnv{
		db:            db,
		emailProvider: provider,
		authService:   NewAuthService(userRepo, codeRepo, provider, tm, 15),
		userService:   NewUserService(userRepo, enrollmentRepo, codeRepo, provider, store, uploadCfg),
		courseService: courseService,
		pdfService:    NewPDFService(courseService),
	}
}
