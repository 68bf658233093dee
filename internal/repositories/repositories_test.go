package repositories

import (
	"fmt"
	"testing"

	"college_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB поднимает изолированную in-memory базу на каждый тест
func setupTestDB(t *testing.T) *gorm.DB {
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
	), "не удалось создать схему")

	return db
}

// newCourseTree возвращает курс с info, секцией и двумя уроками
func newCourseTree(id string) *models.Course {
	course := &models.Course{
		Title:          "Алгебра",
		Subtitle:       "Базовый курс",
		Type:           "МАТЕМАТИКА",
		TimeToEndL:     "2 НЕДЕЛИ",
		Color:          "#ff0000",
		IconType:       "programIcon",
		TitleForCourse: "Алгебра для начинающих",
		Info: []models.CourseInfo{
			{Title: "Уровень", Subtitle: "Начальный"},
		},
		Sections: []models.Section{
			{
				Name: "Введение",
				Lessons: []models.Lesson{
					{Name: "Числа", Passing: models.PassingNo},
					{Name: "Дроби", Passing: models.PassingNo, Description: "<p>Дроби</p>"},
				},
			},
		},
	}
	course.ID = id
	return course
}
