package repositories

import (
	"testing"
	"time"

	"college_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(login, email string) *models.User {
	return &models.User{
		Login:        login,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Name:         "Тестовый пользователь",
		Role:         models.UserRoleStudent,
	}
}

func TestUserRepository_CreateConflicts(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(newUser("ivan", "ivan@test.com")))

	// Логин занят
	err := repo.Create(newUser("ivan", "other@test.com"))
	assert.ErrorIs(t, err, ErrLoginTaken)

	// Email занят
	err = repo.Create(newUser("petr", "ivan@test.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_FindByLoginOrEmail(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(newUser("ivan", "ivan@test.com")))

	// Вход работает и по логину, и по email
	byLogin, err := repo.FindByLoginOrEmail("ivan")
	require.NoError(t, err)
	byEmail, err := repo.FindByLoginOrEmail("ivan@test.com")
	require.NoError(t, err)
	assert.Equal(t, byLogin.ID, byEmail.ID)

	_, err = repo.FindByLoginOrEmail("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DeleteClearsEnrollments(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	courseRepo := NewCourseRepository(db)
	enrollRepo := NewEnrollmentRepository(db)

	user := newUser("ivan", "ivan@test.com")
	require.NoError(t, userRepo.Create(user))
	require.NoError(t, courseRepo.Create(newCourseTree("algebra")))
	require.NoError(t, enrollRepo.Enroll(user.ID, "algebra"))

	require.NoError(t, userRepo.Delete(user.ID))

	_, err := userRepo.FindByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Запись о курсе ушла, сам курс остался
	var count int64
	db.Table("user_courses").Count(&count)
	assert.Zero(t, count)
	_, err = courseRepo.FindByID("algebra")
	assert.NoError(t, err)
}

func TestEnrollmentRepository_Flow(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	courseRepo := NewCourseRepository(db)
	repo := NewEnrollmentRepository(db)

	user := newUser("ivan", "ivan@test.com")
	require.NoError(t, userRepo.Create(user))
	require.NoError(t, courseRepo.Create(newCourseTree("algebra")))

	assert.ErrorIs(t, repo.Enroll("ghost", "algebra"), ErrUserNotFound)
	assert.ErrorIs(t, repo.Enroll(user.ID, "ghost"), ErrCourseNotFound)

	require.NoError(t, repo.Enroll(user.ID, "algebra"))
	assert.ErrorIs(t, repo.Enroll(user.ID, "algebra"), ErrAlreadyEnrolled)

	enrolled, err := repo.IsEnrolled(user.ID, "algebra")
	require.NoError(t, err)
	assert.True(t, enrolled)

	// Список курсов приходит с деревом
	courses, err := repo.ListCourses(user.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.NotEmpty(t, courses[0].Sections)

	require.NoError(t, repo.Unenroll(user.ID, "algebra"))
	assert.ErrorIs(t, repo.Unenroll(user.ID, "algebra"), ErrNotEnrolled)
}

func TestVerificationCodeRepository_TTL(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewVerificationCodeRepository(db)

	require.NoError(t, repo.Create("ivan@test.com", "1234"))

	// Валидный код находится
	_, err := repo.FindValid("ivan@test.com", "1234", 15*time.Minute)
	assert.NoError(t, err)

	// Неверный код
	_, err = repo.FindValid("ivan@test.com", "0000", 15*time.Minute)
	assert.ErrorIs(t, err, ErrCodeNotFound)

	// Новый код вытесняет старый
	require.NoError(t, repo.Create("ivan@test.com", "5678"))
	_, err = repo.FindValid("ivan@test.com", "1234", 15*time.Minute)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	_, err = repo.FindValid("ivan@test.com", "5678", 15*time.Minute)
	assert.NoError(t, err)

	// Просроченный код не принимается
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.VerificationCode{}).
		Where("email = ?", "ivan@test.com").
		Update("created_at", expired).Error)
	_, err = repo.FindValid("ivan@test.com", "5678", 15*time.Minute)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}
