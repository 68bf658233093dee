package services

import (
	"testing"

	"college_backend/internal/apperrors"
	"college_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func algebraCreateRequest() *dto.CourseCreateRequest {
	return &dto.CourseCreateRequest{
		ID:             "algebra",
		Title:          "Алгебра",
		Subtitle:       "Базовый курс",
		Type:           "МАТЕМАТИКА",
		TimeToEndL:     "2 НЕДЕЛИ",
		Color:          "#ff0000",
		IconType:       "programIcon",
		TitleForCourse: "Алгебра для начинающих",
		Info: []dto.CourseInfoPayload{
			{Title: "Уровень", Subtitle: "Начальный"},
		},
		Sections: []dto.SectionPayload{
			{
				ID:   "s1",
				Name: "Введение",
				Content: []dto.LessonPayload{
					{ID: "l1", Name: "Числа", Passing: "no"},
					{Name: "Дроби"},
				},
			},
		},
	}
}

func TestCourseService_CreateAndGet(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)

	course, err := env.courseService.Create(algebraCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "algebra", course.ID)
	require.Len(t, course.Sections, 1)
	assert.Equal(t, "s1", course.Sections[0].ID)
	require.Len(t, course.Sections[0].Content, 2)
	assert.Equal(t, "l1", course.Sections[0].Content[0].ID)

	// Пустой passing по умолчанию "no"
	assert.Equal(t, "no", course.Sections[0].Content[1].Passing)

	_, err = env.courseService.Get("ghost")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseService_Create_InvalidPassing(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)

	req := algebraCreateRequest()
	req.Sections[0].Content[0].Passing = "maybe"

	_, err := env.courseService.Create(req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassing)
}

func TestCourseService_Update_ReplacesTree(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	_, err := env.courseService.Create(algebraCreateRequest())
	require.NoError(t, err)

	update := &dto.CourseUpdateRequest{
		Title:          "Алгебра 2.0",
		Subtitle:       "Обновленный курс",
		Type:           "МАТЕМАТИКА",
		TimeToEndL:     "1 МЕСЯЦ",
		Color:          "#00ff00",
		TitleForCourse: "Алгебра, вторая редакция",
		Info:           &[]dto.CourseInfoPayload{},
		Sections: &[]dto.SectionPayload{
			{Name: "Уравнения", Content: []dto.LessonPayload{{Name: "Линейные"}}},
		},
	}

	course, err := env.courseService.Update("algebra", update)
	require.NoError(t, err)

	assert.Equal(t, "Алгебра 2.0", course.Title)
	assert.Empty(t, course.Info)
	require.Len(t, course.Sections, 1)
	assert.Equal(t, "Уравнения", course.Sections[0].Name)
	require.Len(t, course.Sections[0].Content, 1)
}

func TestCourseService_Update_NilTreeKeepsChildren(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	_, err := env.courseService.Create(algebraCreateRequest())
	require.NoError(t, err)

	// info/sections не присланы: скаляры меняются, дерево остается
	update := &dto.CourseUpdateRequest{
		Title:          "Алгебра 2.0",
		Subtitle:       "Базовый курс",
		Type:           "МАТЕМАТИКА",
		TimeToEndL:     "2 НЕДЕЛИ",
		Color:          "#ff0000",
		TitleForCourse: "Алгебра для начинающих",
	}

	course, err := env.courseService.Update("algebra", update)
	require.NoError(t, err)

	assert.Equal(t, "Алгебра 2.0", course.Title)
	require.Len(t, course.Info, 1)
	require.Len(t, course.Sections, 1)
	require.Len(t, course.Sections[0].Content, 2)
}

func TestCourseService_SetLessonPassing(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	_, err := env.courseService.Create(algebraCreateRequest())
	require.NoError(t, err)

	// Невалидный статус
	_, err = env.courseService.SetLessonPassing("algebra", "l1", "maybe")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassing)

	// Курс должен существовать
	_, err = env.courseService.SetLessonPassing("ghost", "l1", "yes")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	lesson, err := env.courseService.SetLessonPassing("algebra", "l1", "yes")
	require.NoError(t, err)
	assert.Equal(t, "yes", lesson.Passing)

	// Статус сохранился в дереве
	course, err := env.courseService.Get("algebra")
	require.NoError(t, err)
	assert.Equal(t, "yes", course.Sections[0].Content[0].Passing)

	_, err = env.courseService.SetLessonPassing("algebra", "ghost", "yes")
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
}

func TestCourseService_SectionAndLessonFlow(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	_, err := env.courseService.Create(algebraCreateRequest())
	require.NoError(t, err)

	section, err := env.courseService.CreateSection("algebra", &dto.SectionCreateRequest{
		Name:    "Геометрия",
		Content: []dto.LessonPayload{{Name: "Треугольники"}},
	})
	require.NoError(t, err)
	require.Len(t, section.Content, 1)

	lesson, err := env.courseService.CreateLesson("algebra", section.ID, &dto.LessonCreateRequest{
		Name:    "Окружности",
		Passing: "no",
	})
	require.NoError(t, err)

	updated, err := env.courseService.UpdateLesson("algebra", section.ID, lesson.ID, &dto.LessonCreateRequest{
		Name:    "Окружности и дуги",
		Passing: "yes",
	})
	require.NoError(t, err)
	assert.Equal(t, "Окружности и дуги", updated.Name)
	assert.Equal(t, "yes", updated.Passing)

	withDesc, err := env.courseService.UpdateLessonDescriptionInSection(
		"algebra", section.ID, lesson.ID, "<p>окружности</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>окружности</p>", withDesc.Description)

	require.NoError(t, env.courseService.DeleteLesson("algebra", section.ID, lesson.ID))
	require.NoError(t, env.courseService.DeleteSection("algebra", section.ID))

	err = env.courseService.DeleteSection("algebra", section.ID)
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestUserService_EnrollmentFlow(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	user := registerUser(t, env, "ivan", "ivan@test.com", "secret123")
	_, err := env.courseService.Create(algebraCreateRequest())
	require.NoError(t, err)

	require.NoError(t, env.userService.Enroll(user.ID, "algebra"))
	assert.ErrorIs(t, env.userService.Enroll(user.ID, "algebra"), apperrors.ErrAlreadyEnrolled)

	courses, err := env.userService.ListCourses(user.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "algebra", courses[0].ID)

	require.NoError(t, env.userService.Unenroll(user.ID, "algebra"))
	assert.ErrorIs(t, env.userService.Unenroll(user.ID, "algebra"), apperrors.ErrNotEnrolled)
}

func TestUserService_PartialUpdate(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	user := registerUser(t, env, "ivan", "ivan@test.com", "secret123")

	name := "Иван Иванов"
	updated, err := env.userService.Update(user.ID, &dto.UserUpdateRequest{Name: &name})
	require.NoError(t, err)

	// Не присланные поля не тронуты
	assert.Equal(t, "Иван Иванов", updated.Name)
	assert.Equal(t, "ivan", updated.Login)
	assert.Equal(t, "ivan@test.com", updated.Email)

	// Конфликт логина
	registerUser(t, env, "petr", "petr@test.com", "secret123")
	login := "petr"
	_, err = env.userService.Update(user.ID, &dto.UserUpdateRequest{Login: &login})
	assert.ErrorIs(t, err, apperrors.ErrLoginAlreadyExists)

	// Слабый пароль
	weak := "123"
	_, err = env.userService.Update(user.ID, &dto.UserUpdateRequest{Password: &weak})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestUserService_EmailChangeResendsCode(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	user := registerUser(t, env, "ivan", "ivan@test.com", "secret123")

	newEmail := "ivan.new@test.com"
	updated, err := env.userService.Update(user.ID, &dto.UserUpdateRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)

	// На новый адрес уходит код подтверждения
	code := env.emailProvider.LastCode(newEmail)
	require.Len(t, code, 4)
	assert.NoError(t, env.authService.ConfirmEmail(&dto.ConfirmEmailRequest{
		Email: newEmail,
		Code:  code,
	}))
}
