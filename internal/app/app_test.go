package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"college_backend/internal/config"
	"college_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

// newTestServer поднимает полный стек приложения на in-memory базе
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "не удалось открыть sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}
	cfg.Verification.CodeTTL = 15

	return &testServer{
		router: SetupRouter(cfg, db),
		db:     db,
	}
}

// SendRequest выполняет JSON запрос и возвращает ответ со строкой тела
func (ts *testServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	res := rec.Result()
	return res, rec.Body.String()
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	res, body := ts.SendRequest(t, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "ok")
}

// TestCourseLifecycle - E2E сценарий каталога: создание, чтение,
// отметка урока пройденным, замена дерева, удаление
func TestCourseLifecycle(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	// 1. Создаем курс "Алгебра" с секцией s1 и уроком l1
	createBody := map[string]interface{}{
		"id":             "algebra",
		"title":          "Алгебра",
		"subtitle":       "Базовый курс",
		"type":           "МАТЕМАТИКА",
		"timetoendL":     "2 НЕДЕЛИ",
		"color":          "#ff0000",
		"icontype":       "programIcon",
		"titleForCourse": "Алгебра для начинающих",
		"info": []map[string]interface{}{
			{"title": "Уровень", "subtitle": "Начальный"},
		},
		"sections": []map[string]interface{}{
			{
				"id":   "s1",
				"name": "Введение",
				"content": []map[string]interface{}{
					{"id": "l1", "name": "Числа", "passing": "no"},
				},
			},
		},
	}
	res, body := ts.SendRequest(t, "POST", "/api/courses", "", createBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.Contains(t, body, `"timetoendL":"2 НЕДЕЛИ"`)
	t.Log("КУРС: создан (201)")

	// 2. Дерево читается целиком
	res, body = ts.SendRequest(t, "GET", "/api/courses/algebra", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"id":"s1"`)
	assert.Contains(t, body, `"passing":"no"`)

	// 3. Отмечаем урок пройденным
	res, body = ts.SendRequest(t, "PATCH", "/api/courses/algebra/lessons/l1/passing?passing=yes", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, "GET", "/api/courses/algebra", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"passing":"yes"`)
	t.Log("КУРС: урок отмечен пройденным")

	// 4. Невалидный статус отклоняется
	res, _ = ts.SendRequest(t, "PATCH", "/api/courses/algebra/lessons/l1/passing?passing=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// 5. PUT полностью заменяет дерево
	updateBody := map[string]interface{}{
		"title":          "Алгебра 2.0",
		"subtitle":       "Обновленный курс",
		"type":           "МАТЕМАТИКА",
		"timetoendL":     "1 МЕСЯЦ",
		"color":          "#00ff00",
		"titleForCourse": "Алгебра, вторая редакция",
		"info":           []map[string]interface{}{},
		"sections": []map[string]interface{}{
			{"name": "Уравнения", "content": []map[string]interface{}{{"name": "Линейные"}}},
		},
	}
	res, body = ts.SendRequest(t, "PUT", "/api/courses/algebra", "", updateBody)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Уравнения")
	assert.NotContains(t, body, `"id":"s1"`)

	// 6. Удаление курса
	res, _ = ts.SendRequest(t, "DELETE", "/api/courses/algebra", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, "GET", "/api/courses/algebra", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	t.Log("КУРС: удален, чтение дает 404")
}

// TestAuthFlow - E2E сценарий аутентификации: код, регистрация, вход, /me
func TestAuthFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	// 1. Запрашиваем код подтверждения
	res, body := ts.SendRequest(t, "POST", "/send_verification_code",
		"", map[string]string{"email": "ivan@test.com"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// Код уходит через mock-провайдер, достаем его из базы
	var vc models.VerificationCode
	require.NoError(t, ts.db.Where("email = ?", "ivan@test.com").First(&vc).Error)
	require.Len(t, vc.Code, 4)
	t.Logf("АУТЕНТИФИКАЦИЯ: код %s отправлен", vc.Code)

	// 2. Подтверждение кода без регистрации
	res, _ = ts.SendRequest(t, "POST", "/confirm_email",
		"", map[string]string{"email": "ivan@test.com", "code": vc.Code})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// 3. Регистрация с кодом
	res, body = ts.SendRequest(t, "POST", "/api/auth/register", "", map[string]string{
		"login":             "ivan",
		"email":             "ivan@test.com",
		"password":          "secret123",
		"verification_code": vc.Code,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	require.NotEmpty(t, user.ID)

	// 4. Вход по логину
	res, body = ts.SendRequest(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "ivan",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &token))
	require.NotEmpty(t, token.AccessToken)

	// 5. /me с токеном
	res, body = ts.SendRequest(t, "GET", "/api/auth/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, user.ID)

	// Без токена доступа нет
	res, _ = ts.SendRequest(t, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	t.Log("АУТЕНТИФИКАЦИЯ: полный цикл пройден")
}

// TestEnrollmentFlow - E2E запись пользователя на курс
func TestEnrollmentFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	// Пользователь и курс
	res, _ := ts.SendRequest(t, "POST", "/send_verification_code",
		"", map[string]string{"email": "ivan@test.com"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var vc models.VerificationCode
	require.NoError(t, ts.db.Where("email = ?", "ivan@test.com").First(&vc).Error)

	res, body := ts.SendRequest(t, "POST", "/api/auth/register", "", map[string]string{
		"login": "ivan", "email": "ivan@test.com",
		"password": "secret123", "verification_code": vc.Code,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &user))

	res, body = ts.SendRequest(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "ivan", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &token))

	res, _ = ts.SendRequest(t, "POST", "/api/courses", "", map[string]interface{}{
		"id": "algebra", "title": "Алгебра", "subtitle": "Базовый курс",
		"type": "МАТЕМАТИКА", "timetoendL": "2 НЕДЕЛИ", "color": "#ff0000",
		"titleForCourse": "Алгебра для начинающих",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// Запись требует токена
	res, _ = ts.SendRequest(t, "POST", "/api/users/"+user.ID+"/courses",
		"", map[string]string{"course_id": "algebra"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = ts.SendRequest(t, "POST", "/api/users/"+user.ID+"/courses",
		token.AccessToken, map[string]string{"course_id": "algebra"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	// Курс виден в списке пользователя
	res, body = ts.SendRequest(t, "GET", "/api/users/"+user.ID+"/courses", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"id":"algebra"`)

	// Повторная запись дает конфликт
	res, _ = ts.SendRequest(t, "POST", "/api/users/"+user.ID+"/courses",
		token.AccessToken, map[string]string{"course_id": "algebra"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Отписка
	res, _ = ts.SendRequest(t, "DELETE", "/api/users/"+user.ID+"/courses/algebra",
		token.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
