package services

import (
	"testing"

	"college_backend/internal/apperrors"
	"college_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerUser проводит полный цикл: код на почту, регистрация
func registerUser(t *testing.T, env *testEnv, login, emailAddr, password string) *dto.UserResponse {
	t.Helper()

	err := env.authService.SendVerificationCode(&dto.SendVerificationCodeRequest{Email: emailAddr})
	require.NoError(t, err)

	code := env.emailProvider.LastCode(emailAddr)
	require.Len(t, code, 4, "код должен быть четырехзначным")

	user, err := env.authService.Register(&dto.RegisterRequest{
		Login:            login,
		Email:            emailAddr,
		Password:         password,
		VerificationCode: code,
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_RegisterFlow(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)

	user := registerUser(t, env, "ivan", "ivan@test.com", "secret123")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ivan", user.Login)
	assert.EqualValues(t, "student", user.Role)

	// Код одноразовый: повторная регистрация с ним не проходит
	_, err := env.authService.Register(&dto.RegisterRequest{
		Login:            "ivan2",
		Email:            "ivan@test.com",
		Password:         "secret123",
		VerificationCode: env.emailProvider.LastCode("ivan@test.com"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
}

func TestAuthService_SendVerificationCode_EmailTaken(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	registerUser(t, env, "ivan", "ivan@test.com", "secret123")

	err := env.authService.SendVerificationCode(&dto.SendVerificationCodeRequest{Email: "ivan@test.com"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_Register_InvalidCode(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)

	require.NoError(t, env.authService.SendVerificationCode(&dto.SendVerificationCodeRequest{Email: "ivan@test.com"}))

	_, err := env.authService.Register(&dto.RegisterRequest{
		Login:            "ivan",
		Email:            "ivan@test.com",
		Password:         "secret123",
		VerificationCode: "0000",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	registerUser(t, env, "ivan", "ivan@test.com", "secret123")

	require.NoError(t, env.authService.SendVerificationCode(&dto.SendVerificationCodeRequest{Email: "petr@test.com"}))
	code := env.emailProvider.LastCode("petr@test.com")

	// Логин уже занят
	_, err := env.authService.Register(&dto.RegisterRequest{
		Login:            "ivan",
		Email:            "petr@test.com",
		Password:         "secret123",
		VerificationCode: code,
	})
	assert.ErrorIs(t, err, apperrors.ErrLoginAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	registerUser(t, env, "ivan", "ivan@test.com", "secret123")

	// По логину
	token, err := env.authService.Login(&dto.LoginRequest{Username: "ivan", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)

	// По email
	_, err = env.authService.Login(&dto.LoginRequest{Username: "ivan@test.com", Password: "secret123"})
	assert.NoError(t, err)

	// Неверный пароль и неизвестный пользователь дают одну и ту же ошибку
	_, err = env.authService.Login(&dto.LoginRequest{Username: "ivan", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = env.authService.Login(&dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Me(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	user := registerUser(t, env, "ivan", "ivan@test.com", "secret123")

	got, err := env.authService.Me(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Login, got.Login)

	_, err = env.authService.Me("ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
