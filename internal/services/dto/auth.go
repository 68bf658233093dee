package dto

import "college_backend/internal/models"

// SendVerificationCodeRequest - запрос кода подтверждения email
type SendVerificationCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RegisterRequest - запрос регистрации.
// Код подтверждения должен быть запрошен заранее через /send_verification_code
type RegisterRequest struct {
	Login            string `json:"login" binding:"required,min=3"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	VerificationCode string `json:"verification_code" binding:"required,len=4"`
	Name             string `json:"name"`
}

// ConfirmEmailRequest - проверка кода без регистрации
type ConfirmEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=4"`
}

// LoginRequest - запрос входа. Username принимает логин или email
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse - ответ с JWT токеном
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse - публичные данные о пользователе
type UserResponse struct {
	ID    string          `json:"id"`
	Login string          `json:"login"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Img   string          `json:"img"`
	Role  models.UserRole `json:"role"`
}

// ToUserResponse преобразует модель в публичный ответ
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Login: user.Login,
		Email: user.Email,
		Name:  user.Name,
		Img:   user.Img,
		Role:  user.Role,
	}
}
