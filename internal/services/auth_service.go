package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"college_backend/internal/apperrors"
	"college_backend/internal/auth"
	"college_backend/internal/email"
	"college_backend/internal/logger"
	"college_backend/internal/models"
	"college_backend/internal/repositories"
	"college_backend/internal/services/dto"
)

type AuthService interface {
	// SendVerificationCode генерирует и отправляет код подтверждения email
	SendVerificationCode(req *dto.SendVerificationCodeRequest) error
	// ConfirmEmail проверяет код, не регистрируя пользователя
	ConfirmEmail(req *dto.ConfirmEmailRequest) error
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	Me(userID string) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	codeRepo      repositories.VerificationCodeRepository
	emailProvider email.Provider
	tokenManager  *auth.TokenManager
	codeTTL       time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	codeRepo repositories.VerificationCodeRepository,
	emailProvider email.Provider,
	tokenManager *auth.TokenManager,
	codeTTLMinutes int,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		codeRepo:      codeRepo,
		emailProvider: emailProvider,
		tokenManager:  tokenManager,
		codeTTL:       time.Duration(codeTTLMinutes) * time.Minute,
	}
}

// SendVerificationCode - отправка кода подтверждения на email
func (s *AuthServiceImpl) SendVerificationCode(req *dto.SendVerificationCodeRequest) error {
	// Email не должен принадлежать зарегистрированному пользователю
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return apperrors.ErrEmailAlreadyExists
	}

	code, err := generateVerificationCode()
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.codeRepo.Create(req.Email, code); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.emailProvider.SendVerificationCode(req.Email, code); err != nil {
		logger.WithError(err).Error("Не удалось отправить код подтверждения", "email", req.Email)
		return apperrors.InternalError(err)
	}

	return nil
}

// ConfirmEmail - проверка кода подтверждения
func (s *AuthServiceImpl) ConfirmEmail(req *dto.ConfirmEmailRequest) error {
	_, err := s.codeRepo.FindValid(req.Email, req.Code, s.codeTTL)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCodeNotFound) {
			return apperrors.ErrInvalidVerificationCode
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// Register - регистрация нового пользователя с подтвержденным email
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	// Код должен быть запрошен заранее и еще действовать
	if _, err := s.codeRepo.FindValid(req.Email, req.VerificationCode, s.codeTTL); err != nil {
		if apperrors.Is(err, repositories.ErrCodeNotFound) {
			return nil, apperrors.ErrInvalidVerificationCode
		}
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Login:        req.Login,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRoleStudent,
	}

	if err := s.userRepo.Create(user); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrLoginTaken):
			return nil, apperrors.ErrLoginAlreadyExists
		case apperrors.Is(err, repositories.ErrEmailTaken):
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	// Код одноразовый
	if err := s.codeRepo.DeleteByEmail(req.Email); err != nil {
		logger.WithError(err).Warn("Не удалось удалить использованный код", "email", req.Email)
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// Login - аутентификация по логину или email
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByLoginOrEmail(req.Username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// Me - данные текущего пользователя
func (s *AuthServiceImpl) Me(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// generateVerificationCode возвращает случайный четырехзначный код
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
