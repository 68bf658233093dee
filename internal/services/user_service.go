package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"college_backend/internal/apperrors"
	"college_backend/internal/auth"
	"college_backend/internal/config"
	"college_backend/internal/email"
	"college_backend/internal/logger"
	"college_backend/internal/models"
	"college_backend/internal/repositories"
	"college_backend/internal/services/dto"
	"college_backend/internal/storage"

	"github.com/google/uuid"
)

type UserService interface {
	GetAll(limit, offset int) ([]dto.UserResponse, error)
	GetByID(id string) (*dto.UserResponse, error)
	// Update применяет частичное обновление: затрагиваются только
	// присланные поля
	Update(id string, req *dto.UserUpdateRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader, size int64) (*dto.UploadResponse, error)
	Delete(ctx context.Context, userID string) error

	Enroll(userID, courseID string) error
	Unenroll(userID, courseID string) error
	ListCourses(userID string) ([]dto.CourseResponse, error)
}

type UserServiceImpl struct {
	userRepo       repositories.UserRepository
	enrollmentRepo repositories.EnrollmentRepository
	codeRepo       repositories.VerificationCodeRepository
	emailProvider  email.Provider
	store          storage.Storage
	uploadCfg      config.UploadConfig
}

func NewUserService(
	userRepo repositories.UserRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	codeRepo repositories.VerificationCodeRepository,
	emailProvider email.Provider,
	store storage.Storage,
	uploadCfg config.UploadConfig,
) UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		codeRepo:       codeRepo,
		emailProvider:  emailProvider,
		store:          store,
		uploadCfg:      uploadCfg,
	}
}

func (s *UserServiceImpl) GetAll(limit, offset int) ([]dto.UserResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	users, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.ToUserResponse(&users[i]))
	}
	return out, nil
}

func (s *UserServiceImpl) GetByID(id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) Update(id string, req *dto.UserUpdateRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Login != nil && *req.Login != user.Login {
		if _, err := s.userRepo.FindByLogin(*req.Login); err == nil {
			return nil, apperrors.ErrLoginAlreadyExists
		}
		user.Login = *req.Login
	}
	emailChanged := false
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*req.Email); err == nil {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		user.Email = *req.Email
		emailChanged = true
	}
	if req.Password != nil {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.PasswordHash = hash
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Img != nil {
		user.Img = *req.Img
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Новый email требует повторного подтверждения
	if emailChanged {
		s.sendVerificationMail(user.Email)
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) sendVerificationMail(emailAddr string) {
	code, err := generateVerificationCode()
	if err != nil {
		logger.WithError(err).Warn("Не удалось сгенерировать код подтверждения", "email", emailAddr)
		return
	}
	if err := s.codeRepo.Create(emailAddr, code); err != nil {
		logger.WithError(err).Warn("Не удалось сохранить код подтверждения", "email", emailAddr)
		return
	}
	if err := s.emailProvider.SendVerificationCode(emailAddr, code); err != nil {
		logger.WithError(err).Warn("Не удалось отправить код подтверждения", "email", emailAddr)
	}
}

// UploadAvatar сохраняет картинку и записывает путь в профиль.
// Старый аватар удаляется
func (s *UserServiceImpl) UploadAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader, size int64) (*dto.UploadResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := validateUpload(contentType, size, s.uploadCfg); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("userimg/%s%s", uuid.NewString(), fileExt(filename))
	if err := s.store.Save(ctx, path, r, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	oldImg := user.Img
	user.Img = path
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if oldImg != "" {
		if err := s.store.Delete(ctx, oldImg); err != nil {
			logger.WithError(err).Warn("Не удалось удалить старый аватар", "path", oldImg)
		}
	}

	return &dto.UploadResponse{
		Filename: filepath.Base(path),
		Path:     s.store.GetURL(path),
	}, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return apperrors.InternalError(err)
	}

	if user.Img != "" {
		if err := s.store.Delete(ctx, user.Img); err != nil {
			logger.WithError(err).Warn("Не удалось удалить аватар", "path", user.Img)
		}
	}
	return nil
}

func (s *UserServiceImpl) Enroll(userID, courseID string) error {
	err := s.enrollmentRepo.Enroll(userID, courseID)
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case apperrors.Is(err, repositories.ErrCourseNotFound):
		return apperrors.ErrCourseNotFound
	case apperrors.Is(err, repositories.ErrAlreadyEnrolled):
		return apperrors.ErrAlreadyEnrolled
	default:
		return apperrors.InternalError(err)
	}
}

func (s *UserServiceImpl) Unenroll(userID, courseID string) error {
	err := s.enrollmentRepo.Unenroll(userID, courseID)
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case apperrors.Is(err, repositories.ErrNotEnrolled):
		return apperrors.ErrNotEnrolled
	default:
		return apperrors.InternalError(err)
	}
}

func (s *UserServiceImpl) ListCourses(userID string) ([]dto.CourseResponse, error) {
	courses, err := s.enrollmentRepo.ListCourses(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.ToCourseList(courses), nil
}

// validateUpload проверяет тип и размер загружаемого файла
func validateUpload(contentType string, size int64, cfg config.UploadConfig) error {
	if size > 0 && cfg.MaxSize > 0 && size > cfg.MaxSize {
		return apperrors.ErrInvalidFileType.WithDetails(
			fmt.Sprintf("file exceeds maximum size of %d bytes", cfg.MaxSize))
	}
	for _, t := range cfg.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return nil
		}
	}
	return apperrors.ErrInvalidFileType
}

func fileExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	return ext
}
