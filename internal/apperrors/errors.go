package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// AppError - основная структура ошибки приложения
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Конструктор
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// С цепочкой ошибок
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	copied := *e
	copied.Details = details
	return &copied
}

// Для маршалинга в JSON
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Предопределенные ошибки
var (
	// Аутентификация
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid login or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
	ErrWeakPassword       = New(CodeWeakPassword, "Password must be at least 6 characters", http.StatusBadRequest)

	// Пользователи
	ErrUserNotFound            = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrLoginAlreadyExists      = New(CodeLoginAlreadyExists, "Login already exists", http.StatusConflict)
	ErrEmailAlreadyExists      = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	ErrInvalidVerificationCode = New(CodeInvalidVerificationCode, "Invalid or expired verification code", http.StatusBadRequest)

	// Курсы
	ErrCourseNotFound  = New(CodeCourseNotFound, "Course not found", http.StatusNotFound)
	ErrSectionNotFound = New(CodeSectionNotFound, "Section not found", http.StatusNotFound)
	ErrLessonNotFound  = New(CodeLessonNotFound, "Lesson not found", http.StatusNotFound)
	ErrInvalidPassing  = New(CodeInvalidPassing, "Passing status must be 'yes' or 'no'", http.StatusBadRequest)

	// Записи на курсы
	ErrAlreadyEnrolled = New(CodeAlreadyEnrolled, "User is already enrolled in this course", http.StatusConflict)
	ErrNotEnrolled     = New(CodeNotEnrolled, "User is not enrolled in this course", http.StatusNotFound)

	// Файлы
	ErrInvalidFileType = New(CodeInvalidFileType, "File must be an image", http.StatusBadRequest)

	// Валидация
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
)

// Функции-помощники для создания ошибок с деталями
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewNotFoundError(message string) *AppError {
	return New(CodeUserNotFound, message, http.StatusNotFound)
}

func NewPDFError(err error) *AppError {
	return Wrap(err, CodePDFError, "Failed to process PDF file", http.StatusBadRequest)
}
