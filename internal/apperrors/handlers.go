package apperrors

import (
	"college_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError - обработка ошибок для Gin контекста
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "Server error", err)
	}
	c.JSON(err.HTTPCode, ErrorResponse{Error: err})
}

// HandleValidationError - специальный обработчик для ошибок валидации
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, ErrValidationFailed.WithDetails(gin.H{"details": err.Error()}))
}
