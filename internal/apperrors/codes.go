package apperrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Валидация
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidPassing   ErrorCode = "INVALID_PASSING_STATUS"
	CodeInvalidFileType  ErrorCode = "INVALID_FILE_TYPE"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"

	// Ресурсы
	CodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	CodeCourseNotFound  ErrorCode = "COURSE_NOT_FOUND"
	CodeSectionNotFound ErrorCode = "SECTION_NOT_FOUND"
	CodeLessonNotFound  ErrorCode = "LESSON_NOT_FOUND"

	// Бизнес-логика
	CodeLoginAlreadyExists      ErrorCode = "LOGIN_ALREADY_EXISTS"
	CodeEmailAlreadyExists      ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeInvalidVerificationCode ErrorCode = "INVALID_VERIFICATION_CODE"
	CodeAlreadyEnrolled         ErrorCode = "ALREADY_ENROLLED"
	CodeNotEnrolled             ErrorCode = "NOT_ENROLLED"

	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodePDFError      ErrorCode = "PDF_PROCESSING_ERROR"
)
