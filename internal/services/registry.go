package services

import (
	"college_backend/internal/email"
	"college_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService   AuthService
	UserService   UserService
	CourseService CourseService
	PDFService    PDFService
	EmailProvider email.Provider
	Storage       storage.Storage
}
