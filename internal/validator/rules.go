package validator

import (
	"log"

	"college_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила фатальна для запуска приложения
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-passing-status': статус прохождения урока
	mustRegister("is-passing-status", validatePassingStatus)

	// 'is-user-role': роль пользователя
	mustRegister("is-user-role", validateUserRole)
}

// --- Функции валидации ---

func validatePassingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	return models.ValidPassing(value)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleStudent, models.UserRoleTeacher, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}
