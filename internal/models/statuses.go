package models

type UserRole string
type PassingStatus string

const (
	UserRoleStudent UserRole = "student"
	UserRoleTeacher UserRole = "teacher"
	UserRoleAdmin   UserRole = "admin"

	// Статус прохождения урока хранится строкой, не bool
	PassingYes PassingStatus = "yes"
	PassingNo  PassingStatus = "no"
)

// ValidPassing проверяет, что статус входит в двузначное перечисление
func ValidPassing(s string) bool {
	switch PassingStatus(s) {
	case PassingYes, PassingNo:
		return true
	default:
		return false
	}
}
