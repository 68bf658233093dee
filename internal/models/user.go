package models

import "time"

type User struct {
	BaseModel
	Login        string   `gorm:"uniqueIndex;not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Name         string
	Img          string   // путь к аватару, пустая строка если не загружен
	Role         UserRole `gorm:"type:varchar(20);default:'student'"`

	// Relations
	Courses []Course `gorm:"many2many:user_courses"`
}

// VerificationCode - временная запись кода подтверждения email.
// Живет до подтверждения или до истечения TTL.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;not null"`
	Code      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
