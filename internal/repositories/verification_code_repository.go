package repositories

import (
	"errors"
	"time"

	"college_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCodeNotFound = errors.New("verification code not found")

type VerificationCodeRepository interface {
	// Create сохраняет новый код, вытесняя предыдущие коды этого email
	Create(email, code string) error
	// FindValid возвращает код, если он совпадает и не старше ttl
	FindValid(email, code string, ttl time.Duration) (*models.VerificationCode, error)
	DeleteByEmail(email string) error
}

type VerificationCodeRepositoryImpl struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &VerificationCodeRepositoryImpl{db: db}
}

func (r *VerificationCodeRepositoryImpl) Create(email, code string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.VerificationCode{Email: email, Code: code}).Error
	})
}

func (r *VerificationCodeRepositoryImpl) FindValid(email, code string, ttl time.Duration) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	cutoff := time.Now().Add(-ttl)
	err := r.db.Where("email = ? AND code = ? AND created_at >= ?", email, code, cutoff).
		Order("created_at DESC").First(&vc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &vc, nil
}

func (r *VerificationCodeRepositoryImpl) DeleteByEmail(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.VerificationCode{}).Error
}
