package repositories

import (
	"errors"

	"college_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyEnrolled = errors.New("user already enrolled")
	ErrNotEnrolled     = errors.New("user not enrolled")
)

// EnrollmentRepository управляет связью m2m user_courses
type EnrollmentRepository interface {
	Enroll(userID, courseID string) error
	Unenroll(userID, courseID string) error
	IsEnrolled(userID, courseID string) (bool, error)
	ListCourses(userID string) ([]models.Course, error)
}

type EnrollmentRepositoryImpl struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &EnrollmentRepositoryImpl{db: db}
}

func (r *EnrollmentRepositoryImpl) Enroll(userID, courseID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		var course models.Course
		if err := tx.First(&course, "id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var count int64
		err := tx.Table("user_courses").
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyEnrolled
		}

		return tx.Model(&user).Association("Courses").Append(&course)
	})
}

func (r *EnrollmentRepositoryImpl) Unenroll(userID, courseID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var count int64
		err := tx.Table("user_courses").
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotEnrolled
		}

		return tx.Exec("DELETE FROM user_courses WHERE user_id = ? AND course_id = ?", userID, courseID).Error
	})
}

func (r *EnrollmentRepositoryImpl) IsEnrolled(userID, courseID string) (bool, error) {
	var count int64
	err := r.db.Table("user_courses").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepositoryImpl) ListCourses(userID string) ([]models.Course, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var courses []models.Course
	err := withTree(r.db).
		Joins("JOIN user_courses uc ON uc.course_id = courses.id").
		Where("uc.user_id = ?", userID).
		Order("courses.created_at ASC").
		Find(&courses).Error
	return courses, err
}
