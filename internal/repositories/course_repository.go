package repositories

import (
	"errors"

	"college_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrLessonNotFound  = errors.New("lesson not found")
)

type CourseRepository interface {
	FindAll(limit, offset int) ([]models.Course, error)
	FindByID(id string) (*models.Course, error)
	Create(course *models.Course) error
	// Replace перезаписывает скалярные поля и ПОЛНОСТЬЮ заменяет
	// дочернее дерево (info, sections, lessons) в одной транзакции
	Replace(course *models.Course) error
	Delete(id string) error
	UpdateIcon(courseID, icon, iconType string) error

	FindSection(courseID, sectionID string) (*models.Section, error)
	CreateSection(section *models.Section) error
	UpdateSection(section *models.Section) error
	DeleteSection(courseID, sectionID string) error

	FindLesson(courseID, sectionID, lessonID string) (*models.Lesson, error)
	CreateLesson(courseID string, lesson *models.Lesson) error
	UpdateLesson(courseID string, lesson *models.Lesson) error
	DeleteLesson(courseID, sectionID, lessonID string) error

	UpdateLessonPassing(lessonID string, passing models.PassingStatus) error
	UpdateLessonDescription(lessonID, description string) error
}

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

// withTree добавляет preload всего дочернего дерева курса
func withTree(db *gorm.DB) *gorm.DB {
	return db.Preload("Info").Preload("Sections.Lessons")
}

func (r *CourseRepositoryImpl) FindAll(limit, offset int) ([]models.Course, error) {
	var courses []models.Course
	err := withTree(r.db).Order("created_at ASC").Limit(limit).Offset(offset).Find(&courses).Error
	return courses, err
}

func (r *CourseRepositoryImpl) FindByID(id string) (*models.Course, error) {
	var course models.Course
	err := withTree(r.db).First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) Create(course *models.Course) error {
	// Вложенные Info/Sections/Lessons создаются вместе с курсом,
	// FK проставляет gorm
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(course).Error
	})
}

func (r *CourseRepositoryImpl) Replace(course *models.Course) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Course
		if err := tx.First(&existing, "id = ?", course.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"title":            course.Title,
			"subtitle":         course.Subtitle,
			"type":             course.Type,
			"timetoendl":       course.TimeToEndL,
			"color":            course.Color,
			"icon":             course.Icon,
			"icontype":         course.IconType,
			"title_for_course": course.TitleForCourse,
		}
		if err := tx.Model(&models.Course{}).Where("id = ?", course.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := deleteCourseTree(tx, course.ID); err != nil {
			return err
		}

		for i := range course.Info {
			course.Info[i].CourseID = course.ID
		}
		if len(course.Info) > 0 {
			if err := tx.Create(&course.Info).Error; err != nil {
				return err
			}
		}

		for i := range course.Sections {
			course.Sections[i].CourseID = course.ID
		}
		if len(course.Sections) > 0 {
			if err := tx.Create(&course.Sections).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteCourseTree(tx, id); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_courses WHERE course_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Course{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

// deleteCourseTree удаляет всех потомков курса: уроки, секции, info.
// Каскад выполняется явно, чтобы не зависеть от поддержки FK в драйвере
func deleteCourseTree(tx *gorm.DB, courseID string) error {
	sectionIDs := tx.Model(&models.Section{}).Select("id").Where("course_id = ?", courseID)
	if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&models.Lesson{}).Error; err != nil {
		return err
	}
	if err := tx.Where("course_id = ?", courseID).Delete(&models.Section{}).Error; err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&models.CourseInfo{}).Error
}

func (r *CourseRepositoryImpl) UpdateIcon(courseID, icon, iconType string) error {
	result := r.db.Model(&models.Course{}).Where("id = ?", courseID).Updates(map[string]interface{}{
		"icon":     icon,
		"icontype": iconType,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) FindSection(courseID, sectionID string) (*models.Section, error) {
	var section models.Section
	err := r.db.Preload("Lessons").
		Where("id = ? AND course_id = ?", sectionID, courseID).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

func (r *CourseRepositoryImpl) CreateSection(section *models.Section) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, "id = ?", section.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
		return tx.Create(section).Error
	})
}

func (r *CourseRepositoryImpl) UpdateSection(section *models.Section) error {
	result := r.db.Model(&models.Section{}).
		Where("id = ? AND course_id = ?", section.ID, section.CourseID).
		Update("name", section.Name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSectionNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) DeleteSection(courseID, sectionID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		err := tx.Where("id = ? AND course_id = ?", sectionID, courseID).First(&section).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSectionNotFound
			}
			return err
		}
		if err := tx.Where("section_id = ?", sectionID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&section).Error
	})
}

func (r *CourseRepositoryImpl) FindLesson(courseID, sectionID, lessonID string) (*models.Lesson, error) {
	if _, err := r.FindSection(courseID, sectionID); err != nil {
		return nil, err
	}
	var lesson models.Lesson
	err := r.db.Where("id = ? AND section_id = ?", lessonID, sectionID).First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepositoryImpl) CreateLesson(courseID string, lesson *models.Lesson) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		err := tx.Where("id = ? AND course_id = ?", lesson.SectionID, courseID).First(&section).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSectionNotFound
			}
			return err
		}
		return tx.Create(lesson).Error
	})
}

func (r *CourseRepositoryImpl) UpdateLesson(courseID string, lesson *models.Lesson) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		err := tx.Where("id = ? AND course_id = ?", lesson.SectionID, courseID).First(&section).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSectionNotFound
			}
			return err
		}
		result := tx.Model(&models.Lesson{}).
			Where("id = ? AND section_id = ?", lesson.ID, lesson.SectionID).
			Updates(map[string]interface{}{
				"name":        lesson.Name,
				"passing":     lesson.Passing,
				"description": lesson.Description,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLessonNotFound
		}
		return nil
	})
}

func (r *CourseRepositoryImpl) DeleteLesson(courseID, sectionID, lessonID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		err := tx.Where("id = ? AND course_id = ?", sectionID, courseID).First(&section).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSectionNotFound
			}
			return err
		}
		result := tx.Where("id = ? AND section_id = ?", lessonID, sectionID).Delete(&models.Lesson{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLessonNotFound
		}
		return nil
	})
}

func (r *CourseRepositoryImpl) UpdateLessonPassing(lessonID string, passing models.PassingStatus) error {
	result := r.db.Model(&models.Lesson{}).Where("id = ?", lessonID).Update("passing", passing)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) UpdateLessonDescription(lessonID, description string) error {
	result := r.db.Model(&models.Lesson{}).Where("id = ?", lessonID).Update("description", description)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLessonNotFound
	}
	return nil
}
