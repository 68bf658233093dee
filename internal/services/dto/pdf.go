package dto

// ExtractCourseResponse - итог импорта курса из PDF
type ExtractCourseResponse struct {
	Message       string `json:"message"`
	CourseID      string `json:"course_id"`
	Title         string `json:"title"`
	SectionsCount int    `json:"sections_count"`
	LessonsCount  int    `json:"lessons_count"`
}

// PreviewCourseResponse - структура, которую дал бы импорт,
// без записи в базу
type PreviewCourseResponse struct {
	Title         string            `json:"title"`
	SectionsCount int               `json:"sections_count"`
	LessonsCount  int               `json:"lessons_count"`
	Sections      []SectionResponse `json:"sections"`
}
