package dto

import "college_backend/internal/models"

// Имена json-полей исторические, их ждут существующие клиенты:
// timetoendL, icontype, titleForCourse, content внутри секций.

// LessonPayload - урок в запросах создания/обновления
type LessonPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Passing     string `json:"passing" validate:"omitempty,is-passing-status"`
	Description string `json:"description"`
}

// SectionPayload - секция с уроками
type SectionPayload struct {
	ID      string          `json:"id"`
	Name    string          `json:"name" binding:"required"`
	Content []LessonPayload `json:"content"`
}

// CourseInfoPayload - информационный блок курса
type CourseInfoPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title" binding:"required"`
	Subtitle string `json:"subtitle"`
}

// CourseCreateRequest - создание курса вместе со всем деревом
type CourseCreateRequest struct {
	ID             string              `json:"id"`
	Title          string              `json:"title" binding:"required"`
	Subtitle       string              `json:"subtitle" binding:"required"`
	Type           string              `json:"type" binding:"required"`
	TimeToEndL     string              `json:"timetoendL" binding:"required"`
	Color          string              `json:"color" binding:"required"`
	Icon           string              `json:"icon"`
	IconType       string              `json:"icontype"`
	TitleForCourse string              `json:"titleForCourse" binding:"required"`
	Info           []CourseInfoPayload `json:"info"`
	Sections       []SectionPayload    `json:"sections"`
}

// CourseUpdateRequest - обновление курса. Скалярные поля перезаписываются,
// присланные info/sections ПОЛНОСТЬЮ заменяют существующее дерево.
// nil означает "дерево не трогать"
type CourseUpdateRequest struct {
	Title          string               `json:"title" binding:"required"`
	Subtitle       string               `json:"subtitle" binding:"required"`
	Type           string               `json:"type" binding:"required"`
	TimeToEndL     string               `json:"timetoendL" binding:"required"`
	Color          string               `json:"color" binding:"required"`
	Icon           string               `json:"icon"`
	IconType       string               `json:"icontype"`
	TitleForCourse string               `json:"titleForCourse" binding:"required"`
	Info           *[]CourseInfoPayload `json:"info"`
	Sections       *[]SectionPayload    `json:"sections"`
}

// SectionCreateRequest - создание/обновление секции
type SectionCreateRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name" binding:"required"`
	Content []LessonPayload `json:"content"`
}

// LessonCreateRequest - создание/обновление урока
type LessonCreateRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Passing     string `json:"passing" validate:"omitempty,is-passing-status"`
	Description string `json:"description"`
}

// LessonDescriptionRequest - обновление описания урока
type LessonDescriptionRequest struct {
	Description string `json:"description" binding:"required"`
}

// --- Ответы ---

type LessonResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Passing     string `json:"passing"`
	Description string `json:"description"`
}

type SectionResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Content []LessonResponse `json:"content"`
}

type CourseInfoResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type CourseResponse struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Subtitle       string               `json:"subtitle"`
	Type           string               `json:"type"`
	TimeToEndL     string               `json:"timetoendL"`
	Color          string               `json:"color"`
	Icon           string               `json:"icon"`
	IconType       string               `json:"icontype"`
	TitleForCourse string               `json:"titleForCourse"`
	Info           []CourseInfoResponse `json:"info"`
	Sections       []SectionResponse    `json:"sections"`
}

// ToLessonResponse преобразует модель урока в ответ
func ToLessonResponse(l *models.Lesson) LessonResponse {
	return LessonResponse{
		ID:          l.ID,
		Name:        l.Name,
		Passing:     string(l.Passing),
		Description: l.Description,
	}
}

// ToSectionResponse преобразует модель секции в ответ
func ToSectionResponse(s *models.Section) SectionResponse {
	resp := SectionResponse{
		ID:      s.ID,
		Name:    s.Name,
		Content: make([]LessonResponse, 0, len(s.Lessons)),
	}
	for i := range s.Lessons {
		resp.Content = append(resp.Content, ToLessonResponse(&s.Lessons[i]))
	}
	return resp
}

// ToCourseResponse преобразует модель курса со всем деревом в ответ
func ToCourseResponse(c *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:             c.ID,
		Title:          c.Title,
		Subtitle:       c.Subtitle,
		Type:           c.Type,
		TimeToEndL:     c.TimeToEndL,
		Color:          c.Color,
		Icon:           c.Icon,
		IconType:       c.IconType,
		TitleForCourse: c.TitleForCourse,
		Info:           make([]CourseInfoResponse, 0, len(c.Info)),
		Sections:       make([]SectionResponse, 0, len(c.Sections)),
	}
	for i := range c.Info {
		resp.Info = append(resp.Info, CourseInfoResponse{
			ID:       c.Info[i].ID,
			Title:    c.Info[i].Title,
			Subtitle: c.Info[i].Subtitle,
		})
	}
	for i := range c.Sections {
		resp.Sections = append(resp.Sections, ToSectionResponse(&c.Sections[i]))
	}
	return resp
}

// ToCourseList преобразует срез моделей в ответы
func ToCourseList(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, ToCourseResponse(&courses[i]))
	}
	return out
}
