package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"college_backend/internal/apperrors"
	"college_backend/internal/config"
	"college_backend/internal/logger"
	"college_backend/internal/models"
	"college_backend/internal/repositories"
	"college_backend/internal/services/dto"
	"college_backend/internal/storage"

	"github.com/google/uuid"
)

type CourseService interface {
	List(skip, limit int) ([]dto.CourseResponse, error)
	Get(id string) (*dto.CourseResponse, error)
	Create(req *dto.CourseCreateRequest) (*dto.CourseResponse, error)
	// Update перезаписывает скалярные поля курса; присланные info/sections
	// полностью заменяют существующее дерево
	Update(id string, req *dto.CourseUpdateRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error

	CreateSection(courseID string, req *dto.SectionCreateRequest) (*dto.SectionResponse, error)
	UpdateSection(courseID, sectionID string, req *dto.SectionCreateRequest) (*dto.SectionResponse, error)
	DeleteSection(courseID, sectionID string) error

	CreateLesson(courseID, sectionID string, req *dto.LessonCreateRequest) (*dto.LessonResponse, error)
	UpdateLesson(courseID, sectionID, lessonID string, req *dto.LessonCreateRequest) (*dto.LessonResponse, error)
	DeleteLesson(courseID, sectionID, lessonID string) error
	UpdateLessonDescriptionInSection(courseID, sectionID, lessonID, description string) (*dto.LessonResponse, error)

	// SetLessonPassing меняет статус прохождения урока.
	// Курс проверяется на существование, урок ищется по своему ID
	SetLessonPassing(courseID, lessonID, passing string) (*dto.LessonResponse, error)
	SetLessonDescription(courseID, lessonID, description string) (*dto.LessonResponse, error)

	UploadImage(ctx context.Context, courseID, filename, contentType string, r io.Reader, size int64) (*dto.UploadResponse, error)
	// UploadWithData сохраняет картинку и применяет присланный вместе
	// с ней JSON курса, подставляя путь картинки в icon
	UploadWithData(ctx context.Context, courseID, courseData, filename, contentType string, r io.Reader, size int64) (*dto.CourseResponse, error)
}

type CourseServiceImpl struct {
	courseRepo repositories.CourseRepository
	store      storage.Storage
	uploadCfg  config.UploadConfig
}

func NewCourseService(
	courseRepo repositories.CourseRepository,
	store storage.Storage,
	uploadCfg config.UploadConfig,
) CourseService {
	return &CourseServiceImpl{
		courseRepo: courseRepo,
		store:      store,
		uploadCfg:  uploadCfg,
	}
}

func (s *CourseServiceImpl) List(skip, limit int) ([]dto.CourseResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	courses, err := s.courseRepo.FindAll(limit, skip)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToCourseList(courses), nil
}

func (s *CourseServiceImpl) Get(id string) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToCourseResponse(course)
	return &resp, nil
}

func (s *CourseServiceImpl) Create(req *dto.CourseCreateRequest) (*dto.CourseResponse, error) {
	course, err := buildCourseModel(req)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(course); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Перечитываем дерево, чтобы вернуть сгенерированные ID
	return s.Get(course.ID)
}

func (s *CourseServiceImpl) Update(id string, req *dto.CourseUpdateRequest) (*dto.CourseResponse, error) {
	existing, err := s.courseRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	course := &models.Course{
		Title:          req.Title,
		Subtitle:       req.Subtitle,
		Type:           req.Type,
		TimeToEndL:     req.TimeToEndL,
		Color:          req.Color,
		Icon:           req.Icon,
		IconType:       req.IconType,
		TitleForCourse: req.TitleForCourse,
	}
	course.ID = id

	// nil означает "дерево не трогать": переносим текущих потомков
	// в заменяющий набор
	if req.Info != nil {
		course.Info = buildInfoModels(*req.Info)
	} else {
		course.Info = copyInfo(existing.Info)
	}

	if req.Sections != nil {
		sections, err := buildSectionModels(*req.Sections)
		if err != nil {
			return nil, err
		}
		course.Sections = sections
	} else {
		course.Sections = copySections(existing.Sections)
	}

	if err := s.courseRepo.Replace(course); err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	return s.Get(id)
}

func (s *CourseServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.courseRepo.Delete(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return apperrors.InternalError(err)
	}

	// Картинки курса лежат под общим префиксом
	if err := s.store.DeletePrefix(ctx, fmt.Sprintf("courseimg/%s", id)); err != nil {
		logger.WithError(err).Warn("Не удалось удалить картинки курса", "course_id", id)
	}
	return nil
}

func (s *CourseServiceImpl) CreateSection(courseID string, req *dto.SectionCreateRequest) (*dto.SectionResponse, error) {
	lessons, err := buildLessonModels(req.Content)
	if err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID: courseID,
		Name:     req.Name,
		Lessons:  lessons,
	}
	section.ID = req.ID

	if err := s.courseRepo.CreateSection(section); err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	created, err := s.courseRepo.FindSection(courseID, section.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToSectionResponse(created)
	return &resp, nil
}

func (s *CourseServiceImpl) UpdateSection(courseID, sectionID string, req *dto.SectionCreateRequest) (*dto.SectionResponse, error) {
	section := &models.Section{
		CourseID: courseID,
		Name:     req.Name,
	}
	section.ID = sectionID

	if err := s.courseRepo.UpdateSection(section); err != nil {
		if apperrors.Is(err, repositories.ErrSectionNotFound) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.courseRepo.FindSection(courseID, sectionID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToSectionResponse(updated)
	return &resp, nil
}

func (s *CourseServiceImpl) DeleteSection(courseID, sectionID string) error {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return apperrors.InternalError(err)
	}

	err := s.courseRepo.DeleteSection(courseID, sectionID)
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, repositories.ErrSectionNotFound):
		return apperrors.ErrSectionNotFound
	default:
		return apperrors.InternalError(err)
	}
}

func (s *CourseServiceImpl) CreateLesson(courseID, sectionID string, req *dto.LessonCreateRequest) (*dto.LessonResponse, error) {
	passing, err := normalizePassing(req.Passing)
	if err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		SectionID:   sectionID,
		Name:        req.Name,
		Passing:     passing,
		Description: req.Description,
	}
	lesson.ID = req.ID

	if err := s.courseRepo.CreateLesson(courseID, lesson); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrCourseNotFound):
			return nil, apperrors.ErrCourseNotFound
		case apperrors.Is(err, repositories.ErrSectionNotFound):
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToLessonResponse(lesson)
	return &resp, nil
}

func (s *CourseServiceImpl) UpdateLesson(courseID, sectionID, lessonID string, req *dto.LessonCreateRequest) (*dto.LessonResponse, error) {
	passing, err := normalizePassing(req.Passing)
	if err != nil {
		return nil, err
	}

	current, err := s.courseRepo.FindLesson(courseID, sectionID, lessonID)
	if err != nil {
		return nil, mapTreeError(err)
	}

	lesson := &models.Lesson{
		SectionID:   sectionID,
		Name:        req.Name,
		Passing:     passing,
		Description: current.Description,
	}
	lesson.ID = lessonID
	if req.Description != "" {
		lesson.Description = req.Description
	}

	if err := s.courseRepo.UpdateLesson(courseID, lesson); err != nil {
		return nil, mapTreeError(err)
	}

	resp := dto.ToLessonResponse(lesson)
	return &resp, nil
}

func (s *CourseServiceImpl) DeleteLesson(courseID, sectionID, lessonID string) error {
	if err := s.courseRepo.DeleteLesson(courseID, sectionID, lessonID); err != nil {
		return mapTreeError(err)
	}
	return nil
}

func (s *CourseServiceImpl) UpdateLessonDescriptionInSection(courseID, sectionID, lessonID, description string) (*dto.LessonResponse, error) {
	lesson, err := s.courseRepo.FindLesson(courseID, sectionID, lessonID)
	if err != nil {
		return nil, mapTreeError(err)
	}

	if err := s.courseRepo.UpdateLessonDescription(lessonID, description); err != nil {
		return nil, mapTreeError(err)
	}

	lesson.Description = description
	resp := dto.ToLessonResponse(lesson)
	return &resp, nil
}

func (s *CourseServiceImpl) SetLessonPassing(courseID, lessonID, passing string) (*dto.LessonResponse, error) {
	if !models.ValidPassing(passing) {
		return nil, apperrors.ErrInvalidPassing
	}

	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		return nil, mapTreeError(err)
	}

	if err := s.courseRepo.UpdateLessonPassing(lessonID, models.PassingStatus(passing)); err != nil {
		return nil, mapTreeError(err)
	}

	return &dto.LessonResponse{ID: lessonID, Passing: passing}, nil
}

func (s *CourseServiceImpl) SetLessonDescription(courseID, lessonID, description string) (*dto.LessonResponse, error) {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		return nil, mapTreeError(err)
	}

	if err := s.courseRepo.UpdateLessonDescription(lessonID, description); err != nil {
		return nil, mapTreeError(err)
	}

	return &dto.LessonResponse{ID: lessonID, Description: description}, nil
}

func (s *CourseServiceImpl) UploadImage(ctx context.Context, courseID, filename, contentType string, r io.Reader, size int64) (*dto.UploadResponse, error) {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		return nil, mapTreeError(err)
	}

	if err := validateUpload(contentType, size, s.uploadCfg); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("courseimg/%s/%s%s", courseID, uuid.NewString(), fileExt(filename))
	if err := s.store.Save(ctx, path, r, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.courseRepo.UpdateIcon(courseID, path, "image"); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UploadResponse{
		Filename: filepath.Base(path),
		Path:     s.store.GetURL(path),
	}, nil
}

func (s *CourseServiceImpl) UploadWithData(ctx context.Context, courseID, courseData, filename, contentType string, r io.Reader, size int64) (*dto.CourseResponse, error) {
	var req dto.CourseUpdateRequest
	if err := json.Unmarshal([]byte(courseData), &req); err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid course data: %v", err))
	}

	upload, err := s.UploadImage(ctx, courseID, filename, contentType, r, size)
	if err != nil {
		return nil, err
	}

	req.Icon = upload.Path
	return s.Update(courseID, &req)
}

// --- Преобразование запросов в модели ---

func buildCourseModel(req *dto.CourseCreateRequest) (*models.Course, error) {
	sections, err := buildSectionModels(req.Sections)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:          req.Title,
		Subtitle:       req.Subtitle,
		Type:           req.Type,
		TimeToEndL:     req.TimeToEndL,
		Color:          req.Color,
		Icon:           req.Icon,
		IconType:       req.IconType,
		TitleForCourse: req.TitleForCourse,
		Info:           buildInfoModels(req.Info),
		Sections:       sections,
	}
	course.ID = req.ID
	return course, nil
}

func buildInfoModels(payload []dto.CourseInfoPayload) []models.CourseInfo {
	out := make([]models.CourseInfo, 0, len(payload))
	for _, p := range payload {
		info := models.CourseInfo{Title: p.Title, Subtitle: p.Subtitle}
		info.ID = p.ID
		out = append(out, info)
	}
	return out
}

func buildSectionModels(payload []dto.SectionPayload) ([]models.Section, error) {
	out := make([]models.Section, 0, len(payload))
	for _, p := range payload {
		lessons, err := buildLessonModels(p.Content)
		if err != nil {
			return nil, err
		}
		section := models.Section{Name: p.Name, Lessons: lessons}
		section.ID = p.ID
		out = append(out, section)
	}
	return out, nil
}

func buildLessonModels(payload []dto.LessonPayload) ([]models.Lesson, error) {
	out := make([]models.Lesson, 0, len(payload))
	for _, p := range payload {
		passing, err := normalizePassing(p.Passing)
		if err != nil {
			return nil, err
		}
		lesson := models.Lesson{Name: p.Name, Passing: passing, Description: p.Description}
		lesson.ID = p.ID
		out = append(out, lesson)
	}
	return out, nil
}

// copyInfo копирует потомков без FK и таймстемпов: при замене дерева
// строки пересоздаются с прежними ID
func copyInfo(info []models.CourseInfo) []models.CourseInfo {
	out := make([]models.CourseInfo, len(info))
	for i, item := range info {
		out[i] = models.CourseInfo{Title: item.Title, Subtitle: item.Subtitle}
		out[i].ID = item.ID
	}
	return out
}

func copySections(sections []models.Section) []models.Section {
	out := make([]models.Section, len(sections))
	for i, sec := range sections {
		copied := models.Section{Name: sec.Name}
		copied.ID = sec.ID
		for _, l := range sec.Lessons {
			lesson := models.Lesson{Name: l.Name, Passing: l.Passing, Description: l.Description}
			lesson.ID = l.ID
			copied.Lessons = append(copied.Lessons, lesson)
		}
		out[i] = copied
	}
	return out
}

func normalizePassing(passing string) (models.PassingStatus, error) {
	if passing == "" {
		return models.PassingNo, nil
	}
	if !models.ValidPassing(passing) {
		return "", apperrors.ErrInvalidPassing
	}
	return models.PassingStatus(passing), nil
}

// mapTreeError переводит ошибки репозитория дерева курса в ошибки API
func mapTreeError(err error) error {
	switch {
	case apperrors.Is(err, repositories.ErrCourseNotFound):
		return apperrors.ErrCourseNotFound
	case apperrors.Is(err, repositories.ErrSectionNotFound):
		return apperrors.ErrSectionNotFound
	case apperrors.Is(err, repositories.ErrLessonNotFound):
		return apperrors.ErrLessonNotFound
	default:
		return apperrors.InternalError(err)
	}
}
