package services

import (
	"io"
	"strings"

	"college_backend/internal/apperrors"
	"college_backend/internal/pdf"
	"college_backend/internal/services/dto"
)

type PDFService interface {
	// ExtractCourse строит курс из структуры PDF и сохраняет его
	ExtractCourse(filename string, r io.ReaderAt, size int64) (*dto.ExtractCourseResponse, error)
	// Preview показывает, какой курс получился бы, без записи в базу
	Preview(filename string, r io.ReaderAt, size int64) (*dto.PreviewCourseResponse, error)
}

type PDFServiceImpl struct {
	courseService CourseService
}

func NewPDFService(courseService CourseService) PDFService {
	return &PDFServiceImpl{courseService: courseService}
}

func (s *PDFServiceImpl) ExtractCourse(filename string, r io.ReaderAt, size int64) (*dto.ExtractCourseResponse, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, apperrors.NewBadRequestError("file must be a PDF")
	}

	draft, err := s.parse(filename, r, size)
	if err != nil {
		return nil, err
	}

	course, err := s.courseService.Create(draftToCreateRequest(draft))
	if err != nil {
		return nil, err
	}

	lessons := 0
	for _, sec := range course.Sections {
		lessons += len(sec.Content)
	}

	return &dto.ExtractCourseResponse{
		Message:       "Курс успешно создан из PDF",
		CourseID:      course.ID,
		Title:         course.Title,
		SectionsCount: len(course.Sections),
		LessonsCount:  lessons,
	}, nil
}

func (s *PDFServiceImpl) Preview(filename string, r io.ReaderAt, size int64) (*dto.PreviewCourseResponse, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, apperrors.NewBadRequestError("file must be a PDF")
	}

	draft, err := s.parse(filename, r, size)
	if err != nil {
		return nil, err
	}

	resp := &dto.PreviewCourseResponse{Title: draft.Title}
	for _, sec := range draft.Sections {
		section := dto.SectionResponse{Name: sec.Name, Content: make([]dto.LessonResponse, 0, len(sec.Lessons))}
		for _, l := range sec.Lessons {
			section.Content = append(section.Content, dto.LessonResponse{
				Name:        l.Name,
				Passing:     "no",
				Description: l.Description,
			})
			resp.LessonsCount++
		}
		resp.Sections = append(resp.Sections, section)
	}
	resp.SectionsCount = len(resp.Sections)
	return resp, nil
}

func (s *PDFServiceImpl) parse(filename string, r io.ReaderAt, size int64) (*pdf.CourseDraft, error) {
	text, err := pdf.ExtractText(r, size)
	if err != nil {
		return nil, apperrors.NewPDFError(err)
	}
	return pdf.ParseCourse(text, filename), nil
}

func draftToCreateRequest(draft *pdf.CourseDraft) *dto.CourseCreateRequest {
	req := &dto.CourseCreateRequest{
		Title:          draft.Title,
		Subtitle:       draft.Subtitle,
		Type:           draft.Type,
		TimeToEndL:     draft.TimeToEndL,
		Color:          draft.Color,
		Icon:           draft.Icon,
		IconType:       draft.IconType,
		TitleForCourse: draft.TitleForCourse,
	}
	for _, sec := range draft.Sections {
		section := dto.SectionPayload{Name: sec.Name}
		for _, l := range sec.Lessons {
			section.Content = append(section.Content, dto.LessonPayload{
				Name:        l.Name,
				Passing:     "no",
				Description: l.Description,
			})
		}
		req.Sections = append(req.Sections, section)
	}
	return req
}
