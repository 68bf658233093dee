package handlers

import (
	"net/http"

	"college_backend/internal/apperrors"
	"college_backend/internal/services"
	"college_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	*BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(base *BaseHandler, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   base,
		courseService: courseService,
	}
}

// RegisterRoutes регистрирует маршруты каталога курсов.
// Уроки внутри секции исторически называются content
func (h *CourseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.GET("", h.List)
		courses.POST("", h.Create)
		courses.GET("/:course_id", h.Get)
		courses.PUT("/:course_id", h.Update)
		courses.DELETE("/:course_id", h.Delete)

		courses.POST("/:course_id/sections", h.CreateSection)
		courses.PUT("/:course_id/sections/:section_id", h.UpdateSection)
		courses.DELETE("/:course_id/sections/:section_id", h.DeleteSection)

		courses.POST("/:course_id/sections/:section_id/content", h.CreateLesson)
		courses.PUT("/:course_id/sections/:section_id/content/:lesson_id", h.UpdateLesson)
		courses.DELETE("/:course_id/sections/:section_id/content/:lesson_id", h.DeleteLesson)
		courses.PUT("/:course_id/sections/:section_id/content/:lesson_id/description", h.UpdateLessonDescriptionInSection)

		courses.PATCH("/:course_id/lessons/:lesson_id/passing", h.SetLessonPassing)
		courses.PATCH("/:course_id/lessons/:lesson_id/description", h.SetLessonDescription)

		courses.POST("/:course_id/upload-image", h.UploadImage)
		courses.POST("/:course_id/upload-with-data", h.UploadWithData)
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	skip := ParseQueryInt(c, "skip", 0)
	limit := ParseQueryInt(c, "limit", 100)

	courses, err := h.courseService.List(skip, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courseService.Get(c.Param("course_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CourseCreateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.CourseUpdateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.Update(c.Param("course_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseService.Delete(c.Request.Context(), c.Param("course_id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detail": "Курс с ID " + c.Param("course_id") + " успешно удален",
	})
}

func (h *CourseHandler) CreateSection(c *gin.Context) {
	var req dto.SectionCreateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	section, err := h.courseService.CreateSection(c.Param("course_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

func (h *CourseHandler) UpdateSection(c *gin.Context) {
	var req dto.SectionCreateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	section, err := h.courseService.UpdateSection(c.Param("course_id"), c.Param("section_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}

func (h *CourseHandler) DeleteSection(c *gin.Context) {
	if err := h.courseService.DeleteSection(c.Param("course_id"), c.Param("section_id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detail": "Раздел с ID " + c.Param("section_id") + " успешно удален",
	})
}

func (h *CourseHandler) CreateLesson(c *gin.Context) {
	var req dto.LessonCreateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	lesson, err := h.courseService.CreateLesson(c.Param("course_id"), c.Param("section_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

func (h *CourseHandler) UpdateLesson(c *gin.Context) {
	var req dto.LessonCreateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	lesson, err := h.courseService.UpdateLesson(
		c.Param("course_id"), c.Param("section_id"), c.Param("lesson_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	err := h.courseService.DeleteLesson(
		c.Param("course_id"), c.Param("section_id"), c.Param("lesson_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detail": "Урок с ID " + c.Param("lesson_id") + " успешно удален",
	})
}

func (h *CourseHandler) UpdateLessonDescriptionInSection(c *gin.Context) {
	var req dto.LessonDescriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	lesson, err := h.courseService.UpdateLessonDescriptionInSection(
		c.Param("course_id"), c.Param("section_id"), c.Param("lesson_id"), req.Description)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// SetLessonPassing принимает статус query-параметром:
// PATCH /courses/:course_id/lessons/:lesson_id/passing?passing=yes
func (h *CourseHandler) SetLessonPassing(c *gin.Context) {
	passing := c.Query("passing")
	if passing == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("query parameter 'passing' is required"))
		return
	}

	lesson, err := h.courseService.SetLessonPassing(c.Param("course_id"), c.Param("lesson_id"), passing)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func (h *CourseHandler) SetLessonDescription(c *gin.Context) {
	var req dto.LessonDescriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	lesson, err := h.courseService.SetLessonDescription(
		c.Param("course_id"), c.Param("lesson_id"), req.Description)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func (h *CourseHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	resp, err := h.courseService.UploadImage(
		c.Request.Context(),
		c.Param("course_id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CourseHandler) UploadWithData(c *gin.Context) {
	courseData := c.PostForm("course_data")
	if courseData == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("form field 'course_data' is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	course, err := h.courseService.UploadWithData(
		c.Request.Context(),
		c.Param("course_id"),
		courseData,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}
