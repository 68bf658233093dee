package handlers

import (
	"net/http"

	"college_backend/internal/apperrors"
	"college_backend/internal/services"
	"college_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes регистрирует маршруты пользователей.
// Мутации требуют аутентификации, чтение открыто
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/:user_id", h.Get)
		users.PUT("/:user_id", authMW, h.Update)
		users.DELETE("/:user_id", authMW, h.Delete)
		users.POST("/:user_id/avatar", authMW, h.UploadAvatar)

		users.GET("/:user_id/courses", h.ListCourses)
		users.POST("/:user_id/courses", authMW, h.Enroll)
		users.DELETE("/:user_id/courses/:course_id", authMW, h.Unenroll)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 100)
	offset := ParseQueryInt(c, "skip", 0)

	users, err := h.userService.GetAll(limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Param("user_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	if !h.authorizeSelf(c) {
		return
	}

	var req dto.UserUpdateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Param("user_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if !h.authorizeSelf(c) {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), c.Param("user_id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if !h.authorizeSelf(c) {
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

	resp, err := h.userService.UploadAvatar(
		c.Request.Context(),
		c.Param("user_id"),
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

func (h *UserHandler) ListCourses(c *gin.Context) {
	courses, err := h.userService.ListCourses(c.Param("user_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *UserHandler) Enroll(c *gin.Context) {
	if !h.authorizeSelf(c) {
		return
	}

	var req dto.EnrollRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.Enroll(c.Param("user_id"), req.CourseID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":   c.Param("user_id"),
		"course_id": req.CourseID,
	})
}

func (h *UserHandler) Unenroll(c *gin.Context) {
	if !h.authorizeSelf(c) {
		return
	}

	if err := h.userService.Unenroll(c.Param("user_id"), c.Param("course_id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// authorizeSelf пускает только владельца профиля или администратора
func (h *UserHandler) authorizeSelf(c *gin.Context) bool {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return false
	}

	if userID == c.Param("user_id") {
		return true
	}

	if role, exists := c.Get("role"); exists && role == "admin" {
		return true
	}

	apperrors.HandleError(c, apperrors.ErrForbidden)
	return false
}
