package handlers

import (
	"net/http"

	"college_backend/internal/services"
	"college_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации.
// authMW защищает маршруты, требующие валидного токена
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		// /token - исторический путь, /login - его синоним
		auth.POST("/token", h.Login)
		auth.POST("/login", h.Login)
		auth.GET("/me", authMW, h.Me)
	}
}

// RegisterVerificationRoutes вешает маршруты кодов подтверждения
// на корень: клиенты ходят на них без префикса /api
func (h *AuthHandler) RegisterVerificationRoutes(r *gin.Engine) {
	r.POST("/send_verification_code", h.SendVerificationCode)
	r.POST("/confirm_email", h.ConfirmEmail)
}

func (h *AuthHandler) SendVerificationCode(c *gin.Context) {
	var req dto.SendVerificationCodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.SendVerificationCode(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Код подтверждения отправлен на " + req.Email,
	})
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req dto.ConfirmEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ConfirmEmail(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email подтвержден",
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
