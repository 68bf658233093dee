package handlers

import (
	"net/http"

	"college_backend/internal/apperrors"
	"college_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PDFHandler struct {
	*BaseHandler
	pdfService services.PDFService
}

func NewPDFHandler(base *BaseHandler, pdfService services.PDFService) *PDFHandler {
	return &PDFHandler{
		BaseHandler: base,
		pdfService:  pdfService,
	}
}

func (h *PDFHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pdf := rg.Group("/pdf")
	{
		pdf.POST("/extract_course", h.ExtractCourse)
		pdf.POST("/preview", h.Preview)
	}
}

func (h *PDFHandler) ExtractCourse(c *gin.Context) {
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

	resp, err := h.pdfService.ExtractCourse(fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PDFHandler) Preview(c *gin.Context) {
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

	resp, err := h.pdfService.Preview(fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
