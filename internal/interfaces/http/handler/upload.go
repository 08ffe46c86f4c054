package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bookingops/console/internal/application/media"
)

// UploadHandler stores standalone images, outside of any form
type UploadHandler struct {
	BaseHandler
	uploads *media.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploads *media.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload godoc
// @Summary      Upload an image
// @Description  Requests a grant for the target and posts the file to storage
// @Tags         uploads
// @Accept       multipart/form-data
// @Param        target formData string true "What the image belongs to, e.g. category"
// @Param        file   formData file   true "Image"
// @Router       /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	target := c.PostForm("target")
	if target == "" {
		h.BadRequest(c, "target is required")
		return
	}
	file, closeFile, ok := h.formFile(c)
	if !ok {
		return
	}
	defer closeFile()

	result, err := h.uploads.Store(c.Request.Context(), target, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
