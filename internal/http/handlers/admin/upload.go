package admin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/http/response"
	"github.com/bakehouse-next/internal/service"
)

// AdminUploadImage stores a product image and returns its public path.
func (h *Handler) AdminUploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file is required", err)
		return
	}
	path, err := h.UploadService.SaveImage(file)
	if err != nil {
		if errors.Is(err, service.ErrUploadInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save upload", err)
		return
	}
	requestLog(c).Infow("admin_image_uploaded", "path", path, "size", file.Size)
	response.Success(c, gin.H{"url": path})
}
