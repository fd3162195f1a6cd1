package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"civicsync-be/apperrors"
	"civicsync-be/middlewares"
	"civicsync-be/services"
	"civicsync-be/utils"
)

// multipartOverhead is the slack allowed above the file limit for the rest
// of the multipart body.
const multipartOverhead = 1 << 20

type MediaController struct {
	media    MediaService
	maxBytes int64
}

func NewMediaController(media MediaService, maxBytes int64) *MediaController {
	return &MediaController{media: media, maxBytes: maxBytes}
}

// UploadMedia accepts one image in the multipart field "file".
func (ctl *MediaController) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctl.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, fileError("No file uploaded"))
		return
	}
	if header.Size > ctl.maxBytes {
		utils.ErrorResponse(c, fileError(fmt.Sprintf("File exceeds the %d MB limit", ctl.maxBytes>>20)))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.ErrorResponse(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		utils.ErrorResponse(c, fmt.Errorf("failed to detect file type: %w", err))
		return
	}
	contentType := strings.TrimSpace(strings.SplitN(mtype.String(), ";", 2)[0])
	if !strings.HasPrefix(contentType, "image/") {
		utils.ErrorResponse(c, fileError("Only image files are allowed"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.ErrorResponse(c, fmt.Errorf("failed to rewind upload: %w", err))
		return
	}

	media, err := ctl.media.Upload(c.Request.Context(), c.Param("issueId"), middlewares.CurrentUserID(c), services.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.Created(c, media)
}

func (ctl *MediaController) GetIssueMedia(c *gin.Context) {
	media, err := ctl.media.ListByIssue(c.Request.Context(), c.Param("issueId"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, media)
}

func (ctl *MediaController) DeleteMedia(c *gin.Context) {
	if err := ctl.media.Delete(c.Request.Context(), c.Param("mediaId"), middlewares.CurrentUserID(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.NoContent(c)
}

func fileError(message string) *apperrors.AppError {
	return apperrors.NewValidationError("Validation failed", apperrors.FieldError{Field: "file", Message: message})
}
