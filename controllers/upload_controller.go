package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/utils"
	"github.com/raf-alpha/api-go/validation"
)

const presignExpiry = time.Hour

type UploadController struct {
	Uploader *storage.Uploader
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
	Entity      string `json:"entity" binding:"required,oneof=categories units reviews blog"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(uploader *storage.Uploader) *UploadController {
	return &UploadController{Uploader: uploader}
}

// GetPresignedURL hands out a direct upload URL when the backing store
// supports it.
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badBody(err))
		return
	}
	l, err := utils.RequestLang(c, lang.English)
	if err != nil {
		respondError(c, err)
		return
	}

	if !storage.IsAllowedType(req.ContentType) {
		respondError(c, validation.Fail(l, "image", "startswith"))
		return
	}
	if req.FileSize <= 0 || req.FileSize > uc.Uploader.MaxSize {
		respondError(c, uploadError(l, "image", uc.Uploader.MaxSize, storage.ErrTooLarge))
		return
	}

	presigner, ok := uc.Uploader.Store.(storage.Presigner)
	if !ok {
		respondError(c, apperr.New(errors.ErrUnsupported, http.StatusNotImplemented, "direct uploads are not supported by this storage"))
		return
	}

	owner := "anonymous"
	if user := utils.GetUser(c); user != nil {
		owner = "u" + strconv.FormatUint(uint64(user.UserID), 10)
	}
	key := storage.NewKey(req.Entity, owner, req.FileName, req.ContentType)

	url, err := presigner.PresignPut(c.Request.Context(), key, req.ContentType, presignExpiry)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: url,
			FileURL:   uc.Uploader.Store.URL(key),
			Key:       key,
			ExpiresIn: int(presignExpiry.Seconds()),
		},
		Message: "Presigned URL generated successfully",
	})
}

// DeleteFile removes an object handed out by GetPresignedURL.
func (uc *UploadController) DeleteFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, "uploads/") || strings.Contains(key, "..") {
		respondError(c, apperr.NewValidationError("key", "invalid", "invalid file key"))
		return
	}

	if err := uc.Uploader.Store.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "File deleted successfully"})
}
