package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/utils"
	"github.com/raf-alpha/api-go/validation"
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// respondError writes the error body for err and aborts the chain.
// Validation failures carry their field list.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	body := gin.H{"success": false, "error": apperr.Message(err)}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Errors
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// uploadError turns storage rejections of an uploaded file into field errors.
func uploadError(l lang.Lang, field string, maxSize int64, err error) error {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return validation.Fail(l, field, "max-number", formatMB(maxSize)+"MB")
	case errors.Is(err, storage.ErrUnsupportedType):
		return validation.Fail(l, field, "startswith")
	case errors.Is(err, storage.ErrEmpty):
		return validation.Fail(l, field, "required")
	}
	return err
}

func formatMB(n int64) string {
	return strconv.FormatInt(max(n/(1024*1024), 1), 10)
}

// audit records an admin action. A failed write is logged and otherwise ignored.
func audit(c *gin.Context, log store.AuditStore, activity, entity, entityID string, l lang.Lang) {
	if log == nil {
		return
	}
	user := utils.GetUser(c)
	if user == nil {
		return
	}
	entry := &models.ActivityLog{
		UserID:   user.UserID,
		Activity: activity,
		Entity:   entity,
		EntityID: entityID,
		Lang:     l.String(),
	}
	if err := log.Record(c.Request.Context(), entry); err != nil {
		slog.WarnContext(c.Request.Context(), "audit record failed", "activity", activity, "error", err)
	}
}

// discard removes stored objects after their database rows are gone.
// Failures only leave orphans behind, so they are logged.
func discard(c *gin.Context, images storage.ImageStore, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := images.Delete(c.Request.Context(), key); err != nil {
			slog.WarnContext(c.Request.Context(), "delete stored image", "key", key, "error", err)
		}
	}
}

// resolveLang prefers the language carried by the payload, then the request.
func resolveLang(c *gin.Context, payload lang.Lang) (lang.Lang, error) {
	if payload != "" {
		l, err := lang.Parse(payload.String())
		if err != nil {
			return "", apperr.NewValidationError("lang", "oneof", err.Error())
		}
		return l, nil
	}
	return utils.RequestLang(c, lang.English)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

func badBody(err error) error {
	return apperr.NewValidationError("body", "json", err.Error())
}
