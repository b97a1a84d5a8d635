package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/storage"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page normalises pagination input to a 1-based page and a bounded size.
func Page(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// UintParam reads a positive numeric path parameter.
func UintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, apperr.New(apperr.ErrValidation, http.StatusBadRequest, "invalid %s", name)
	}
	return uint(v), nil
}

// RequestLang picks the language from ?lang=, then the lang form field,
// falling back to def.
func RequestLang(c *gin.Context, def lang.Lang) (lang.Lang, error) {
	raw := c.Query("lang")
	if raw == "" {
		raw = c.PostForm("lang")
	}
	l, err := lang.ParseOr(raw, def)
	if err != nil {
		return "", apperr.NewValidationError("lang", "oneof", err.Error())
	}
	return l, nil
}

// ReadFile reads an uploaded part into memory, refusing anything above limit.
func ReadFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if limit > 0 && fh.Size > limit {
		return nil, fmt.Errorf("%s: %w", fh.Filename, storage.ErrTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	r := io.Reader(f)
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", fh.Filename, storage.ErrTooLarge)
	}
	return data, nil
}
