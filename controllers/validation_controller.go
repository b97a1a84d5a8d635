package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/geo"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/utils"
	"github.com/raf-alpha/api-go/validation"
)

// ValidationController lets the dashboard check a form before submitting it.
type ValidationController struct {
	Users store.UserStore
}

func NewValidationController(users store.UserStore) *ValidationController {
	return &ValidationController{Users: users}
}

// ValidateSchema checks a JSON body against a named form schema in the
// request language and reports every failing field.
func (vc *ValidationController) ValidateSchema(c *gin.Context) {
	l, err := utils.RequestLang(c, lang.English)
	if err != nil {
		respondError(c, err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, badBody(err))
		return
	}

	if err := validation.ValidateJSON(c.Request.Context(), l, c.Param("schema"), body); err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "fields": ve.Errors})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (vc *ValidationController) Schemas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"schemas": validation.SchemaNames()})
}

// Coordinates pulls latitude and longitude out of a pasted maps link.
func (vc *ValidationController) Coordinates(c *gin.Context) {
	l, err := utils.RequestLang(c, lang.English)
	if err != nil {
		respondError(c, err)
		return
	}
	link := c.Query("url")
	if link == "" {
		respondError(c, validation.Fail(l, "url", "required"))
		return
	}
	coords, ok := geo.ExtractCoordinates(link)
	if !ok {
		respondError(c, validation.Fail(l, "googleMapsLink", "coordinates"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"coordinates": coords})
}

// Text reports whether text is written in the script of the given language.
func (vc *ValidationController) Text(c *gin.Context) {
	l, err := utils.RequestLang(c, lang.English)
	if err != nil {
		respondError(c, err)
		return
	}
	text := c.Query("text")
	ok := lang.Guard(text, l)
	if c.Query("rich") == "true" {
		ok = lang.GuardRich(text, l)
	}
	c.JSON(http.StatusOK, gin.H{"valid": ok, "lang": l})
}

func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	_, err := vc.Users.ByEmail(c.Request.Context(), normalizeEmail(c.Param("email")))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"exists": true})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"exists": false})
	default:
		respondError(c, err)
	}
}
