package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/geo"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/types"
	"github.com/raf-alpha/api-go/utils"
	"github.com/raf-alpha/api-go/validation"
)

type CategoryController struct {
	Categories store.CategoryStore
	Uploader   *storage.Uploader
	Audit      store.AuditStore
}

func NewCategoryController(categories store.CategoryStore, uploader *storage.Uploader, audit store.AuditStore) *CategoryController {
	return &CategoryController{Categories: categories, Uploader: uploader, Audit: audit}
}

// fillCoordinates takes latitude and longitude from the maps link when the
// form left them empty.
func fillCoordinates(l lang.Lang, in *types.CategoryInput) error {
	if in.Latitude != 0 || in.Longitude != 0 {
		return nil
	}
	if in.GoogleMapsLink == "" {
		return validation.Fail(l, "coordinates", "required")
	}
	coords, ok := geo.ExtractCoordinates(in.GoogleMapsLink)
	if !ok {
		return validation.Fail(l, "googleMapsLink", "coordinates")
	}
	in.Latitude, in.Longitude = coords.Latitude, coords.Longitude
	return nil
}

func uploadMeta(fh *multipart.FileHeader) *types.Upload {
	return &types.Upload{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Size: fh.Size}
}

func (cc *CategoryController) saveImage(c *gin.Context, l lang.Lang, field string, fh *multipart.FileHeader) (storage.Stored, error) {
	data, err := utils.ReadFile(fh, cc.Uploader.MaxSize)
	if err != nil {
		return storage.Stored{}, uploadError(l, field, cc.Uploader.MaxSize, err)
	}
	stored, err := cc.Uploader.Save(c.Request.Context(), "categories", l.String(), fh.Filename, data)
	if err != nil {
		return storage.Stored{}, uploadError(l, field, cc.Uploader.MaxSize, err)
	}
	return stored, nil
}

func (cc *CategoryController) Create(c *gin.Context) {
	var in types.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, badBody(err))
		return
	}
	l, err := resolveLang(c, in.Lang)
	if err != nil {
		respondError(c, err)
		return
	}
	errs := []error{fillCoordinates(l, &in)}
	fh, _ := c.FormFile("image")
	if fh == nil {
		errs = append(errs, validation.Fail(l, "image", "required"))
	} else {
		in.Image = uploadMeta(fh)
	}
	errs = append(errs, validation.Validate(c.Request.Context(), l, &in))
	if err := validation.Join(errs...); err != nil {
		respondError(c, err)
		return
	}

	stored, err := cc.saveImage(c, l, "image", fh)
	if err != nil {
		respondError(c, err)
		return
	}

	category := &models.Category{
		Lang:        l.String(),
		Title:       in.Title,
		Area:        in.Area,
		Location:    in.Location,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Image:       stored.URL,
		ImageKey:    stored.Key,
	}
	if err := cc.Categories.Create(c.Request.Context(), category); err != nil {
		discard(c, cc.Uploader.Store, stored.Key)
		respondError(c, err)
		return
	}

	audit(c, cc.Audit, "category_created", "category", category.ID, l)
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: category, Message: "Category created"})
}

func (cc *CategoryController) List(c *gin.Context) {
	var q types.CategoryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, badBody(err))
		return
	}
	if q.Lang != "" {
		l, err := resolveLang(c, lang.Lang(q.Lang))
		if err != nil {
			respondError(c, err)
			return
		}
		q.Lang = l.String()
	}

	page, size := utils.Page(q.Page, q.PageSize)
	categories, total, err := cc.Categories.List(c.Request.Context(), q.Lang, page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    categories,
		Pagination: &PaginationMeta{
			CurrentPage: page,
			PageSize:    size,
			TotalItems:  total,
			TotalPages:  utils.TotalPages(total, size),
		},
	})
}

func (cc *CategoryController) GetOne(c *gin.Context) {
	category, err := cc.Categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

// Update accepts JSON, or multipart when the image is replaced.
func (cc *CategoryController) Update(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := cc.Categories.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var in types.CategoryInput
	var fh *multipart.FileHeader
	if isMultipart(c) {
		err = c.ShouldBind(&in)
		fh, _ = c.FormFile("image")
	} else {
		err = c.ShouldBindJSON(&in)
	}
	if err != nil {
		respondError(c, badBody(err))
		return
	}

	if in.Lang == "" {
		in.Lang = lang.Lang(category.Lang)
	}
	l, err := resolveLang(c, in.Lang)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := fillCoordinates(l, &in); err != nil {
		respondError(c, err)
		return
	}
	if fh != nil {
		in.Image = uploadMeta(fh)
	}
	if err := validation.Validate(ctx, l, &in); err != nil {
		respondError(c, err)
		return
	}

	oldKey := category.ImageKey
	var stored storage.Stored
	if fh != nil {
		if stored, err = cc.saveImage(c, l, "image", fh); err != nil {
			respondError(c, err)
			return
		}
		category.Image, category.ImageKey = stored.URL, stored.Key
	}

	category.Lang = l.String()
	category.Title = in.Title
	category.Area = in.Area
	category.Location = in.Location
	category.Description = in.Description
	category.Latitude = in.Latitude
	category.Longitude = in.Longitude

	if err := cc.Categories.Update(ctx, category); err != nil {
		discard(c, cc.Uploader.Store, stored.Key)
		respondError(c, err)
		return
	}
	if fh != nil {
		discard(c, cc.Uploader.Store, oldKey)
	}

	audit(c, cc.Audit, "category_updated", "category", category.ID, l)
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: category, Message: "Category updated"})
}

func (cc *CategoryController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := cc.Categories.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := cc.Categories.Delete(ctx, category.ID); err != nil {
		respondError(c, err)
		return
	}
	discard(c, cc.Uploader.Store, category.ImageKey)

	audit(c, cc.Audit, "category_deleted", "category", category.ID, lang.Lang(category.Lang))
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Category deleted"})
}
