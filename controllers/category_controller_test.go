package controllers

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type categoryFixture struct {
	router     *gin.Engine
	categories *memCategories
	images     *memImages
	audit      *recAudit
}

func newCategoryFixture(cats ...models.Category) *categoryFixture {
	f := &categoryFixture{
		categories: newMemCategories(cats...),
		images:     newMemImages(),
		audit:      &recAudit{},
	}
	cc := NewCategoryController(f.categories, storage.NewUploader(f.images, 1024), f.audit)

	r := gin.New()
	r.Use(asUser(1, types.RoleAdmin))
	r.POST("/category/create", cc.Create)
	r.GET("/category", cc.List)
	r.GET("/category/getOne/:id", cc.GetOne)
	r.PUT("/category/update/:id", cc.Update)
	r.DELETE("/category/delete/:id", cc.Delete)
	f.router = r
	return f
}

func englishCategory() map[string]string {
	return map[string]string{
		"lang":        "en",
		"title":       "Palm Towers",
		"area":        "1200",
		"location":    "Riyadh",
		"description": "Quiet compound near the park",
		"latitude":    "24.7136",
		"longitude":   "46.6753",
	}
}

type categoryResponse struct {
	Success bool            `json:"success"`
	Data    models.Category `json:"data"`
}

func TestCreateCategory(t *testing.T) {
	f := newCategoryFixture()
	body, ct := multipartBody(t, englishCategory(), png("image", "cover.png"))

	w := send(f.router, http.MethodPost, "/category/create", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[categoryResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Palm Towers", resp.Data.Title)
	assert.Equal(t, "en", resp.Data.Lang)
	assert.InDelta(t, 24.7136, resp.Data.Latitude, 1e-9)
	assert.Contains(t, resp.Data.Image, "https://cdn.test/uploads/categories/en/")
	assert.Len(t, f.categories.items, 1)
	assert.Equal(t, 1, f.images.count())
	assert.Equal(t, []string{"category_created"}, f.audit.activities())
}

func TestCreateCategoryRejectsWrongScript(t *testing.T) {
	f := newCategoryFixture()
	fields := englishCategory()
	fields["title"] = "أبراج النخيل"
	body, ct := multipartBody(t, fields, png("image", "cover.png"))

	w := send(f.router, http.MethodPost, "/category/create", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[errorBody](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "script", fieldRule(resp.Fields, "title"))
	assert.Zero(t, f.images.count())
	assert.Empty(t, f.categories.items)
}

func TestCreateArabicCategory(t *testing.T) {
	f := newCategoryFixture()
	fields := map[string]string{
		"lang":        "ar",
		"title":       "أبراج النخيل",
		"area":        "800",
		"location":    "الرياض",
		"description": "مجمع هادئ بجوار الحديقة",
		"latitude":    "24.7",
		"longitude":   "46.6",
	}
	body, ct := multipartBody(t, fields, png("image", "cover.png"))

	w := send(f.router, http.MethodPost, "/category/create", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "ar", decode[categoryResponse](t, w).Data.Lang)
}

func TestCreateCategoryCoordinatesFromMapsLink(t *testing.T) {
	f := newCategoryFixture()
	fields := englishCategory()
	delete(fields, "latitude")
	delete(fields, "longitude")
	fields["googleMapsLink"] = "https://www.google.com/maps/place/Palm/@24.7743,46.7386,15z"
	body, ct := multipartBody(t, fields, png("image", "cover.png"))

	w := send(f.router, http.MethodPost, "/category/create", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[categoryResponse](t, w)
	assert.InDelta(t, 24.7743, resp.Data.Latitude, 1e-9)
	assert.InDelta(t, 46.7386, resp.Data.Longitude, 1e-9)
}

func TestCreateCategoryFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(map[string]string)
		files []filePart
		field string
		rule  string
	}{
		{
			name: "no coordinates",
			edit: func(m map[string]string) {
				delete(m, "latitude")
				delete(m, "longitude")
			},
			files: []filePart{png("image", "a.png")},
			field: "coordinates",
			rule:  "required",
		},
		{
			name: "link without coordinates",
			edit: func(m map[string]string) {
				delete(m, "latitude")
				delete(m, "longitude")
				m["googleMapsLink"] = "https://maps.app.goo.gl/abc"
			},
			files: []filePart{png("image", "a.png")},
			field: "googleMapsLink",
			rule:  "coordinates",
		},
		{
			name:  "no image",
			edit:  func(map[string]string) {},
			field: "image",
			rule:  "required",
		},
		{
			name:  "declared type not an image",
			edit:  func(map[string]string) {},
			files: []filePart{{field: "image", name: "a.txt", contentType: "text/plain", data: []byte("hello")}},
			field: "image.contentType",
			rule:  "startswith",
		},
		{
			name:  "content is not an image",
			edit:  func(map[string]string) {},
			files: []filePart{{field: "image", name: "a.png", contentType: "image/png", data: []byte("plain text")}},
			field: "image",
			rule:  "startswith",
		},
		{
			name:  "too large",
			edit:  func(map[string]string) {},
			files: []filePart{{field: "image", name: "a.png", contentType: "image/png", data: append(append([]byte{}, pngBytes...), make([]byte, 2048)...)}},
			field: "image",
			rule:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCategoryFixture()
			fields := englishCategory()
			tt.edit(fields)
			body, ct := multipartBody(t, fields, tt.files...)

			w := send(f.router, http.MethodPost, "/category/create", body, ct)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.rule, fieldRule(decode[errorBody](t, w).Fields, tt.field), w.Body.String())
			assert.Empty(t, f.categories.items)
			assert.Zero(t, f.images.count())
		})
	}
}

func existingCategory() models.Category {
	return models.Category{
		ID:          "cat-1",
		Lang:        "en",
		Title:       "Palm Towers",
		Location:    "Riyadh",
		Description: "Quiet compound",
		Latitude:    24.7,
		Longitude:   46.6,
		Image:       "https://cdn.test/old.png",
		ImageKey:    "uploads/categories/en/old.png",
	}
}

func TestUpdateCategoryJSONKeepsImage(t *testing.T) {
	f := newCategoryFixture(existingCategory())
	w := sendJSON(t, f.router, http.MethodPut, "/category/update/cat-1", map[string]any{
		"title":       "Palm Towers II",
		"location":    "Riyadh",
		"description": "Quiet compound",
		"latitude":    24.7,
		"longitude":   46.6,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := f.categories.items["cat-1"]
	assert.Equal(t, "Palm Towers II", got.Title)
	assert.Equal(t, "uploads/categories/en/old.png", got.ImageKey)
	assert.Empty(t, f.images.deleted)
}

func TestUpdateCategoryReplacesImage(t *testing.T) {
	f := newCategoryFixture(existingCategory())
	fields := englishCategory()
	body, ct := multipartBody(t, fields, png("image", "new.png"))

	w := send(f.router, http.MethodPut, "/category/update/cat-1", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := f.categories.items["cat-1"]
	assert.NotEqual(t, "uploads/categories/en/old.png", got.ImageKey)
	assert.Equal(t, []string{"uploads/categories/en/old.png"}, f.images.deleted)
	assert.Equal(t, 1, f.images.count())
}

func TestUpdateCategoryKeepsStoredLanguage(t *testing.T) {
	cat := existingCategory()
	cat.Lang = "ar"
	f := newCategoryFixture(cat)

	w := sendJSON(t, f.router, http.MethodPut, "/category/update/cat-1", map[string]any{
		"title":       "Palm Towers",
		"location":    "Riyadh",
		"description": "Quiet compound",
		"latitude":    24.7,
		"longitude":   46.6,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "script", fieldRule(decode[errorBody](t, w).Fields, "title"))
}

func TestGetListDeleteCategory(t *testing.T) {
	second := existingCategory()
	second.ID, second.Title, second.Lang = "cat-2", "Sea View", "ar"
	f := newCategoryFixture(existingCategory(), second)

	w := send(f.router, http.MethodGet, "/category/getOne/cat-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Palm Towers", decode[struct {
		Category models.Category `json:"category"`
	}](t, w).Category.Title)

	w = send(f.router, http.MethodGet, "/category?lang=en&page=1&pageSize=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Data       []models.Category `json:"data"`
		Pagination PaginationMeta    `json:"pagination"`
	}](t, w)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, int64(1), list.Pagination.TotalItems)

	w = send(f.router, http.MethodGet, "/category?lang=fr", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(f.router, http.MethodDelete, "/category/delete/cat-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"uploads/categories/en/old.png"}, f.images.deleted)

	w = send(f.router, http.MethodGet, "/category/getOne/cat-1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(f.router, http.MethodPut, "/category/update/missing", bytes.NewBufferString("{}"), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCategoryReportsEveryField(t *testing.T) {
	f := newCategoryFixture()
	fields := englishCategory()
	fields["title"] = "أبراج النخيل"
	delete(fields, "latitude")
	delete(fields, "longitude")
	body, ct := multipartBody(t, fields)

	w := send(f.router, http.MethodPost, "/category/create", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	got := decode[errorBody](t, w).Fields
	assert.Equal(t, "required", fieldRule(got, "image"))
	assert.Equal(t, "script", fieldRule(got, "title"))
	assert.Equal(t, "required", fieldRule(got, "coordinates"))
	assert.Empty(t, f.categories.items)
}
