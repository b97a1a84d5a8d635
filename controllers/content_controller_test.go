package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentRouter[In any, M any](cc *ContentController[In, M], prefix string) *gin.Engine {
	r := gin.New()
	r.Use(asUser(7, types.RoleAdmin))
	r.POST(prefix, cc.Create)
	r.GET(prefix, cc.List)
	r.DELETE(prefix+"/:id", cc.Delete)
	return r
}

func TestCreateFAQJSON(t *testing.T) {
	st := &fakeContent[models.FAQ]{}
	audit := &recAudit{}
	r := contentRouter(NewContentController(FAQKind, st, storage.NewUploader(newMemImages(), 0), audit), "/faq")

	w := sendJSON(t, r, http.MethodPost, "/faq", map[string]string{
		"lang":     "ar",
		"question": "ما هي طرق الدفع؟",
		"answer":   "<p>نقداً أو بالتقسيط</p>",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, st.created, 1)
	assert.Equal(t, "ar", st.created[0].Lang)
	assert.Equal(t, []string{"faq_created"}, audit.activities())
}

func TestCreateFAQScriptMismatch(t *testing.T) {
	st := &fakeContent[models.FAQ]{}
	r := contentRouter(NewContentController(FAQKind, st, storage.NewUploader(newMemImages(), 0), nil), "/faq")

	w := sendJSON(t, r, http.MethodPost, "/faq", map[string]string{
		"lang":     "en",
		"question": "ما هي طرق الدفع؟",
		"answer":   "Cash or installments",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "script", fieldRule(decode[errorBody](t, w).Fields, "question"))
	assert.Empty(t, st.created)
}

func TestCreateReviewWithImage(t *testing.T) {
	st := &fakeContent[models.Review]{}
	images := newMemImages()
	r := contentRouter(NewContentController(ReviewKind, st, storage.NewUploader(images, 0), nil), "/review")

	data := mustJSON(t, map[string]any{
		"lang":        "en",
		"name":        "Fahad",
		"country":     "Saudi Arabia",
		"description": "Smooth purchase and honest agents",
		"rate":        5,
	})
	body, ct := multipartBody(t, map[string]string{"data": data}, png("image", "me.png"))

	w := send(r, http.MethodPost, "/review", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, st.created, 1)
	assert.Contains(t, st.created[0].Image, "https://cdn.test/uploads/review/en/")
	assert.NotEmpty(t, st.created[0].ImageKey)
	assert.Equal(t, 1, images.count())
}

func TestCreateReviewRejectsRate(t *testing.T) {
	st := &fakeContent[models.Review]{}
	images := newMemImages()
	r := contentRouter(NewContentController(ReviewKind, st, storage.NewUploader(images, 0), nil), "/review")

	data := mustJSON(t, map[string]any{
		"lang": "en", "name": "Fahad", "country": "KSA", "description": "Good", "rate": 9,
	})
	body, ct := multipartBody(t, map[string]string{"data": data}, png("image", "me.png"))

	w := send(r, http.MethodPost, "/review", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "lte", fieldRule(decode[errorBody](t, w).Fields, "rate"))
	assert.Zero(t, images.count())
}

func TestCreateBlogDefaults(t *testing.T) {
	st := &fakeContent[models.BlogPost]{}
	r := contentRouter(NewContentController(BlogKind, st, storage.NewUploader(newMemImages(), 0), nil), "/blog")

	w := sendJSON(t, r, http.MethodPost, "/blog", map[string]any{
		"lang":        "en",
		"title":       "Buying your first home",
		"description": "<p>Start with a budget.</p>",
		"tags":        []string{"guide"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, st.created, 1)

	post := st.created[0]
	assert.Equal(t, "draft", post.Status)
	assert.True(t, post.AllowComments)
	assert.Equal(t, uint(7), post.AuthorID)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, []string{"guide"}, []string(post.Tags))

	w = sendJSON(t, r, http.MethodPost, "/blog", map[string]any{
		"lang":        "en",
		"title":       "Market update",
		"description": "Prices are stable.",
		"status":      "published",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotNil(t, st.created[1].PublishedAt)
}

func TestBlogKindLangIsPure(t *testing.T) {
	in := types.BlogPostInput{Lang: lang.Arabic}
	assert.Equal(t, lang.Arabic, BlogKind.Lang(&in))
	assert.Empty(t, in.Status)
	assert.Nil(t, in.AllowComments)

	BlogKind.Normalize(&in)
	assert.Equal(t, "draft", in.Status)
	require.NotNil(t, in.AllowComments)
	assert.True(t, *in.AllowComments)
}

func TestListAndDeleteContent(t *testing.T) {
	images := newMemImages()
	st := &fakeContent[models.Review]{
		rows: []models.Review{{ID: 3, Lang: "en", Name: "Fahad"}},
		deleteFn: func(id uint) (*models.Review, error) {
			return &models.Review{ID: id, ImageKey: "uploads/review/en/me.png"}, nil
		},
	}
	r := contentRouter(NewContentController(ReviewKind, st, storage.NewUploader(images, 0), nil), "/review")

	w := send(r, http.MethodGet, "/review?lang=en", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", st.lastLang)
	assert.Len(t, decode[struct {
		Reviews []models.Review `json:"reviews"`
	}](t, w).Reviews, 1)

	w = send(r, http.MethodGet, "/review?lang=de", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodDelete, "/review/3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"uploads/review/en/me.png"}, images.deleted)

	w = send(r, http.MethodDelete, "/review/x", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListContentEmpty(t *testing.T) {
	r := contentRouter(NewContentController(FAQKind, &fakeContent[models.FAQ]{}, storage.NewUploader(newMemImages(), 0), nil), "/faq")

	w := send(r, http.MethodGet, "/faq", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"faqs":[]}`, w.Body.String())

	w = send(r, http.MethodDelete, "/faq/9", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
