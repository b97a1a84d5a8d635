package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/types"
	"github.com/raf-alpha/api-go/utils"
	"github.com/raf-alpha/api-go/validation"
)

// ContentKind describes one per-language content type for ContentController.
// In is the request payload and M the stored row.
type ContentKind[In any, M any] struct {
	Entity string
	// Key is the response field of the list ("faqs", "reviews", "posts").
	Key string
	// Normalize fills defaults on a decoded payload. Optional.
	Normalize func(in *In)
	// Lang returns the language carried by the payload.
	Lang func(in *In) lang.Lang
	// SetImage records the uploaded image's metadata on the payload before validation.
	SetImage func(in *In, u *types.Upload)
	// Build turns a valid payload into a row. image is nil without an upload.
	Build func(in *In, l lang.Lang, image *storage.Stored, author uint) *M
	// ImageKey returns the storage key of the row's image, if any.
	ImageKey func(m *M) string
}

// ContentController serves create, list and delete for one content kind.
type ContentController[In any, M any] struct {
	Kind     ContentKind[In, M]
	Store    store.ContentStore[M]
	Uploader *storage.Uploader
	Audit    store.AuditStore
}

func NewContentController[In any, M any](kind ContentKind[In, M], st store.ContentStore[M], uploader *storage.Uploader, audit store.AuditStore) *ContentController[In, M] {
	return &ContentController[In, M]{Kind: kind, Store: st, Uploader: uploader, Audit: audit}
}

// Create accepts JSON, or multipart with the payload in "data" and an
// optional "image" part.
func (cc *ContentController[In, M]) Create(c *gin.Context) {
	var in In
	var fh *multipart.FileHeader

	if isMultipart(c) {
		raw := c.PostForm("data")
		if raw == "" {
			respondError(c, validation.Fail(lang.English, "data", "required"))
			return
		}
		if err := json.Unmarshal([]byte(raw), &in); err != nil {
			respondError(c, badBody(err))
			return
		}
		if cc.Kind.SetImage != nil {
			fh, _ = c.FormFile("image")
		}
	} else if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, badBody(err))
		return
	}

	if cc.Kind.Normalize != nil {
		cc.Kind.Normalize(&in)
	}
	l, err := resolveLang(c, cc.Kind.Lang(&in))
	if err != nil {
		respondError(c, err)
		return
	}
	if fh != nil {
		cc.Kind.SetImage(&in, uploadMeta(fh))
	}

	ctx := c.Request.Context()
	if err := validation.Validate(ctx, l, &in); err != nil {
		respondError(c, err)
		return
	}

	var stored *storage.Stored
	if fh != nil {
		data, err := utils.ReadFile(fh, cc.Uploader.MaxSize)
		if err != nil {
			respondError(c, uploadError(l, "image", cc.Uploader.MaxSize, err))
			return
		}
		s, err := cc.Uploader.Save(ctx, cc.Kind.Entity, l.String(), fh.Filename, data)
		if err != nil {
			respondError(c, uploadError(l, "image", cc.Uploader.MaxSize, err))
			return
		}
		stored = &s
	}

	var author uint
	if user := utils.GetUser(c); user != nil {
		author = user.UserID
	}

	row := cc.Kind.Build(&in, l, stored, author)
	if err := cc.Store.Create(ctx, row); err != nil {
		if stored != nil {
			discard(c, cc.Uploader.Store, stored.Key)
		}
		respondError(c, err)
		return
	}

	audit(c, cc.Audit, cc.Kind.Entity+"_created", cc.Kind.Entity, "", l)
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: row})
}

func (cc *ContentController[In, M]) List(c *gin.Context) {
	filter := ""
	if q := c.Query("lang"); q != "" {
		l, err := resolveLang(c, lang.Lang(q))
		if err != nil {
			respondError(c, err)
			return
		}
		filter = l.String()
	}

	rows, err := cc.Store.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []M{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, cc.Kind.Key: rows})
}

func (cc *ContentController[In, M]) Delete(c *gin.Context) {
	id, err := utils.UintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	row, err := cc.Store.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if cc.Kind.ImageKey != nil && cc.Uploader != nil {
		discard(c, cc.Uploader.Store, cc.Kind.ImageKey(row))
	}

	audit(c, cc.Audit, cc.Kind.Entity+"_deleted", cc.Kind.Entity, strconv.FormatUint(uint64(id), 10), lang.English)
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Deleted"})
}

func imageOf(s *storage.Stored) (string, string) {
	if s == nil {
		return "", ""
	}
	return s.URL, s.Key
}

var FAQKind = ContentKind[types.FAQInput, models.FAQ]{
	Entity: "faq",
	Key:    "faqs",
	Lang:   func(in *types.FAQInput) lang.Lang { return in.Lang },
	Build: func(in *types.FAQInput, l lang.Lang, _ *storage.Stored, _ uint) *models.FAQ {
		return &models.FAQ{Lang: l.String(), Question: in.Question, Answer: in.Answer}
	},
}

var ReviewKind = ContentKind[types.ReviewInput, models.Review]{
	Entity:   "review",
	Key:      "reviews",
	Lang:     func(in *types.ReviewInput) lang.Lang { return in.Lang },
	SetImage: func(in *types.ReviewInput, u *types.Upload) { in.Image = u },
	Build: func(in *types.ReviewInput, l lang.Lang, image *storage.Stored, _ uint) *models.Review {
		url, key := imageOf(image)
		return &models.Review{
			Lang:        l.String(),
			Name:        in.Name,
			Country:     in.Country,
			Description: in.Description,
			Rate:        in.Rate,
			Image:       url,
			ImageKey:    key,
		}
	},
	ImageKey: func(m *models.Review) string { return m.ImageKey },
}

var BlogKind = ContentKind[types.BlogPostInput, models.BlogPost]{
	Entity:    "blog",
	Key:       "posts",
	Normalize: (*types.BlogPostInput).Normalize,
	Lang:      func(in *types.BlogPostInput) lang.Lang { return in.Lang },
	SetImage:  func(in *types.BlogPostInput, u *types.Upload) { in.Image = u },
	Build: func(in *types.BlogPostInput, l lang.Lang, image *storage.Stored, author uint) *models.BlogPost {
		url, key := imageOf(image)
		post := &models.BlogPost{
			Lang:          l.String(),
			Title:         in.Title,
			Description:   in.Description,
			Excerpt:       in.Excerpt,
			Keywords:      in.Keywords,
			Category:      in.Category,
			Tags:          in.Tags,
			Image:         url,
			ImageKey:      key,
			Status:        in.Status,
			AllowComments: *in.AllowComments,
			Featured:      in.Featured,
			AuthorID:      author,
		}
		if post.Status == "published" {
			now := time.Now()
			post.PublishedAt = &now
		}
		return post
	},
	ImageKey: func(m *models.BlogPost) string { return m.ImageKey },
}
