package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/geo"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCategory() *types.CategoryInput {
	return &types.CategoryInput{
		Title:       "Riyadh Towers",
		Area:        1200,
		Location:    "North Riyadh",
		Description: "<p>Modern towers near the park</p>",
		Latitude:    24.7136,
		Longitude:   46.6753,
	}
}

func validUnit() *types.UnitInput {
	return &types.UnitInput{
		Title:       "فيلا فاخرة",
		Type:        "Villa",
		Price:       1500000,
		Area:        450,
		Rooms:       5,
		Location:    "حي الملقا",
		Coordinates: geo.Coordinates{Latitude: 24.8, Longitude: 46.6},
		Description: "<p>فيلا واسعة مع حديقة ومسبح</p>",
		Status:      "Under Maintenance",
		NearbyPlaces: []types.NearbyPlace{
			{Place: "مدرسة", TimeInMinutes: 5},
		},
	}
}

func asValidation(t *testing.T, err error) *apperr.ValidationError {
	t.Helper()
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve
}

func TestCategoryEnglishAcceptsEnglish(t *testing.T) {
	require.NoError(t, Validate(context.Background(), lang.English, validCategory()))
}

func TestCategoryEnglishRejectsArabicTitle(t *testing.T) {
	c := validCategory()
	c.Title = "أبراج الرياض"

	ve := asValidation(t, Validate(context.Background(), lang.English, c))
	fe, ok := ve.Field("title")
	require.True(t, ok)
	assert.Equal(t, apperr.RuleScript, fe.Rule)
	assert.Equal(t, "Title must contain only English characters", fe.Message)
	assert.True(t, ve.LanguageMismatch())
}

func TestCategoryArabicMessages(t *testing.T) {
	c := validCategory()
	c.Title = ""

	ve := asValidation(t, Validate(context.Background(), lang.Arabic, c))

	title, ok := ve.Field("title")
	require.True(t, ok)
	assert.Equal(t, "required", title.Rule)
	assert.Equal(t, "العنوان مطلوب", title.Message)

	loc, ok := ve.Field("location")
	require.True(t, ok)
	assert.Equal(t, apperr.RuleScript, loc.Rule)
}

func TestCategoryCoordinatesRange(t *testing.T) {
	c := validCategory()
	c.Latitude = 95

	ve := asValidation(t, Validate(context.Background(), lang.English, c))
	fe, ok := ve.Field("latitude")
	require.True(t, ok)
	assert.Equal(t, "lte", fe.Rule)
}

func TestCategoryImageMustBeImage(t *testing.T) {
	c := validCategory()
	c.Image = &types.Upload{Name: "doc.pdf", ContentType: "application/pdf", Size: 10}

	ve := asValidation(t, Validate(context.Background(), lang.English, c))
	fe, ok := ve.Field("image.contentType")
	require.True(t, ok)
	assert.Equal(t, "startswith", fe.Rule)
}

func TestUnitValid(t *testing.T) {
	require.NoError(t, Validate(context.Background(), lang.Arabic, validUnit()))
}

func TestUnitRules(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(u *types.UnitInput)
		field string
		rule  string
	}{
		{"short title", func(u *types.UnitInput) { u.Title = "فل" }, "title", "min"},
		{"latin title", func(u *types.UnitInput) { u.Title = "Villa" }, "title", apperr.RuleScript},
		{"unknown type", func(u *types.UnitInput) { u.Type = "Castle" }, "type", "unittype"},
		{"unknown status", func(u *types.UnitInput) { u.Status = "Gone" }, "status", "unitstatus"},
		{"zero price", func(u *types.UnitInput) { u.Price = 0 }, "price", "gte"},
		{"negative rooms", func(u *types.UnitInput) { u.Rooms = -1 }, "rooms", "gte"},
		{"missing coordinates", func(u *types.UnitInput) { u.Coordinates = geo.Coordinates{} }, "coordinates", "required"},
		{"coordinates out of range", func(u *types.UnitInput) { u.Coordinates.Latitude = 120 }, "coordinates", "coordinates"},
		{"short description", func(u *types.UnitInput) { u.Description = "قصير" }, "description", "min"},
		{"nearby place time", func(u *types.UnitInput) { u.NearbyPlaces[0].TimeInMinutes = 0 }, "nearbyPlaces[0].timeInMinutes", "gte"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUnit()
			tc.edit(u)

			ve := asValidation(t, Validate(context.Background(), lang.Arabic, u))
			fe, ok := ve.Field(tc.field)
			require.True(t, ok, "errors: %+v", ve.Errors)
			assert.Equal(t, tc.rule, fe.Rule)
			assert.NotEmpty(t, fe.Message)
		})
	}
}

func TestUnitStatusMessageListsValues(t *testing.T) {
	u := validUnit()
	u.Status = "Gone"

	ve := asValidation(t, Validate(context.Background(), lang.English, u))
	fe, ok := ve.Field("status")
	require.True(t, ok)
	assert.Contains(t, fe.Message, "Under Maintenance")
}

func TestReviewAndFAQ(t *testing.T) {
	ctx := context.Background()

	review := &types.ReviewInput{Name: "Sara", Country: "KSA", Description: "<b>Great</b> service", Rate: 5}
	require.NoError(t, Validate(ctx, lang.English, review))

	review.Rate = 6
	ve := asValidation(t, Validate(ctx, lang.English, review))
	_, ok := ve.Field("rate")
	assert.True(t, ok)

	faq := &types.FAQInput{Question: "كيف أحجز؟", Answer: "<p>تواصل معنا عبر الموقع</p>"}
	require.NoError(t, Validate(ctx, lang.Arabic, faq))

	faq.Answer = "<p>Contact us</p>"
	ve = asValidation(t, Validate(ctx, lang.Arabic, faq))
	fe, ok := ve.Field("answer")
	require.True(t, ok)
	assert.Equal(t, apperr.RuleScript, fe.Rule)
}

func TestBlogPost(t *testing.T) {
	post := &types.BlogPostInput{Title: "Market update", Description: "Prices are up", Status: "published"}
	require.NoError(t, Validate(context.Background(), lang.English, post))

	post.Status = "deleted"
	ve := asValidation(t, Validate(context.Background(), lang.English, post))
	fe, ok := ve.Field("status")
	require.True(t, ok)
	assert.Equal(t, "oneof", fe.Rule)

	empty := &types.BlogPostInput{Title: "x", Description: "y"}
	empty.Normalize()
	assert.Equal(t, "draft", empty.Status)
	require.NotNil(t, empty.AllowComments)
	assert.True(t, *empty.AllowComments)
}

func TestUserSchema(t *testing.T) {
	u := &types.UserInput{
		FirstName:        "Omar",
		MiddleName:       "Ali",
		LastName:         "Saleh",
		Email:            "omar@example.com",
		Phone:            "+966512345678",
		Role:             types.RoleAdmin,
		VerificationCode: "123456",
		Password:         "Str0ng!Pass",
	}
	require.NoError(t, Validate(context.Background(), lang.English, u))

	u.Phone = "0612345678"
	u.Password = "weakpassword"
	u.Role = "Owner"
	ve := asValidation(t, Validate(context.Background(), lang.English, u))

	for _, field := range []string{"phone", "password", "role"} {
		_, ok := ve.Field(field)
		assert.True(t, ok, field)
	}
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Abcdef1!"))
	assert.False(t, StrongPassword("abcdef1!"))
	assert.False(t, StrongPassword("ABCDEF1!"))
	assert.False(t, StrongPassword("Abcdefg!"))
	assert.False(t, StrongPassword("Abcdefg1"))
	assert.False(t, StrongPassword("Abcdef1!#"))
}

func TestUnsupportedLanguage(t *testing.T) {
	ve := asValidation(t, Validate(context.Background(), lang.Lang("fr"), validCategory()))
	_, ok := ve.Field("lang")
	assert.True(t, ok)
}

func TestValidateJSON(t *testing.T) {
	ctx := context.Background()

	err := ValidateJSON(ctx, lang.English, "faq", []byte(`{"question":"How?","answer":"Call us"}`))
	require.NoError(t, err)

	err = ValidateJSON(ctx, lang.English, "faq", []byte(`{"question":"كيف؟","answer":"Call us"}`))
	ve := asValidation(t, err)
	assert.True(t, ve.LanguageMismatch())

	err = ValidateJSON(ctx, lang.English, "nope", []byte(`{}`))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = ValidateJSON(ctx, lang.English, "faq", []byte(`{`))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Contains(t, SchemaNames(), "unit")
}

func TestFail(t *testing.T) {
	err := Fail(lang.English, "images", "max-images", "10")
	require.Len(t, err.Errors, 1)
	assert.Equal(t, apperr.FieldError{Field: "images", Rule: "max", Message: "Images can hold at most 10 images"}, err.Errors[0])

	err = Fail(lang.Arabic, "image", "required")
	assert.Equal(t, "الصورة مطلوب", err.Errors[0].Message)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join(nil, nil))

	in := validCategory()
	in.Title = "أبراج الرياض"
	err := Join(
		Fail(lang.English, "image", "required"),
		Validate(context.Background(), lang.English, in),
		Fail(lang.English, "title", "required"),
	)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 2)
	assert.Equal(t, "image", ve.Errors[0].Field)
	fe, ok := ve.Field("title")
	require.True(t, ok)
	assert.Equal(t, apperr.RuleScript, fe.Rule, "first error for a field wins")

	boom := errors.New("boom")
	assert.Same(t, boom, Join(Fail(lang.English, "image", "required"), boom))
}
