package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
)

// Schemas maps a schema name to a constructor of the value it validates.
var Schemas = map[string]func() any{
	"category":  func() any { return &types.CategoryInput{} },
	"unit":      func() any { return &types.UnitInput{} },
	"review":    func() any { return &types.ReviewInput{} },
	"faq":       func() any { return &types.FAQInput{} },
	"blog":      func() any { return &types.BlogPostInput{} },
	"user":      func() any { return &types.UserInput{} },
	"userEdit":  func() any { return &types.UserEditInput{} },
	"login":     func() any { return &types.LoginInput{} },
	"reset":     func() any { return &types.ResetPasswordInput{} },
	"sendEmail": func() any { return &types.EmailInput{} },
}

func SchemaNames() []string {
	names := make([]string, 0, len(Schemas))
	for name := range Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateJSON decodes body into the named schema and validates it.
func ValidateJSON(ctx context.Context, l lang.Lang, schema string, body []byte) error {
	mk, ok := Schemas[schema]
	if !ok {
		return fmt.Errorf("schema %q: %w", schema, apperr.ErrNotFound)
	}

	v := mk()
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return apperr.NewValidationError("body", "json", fmt.Sprintf("invalid JSON: %v", err))
	}

	return Validate(ctx, l, v)
}
