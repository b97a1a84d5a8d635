package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Lang is the content language of a record or form.
type Lang string

const (
	Arabic  Lang = "ar"
	English Lang = "en"
)

var ErrUnsupported = errors.New("unsupported language")

// All lists the supported languages in the order the dashboard renders them.
var All = []Lang{Arabic, English}

func Parse(s string) (Lang, error) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case Arabic:
		return Arabic, nil
	case English:
		return English, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// ParseOr returns def when s is empty and Parse(s) otherwise.
func ParseOr(s string, def Lang) (Lang, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return Parse(s)
}

func (l Lang) Valid() bool {
	return l == Arabic || l == English
}

func (l Lang) String() string {
	return string(l)
}

type ctxKey struct{}

func WithContext(ctx context.Context, l Lang) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) (Lang, bool) {
	l, ok := ctx.Value(ctxKey{}).(Lang)
	return l, ok
}
