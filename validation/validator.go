package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
)

var (
	saudiPhone = regexp.MustCompile(`^((?:\+?966)|0)5[0-9]{8}$`)
	otpCode    = regexp.MustCompile(`^[0-9]{6}$`)
)

const passwordSpecials = "@$!%*?&"

// Validator runs the per-language schemas. The language passed to Struct picks
// both the script guard and the message catalogue.
type Validator struct {
	v           *validator.Validate
	translators map[lang.Lang]ut.Translator
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)

	vd := &Validator{
		v:           v,
		translators: make(map[lang.Lang]ut.Translator, len(lang.All)),
	}

	mustRegister(v.RegisterValidationCtx("script", scriptRule(lang.Guard)))
	mustRegister(v.RegisterValidationCtx("richscript", scriptRule(lang.GuardRich)))
	mustRegister(v.RegisterValidation("saphone", func(fl validator.FieldLevel) bool {
		return saudiPhone.MatchString(fl.Field().String())
	}))
	mustRegister(v.RegisterValidation("otpcode", func(fl validator.FieldLevel) bool {
		return otpCode.MatchString(fl.Field().String())
	}))
	mustRegister(v.RegisterValidation("strongpass", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	}))
	mustRegister(v.RegisterValidation("unittype", oneOfList(types.UnitTypes)))
	mustRegister(v.RegisterValidation("unitstatus", oneOfList(types.UnitStatuses)))
	v.RegisterStructValidation(unitLevel, types.UnitInput{})

	uni := ut.New(en.New(), en.New(), ar.New())
	for _, l := range lang.All {
		trans, _ := uni.GetTranslator(l.String())
		mustRegister(registerMessages(v, trans, l))
		vd.translators[l] = trans
	}

	return vd
}

var std = New()

// Validate runs s through the default validator for language l.
func Validate(ctx context.Context, l lang.Lang, s any) error {
	return std.Struct(ctx, l, s)
}

func (vd *Validator) Struct(ctx context.Context, l lang.Lang, s any) error {
	if !l.Valid() {
		return apperr.NewValidationError("lang", "oneof", fmt.Sprintf("unsupported language %q", l))
	}

	err := vd.v.StructCtx(lang.WithContext(ctx, l), s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validate: %w", err)
	}

	trans := vd.translators[l]
	out := make([]apperr.FieldError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, apperr.FieldError{
			Field:   fieldPath(fe),
			Rule:    ruleName(fe.Tag()),
			Message: fe.Translate(trans),
		})
	}

	return &apperr.ValidationError{Errors: out}
}

// Join merges the field errors of several checks into one ValidationError so a
// form shows every failing field at once. The first error for a field wins.
// Any error that is not a ValidationError is returned on its own.
func Join(errs ...error) error {
	var out []apperr.FieldError
	seen := make(map[string]bool)
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *apperr.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve.Errors {
			if seen[fe.Field] {
				continue
			}
			seen[fe.Field] = true
			out = append(out, fe)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &apperr.ValidationError{Errors: out}
}

// StrongPassword requires a lower case letter, an upper case letter, a digit and
// one of @$!%*?&, and nothing outside those classes.
func StrongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

func scriptRule(guard func(string, lang.Lang) bool) validator.FuncCtx {
	return func(ctx context.Context, fl validator.FieldLevel) bool {
		l, ok := lang.FromContext(ctx)
		if !ok {
			return false
		}
		return guard(fl.Field().String(), l)
	}
}

func oneOfList(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range values {
			if v == s {
				return true
			}
		}
		return false
	}
}

func unitLevel(sl validator.StructLevel) {
	u := sl.Current().Interface().(types.UnitInput)
	switch {
	case u.Coordinates.IsZero():
		sl.ReportError(u.Coordinates, "coordinates", "Coordinates", "required", "")
	case !u.Coordinates.Valid():
		sl.ReportError(u.Coordinates, "coordinates", "Coordinates", "coordinates", "")
	}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// fieldPath drops the root struct name from the namespace: "UnitInput.nearbyPlaces[0].place"
// becomes "nearbyPlaces[0].place".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleName(tag string) string {
	if tag == "richscript" {
		return apperr.RuleScript
	}
	return tag
}

func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("validation: register: %v", err))
	}
}

func isLength(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map || k == reflect.Array
}
