package validation

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/lang"
	"github.com/raf-alpha/api-go/types"
)

var catalogue = map[lang.Lang]map[string]string{
	lang.English: {
		"required":    "{0} is required",
		"min-length":  "{0} must be at least {1} characters",
		"max-length":  "{0} must be at most {1} characters",
		"min-number":  "{0} must be {1} or greater",
		"max-number":  "{0} must be {1} or less",
		"email":       "{0} must be a valid email address",
		"url":         "{0} must be a valid link",
		"oneof":       "{0} must be one of: {1}",
		"startswith":  "{0} must be an image",
		"gt":          "{0} is not a valid size",
		"script":      "{0} must contain only English characters",
		"saphone":     "{0} must be a valid Saudi mobile number",
		"otpcode":     "{0} must be a 6 digit code",
		"strongpass":  "{0} must contain upper and lower case letters, a digit and one of @$!%*?&",
		"coordinates": "{0} must be a valid latitude and longitude",
		"invalid":     "{0} is invalid",
		"max-images":  "{0} can hold at most {1} images",
		"expired":     "{0} is invalid or has expired",
	},
	lang.Arabic: {
		"required":    "{0} مطلوب",
		"min-length":  "يجب أن يكون {0} {1} أحرف على الأقل",
		"max-length":  "يجب ألا يتجاوز {0} {1} حرفاً",
		"min-number":  "يجب أن تكون قيمة {0} {1} أو أكثر",
		"max-number":  "يجب أن تكون قيمة {0} {1} أو أقل",
		"email":       "يجب أن يكون {0} بريداً إلكترونياً صحيحاً",
		"url":         "يجب أن يكون {0} رابطاً صحيحاً",
		"oneof":       "يجب أن يكون {0} أحد القيم: {1}",
		"startswith":  "يجب أن يكون {0} صورة",
		"gt":          "حجم {0} غير صالح",
		"script":      "يجب أن يحتوي {0} على حروف عربية فقط",
		"saphone":     "يجب أن يكون {0} رقم جوال سعودي صحيح",
		"otpcode":     "يجب أن يتكون {0} من 6 أرقام",
		"strongpass":  "يجب أن تحتوي {0} على حروف كبيرة وصغيرة ورقم وأحد الرموز @$!%*?&",
		"coordinates": "يجب أن تكون {0} إحداثيات صحيحة",
		"invalid":     "{0} غير صالح",
		"max-images":  "لا يمكن أن تحتوي {0} على أكثر من {1} صور",
		"expired":     "{0} غير صحيح أو منتهي الصلاحية",
	},
}

var labels = map[lang.Lang]map[string]string{
	lang.English: {
		"title":            "Title",
		"area":             "Area",
		"location":         "Location",
		"description":      "Description",
		"latitude":         "Latitude",
		"longitude":        "Longitude",
		"googleMapsLink":   "Google Maps link",
		"contentType":      "Image",
		"size":             "Image",
		"type":             "Unit type",
		"price":            "Price",
		"rooms":            "Rooms",
		"bathrooms":        "Bathrooms",
		"livingrooms":      "Living rooms",
		"elevators":        "Elevators",
		"parking":          "Parking",
		"guard":            "Guard",
		"waterTank":        "Water tank",
		"maidRoom":         "Maid room",
		"cameras":          "Cameras",
		"floor":            "Floor",
		"coordinates":      "Coordinates",
		"status":           "Status",
		"place":            "Place",
		"timeInMinutes":    "Time in minutes",
		"name":             "Name",
		"country":          "Country",
		"rate":             "Rating",
		"question":         "Question",
		"answer":           "Answer",
		"excerpt":          "Excerpt",
		"firstName":        "First name",
		"middleName":       "Middle name",
		"lastName":         "Last name",
		"email":            "Email",
		"phone":            "Phone",
		"role":             "Role",
		"verificationCode": "Verification code",
		"password":         "Password",
		"newPassword":      "New password",
		"image":            "Image",
		"images":           "Images",
		"existingImages":   "Existing images",
		"removedImages":    "Removed images",
		"categoryId":       "Category",
		"url":              "Link",
		"refreshToken":     "Refresh token",
	},
	lang.Arabic: {
		"title":            "العنوان",
		"area":             "المساحة",
		"location":         "الموقع",
		"description":      "الوصف",
		"latitude":         "خط العرض",
		"longitude":        "خط الطول",
		"googleMapsLink":   "رابط خرائط جوجل",
		"contentType":      "الصورة",
		"size":             "الصورة",
		"type":             "نوع الوحدة",
		"price":            "السعر",
		"rooms":            "الغرف",
		"bathrooms":        "دورات المياه",
		"livingrooms":      "الصالات",
		"elevators":        "المصاعد",
		"parking":          "المواقف",
		"guard":            "الحارس",
		"waterTank":        "خزان المياه",
		"maidRoom":         "غرفة الخادمة",
		"cameras":          "الكاميرات",
		"floor":            "الدور",
		"coordinates":      "الإحداثيات",
		"status":           "الحالة",
		"place":            "المكان",
		"timeInMinutes":    "الوقت بالدقائق",
		"name":             "الاسم",
		"country":          "الدولة",
		"rate":             "التقييم",
		"question":         "السؤال",
		"answer":           "الإجابة",
		"excerpt":          "الملخص",
		"firstName":        "الاسم الأول",
		"middleName":       "الاسم الأوسط",
		"lastName":         "اسم العائلة",
		"email":            "البريد الإلكتروني",
		"phone":            "رقم الجوال",
		"role":             "الصلاحية",
		"verificationCode": "رمز التحقق",
		"password":         "كلمة المرور",
		"newPassword":      "كلمة المرور الجديدة",
		"image":            "الصورة",
		"images":           "الصور",
		"existingImages":   "الصور الحالية",
		"removedImages":    "الصور المحذوفة",
		"categoryId":       "التصنيف",
		"url":              "الرابط",
		"refreshToken":     "رمز التحديث",
	},
}

// Label returns the display name of a json field in language l.
func Label(l lang.Lang, field string) string {
	if s, ok := labels[l][field]; ok {
		return s
	}
	return field
}

// Fail builds a single field error outside the validator, worded from the
// same catalogue. params fill {1}, {2}, ...
func Fail(l lang.Lang, field, key string, params ...string) *apperr.ValidationError {
	text, ok := catalogue[l][key]
	if !ok {
		text = catalogue[lang.English][key]
	}
	msg := strings.ReplaceAll(text, "{0}", Label(l, field))
	for i, p := range params {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{%d}", i+1), p)
	}

	rule := key
	if i := strings.IndexByte(key, '-'); i > 0 {
		rule = key[:i]
	}
	return apperr.NewValidationError(field, rule, msg)
}

func registerMessages(v *validator.Validate, trans ut.Translator, l lang.Lang) error {
	for key, text := range catalogue[l] {
		if err := trans.Add(key, text, true); err != nil {
			return err
		}
	}

	simple := []string{"required", "email", "url", "startswith", "gt", "saphone", "otpcode", "strongpass", "coordinates"}
	for _, tag := range simple {
		if err := register(v, trans, l, tag, func(fe validator.FieldError) (string, string) {
			return fe.Tag(), ""
		}); err != nil {
			return err
		}
	}

	for _, tag := range []string{"script", "richscript"} {
		if err := register(v, trans, l, tag, func(validator.FieldError) (string, string) {
			return "script", ""
		}); err != nil {
			return err
		}
	}

	bounds := map[string]string{"min": "min", "max": "max", "gte": "min", "lte": "max"}
	for tag, dir := range bounds {
		dir := dir
		if err := register(v, trans, l, tag, func(fe validator.FieldError) (string, string) {
			if isLength(fe.Kind()) {
				return dir + "-length", fe.Param()
			}
			return dir + "-number", fe.Param()
		}); err != nil {
			return err
		}
	}

	enums := map[string][]string{"unittype": types.UnitTypes, "unitstatus": types.UnitStatuses}
	if err := register(v, trans, l, "oneof", func(fe validator.FieldError) (string, string) {
		return "oneof", strings.Join(strings.Fields(fe.Param()), ", ")
	}); err != nil {
		return err
	}
	for tag, values := range enums {
		values := values
		if err := register(v, trans, l, tag, func(validator.FieldError) (string, string) {
			return "oneof", strings.Join(values, ", ")
		}); err != nil {
			return err
		}
	}

	return nil
}

// register binds tag to a catalogue entry. pick returns the catalogue key and
// the second message parameter.
func register(v *validator.Validate, trans ut.Translator, l lang.Lang, tag string, pick func(validator.FieldError) (string, string)) error {
	return v.RegisterTranslation(tag, trans,
		func(ut.Translator) error { return nil },
		func(t ut.Translator, fe validator.FieldError) string {
			key, param := pick(fe)
			msg, err := t.T(key, Label(l, fe.Field()), param)
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
