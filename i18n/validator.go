package i18n

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
)

const (
	LocaleEN = "en"
	LocaleFR = "fr"

	DefaultLocale = LocaleEN
)

var (
	once     sync.Once
	validate *validator.Validate
	uni      *ut.UniversalTranslator
)

func setup() {
	enLocale := en.New()
	uni = ut.New(enLocale, enLocale, fr.New())

	validate = validator.New()
	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enT, _ := uni.GetTranslator(LocaleEN)
	frT, _ := uni.GetTranslator(LocaleFR)
	_ = en_translations.RegisterDefaultTranslations(validate, enT)
	_ = fr_translations.RegisterDefaultTranslations(validate, frT)
}

// Validator returns the shared validator with JSON field names.
func Validator() *validator.Validate {
	once.Do(setup)
	return validate
}

// Translator returns the validation translator for locale, falling back to English.
func Translator(locale string) ut.Translator {
	once.Do(setup)
	t, found := uni.GetTranslator(Normalize(locale))
	if !found {
		t, _ = uni.GetTranslator(DefaultLocale)
	}
	return t
}

// Validate runs struct validation on v.
func Validate(v interface{}) error {
	return Validator().Struct(v)
}

// ValidationErrors turns a validator error into a field -> localized message map.
// It returns nil when err is not a validation error.
func ValidationErrors(locale string, err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	t := Translator(locale)
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(t)
	}
	return out
}

// Normalize maps an Accept-Language value to a supported locale.
func Normalize(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		switch tag {
		case LocaleEN, LocaleFR:
			return tag
		}
	}
	return DefaultLocale
}
