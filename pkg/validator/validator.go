// Package validator provides constraint checking for bound configuration
// records, based on go-playground/validator. Field names in errors are the
// configuration keys taken from `config` struct tags.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/stoewer/go-strcase"
)

// Language constants for i18n support.
const (
	LangEN = "en"
	LangZH = "zh"
)

// Validator wraps go-playground/validator with additional features.
type Validator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
	trans    map[string]ut.Translator
	mu       sync.RWMutex
}

var (
	globalValidator *Validator
	once            sync.Once
)

// Global returns the global validator instance.
// It initializes the validator on first call with default settings.
func Global() *Validator {
	once.Do(func() {
		if globalValidator == nil {
			globalValidator = New()
		}
	})
	return globalValidator
}

// SetGlobal sets the global validator instance.
func SetGlobal(v *Validator) {
	once.Do(func() {})
	globalValidator = v
}

// KeyName returns the configuration key of a struct field: the name part of
// its `config` tag, or the snake_case field name. "-" means the field is not
// configuration.
func KeyName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("config"), ",", 2)[0]
	if name == "" {
		name = strcase.SnakeCase(fld.Name)
	}
	return name
}

// New creates a new Validator instance with default configuration.
func New() *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		trans:    make(map[string]ut.Translator),
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := KeyName(fld)
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	zhLocale := zh.New()
	v.uni = ut.New(enLocale, enLocale, zhLocale)

	enTrans, _ := v.uni.GetTranslator(LangEN)
	_ = en_translations.RegisterDefaultTranslations(v.validate, enTrans)
	v.trans[LangEN] = enTrans

	zhTrans, _ := v.uni.GetTranslator(LangZH)
	_ = zh_translations.RegisterDefaultTranslations(v.validate, zhTrans)
	v.trans[LangZH] = zhTrans

	v.registerCustomRules()
	v.registerCustomTranslations()

	return v
}

// Validate validates a struct and returns the raw go-playground errors.
func (v *Validator) Validate(s any) error {
	return v.validate.Struct(s)
}

// ValidateWithLang validates a struct and returns translated validation errors.
func (v *Validator) ValidateWithLang(s any, lang string) *ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError("", "unknown", err.Error())
	}
	return v.translateErrors(validationErrors, v.GetTranslator(lang))
}

// ValidateVar validates a single variable.
func (v *Validator) ValidateVar(field any, tag string) error {
	return v.validate.Var(field, tag)
}

// GetTranslator returns a translator for the specified language.
func (v *Validator) GetTranslator(lang string) ut.Translator {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if trans, ok := v.trans[lang]; ok {
		return trans
	}
	return v.trans[LangEN]
}

// RegisterValidation registers a custom validation function.
func (v *Validator) RegisterValidation(tag string, fn validator.Func, callValidationEvenIfNull ...bool) error {
	return v.validate.RegisterValidation(tag, fn, callValidationEvenIfNull...)
}

// translateErrors converts go-playground errors into ValidationErrors. The
// path of each error is its namespace without the leading type name.
func (v *Validator) translateErrors(errs validator.ValidationErrors, trans ut.Translator) *ValidationErrors {
	result := &ValidationErrors{
		Errors: make([]FieldError, 0, len(errs)),
	}

	for _, err := range errs {
		path := err.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		result.Errors = append(result.Errors, FieldError{
			Field:   err.Field(),
			Path:    path,
			Tag:     err.Tag(),
			Value:   err.Value(),
			Param:   err.Param(),
			Message: err.Translate(trans),
		})
	}

	return result
}

// Var validates a single variable with the global validator.
func Var(field any, tag string) error {
	return Global().ValidateVar(field, tag)
}
