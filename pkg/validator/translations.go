package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// registerCustomTranslations registers translations for custom validation rules.
func (v *Validator) registerCustomTranslations() {
	if enTrans := v.GetTranslator(LangEN); enTrans != nil {
		v.registerTranslations(enTrans, map[string]string{
			TagMCName:       "{0} must be a valid Minecraft name (3-16 letters, digits or underscores)",
			TagSlug:         "{0} must be a valid slug (lowercase letters, numbers, and hyphens)",
			TagPermission:   "{0} must be a dotted permission node",
			TagNoWhitespace: "{0} must not contain whitespace characters",
			TagTrimmed:      "{0} must not have leading or trailing spaces",
		})
	}

	if zhTrans := v.GetTranslator(LangZH); zhTrans != nil {
		v.registerTranslations(zhTrans, map[string]string{
			TagMCName:       "{0}必须是有效的Minecraft名称（3-16个字母、数字或下划线）",
			TagSlug:         "{0}必须是有效的别名（小写字母、数字和连字符）",
			TagPermission:   "{0}必须是以点分隔的权限节点",
			TagNoWhitespace: "{0}不能包含空白字符",
			TagTrimmed:      "{0}不能有前导或尾随空格",
		})
	}
}

func (v *Validator) registerTranslations(trans ut.Translator, messages map[string]string) {
	for tag, message := range messages {
		_ = v.validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
	}
}
