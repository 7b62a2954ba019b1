package validator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Custom validation tags
const (
	TagMCName       = "mcname"       // Minecraft profile name (3-16 letters, digits, underscores)
	TagSlug         = "slug"         // Server or network slug (lowercase alphanumeric and hyphens)
	TagPermission   = "permission"   // Dotted permission node, e.g. lobby.command.spawn
	TagNoWhitespace = "nowhitespace" // No whitespace characters
	TagTrimmed      = "trimmed"      // No leading/trailing spaces
)

var (
	mcNameRegex     = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)
	slugRegex       = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	permissionRegex = regexp.MustCompile(`^[a-z0-9_\-]+(\.([a-z0-9_\-]+|\*))*$`)
)

// registerCustomRules registers all custom validation rules.
func (v *Validator) registerCustomRules() {
	_ = v.validate.RegisterValidation(TagMCName, matchRegex(mcNameRegex))
	_ = v.validate.RegisterValidation(TagSlug, matchRegex(slugRegex))
	_ = v.validate.RegisterValidation(TagPermission, matchRegex(permissionRegex))
	_ = v.validate.RegisterValidation(TagNoWhitespace, validateNoWhitespace)
	_ = v.validate.RegisterValidation(TagTrimmed, validateTrimmed)
}

// matchRegex builds a rule for string fields. Empty values pass; use
// 'required' to reject them.
func matchRegex(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return re.MatchString(value)
	}
}

func validateNoWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func validateTrimmed(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == strings.TrimSpace(value)
}
