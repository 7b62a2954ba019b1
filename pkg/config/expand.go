package config

import "regexp"

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandString replaces ${VAR} and $VAR references. Unresolved references
// are kept verbatim.
func expandString(s string, lookup func(string) (string, bool)) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if v, ok := lookup(name); ok {
			return v
		}
		return match
	})
}

// expandTree rewrites every string in an owned tree in place.
func expandTree(v any, lookup func(string) (string, bool)) any {
	switch t := v.(type) {
	case string:
		return expandString(t, lookup)
	case []any:
		for i, e := range t {
			t[i] = expandTree(e, lookup)
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = expandTree(e, lookup)
		}
		return t
	default:
		return t
	}
}
