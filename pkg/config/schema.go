package config

import (
	"bytes"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/shiftsad/lobby/pkg/utils/json"
)

// compileSchema resolves a JSON schema given as JSON or YAML text.
func compileSchema(src []byte) (*jsonschema.Resolved, error) {
	data := bytes.TrimSpace(src)
	if len(data) > 0 && data[0] != '{' {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		var err error
		if data, err = json.Marshal(plain(doc)); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return resolved, nil
}

// plain converts YAML maps with non-string keys so the value can be encoded
// as JSON. Keys are kept verbatim.
func plain(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = plain(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return t
	}
}
