package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/shiftsad/lobby/pkg/utils/json"
)

func decodeDocument(data []byte, format Format) (map[string]any, error) {
	var raw any
	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, err
			}
		}
	case FormatTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		if m != nil {
			raw = m
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	if raw == nil {
		return map[string]any{}, nil
	}
	n, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	rec, ok := n.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root is a %s, want record", KindOf(n))
	}
	return rec, nil
}

// dollarMark stands in for "$" while gotenv parses, since gotenv expands
// references from the process environment. The loader expands them later
// through its own lookup.
const dollarMark = "\uE000"

// decodeKeyValue parses "dotted.key = value" lines. Values pass through
// expand, when set, and are then typed by literal inference.
func decodeKeyValue(data []byte, expand func(string) string) (map[string]any, error) {
	masked := bytes.ReplaceAll(data, []byte("$"), []byte(dollarMark))
	pairs, err := gotenv.StrictParse(bytes.NewReader(masked))
	if err != nil {
		return nil, err
	}
	tree := make(map[string]any, len(pairs))
	for _, k := range sortedKeys(pairs) {
		segs, err := splitKey(k)
		if err != nil {
			return nil, err
		}
		val := strings.ReplaceAll(pairs[k], dollarMark, "$")
		if expand != nil {
			val = expand(val)
		}
		if err := insert(tree, segs, inferLiteral(val)); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// decodeEnviron selects the variables carrying prefix. The remainder of the
// name is lower-cased and "__" separates path segments, so with prefix
// "LOBBY_" the variable LOBBY_LOBBY__SPAWN__X addresses lobby.spawn.x.
func decodeEnviron(environ []string, prefix string) (map[string]any, error) {
	// No delimiter: the provider returns flat keys so conflicting paths
	// are reported by insert instead of being silently dropped.
	provider := env.Provider("", env.Opt{
		Prefix:      prefix,
		EnvironFunc: func() []string {
			return slices.DeleteFunc(slices.Clone(environ), func(kv string) bool {
				return !strings.Contains(kv, "=")
			})
		},
		TransformFunc: func(k, v string) (string, any) {
			return envKey(strings.TrimPrefix(k, prefix)), v
		},
	})
	vars, err := provider.Read()
	if err != nil {
		return nil, err
	}

	tree := make(map[string]any, len(vars))
	for _, k := range sortedKeys(vars) {
		if err := insert(tree, strings.Split(k, "."), inferLiteral(vars[k].(string))); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func envKey(name string) string {
	segs := strings.Split(strings.ToLower(name), "__")
	for _, s := range segs {
		if s == "" {
			return ""
		}
	}
	return strings.Join(segs, ".")
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
