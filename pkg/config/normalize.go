package config

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/maps"
)

// NormalizeValue converts decoded data into the value vocabulary of a
// snapshot.
func NormalizeValue(v any) (any, error) {
	return normalize(v)
}

// normalize converts decoded data into the tree vocabulary: map[string]any,
// []any, string, float64, bool and nil.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return t, nil
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return toFloat(t), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			n, err := normalizeRecord(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		return normalizeRecord(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = e
		}
		return normalizeRecord(m)
	case fmt.Stringer:
		return t.String(), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// normalizeRecord copies m, expanding dotted keys into nested records.
func normalizeRecord(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		segs, err := splitKey(k)
		if err != nil {
			return nil, err
		}
		v, err := normalize(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		if err := insert(out, segs, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func splitKey(key string) ([]string, error) {
	segs := strings.Split(key, ".")
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("invalid key %q", key)
		}
	}
	return segs, nil
}

// insert places v at segs below dst, creating intermediate records.
func insert(dst map[string]any, segs []string, v any) error {
	for i, seg := range segs[:len(segs)-1] {
		next, ok := dst[seg]
		if !ok {
			child := make(map[string]any)
			dst[seg] = child
			dst = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("key %q is both a value and a record", strings.Join(segs[:i+1], "."))
		}
		dst = child
	}

	last := segs[len(segs)-1]
	if existing, ok := dst[last]; ok {
		er, eok := existing.(map[string]any)
		vr, vok := v.(map[string]any)
		if !eok || !vok {
			return fmt.Errorf("key %q is defined more than once", strings.Join(segs, "."))
		}
		maps.Merge(vr, er)
		return nil
	}
	dst[last] = v
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return 0
}

var numberLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// inferLiteral types a raw key/value string: true/false become booleans,
// decimal literals become numbers, everything else stays a string.
func inferLiteral(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if numberLiteral.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
