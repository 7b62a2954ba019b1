package config

import (
	"fmt"

	"github.com/knadh/koanf/maps"
	"github.com/mitchellh/copystructure"
)

// Kind is the shape of a configuration value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindList
	KindRecord
)

var kindNames = [...]string{"null", "string", "number", "boolean", "list", "record"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf reports the kind of a tree value.
func KindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case bool:
		return KindBoolean
	case []any:
		return KindList
	case map[string]any:
		return KindRecord
	default:
		return KindNull
	}
}

// Value is a single node of a snapshot.
type Value struct {
	path string
	raw  any
}

// Path returns the dotted path the value was read from.
func (v Value) Path() string { return v.path }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return KindOf(v.raw) }

// Interface returns a deep copy of the underlying value.
func (v Value) Interface() any { return cloneValue(v.raw) }

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneRecord(t)
	case []any:
		if t == nil {
			return t
		}
		out, err := copystructure.Copy(t)
		if err != nil {
			panic(err)
		}
		return out
	default:
		return t
	}
}

func cloneRecord(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Copy(m)
}
