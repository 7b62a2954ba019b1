package config

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Merge combines trees into a new tree. Later trees override earlier ones;
// records merge recursively while scalars and lists are replaced whole.
// The inputs are never modified and the result shares no memory with them.
func Merge(trees ...map[string]any) map[string]any {
	k := koanf.New(".")
	for _, t := range trees {
		// confmap copies its input and never fails to read.
		_ = k.Load(confmap.Provider(t, ""), nil)
	}
	return k.Raw()
}
