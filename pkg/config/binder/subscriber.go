package binder

import (
	"fmt"

	"github.com/shiftsad/lobby/pkg/config"
)

// Subscriber returns a config.ChangeHandler that binds a T at prefix from
// every reloaded snapshot and hands it to apply. Binding failures are
// returned without calling apply, so the component keeps its last good
// record.
func Subscriber[T any](prefix string, schema *Schema, apply func(T) error, opts ...Option) config.ChangeHandler {
	return func(snap *config.Snapshot) error {
		rec, err := BindAt[T](snap, prefix, schema, opts...)
		if err != nil {
			return fmt.Errorf("failed to bind config key '%s': %w", prefix, err)
		}
		if err := apply(rec); err != nil {
			return fmt.Errorf("component rejected config change: %w", err)
		}
		return nil
	}
}
