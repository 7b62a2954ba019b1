package config

import "fmt"

// Reloadable defines the interface for components that can handle configuration changes.
// Implementations should validate the new configuration and apply changes atomically.
type Reloadable interface {
	OnConfigChange(snap *Snapshot) error
}

// ReloadableSubscriber adapts a Reloadable component to a ChangeHandler,
// optionally narrowing the snapshot to one record.
type ReloadableSubscriber struct {
	component Reloadable
	configKey string
}

// NewReloadableSubscriber creates a new subscriber for a Reloadable component.
// configKey is the record to hand over (e.g. "lobby"); empty means the whole
// snapshot.
func NewReloadableSubscriber(component Reloadable, configKey string) *ReloadableSubscriber {
	return &ReloadableSubscriber{component: component, configKey: configKey}
}

// Handler returns a ChangeHandler that can be registered with the Watcher.
func (rs *ReloadableSubscriber) Handler() ChangeHandler {
	return func(snap *Snapshot) error {
		target := snap
		if rs.configKey != "" {
			sub, ok := snap.Sub(rs.configKey)
			if !ok {
				return fmt.Errorf("config key '%s' is not a record", rs.configKey)
			}
			target = sub
		}
		if err := rs.component.OnConfigChange(target); err != nil {
			return fmt.Errorf("component rejected config change: %w", err)
		}
		return nil
	}
}
