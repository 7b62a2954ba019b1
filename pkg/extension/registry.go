package extension

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kart-io/logger"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

// State is the lifecycle stage of a Registry.
type State int32

const (
	StateEmpty State = iota
	StatePopulating
	StateFrozen
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulating:
		return "populating"
	case StateFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// view is the read model of a registry.
type view struct {
	all       []Descriptor
	commands  map[string]Descriptor
	listeners map[string][]Descriptor
	consumers []Descriptor
}

func newView() *view {
	return &view{
		commands:  make(map[string]Descriptor),
		listeners: make(map[string][]Descriptor),
	}
}

// Registry collects extension descriptors. The zero value is not usable;
// call NewRegistry.
type Registry struct {
	mu          sync.Mutex
	state       State
	building    *view
	listenerIDs map[string]string
	consumerIDs map[string]string

	frozen atomic.Pointer[view]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		building:    newView(),
		listenerIDs: make(map[string]string),
		consumerIDs: make(map[string]string),
	}
}

// Register inserts d. Command aliases are compared case-insensitively and
// include secondary aliases. On error the registry is unchanged.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateFrozen {
		return &RegistrationError{Kind: RegistryFrozen, Key: d.ID, Unit: d.Unit}
	}

	d, err := d.normalize()
	if err != nil {
		return errno.ErrInvalidArgument.WithCause(err)
	}

	v := r.building
	switch d.Kind {
	case KindCommand:
		names := d.Names()
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			key := strings.ToLower(name)
			if existing, ok := v.commands[key]; ok {
				return &RegistrationError{Kind: DuplicateAlias, Key: key, Unit: d.Unit, Existing: existing.Unit}
			}
			if seen[key] {
				return &RegistrationError{Kind: DuplicateAlias, Key: key, Unit: d.Unit, Existing: d.Unit}
			}
			seen[key] = true
		}
		for key := range seen {
			v.commands[key] = d
		}
	case KindListener:
		if existing, ok := r.listenerIDs[d.ID]; ok {
			return &RegistrationError{Kind: DuplicateAlias, Key: d.ID, Unit: d.Unit, Existing: existing}
		}
		r.listenerIDs[d.ID] = d.Unit
		v.listeners[d.Event] = append(v.listeners[d.Event], d)
	case KindConsumer:
		if existing, ok := r.consumerIDs[d.ID]; ok {
			return &RegistrationError{Kind: DuplicateAlias, Key: d.ID, Unit: d.Unit, Existing: existing}
		}
		r.consumerIDs[d.ID] = d.Unit
		v.consumers = append(v.consumers, d)
	}
	v.all = append(v.all, d)
	r.state = StatePopulating

	logger.Debugw("registered extension", "kind", d.Kind.String(), "id", d.ID, "unit", d.Unit)
	return nil
}

// Freeze makes the registry read-only. Calling it again is a no-op.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateFrozen {
		return
	}
	r.state = StateFrozen
	r.frozen.Store(r.building)
	r.building = nil
	logger.Debugw("extension registry frozen", "extensions", len(r.frozen.Load().all))
}

// State reports the lifecycle stage.
func (r *Registry) State() State {
	if r.frozen.Load() != nil {
		return StateFrozen
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// read runs fn against the current view. Once frozen no lock is taken.
func (r *Registry) read(fn func(v *view)) {
	if v := r.frozen.Load(); v != nil {
		fn(v)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.frozen.Load(); v != nil {
		fn(v)
		return
	}
	fn(r.building)
}

// CommandsByAlias maps every lower-cased alias, primary and secondary, to
// its command.
func (r *Registry) CommandsByAlias() map[string]Descriptor {
	var out map[string]Descriptor
	r.read(func(v *view) {
		out = make(map[string]Descriptor, len(v.commands))
		for k, d := range v.commands {
			out[k] = d.clone()
		}
	})
	return out
}

// Command looks up a command by any of its aliases, ignoring case.
func (r *Registry) Command(alias string) (Descriptor, bool) {
	var (
		d  Descriptor
		ok bool
	)
	r.read(func(v *view) { d, ok = v.commands[strings.ToLower(alias)] })
	return d.clone(), ok
}

// Commands returns each command once, in registration order.
func (r *Registry) Commands() []Descriptor {
	return r.byKind(KindCommand)
}

// ListenersForEvent returns the listeners of event in registration order.
func (r *Registry) ListenersForEvent(event string) []Descriptor {
	var out []Descriptor
	r.read(func(v *view) { out = cloneAll(v.listeners[event]) })
	return out
}

// Events returns the events that have at least one listener, sorted.
func (r *Registry) Events() []string {
	var out []string
	r.read(func(v *view) { out = slices.Sorted(maps.Keys(v.listeners)) })
	return out
}

// Consumers returns the config consumers in registration order.
func (r *Registry) Consumers() []Descriptor {
	var out []Descriptor
	r.read(func(v *view) { out = cloneAll(v.consumers) })
	return out
}

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	var out []Descriptor
	r.read(func(v *view) { out = cloneAll(v.all) })
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	var n int
	r.read(func(v *view) { n = len(v.all) })
	return n
}

func (r *Registry) byKind(k Kind) []Descriptor {
	var out []Descriptor
	r.read(func(v *view) {
		for _, d := range v.all {
			if d.Kind == k {
				out = append(out, d.clone())
			}
		}
	})
	return out
}

func cloneAll(ds []Descriptor) []Descriptor {
	if ds == nil {
		return nil
	}
	out := make([]Descriptor, len(ds))
	for i, d := range ds {
		out[i] = d.clone()
	}
	return out
}

// RegisterAll registers descriptors in order and stops at the first error.
func RegisterAll(r *Registry, descriptors []Descriptor) error {
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
