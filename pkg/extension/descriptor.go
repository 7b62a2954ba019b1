package extension

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/validator"
)

// Kind is the role an extension plays in the host.
type Kind int

const (
	KindCommand Kind = iota + 1
	KindListener
	KindConsumer
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindListener:
		return "listener"
	case KindConsumer:
		return "config-consumer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts the textual form used in manifests.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "command":
		return KindCommand, nil
	case "listener":
		return KindListener, nil
	case "config-consumer", "consumer":
		return KindConsumer, nil
	default:
		return 0, fmt.Errorf("unknown extension kind %q", s)
	}
}

// Factory builds the invocable unit behind a descriptor. It is only called
// during activation.
type Factory func() (any, error)

// Descriptor identifies one discovered extension before activation.
type Descriptor struct {
	Kind Kind
	// ID is stable across runs: the primary alias of a command, the listener
	// id, or the config path of a consumer.
	ID string
	// Unit is the fully-qualified name of the declaring code unit.
	Unit string

	Alias       string
	Aliases     []string
	Description string
	Permission  string

	Event string

	ConfigPath string
	Schema     *binder.Schema
	// Config is the record bound at ConfigPath, when a snapshot was
	// available at scan time.
	Config any

	Factory Factory
}

// Names returns every alias a command answers to, primary first.
func (d Descriptor) Names() []string {
	if d.Kind != KindCommand {
		return nil
	}
	names := make([]string, 0, 1+len(d.Aliases))
	names = append(names, d.Alias)
	return append(names, d.Aliases...)
}

// ListenerID derives the default listener id of a unit for an event.
func ListenerID(unit, event string) string {
	return unit + "#" + event
}

// normalize fills the derived id and rejects descriptors missing the
// metadata their kind requires.
func (d Descriptor) normalize() (Descriptor, error) {
	if d.Unit == "" {
		return d, fmt.Errorf("extension %s: unit name is required", d.Kind)
	}
	switch d.Kind {
	case KindCommand:
		if d.Alias == "" {
			return d, fmt.Errorf("command %s: alias is required", d.Unit)
		}
		for _, a := range d.Aliases {
			if strings.TrimSpace(a) == "" {
				return d, fmt.Errorf("command %s: empty secondary alias", d.Unit)
			}
		}
		for _, name := range d.Names() {
			if err := validator.Var(name, validator.TagNoWhitespace); err != nil {
				return d, fmt.Errorf("command %s: alias %q contains whitespace", d.Unit, name)
			}
		}
		if err := validator.Var(d.Permission, validator.TagPermission); err != nil {
			return d, fmt.Errorf("command %s: invalid permission node %q", d.Unit, d.Permission)
		}
		if d.ID == "" {
			d.ID = d.Alias
		}
	case KindListener:
		if d.Event == "" {
			return d, fmt.Errorf("listener %s: event is required", d.Unit)
		}
		if d.ID == "" {
			d.ID = ListenerID(d.Unit, d.Event)
		}
	case KindConsumer:
		if d.ConfigPath == "" {
			return d, fmt.Errorf("config consumer %s: config path is required", d.Unit)
		}
		if d.ID == "" {
			d.ID = d.ConfigPath
		}
	default:
		return d, fmt.Errorf("extension %s: unknown kind %d", d.Unit, int(d.Kind))
	}
	return d.clone(), nil
}

// clone copies the alias list so callers never share it with the registry.
func (d Descriptor) clone() Descriptor {
	d.Aliases = slices.Clone(d.Aliases)
	return d
}

func (d Descriptor) String() string {
	switch d.Kind {
	case KindCommand:
		return fmt.Sprintf("command %q (%s)", d.ID, d.Unit)
	case KindListener:
		return fmt.Sprintf("listener %q on %s (%s)", d.ID, d.Event, d.Unit)
	case KindConsumer:
		return fmt.Sprintf("config consumer %q (%s)", d.ID, d.Unit)
	default:
		return fmt.Sprintf("%s %q (%s)", d.Kind, d.ID, d.Unit)
	}
}
