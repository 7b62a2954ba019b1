package scanner

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/extension"
)

// Marker tags a unit with the role it plays.
type Marker interface {
	kind() extension.Kind
}

// CommandMarker declares a command.
type CommandMarker struct {
	Alias       string
	Aliases     []string
	Description string
	Permission  string
}

func (CommandMarker) kind() extension.Kind { return extension.KindCommand }

// ListenerMarker declares an event listener. ID defaults to the unit name
// joined with the event.
type ListenerMarker struct {
	Event string
	ID    string
}

func (ListenerMarker) kind() extension.Kind { return extension.KindListener }

// ConsumerMarker declares a config consumer. Path defaults to the snake_case
// type name of the unit.
type ConsumerMarker struct {
	Path   string
	Schema *binder.Schema
}

func (ConsumerMarker) kind() extension.Kind { return extension.KindConsumer }

// Unit is a declared code unit.
type Unit struct {
	// Name is fully qualified: "<package path>.<TypeName>".
	Name    string
	Package string
	Markers []Marker
	Factory extension.Factory
}

// NewUnit describes the type T. Its name and package come from reflection.
func NewUnit[T any](factory extension.Factory, markers ...Marker) Unit {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Unit{
		Name:    t.PkgPath() + "." + t.Name(),
		Package: t.PkgPath(),
		Markers: markers,
		Factory: factory,
	}
}

// TypeName returns the unqualified type name of the unit.
func (u Unit) TypeName() string {
	_, name := splitName(u.Name)
	return name
}

// splitName splits "a.b/c/pkg.Type" into "a.b/c/pkg" and "Type".
func splitName(name string) (pkg, typ string) {
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return name, ""
	}
	dot += slash + 1
	return name[:dot], name[dot+1:]
}

// Catalog holds declared units by name.
type Catalog struct {
	mu    sync.RWMutex
	units map[string]Unit
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{units: make(map[string]Unit)}
}

// Declare adds u. A unit name may be declared only once.
func (c *Catalog) Declare(u Unit) error {
	if u.Name == "" {
		return fmt.Errorf("scanner: unit name is required")
	}
	if u.Package == "" {
		u.Package, _ = splitName(u.Name)
	}
	u.Markers = slices.Clone(u.Markers)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.units[u.Name]; ok {
		return fmt.Errorf("scanner: unit %s declared twice", u.Name)
	}
	c.units[u.Name] = u
	return nil
}

// MustDeclare is like Declare but panics on error.
func (c *Catalog) MustDeclare(u Unit) {
	if err := c.Declare(u); err != nil {
		panic(err)
	}
}

// Units returns the declared units sorted by name.
func (c *Catalog) Units() []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := slices.Sorted(maps.Keys(c.units))
	out := make([]Unit, 0, len(names))
	for _, name := range names {
		out = append(out, c.units[name])
	}
	return out
}

// Len returns the number of declared units.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.units)
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog filled by Declare.
func Default() *Catalog { return defaultCatalog }

// Declare adds u to the default catalog. It is meant for init functions and
// panics on a duplicate name.
func Declare(u Unit) {
	defaultCatalog.MustDeclare(u)
}
