package scanner

import (
	"context"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kart-io/logger"
	"github.com/stoewer/go-strcase"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/extension"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithCatalog replaces the default catalog.
func WithCatalog(c *Catalog) Option {
	return func(s *Scanner) { s.catalog = c }
}

// WithUnits adds units from another source, such as a manifest.
func WithUnits(units ...Unit) Option {
	return func(s *Scanner) { s.extra = append(s.extra, units...) }
}

// WithSnapshot resolves config consumers against snap: each consumer record
// is bound at its path and attached to the descriptor.
func WithSnapshot(snap *config.Snapshot, opts ...binder.Option) Option {
	return func(s *Scanner) {
		s.snapshot = snap
		s.bindOpts = opts
	}
}

// Scanner turns declared units into descriptors.
type Scanner struct {
	catalog  *Catalog
	extra    []Unit
	snapshot *config.Snapshot
	bindOpts []binder.Option
}

// New creates a scanner over the default catalog.
func New(opts ...Option) *Scanner {
	s := &Scanner{catalog: Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan visits every unit under roots in lexicographic order of name and
// returns their descriptors. The first invalid declaration aborts the scan.
//
// A root is an exact package path, a package prefix ending in "/...", or a
// doublestar pattern such as "**/lobby".
func (s *Scanner) Scan(ctx context.Context, roots []string) ([]extension.Descriptor, error) {
	matchers, err := compileRoots(roots)
	if err != nil {
		return nil, err
	}

	units, err := s.units()
	if err != nil {
		return nil, err
	}

	var out []extension.Descriptor
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !matchAny(matchers, u.Package) {
			continue
		}
		logger.Debugw("scanning unit", "unit", u.Name, "markers", len(u.Markers))
		ds, err := s.describe(u)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	logger.Debugw("scan complete", "roots", roots, "units", len(units), "extensions", len(out))
	return out, nil
}

// units merges the catalog with extra units, sorted by name.
func (s *Scanner) units() ([]Unit, error) {
	var units []Unit
	if s.catalog != nil {
		units = s.catalog.Units()
	}
	seen := make(map[string]bool, len(units)+len(s.extra))
	for _, u := range units {
		seen[u.Name] = true
	}
	for _, u := range s.extra {
		if u.Name == "" {
			return nil, invalid("", "unit without a name")
		}
		if seen[u.Name] {
			return nil, invalid(u.Name, "unit declared twice")
		}
		seen[u.Name] = true
		if u.Package == "" {
			u.Package, _ = splitName(u.Name)
		}
		units = append(units, u)
	}
	slices.SortFunc(units, func(a, b Unit) int { return strings.Compare(a.Name, b.Name) })
	return units, nil
}

func (s *Scanner) describe(u Unit) ([]extension.Descriptor, error) {
	out := make([]extension.Descriptor, 0, len(u.Markers))
	for _, m := range u.Markers {
		var d extension.Descriptor
		switch m := m.(type) {
		case CommandMarker:
			if strings.TrimSpace(m.Alias) == "" {
				return nil, invalid(u.Name, "command declared without an alias")
			}
			for _, a := range m.Aliases {
				if strings.TrimSpace(a) == "" {
					return nil, invalid(u.Name, "command %q declares an empty alias", m.Alias)
				}
			}
			d = extension.Descriptor{
				Kind:        extension.KindCommand,
				ID:          m.Alias,
				Alias:       m.Alias,
				Aliases:     slices.Clone(m.Aliases),
				Description: m.Description,
				Permission:  m.Permission,
			}
		case ListenerMarker:
			if strings.TrimSpace(m.Event) == "" {
				return nil, invalid(u.Name, "listener declared without an event")
			}
			id := m.ID
			if id == "" {
				id = extension.ListenerID(u.Name, m.Event)
			}
			d = extension.Descriptor{Kind: extension.KindListener, ID: id, Event: m.Event}
		case ConsumerMarker:
			var err error
			if d, err = s.consumer(u, m); err != nil {
				return nil, err
			}
		default:
			return nil, invalid(u.Name, "unsupported marker %T", m)
		}

		if d.Kind != extension.KindConsumer && u.Factory == nil {
			return nil, invalid(u.Name, "%s declared without a factory", d.Kind)
		}
		d.Unit = u.Name
		d.Factory = u.Factory
		out = append(out, d)
	}
	return out, nil
}

func (s *Scanner) consumer(u Unit, m ConsumerMarker) (extension.Descriptor, error) {
	if m.Schema == nil {
		return extension.Descriptor{}, invalid(u.Name, "config consumer declared without a schema")
	}
	path := m.Path
	if path == "" {
		path = strcase.SnakeCase(u.TypeName())
	}
	if path == "" {
		return extension.Descriptor{}, invalid(u.Name, "config consumer has no path and no type name")
	}

	d := extension.Descriptor{
		Kind:       extension.KindConsumer,
		ID:         path,
		ConfigPath: path,
		Schema:     m.Schema,
	}
	if s.snapshot != nil {
		cfg, err := binder.BindSchema(s.snapshot, m.Schema, append(slices.Clone(s.bindOpts), binder.At(path))...)
		if err != nil {
			return extension.Descriptor{}, &ScanError{
				Kind: InvalidDeclaration, Unit: u.Name,
				Reason: "config dependency at " + path + " cannot be bound", Cause: err,
			}
		}
		d.Config = cfg
	}
	return d, nil
}

type rootMatcher func(pkg string) bool

func compileRoots(roots []string) ([]rootMatcher, error) {
	if len(roots) == 0 {
		return nil, invalid("roots", "no scan roots configured")
	}
	out := make([]rootMatcher, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		switch {
		case root == "":
			return nil, invalid("roots", "empty scan root")
		case strings.HasSuffix(root, "/..."):
			prefix := strings.TrimSuffix(root, "/...")
			out = append(out, func(pkg string) bool {
				return pkg == prefix || strings.HasPrefix(pkg, prefix+"/")
			})
		case strings.ContainsAny(root, "*?[{"):
			if !doublestar.ValidatePattern(root) {
				return nil, invalid("roots", "malformed scan root %q", root)
			}
			out = append(out, func(pkg string) bool {
				return doublestar.MatchUnvalidated(root, pkg)
			})
		default:
			out = append(out, func(pkg string) bool { return pkg == root })
		}
	}
	return out, nil
}

func matchAny(matchers []rootMatcher, pkg string) bool {
	for _, m := range matchers {
		if m(pkg) {
			return true
		}
	}
	return false
}
