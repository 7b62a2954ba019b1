package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/extension"
	"github.com/shiftsad/lobby/pkg/utils/json"
)

// Manifest is the declarative form of a set of units.
//
//	units:
//	  - name: github.com/acme/lobby/warps.WarpCommand
//	    factory: warp
//	    markers:
//	      - kind: command
//	        alias: warp
//	        aliases: [w]
//	      - kind: config-consumer
//	        path: lobby.warps
//	        schema: warps
type Manifest struct {
	Units []ManifestUnit `yaml:"units" json:"units"`
}

// ManifestUnit is one unit entry. Factory names an entry of the factory
// table and defaults to Name.
type ManifestUnit struct {
	Name    string           `yaml:"name" json:"name"`
	Factory string           `yaml:"factory" json:"factory"`
	Markers []ManifestMarker `yaml:"markers" json:"markers"`
}

// ManifestMarker is one marker entry. Schema names a schema of the binder
// registry.
type ManifestMarker struct {
	Kind        string   `yaml:"kind" json:"kind"`
	Alias       string   `yaml:"alias" json:"alias"`
	Aliases     []string `yaml:"aliases" json:"aliases"`
	Description string   `yaml:"description" json:"description"`
	Permission  string   `yaml:"permission" json:"permission"`
	Event       string   `yaml:"event" json:"event"`
	ID          string   `yaml:"id" json:"id"`
	Path        string   `yaml:"path" json:"path"`
	Schema      string   `yaml:"schema" json:"schema"`
}

// LoadManifest reads the manifest at path and resolves its factory and
// schema references. Read failures are ScanIOFailure; everything else is
// InvalidDeclaration.
func LoadManifest(path string, factories map[string]extension.Factory, schemas *binder.Registry) ([]Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScanError{Kind: ScanIOFailure, Unit: path, Reason: "cannot read manifest", Cause: err}
	}

	var m Manifest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, &ScanError{Kind: InvalidDeclaration, Unit: path, Reason: "malformed manifest", Cause: err}
	}
	return m.Resolve(factories, schemas)
}

// Resolve turns the manifest entries into units.
func (m Manifest) Resolve(factories map[string]extension.Factory, schemas *binder.Registry) ([]Unit, error) {
	units := make([]Unit, 0, len(m.Units))
	for i, mu := range m.Units {
		if mu.Name == "" {
			return nil, invalid("manifest", "unit #%d has no name", i)
		}
		u := Unit{Name: mu.Name}
		u.Package, _ = splitName(mu.Name)

		ref := mu.Factory
		if ref == "" {
			ref = mu.Name
		}
		if f, ok := factories[ref]; ok {
			u.Factory = f
		} else if mu.Factory != "" {
			return nil, invalid(mu.Name, "unknown factory %q", mu.Factory)
		}

		for j, mm := range mu.Markers {
			marker, err := mm.resolve(mu.Name, j, schemas)
			if err != nil {
				return nil, err
			}
			u.Markers = append(u.Markers, marker)
		}
		units = append(units, u)
	}
	return units, nil
}

func (mm ManifestMarker) resolve(unit string, index int, schemas *binder.Registry) (Marker, error) {
	kind, err := extension.ParseKind(mm.Kind)
	if err != nil {
		return nil, &ScanError{Kind: InvalidDeclaration, Unit: unit, Reason: fmt.Sprintf("marker #%d", index), Cause: err}
	}
	switch kind {
	case extension.KindCommand:
		return CommandMarker{Alias: mm.Alias, Aliases: mm.Aliases, Description: mm.Description, Permission: mm.Permission}, nil
	case extension.KindListener:
		return ListenerMarker{Event: mm.Event, ID: mm.ID}, nil
	default:
		if mm.Schema == "" {
			return ConsumerMarker{Path: mm.Path}, nil
		}
		if schemas == nil {
			return nil, invalid(unit, "schema %q referenced but no schema registry given", mm.Schema)
		}
		s, ok := schemas.Lookup(mm.Schema)
		if !ok {
			return nil, invalid(unit, "unknown schema %q", mm.Schema)
		}
		return ConsumerMarker{Path: mm.Path, Schema: s}, nil
	}
}
