package config

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

// Backend selects how a layer is read.
type Backend int

const (
	// BackendDocument reads a structured YAML, JSON or TOML document that may
	// be validated against a JSON schema.
	BackendDocument Backend = iota
	// BackendKeyValue reads one "dotted.key = value" entry per line.
	BackendKeyValue
	// BackendEnv reads prefixed process environment variables.
	BackendEnv
)

func (b Backend) String() string {
	switch b {
	case BackendDocument:
		return "document"
	case BackendKeyValue:
		return "kv"
	case BackendEnv:
		return "env"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend parses the textual backend names used in process options.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "", "document", "doc":
		return BackendDocument, nil
	case "kv", "keyvalue", "key-value", "properties":
		return BackendKeyValue, nil
	case "env", "environment":
		return BackendEnv, nil
	default:
		return 0, errno.ErrInvalidArgument.WithMessagef("unknown config backend %q", s)
	}
}

// Format is the encoding of a document layer.
type Format string

const (
	FormatAuto Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DetectFormat guesses the format from a file extension, defaulting to YAML.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// LayerSpec describes one configuration layer.
type LayerSpec struct {
	// Name identifies the layer in errors and logs. Defaults to the location.
	Name    string
	Backend Backend
	// Format of a document layer. Detected from the extension when empty.
	Format Format

	// Path is a file system location.
	Path string
	// Embedded holds a bundled default. It is read when Path is empty or
	// does not exist.
	Embedded fs.FS
	// EmbeddedPath is the name inside Embedded. Defaults to the base name of
	// Path.
	EmbeddedPath string
	// Materialize writes the embedded default to Path when Path is missing.
	Materialize bool

	// Required layers fail the load with MissingSource when absent.
	Required bool

	// Schema is a JSON schema (JSON or YAML text) a document must satisfy.
	Schema []byte
	// SchemaPath is read from disk when Schema is empty.
	SchemaPath string

	// EnvPrefix selects the variables of an env layer.
	EnvPrefix string
}

// DisplayName returns the layer name used in errors.
func (l LayerSpec) DisplayName() string {
	switch {
	case l.Name != "":
		return l.Name
	case l.Backend == BackendEnv:
		return "env:" + l.EnvPrefix
	case l.Path != "":
		return l.Path
	default:
		return "embedded:" + l.embeddedPath()
	}
}

func (l LayerSpec) embeddedPath() string {
	if l.EmbeddedPath != "" {
		return l.EmbeddedPath
	}
	if l.Path != "" {
		return path.Base(filepath.ToSlash(l.Path))
	}
	return ""
}

func (l LayerSpec) format() Format {
	if l.Format != FormatAuto {
		return l.Format
	}
	if l.Path != "" {
		return DetectFormat(l.Path)
	}
	return DetectFormat(l.embeddedPath())
}

func (l LayerSpec) validate() error {
	switch l.Backend {
	case BackendEnv:
		if l.EnvPrefix == "" {
			return errno.ErrInvalidArgument.WithMessage("env layer needs a prefix")
		}
		return nil
	case BackendDocument, BackendKeyValue:
	default:
		return errno.ErrInvalidArgument.WithMessagef("unknown backend %s", l.Backend)
	}

	if l.Path == "" && l.Embedded == nil {
		return errno.ErrInvalidArgument.WithMessage("layer needs a path or an embedded resource")
	}
	if l.Embedded != nil && l.embeddedPath() == "" {
		return errno.ErrInvalidArgument.WithMessage("embedded layer needs a resource name")
	}
	if l.Materialize && (l.Path == "" || l.Embedded == nil) {
		return errno.ErrInvalidArgument.WithMessage("materialize needs both a path and an embedded default")
	}
	switch l.format() {
	case FormatYAML, FormatJSON, FormatTOML:
	default:
		return errno.ErrInvalidArgument.WithMessagef("unsupported format %q", l.Format)
	}
	return nil
}
