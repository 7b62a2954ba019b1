package binder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/validator"
)

// Field describes one key of a record.
type Field struct {
	// Name is the key relative to the enclosing record.
	Name     string
	Kind     config.Kind
	Required bool
	// Default is the compiled default, already in snapshot form.
	Default    any
	HasDefault bool
	// Elem describes list elements.
	Elem *Field
	// Record is the schema of a nested record.
	Record *Schema

	index  int
	typ    reflect.Type
	decode DecodeFunc
}

// Schema is the compiled description of a record type.
type Schema struct {
	typ         reflect.Type
	fields      []Field
	constrained bool
}

// Type returns the record type.
func (s *Schema) Type() reflect.Type { return s.typ }

// Name returns the record type name.
func (s *Schema) Name() string { return s.typ.String() }

// Fields returns the record fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Keys returns every leaf key of the schema in declaration order, with
// nested records flattened into dotted paths.
func (s *Schema) Keys() []string {
	var keys []string
	s.collectKeys("", &keys)
	return keys
}

func (s *Schema) collectKeys(prefix string, keys *[]string) {
	for _, f := range s.fields {
		p := joinPath(prefix, f.Name)
		if f.Record != nil {
			f.Record.collectKeys(p, keys)
			continue
		}
		*keys = append(*keys, p)
	}
}

// SchemaError reports an invalid record declaration.
type SchemaError struct {
	Type   string
	Field  string
	Reason string
	Cause  error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("binder: schema %s", e.Type)
	if e.Field != "" {
		msg += "." + e.Field
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Cause }

var cache sync.Map // reflect.Type -> *Schema

// Compile returns the schema of T, compiling it on first use. Defaults are
// checked here, once per type.
func Compile[T any]() (*Schema, error) {
	return CompileType(reflect.TypeFor[T]())
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level schema variables.
func MustCompile[T any]() *Schema {
	s, err := Compile[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// CompileType is the reflective form of Compile.
func CompileType(t reflect.Type) (*Schema, error) {
	if s, ok := cache.Load(t); ok {
		return s.(*Schema), nil
	}
	s, err := compile(t, make(map[reflect.Type]bool))
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

func compile(t reflect.Type, inProgress map[reflect.Type]bool) (*Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, &SchemaError{Type: t.String(), Reason: "record type must be a struct"}
	}
	if inProgress[t] {
		return nil, &SchemaError{Type: t.String(), Reason: "record type is recursive"}
	}
	inProgress[t] = true
	defer delete(inProgress, t)

	s := &Schema{typ: t}
	seen := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := validator.KeyName(sf)
		if name == "-" {
			continue
		}
		if strings.Contains(name, ".") {
			return nil, &SchemaError{Type: t.String(), Field: sf.Name, Reason: "key must not contain '.'"}
		}
		if prev, dup := seen[name]; dup {
			return nil, &SchemaError{Type: t.String(), Field: sf.Name, Reason: fmt.Sprintf("key %q already used by %s", name, prev)}
		}
		seen[name] = sf.Name

		f, err := compileField(t, sf, name, inProgress)
		if err != nil {
			return nil, err
		}
		f.index = i
		if sf.Tag.Get("validate") != "" {
			s.constrained = true
		}
		if f.Record != nil && f.Record.constrained {
			s.constrained = true
		}
		if f.Elem != nil && f.Elem.Record != nil && f.Elem.Record.constrained {
			s.constrained = true
		}
		s.fields = append(s.fields, f)
	}
	return s, nil
}

func compileField(owner reflect.Type, sf reflect.StructField, name string, inProgress map[reflect.Type]bool) (Field, error) {
	fail := func(reason string, cause error) (Field, error) {
		return Field{}, &SchemaError{Type: owner.String(), Field: sf.Name, Reason: reason, Cause: cause}
	}

	f, err := describe(name, sf.Type, inProgress)
	if err != nil {
		if se, ok := err.(*SchemaError); ok && se.Type == "" {
			return fail(se.Reason, nil)
		}
		return Field{}, err
	}

	opts := strings.Split(sf.Tag.Get("config"), ",")[1:]
	for _, opt := range opts {
		switch strings.TrimSpace(opt) {
		case "required":
			f.Required = true
		case "":
		default:
			return fail(fmt.Sprintf("unknown option %q", opt), nil)
		}
	}

	raw, ok := sf.Tag.Lookup("default")
	if !ok {
		return f, nil
	}
	if f.Required {
		return fail("required field must not declare a default", nil)
	}
	if f.Kind == config.KindRecord {
		return fail("record field cannot declare a default", nil)
	}

	var def any = raw
	if f.Kind != config.KindString {
		var decoded any
		if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
			return fail("default is not a valid literal", err)
		}
		if def, err = config.NormalizeValue(decoded); err != nil {
			return fail("default is not a valid literal", err)
		}
	}

	// The default must fit the field exactly as a snapshot value would.
	scratch := reflect.New(sf.Type).Elem()
	if err := bindValue(name, def, &f, scratch); err != nil {
		return fail("default does not match the field", err)
	}
	f.Default = def
	f.HasDefault = true
	return f, nil
}

// describe derives the kind of a Go type. The returned error carries only a
// reason; the caller attaches the field.
func describe(name string, t reflect.Type, inProgress map[reflect.Type]bool) (Field, error) {
	f := Field{Name: name, typ: t}
	if d, ok := lookupDecoder(t); ok {
		f.Kind = d.from
		f.decode = d.decode
		return f, nil
	}
	switch t.Kind() {
	case reflect.String:
		f.Kind = config.KindString
	case reflect.Bool:
		f.Kind = config.KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		f.Kind = config.KindNumber
	case reflect.Slice:
		elem, err := describe("", t.Elem(), inProgress)
		if err != nil {
			return Field{}, err
		}
		f.Kind = config.KindList
		f.Elem = &elem
	case reflect.Struct:
		rec, err := compile(t, inProgress)
		if err != nil {
			return Field{}, err
		}
		f.Kind = config.KindRecord
		f.Record = rec
	default:
		return Field{}, &SchemaError{Reason: fmt.Sprintf("unsupported type %s", t)}
	}
	return f, nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
