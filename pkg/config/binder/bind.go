package binder

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/validator"
)

// Option configures a bind.
type Option func(*options)

type options struct {
	prefix    string
	validate  bool
	validator *validator.Validator
}

// At binds the record found at prefix instead of the snapshot root.
func At(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithValidator checks constraints with v instead of the global validator.
func WithValidator(v *validator.Validator) Option {
	return func(o *options) { o.validator = v }
}

// WithoutValidation skips `validate` tag checks.
func WithoutValidation() Option {
	return func(o *options) { o.validate = false }
}

// Bind binds a T from snap. A nil schema uses the compiled schema of T.
func Bind[T any](snap *config.Snapshot, schema *Schema, opts ...Option) (T, error) {
	var zero T
	if schema == nil {
		var err error
		if schema, err = Compile[T](); err != nil {
			return zero, err
		}
	}
	if want := reflect.TypeFor[T](); schema.typ != want {
		return zero, fmt.Errorf("binder: schema %s cannot bind %s", schema.Name(), want)
	}

	v, err := bind(snap, schema, opts)
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// BindAt binds a T from the record at prefix.
func BindAt[T any](snap *config.Snapshot, prefix string, schema *Schema, opts ...Option) (T, error) {
	return Bind[T](snap, schema, append(opts, At(prefix))...)
}

// BindSchema binds the record described by schema and returns it as a value
// of the schema's type. It serves callers that only hold a schema.
func BindSchema(snap *config.Snapshot, schema *Schema, opts ...Option) (any, error) {
	v, err := bind(snap, schema, opts)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func bind(snap *config.Snapshot, schema *Schema, opts []Option) (reflect.Value, error) {
	o := options{validate: true}
	for _, opt := range opts {
		opt(&o)
	}

	var raw map[string]any
	if v, ok := snap.Get(o.prefix); ok {
		switch v.Kind() {
		case config.KindRecord:
			raw = v.Interface().(map[string]any)
		case config.KindNull:
		default:
			return reflect.Value{}, &BindingError{
				Kind: TypeMismatch, Path: o.prefix, Expected: config.KindRecord, Actual: v.Kind(),
			}
		}
	}

	out := reflect.New(schema.typ).Elem()
	if err := bindRecord(o.prefix, raw, schema, out); err != nil {
		return reflect.Value{}, err
	}

	if o.validate && schema.constrained {
		if err := checkConstraints(o, out); err != nil {
			return reflect.Value{}, err
		}
	}
	return out, nil
}

func bindRecord(path string, raw map[string]any, s *Schema, dst reflect.Value) error {
	for i := range s.fields {
		f := &s.fields[i]
		full := joinPath(path, f.Name)

		v, present := raw[f.Name]
		if present && v == nil {
			present = false
		}
		if !present {
			switch {
			case f.Required:
				return &BindingError{Kind: MissingField, Path: full, Expected: f.Kind}
			case f.HasDefault:
				v = f.Default
			case f.Kind == config.KindRecord:
				// An absent optional record still receives its own defaults.
				v = map[string]any{}
			default:
				continue
			}
		}
		if err := bindValue(full, v, f, dst.Field(f.index)); err != nil {
			return err
		}
	}
	return nil
}

func bindValue(path string, v any, f *Field, dst reflect.Value) error {
	actual := config.KindOf(v)
	if actual != f.Kind {
		return &BindingError{Kind: TypeMismatch, Path: path, Expected: f.Kind, Actual: actual}
	}
	if f.decode != nil {
		return decodeInto(path, v, f, dst)
	}

	switch f.Kind {
	case config.KindString:
		dst.SetString(v.(string))
	case config.KindBoolean:
		dst.SetBool(v.(bool))
	case config.KindNumber:
		return bindNumber(path, toFloat(v), dst)
	case config.KindList:
		items := v.([]any)
		list := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := bindValue(fmt.Sprintf("%s[%d]", path, i), item, f.Elem, list.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(list)
	case config.KindRecord:
		return bindRecord(path, v.(map[string]any), f.Record, dst)
	}
	return nil
}

func bindNumber(path string, n float64, dst reflect.Value) error {
	mismatch := func(detail string) error {
		return &BindingError{
			Kind: TypeMismatch, Path: path, Expected: config.KindNumber, Actual: config.KindNumber,
			Detail: detail,
		}
	}

	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		if dst.OverflowFloat(n) {
			return mismatch(fmt.Sprintf("%v overflows %s", n, dst.Type()))
		}
		dst.SetFloat(n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return mismatch(fmt.Sprintf("%v is not an integer", n))
		}
		if n < math.MinInt64 || n >= math.MaxInt64 || dst.OverflowInt(int64(n)) {
			return mismatch(fmt.Sprintf("%v overflows %s", n, dst.Type()))
		}
		dst.SetInt(int64(n))
	default:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return mismatch(fmt.Sprintf("%v is not an integer", n))
		}
		if n < 0 {
			return mismatch(fmt.Sprintf("%v is negative", n))
		}
		if n >= math.MaxUint64 || dst.OverflowUint(uint64(n)) {
			return mismatch(fmt.Sprintf("%v overflows %s", n, dst.Type()))
		}
		dst.SetUint(uint64(n))
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return reflect.ValueOf(v).Convert(reflect.TypeFor[float64]()).Float()
}

func checkConstraints(o options, rec reflect.Value) error {
	v := o.validator
	if v == nil {
		v = validator.Global()
	}
	errs := v.ValidateWithLang(rec.Interface(), validator.LangEN)
	if !errs.HasErrors() {
		return nil
	}

	violations := make(map[string][]string, errs.Count())
	for path, msgs := range errs.ByPath() {
		violations[joinPath(o.prefix, path)] = msgs
	}
	return &BindingError{
		Kind:       ConstraintViolation,
		Path:       joinPath(o.prefix, errs.First().Path),
		Detail:     strings.Join(errs.Messages(), "; "),
		Violations: violations,
		Cause:      errs,
	}
}

// IsBindingError reports whether err carries a BindingError.
func IsBindingError(err error) bool {
	var be *BindingError
	return errors.As(err, &be)
}
