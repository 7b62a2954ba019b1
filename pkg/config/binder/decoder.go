package binder

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/shiftsad/lobby/pkg/config"
)

// DecodeFunc converts a snapshot value into a value of a registered type.
type DecodeFunc func(v any) (any, error)

type decoder struct {
	from   config.Kind
	decode DecodeFunc
}

var decoders sync.Map // reflect.Type -> decoder

// RegisterDecoder makes fields of type t bind from snapshot values of kind
// from through fn. Register before compiling any schema that uses t, since
// compiled schemas are cached.
func RegisterDecoder(t reflect.Type, from config.Kind, fn DecodeFunc) {
	if t == nil || fn == nil {
		panic("binder: RegisterDecoder needs a type and a decode func")
	}
	decoders.Store(t, decoder{from: from, decode: fn})
}

func lookupDecoder(t reflect.Type) (decoder, bool) {
	d, ok := decoders.Load(t)
	if !ok {
		return decoder{}, false
	}
	return d.(decoder), true
}

func init() {
	RegisterDecoder(reflect.TypeFor[time.Duration](), config.KindString, func(v any) (any, error) {
		return time.ParseDuration(v.(string))
	})
}

// decodeInto runs the field decoder on v and stores the result in dst.
func decodeInto(path string, v any, f *Field, dst reflect.Value) error {
	out, err := f.decode(v)
	if err != nil {
		return &BindingError{
			Kind: TypeMismatch, Path: path, Expected: f.Kind, Actual: f.Kind,
			Detail: err.Error(),
		}
	}
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || !rv.Type().AssignableTo(dst.Type()) {
		return &BindingError{
			Kind: TypeMismatch, Path: path, Expected: f.Kind, Actual: f.Kind,
			Detail: fmt.Sprintf("decoder returned %T, want %s", out, dst.Type()),
		}
	}
	dst.Set(rv)
	return nil
}
