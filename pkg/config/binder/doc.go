// Package binder binds snapshot values into typed configuration records.
//
// A record is a Go struct. Its schema is compiled once from struct tags:
//
//	type SpawnConfig struct {
//	    World string  `config:"world" default:"lobby"`
//	    X     float64 `config:"x,required"`
//	    Y     float64 `config:"y" default:"64"`
//	}
//
//	var spawnSchema = binder.MustCompile[SpawnConfig]()
//
//	spawn, err := binder.BindAt[SpawnConfig](snap, "lobby.spawn", spawnSchema)
//
// Binding fails closed. A missing required key is a MissingField error and a
// value of the wrong kind is a TypeMismatch error; strings are never coerced
// into numbers. Missing optional keys take the compiled default. On any
// error the zero record is returned.
//
// After the structural pass, `validate` tags are checked with the validator
// package and failures are reported as ConstraintViolation errors.
package binder
