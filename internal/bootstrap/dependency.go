package bootstrap

import "github.com/shiftsad/lobby/pkg/module"

// ResolveDependencies orders initializers so that each one runs after the
// initializers it depends on. Unrelated initializers keep their order.
func ResolveDependencies(initializers []Initializer) ([]Initializer, error) {
	return module.Resolve(initializers)
}
