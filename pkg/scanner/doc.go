// Package scanner discovers extensions.
//
// Code units declare themselves into a Catalog, normally from an init
// function through Declare, or are listed in a YAML or JSON manifest. Scan
// walks the units whose package matches the configured roots, in
// lexicographic order of their fully-qualified names, and turns their
// markers into extension descriptors. Factories are never called here.
package scanner
