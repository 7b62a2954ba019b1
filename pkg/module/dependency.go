package module

import (
	"fmt"
	"strings"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

// Node is anything that is ordered by named dependencies.
type Node interface {
	Name() string
	Dependencies() []string
}

// DependencyError reports a dependency graph that cannot be ordered.
type DependencyError struct {
	// Node is the dependent whose dependency is missing.
	Node    string
	Missing string
	// Cycle lists the cycle from its first node back to itself.
	Cycle []string
}

func (e *DependencyError) Error() string {
	if len(e.Cycle) > 0 {
		return "circular dependency detected: " + strings.Join(e.Cycle, " -> ")
	}
	return fmt.Sprintf("%q depends on %q which is not registered", e.Node, e.Missing)
}

// Errno maps the error onto the process error code registry.
func (e *DependencyError) Errno() *errno.Errno { return errno.ErrModuleDependency }

// Resolve orders nodes so that every node follows its dependencies. Nodes
// with no ordering constraint between them keep their input order.
func Resolve[T Node](nodes []T) ([]T, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.Name()]; dup {
			return nil, errno.ErrDuplicateModule.WithMessagef("duplicate name: %s", n.Name())
		}
		index[n.Name()] = i
	}

	for _, n := range nodes {
		for _, dep := range n.Dependencies() {
			if _, ok := index[dep]; !ok {
				return nil, &DependencyError{Node: n.Name(), Missing: dep}
			}
		}
	}

	if cycle := findCycle(nodes, index); cycle != nil {
		return nil, &DependencyError{Cycle: cycle}
	}
	return sortNodes(nodes, index), nil
}

// findCycle runs a three-colour DFS in input order and returns the first
// cycle found.
func findCycle[T Node](nodes []T, index map[string]int) []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(nodes))
	var stack []string

	var visit func(i int) []string
	visit = func(i int) []string {
		color[i] = gray
		stack = append(stack, nodes[i].Name())
		for _, dep := range nodes[i].Dependencies() {
			j := index[dep]
			switch color[j] {
			case gray:
				for k, name := range stack {
					if name == dep {
						return append(append([]string(nil), stack[k:]...), dep)
					}
				}
			case white:
				if cycle := visit(j); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
		return nil
	}

	for i := range nodes {
		if color[i] == white {
			if cycle := visit(i); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// sortNodes is Kahn's algorithm, always picking the earliest ready node.
func sortNodes[T Node](nodes []T, index map[string]int) []T {
	inDegree := make([]int, len(nodes))
	dependents := make([][]int, len(nodes))
	for i, n := range nodes {
		seen := make(map[int]bool)
		for _, dep := range n.Dependencies() {
			j := index[dep]
			if seen[j] {
				continue
			}
			seen[j] = true
			dependents[j] = append(dependents[j], i)
			inDegree[i]++
		}
	}

	done := make([]bool, len(nodes))
	result := make([]T, 0, len(nodes))
	for len(result) < len(nodes) {
		next := -1
		for i := range nodes {
			if !done[i] && inDegree[i] == 0 {
				next = i
				break
			}
		}
		done[next] = true
		result = append(result, nodes[next])
		for _, d := range dependents[next] {
			inDegree[d]--
		}
	}
	return result
}
