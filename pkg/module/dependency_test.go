package module

import (
	"errors"
	"strings"
	"testing"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

type node struct {
	name string
	deps []string
}

func (n node) Name() string           { return n.name }
func (n node) Dependencies() []string { return n.deps }

func newNode(name string, deps ...string) node {
	return node{name: name, deps: deps}
}

func names(nodes []node) string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.name
	}
	return strings.Join(out, ",")
}

func TestResolve_NoDependenciesKeepsOrder(t *testing.T) {
	result, err := Resolve([]node{newNode("c"), newNode("a"), newNode("b")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(result); got != "c,a,b" {
		t.Errorf("expected input order c,a,b, got %s", got)
	}
}

func TestResolve_LinearDependencies(t *testing.T) {
	result, err := Resolve([]node{
		newNode("a", "b"),
		newNode("b", "c"),
		newNode("c"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(result); got != "c,b,a" {
		t.Errorf("expected c,b,a, got %s", got)
	}
}

func TestResolve_DiamondDependency(t *testing.T) {
	result, err := Resolve([]node{
		newNode("a", "b", "c"),
		newNode("b", "d"),
		newNode("c", "d"),
		newNode("d"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(result); got != "d,b,c,a" {
		t.Errorf("expected d,b,c,a, got %s", got)
	}
}

func TestResolve_RepeatedDependency(t *testing.T) {
	result, err := Resolve([]node{newNode("a", "b", "b"), newNode("b")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(result); got != "b,a" {
		t.Errorf("expected b,a, got %s", got)
	}
}

func TestResolve_CircularDependency(t *testing.T) {
	_, err := Resolve([]node{
		newNode("a", "b"),
		newNode("b", "c"),
		newNode("c", "a"),
	})
	var de *DependencyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DependencyError, got %v", err)
	}
	if got := strings.Join(de.Cycle, " -> "); got != "a -> b -> c -> a" {
		t.Errorf("unexpected cycle path: %s", got)
	}
	if !strings.Contains(err.Error(), "circular dependency") {
		t.Errorf("unexpected message: %v", err)
	}
	if errno.ExitCode(err) != errno.ExitSoftware {
		t.Errorf("expected exit %d, got %d", errno.ExitSoftware, errno.ExitCode(err))
	}
}

func TestResolve_SelfDependency(t *testing.T) {
	_, err := Resolve([]node{newNode("a", "a")})
	var de *DependencyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DependencyError, got %v", err)
	}
	if got := strings.Join(de.Cycle, " -> "); got != "a -> a" {
		t.Errorf("unexpected cycle path: %s", got)
	}
}

func TestResolve_MissingDependency(t *testing.T) {
	_, err := Resolve([]node{newNode("a", "missing")})
	var de *DependencyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DependencyError, got %v", err)
	}
	if de.Node != "a" || de.Missing != "missing" {
		t.Errorf("unexpected error fields: %+v", de)
	}
}

func TestResolve_DuplicateName(t *testing.T) {
	_, err := Resolve([]node{newNode("a"), newNode("a")})
	if !errors.Is(err, errno.ErrDuplicateModule) {
		t.Fatalf("expected duplicate module error, got %v", err)
	}
}

func TestResolve_Empty(t *testing.T) {
	result, err := Resolve([]node(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for empty input, got %v", result)
	}
}
