package config

import (
	"crypto/rand"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/oklog/ulid/v2"
)

// Snapshot is an immutable view of merged configuration.
type Snapshot struct {
	revision string
	tree     map[string]any
	index    *koanf.Koanf
	keys     []string
	layers   []string
	loadedAt time.Time
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newRevision(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// NewSnapshot builds a snapshot from an arbitrary tree. The tree is copied
// and normalized: integers become float64 and dotted keys become nested
// records.
func NewSnapshot(tree map[string]any, layers ...string) (*Snapshot, error) {
	if tree == nil {
		return newSnapshot(map[string]any{}, layers), nil
	}
	norm, err := normalizeRecord(tree)
	if err != nil {
		return nil, err
	}
	return newSnapshot(norm, layers), nil
}

// MustSnapshot is like NewSnapshot but panics on error.
func MustSnapshot(tree map[string]any, layers ...string) *Snapshot {
	s, err := NewSnapshot(tree, layers...)
	if err != nil {
		panic(err)
	}
	return s
}

// newSnapshot takes ownership of an already normalized tree.
func newSnapshot(tree map[string]any, layers []string) *Snapshot {
	now := time.Now()
	s := &Snapshot{
		revision: newRevision(now),
		tree:     tree,
		index:    indexTree(tree),
		layers:   slices.Clone(layers),
		loadedAt: now,
	}
	s.keys = s.index.Keys()
	return s
}

// indexTree loads a copy of tree into koanf, which tracks every leaf path
// and every record path above it.
func indexTree(tree map[string]any) *koanf.Koanf {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(tree, ""), nil)
	return k
}

// Revision returns the unique id of this snapshot.
func (s *Snapshot) Revision() string { return s.revision }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Layers returns the names of the layers that contributed, in merge order.
func (s *Snapshot) Layers() []string { return slices.Clone(s.layers) }

// Keys returns every leaf path in lexicographic order.
func (s *Snapshot) Keys() []string { return slices.Clone(s.keys) }

// Len returns the number of leaf paths.
func (s *Snapshot) Len() int { return len(s.keys) }

// Tree returns a deep copy of the whole tree.
func (s *Snapshot) Tree() map[string]any { return cloneRecord(s.tree) }

// Get returns the value at path. The empty path addresses the root record.
func (s *Snapshot) Get(path string) (Value, bool) {
	raw, ok := lookup(s.tree, path)
	if !ok {
		return Value{}, false
	}
	return Value{path: path, raw: raw}, true
}

// Has reports whether a value exists at path.
func (s *Snapshot) Has(path string) bool {
	return path == "" || s.index.Exists(path)
}

// Sub returns the record at path as a snapshot of its own.
func (s *Snapshot) Sub(path string) (*Snapshot, bool) {
	raw, ok := lookup(s.tree, path)
	if !ok {
		return nil, false
	}
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	sub := &Snapshot{
		revision: s.revision,
		tree:     rec,
		index:    s.index.Cut(path),
		layers:   s.layers,
		loadedAt: s.loadedAt,
	}
	sub.keys = sub.index.Keys()
	return sub, true
}

func lookup(tree map[string]any, path string) (any, bool) {
	if path == "" {
		return tree, true
	}
	segs := strings.Split(path, ".")
	parent := tree
	if len(segs) > 1 {
		rec, ok := maps.Search(tree, segs[:len(segs)-1]).(map[string]any)
		if !ok {
			return nil, false
		}
		parent = rec
	}
	v, ok := parent[segs[len(segs)-1]]
	return v, ok
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// GetString returns the string at path.
func (s *Snapshot) GetString(path string) (string, error) {
	v, err := s.typed(path, KindString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetNumber returns the number at path.
func (s *Snapshot) GetNumber(path string) (float64, error) {
	v, err := s.typed(path, KindNumber)
	if err != nil {
		return 0, err
	}
	return toFloat(v), nil
}

// GetInt returns the number at path, which must be integral.
func (s *Snapshot) GetInt(path string) (int, error) {
	f, err := s.GetNumber(path)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, &LookupError{Path: path, Expected: KindNumber, Actual: KindNumber, Detail: "not an integer"}
	}
	if f < math.MinInt || f >= -math.MinInt {
		return 0, &LookupError{Path: path, Expected: KindNumber, Actual: KindNumber, Detail: "out of int range"}
	}
	return int(f), nil
}

// GetBool returns the boolean at path.
func (s *Snapshot) GetBool(path string) (bool, error) {
	v, err := s.typed(path, KindBoolean)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// GetList returns a copy of the list at path.
func (s *Snapshot) GetList(path string) ([]any, error) {
	v, err := s.typed(path, KindList)
	if err != nil {
		return nil, err
	}
	return cloneValue(v).([]any), nil
}

func (s *Snapshot) typed(path string, want Kind) (any, error) {
	raw, ok := lookup(s.tree, path)
	if !ok || raw == nil {
		return nil, &LookupError{Path: path, Expected: want, Missing: true}
	}
	if got := KindOf(raw); got != want {
		return nil, &LookupError{Path: path, Expected: want, Actual: got}
	}
	return raw, nil
}
