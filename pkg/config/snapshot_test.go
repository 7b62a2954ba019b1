package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotNormalizes(t *testing.T) {
	snap, err := NewSnapshot(map[string]any{
		"lobby.spawn.x": 10,
		"lobby": map[string]any{
			"spawn": map[string]any{"y": int64(64)},
		},
		"server": map[string]any{"port": uint16(25565), "motd": "hi"},
	}, "test")
	require.NoError(t, err)

	assert.Equal(t, []string{"lobby.spawn.x", "lobby.spawn.y", "server.motd", "server.port"}, snap.Keys())
	x, err := snap.GetNumber("lobby.spawn.x")
	require.NoError(t, err)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, []string{"test"}, snap.Layers())
	assert.NotEmpty(t, snap.Revision())
}

func TestNewSnapshotConflict(t *testing.T) {
	_, err := NewSnapshot(map[string]any{
		"spawn":   1,
		"spawn.x": 2,
	})
	assert.Error(t, err)
}

func TestSnapshotIsImmutable(t *testing.T) {
	src := map[string]any{"lobby": map[string]any{"roots": []any{"a"}}}
	snap := MustSnapshot(src)

	// Mutating the source, a returned tree or a returned list must not
	// change the snapshot.
	src["lobby"].(map[string]any)["roots"] = []any{"mutated"}
	tree := snap.Tree()
	tree["lobby"].(map[string]any)["roots"].([]any)[0] = "mutated"
	list, err := snap.GetList("lobby.roots")
	require.NoError(t, err)
	list[0] = "mutated"
	v, _ := snap.Get("lobby")
	v.Interface().(map[string]any)["roots"] = nil

	got, err := snap.GetList("lobby.roots")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, got)
}

func TestSnapshotRevisionsDiffer(t *testing.T) {
	a := MustSnapshot(nil)
	b := MustSnapshot(nil)
	assert.NotEqual(t, a.Revision(), b.Revision())
}

func TestSnapshotGetAndSub(t *testing.T) {
	snap := MustSnapshot(map[string]any{
		"lobby": map[string]any{"spawn": map[string]any{"x": 1, "y": 2}},
	})

	v, ok := snap.Get("lobby.spawn")
	require.True(t, ok)
	assert.Equal(t, KindRecord, v.Kind())
	assert.Equal(t, "lobby.spawn", v.Path())

	root, ok := snap.Get("")
	require.True(t, ok)
	assert.Equal(t, KindRecord, root.Kind())

	assert.True(t, snap.Has("lobby.spawn.x"))
	assert.False(t, snap.Has("lobby.spawn.z"))
	assert.False(t, snap.Has("lobby.spawn.x.deeper"))

	sub, ok := snap.Sub("lobby.spawn")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, sub.Keys())
	assert.Equal(t, snap.Revision(), sub.Revision())

	_, ok = snap.Sub("lobby.spawn.x")
	assert.False(t, ok)
}

func TestTypedGetters(t *testing.T) {
	snap := MustSnapshot(map[string]any{
		"server": map[string]any{"port": "abc", "slots": 20.5, "online": true},
	})

	_, err := snap.GetNumber("server.port")
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, KindNumber, lookupErr.Expected)
	assert.Equal(t, KindString, lookupErr.Actual)
	assert.True(t, errors.Is(err, ErrWrongKind))

	_, err = snap.GetString("server.missing")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	_, err = snap.GetInt("server.slots")
	assert.True(t, errors.Is(err, ErrWrongKind))

	online, err := snap.GetBool("server.online")
	require.NoError(t, err)
	assert.True(t, online)

	s, err := snap.GetString("server.port")
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
}

func TestGetIntRange(t *testing.T) {
	snap := MustSnapshot(map[string]any{
		"server": map[string]any{"slots": 20, "huge": 1e19, "tiny": -1e19},
	})

	slots, err := snap.GetInt("server.slots")
	require.NoError(t, err)
	assert.Equal(t, 20, slots)

	for _, path := range []string{"server.huge", "server.tiny"} {
		_, err := snap.GetInt(path)
		var lookupErr *LookupError
		require.ErrorAs(t, err, &lookupErr, path)
		assert.Equal(t, "out of int range", lookupErr.Detail)
		assert.Contains(t, err.Error(), path)
	}
}

func TestSnapshotNullValuesExist(t *testing.T) {
	snap := MustSnapshot(map[string]any{"lobby": map[string]any{"motd": nil}})

	assert.True(t, snap.Has("lobby.motd"))
	v, ok := snap.Get("lobby.motd")
	require.True(t, ok)
	assert.Equal(t, KindNull, v.Kind())
	assert.Equal(t, []string{"lobby.motd"}, snap.Keys())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "record", KindOf(map[string]any{}).String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
