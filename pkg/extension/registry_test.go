package extension

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

func command(unit, alias string, aliases ...string) Descriptor {
	return Descriptor{Kind: KindCommand, Unit: unit, Alias: alias, Aliases: aliases}
}

func listener(unit, event string) Descriptor {
	return Descriptor{Kind: KindListener, Unit: unit, Event: event}
}

func consumer(unit, path string) Descriptor {
	return Descriptor{Kind: KindConsumer, Unit: unit, ConfigPath: path}
}

func TestRegistryStates(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, StateEmpty, r.State())

	require.NoError(t, r.Register(command("a.Spawn", "spawn")))
	assert.Equal(t, StatePopulating, r.State())

	r.Freeze()
	assert.Equal(t, StateFrozen, r.State())
	r.Freeze()
	assert.Equal(t, StateFrozen, r.State())
}

func TestRegisterDuplicateSpawnAlias(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(command("a.SpawnCommand", "spawn")))

	err := r.Register(command("b.SpawnCommand", "spawn"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateAlias)

	var re *RegistrationError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "spawn", re.Key)
	assert.Equal(t, "b.SpawnCommand", re.Unit)
	assert.Equal(t, "a.SpawnCommand", re.Existing)

	d, ok := r.Command("spawn")
	require.True(t, ok)
	assert.Equal(t, "a.SpawnCommand", d.Unit)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		first  Descriptor
		second Descriptor
		key    string
	}{
		{"alias ignores case", command("a.Spawn", "spawn"), command("b.Spawn", "SPAWN"), "spawn"},
		{"secondary alias", command("a.Spawn", "spawn", "hub"), command("b.Hub", "hub"), "hub"},
		{"secondary against primary", command("a.Spawn", "spawn"), command("b.Hub", "hub", "Spawn"), "spawn"},
		{"alias repeated in one unit", command("x.Unused", "menu"), command("b.Hub", "hub", "HUB"), "hub"},
		{"listener id", listener("a.Join", "player-join"), listener("a.Join", "player-join"), "a.Join#player-join"},
		{"explicit listener id", Descriptor{Kind: KindListener, Unit: "a.Join", Event: "player-join", ID: "greeter"},
			Descriptor{Kind: KindListener, Unit: "b.Quit", Event: "player-quit", ID: "greeter"}, "greeter"},
		{"consumer path", consumer("a.Menu", "lobby.player_menu"), consumer("b.Menu", "lobby.player_menu"), "lobby.player_menu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			require.NoError(t, r.Register(tt.first))
			before := r.All()
			aliases := r.CommandsByAlias()

			err := r.Register(tt.second)
			assert.ErrorIs(t, err, &RegistrationError{Kind: DuplicateAlias, Key: tt.key})
			assert.Equal(t, before, r.All())
			assert.Equal(t, aliases, r.CommandsByAlias())
		})
	}
}

func TestRegisterSameKeyAcrossKinds(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(command("a.Menu", "menu")))
	require.NoError(t, r.Register(Descriptor{Kind: KindListener, Unit: "a.Menu", Event: "player-join", ID: "menu"}))
	require.NoError(t, r.Register(Descriptor{Kind: KindConsumer, Unit: "a.Menu", ConfigPath: "lobby.menu", ID: "menu"}))
	assert.Equal(t, 3, r.Len())
}

func TestRegisterInvalidDescriptor(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
	}{
		{"no unit", Descriptor{Kind: KindCommand, Alias: "spawn"}},
		{"command without alias", Descriptor{Kind: KindCommand, Unit: "a.Spawn"}},
		{"blank secondary alias", command("a.Spawn", "spawn", " ")},
		{"alias with whitespace", command("a.Spawn", "go home")},
		{"bad permission", Descriptor{Kind: KindCommand, Unit: "a.Spawn", Alias: "spawn", Permission: "Lobby Spawn"}},
		{"listener without event", Descriptor{Kind: KindListener, Unit: "a.Join"}},
		{"consumer without path", Descriptor{Kind: KindConsumer, Unit: "a.Menu"}},
		{"unknown kind", Descriptor{Unit: "a.Thing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.d)
			assert.True(t, errors.Is(err, errno.ErrInvalidArgument))
			assert.Equal(t, StateEmpty, r.State())
		})
	}
}

func TestFreezeKeepsContents(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterAll(r, []Descriptor{
		command("a.Spawn", "spawn", "hub", "lobby"),
		listener("a.Join", "player-join"),
		listener("b.Join", "player-join"),
		consumer("a.Menu", "lobby.player_menu"),
	}))

	aliases := r.CommandsByAlias()
	joins := r.ListenersForEvent("player-join")
	all := r.All()

	r.Freeze()

	err := r.Register(command("c.Warp", "warp"))
	assert.ErrorIs(t, err, ErrRegistryFrozen)
	assert.Equal(t, errno.ErrRegistryFrozen.ExitCode(), errno.ExitCode(err))

	assert.Equal(t, aliases, r.CommandsByAlias())
	assert.Equal(t, joins, r.ListenersForEvent("player-join"))
	assert.Equal(t, all, r.All())
	_, ok := r.Command("warp")
	assert.False(t, ok)
}

func TestFrozenRejectsInvalidDescriptor(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(command("a.Spawn", "spawn")))
	r.Freeze()

	for _, d := range []Descriptor{
		{Kind: KindCommand, Alias: "warp"},
		{Kind: KindListener, Unit: "a.Join"},
		{Unit: "a.Thing"},
	} {
		err := r.Register(d)
		assert.ErrorIs(t, err, ErrRegistryFrozen)
		assert.False(t, errors.Is(err, errno.ErrInvalidArgument))
		assert.Equal(t, errno.ErrRegistryFrozen.ExitCode(), errno.ExitCode(err))
	}
	assert.Equal(t, 1, r.Len())
}

func TestReturnedAliasesAreCopies(t *testing.T) {
	input := []string{"hub", "lobby"}
	r := NewRegistry()
	require.NoError(t, RegisterAll(r, []Descriptor{
		command("a.Spawn", "spawn", input...),
		listener("a.Join", "player-join"),
		consumer("a.Menu", "lobby.player_menu"),
	}))
	input[0] = "changed"

	want := []string{"hub", "lobby"}
	check := func(t *testing.T) {
		t.Helper()
		d, ok := r.Command("spawn")
		require.True(t, ok)
		assert.Equal(t, want, d.Aliases)
		assert.Equal(t, want, r.CommandsByAlias()["hub"].Aliases)
		assert.Equal(t, want, r.Commands()[0].Aliases)
		assert.Equal(t, want, r.All()[0].Aliases)
	}

	mutate := func() {
		d, _ := r.Command("spawn")
		d.Aliases[0] = "x"
		r.CommandsByAlias()["lobby"].Aliases[1] = "x"
		r.Commands()[0].Aliases[0] = "x"
		r.All()[0].Aliases[1] = "x"
	}

	t.Run("populating", func(t *testing.T) {
		mutate()
		check(t)
	})

	r.Freeze()
	t.Run("frozen", func(t *testing.T) {
		mutate()
		check(t)
	})
}

func TestRegistryReads(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterAll(r, []Descriptor{
		listener("b.Join", "player-join"),
		command("a.Spawn", "spawn", "hub", "Lobby"),
		listener("a.Join", "player-join"),
		listener("a.Quit", "player-quit"),
		consumer("a.Menu", "lobby.player_menu"),
	}))
	r.Freeze()

	aliases := r.CommandsByAlias()
	assert.Len(t, aliases, 3)
	assert.Equal(t, "a.Spawn", aliases["lobby"].Unit)

	d, ok := r.Command("HUB")
	require.True(t, ok)
	assert.Equal(t, "spawn", d.ID)
	assert.Len(t, r.Commands(), 1)

	joins := r.ListenersForEvent("player-join")
	require.Len(t, joins, 2)
	assert.Equal(t, "b.Join", joins[0].Unit)
	assert.Equal(t, "a.Join", joins[1].Unit)
	assert.Empty(t, r.ListenersForEvent("player-chat"))
	assert.Equal(t, []string{"player-join", "player-quit"}, r.Events())

	consumers := r.Consumers()
	require.Len(t, consumers, 1)
	assert.Equal(t, "lobby.player_menu", consumers[0].ID)
	assert.Equal(t, 5, r.Len())

	// Returned collections are copies.
	delete(aliases, "spawn")
	joins[0].Unit = "changed"
	_, ok = r.Command("spawn")
	assert.True(t, ok)
	assert.Equal(t, "b.Join", r.ListenersForEvent("player-join")[0].Unit)
}

func TestRegisterAllStopsAtFirstError(t *testing.T) {
	r := NewRegistry()
	err := RegisterAll(r, []Descriptor{
		command("a.Spawn", "spawn"),
		command("b.Spawn", "spawn"),
		command("c.Warp", "warp"),
	})
	assert.ErrorIs(t, err, ErrDuplicateAlias)
	assert.Equal(t, 1, r.Len())
}

func TestConcurrentRegisterThenRead(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Register(command(fmt.Sprintf("u.Cmd%d", i), fmt.Sprintf("cmd%d", i)))
			_ = r.Register(command(fmt.Sprintf("u.Dup%d", i), "dup"))
		}()
	}
	wg.Wait()
	r.Freeze()

	assert.Equal(t, 33, r.Len())
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := r.Command(fmt.Sprintf("cmd%d", i))
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindCommand, KindListener, KindConsumer} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("widget")
	assert.Error(t, err)
}
