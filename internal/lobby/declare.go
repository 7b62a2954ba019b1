package lobby

import (
	"github.com/shiftsad/lobby/pkg/extension"
	"github.com/shiftsad/lobby/pkg/scanner"
)

func instance[T any](v T) extension.Factory {
	return func() (any, error) { return v, nil }
}

func init() {
	scanner.Declare(scanner.NewUnit[SpawnCommand](instance(SpawnCommand{}),
		scanner.CommandMarker{
			Alias:       "spawn",
			Aliases:     []string{"hub", "lobby"},
			Description: "Teleport to the lobby spawn",
		},
	))
	scanner.Declare(scanner.NewUnit[PlayCommand](instance(PlayCommand{}),
		scanner.CommandMarker{
			Alias:       "play",
			Description: "Join the game server",
			Permission:  "lobby.command.play",
		},
	))
	scanner.Declare(scanner.NewUnit[JoinListener](instance(JoinListener{}),
		scanner.ListenerMarker{Event: EventPlayerJoin},
	))
	scanner.Declare(scanner.NewUnit[QuitListener](instance(QuitListener{}),
		scanner.ListenerMarker{Event: EventPlayerQuit},
	))
	scanner.Declare(scanner.NewUnit[SpawnSettings](instance(SpawnSettings{}),
		scanner.ConsumerMarker{Path: SpawnKey, Schema: spawnSchema},
	))
	scanner.Declare(scanner.NewUnit[PlayerMenu](instance(PlayerMenu{}),
		scanner.ConsumerMarker{Path: PlayerMenuKey, Schema: playerMenuSchema},
	))
}
