package lobby

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/pkg/extension"
)

// Events the lobby listens to.
const (
	EventPlayerJoin = "player-join"
	EventPlayerQuit = "player-quit"
)

// JoinListener puts joining players at the spawn and greets them.
type JoinListener struct{}

func (JoinListener) Handle(ctx context.Context, e extension.Event) error {
	if e.Player == nil {
		return nil
	}
	spawn, err := live.Spawn()
	if err != nil {
		return err
	}
	if err := e.Player.Teleport(ctx, spawn.Location()); err != nil {
		return err
	}
	if msg := live.JoinMessage(); msg != "" {
		e.Player.SendMessage(msg)
	}
	logger.Debugw("player joined", "player", e.Player.Name())
	return nil
}

// QuitListener records players leaving.
type QuitListener struct{}

func (QuitListener) Handle(_ context.Context, e extension.Event) error {
	if e.Player != nil {
		logger.Debugw("player left", "player", e.Player.Name())
	}
	return nil
}
