package lobby

import (
	"context"
	"errors"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/pkg/extension"
)

// ErrNotAPlayer is returned when the console runs a player-only command.
var ErrNotAPlayer = errors.New("only players can use this command")

func asPlayer(sender extension.Sender) (extension.Player, error) {
	p, ok := sender.(extension.Player)
	if !ok {
		sender.SendMessage(ErrNotAPlayer.Error())
		return nil, ErrNotAPlayer
	}
	return p, nil
}

// SpawnCommand teleports the sender to the lobby spawn.
type SpawnCommand struct{}

func (SpawnCommand) Execute(ctx context.Context, sender extension.Sender, _ []string) error {
	p, err := asPlayer(sender)
	if err != nil {
		return err
	}
	spawn, err := live.Spawn()
	if err != nil {
		return err
	}
	if err := p.Teleport(ctx, spawn.Location()); err != nil {
		return err
	}
	p.SendMessage("Teleported to spawn.")
	return nil
}

// PlayCommand sends the sender to the server behind the player menu.
type PlayCommand struct{}

func (PlayCommand) Execute(ctx context.Context, sender extension.Sender, _ []string) error {
	p, err := asPlayer(sender)
	if err != nil {
		return err
	}
	menu, err := live.Menu()
	if err != nil {
		return err
	}
	logger.Infow("transferring player", "player", p.Name(), "server", menu.TargetServer)
	return p.Transfer(ctx, menu.TargetServer)
}
