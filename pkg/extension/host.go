package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/kart-io/logger"
)

// Sender issues commands: a player or the console.
type Sender interface {
	Name() string
	HasPermission(node string) bool
	SendMessage(msg string)
}

// Location is a point and facing in a world.
type Location struct {
	X, Y, Z    float64
	Yaw, Pitch float64
}

// Player is a Sender that is connected to the lobby.
type Player interface {
	Sender
	Teleport(ctx context.Context, to Location) error
	Transfer(ctx context.Context, server string) error
}

// Event is delivered to listeners by the host.
type Event struct {
	Name   string
	Player Player
}

// CommandHandler runs a command.
type CommandHandler interface {
	Execute(ctx context.Context, sender Sender, args []string) error
}

// CommandFunc adapts a function to CommandHandler.
type CommandFunc func(ctx context.Context, sender Sender, args []string) error

func (f CommandFunc) Execute(ctx context.Context, sender Sender, args []string) error {
	return f(ctx, sender, args)
}

// ListenerHandler receives events.
type ListenerHandler interface {
	Handle(ctx context.Context, event Event) error
}

// ListenerFunc adapts a function to ListenerHandler.
type ListenerFunc func(ctx context.Context, event Event) error

func (f ListenerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Configurable is implemented by units that accept their bound config
// record when activated.
type Configurable interface {
	Configure(cfg any) error
}

// Host is the runtime that dispatches commands and events. It is provided
// by the embedding server.
type Host interface {
	RegisterCommand(alias string, handler CommandHandler) error
	Subscribe(event string, handler ListenerHandler) error
}

// ErrPermissionDenied is returned to the host when a sender lacks the
// permission a command declares.
var ErrPermissionDenied = errors.New("extension: permission denied")

// Activate freezes reg, instantiates every descriptor in registration order
// and hands commands and listeners to host. Config consumers that implement
// Configurable receive their bound record.
func Activate(ctx context.Context, reg *Registry, host Host) error {
	reg.Freeze()

	for _, d := range reg.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Factory == nil {
			if d.Kind == KindConsumer {
				continue
			}
			return fmt.Errorf("activate %s: no factory", d)
		}
		unit, err := d.Factory()
		if err != nil {
			return fmt.Errorf("activate %s: %w", d, err)
		}
		if err := attach(d, unit, host); err != nil {
			return fmt.Errorf("activate %s: %w", d, err)
		}
		logger.Debugw("activated extension", "kind", d.Kind.String(), "id", d.ID)
	}
	return nil
}

func attach(d Descriptor, unit any, host Host) error {
	if c, ok := unit.(Configurable); ok && d.Config != nil {
		if err := c.Configure(d.Config); err != nil {
			return fmt.Errorf("configure: %w", err)
		}
	}

	switch d.Kind {
	case KindCommand:
		h, ok := unit.(CommandHandler)
		if !ok {
			return fmt.Errorf("factory returned %T, not a CommandHandler", unit)
		}
		h = guard(d.Permission, h)
		for _, name := range d.Names() {
			if err := host.RegisterCommand(name, h); err != nil {
				return err
			}
		}
	case KindListener:
		h, ok := unit.(ListenerHandler)
		if !ok {
			return fmt.Errorf("factory returned %T, not a ListenerHandler", unit)
		}
		return host.Subscribe(d.Event, h)
	case KindConsumer:
		if _, ok := unit.(Configurable); !ok {
			return fmt.Errorf("factory returned %T, not Configurable", unit)
		}
	}
	return nil
}

func guard(permission string, h CommandHandler) CommandHandler {
	if permission == "" {
		return h
	}
	return CommandFunc(func(ctx context.Context, sender Sender, args []string) error {
		if !sender.HasPermission(permission) {
			sender.SendMessage("You do not have permission to use this command.")
			return ErrPermissionDenied
		}
		return h.Execute(ctx, sender, args)
	})
}
