package bootstrap

import (
	"context"

	"github.com/kart-io/logger"
)

// Run starts the lobby server and blocks until ctx is done. The config
// watcher, when requested, runs for the lifetime of ctx.
func Run(ctx context.Context, opts *Options) error {
	b := New(opts)
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = b.Shutdown(context.WithoutCancel(ctx))
		_ = logger.Flush()
	}()

	if res.Watcher != nil {
		if err := res.Watcher.Start(ctx); err != nil {
			return err
		}
	}

	logger.Infow("lobby server ready",
		"extensions", res.Registry.Len(),
		"modules", res.Modules.Enabled(),
		"ready", res.Modules.Ready(),
	)
	<-ctx.Done()
	logger.Infow("lobby server stopping")
	return nil
}
