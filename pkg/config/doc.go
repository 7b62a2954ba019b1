// Package config loads layered configuration into immutable snapshots.
//
// A load reads an ordered list of layers. Each layer is a schema-validated
// document (YAML, JSON or TOML), a key/value document or a slice of the
// process environment. The layers are merged so that later layers override
// earlier ones. Records merge recursively; scalars and lists are replaced.
// The result is a Snapshot addressed by dotted paths such as
// "lobby.spawn.x".
//
// Basic usage:
//
//	snap, err := config.Load(ctx, []config.LayerSpec{
//	    {Path: "config/lobby.yaml", Embedded: defaults, Materialize: true, Required: true},
//	    {Backend: config.BackendKeyValue, Path: "config/override.properties"},
//	    {Backend: config.BackendEnv, EnvPrefix: "LOBBY_"},
//	})
//	if err != nil {
//	    return err
//	}
//	port, err := snap.GetInt("server.port")
//
// Hot reload:
//
//	w := config.NewWatcher(snap, layers)
//	w.Subscribe("lobby", func(s *config.Snapshot) error {
//	    return lobby.Apply(s)
//	})
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
// Snapshots are never mutated after construction and can be shared between
// goroutines freely. A failed reload leaves the previous snapshot current.
package config
