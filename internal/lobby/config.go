package lobby

import (
	"embed"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/extension"
)

// Config keys of the lobby records.
const (
	SpawnKey       = "lobby.spawn"
	PlayerMenuKey  = "lobby.player_menu"
	JoinMessageKey = "lobby.join_message"
)

//go:embed defaults
var defaults embed.FS

// DefaultsLayer is the bundled lobby.yaml. It is written to the data
// directory on first start and validated against the bundled schema.
func DefaultsLayer() config.LayerSpec {
	schema, _ := defaults.ReadFile("defaults/lobby.schema.json")
	return config.LayerSpec{
		Name:         "defaults",
		Path:         "lobby.yaml",
		Embedded:     defaults,
		EmbeddedPath: "defaults/lobby.yaml",
		Materialize:  true,
		Required:     true,
		Schema:       schema,
	}
}

// SpawnConfig is where players enter the lobby.
type SpawnConfig struct {
	X     float64 `config:"x,required"`
	Y     float64 `config:"y,required"`
	Z     float64 `config:"z,required"`
	Yaw   float64 `config:"yaw" default:"0"`
	Pitch float64 `config:"pitch" default:"0" validate:"gte=-90,lte=90"`
}

// Location converts the spawn to a host location.
func (s SpawnConfig) Location() extension.Location {
	return Position(s).Location()
}

// Position is a point and facing in the lobby world.
type Position struct {
	X     float64 `config:"x,required"`
	Y     float64 `config:"y,required"`
	Z     float64 `config:"z,required"`
	Yaw   float64 `config:"yaw" default:"0"`
	Pitch float64 `config:"pitch" default:"0" validate:"gte=-90,lte=90"`
}

func (p Position) Location() extension.Location {
	return extension.Location{X: p.X, Y: p.Y, Z: p.Z, Yaw: p.Yaw, Pitch: p.Pitch}
}

// PlayerMenuConfig lays out the server selection scene.
type PlayerMenuConfig struct {
	NPCPosition       Position `config:"npc_position"`
	CameraPosition    Position `config:"camera_position"`
	PortalPosition    Position `config:"portal_position"`
	AnimationDuration int      `config:"animation_duration" default:"40" validate:"gte=0"`
	NPCDisplayName    bool     `config:"npc_display_name" default:"true"`
	NPCSkin           bool     `config:"npc_skin" default:"true"`
	TargetServer      string   `config:"target_server,required" validate:"slug"`
}

var (
	spawnSchema      = binder.MustCompile[SpawnConfig]()
	playerMenuSchema = binder.MustCompile[PlayerMenuConfig]()
)

// RegisterSchemas makes the lobby records available to manifests.
func RegisterSchemas(r *binder.Registry) error {
	if err := r.Register("spawn", spawnSchema); err != nil {
		return err
	}
	return r.Register("player_menu", playerMenuSchema)
}
