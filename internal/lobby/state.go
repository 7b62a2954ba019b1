package lobby

import (
	"fmt"
	"sync/atomic"
)

// settings holds the live lobby records shared by the lobby extensions.
// Consumers replace them on activation and reload; handlers read them.
type settings struct {
	spawn       atomic.Pointer[SpawnConfig]
	menu        atomic.Pointer[PlayerMenuConfig]
	joinMessage atomic.Pointer[string]
}

var live settings

func (s *settings) Spawn() (SpawnConfig, error) {
	p := s.spawn.Load()
	if p == nil {
		return SpawnConfig{}, fmt.Errorf("lobby spawn is not configured")
	}
	return *p, nil
}

func (s *settings) Menu() (PlayerMenuConfig, error) {
	p := s.menu.Load()
	if p == nil {
		return PlayerMenuConfig{}, fmt.Errorf("player menu is not configured")
	}
	return *p, nil
}

func (s *settings) JoinMessage() string {
	if p := s.joinMessage.Load(); p != nil {
		return *p
	}
	return ""
}

// SpawnSettings receives the bound SpawnConfig.
type SpawnSettings struct{}

func (SpawnSettings) Configure(cfg any) error {
	c, ok := cfg.(SpawnConfig)
	if !ok {
		return fmt.Errorf("expected SpawnConfig, got %T", cfg)
	}
	live.spawn.Store(&c)
	return nil
}

// PlayerMenu receives the bound PlayerMenuConfig.
type PlayerMenu struct{}

func (PlayerMenu) Configure(cfg any) error {
	c, ok := cfg.(PlayerMenuConfig)
	if !ok {
		return fmt.Errorf("expected PlayerMenuConfig, got %T", cfg)
	}
	live.menu.Store(&c)
	return nil
}
