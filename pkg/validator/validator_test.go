package validator

import (
	"reflect"
	"strings"
	"testing"
)

type position struct {
	X   float64 `config:"x"`
	Yaw float64 `config:"yaw" validate:"gte=-180,lte=180"`
}

type menuConfig struct {
	NPCName      string   `config:"npc_display_name" validate:"required,trimmed"`
	NPCSkin      string   `validate:"mcname"`
	TargetServer string   `config:"target_server" validate:"slug"`
	Permission   string   `validate:"permission"`
	Position     position `config:"npc_position"`
	Internal     string   `config:"-" validate:"nowhitespace"`
}

func validMenu() menuConfig {
	return menuConfig{
		NPCName:      "Server Selector",
		NPCSkin:      "Notch",
		TargetServer: "lobby-1",
		Permission:   "lobby.menu.*",
		Position:     position{Yaw: 90},
	}
}

// TestGlobal tests the global validator instance.
func TestGlobal(t *testing.T) {
	v1 := Global()
	if v1 == nil {
		t.Fatal("Global() returned nil")
	}
	if v1 != Global() {
		t.Error("Global() should return the same instance")
	}
	if len(v1.trans) != 2 {
		t.Errorf("Expected 2 translators (en, zh), got %d", len(v1.trans))
	}
}

// TestSetGlobal tests setting a custom global validator.
func TestSetGlobal(t *testing.T) {
	original := Global()
	custom := New()
	SetGlobal(custom)
	if Global() != custom {
		t.Error("SetGlobal() did not set the custom validator")
	}
	SetGlobal(original)
}

func TestKeyName(t *testing.T) {
	typ := reflect.TypeOf(menuConfig{})
	tests := map[string]string{
		"NPCName":  "npc_display_name",
		"NPCSkin":  "npc_skin",
		"Internal": "-",
	}
	for field, want := range tests {
		f, _ := typ.FieldByName(field)
		if got := KeyName(f); got != want {
			t.Errorf("KeyName(%s) = %q, want %q", field, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	if err := New().Validate(validMenu()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateWithLangPaths(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		mutate func(*menuConfig)
		path   string
		tag    string
	}{
		{"required", func(m *menuConfig) { m.NPCName = "" }, "npc_display_name", "required"},
		{"trimmed", func(m *menuConfig) { m.NPCName = " padded " }, "npc_display_name", TagTrimmed},
		{"mcname", func(m *menuConfig) { m.NPCSkin = "no spaces allowed" }, "npc_skin", TagMCName},
		{"slug", func(m *menuConfig) { m.TargetServer = "Lobby_1" }, "target_server", TagSlug},
		{"permission", func(m *menuConfig) { m.Permission = "lobby..menu" }, "permission", TagPermission},
		{"nested range", func(m *menuConfig) { m.Position.Yaw = 270 }, "npc_position.yaw", "lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validMenu()
			tt.mutate(&cfg)

			errs := v.ValidateWithLang(cfg, LangEN)
			if !errs.HasErrors() {
				t.Fatal("expected validation errors")
			}
			first := errs.First()
			if first.Path != tt.path {
				t.Errorf("Path = %q, want %q", first.Path, tt.path)
			}
			if first.Tag != tt.tag {
				t.Errorf("Tag = %q, want %q", first.Tag, tt.tag)
			}
			if first.Message == "" {
				t.Error("expected a translated message")
			}
		})
	}
}

func TestCustomTranslations(t *testing.T) {
	cfg := validMenu()
	cfg.NPCSkin = "x"

	en := New().ValidateWithLang(cfg, LangEN)
	if !strings.Contains(en.Error(), "npc_skin must be a valid Minecraft name") {
		t.Errorf("unexpected English message: %s", en.Error())
	}

	zh := New().ValidateWithLang(cfg, LangZH)
	if !strings.Contains(zh.Error(), "Minecraft") {
		t.Errorf("unexpected Chinese message: %s", zh.Error())
	}
}

func TestValidationErrorsGrouping(t *testing.T) {
	cfg := validMenu()
	cfg.TargetServer = "BAD"
	cfg.NPCSkin = "x"

	errs := Global().ValidateWithLang(cfg, LangEN)
	if errs.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", errs.Count())
	}
	if got := len(errs.Messages()); got != 2 {
		t.Errorf("len(Messages()) = %d, want 2", got)
	}
	byPath := errs.ByPath()
	for _, path := range []string{"target_server", "npc_skin"} {
		if len(byPath[path]) != 1 {
			t.Errorf("ByPath()[%q] = %v, want one message", path, byPath[path])
		}
	}
}

func TestVar(t *testing.T) {
	if err := Var("lobby.command.spawn", TagPermission); err != nil {
		t.Errorf("Var(permission) = %v", err)
	}
	if err := Var("has space", TagNoWhitespace); err == nil {
		t.Error("Var(nowhitespace) should fail")
	}
}
