package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.Appearance.Theme == "" {
		t.Error("Expected default theme to be set")
	}

	if cfg.Desktop.SpawnWrap != 10 {
		t.Errorf("Expected spawn wrap 10, got %d", cfg.Desktop.SpawnWrap)
	}

	if cfg.Wallpaper.Mode != "stretch" {
		t.Errorf("Expected default wallpaper mode stretch, got %q", cfg.Wallpaper.Mode)
	}

	if cfg.Wallpaper.PixelScale != 8 {
		t.Errorf("Expected wallpaper pixel scale 8, got %d", cfg.Wallpaper.PixelScale)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestDefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()

	window := cfg.Keybindings.Window
	if window == nil {
		t.Fatal("Window keybindings are nil")
	}

	requiredActions := []string{
		"cascade",
		"tile",
		"close_all",
		"close_window",
		"next_window",
	}

	for _, action := range requiredActions {
		keys, ok := window[action]
		if !ok {
			t.Errorf("Expected %s keybinding to exist", action)
			continue
		}
		if len(keys) == 0 {
			t.Errorf("Expected %s to have at least one key bound", action)
		}
	}
}

// =============================================================================
// Load / Parse Tests
// =============================================================================

func TestLoadFile_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuidesk", "config.toml")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Desktop.WindowWidth != config.DefaultConfig().Desktop.WindowWidth {
		t.Errorf("Expected default window width, got %d", cfg.Desktop.WindowWidth)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected config file to be written: %v", err)
	}

	again, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("Reloading written defaults: %v", err)
	}
	if got := again.Keybindings.Window["tile"]; len(got) == 0 || got[0] != "f4" {
		t.Errorf("Expected tile bound to f4 after round trip, got %v", got)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	data := []byte(`
[desktop]
cascade_offset = 4

[keybindings.window]
tile = ["ctrl+t"]
`)
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Desktop.CascadeOffset != 4 {
		t.Errorf("Expected cascade offset 4, got %d", cfg.Desktop.CascadeOffset)
	}
	if cfg.Desktop.WindowWidth != 60 {
		t.Errorf("Expected unspecified window width to stay 60, got %d", cfg.Desktop.WindowWidth)
	}
	if got := cfg.Keybindings.Window["tile"]; len(got) != 1 || got[0] != "ctrl+t" {
		t.Errorf("Expected tile override, got %v", got)
	}
	if got := cfg.Keybindings.Window["cascade"]; len(got) == 0 {
		t.Error("Expected cascade binding to survive a partial keybinding table")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[desktop\n", "parse config"},
		{"tiny window", "[desktop]\nwindow_width = 3\n", "window size"},
		{"bad mode", "[wallpaper]\nmode = \"zoom\"\n", "unknown mode"},
		{"volume", "[tools]\nplayer_volume = 300\n", "player_volume"},
		{"conflict", "[keybindings.window]\ntile = [\"f3\"]\n", "bound to both"},
		{"modifier", "[keybindings.system]\nquit = [\"hyperx+q\"]\n", "unknown modifier"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.data))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	config.ApplyOverrides(config.Overrides{
		Theme:         "dracula",
		ASCIIOnly:     true,
		Wallpaper:     "/tmp/wall.png",
		WallpaperMode: "FIT",
		HideClock:     true,
	}, cfg)

	if cfg.Appearance.Theme != "dracula" {
		t.Errorf("Theme = %q", cfg.Appearance.Theme)
	}
	if !cfg.Appearance.ASCIIOnly {
		t.Error("Expected ASCII only")
	}
	if cfg.Wallpaper.Path != "/tmp/wall.png" || cfg.Wallpaper.Mode != "fit" {
		t.Errorf("Wallpaper = %q %q", cfg.Wallpaper.Path, cfg.Wallpaper.Mode)
	}
	if cfg.Appearance.ShowClock {
		t.Error("Expected clock hidden")
	}

	untouched := config.DefaultConfig()
	config.ApplyOverrides(config.Overrides{}, untouched)
	if untouched.Appearance.Theme != config.DefaultTheme || !untouched.Appearance.ShowClock {
		t.Error("Empty overrides should not change the config")
	}
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistry_GetKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("cascade")
	if len(keys) == 0 {
		t.Fatal("Expected cascade to have keys")
	}

	action := registry.GetAction(keys[0])
	if action != "cascade" {
		t.Errorf("Expected action 'cascade', got %q", action)
	}
}

func TestKeybindRegistry_CaseInsensitive(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings.System["quit"] = []string{"Ctrl+Q"}
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetAction("ctrl+q"); got != "quit" {
		t.Errorf("GetAction(ctrl+q) = %q, want quit", got)
	}
}

func TestKeybindRegistry_GetKeysForDisplay(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetKeysForDisplay("start_menu"); got != "F9 / Ctrl+Space" {
		t.Errorf("GetKeysForDisplay(start_menu) = %q", got)
	}
}

func TestKeybindRegistry_UnknownAction(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("nonexistent_action")
	if len(keys) != 0 {
		t.Errorf("Expected empty keys for nonexistent action, got %v", keys)
	}
}

func TestKeybindRegistry_UnknownKey(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	action := registry.GetAction("ctrl+shift+alt+super+hyper+x")
	if action != "" {
		t.Errorf("Expected empty action for unbound key, got %q", action)
	}
}

// =============================================================================
// Key Normalizer Tests
// =============================================================================

func TestKeyNormalizer(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"return", "enter"},
		{"escape", "esc"},
		{"shift+ctrl+x", "ctrl+shift+x"},
		{"ctrl++", "ctrl++"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := normalizer.NormalizeKey(tc.input)
			if len(got) == 0 {
				t.Fatalf("NormalizeKey(%q) returned empty slice", tc.input)
			}
			found := false
			for _, k := range got {
				if k == tc.expected {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("NormalizeKey(%q) = %v, want to contain %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKeyNormalizer_ValidateKey(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input   string
		isValid bool
	}{
		{"ctrl+a", true},
		{"n", true},
		{"enter", true},
		{"f12", true},
		{"shift+f5", true},
		{"foo+a", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			valid, _ := normalizer.ValidateKey(tc.input)
			if valid != tc.isValid {
				t.Errorf("ValidateKey(%q) = %v, want %v", tc.input, valid, tc.isValid)
			}
		})
	}
}

// =============================================================================
// Action Descriptions Tests
// =============================================================================

func TestActionDescriptions(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, section := range cfg.Keybindings.Sections() {
		for action := range section {
			desc, ok := config.ActionDescriptions[action]
			if !ok || desc == "" {
				t.Errorf("Expected description for action %q", action)
			}
		}
	}
}

func TestGetKeybindings(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())
	sections := config.GetKeybindings(registry)
	if len(sections) == 0 {
		t.Fatal("Expected help sections")
	}
	if sections[0].Title != "WINDOWS" {
		t.Errorf("First section = %q, want WINDOWS", sections[0].Title)
	}
	for _, s := range sections {
		if len(s.Bindings) == 0 {
			t.Errorf("Section %q has no bindings", s.Title)
		}
	}
}

// =============================================================================
// Watcher Tests
// =============================================================================

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.SaveFile(path, config.DefaultConfig()); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := config.Watch(ctx, path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[desktop]\ncascade_offset = 7\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case r := <-w.Reloads():
		if r.Err != nil {
			t.Fatalf("Reload error: %v", r.Err)
		}
		if r.Config.Desktop.CascadeOffset != 7 {
			t.Errorf("Reloaded cascade offset = %d, want 7", r.Config.Desktop.CascadeOffset)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkKeybindRegistry_GetAction(b *testing.B) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = registry.GetAction("f4")
	}
}

func BenchmarkNormalizeKey(b *testing.B) {
	normalizer := config.NewKeyNormalizer()
	keys := []string{"ctrl+a", "Ctrl+Shift+B", "alt+1", "return"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = normalizer.NormalizeKey(keys[i%len(keys)])
	}
}
