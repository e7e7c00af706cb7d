// Package config holds the user configuration for tuidesk: the TOML file
// layout, defaults, validation, CLI overrides and the keybinding registry.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Appearance  AppearanceConfig  `toml:"appearance"`
	Desktop     DesktopConfig     `toml:"desktop"`
	Wallpaper   WallpaperConfig   `toml:"wallpaper"`
	Tools       ToolsConfig       `toml:"tools"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// AppearanceConfig controls colors and optional chrome.
type AppearanceConfig struct {
	// Theme is a bubbletint theme id, or "win95" for the built-in palette.
	Theme       string `toml:"theme"`
	ASCIIOnly   bool   `toml:"ascii_only"`
	ShowClock   bool   `toml:"show_clock"`
	ShowToolbar bool   `toml:"show_toolbar"`
	ShowSysInfo bool   `toml:"show_sysinfo"`
}

// DesktopConfig holds window geometry in terminal cells.
type DesktopConfig struct {
	WindowWidth     int `toml:"window_width"`
	WindowHeight    int `toml:"window_height"`
	SpawnStep       int `toml:"spawn_step"`
	SpawnWrap       int `toml:"spawn_wrap"`
	CascadeOffset   int `toml:"cascade_offset"`
	CascadeWidth    int `toml:"cascade_width"`
	CascadeHeight   int `toml:"cascade_height"`
	TaskButtonWidth int `toml:"task_button_width"`
}

// WallpaperConfig configures the control panel and an optional startup
// wallpaper. Preview sizes are in pixels; each cell shows two vertical pixels.
type WallpaperConfig struct {
	Path          string `toml:"path"`
	Mode          string `toml:"mode"`
	Directory     string `toml:"directory"`
	PreviewWidth  int    `toml:"preview_width"`
	PreviewHeight int    `toml:"preview_height"`
	// PixelScale is the number of image pixels per desktop pixel for the
	// center and tile modes. Values above 1 shrink the image below its
	// native resolution.
	PixelScale    int    `toml:"pixel_scale"`
	CacheSize     int    `toml:"cache_size"`
}

// ToolsConfig holds the external commands the tools spawn.
type ToolsConfig struct {
	Shell          string   `toml:"shell"`
	JavaCommand    string   `toml:"java_command"`
	JavaArgs       []string `toml:"java_args"`
	ServerJar      string   `toml:"server_jar"`
	PlayerCommand  string   `toml:"player_command"`
	PlayerVolume   int      `toml:"player_volume"`
	MusicDirectory string   `toml:"music_directory"`
	FetchURL       string   `toml:"fetch_url"`
	FetchTimeout   int      `toml:"fetch_timeout_seconds"`
}

// KeybindingsConfig maps action names to key strings, grouped by section.
type KeybindingsConfig struct {
	Window map[string][]string `toml:"window"`
	Launch map[string][]string `toml:"launch"`
	Menu   map[string][]string `toml:"menu"`
	System map[string][]string `toml:"system"`
}

// Sections returns the keybinding maps in display order.
func (k KeybindingsConfig) Sections() []map[string][]string {
	return []map[string][]string{k.Window, k.Launch, k.Menu, k.System}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Appearance: AppearanceConfig{
			Theme:       DefaultTheme,
			ShowClock:   true,
			ShowToolbar: true,
			ShowSysInfo: true,
		},
		Desktop: DesktopConfig{
			WindowWidth:     60,
			WindowHeight:    18,
			SpawnStep:       3,
			SpawnWrap:       10,
			CascadeOffset:   2,
			CascadeWidth:    56,
			CascadeHeight:   16,
			TaskButtonWidth: 20,
		},
		Wallpaper: WallpaperConfig{
			Mode:          "stretch",
			Directory:     xdg.UserDirs.Pictures,
			PreviewWidth:  64,
			PreviewHeight: 18,
			PixelScale:    8,
			CacheSize:     8,
		},
		Tools: ToolsConfig{
			JavaCommand:    "java",
			JavaArgs:       []string{"-Xmx1024M", "-Xms1024M"},
			ServerJar:      "server.jar",
			PlayerCommand:  "ffplay",
			PlayerVolume:   80,
			MusicDirectory: xdg.UserDirs.Music,
			FetchURL:       "https://api.github.com",
			FetchTimeout:   15,
		},
		Keybindings: defaultKeybindings(),
	}
}

func defaultKeybindings() KeybindingsConfig {
	return KeybindingsConfig{
		Window: map[string][]string{
			"cascade":         {"f3"},
			"tile":            {"f4"},
			"next_window":     {"f5"},
			"prev_window":     {"shift+f5"},
			"minimize_window": {"f6"},
			"restore_window":  {"shift+f6"},
			"close_window":    {"ctrl+w"},
			"close_all":       {"f8"},
			"window_menu":     {"f2"},
		},
		Launch: map[string][]string{
			"launch_editor":       {"alt+1"},
			"launch_terminal":     {"alt+2"},
			"launch_launcher":     {"alt+3"},
			"launch_calculator":   {"alt+4"},
			"launch_taskmgr":      {"alt+5"},
			"launch_explorer":     {"alt+6"},
			"launch_fetcher":      {"alt+7"},
			"launch_music":        {"alt+8"},
			"launch_imageviewer":  {"alt+9"},
			"launch_controlpanel": {"alt+0", "f12"},
		},
		Menu: map[string][]string{
			"menu_file":    {"alt+f"},
			"menu_edit":    {"alt+e"},
			"menu_system":  {"alt+s"},
			"menu_network": {"alt+n"},
			"menu_fun":     {"alt+l"},
			"menu_window":  {"alt+w"},
			"menu_help":    {"alt+h"},
		},
		System: map[string][]string{
			"start_menu":  {"f9", "ctrl+space"},
			"menu_bar":    {"f10"},
			"about":       {"f1"},
			"toggle_logs": {"f11"},
			"quit":        {"ctrl+q"},
		},
	}
}

// GetConfigPath returns the config file location, creating its directory.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("tuidesk", "config.toml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// GetLogPath returns the debug log location under the xdg state dir.
func GetLogPath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("tuidesk", "debug.log"))
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}

// LoadUserConfig loads the config from the default path, writing the
// defaults there first if the file does not exist.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the config at path. A missing file is created with defaults.
func LoadFile(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := SaveFile(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults so omitted keys keep their
// default values.
func Parse(data []byte) (*UserConfig, error) {
	cfg := DefaultConfig()
	defaults := cfg.Keybindings
	cfg.Keybindings = KeybindingsConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Keybindings.Window = mergeBindings(defaults.Window, cfg.Keybindings.Window)
	cfg.Keybindings.Launch = mergeBindings(defaults.Launch, cfg.Keybindings.Launch)
	cfg.Keybindings.Menu = mergeBindings(defaults.Menu, cfg.Keybindings.Menu)
	cfg.Keybindings.System = mergeBindings(defaults.System, cfg.Keybindings.System)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeBindings(defaults, user map[string][]string) map[string][]string {
	out := make(map[string][]string, len(defaults))
	for action, keys := range defaults {
		out[action] = keys
	}
	for action, keys := range user {
		out[action] = keys
	}
	return out
}

// SaveFile writes cfg to path with a short header comment.
func SaveFile(path string, cfg *UserConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	header := "# tuidesk configuration\n# Delete this file to restore the defaults.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks value ranges and keybinding conflicts.
func (c *UserConfig) Validate() error {
	var errs []error
	d := c.Desktop
	if d.WindowWidth < MinWindowWidth || d.WindowHeight < MinWindowHeight {
		errs = append(errs, fmt.Errorf("desktop: window size %dx%d below minimum %dx%d",
			d.WindowWidth, d.WindowHeight, MinWindowWidth, MinWindowHeight))
	}
	if d.CascadeWidth < MinWindowWidth || d.CascadeHeight < MinWindowHeight {
		errs = append(errs, fmt.Errorf("desktop: cascade size %dx%d below minimum %dx%d",
			d.CascadeWidth, d.CascadeHeight, MinWindowWidth, MinWindowHeight))
	}
	if d.SpawnStep < 0 || d.CascadeOffset < 0 {
		errs = append(errs, errors.New("desktop: spawn_step and cascade_offset must not be negative"))
	}
	if d.SpawnWrap < 1 {
		errs = append(errs, errors.New("desktop: spawn_wrap must be at least 1"))
	}
	if d.TaskButtonWidth < 6 {
		errs = append(errs, errors.New("desktop: task_button_width must be at least 6"))
	}
	w := c.Wallpaper
	if w.PreviewWidth < 1 || w.PreviewHeight < 1 {
		errs = append(errs, errors.New("wallpaper: preview size must be positive"))
	}
	if w.PixelScale < 1 || w.CacheSize < 1 {
		errs = append(errs, errors.New("wallpaper: pixel_scale and cache_size must be at least 1"))
	}
	if w.Mode != "" && !validModes[strings.ToLower(w.Mode)] {
		errs = append(errs, fmt.Errorf("wallpaper: unknown mode %q", w.Mode))
	}
	if c.Tools.PlayerVolume < 0 || c.Tools.PlayerVolume > 100 {
		errs = append(errs, fmt.Errorf("tools: player_volume %d out of range 0-100", c.Tools.PlayerVolume))
	}

	normalizer := NewKeyNormalizer()
	owner := map[string]string{}
	for _, section := range c.Keybindings.Sections() {
		for action, keys := range section {
			for _, key := range keys {
				if ok, reason := normalizer.ValidateKey(key); !ok {
					errs = append(errs, fmt.Errorf("keybindings: %s: %s", action, reason))
					continue
				}
				norm := normalizer.Canonical(key)
				if prev, dup := owner[norm]; dup && prev != action {
					errs = append(errs, fmt.Errorf("keybindings: %q bound to both %s and %s", key, prev, action))
					continue
				}
				owner[norm] = action
			}
		}
	}
	return errors.Join(errs...)
}

// validModes mirrors the wallpaper mode names accepted by desktop.ParseMode.
var validModes = map[string]bool{
	"stretch": true,
	"fit":     true,
	"center":  true,
	"tile":    true,
}

// Overrides carries CLI flags that take precedence over the file.
type Overrides struct {
	Theme         string
	ASCIIOnly     bool
	Wallpaper     string
	WallpaperMode string
	HideClock     bool
}

// ApplyOverrides copies the non-zero override values into cfg.
func ApplyOverrides(o Overrides, cfg *UserConfig) {
	if o.Theme != "" {
		cfg.Appearance.Theme = o.Theme
	}
	if o.ASCIIOnly {
		cfg.Appearance.ASCIIOnly = true
	}
	if o.Wallpaper != "" {
		cfg.Wallpaper.Path = o.Wallpaper
	}
	if o.WallpaperMode != "" {
		cfg.Wallpaper.Mode = strings.ToLower(o.WallpaperMode)
	}
	if o.HideClock {
		cfg.Appearance.ShowClock = false
	}
}
