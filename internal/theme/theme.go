// Package theme provides the color palette for the tuidesk shell.
package theme

import (
	"fmt"
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

// Theme is the resolved palette for one shell. It is a plain value so each
// SSH session can carry its own.
type Theme struct {
	Name string

	Desktop color.Color // default desktop fill when no wallpaper is active

	Face      color.Color // 3D face of bars, buttons and window bodies
	FaceText  color.Color
	Highlight color.Color // raised bevel edge
	Shadow    color.Color // sunken bevel edge

	TitleActive       color.Color
	TitleActiveText   color.Color
	TitleInactive     color.Color
	TitleInactiveText color.Color

	Window     color.Color // client area background
	WindowText color.Color

	MenuSelect     color.Color
	MenuSelectText color.Color

	Accent  color.Color
	Error   color.Color
	Warning color.Color
	Success color.Color
	Dim     color.Color
}

// Win95 returns the built-in palette.
func Win95() Theme {
	return Theme{
		Name:              "win95",
		Desktop:           lipgloss.Color("#008080"),
		Face:              lipgloss.Color("#c0c0c0"),
		FaceText:          lipgloss.Color("#000000"),
		Highlight:         lipgloss.Color("#ffffff"),
		Shadow:            lipgloss.Color("#808080"),
		TitleActive:       lipgloss.Color("#000080"),
		TitleActiveText:   lipgloss.Color("#ffffff"),
		TitleInactive:     lipgloss.Color("#808080"),
		TitleInactiveText: lipgloss.Color("#c0c0c0"),
		Window:            lipgloss.Color("#ffffff"),
		WindowText:        lipgloss.Color("#000000"),
		MenuSelect:        lipgloss.Color("#000080"),
		MenuSelectText:    lipgloss.Color("#ffffff"),
		Accent:            lipgloss.Color("#008000"),
		Error:             lipgloss.Color("#aa0000"),
		Warning:           lipgloss.Color("#aa5500"),
		Success:           lipgloss.Color("#008000"),
		Dim:               lipgloss.Color("#808080"),
	}
}

var registryOnce sync.Once

// mu guards the bubbletint registry, which tracks one current tint globally.
var mu sync.Mutex

// New resolves name to a palette. "win95" or an empty name give the
// built-in palette; anything else is looked up in the bubbletint registry.
// The second return is false when the name was not found, in which case
// the built-in palette is returned.
func New(name string) (Theme, bool) {
	if name == "" || name == "win95" {
		return Win95(), true
	}

	mu.Lock()
	defer mu.Unlock()
	registryOnce.Do(func() { tint.NewDefaultRegistry() })
	if !tint.SetTintID(name) {
		return Win95(), false
	}
	t := tint.Current()
	if t == nil {
		return Win95(), false
	}
	return fromTint(name, t), true
}

func fromTint(name string, t *tint.Tint) Theme {
	return Theme{
		Name:              name,
		Desktop:           t.Cyan,
		Face:              t.White,
		FaceText:          t.Black,
		Highlight:         t.BrightWhite,
		Shadow:            t.BrightBlack,
		TitleActive:       t.Blue,
		TitleActiveText:   t.BrightWhite,
		TitleInactive:     t.BrightBlack,
		TitleInactiveText: t.White,
		Window:            t.Bg,
		WindowText:        t.Fg,
		MenuSelect:        t.Blue,
		MenuSelectText:    t.BrightWhite,
		Accent:            t.BrightGreen,
		Error:             t.Red,
		Warning:           t.Yellow,
		Success:           t.Green,
		Dim:               t.BrightBlack,
	}
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGBA converts c to an opaque color.RGBA, used when painting images.
func RGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}
