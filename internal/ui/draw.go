package ui

import (
	"image"
	"image/color"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Border is the glyph set for a rectangular frame.
type Border struct {
	Top, Bottom, Left, Right string
	TopLeft, TopRight        string
	BottomLeft, BottomRight  string
}

// Frame glyph sets.
var (
	SingleBorder = Border{"─", "─", "│", "│", "┌", "┐", "└", "┘"}
	DoubleBorder = Border{"═", "═", "║", "║", "╔", "╗", "╚", "╝"}
	ASCIIBorder  = Border{"-", "-", "|", "|", "+", "+", "+", "+"}
)

// Box draws a frame on the edge cells of r. Interior cells are untouched.
func (b *Buffer) Box(r image.Rectangle, border Border, st Style) {
	if r.Dx() < 2 || r.Dy() < 2 {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for x := x0 + 1; x < x1; x++ {
		b.Set(x, y0, border.Top, st)
		b.Set(x, y1, border.Bottom, st)
	}
	for y := y0 + 1; y < y1; y++ {
		b.Set(x0, y, border.Left, st)
		b.Set(x1, y, border.Right, st)
	}
	b.Set(x0, y0, border.TopLeft, st)
	b.Set(x1, y0, border.TopRight, st)
	b.Set(x0, y1, border.BottomLeft, st)
	b.Set(x1, y1, border.BottomRight, st)
}

// Bevel draws a Win95 style 3D edge around r: light top/left and dark
// bottom/right when raised, the reverse when sunken.
func (b *Buffer) Bevel(r image.Rectangle, face, light, dark color.Color, sunken bool) {
	if sunken {
		light, dark = dark, light
	}
	b.Fill(r, " ", Style{Bg: face})
	if r.Dx() < 2 {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		b.Set(r.Min.X, y, "▏", Style{Fg: light, Bg: face})
		b.Set(r.Max.X-1, y, "▕", Style{Fg: dark, Bg: face})
	}
}

// StringWidth returns the number of columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most width columns, ending in "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight truncates or pads s with spaces to exactly width columns.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	if w := runewidth.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// Center returns the column at which s starts when centered in width.
func Center(s string, width int) int {
	return max((width-runewidth.StringWidth(s))/2, 0)
}

// Wrap hard-wraps s at width columns, keeping existing line breaks.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			out = append(out, "")
			continue
		}
		for runewidth.StringWidth(line) > width {
			cut := runewidth.Truncate(line, width, "")
			if cut == "" {
				break
			}
			out = append(out, cut)
			line = line[len(cut):]
		}
		out = append(out, line)
	}
	return out
}
