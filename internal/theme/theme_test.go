package theme

import (
	"image/color"
	"testing"
)

func TestWin95Palette(t *testing.T) {
	th, ok := New("")
	if !ok {
		t.Fatal("empty name should resolve to the built-in palette")
	}
	if got := ColorToString(th.Desktop); got != "#008080" {
		t.Errorf("desktop color = %s, want #008080", got)
	}
	if got := ColorToString(th.TitleActive); got != "#000080" {
		t.Errorf("active title = %s, want #000080", got)
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	th, ok := New("definitely-not-a-theme")
	if ok {
		t.Error("expected lookup failure")
	}
	if th.Name != "win95" {
		t.Errorf("fallback name = %q, want win95", th.Name)
	}
}

func TestColorHelpers(t *testing.T) {
	tests := []struct {
		in   color.Color
		hex  string
		rgba color.RGBA
	}{
		{nil, "#000000", color.RGBA{A: 0xff}},
		{color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}, "#123456", color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}},
	}
	for _, tc := range tests {
		if got := ColorToString(tc.in); got != tc.hex {
			t.Errorf("ColorToString(%v) = %s, want %s", tc.in, got, tc.hex)
		}
		if got := RGBA(tc.in); got != tc.rgba {
			t.Errorf("RGBA(%v) = %v, want %v", tc.in, got, tc.rgba)
		}
	}
}
