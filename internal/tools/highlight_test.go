package tools

import (
	"strings"
	"testing"

	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

func joinSpans(spans []span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.text)
	}
	return b.String()
}

func TestHighlightLinesKeepsText(t *testing.T) {
	text := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}"
	lines := highlightLines(lexerFor("Go", "main.go", text), chromastyles.Get("vs"), text, ui.Style{})
	want := strings.Split(text, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if got := joinSpans(lines[i]); got != want[i] {
			t.Errorf("line %d = %q, want %q", i, got, want[i])
		}
	}
	colored := false
	for _, s := range lines[0] {
		if s.style.Fg != nil {
			colored = true
		}
	}
	if !colored {
		t.Error("the package keyword should be colored")
	}
}

func TestHighlightLinesPlainFallback(t *testing.T) {
	base := ui.Style{Bold: true}
	lines := highlightLines(nil, nil, "a\nb", base)
	if len(lines) != 2 || joinSpans(lines[1]) != "b" || !lines[1][0].style.Bold {
		t.Errorf("plain lines = %+v", lines)
	}
}

func TestChromaStyleForTheme(t *testing.T) {
	if got := chromaStyleFor(theme.Win95()).Name; got != "vs" {
		t.Errorf("light window style = %q, want vs", got)
	}
	dark := theme.Win95()
	dark.Window = dark.TitleActive
	if got := chromaStyleFor(dark).Name; got != "monokai" {
		t.Errorf("dark window style = %q, want monokai", got)
	}
}

func TestDrawSpansSkipsColumns(t *testing.T) {
	buf := ui.NewBuffer(4, 1)
	drawSpans(buf, 0, 0, 4, 2, []span{{text: "abc"}, {text: "def"}})
	if got := buf.Row(0); got != "cdef" {
		t.Errorf("row = %q, want cdef", got)
	}
}
