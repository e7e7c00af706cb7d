package tools

import (
	"image/color"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// maxHighlightBytes bounds the text that is tokenised. Larger buffers are
// shown plain.
const maxHighlightBytes = 256 * 1024

// span is a run of text drawn in one style.
type span struct {
	text  string
	style ui.Style
}

// lexerFor returns a lexer by language name, then by filename, then by
// content analysis, or nil when none fits.
func lexerFor(lang, filename, text string) chroma.Lexer {
	if lang != "" {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if filename != "" {
		if l := lexers.Match(filename); l != nil {
			return l
		}
	}
	return lexers.Analyse(text)
}

// chromaStyleFor picks a light or dark style to suit the window color.
func chromaStyleFor(th theme.Theme) *chroma.Style {
	c := theme.RGBA(th.Window)
	luma := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	if luma >= 128 {
		return chromastyles.Get("vs")
	}
	return chromastyles.Get("monokai")
}

// highlightLines tokenises text and returns one span list per line. Runs
// the style leaves uncolored keep base. A nil lexer yields plain lines.
func highlightLines(lexer chroma.Lexer, style *chroma.Style, text string, base ui.Style) [][]span {
	plain := func() [][]span {
		lines := strings.Split(text, "\n")
		out := make([][]span, len(lines))
		for i, l := range lines {
			if l != "" {
				out[i] = []span{{text: l, style: base}}
			}
		}
		return out
	}
	if lexer == nil || style == nil || len(text) > maxHighlightBytes {
		return plain()
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return plain()
	}

	baseColour := style.Get(chroma.Text).Colour
	var out [][]span
	for _, line := range chroma.SplitTokensIntoLines(it.Tokens()) {
		var spans []span
		for _, tok := range line {
			v := strings.TrimSuffix(tok.Value, "\n")
			if v == "" {
				continue
			}
			spans = append(spans, span{text: v, style: tokenStyle(style.Get(tok.Type), baseColour, base)})
		}
		out = append(out, spans)
	}
	// SplitTokensIntoLines drops a trailing empty line.
	if want := strings.Count(text, "\n") + 1; len(out) < want {
		out = append(out, make([][]span, want-len(out))...)
	}
	return out
}

func tokenStyle(entry chroma.StyleEntry, baseColour chroma.Colour, base ui.Style) ui.Style {
	st := base
	if entry.Bold == chroma.Yes {
		st.Bold = true
	}
	if entry.Underline == chroma.Yes {
		st.Underline = true
	}
	if entry.Colour.IsSet() && entry.Colour != baseColour {
		st.Fg = color.RGBA{R: entry.Colour.Red(), G: entry.Colour.Green(), B: entry.Colour.Blue(), A: 0xff}
	}
	return st
}

// drawSpans draws spans on row y starting skip columns into the line, and
// returns the columns used.
func drawSpans(buf *ui.Buffer, x, y, width, skip int, spans []span) int {
	col := 0
	for _, s := range spans {
		for _, r := range s.text {
			rw := ui.StringWidth(string(r))
			if col >= skip {
				if col-skip+rw > width {
					return width
				}
				buf.SetString(x+col-skip, y, string(r), s.style)
			}
			col += rw
		}
	}
	return max(col-skip, 0)
}
