package tools

import (
	"image"
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// field is a single-line text input.
type field struct {
	value  []rune
	cursor int
}

func (f *field) SetValue(s string) {
	f.value = []rune(s)
	f.cursor = len(f.value)
}

func (f *field) Value() string {
	return string(f.value)
}

func (f *field) Clear() {
	f.value = f.value[:0]
	f.cursor = 0
}

// HandleKey applies editing keys and reports whether it used the key.
// Enter, Tab and Escape are left to the caller.
func (f *field) HandleKey(msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "left":
		f.cursor = max(f.cursor-1, 0)
	case "right":
		f.cursor = min(f.cursor+1, len(f.value))
	case "home", "ctrl+a":
		f.cursor = 0
	case "end", "ctrl+e":
		f.cursor = len(f.value)
	case "backspace":
		if f.cursor > 0 {
			f.value = slices.Delete(f.value, f.cursor-1, f.cursor)
			f.cursor--
		}
	case "delete":
		if f.cursor < len(f.value) {
			f.value = slices.Delete(f.value, f.cursor, f.cursor+1)
		}
	case "ctrl+u":
		f.value = slices.Delete(f.value, 0, f.cursor)
		f.cursor = 0
	case "ctrl+k":
		f.value = f.value[:f.cursor]
	default:
		if !isText(msg) {
			return false
		}
		r := []rune(msg.Text)
		f.value = slices.Insert(f.value, f.cursor, r...)
		f.cursor += len(r)
	}
	return true
}

// isText reports whether msg types printable text.
func isText(msg tea.KeyPressMsg) bool {
	return msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0
}

// Render draws the field in width columns, scrolled so the cursor shows.
func (f *field) Render(buf *ui.Buffer, x, y, width int, st ui.Style, focused bool) {
	buf.Fill(image.Rect(x, y, x+width, y+1), " ", st)
	if width <= 0 {
		return
	}
	start := 0
	for ui.StringWidth(string(f.value[start:f.cursor])) >= width {
		start++
	}
	col := x
	for i := start; i < len(f.value) && col < x+width; i++ {
		cst := st
		if focused && i == f.cursor {
			cst.Reverse = true
		}
		col += buf.SetString(col, y, string(f.value[i]), cst)
	}
	if focused && f.cursor == len(f.value) && col < x+width {
		cst := st
		cst.Reverse = true
		buf.Set(col, y, " ", cst)
	}
}

// listCursor tracks the selection and scroll offset of a list view.
type listCursor struct {
	index  int
	offset int
}

// Move shifts the selection by delta within n items.
func (c *listCursor) Move(delta, n int) {
	if n == 0 {
		c.index, c.offset = 0, 0
		return
	}
	c.index = min(max(c.index+delta, 0), n-1)
}

// HandleKey applies list navigation keys for n items and a page of height.
func (c *listCursor) HandleKey(msg tea.KeyPressMsg, n, height int) bool {
	switch msg.String() {
	case "up":
		c.Move(-1, n)
	case "down":
		c.Move(1, n)
	case "pgup":
		c.Move(-max(height-1, 1), n)
	case "pgdown":
		c.Move(max(height-1, 1), n)
	case "home":
		c.Move(-n, n)
	case "end":
		c.Move(n, n)
	default:
		return false
	}
	return true
}

// Window returns the first visible item for a view of height rows,
// scrolling just enough to keep the selection visible.
func (c *listCursor) Window(n, height int) int {
	if height <= 0 || n == 0 {
		return 0
	}
	c.index = min(max(c.index, 0), n-1)
	if c.index < c.offset {
		c.offset = c.index
	}
	if c.index >= c.offset+height {
		c.offset = c.index - height + 1
	}
	c.offset = min(c.offset, max(n-height, 0))
	return c.offset
}

// styles derived from the palette for tool content.
type styles struct {
	text     ui.Style
	dim      ui.Style
	selected ui.Style
	input    ui.Style
	header   ui.Style
	accent   ui.Style
	err      ui.Style
	button   ui.Style
}

func newStyles(th theme.Theme) styles {
	return styles{
		text:     ui.Style{Fg: th.WindowText, Bg: th.Window},
		dim:      ui.Style{Fg: th.Dim, Bg: th.Window},
		selected: ui.Style{Fg: th.MenuSelectText, Bg: th.MenuSelect},
		input:    ui.Style{Fg: th.WindowText, Bg: th.Window, Underline: true},
		header:   ui.Style{Fg: th.FaceText, Bg: th.Face, Bold: true},
		accent:   ui.Style{Fg: th.Accent, Bg: th.Window, Bold: true},
		err:      ui.Style{Fg: th.Error, Bg: th.Window},
		button:   ui.Style{Fg: th.FaceText, Bg: th.Face},
	}
}

// button is a clickable label inside a tool.
type button struct {
	label string
	rect  image.Rectangle
}

// drawButtons lays out labels left to right on row y and records their
// hit boxes. The focused index, if any, is drawn highlighted.
func drawButtons(buf *ui.Buffer, x, y int, labels []string, focus int, st styles) []button {
	out := make([]button, 0, len(labels))
	for i, l := range labels {
		text := "[" + l + "]"
		bst := st.button
		if i == focus {
			bst = st.selected
		}
		w := buf.SetString(x, y, text, bst)
		out = append(out, button{label: l, rect: image.Rect(x, y, x+w, y+1)})
		x += w + 1
	}
	return out
}

func hitButton(buttons []button, x, y int) int {
	for i, b := range buttons {
		if image.Pt(x, y).In(b.rect) {
			return i
		}
	}
	return -1
}
