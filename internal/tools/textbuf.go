package tools

import (
	"slices"
	"strings"
)

// textBuffer is an editable list of lines with a cursor. Columns count
// runes, not cells.
type textBuffer struct {
	lines    [][]rune
	row, col int
}

func newTextBuffer(text string) *textBuffer {
	b := &textBuffer{}
	b.SetText(text)
	return b
}

// SetText replaces the content and moves the cursor to the start.
func (b *textBuffer) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	b.lines = make([][]rune, len(parts))
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
	b.row, b.col = 0, 0
}

// Text joins the lines with newlines.
func (b *textBuffer) Text() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (b *textBuffer) Len() int { return len(b.lines) }

func (b *textBuffer) Line(i int) string { return string(b.lines[i]) }

// Cursor returns the row and rune column.
func (b *textBuffer) Cursor() (int, int) { return b.row, b.col }

// Insert types s at the cursor. Newlines split the line.
func (b *textBuffer) Insert(s string) {
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			b.Newline()
		}
		r := []rune(part)
		b.lines[b.row] = slices.Insert(b.lines[b.row], b.col, r...)
		b.col += len(r)
	}
}

// Newline splits the line at the cursor.
func (b *textBuffer) Newline() {
	line := b.lines[b.row]
	tail := slices.Clone(line[b.col:])
	b.lines[b.row] = line[:b.col]
	b.lines = slices.Insert(b.lines, b.row+1, tail)
	b.row++
	b.col = 0
}

// Backspace deletes before the cursor, joining lines at column 0.
func (b *textBuffer) Backspace() {
	switch {
	case b.col > 0:
		b.lines[b.row] = slices.Delete(b.lines[b.row], b.col-1, b.col)
		b.col--
	case b.row > 0:
		prev := b.lines[b.row-1]
		b.col = len(prev)
		b.lines[b.row-1] = append(prev, b.lines[b.row]...)
		b.lines = slices.Delete(b.lines, b.row, b.row+1)
		b.row--
	}
}

// Delete removes the rune under the cursor, joining the next line at the
// end of a line.
func (b *textBuffer) Delete() {
	line := b.lines[b.row]
	switch {
	case b.col < len(line):
		b.lines[b.row] = slices.Delete(line, b.col, b.col+1)
	case b.row < len(b.lines)-1:
		b.lines[b.row] = append(line, b.lines[b.row+1]...)
		b.lines = slices.Delete(b.lines, b.row+1, b.row+2)
	}
}

// MoveTo places the cursor, clamped to the text.
func (b *textBuffer) MoveTo(row, col int) {
	b.row = min(max(row, 0), len(b.lines)-1)
	b.col = min(max(col, 0), len(b.lines[b.row]))
}

// Left and Right wrap across line ends.
func (b *textBuffer) Left() {
	if b.col > 0 {
		b.col--
	} else if b.row > 0 {
		b.row--
		b.col = len(b.lines[b.row])
	}
}

func (b *textBuffer) Right() {
	if b.col < len(b.lines[b.row]) {
		b.col++
	} else if b.row < len(b.lines)-1 {
		b.row++
		b.col = 0
	}
}

func (b *textBuffer) Home() { b.col = 0 }

func (b *textBuffer) End() { b.col = len(b.lines[b.row]) }
