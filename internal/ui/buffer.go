// Package ui is the cell buffer the shell composes every frame into before
// turning it into a styled string for bubbletea.
package ui

import (
	"image"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Gaurav-Gosain/tuidesk/internal/pool"
)

// Style is the visual attribute set of one cell.
type Style struct {
	Fg        color.Color
	Bg        color.Color
	Bold      bool
	Reverse   bool
	Underline bool
}

// Cell represents a single character cell. Width is 2 for the lead cell of
// a wide character and 0 for the continuation cell that follows it.
type Cell struct {
	Content string
	Style   Style
	Width   int
}

var blank = Cell{Content: " ", Width: 1}

// Buffer is a fixed-size grid of cells.
type Buffer struct {
	width, height int
	cells         []Cell
}

// NewBuffer returns a buffer filled with unstyled spaces.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Resize discards the contents and reallocates for the new size.
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	b.width, b.height = width, height
	n := width * height
	if cap(b.cells) >= n {
		b.cells = b.cells[:n]
	} else {
		b.cells = make([]Cell, n)
	}
	for i := range b.cells {
		b.cells[i] = blank
	}
}

func (b *Buffer) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// Cell returns the cell at (x, y); out of range reads a blank cell.
func (b *Buffer) Cell(x, y int) Cell {
	if !b.in(x, y) {
		return blank
	}
	return b.cells[y*b.width+x]
}

// Set writes a single-width cell. Writing over half of a wide character
// blanks the other half.
func (b *Buffer) Set(x, y int, content string, st Style) {
	if !b.in(x, y) {
		return
	}
	b.clearWide(x, y, st)
	b.cells[y*b.width+x] = Cell{Content: content, Style: st, Width: 1}
}

func (b *Buffer) clearWide(x, y int, st Style) {
	i := y*b.width + x
	switch b.cells[i].Width {
	case 0:
		if x > 0 {
			b.cells[i-1] = Cell{Content: " ", Style: st, Width: 1}
		}
	case 2:
		if x+1 < b.width {
			b.cells[i+1] = Cell{Content: " ", Style: st, Width: 1}
		}
	}
}

// SetString writes s starting at (x, y), clipped to the buffer, and returns
// the number of columns consumed. Zero-width runes attach to the previous
// cell; a wide rune that does not fit at the right edge becomes a space.
func (b *Buffer) SetString(x, y int, s string, st Style) int {
	if y < 0 || y >= b.height {
		return 0
	}
	col := x
	last := -1
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			if last >= 0 {
				b.cells[last].Content += string(r)
			}
			continue
		}
		if col >= b.width {
			break
		}
		if col < 0 {
			col += w
			continue
		}
		if w == 2 && col+1 >= b.width {
			b.Set(col, y, " ", st)
			col++
			break
		}
		b.clearWide(col, y, st)
		i := y*b.width + col
		b.cells[i] = Cell{Content: string(r), Style: st, Width: w}
		last = i
		if w == 2 {
			b.clearWide(col+1, y, st)
			b.cells[i+1] = Cell{Style: st, Width: 0}
		}
		col += w
	}
	return col - x
}

// Fill paints every cell in r with content.
func (b *Buffer) Fill(r image.Rectangle, content string, st Style) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.cells[y*b.width+x] = Cell{Content: content, Style: st, Width: 1}
		}
	}
}

// Clear fills the whole buffer with spaces in st.
func (b *Buffer) Clear(st Style) {
	b.Fill(b.Bounds(), " ", st)
}

// Blit copies src onto b with its origin at (x, y), clipping as needed.
func (b *Buffer) Blit(x, y int, src *Buffer) {
	if src == nil {
		return
	}
	dst := src.Bounds().Add(image.Pt(x, y)).Intersect(b.Bounds())
	for dy := dst.Min.Y; dy < dst.Max.Y; dy++ {
		for dx := dst.Min.X; dx < dst.Max.X; dx++ {
			c := src.cells[(dy-y)*src.width+(dx-x)]
			// A wide character cut by the clip edge degrades to a space.
			if (c.Width == 0 && dx == dst.Min.X) || (c.Width == 2 && dx == dst.Max.X-1) {
				c = Cell{Content: " ", Style: c.Style, Width: 1}
			}
			b.cells[dy*b.width+dx] = c
		}
	}
}

// Row returns the plain text of row y without styling.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	for x := 0; x < b.width; x++ {
		sb.WriteString(b.cells[y*b.width+x].Content)
	}
	return sb.String()
}

// Render turns the buffer into a string of styled lines. Consecutive cells
// with the same style are rendered as a single run.
func (b *Buffer) Render() string {
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)

	styles := map[Style]lipgloss.Style{}
	run := pool.GetStringBuilder()
	defer pool.PutStringBuilder(run)

	flush := func(st Style) {
		if run.Len() == 0 {
			return
		}
		ls, ok := styles[st]
		if !ok {
			ls = toLipgloss(st)
			styles[st] = ls
		}
		sb.WriteString(ls.Render(run.String()))
		run.Reset()
	}

	for y := 0; y < b.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var cur Style
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			if c.Width == 0 {
				continue
			}
			if c.Style != cur {
				flush(cur)
				cur = c.Style
			}
			run.WriteString(c.Content)
		}
		flush(cur)
	}
	return sb.String()
}

func toLipgloss(st Style) lipgloss.Style {
	s := lipgloss.NewStyle()
	if st.Fg != nil {
		s = s.Foreground(st.Fg)
	}
	if st.Bg != nil {
		s = s.Background(st.Bg)
	}
	if st.Bold {
		s = s.Bold(true)
	}
	if st.Reverse {
		s = s.Reverse(true)
	}
	if st.Underline {
		s = s.Underline(true)
	}
	return s
}
