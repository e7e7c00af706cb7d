package desktop

import (
	"image"
	"math"
)

// Rect represents a window position and size in cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Size returns the dimensions of r.
func (r Rect) Size() image.Point {
	return image.Pt(r.Width, r.Height)
}

// GridDims returns the tile grid for n windows: rows is the floor of the
// square root and cols is whatever it takes to hold the rest.
func GridDims(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	rows = int(math.Floor(math.Sqrt(float64(n))))
	cols = int(math.Ceil(float64(n) / float64(rows)))
	return rows, cols
}

// Tile computes grid positions for n windows inside area. Cells are
// area/cols wide and area/rows tall; window i goes to column i%cols of row
// i/cols. n == 0 yields nil.
func Tile(n int, area Rect) []Rect {
	if n <= 0 {
		return nil
	}
	rows, cols := GridDims(n)
	cellWidth := area.Width / cols
	cellHeight := area.Height / rows

	positions := make([]Rect, n)
	for i := range n {
		positions[i] = Rect{
			X:      area.X + (i%cols)*cellWidth,
			Y:      area.Y + (i/cols)*cellHeight,
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return positions
}

// Cascade computes diagonal positions for n windows of a fixed size,
// window i at (i*delta, i*delta) relative to origin.
func Cascade(n, delta int, origin image.Point, size image.Point) []Rect {
	if n <= 0 {
		return nil
	}
	positions := make([]Rect, n)
	for i := range n {
		positions[i] = Rect{
			X:      origin.X + i*delta,
			Y:      origin.Y + i*delta,
			Width:  size.X,
			Height: size.Y,
		}
	}
	return positions
}

// SpawnOffset returns where the window with display index n is first
// placed: step * (n mod wrap) on both axes.
func SpawnOffset(n, step, wrap int) image.Point {
	if wrap < 1 {
		wrap = 1
	}
	off := step * (n % wrap)
	return image.Pt(off, off)
}
