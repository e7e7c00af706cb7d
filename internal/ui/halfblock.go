package ui

import (
	"image"
	"image/color"
)

// UpperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, giving two vertical pixels per cell.
const UpperHalf = "▀"

// PixelSize returns the pixel dimensions that exactly cover a cell area.
func PixelSize(cols, rows int) image.Point {
	return image.Pt(cols, rows*2)
}

// DrawImage paints img with its top-left pixel at cell (x, y). Each cell
// shows pixel column cx and pixel rows 2*cy and 2*cy+1.
func (b *Buffer) DrawImage(x, y int, img image.Image) {
	if img == nil {
		return
	}
	bounds := img.Bounds()
	rows := (bounds.Dy() + 1) / 2
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < bounds.Dx(); cx++ {
			px := bounds.Min.X + cx
			py := bounds.Min.Y + cy*2
			top := opaque(img.At(px, py))
			bottom := top
			if py+1 < bounds.Max.Y {
				bottom = opaque(img.At(px, py+1))
			}
			b.Set(x+cx, y+cy, UpperHalf, Style{Fg: top, Bg: bottom})
		}
	}
}

func opaque(c color.Color) color.RGBA {
	r, g, bl, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 0xff}
}
