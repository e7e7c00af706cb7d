package desktop

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp" // register decoder
	xdraw "golang.org/x/image/draw"
)

// Mode is how a wallpaper image is placed on the desktop.
type Mode int

const (
	ModeStretch Mode = iota
	ModeFit
	ModeCenter
	ModeTile
)

// Modes lists every mode in control panel order.
func Modes() []Mode {
	return []Mode{ModeStretch, ModeFit, ModeCenter, ModeTile}
}

func (m Mode) String() string {
	switch m {
	case ModeStretch:
		return "stretch"
	case ModeFit:
		return "fit"
	case ModeCenter:
		return "center"
	case ModeTile:
		return "tile"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Label is the control panel name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeStretch:
		return "拉伸"
	case ModeFit:
		return "适应"
	case ModeCenter:
		return "居中"
	case ModeTile:
		return "平铺"
	}
	return m.String()
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(Modes()))
}

// ParseMode accepts a mode name or its control panel label.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for _, m := range Modes() {
		if strings.EqualFold(s, m.String()) || s == m.Label() {
			return m, nil
		}
	}
	return ModeStretch, fmt.Errorf("unknown wallpaper mode %q", s)
}

// Place returns where copies of an image of size img go inside area.
// STRETCH and FIT return one rectangle the image is scaled into; CENTER
// returns one rectangle at native size, possibly hanging off the edges;
// TILE returns native-size copies from the top-left corner until the area
// is covered. Degenerate sizes yield nil.
func Place(mode Mode, img, area image.Point) []image.Rectangle {
	if img.X <= 0 || img.Y <= 0 || area.X <= 0 || area.Y <= 0 {
		return nil
	}
	switch mode {
	case ModeFit:
		scale := min(float64(area.X)/float64(img.X), float64(area.Y)/float64(img.Y))
		w := int(float64(img.X) * scale)
		h := int(float64(img.Y) * scale)
		x := (area.X - w) / 2
		y := (area.Y - h) / 2
		return []image.Rectangle{image.Rect(x, y, x+w, y+h)}
	case ModeCenter:
		x := (area.X - img.X) / 2
		y := (area.Y - img.Y) / 2
		return []image.Rectangle{image.Rect(x, y, x+img.X, y+img.Y)}
	case ModeTile:
		var out []image.Rectangle
		for y := 0; y < area.Y; y += img.Y {
			for x := 0; x < area.X; x += img.X {
				out = append(out, image.Rect(x, y, x+img.X, y+img.Y))
			}
		}
		return out
	default:
		return []image.Rectangle{image.Rect(0, 0, area.X, area.Y)}
	}
}

// FitWithin returns the size of img scaled to fit box, never enlarged.
func FitWithin(img, box image.Point) image.Point {
	if img.X <= 0 || img.Y <= 0 || box.X <= 0 || box.Y <= 0 {
		return image.Point{}
	}
	scale := min(float64(box.X)/float64(img.X), float64(box.Y)/float64(img.Y), 1)
	return image.Pt(max(int(float64(img.X)*scale), 1), max(int(float64(img.Y)*scale), 1))
}

// LoadImage opens and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes png, jpeg, gif or bmp data.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

// Scale resizes img to size with bilinear filtering.
func Scale(img image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// CompositorOptions configures a Compositor. Sizes are in desktop pixels;
// the shell shows two vertical pixels per cell.
type CompositorOptions struct {
	// PreviewSize bounds the control panel preview.
	PreviewSize image.Point
	// PixelScale is how many source pixels make up one desktop pixel,
	// used by CENTER and TILE. A desktop pixel is half a terminal cell, so
	// 1 would show a photo at 1:1 source pixels and only a small corner of
	// it would fit; the default config uses 8, drawing those modes at
	// 1/8 of the source size instead of true native resolution.
	PixelScale int
	// Background fills whatever the image does not cover.
	Background color.Color
	// CacheSize is the number of rendered desktops kept.
	CacheSize int
}

type renderKey struct {
	width, height int
	mode          Mode
	generation    int
}

// Compositor holds the wallpaper state and renders it for a desktop size.
// The zero state has no wallpaper.
type Compositor struct {
	mu   sync.Mutex
	opts CompositorOptions

	path     string
	selected image.Image
	preview  *image.RGBA

	applied    image.Image
	native     *image.RGBA
	mode       Mode
	generation int

	cache *lru.Cache[renderKey, *image.RGBA]
}

// NewCompositor returns a compositor with no wallpaper.
func NewCompositor(opts CompositorOptions) *Compositor {
	if opts.PixelScale < 1 {
		opts.PixelScale = 1
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = 4
	}
	if opts.Background == nil {
		opts.Background = color.RGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[renderKey, *image.RGBA](opts.CacheSize)
	return &Compositor{opts: opts, cache: cache}
}

// Select decodes path and builds its preview. A decode failure leaves
// the previous selection and preview in place.
func (c *Compositor) Select(path string) error {
	img, err := LoadImage(path)
	if err != nil {
		return err
	}
	c.SelectImage(path, img)
	return nil
}

// SelectImage records an already decoded image as the selection.
func (c *Compositor) SelectImage(path string, img image.Image) {
	preview := Scale(img, FitWithin(img.Bounds().Size(), c.opts.PreviewSize))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = path
	c.selected = img
	c.preview = preview
}

// SetMode records the placement mode. It reports whether a wallpaper is
// active, in which case the next Render uses the new mode.
func (c *Compositor) SetMode(m Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m != c.mode {
		c.mode = m
		c.generation++
	}
	return c.applied != nil
}

// Apply loads the selected file in full and makes it the wallpaper. On
// failure the current wallpaper stays.
func (c *Compositor) Apply() error {
	c.mu.Lock()
	path := c.path
	c.mu.Unlock()
	if path == "" {
		return ErrNoSelection
	}
	img, err := LoadImage(path)
	if err != nil {
		return err
	}
	c.ApplyImage(img)
	return nil
}

// ApplyImage makes img the wallpaper, replacing any previous rendering.
func (c *Compositor) ApplyImage(img image.Image) {
	var native *image.RGBA
	if s := c.opts.PixelScale; s == 1 {
		native = image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
		xdraw.Copy(native, image.Point{}, img, img.Bounds(), xdraw.Src, nil)
	} else {
		size := img.Bounds().Size()
		native = Scale(img, image.Pt(max(size.X/s, 1), max(size.Y/s, 1)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = img
	c.native = native
	c.generation++
	c.cache.Purge()
}

// RestoreDefault discards the wallpaper, the selection and the mode.
func (c *Compositor) RestoreDefault() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = ""
	c.selected = nil
	c.preview = nil
	c.applied = nil
	c.native = nil
	c.mode = ModeStretch
	c.generation++
	c.cache.Purge()
}

// SetBackground changes the fill color and drops cached renders.
func (c *Compositor) SetBackground(bg color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Background = bg
	c.generation++
	c.cache.Purge()
}

// Background returns the default desktop color.
func (c *Compositor) Background() color.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Background
}

// Active reports whether a wallpaper is applied.
func (c *Compositor) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied != nil
}

// Path returns the selected file, or "".
func (c *Compositor) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Mode returns the selected placement mode.
func (c *Compositor) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Preview returns the fitted preview of the selection, or nil.
func (c *Compositor) Preview() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Render composes the wallpaper for a width x height pixel desktop. It
// returns nil when no wallpaper is active, meaning the desktop shows the
// plain background color. The result is shared and must not be modified.
func (c *Compositor) Render(width, height int) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.applied == nil || width <= 0 || height <= 0 {
		return nil
	}
	key := renderKey{width: width, height: height, mode: c.mode, generation: c.generation}
	if img, ok := c.cache.Get(key); ok {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(c.opts.Background), image.Point{}, xdraw.Src)

	area := image.Pt(width, height)
	switch c.mode {
	case ModeStretch, ModeFit:
		for _, r := range Place(c.mode, c.applied.Bounds().Size(), area) {
			xdraw.ApproxBiLinear.Scale(dst, r, c.applied, c.applied.Bounds(), xdraw.Src, nil)
		}
	default:
		for _, r := range Place(c.mode, c.native.Bounds().Size(), area) {
			xdraw.Copy(dst, r.Min, c.native, c.native.Bounds(), xdraw.Src, nil)
		}
	}
	c.cache.Add(key, dst)
	return dst
}
