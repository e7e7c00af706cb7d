// Package desktop implements the window manager core: the window registry,
// the task bar, the cascade and tile layouts, and the wallpaper compositor.
// It knows nothing about terminals; the shell drives it and renders it.
package desktop

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/google/uuid"
)

// Handle identifies an open window. Handles are never reused.
type Handle int

// Window is the registry's record of one open window.
type Window struct {
	Handle Handle
	// ID correlates log lines for this window.
	ID string
	// Index is the display number shown as "#n" in the title.
	Index     int
	BaseTitle string
	Title     string
	Icon      string
	Content   Content
	Bounds    Rect
	Minimized bool
	Active    bool
}

// Options controls window placement. Sizes are in cells.
type Options struct {
	DefaultSize   image.Point
	SpawnStep     int
	SpawnWrap     int
	CascadeOffset int
	CascadeSize   image.Point
	MinSize       image.Point
}

// Registry owns every open window and keeps the task bar in lockstep.
type Registry struct {
	opts    Options
	area    Rect
	windows map[Handle]*Window
	order   []Handle // open order
	stack   []Handle // z-order, back to front
	focused Handle
	last    Handle
	counter int
	taskbar *TaskBar
}

// NewRegistry returns an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.SpawnWrap < 1 {
		opts.SpawnWrap = 1
	}
	return &Registry{
		opts:    opts,
		windows: map[Handle]*Window{},
		taskbar: NewTaskBar(),
	}
}

// TaskBar returns the task bar kept in step with the registry.
func (r *Registry) TaskBar() *TaskBar {
	return r.taskbar
}

// SetOptions replaces the placement options for future operations.
func (r *Registry) SetOptions(opts Options) {
	if opts.SpawnWrap < 1 {
		opts.SpawnWrap = 1
	}
	r.opts = opts
}

// SetArea records the desktop size so new windows are clamped to it.
func (r *Registry) SetArea(area Rect) {
	r.area = area
}

// Area returns the desktop area last set.
func (r *Registry) Area() Rect {
	return r.area
}

// Open builds a window from factory and shows it focused. A factory error
// registers nothing and leaves the display counter untouched.
func (r *Registry) Open(title, icon string, factory Factory) (Handle, error) {
	content, err := factory()
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", title, err)
	}
	if content.Surface == nil {
		return 0, fmt.Errorf("open %s: factory returned no surface", title)
	}

	r.counter++
	r.last++
	h := r.last

	off := SpawnOffset(r.counter, r.opts.SpawnStep, r.opts.SpawnWrap)
	w := &Window{
		Handle:    h,
		ID:        uuid.NewString(),
		Index:     r.counter,
		BaseTitle: title,
		Title:     fmt.Sprintf("%s #%d", title, r.counter),
		Icon:      icon,
		Content:   content,
		Bounds:    r.clamp(Rect{X: off.X, Y: off.Y, Width: r.opts.DefaultSize.X, Height: r.opts.DefaultSize.Y}),
	}
	r.windows[h] = w
	r.order = append(r.order, h)
	r.stack = append(r.stack, h)
	r.taskbar.Add(h, Label(icon, title))

	_ = r.Focus(h)
	return h, nil
}

// Label is the task bar text for a window.
func Label(icon, title string) string {
	if icon == "" {
		return title
	}
	return icon + " " + title
}

// clamp keeps a new window inside the desktop area when one is known.
func (r *Registry) clamp(b Rect) Rect {
	if r.area.Width <= 0 || r.area.Height <= 0 {
		return b
	}
	b.Width = min(b.Width, r.area.Width)
	b.Height = min(b.Height, r.area.Height)
	if b.X+b.Width > r.area.Width {
		b.X = max(r.area.Width-b.Width, 0)
	}
	if b.Y+b.Height > r.area.Height {
		b.Y = max(r.area.Height-b.Height, 0)
	}
	return b
}

func (r *Registry) lookup(h Handle) (*Window, error) {
	w, ok := r.windows[h]
	if !ok {
		return nil, fmt.Errorf("window %d: %w", h, ErrUnknownWindow)
	}
	return w, nil
}

// Close removes the task button, disposes the content and drops the
// record. The record is dropped even when disposing fails.
func (r *Registry) Close(h Handle) error {
	w, err := r.lookup(h)
	if err != nil {
		return err
	}
	r.taskbar.Remove(h)
	delete(r.windows, h)
	r.order = slices.DeleteFunc(r.order, func(x Handle) bool { return x == h })
	r.stack = slices.DeleteFunc(r.stack, func(x Handle) bool { return x == h })
	if r.focused == h {
		r.focused = 0
		r.focusTopmost()
	}
	if err := w.Content.Surface.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.Title, err)
	}
	return nil
}

// CloseAll closes every window and resets the display counter. Each
// window is closed regardless of failures in the others; the failures are
// joined into the returned error.
func (r *Registry) CloseAll() error {
	var errs []error
	for _, h := range slices.Clone(r.order) {
		if err := r.Close(h); err != nil {
			errs = append(errs, err)
		}
	}
	r.counter = 0
	return errors.Join(errs...)
}

// ListOpen returns the handles in open order.
func (r *Registry) ListOpen() []Handle {
	return slices.Clone(r.order)
}

// Count returns the number of open windows.
func (r *Registry) Count() int {
	return len(r.order)
}

// Counter returns the last display index handed out.
func (r *Registry) Counter() int {
	return r.counter
}

// Get returns a copy of the window record for h.
func (r *Registry) Get(h Handle) (Window, bool) {
	w, ok := r.windows[h]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Windows returns copies of every window in open order.
func (r *Registry) Windows() []Window {
	out := make([]Window, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, *r.windows[h])
	}
	return out
}

// Stack returns the visible windows back to front.
func (r *Registry) Stack() []Window {
	out := make([]Window, 0, len(r.stack))
	for _, h := range r.stack {
		if w := r.windows[h]; !w.Minimized {
			out = append(out, *w)
		}
	}
	return out
}

// Focused returns the active window, if any.
func (r *Registry) Focused() (Window, bool) {
	if r.focused == 0 {
		return Window{}, false
	}
	return r.Get(r.focused)
}

// Focus raises h to the top and makes it the active window. A minimized
// window is restored first.
func (r *Registry) Focus(h Handle) error {
	w, err := r.lookup(h)
	if err != nil {
		return err
	}
	if w.Minimized {
		w.Minimized = false
		r.taskbar.SetMinimized(h, false)
	}
	if r.focused != 0 && r.focused != h {
		if old, ok := r.windows[r.focused]; ok {
			old.Active = false
		}
		r.taskbar.SetActive(r.focused, false)
	}
	r.raise(h)
	w.Active = true
	r.focused = h
	r.taskbar.SetActive(h, true)
	return nil
}

func (r *Registry) raise(h Handle) {
	r.stack = slices.DeleteFunc(r.stack, func(x Handle) bool { return x == h })
	r.stack = append(r.stack, h)
}

// focusTopmost activates the highest visible window, or nothing.
func (r *Registry) focusTopmost() {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if h := r.stack[i]; !r.windows[h].Minimized {
			_ = r.Focus(h)
			return
		}
	}
}

// Minimize hides h, leaving its task button. Focus moves to the next
// visible window.
func (r *Registry) Minimize(h Handle) error {
	w, err := r.lookup(h)
	if err != nil {
		return err
	}
	w.Minimized = true
	w.Active = false
	r.taskbar.SetMinimized(h, true)
	r.taskbar.SetActive(h, false)
	if r.focused == h {
		r.focused = 0
		r.focusTopmost()
	}
	return nil
}

// Restore un-minimizes h and focuses it.
func (r *Registry) Restore(h Handle) error {
	return r.Focus(h)
}

// Move places the top-left corner of h at (x, y).
func (r *Registry) Move(h Handle, x, y int) error {
	w, err := r.lookup(h)
	if err != nil {
		return err
	}
	w.Bounds.X, w.Bounds.Y = x, y
	return nil
}

// Resize sets the size of h, never below the configured minimum.
func (r *Registry) Resize(h Handle, width, height int) error {
	w, err := r.lookup(h)
	if err != nil {
		return err
	}
	w.Bounds.Width = max(width, r.opts.MinSize.X)
	w.Bounds.Height = max(height, r.opts.MinSize.Y)
	return nil
}

// SetBounds moves and resizes h in one step.
func (r *Registry) SetBounds(h Handle, b Rect) error {
	if err := r.Move(h, b.X, b.Y); err != nil {
		return err
	}
	return r.Resize(h, b.Width, b.Height)
}

// WindowAt returns the topmost visible window containing (x, y).
func (r *Registry) WindowAt(x, y int) (Handle, bool) {
	for i := len(r.stack) - 1; i >= 0; i-- {
		w := r.windows[r.stack[i]]
		if !w.Minimized && w.Bounds.Contains(x, y) {
			return w.Handle, true
		}
	}
	return 0, false
}

// Cycle focuses the window dir steps from the focused one in open order,
// restoring it if minimized. It returns false when no window is open.
func (r *Registry) Cycle(dir int) bool {
	n := len(r.order)
	if n == 0 {
		return false
	}
	i := slices.Index(r.order, r.focused)
	switch {
	case i < 0 && dir < 0:
		i = n - 1
	case i < 0:
		i = 0
	default:
		i = ((i+dir)%n + n) % n
	}
	_ = r.Focus(r.order[i])
	return true
}

func (r *Registry) visible() []Handle {
	var out []Handle
	for _, h := range r.order {
		if !r.windows[h].Minimized {
			out = append(out, h)
		}
	}
	return out
}

// Cascade stacks the visible windows diagonally from the desktop origin,
// focusing each in turn so the last opened ends up in front. It returns
// the number of windows arranged.
func (r *Registry) Cascade() int {
	handles := r.visible()
	rects := Cascade(len(handles), r.opts.CascadeOffset, image.Pt(r.area.X, r.area.Y), r.opts.CascadeSize)
	for i, h := range handles {
		r.windows[h].Bounds = rects[i]
		_ = r.Focus(h)
	}
	return len(handles)
}

// Tile arranges the visible windows in a grid over area. With nothing
// visible it changes nothing.
func (r *Registry) Tile(area Rect) int {
	handles := r.visible()
	rects := Tile(len(handles), area)
	for i, h := range handles {
		r.windows[h].Bounds = rects[i]
	}
	return len(handles)
}
