package app

import (
	"image"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// Screen rows from top to bottom: menu bar, optional tool bar, desktop,
// task bar, status bar. Window bounds are relative to the desktop.

func (s *Shell) desktopTop() int {
	top := config.MenuBarHeight
	if s.cfg.Appearance.ShowToolbar {
		top += config.ToolBarHeight
	}
	return top
}

func (s *Shell) taskbarRow() int {
	return s.height - config.StatusBarHeight - config.TaskBarHeight
}

func (s *Shell) statusRow() int {
	return s.height - config.StatusBarHeight
}

// desktopArea is the desktop in desktop coordinates.
func (s *Shell) desktopArea() desktop.Rect {
	return desktop.Rect{Width: max(s.width, 0), Height: max(s.taskbarRow()-s.desktopTop(), 0)}
}

// desktopRect is the desktop in screen coordinates.
func (s *Shell) desktopRect() image.Rectangle {
	top := s.desktopTop()
	return image.Rect(0, top, s.width, max(s.taskbarRow(), top))
}

// frame is the screen geometry of one window.
type frame struct {
	bounds   image.Rectangle
	title    int
	closeBox image.Rectangle
	minBox   image.Rectangle
	menuRow  int // -1 without a menu strip
	client   image.Rectangle
	grip     image.Point
}

func (s *Shell) frameOf(w desktop.Window) frame {
	b := w.Bounds.Rectangle().Add(image.Pt(0, s.desktopTop()))
	f := frame{bounds: b, title: b.Min.Y, menuRow: -1}
	f.closeBox = image.Rect(b.Max.X-4, b.Min.Y, b.Max.X-1, b.Min.Y+1)
	f.minBox = image.Rect(b.Max.X-7, b.Min.Y, b.Max.X-4, b.Min.Y+1)
	top := b.Min.Y + 1
	if len(w.Content.Menu) > 0 {
		f.menuRow = top
		top++
	}
	f.client = image.Rect(b.Min.X+1, top, b.Max.X-1, b.Max.Y-1)
	if f.client.Empty() {
		f.client = image.Rectangle{Min: f.client.Min, Max: f.client.Min}
	}
	f.grip = image.Pt(b.Max.X-1, b.Max.Y-1)
	return f
}

// menuItemRects lays out a window's menu strip.
func menuItemRects(f frame, items []desktop.MenuItem) []image.Rectangle {
	out := make([]image.Rectangle, len(items))
	x := f.bounds.Min.X + 1
	for i, item := range items {
		w := ui.StringWidth(item.Label) + 2
		out[i] = image.Rect(x, f.menuRow, x+w, f.menuRow+1)
		x += w
	}
	return out
}

// syncSizes tells each surface its client size after anything that may
// have moved or resized windows.
func (s *Shell) syncSizes() {
	for _, w := range s.registry.Windows() {
		size := s.frameOf(w).client.Size()
		if old, ok := s.sizes[w.Handle]; ok && old == size {
			continue
		}
		s.sizes[w.Handle] = size
		if r, ok := w.Content.Surface.(desktop.Resizer); ok {
			r.Resize(size.X, size.Y)
		}
	}
}

// barTitleRects are the menu bar title positions, each padded by a space.
func barTitleRects() []image.Rectangle {
	out := make([]image.Rectangle, len(barTitles))
	x := 1
	for i, t := range barTitles {
		w := ui.StringWidth(t) + 2
		out[i] = image.Rect(x, 0, x+w, 1)
		x += w
	}
	return out
}

// toolbarItem is a tool bar button; an empty id is a separator.
type toolbarItem struct {
	id   string
	rect image.Rectangle
}

var toolbarTools = []string{"editor", "", "terminal", "launcher", "", "fetcher"}

func (s *Shell) toolbarItems() []toolbarItem {
	y := config.MenuBarHeight
	x := 1
	out := make([]toolbarItem, 0, len(toolbarTools))
	for _, id := range toolbarTools {
		if id == "" {
			out = append(out, toolbarItem{rect: image.Rect(x, y, x+3, y+1)})
			x += 3
			continue
		}
		t, ok := tools.Lookup(id)
		if !ok {
			continue
		}
		w := ui.StringWidth(t.Label(s.ascii())) + 2
		out = append(out, toolbarItem{id: id, rect: image.Rect(x, y, x+w, y+1)})
		x += w + 1
	}
	return out
}

// taskSlot is a task bar button position.
type taskSlot struct {
	button desktop.Button
	rect   image.Rectangle
}

type taskLayout struct {
	start image.Rectangle
	slots []taskSlot
	clock image.Rectangle
}

func (s *Shell) startLabel() string {
	if s.ascii() {
		return "[开始]"
	}
	return "🏠 开始"
}

// taskbarLayout places the start button, one slot per open window and the
// clock. Buttons shrink when they do not fit.
func (s *Shell) taskbarLayout() taskLayout {
	y := s.taskbarRow()
	var l taskLayout
	l.start = image.Rect(0, y, ui.StringWidth(s.startLabel())+2, y+1)
	right := s.width
	if s.cfg.Appearance.ShowClock {
		cw := len(config.ClockFormat) + 2
		l.clock = image.Rect(max(s.width-cw, 0), y, s.width, y+1)
		right = l.clock.Min.X
	}
	buttons := s.registry.TaskBar().Buttons()
	if len(buttons) == 0 {
		return l
	}
	x := l.start.Max.X + 1
	avail := right - x - 1
	bw := s.cfg.Desktop.TaskButtonWidth
	if bw <= 0 {
		bw = 20
	}
	if avail > 0 && len(buttons)*(bw+1) > avail {
		bw = max(avail/len(buttons)-1, 4)
	}
	for _, b := range buttons {
		if x+bw > right {
			break
		}
		l.slots = append(l.slots, taskSlot{button: b, rect: image.Rect(x, y, x+bw, y+1)})
		x += bw + 1
	}
	return l
}

// noticeLayout is the geometry of the front message box.
type noticeLayout struct {
	box   image.Rectangle
	lines []string
	ok    image.Rectangle
}

const okLabel = "[ 确定 ]"

func (s *Shell) noticeLayout(n tools.NoticeMsg) noticeLayout {
	maxW := max(min(s.width-4, 60), 10)
	lines := ui.Wrap(n.Text, maxW-4)
	w := max(ui.StringWidth(n.Title)+6, ui.StringWidth(okLabel)+4)
	for _, l := range lines {
		w = max(w, ui.StringWidth(l)+4)
	}
	w = min(w, max(s.width, 1))
	h := min(len(lines)+5, max(s.height, 1))
	x := (s.width - w) / 2
	y := (s.height - h) / 2
	box := image.Rect(max(x, 0), max(y, 0), max(x, 0)+w, max(y, 0)+h)
	okW := ui.StringWidth(okLabel)
	okX := box.Min.X + (w-okW)/2
	return noticeLayout{
		box:   box,
		lines: lines,
		ok:    image.Rect(okX, box.Max.Y-2, okX+okW, box.Max.Y-1),
	}
}
