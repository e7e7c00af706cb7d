package app

import (
	"image"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
)

// dragMargin keeps this many columns of a dragged title bar on screen.
const dragMargin = 8

func (s *Shell) mouseDown(m tea.Mouse) tea.Cmd {
	pt := image.Pt(m.X, m.Y)

	if len(s.notices) > 0 {
		if m.Button == tea.MouseLeft && pt.In(s.noticeLayout(s.notices[0]).ok) {
			s.dismissNotice()
		}
		return nil
	}

	if s.menu != nil {
		if pt.In(s.menu.rect()) {
			if i := s.menu.entryAt(m.X, m.Y); i >= 0 && s.menu.entries[i].selectable() {
				return s.activate(s.menu.entries[i])
			}
			return nil
		}
		// Bar titles and the start button toggle or switch menus; any
		// other click just closes the menu.
		if m.Y == 0 || pt.In(s.taskbarLayout().start) {
			cmd, _ := s.chromeClick(pt, m.Button)
			return cmd
		}
		s.menu = nil
		return nil
	}

	if s.overlay != overlayNone {
		s.overlay = overlayNone
		return nil
	}

	if cmd, ok := s.chromeClick(pt, m.Button); ok {
		return cmd
	}
	return s.desktopClick(pt, m.Button)
}

// chromeClick handles clicks on the bars around the desktop. It reports
// false when pt lies on the desktop.
func (s *Shell) chromeClick(pt image.Point, button tea.MouseButton) (tea.Cmd, bool) {
	if pt.Y == 0 {
		for i, r := range barTitleRects() {
			if pt.In(r) {
				return s.Dispatch(ActionOpenMenu + ":" + strconv.Itoa(i)), true
			}
		}
		s.menu = nil
		return nil, true
	}
	if s.cfg.Appearance.ShowToolbar && pt.Y == config.MenuBarHeight {
		for _, item := range s.toolbarItems() {
			if item.id != "" && pt.In(item.rect) {
				return s.Dispatch(ActionLaunch + ":" + item.id), true
			}
		}
		return nil, true
	}
	if pt.Y == s.taskbarRow() {
		l := s.taskbarLayout()
		if pt.In(l.start) {
			return s.Dispatch(ActionStartMenu), true
		}
		for _, slot := range l.slots {
			if !pt.In(slot.rect) {
				continue
			}
			h := strconv.Itoa(int(slot.button.Handle))
			if button == tea.MouseRight {
				s.openTaskMenu(slot.button.Handle, slot.rect.Min.X)
				return nil, true
			}
			return s.Dispatch(ActionRestore + ":" + h), true
		}
		return nil, true
	}
	if pt.Y >= s.statusRow() {
		return nil, true
	}
	return nil, false
}

// desktopClick focuses the window under pt and routes the click to its
// title bar, menu strip, resize grip or client area.
func (s *Shell) desktopClick(pt image.Point, button tea.MouseButton) tea.Cmd {
	top := s.desktopTop()
	h, ok := s.registry.WindowAt(pt.X, pt.Y-top)
	if !ok {
		return nil
	}
	_ = s.registry.Focus(h)
	w, _ := s.registry.Get(h)
	f := s.frameOf(w)

	switch {
	case pt.Y == f.title:
		switch {
		case pt.In(f.closeBox):
			s.closeWindow(h)
		case pt.In(f.minBox):
			_ = s.registry.Minimize(h)
		case button == tea.MouseRight:
			s.openWindowMenu()
		case button == tea.MouseLeft:
			s.drag = &dragState{handle: h, offset: pt.Sub(f.bounds.Min)}
		}
		return nil
	case pt == f.grip && button == tea.MouseLeft:
		s.drag = &dragState{handle: h, resize: true}
		return nil
	case pt.Y == f.menuRow:
		for i, r := range menuItemRects(f, w.Content.Menu) {
			if pt.In(r) && w.Content.Menu[i].Run != nil {
				return w.Content.Menu[i].Run()
			}
		}
		return nil
	case pt.In(f.client):
		return w.Content.Surface.Update(desktop.ClickMsg{
			X:      pt.X - f.client.Min.X,
			Y:      pt.Y - f.client.Min.Y,
			Button: button,
		})
	}
	return nil
}

func (s *Shell) mouseMove(m tea.Mouse) {
	if s.menu != nil {
		if i := s.menu.entryAt(m.X, m.Y); i >= 0 && s.menu.entries[i].selectable() {
			s.menu.sel = i
		}
		return
	}
	if s.drag == nil {
		return
	}
	w, ok := s.registry.Get(s.drag.handle)
	if !ok {
		s.drag = nil
		return
	}
	area := s.desktopArea()
	y := m.Y - s.desktopTop()
	if s.drag.resize {
		_ = s.registry.Resize(w.Handle, m.X-w.Bounds.X+1, y-w.Bounds.Y+1)
		return
	}
	x := m.X - s.drag.offset.X
	y -= s.drag.offset.Y
	x = min(max(x, dragMargin-w.Bounds.Width), max(area.Width-dragMargin, 0))
	y = min(max(y, 0), max(area.Height-1, 0))
	_ = s.registry.Move(w.Handle, x, y)
}

func (s *Shell) wheel(m tea.Mouse) tea.Cmd {
	delta := 1
	if m.Button == tea.MouseWheelUp {
		delta = -1
	}
	switch {
	case len(s.notices) > 0:
		return nil
	case s.menu != nil:
		s.menu.move(delta)
		return nil
	case s.overlay != overlayNone:
		s.scrollOverlay(delta * 3)
		return nil
	}
	h, ok := s.registry.WindowAt(m.X, m.Y-s.desktopTop())
	if !ok {
		return nil
	}
	w, _ := s.registry.Get(h)
	if !image.Pt(m.X, m.Y).In(s.frameOf(w).client) {
		return nil
	}
	return w.Content.Surface.Update(desktop.ScrollMsg{Delta: delta})
}
