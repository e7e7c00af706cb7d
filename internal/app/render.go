package app

import (
	"fmt"
	"image"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// View composes the whole screen into the cell buffer and hands the
// styled result to bubbletea.
func (s *Shell) View() tea.View {
	var view tea.View
	if !s.quitting && s.width > 0 && s.height > 0 {
		s.compose()
		view.SetContent(s.screen.Render())
	}
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.ReportFocus = true
	return view
}

func (s *Shell) faceStyle() ui.Style {
	return ui.Style{Fg: s.theme.FaceText, Bg: s.theme.Face}
}

func (s *Shell) selectStyle() ui.Style {
	return ui.Style{Fg: s.theme.MenuSelectText, Bg: s.theme.MenuSelect}
}

func (s *Shell) border() ui.Border {
	if s.ascii() {
		return ui.ASCIIBorder
	}
	return ui.SingleBorder
}

// compose draws back to front: bars, desktop, windows, then whatever
// floats above them.
func (s *Shell) compose() {
	buf := s.screen
	buf.Clear(s.faceStyle())

	s.drawMenuBar(buf)
	if s.cfg.Appearance.ShowToolbar {
		s.drawToolbar(buf)
	}
	s.drawDesktop(buf)
	for _, w := range s.registry.Stack() {
		if !w.Minimized {
			s.drawWindow(buf, w)
		}
	}
	s.drawTaskbar(buf)
	s.drawStatusBar(buf)

	switch s.overlay {
	case overlayHelp:
		s.drawHelp(buf)
	case overlayLogs:
		s.drawLogs(buf)
	}
	if s.menu != nil {
		s.drawMenu(buf, s.menu)
	}
	if len(s.notices) > 0 {
		s.drawNotice(buf, s.notices[0])
	}
}

func (s *Shell) drawMenuBar(buf *ui.Buffer) {
	face := s.faceStyle()
	buf.Fill(image.Rect(0, 0, s.width, 1), " ", face)
	for i, r := range barTitleRects() {
		st := face
		if s.menu != nil && s.menu.kind == kindBar && s.menu.bar == i {
			st = s.selectStyle()
		}
		buf.SetString(r.Min.X, 0, " "+barTitles[i]+" ", st)
	}
}

func (s *Shell) drawToolbar(buf *ui.Buffer) {
	face := s.faceStyle()
	y := config.MenuBarHeight
	buf.Fill(image.Rect(0, y, s.width, y+1), " ", face)
	sep := " │ "
	if s.ascii() {
		sep = " | "
	}
	for _, item := range s.toolbarItems() {
		if item.id == "" {
			buf.SetString(item.rect.Min.X, y, sep, ui.Style{Fg: s.theme.Shadow, Bg: s.theme.Face})
			continue
		}
		t, _ := tools.Lookup(item.id)
		buf.Bevel(item.rect, s.theme.Face, s.theme.Highlight, s.theme.Shadow, false)
		buf.SetString(item.rect.Min.X+1, y, t.Label(s.ascii()), face)
	}
}

// drawDesktop paints the wallpaper, or the plain desktop color when none
// is applied. The half-block conversion is redone only when the
// compositor hands back a different image.
func (s *Shell) drawDesktop(buf *ui.Buffer) {
	r := s.desktopRect()
	if r.Empty() {
		return
	}
	px := ui.PixelSize(r.Dx(), r.Dy())
	img := s.comp.Render(px.X, px.Y)
	if img == nil {
		s.wallSrc = nil
		buf.Fill(r, " ", ui.Style{Bg: s.theme.Desktop})
		return
	}
	if img != s.wallSrc || s.wallBuf == nil || s.wallBuf.Width() != r.Dx() || s.wallBuf.Height() != r.Dy() {
		if s.wallBuf == nil {
			s.wallBuf = ui.NewBuffer(r.Dx(), r.Dy())
		} else {
			s.wallBuf.Resize(r.Dx(), r.Dy())
		}
		s.wallBuf.DrawImage(0, 0, img)
		s.wallSrc = img
	}
	buf.Blit(r.Min.X, r.Min.Y, s.wallBuf)
}

func (s *Shell) drawWindow(buf *ui.Buffer, w desktop.Window) {
	th := s.theme
	f := s.frameOf(w)
	b := f.bounds
	face := s.faceStyle()
	body := ui.Style{Fg: th.WindowText, Bg: th.Window}

	buf.Fill(b, " ", face)
	buf.Box(b, s.border(), ui.Style{Fg: th.Shadow, Bg: th.Face})

	title := ui.Style{Fg: th.TitleInactiveText, Bg: th.TitleInactive}
	if w.Active {
		title = ui.Style{Fg: th.TitleActiveText, Bg: th.TitleActive, Bold: true}
	}
	buf.Fill(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1), " ", title)
	textW := b.Dx() - 2
	if b.Dx() >= 10 {
		textW = f.minBox.Min.X - b.Min.X - 2
		buf.SetString(f.minBox.Min.X, f.title, "[_]", face)
		buf.SetString(f.closeBox.Min.X, f.title, "[X]", face)
	}
	buf.SetString(b.Min.X+1, f.title, ui.Truncate(desktop.Label(w.Icon, w.Title), max(textW, 0)), title)

	if f.menuRow >= 0 && f.menuRow < b.Max.Y-1 {
		buf.Fill(image.Rect(b.Min.X+1, f.menuRow, b.Max.X-1, f.menuRow+1), " ", face)
		for i, r := range menuItemRects(f, w.Content.Menu) {
			if r.Max.X > b.Max.X-1 {
				break
			}
			buf.SetString(r.Min.X+1, f.menuRow, w.Content.Menu[i].Label, face)
		}
	}

	if !f.client.Empty() {
		cb := s.clients[w.Handle]
		if cb == nil {
			cb = ui.NewBuffer(f.client.Dx(), f.client.Dy())
			s.clients[w.Handle] = cb
		} else if cb.Width() != f.client.Dx() || cb.Height() != f.client.Dy() {
			cb.Resize(f.client.Dx(), f.client.Dy())
		}
		cb.Clear(body)
		w.Content.Surface.Render(cb, w.Active)
		buf.Blit(f.client.Min.X, f.client.Min.Y, cb)
	}

	grip := "◢"
	if s.ascii() {
		grip = "/"
	}
	buf.Set(f.grip.X, f.grip.Y, grip, ui.Style{Fg: th.Shadow, Bg: th.Face})
}

func (s *Shell) drawTaskbar(buf *ui.Buffer) {
	th := s.theme
	face := s.faceStyle()
	y := s.taskbarRow()
	if y < 0 {
		return
	}
	buf.Fill(image.Rect(0, y, s.width, y+1), " ", face)
	l := s.taskbarLayout()

	startOpen := s.menu != nil && s.menu.kind == kindStart
	buf.Bevel(l.start, th.Face, th.Highlight, th.Shadow, startOpen)
	buf.SetString(l.start.Min.X+1, y, s.startLabel(), ui.Style{Fg: th.FaceText, Bg: th.Face, Bold: true})

	for _, slot := range l.slots {
		st := face
		if slot.button.Minimized {
			st = ui.Style{Fg: th.Dim, Bg: th.Face}
		}
		buf.Bevel(slot.rect, th.Face, th.Highlight, th.Shadow, slot.button.Active)
		if slot.button.Active {
			st.Bold = true
		}
		buf.SetString(slot.rect.Min.X+1, y, ui.Truncate(slot.button.Label, max(slot.rect.Dx()-2, 0)), st)
	}

	if !l.clock.Empty() {
		buf.Bevel(l.clock, th.Face, th.Highlight, th.Shadow, true)
		buf.SetString(l.clock.Min.X+1, y, s.now.Format(config.ClockFormat), face)
	}
}

func (s *Shell) drawStatusBar(buf *ui.Buffer) {
	th := s.theme
	face := s.faceStyle()
	y := s.statusRow()
	if y < 0 {
		return
	}
	buf.Fill(image.Rect(0, y, s.width, y+1), " ", face)

	right := fmt.Sprintf("窗口数: %d", s.registry.Count())
	if s.remote {
		right = "SSH  " + right
	}
	rx := max(s.width-ui.StringWidth(right)-1, 0)
	buf.SetString(rx, y, right, face)

	if s.cfg.Appearance.ShowSysInfo {
		graph := s.monitor.Graph(s.ascii())
		gx := rx - ui.StringWidth(graph) - 2
		if gx > s.width/3 {
			buf.SetString(gx, y, graph, ui.Style{Fg: th.Accent, Bg: th.Face})
			rx = gx
		}
	}
	buf.SetString(1, y, ui.Truncate(s.status, max(rx-2, 0)), face)
}

func (s *Shell) drawMenu(buf *ui.Buffer, d *dropdown) {
	th := s.theme
	face := s.faceStyle()
	dim := ui.Style{Fg: th.Dim, Bg: th.Face}
	r := d.rect()
	buf.Fill(r, " ", face)
	border := s.border()
	buf.Box(r, border, face)
	for i, e := range d.entries {
		y := r.Min.Y + 1 + i
		row := image.Rect(r.Min.X+1, y, r.Max.X-1, y+1)
		switch {
		case e.sep:
			buf.Fill(row, border.Top, face)
			continue
		case e.header:
			buf.SetString(row.Min.X+1, y, e.label, ui.Style{Fg: th.Accent, Bg: th.Face, Bold: true})
			continue
		}
		st, hint := face, dim
		if i == d.sel {
			st = s.selectStyle()
			hint = st
			buf.Fill(row, " ", st)
		}
		buf.SetString(row.Min.X+1, y, e.label, st)
		if e.hint != "" {
			buf.SetString(row.Max.X-1-ui.StringWidth(e.hint), y, e.hint, hint)
		}
	}
}

// drawPanel draws a framed face-colored box with a centered title.
func (s *Shell) drawPanel(buf *ui.Buffer, box image.Rectangle, title string) {
	th := s.theme
	face := s.faceStyle()
	buf.Fill(box, " ", face)
	buf.Box(box, s.border(), face)
	bar := image.Rect(box.Min.X+1, box.Min.Y, box.Max.X-1, box.Min.Y+1)
	if !bar.Empty() {
		titleSt := ui.Style{Fg: th.TitleActiveText, Bg: th.TitleActive, Bold: true}
		buf.Fill(bar, " ", titleSt)
		t := ui.Truncate(title, bar.Dx())
		buf.SetString(bar.Min.X+ui.Center(t, bar.Dx()), bar.Min.Y, t, titleSt)
	}
}

func (s *Shell) drawNotice(buf *ui.Buffer, n tools.NoticeMsg) {
	th := s.theme
	nl := s.noticeLayout(n)
	s.drawPanel(buf, nl.box, n.Title)
	text := s.faceStyle()
	switch n.Level {
	case tools.NoticeError:
		text.Fg = th.Error
	case tools.NoticeWarn:
		text.Fg = th.Warning
	}
	for i, line := range nl.lines {
		y := nl.box.Min.Y + 2 + i
		if y >= nl.ok.Min.Y-1 {
			break
		}
		buf.SetString(nl.box.Min.X+2, y, line, text)
	}
	buf.SetString(nl.ok.Min.X, nl.ok.Min.Y, okLabel, s.selectStyle())
}

func (s *Shell) drawLogs(buf *ui.Buffer) {
	th := s.theme
	box := s.overlayBox()
	s.drawPanel(buf, box, fmt.Sprintf("日志 (%d)", len(s.logs)))
	inner := box.Inset(1)
	if inner.Empty() {
		return
	}
	rows := inner.Dy()
	end := max(len(s.logs)-s.logScroll, 0)
	start := max(end-rows, 0)
	for i, m := range s.logs[start:end] {
		y := inner.Min.Y + i
		lvl := ui.Style{Fg: th.Success, Bg: th.Face, Bold: true}
		switch m.Level {
		case "WARN":
			lvl.Fg = th.Warning
		case "ERROR":
			lvl.Fg = th.Error
		}
		x := inner.Min.X + 1
		x += buf.SetString(x, y, m.Time.Format("15:04:05")+" ", ui.Style{Fg: th.Dim, Bg: th.Face})
		x += buf.SetString(x, y, fmt.Sprintf("%-5s ", m.Level), lvl)
		buf.SetString(x, y, ui.Truncate(m.Message, max(inner.Max.X-x-1, 0)), s.faceStyle())
	}
}
