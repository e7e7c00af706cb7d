package app

import (
	"image"
	"image/color"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
)

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Wallpaper.Path = ""
	s := NewShell(Options{Config: cfg})
	t.Cleanup(s.Cleanup)
	s.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return s
}

func titles(s *Shell) []string {
	var out []string
	for _, w := range s.Registry().Windows() {
		out = append(out, w.Title)
	}
	return out
}

func TestDispatchLaunch(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	s.Dispatch("launch_calculator")

	got := titles(s)
	want := []string{"计算器 #1", "计算器 #2"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	w, ok := s.Registry().Focused()
	if !ok || w.Title != "计算器 #2" {
		t.Errorf("focused = %q, want the last opened window", w.Title)
	}
}

func TestLaunchUnknownToolShowsError(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:nope")

	if n := s.Registry().Count(); n != 0 {
		t.Fatalf("Count() = %d, want 0", n)
	}
	if n := s.Registry().Counter(); n != 0 {
		t.Errorf("Counter() = %d, want 0", n)
	}
	notices := s.Notices()
	if len(notices) != 1 {
		t.Fatalf("got %d notices, want 1", len(notices))
	}
	if notices[0].Title != "错误" || !strings.HasPrefix(notices[0].Text, "启动工具失败: ") {
		t.Errorf("notice = %+v", notices[0])
	}
}

func TestKeyBindingMatchesMenu(t *testing.T) {
	s := newTestShell(t)
	s.Update(tea.KeyPressMsg{Code: '4', Mod: tea.ModAlt})

	// System tools menu: terminal, launcher, calculator, ...
	s.Dispatch("menu_system")
	if s.menu == nil || s.menu.kind != kindBar || s.menu.bar != 2 {
		t.Fatalf("menu = %+v, want the system tools menu", s.menu)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.menu != nil {
		t.Error("menu still open after selecting an entry")
	}
	got := titles(s)
	want := []string{"计算器 #1", "计算器 #2"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("titles = %v, want %v", got, want)
	}
}

func TestMenusToggle(t *testing.T) {
	s := newTestShell(t)

	s.Dispatch(ActionStartMenu)
	if s.menu == nil || s.menu.kind != kindStart {
		t.Fatal("start menu did not open")
	}
	s.Dispatch(ActionStartMenu)
	if s.menu != nil {
		t.Fatal("start menu did not close")
	}

	s.Dispatch("open_menu:5")
	s.Dispatch("menu_help")
	if s.menu == nil || s.menu.bar != 6 {
		t.Fatal("switching menus should open the new one")
	}
	s.Dispatch("menu_help")
	if s.menu != nil {
		t.Fatal("help menu did not close")
	}

	s.Dispatch(ActionStartMenu)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.menu != nil {
		t.Error("esc did not close the menu")
	}
}

func TestStartMenuSkipsHeaders(t *testing.T) {
	s := newTestShell(t)
	s.openStartMenu()
	e, ok := s.menu.selected()
	if !ok || e.action != "launch:editor" {
		t.Fatalf("first selection = %+v, want the editor", e)
	}
	s.menu.move(-1)
	e, _ = s.menu.selected()
	if e.action != ActionQuit {
		t.Errorf("moving up from the top = %q, want %q", e.action, ActionQuit)
	}
	r := s.menu.rect()
	if r.Max.Y > s.taskbarRow() {
		t.Errorf("start menu bottom %d overlaps the task bar at %d", r.Max.Y, s.taskbarRow())
	}
}

func TestCascadeAndTile(t *testing.T) {
	s := newTestShell(t)
	for range 3 {
		s.Dispatch("launch:calculator")
	}

	s.Dispatch(ActionTile)
	area := s.desktopArea()
	for _, w := range s.Registry().Windows() {
		b := w.Bounds
		if b.X < 0 || b.Y < 0 || b.X+b.Width > area.Width || b.Y+b.Height > area.Height {
			t.Errorf("%s tiled to %+v outside %+v", w.Title, b, area)
		}
	}

	s.Dispatch(ActionCascade)
	ws := s.Registry().Windows()
	step := s.cfg.Desktop.CascadeOffset
	for i, w := range ws {
		if w.Bounds.X != i*step || w.Bounds.Y != i*step {
			t.Errorf("window %d at (%d,%d), want (%d,%d)", i, w.Bounds.X, w.Bounds.Y, i*step, i*step)
		}
	}
	if f, _ := s.Registry().Focused(); f.Handle != ws[len(ws)-1].Handle {
		t.Error("cascade should leave the last window in front")
	}
}

func TestCloseAll(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	s.Dispatch("launch:calculator")
	s.Dispatch(ActionCloseAll)

	if n := s.Registry().Count(); n != 0 {
		t.Fatalf("Count() = %d after close_all", n)
	}
	if n := len(s.Registry().TaskBar().Buttons()); n != 0 {
		t.Errorf("%d task buttons left", n)
	}
	s.Dispatch("launch:calculator")
	if got := titles(s); got[0] != "计算器 #1" {
		t.Errorf("close_all should reset the counter, got %q", got[0])
	}
}

func TestStatusBar(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	s.View()

	row := s.screen.Row(s.statusRow())
	if !strings.Contains(row, readyStatus) {
		t.Errorf("status row %q lacks %q", row, readyStatus)
	}
	if !strings.Contains(row, "窗口数: 1") {
		t.Errorf("status row %q lacks the window count", row)
	}

	s.Update(tools.StatusMsg{Text: "正在处理"})
	s.View()
	if row := s.screen.Row(s.statusRow()); !strings.Contains(row, "正在处理") {
		t.Errorf("status row %q lacks the reported status", row)
	}
}

func TestNoticeDismiss(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch(ActionAbout)
	if len(s.Notices()) != 1 || s.Notices()[0].Title != "关于" {
		t.Fatalf("notices = %+v", s.Notices())
	}

	// Keys other than the dismiss keys are swallowed by the box.
	s.Update(tea.KeyPressMsg{Code: '4', Mod: tea.ModAlt})
	if s.Registry().Count() != 0 {
		t.Error("a key reached the desktop behind the message box")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(s.Notices()) != 0 {
		t.Error("enter did not dismiss the message box")
	}
}

func TestTaskButtonRestores(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	s.Dispatch("launch:calculator")
	first := s.Registry().Windows()[0].Handle
	s.Dispatch("minimize_window:1")

	w, _ := s.Registry().Get(first)
	if !w.Minimized {
		t.Fatal("window not minimized")
	}

	slot := s.taskbarLayout().slots[0]
	s.Update(tea.MouseClickMsg{X: slot.rect.Min.X + 1, Y: slot.rect.Min.Y, Button: tea.MouseLeft})

	w, _ = s.Registry().Get(first)
	if w.Minimized || !w.Active {
		t.Errorf("after click: minimized=%v active=%v", w.Minimized, w.Active)
	}
}

func TestTaskContextMenuClose(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	h := s.Registry().Windows()[0].Handle

	slot := s.taskbarLayout().slots[0]
	s.Update(tea.MouseClickMsg{X: slot.rect.Min.X + 1, Y: slot.rect.Min.Y, Button: tea.MouseRight})
	if s.menu == nil || s.menu.kind != kindTask {
		t.Fatal("context menu did not open")
	}
	var labels []string
	for _, e := range s.menu.entries {
		labels = append(labels, e.label)
	}
	if got := strings.Join(labels, ","); got != "还原,最小化,关闭" {
		t.Errorf("context menu = %s", got)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := s.Registry().Get(h); ok {
		t.Error("window still open after 关闭")
	}
}

func TestTitleBarDrag(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	w := s.Registry().Windows()[0]
	f := s.frameOf(w)

	x, y := f.bounds.Min.X+3, f.title
	s.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	if !s.Dragging() {
		t.Fatal("click on the title bar did not start a drag")
	}
	s.Update(tea.MouseMotionMsg{X: x + 10, Y: y + 4, Button: tea.MouseLeft})
	s.Update(tea.MouseReleaseMsg{X: x + 10, Y: y + 4, Button: tea.MouseLeft})

	got, _ := s.Registry().Get(w.Handle)
	if got.Bounds.X != w.Bounds.X+10 || got.Bounds.Y != w.Bounds.Y+4 {
		t.Errorf("bounds = %+v, want moved by (10,4) from %+v", got.Bounds, w.Bounds)
	}
	if s.Dragging() {
		t.Error("release did not end the drag")
	}
}

func TestCloseBox(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	w := s.Registry().Windows()[0]
	f := s.frameOf(w)

	s.Update(tea.MouseClickMsg{X: f.closeBox.Min.X + 1, Y: f.title, Button: tea.MouseLeft})
	if s.Registry().Count() != 0 {
		t.Error("[X] did not close the window")
	}
}

func TestClientSizeReachesSurface(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch("launch:calculator")
	w := s.Registry().Windows()[0]

	want := s.frameOf(w).client.Size()
	if got := s.sizes[w.Handle]; got != want {
		t.Errorf("recorded client size %v, want %v", got, want)
	}
	// Calculator has a menu strip, so the client loses one more row.
	if want.Y != w.Bounds.Height-3 {
		t.Errorf("client height = %d for window height %d", want.Y, w.Bounds.Height)
	}
}

func TestUnknownActionIsLogged(t *testing.T) {
	s := newTestShell(t)
	before := len(s.Logs())
	s.Dispatch("no_such_action")
	logs := s.Logs()
	if len(logs) != before+1 || logs[len(logs)-1].Level != "WARN" {
		t.Errorf("logs = %+v", logs[before:])
	}
}

func TestLogBufferIsCapped(t *testing.T) {
	s := newTestShell(t)
	for i := range config.MaxLogMessages + 10 {
		s.LogInfo("line %d", i)
	}
	if n := len(s.Logs()); n != config.MaxLogMessages {
		t.Errorf("len(Logs()) = %d, want %d", n, config.MaxLogMessages)
	}
}

func TestHelpSearch(t *testing.T) {
	s := newTestShell(t)
	s.Dispatch(ActionHelp)
	if s.overlay != overlayHelp {
		t.Fatal("help overlay not shown")
	}
	s.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	for _, r := range "Tile" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	found := false
	for _, l := range s.helpLines() {
		if l.header {
			t.Errorf("search results include header %q", l.desc)
		}
		found = found || l.desc == "Tile windows"
	}
	if !found {
		t.Errorf("search results = %+v", s.helpLines())
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.overlay != overlayNone {
		t.Error("esc did not close the help overlay")
	}
}

func TestStartupActions(t *testing.T) {
	s := NewShell(Options{Config: config.DefaultConfig(), Startup: []string{"launch:calculator", "tile"}})
	t.Cleanup(s.Cleanup)
	if s.Registry().Count() != 0 {
		t.Fatal("startup actions ran before the screen size was known")
	}
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	w, ok := s.Registry().Focused()
	if !ok || w.Bounds.Width != 100 {
		t.Errorf("focused = %+v, want a tiled calculator", w)
	}
	s.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if n := s.Registry().Count(); n != 1 {
		t.Errorf("Count() = %d, startup actions should run once", n)
	}
}

func TestResizeRebuildsWallpaper(t *testing.T) {
	s := newTestShell(t)
	red := color.RGBA{R: 0xff, A: 0xff}
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := range 20 {
		for x := range 40 {
			img.SetRGBA(x, y, red)
		}
	}
	s.Compositor().SelectImage("red.png", img)
	s.Compositor().ApplyImage(img)

	for _, size := range []tea.WindowSizeMsg{{Width: 120, Height: 40}, {Width: 80, Height: 24}, {Width: 150, Height: 50}} {
		s.Update(size)
		s.View()

		r := s.desktopRect()
		if s.wallBuf == nil || s.wallBuf.Width() != r.Dx() || s.wallBuf.Height() != r.Dy() {
			t.Fatalf("%dx%d: wallpaper buffer not rebuilt for a %dx%d desktop", size.Width, size.Height, r.Dx(), r.Dy())
		}
		if got, want := s.wallSrc.Bounds().Size(), image.Pt(r.Dx(), r.Dy()*2); got != want {
			t.Errorf("%dx%d: wallpaper rendered at %v, want %v", size.Width, size.Height, got, want)
		}
		corner := s.screen.Cell(r.Max.X-1, r.Max.Y-1)
		if bg, ok := corner.Style.Bg.(color.RGBA); !ok || bg != red {
			t.Errorf("%dx%d: desktop corner bg = %v, want stretched wallpaper", size.Width, size.Height, corner.Style.Bg)
		}
	}
}
