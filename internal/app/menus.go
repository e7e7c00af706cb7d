package app

import (
	"fmt"
	"image"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// barTitles are the menu bar entries, left to right.
var barTitles = []string{"文件(F)", "编辑工具(E)", "系统工具(S)", "网络工具(N)", "娱乐工具(L)", "窗口(W)", "帮助(H)"}

// menuEntry is one row of a drop-down. Selecting it dispatches action or,
// for window menus, calls run.
type menuEntry struct {
	label  string
	hint   string
	action string
	run    func() tea.Cmd
	header bool
	sep    bool
}

func (e menuEntry) selectable() bool {
	return !e.header && !e.sep
}

type menuKind int

const (
	kindBar menuKind = iota
	kindStart
	kindTask
	kindWindow
)

// dropdown is the open menu. Only one is open at a time.
type dropdown struct {
	kind    menuKind
	bar     int
	entries []menuEntry
	sel     int
	at      image.Point
}

// width is the box width including the border.
func (d *dropdown) width() int {
	w := 0
	for _, e := range d.entries {
		n := ui.StringWidth(e.label)
		if e.hint != "" {
			n += 2 + ui.StringWidth(e.hint)
		}
		w = max(w, n)
	}
	return w + 4
}

func (d *dropdown) rect() image.Rectangle {
	return image.Rect(d.at.X, d.at.Y, d.at.X+d.width(), d.at.Y+len(d.entries)+2)
}

// entryAt returns the entry under (x, y), or -1.
func (d *dropdown) entryAt(x, y int) int {
	r := d.rect().Inset(1)
	if !image.Pt(x, y).In(r) {
		return -1
	}
	return y - r.Min.Y
}

// move steps the selection by delta, skipping headers and separators.
func (d *dropdown) move(delta int) {
	n := len(d.entries)
	if n == 0 {
		return
	}
	i := d.sel
	for range n {
		i = ((i+delta)%n + n) % n
		if d.entries[i].selectable() {
			d.sel = i
			return
		}
	}
}

// first selects the first selectable entry.
func (d *dropdown) first() {
	d.sel = len(d.entries) - 1
	d.move(1)
}

func (d *dropdown) selected() (menuEntry, bool) {
	if d.sel < 0 || d.sel >= len(d.entries) || !d.entries[d.sel].selectable() {
		return menuEntry{}, false
	}
	return d.entries[d.sel], true
}

// place moves the box so it stays on a width x height screen.
func (d *dropdown) place(width, height int) {
	r := d.rect()
	if r.Max.X > width {
		d.at.X = max(width-r.Dx(), 0)
	}
	if r.Max.Y > height {
		d.at.Y = max(height-r.Dy(), 0)
	}
	d.at.Y = max(d.at.Y, 0)
}

func (s *Shell) hint(action string) string {
	return s.keys.GetKeysForDisplay(action)
}

func (s *Shell) toolEntry(t tools.Tool, indent string) menuEntry {
	return menuEntry{
		label:  indent + t.Label(s.ascii()),
		hint:   s.hint("launch_" + t.ID),
		action: ActionLaunch + ":" + t.ID,
	}
}

// barEntries builds the drop-down for menu bar title i.
func (s *Shell) barEntries(i int) []menuEntry {
	switch i {
	case 0:
		return []menuEntry{{label: "退出(X)", hint: s.hint(ActionQuit), action: ActionQuit}}
	case 1, 2, 3, 4:
		var out []menuEntry
		for _, t := range tools.ByCategory(tools.Categories()[i-1]) {
			out = append(out, s.toolEntry(t, ""))
		}
		return out
	case 5:
		out := []menuEntry{
			{label: "层叠窗口", hint: s.hint(ActionCascade), action: ActionCascade},
			{label: "平铺窗口", hint: s.hint(ActionTile), action: ActionTile},
			{label: "关闭所有窗口", hint: s.hint(ActionCloseAll), action: ActionCloseAll},
		}
		windows := s.registry.Windows()
		if len(windows) > 0 {
			out = append(out, menuEntry{sep: true})
		}
		for n, w := range windows {
			label := fmt.Sprintf("%d %s", n+1, w.Title)
			if w.Active {
				label = "✓ " + label
				if s.ascii() {
					label = "* " + fmt.Sprintf("%d %s", n+1, w.Title)
				}
			} else {
				label = "  " + label
			}
			out = append(out, menuEntry{label: label, action: ActionFocus + ":" + strconv.Itoa(int(w.Handle))})
		}
		return out
	case 6:
		return []menuEntry{
			{label: "快捷键", action: ActionHelp},
			{label: "查看日志", hint: s.hint(ActionToggleLogs), action: ActionToggleLogs},
			{sep: true},
			{label: "关于", hint: s.hint(ActionAbout), action: ActionAbout},
		}
	}
	return nil
}

func (s *Shell) openBarMenu(i int) {
	titles := barTitleRects()
	d := &dropdown{kind: kindBar, bar: i, entries: s.barEntries(i), at: image.Pt(titles[i].Min.X, 1)}
	d.first()
	d.place(s.width, s.height)
	s.menu = d
}

// startEntries mirrors the menu bar grouped by category.
func (s *Shell) startEntries() []menuEntry {
	icons := []string{"📝", "⚙️", "🌐", "🎵"}
	var out []menuEntry
	for i, c := range tools.Categories() {
		title := icons[i] + " " + c.Title()
		if s.ascii() {
			title = "[" + c.Title() + "]"
		}
		out = append(out, menuEntry{label: title, header: true})
		for _, t := range tools.ByCategory(c) {
			out = append(out, s.toolEntry(t, "  "))
		}
	}
	windowTitle, about, exit := "🪟 窗口管理", "❓ 关于", "❌ 退出"
	if s.ascii() {
		windowTitle, about, exit = "[窗口管理]", "关于", "退出"
	}
	out = append(out,
		menuEntry{sep: true},
		menuEntry{label: windowTitle, header: true},
		menuEntry{label: "  层叠窗口", hint: s.hint(ActionCascade), action: ActionCascade},
		menuEntry{label: "  平铺窗口", hint: s.hint(ActionTile), action: ActionTile},
		menuEntry{label: "  关闭所有窗口", hint: s.hint(ActionCloseAll), action: ActionCloseAll},
		menuEntry{sep: true},
		menuEntry{label: about, hint: s.hint(ActionAbout), action: ActionAbout},
		menuEntry{label: exit, hint: s.hint(ActionQuit), action: ActionQuit},
	)
	return out
}

// openStartMenu pops the start menu up above the start button.
func (s *Shell) openStartMenu() {
	entries := s.startEntries()
	d := &dropdown{kind: kindStart, entries: entries, at: image.Pt(0, s.taskbarRow()-len(entries)-2)}
	d.first()
	d.place(s.width, s.height)
	s.menu = d
}

// openTaskMenu shows the context menu of the task button for h.
func (s *Shell) openTaskMenu(h desktop.Handle, x int) {
	var entries []menuEntry
	for _, a := range desktop.ContextActions() {
		action := ActionRestore
		switch a {
		case desktop.TaskMinimize:
			action = ActionMinimize
		case desktop.TaskClose:
			action = ActionClose
		}
		entries = append(entries, menuEntry{label: a.Label(), action: action + ":" + strconv.Itoa(int(h))})
	}
	d := &dropdown{kind: kindTask, entries: entries, at: image.Pt(x, s.taskbarRow()-len(entries)-2)}
	d.first()
	d.place(s.width, s.height)
	s.menu = d
}

// openWindowMenu shows the focused window's own menu as a drop-down.
func (s *Shell) openWindowMenu() {
	w, ok := s.registry.Focused()
	if !ok || len(w.Content.Menu) == 0 {
		return
	}
	var entries []menuEntry
	for _, item := range w.Content.Menu {
		entries = append(entries, menuEntry{label: item.Label, run: item.Run})
	}
	f := s.frameOf(w)
	y := f.bounds.Min.Y + 1
	if f.menuRow >= 0 {
		y = f.menuRow + 1
	}
	d := &dropdown{kind: kindWindow, entries: entries, at: image.Pt(f.bounds.Min.X+1, y)}
	d.first()
	d.place(s.width, s.height)
	s.menu = d
}

// activate closes the menu and runs entry.
func (s *Shell) activate(e menuEntry) tea.Cmd {
	s.menu = nil
	if e.run != nil {
		return e.run()
	}
	return s.Dispatch(e.action)
}

// menuKey drives the open drop-down from the keyboard.
func (s *Shell) menuKey(msg tea.KeyPressMsg) tea.Cmd {
	d := s.menu
	switch msg.String() {
	case "up", "shift+tab":
		d.move(-1)
	case "down", "tab":
		d.move(1)
	case "left", "right":
		if d.kind == kindBar {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			s.openBarMenu(((d.bar+step)%len(barTitles) + len(barTitles)) % len(barTitles))
		}
	case "enter", "space":
		if e, ok := d.selected(); ok {
			return s.activate(e)
		}
	case "esc":
		s.menu = nil
	}
	return nil
}
