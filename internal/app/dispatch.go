package app

import (
	"errors"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
)

// Actions accepted by Dispatch. An action may carry an argument after a
// colon: "launch:editor", "open_menu:2", "close_window:7". Without a
// handle argument the window actions apply to the focused window. The
// key binding spellings "launch_editor" and "menu_file" are accepted too.
const (
	ActionLaunch     = "launch"
	ActionCascade    = "cascade"
	ActionTile       = "tile"
	ActionCloseAll   = "close_all"
	ActionClose      = "close_window"
	ActionMinimize   = "minimize_window"
	ActionRestore    = "restore_window"
	ActionFocus      = "focus"
	ActionNext       = "next_window"
	ActionPrev       = "prev_window"
	ActionStartMenu  = "start_menu"
	ActionOpenMenu   = "open_menu"
	ActionMenuBar    = "menu_bar"
	ActionWindowMenu = "window_menu"
	ActionAbout      = "about"
	ActionHelp       = "help"
	ActionToggleLogs = "toggle_logs"
	ActionQuit       = "quit"
)

// barMenuActions maps the key binding names to menu bar positions.
var barMenuActions = map[string]int{
	"menu_file":    0,
	"menu_edit":    1,
	"menu_system":  2,
	"menu_network": 3,
	"menu_fun":     4,
	"menu_window":  5,
	"menu_help":    6,
}

// Dispatch runs action. Menus, the tool bar, the start menu, the task bar
// and key bindings all end up here.
func (s *Shell) Dispatch(action string) tea.Cmd {
	name, arg, _ := strings.Cut(action, ":")
	if id, ok := strings.CutPrefix(name, "launch_"); ok && arg == "" {
		name, arg = ActionLaunch, id
	}
	if i, ok := barMenuActions[name]; ok {
		name, arg = ActionOpenMenu, strconv.Itoa(i)
	}
	prev := s.menu
	s.menu = nil

	switch name {
	case ActionLaunch:
		return s.launch(arg, "")
	case ActionCascade:
		n := s.registry.Cascade()
		s.LogInfo("cascade %d windows", n)
	case ActionTile:
		n := s.registry.Tile(s.desktopArea())
		s.LogInfo("tile %d windows", n)
	case ActionCloseAll:
		s.closeAll()
	case ActionClose:
		if h, ok := s.target(arg); ok {
			s.closeWindow(h)
		}
	case ActionMinimize:
		if h, ok := s.target(arg); ok {
			_ = s.registry.Minimize(h)
		}
	case ActionRestore:
		h, ok := s.target(arg)
		if arg == "" {
			h, ok = s.firstMinimized()
		}
		if ok {
			_ = s.registry.Restore(h)
		}
	case ActionFocus:
		if h, ok := s.target(arg); ok {
			_ = s.registry.Focus(h)
		}
	case ActionNext:
		s.registry.Cycle(1)
	case ActionPrev:
		s.registry.Cycle(-1)
	case ActionStartMenu:
		if prev == nil || prev.kind != kindStart {
			s.openStartMenu()
		}
	case ActionOpenMenu:
		i, err := strconv.Atoi(arg)
		if err != nil || i < 0 || i >= len(barTitles) {
			s.LogWarn("no menu %q", arg)
			return nil
		}
		if prev == nil || prev.kind != kindBar || prev.bar != i {
			s.openBarMenu(i)
		}
	case ActionMenuBar:
		s.openBarMenu(0)
	case ActionWindowMenu:
		s.openWindowMenu()
	case ActionAbout:
		s.showNotice(tools.NoticeMsg{Title: "关于", Text: s.aboutText(), Level: tools.NoticeInfo})
	case ActionHelp:
		s.toggleOverlay(overlayHelp)
	case ActionToggleLogs:
		s.toggleOverlay(overlayLogs)
	case ActionQuit:
		return s.quit()
	default:
		s.LogWarn("unknown action %q", action)
	}
	return nil
}

// target resolves a handle argument, or the focused window without one.
func (s *Shell) target(arg string) (desktop.Handle, bool) {
	if arg == "" {
		w, ok := s.registry.Focused()
		return w.Handle, ok
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, false
	}
	h := desktop.Handle(n)
	_, ok := s.registry.Get(h)
	return h, ok
}

func (s *Shell) firstMinimized() (desktop.Handle, bool) {
	for _, w := range s.registry.Windows() {
		if w.Minimized {
			return w.Handle, true
		}
	}
	return 0, false
}

func (s *Shell) toggleOverlay(o overlay) {
	if s.overlay == o {
		s.overlay = overlayNone
		return
	}
	s.overlay = o
	s.helpScroll, s.logScroll = 0, 0
	s.helpQuery, s.helpSearch = "", false
}

// launch opens the catalog tool id.
func (s *Shell) launch(id, arg string) tea.Cmd {
	t, ok := tools.Lookup(id)
	if !ok {
		s.showNotice(tools.NoticeMsg{Title: "错误", Text: "启动工具失败: 未知工具 " + id, Level: tools.NoticeError})
		return nil
	}
	return s.open(t, arg)
}

// open registers a window for t. A factory failure shows the error box
// and registers nothing.
func (s *Shell) open(t tools.Tool, arg string) tea.Cmd {
	icon := t.Icon
	if s.ascii() {
		icon = t.ASCIIIcon
	}
	h, err := s.registry.Open(t.Title, icon, t.Factory(s.env(), arg))
	if err != nil {
		s.LogError("launch %s: %v", t.ID, err)
		cause := err
		if inner := errors.Unwrap(err); inner != nil {
			cause = inner
		}
		s.notices = append(s.notices, tools.NoticeMsg{
			Title: "错误",
			Text:  "启动工具失败: " + cause.Error(),
			Level: tools.NoticeError,
		})
		return nil
	}
	w, _ := s.registry.Get(h)
	s.LogInfo("opened %s [%s]", w.Title, w.ID)
	s.syncSizes()
	return w.Content.Surface.Init()
}

// closeWindow disposes h. Disposal errors are logged; the window is gone
// either way.
func (s *Shell) closeWindow(h desktop.Handle) {
	w, ok := s.registry.Get(h)
	if !ok {
		return
	}
	if err := s.registry.Close(h); err != nil {
		s.LogError("close %s: %v", w.Title, err)
	} else {
		s.LogInfo("closed %s [%s]", w.Title, w.ID)
	}
	delete(s.clients, h)
	delete(s.sizes, h)
	if s.drag != nil && s.drag.handle == h {
		s.drag = nil
	}
}

func (s *Shell) closeAll() {
	n := s.registry.Count()
	if err := s.registry.CloseAll(); err != nil {
		s.LogError("close all: %v", err)
	}
	clear(s.clients)
	clear(s.sizes)
	s.drag = nil
	s.LogInfo("closed %d windows", n)
}

func (s *Shell) quit() tea.Cmd {
	s.Cleanup()
	s.quitting = true
	return tea.Quit
}

// handleOf finds the window hosting surface.
func (s *Shell) handleOf(surface desktop.Surface) (desktop.Handle, bool) {
	for _, w := range s.registry.Windows() {
		if w.Content.Surface == surface {
			return w.Handle, true
		}
	}
	return 0, false
}

func (s *Shell) aboutText() string {
	var b strings.Builder
	b.WriteString("tuidesk 多功能工具集成器\n\n集成的工具包括：\n")
	for _, t := range tools.Catalog() {
		b.WriteString("• " + t.Title + "\n")
	}
	b.WriteString("\n功能特性：\n• 多文档界面（MDI）支持\n• 任务栏和开始菜单\n• 窗口管理功能\n• 桌面壁纸\n\n使用开始按钮快速启动所有工具！")
	return b.String()
}
