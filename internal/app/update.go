package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
)

// clockMsg refreshes the task bar clock.
type clockMsg time.Time

// sysTickMsg asks for the next CPU sample.
type sysTickMsg struct{}

// sysSampleMsg reports a finished CPU sample.
type sysSampleMsg struct {
	err error
}

// eventMsg wraps a message a tool posted from a background goroutine.
type eventMsg struct {
	msg tea.Msg
}

// reloadMsg carries a config file change.
type reloadMsg config.Reload

// wallpaperMsg reports the startup wallpaper.
type wallpaperMsg struct {
	path string
	err  error
}

// Init starts the clock, the event listener and the optional background
// jobs.
func (s *Shell) Init() tea.Cmd {
	cmds := []tea.Cmd{clockTick(), s.listen(), sysTick()}
	if s.reloads != nil {
		cmds = append(cmds, s.listenReloads())
	}
	if path := s.cfg.Wallpaper.Path; path != "" {
		cmds = append(cmds, s.loadWallpaper(path))
	}
	s.LogInfo("desktop started")
	return tea.Batch(cmds...)
}

func clockTick() tea.Cmd {
	return tea.Tick(config.ClockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func sysTick() tea.Cmd {
	return tea.Tick(config.SysInfoInterval, func(time.Time) tea.Msg {
		return sysTickMsg{}
	})
}

func (s *Shell) sample() tea.Cmd {
	monitor, ctx := s.monitor, s.ctx
	return func() tea.Msg {
		_, err := monitor.Sample(ctx)
		return sysSampleMsg{err: err}
	}
}

// listen waits for the next message a tool posts to the event channel.
func (s *Shell) listen() tea.Cmd {
	events, ctx := s.events, s.ctx
	return func() tea.Msg {
		select {
		case msg := <-events:
			return eventMsg{msg: msg}
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Shell) listenReloads() tea.Cmd {
	reloads, ctx := s.reloads, s.ctx
	return func() tea.Msg {
		select {
		case r, ok := <-reloads:
			if !ok {
				return nil
			}
			return reloadMsg(r)
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Shell) loadWallpaper(path string) tea.Cmd {
	comp := s.comp
	return func() tea.Msg {
		if err := comp.Select(path); err != nil {
			return wallpaperMsg{path: path, err: err}
		}
		return wallpaperMsg{path: path, err: comp.Apply()}
	}
}

// Update handles one message and keeps the surfaces told about their
// client sizes.
func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := s.update(msg)
	s.syncSizes()
	return s, cmd
}

func (s *Shell) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		var cmds []tea.Cmd
		for _, action := range s.startup {
			cmds = append(cmds, s.Dispatch(action))
		}
		s.startup = nil
		return tea.Batch(cmds...)

	case clockMsg:
		s.now = time.Time(msg)
		return clockTick()

	case sysTickMsg:
		if s.cfg.Appearance.ShowSysInfo {
			return s.sample()
		}
		return sysTick()

	case sysSampleMsg:
		if msg.err != nil && !s.sampleFailed {
			s.LogWarn("cpu sample: %v", msg.err)
		}
		s.sampleFailed = msg.err != nil
		return sysTick()

	case eventMsg:
		return tea.Batch(s.update(msg.msg), s.listen())

	case reloadMsg:
		next := s.listenReloads()
		if msg.Err != nil {
			s.LogError("reload config: %v", msg.Err)
			s.status = "配置重新加载失败"
			return next
		}
		s.applyConfig(msg.Config)
		s.status = "配置已重新加载"
		return next

	case wallpaperMsg:
		if msg.err != nil {
			s.LogError("wallpaper %s: %v", msg.path, msg.err)
			return nil
		}
		s.LogInfo("wallpaper %s applied", msg.path)
		return nil

	case tools.NoticeMsg:
		s.showNotice(msg)
		return nil

	case tools.StatusMsg:
		s.status = msg.Text
		if s.status == "" {
			s.status = readyStatus
		}
		return nil

	case tools.OpenFileMsg:
		return s.open(tools.ForFile(msg.Path), msg.Path)

	case tools.CloseMsg:
		if h, ok := s.handleOf(msg.Surface); ok {
			s.closeWindow(h)
		}
		return nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)

	case tea.PasteMsg:
		if len(s.notices) > 0 || s.menu != nil || s.overlay != overlayNone {
			return nil
		}
		return s.toFocused(tea.KeyPressMsg{Text: msg.Content})

	case tea.MouseClickMsg:
		return s.mouseDown(msg.Mouse())

	case tea.MouseMotionMsg:
		s.mouseMove(msg.Mouse())
		return nil

	case tea.MouseReleaseMsg:
		s.drag = nil
		return nil

	case tea.MouseWheelMsg:
		return s.wheel(msg.Mouse())
	}

	return s.broadcast(msg)
}

// broadcast hands msg to every surface. Surfaces ignore what is not
// theirs.
func (s *Shell) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, w := range s.registry.Windows() {
		cmds = append(cmds, w.Content.Surface.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (s *Shell) toFocused(msg tea.Msg) tea.Cmd {
	w, ok := s.registry.Focused()
	if !ok {
		return nil
	}
	return w.Content.Surface.Update(msg)
}

func (s *Shell) resize(width, height int) {
	s.width, s.height = width, height
	s.registry.SetArea(s.desktopArea())
	s.screen.Resize(width, height)
	if s.menu != nil {
		s.menu.place(width, height)
	}
}

// applyConfig switches to a reloaded configuration. Open tools keep the
// settings they were started with.
func (s *Shell) applyConfig(cfg *config.UserConfig) {
	config.ApplyOverrides(s.overrides, cfg)
	s.cfg = cfg
	s.keys = config.NewKeybindRegistry(cfg)
	th, ok := theme.New(cfg.Appearance.Theme)
	if !ok {
		s.LogWarn("unknown theme %q", cfg.Appearance.Theme)
	}
	s.theme = th
	s.registry.SetOptions(registryOptions(cfg))
	s.registry.SetArea(s.desktopArea())
	s.comp.SetBackground(th.Desktop)
	if mode, err := desktop.ParseMode(cfg.Wallpaper.Mode); err == nil {
		s.comp.SetMode(mode)
	}
	s.wallSrc = nil
	clear(s.sizes)
	s.menu = nil
	s.LogInfo("config reloaded")
}

func (s *Shell) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if len(s.notices) > 0 {
		switch key {
		case "enter", "esc", "space":
			s.dismissNotice()
		}
		return nil
	}

	if s.menu != nil {
		return s.menuKey(msg)
	}

	if s.overlay == overlayHelp && s.helpKey(msg) {
		return nil
	}
	if s.overlay != overlayNone {
		switch key {
		case "esc", "q":
			s.overlay = overlayNone
			return nil
		case "up", "k":
			s.scrollOverlay(-1)
			return nil
		case "down", "j":
			s.scrollOverlay(1)
			return nil
		case "pgup":
			s.scrollOverlay(-10)
			return nil
		case "pgdown":
			s.scrollOverlay(10)
			return nil
		}
	}

	if action := s.keys.GetAction(key); action != "" {
		return s.Dispatch(action)
	}
	if s.overlay != overlayNone {
		return nil
	}
	return s.toFocused(msg)
}

// scrollOverlay moves the help view down, or the log view further back.
func (s *Shell) scrollOverlay(delta int) {
	switch s.overlay {
	case overlayHelp:
		s.helpScroll = max(s.helpScroll+delta, 0)
	case overlayLogs:
		s.logScroll = min(max(s.logScroll-delta, 0), max(len(s.logs)-1, 0))
	}
}
