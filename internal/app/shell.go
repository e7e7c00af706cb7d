// Package app implements the shell frame: the bubbletea model that draws
// the menu bar, tool bar, desktop, task bar and status bar, hosts the tool
// windows kept by the desktop registry and routes input to them.
package app

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// readyStatus is the status bar text when nothing else was reported.
const readyStatus = "就绪"

// eventBuffer is the capacity of the channel tools post background
// output to.
const eventBuffer = 256

// LogMessage represents a log entry with timestamp and level.
type LogMessage struct {
	Time    time.Time
	Level   string // INFO, WARN, ERROR
	Message string
}

// Options configures a Shell. Only Config is commonly set; the rest have
// usable defaults.
type Options struct {
	Config *config.UserConfig
	// Theme overrides the palette named in Config.
	Theme *theme.Theme
	// Context bounds every background task the shell and its tools start.
	Context    context.Context
	Compositor *desktop.Compositor
	HTTPClient *http.Client
	// Reloads delivers config file changes, usually from config.Watch.
	Reloads <-chan config.Reload
	// Overrides are re-applied to every reloaded config.
	Overrides config.Overrides
	// Remote marks a shell served to an SSH session.
	Remote bool
	// Startup actions run once the screen size is known, e.g.
	// "launch:calculator".
	Startup []string
}

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayLogs
)

type dragState struct {
	handle desktop.Handle
	offset image.Point
	resize bool
}

// Shell is the bubbletea model of one desktop.
type Shell struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg       *config.UserConfig
	theme     theme.Theme
	keys      *config.KeybindRegistry
	registry  *desktop.Registry
	comp      *desktop.Compositor
	monitor   *sysinfo.Monitor
	events    chan tea.Msg
	reloads   <-chan config.Reload
	overrides config.Overrides
	client    *http.Client
	remote    bool
	startup   []string

	width, height int
	now           time.Time
	status        string

	menu       *dropdown
	notices    []tools.NoticeMsg
	overlay    overlay
	helpScroll int
	helpQuery  string
	helpSearch bool
	logScroll  int
	drag       *dragState

	logs         []LogMessage
	sampleFailed bool

	screen  *ui.Buffer
	clients map[desktop.Handle]*ui.Buffer
	sizes   map[desktop.Handle]image.Point
	wallSrc *image.RGBA
	wallBuf *ui.Buffer

	quitting bool
}

// NewShell builds a shell with an empty desktop.
func NewShell(opts Options) *Shell {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var th theme.Theme
	if opts.Theme != nil {
		th = *opts.Theme
	} else {
		th, _ = theme.New(cfg.Appearance.Theme)
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	comp := opts.Compositor
	if comp == nil {
		comp = desktop.NewCompositor(compositorOptions(cfg, th))
	}
	if mode, err := desktop.ParseMode(cfg.Wallpaper.Mode); err == nil {
		comp.SetMode(mode)
	}

	return &Shell{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		theme:     th,
		keys:      config.NewKeybindRegistry(cfg),
		registry:  desktop.NewRegistry(registryOptions(cfg)),
		comp:      comp,
		monitor:   &sysinfo.Monitor{},
		events:    make(chan tea.Msg, eventBuffer),
		reloads:   opts.Reloads,
		overrides: opts.Overrides,
		client:    opts.HTTPClient,
		remote:    opts.Remote,
		startup:   opts.Startup,
		now:       time.Now(),
		status:    readyStatus,
		screen:    ui.NewBuffer(0, 0),
		clients:   map[desktop.Handle]*ui.Buffer{},
		sizes:     map[desktop.Handle]image.Point{},
	}
}

func registryOptions(cfg *config.UserConfig) desktop.Options {
	d := cfg.Desktop
	return desktop.Options{
		DefaultSize:   image.Pt(d.WindowWidth, d.WindowHeight),
		SpawnStep:     d.SpawnStep,
		SpawnWrap:     d.SpawnWrap,
		CascadeOffset: d.CascadeOffset,
		CascadeSize:   image.Pt(d.CascadeWidth, d.CascadeHeight),
		MinSize:       image.Pt(config.MinWindowWidth, config.MinWindowHeight),
	}
}

func compositorOptions(cfg *config.UserConfig, th theme.Theme) desktop.CompositorOptions {
	w := cfg.Wallpaper
	return desktop.CompositorOptions{
		PreviewSize: ui.PixelSize(w.PreviewWidth, w.PreviewHeight),
		PixelScale:  w.PixelScale,
		Background:  th.Desktop,
		CacheSize:   w.CacheSize,
	}
}

// env is what tools opened by this shell may use.
func (s *Shell) env() tools.Env {
	return tools.Env{
		Ctx:        s.ctx,
		Events:     s.events,
		Compositor: s.comp,
		Config:     s.cfg,
		Theme:      s.theme,
		HTTPClient: s.client,
		ASCII:      s.ascii(),
	}
}

func (s *Shell) ascii() bool {
	return s.cfg.Appearance.ASCIIOnly
}

// Registry exposes the window registry.
func (s *Shell) Registry() *desktop.Registry {
	return s.registry
}

// Compositor exposes the wallpaper compositor.
func (s *Shell) Compositor() *desktop.Compositor {
	return s.comp
}

// Status returns the text on the left of the status bar.
func (s *Shell) Status() string {
	return s.status
}

// Notices returns the message boxes waiting to be dismissed, oldest first.
func (s *Shell) Notices() []tools.NoticeMsg {
	return s.notices
}

// Logs returns the log buffer, oldest first.
func (s *Shell) Logs() []LogMessage {
	return s.logs
}

// Dragging reports whether a window is being moved or resized with the
// mouse.
func (s *Shell) Dragging() bool {
	return s.drag != nil
}

// WantsMotion reports whether mouse motion without a pressed button
// matters: while dragging and for menu hover.
func (s *Shell) WantsMotion() bool {
	return s.drag != nil || s.menu != nil
}

// Log adds a new log message to the log buffer.
func (s *Shell) Log(level, format string, args ...any) {
	s.logs = append(s.logs, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
	if len(s.logs) > config.MaxLogMessages {
		s.logs = s.logs[len(s.logs)-config.MaxLogMessages:]
	}
	// Follow the tail unless the viewer was scrolled back.
	if s.logScroll > 0 {
		s.logScroll = min(s.logScroll+1, len(s.logs))
	}
}

// LogInfo logs an informational message.
func (s *Shell) LogInfo(format string, args ...any) {
	s.Log("INFO", format, args...)
}

// LogWarn logs a warning message.
func (s *Shell) LogWarn(format string, args ...any) {
	s.Log("WARN", format, args...)
}

// LogError logs an error message.
func (s *Shell) LogError(format string, args ...any) {
	s.Log("ERROR", format, args...)
}

// showNotice queues a modal message box and logs it.
func (s *Shell) showNotice(n tools.NoticeMsg) {
	s.notices = append(s.notices, n)
	switch n.Level {
	case tools.NoticeError:
		s.LogError("%s: %s", n.Title, n.Text)
	case tools.NoticeWarn:
		s.LogWarn("%s: %s", n.Title, n.Text)
	default:
		s.LogInfo("%s: %s", n.Title, n.Text)
	}
}

func (s *Shell) dismissNotice() {
	if len(s.notices) > 0 {
		s.notices = s.notices[1:]
	}
}

// Cleanup closes every window and stops background work. It is safe to
// call more than once.
func (s *Shell) Cleanup() {
	if s.registry.Count() > 0 {
		s.closeAll()
	}
	s.cancel()
}
