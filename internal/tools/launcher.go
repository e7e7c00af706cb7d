package tools

import (
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// launcherTool starts a Java server jar and relays its console.
type launcherTool struct {
	env     Env
	st      styles
	path    field
	console *console
	proc    *process
	source  string
	// focusPath is true while the jar path has the keyboard.
	focusPath bool
	buttons   []button
}

var launcherButtons = []string{"选择并启动服务器", "停止服务器"}

func openLauncher(env Env, arg string) (desktop.Content, error) {
	l := &launcherTool{
		env:       env,
		st:        newStyles(env.Theme),
		console:   newConsole("命令"),
		focusPath: true,
	}
	jar := arg
	if jar == "" {
		jar = env.cfg().Tools.ServerJar
	}
	l.path.SetValue(jar)
	return desktop.Content{
		Surface: l,
		Menu: []desktop.MenuItem{
			{Label: "启动", Run: l.start},
			{Label: "停止", Run: l.stop},
		},
	}, nil
}

// serverCommand builds the command line that runs jar.
func serverCommand(cfg config.ToolsConfig, jar string) (string, []string) {
	name := cfg.JavaCommand
	if name == "" {
		name = "java"
	}
	args := make([]string, 0, len(cfg.JavaArgs)+3)
	args = append(args, cfg.JavaArgs...)
	args = append(args, "-jar", jar, "nogui")
	return name, args
}

func (l *launcherTool) running() bool {
	return l.proc != nil
}

func (l *launcherTool) start() tea.Cmd {
	if l.running() {
		return Notice(NoticeWarn, "提示", "服务器已在运行")
	}
	jar := strings.TrimSpace(l.path.Value())
	if jar == "" {
		return Notice(NoticeWarn, "提示", "请先选择服务器文件！")
	}
	if abs, err := filepath.Abs(jar); err == nil {
		jar = abs
	}
	name, args := serverCommand(l.env.cfg().Tools, jar)
	proc, err := startProcess(filepath.Dir(jar), name, args...)
	if err != nil {
		return errorNotice("启动服务器失败: ", err)
	}
	l.proc = proc
	l.source = uuid.NewString()
	l.focusPath = false
	l.console.Println("$ " + name + " " + strings.Join(args, " "))
	Pump(l.env.context(), l.source, proc.Output(), l.env.Events)
	return status("服务器已启动")
}

func (l *launcherTool) stop() tea.Cmd {
	if !l.running() {
		return nil
	}
	if err := l.proc.Kill(); err != nil {
		return errorNotice("停止服务器失败: ", err)
	}
	return nil
}

func (l *launcherTool) Init() tea.Cmd { return nil }

func (l *launcherTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OutputMsg:
		if l.running() && msg.Source == l.source {
			l.console.Append(msg.Lines, msg.Partial)
		}
	case ExitMsg:
		if !l.running() || msg.Source != l.source {
			return nil
		}
		if l.proc.Killed() {
			l.console.Println("[服务器已停止]")
		} else {
			l.console.Println("[服务器已退出]")
		}
		l.proc = nil
		return status("服务器已退出")
	case desktop.ScrollMsg:
		l.console.Scroll(msg.Delta)
	case desktop.ClickMsg:
		switch hitButton(l.buttons, msg.X, msg.Y) {
		case 0:
			return l.start()
		case 1:
			return l.stop()
		}
		if msg.Y == 0 {
			l.focusPath = true
		} else if msg.Y > 1 {
			l.focusPath = false
		}
	case tea.KeyPressMsg:
		if msg.String() == "tab" {
			l.focusPath = !l.focusPath
			return nil
		}
		if l.focusPath {
			if msg.String() == "enter" {
				return l.start()
			}
			l.path.HandleKey(msg)
			return nil
		}
		line, ok := l.console.HandleKey(msg)
		if !ok {
			return nil
		}
		if !l.running() {
			l.console.Println("服务器未运行")
			return nil
		}
		if err := l.proc.WriteLine(line); err != nil {
			l.console.Println("无法发送命令")
		}
	}
	return nil
}

func (l *launcherTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(l.st.text)
	n := buf.SetString(0, 0, "服务器文件: ", l.st.text)
	l.path.Render(buf, n, 0, w-n, l.st.input, focused && l.focusPath)

	focus := -1
	if l.running() {
		focus = 1
	}
	l.buttons = drawButtons(buf, 0, 1, launcherButtons, focus, l.st)
	state := "未运行"
	if l.running() {
		state = "运行中"
	}
	x := l.buttons[len(l.buttons)-1].rect.Max.X + 1
	buf.SetString(x, 1, state, l.st.dim)

	if h <= 2 {
		return
	}
	sub := ui.NewBuffer(w, h-2)
	sub.Clear(l.st.text)
	l.console.Render(sub, l.st, focused && !l.focusPath)
	buf.Blit(0, 2, sub)
}

func (l *launcherTool) Close() error {
	if l.running() {
		return l.proc.Kill()
	}
	return nil
}
