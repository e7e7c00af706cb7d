package tools

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/terminal"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// terminalTool runs a shell on a PTY and shows its output line by line.
type terminalTool struct {
	source  string
	session *terminal.Session
	console *console
	st      styles
	exited  bool
}

func openTerminal(env Env, _ string) (desktop.Content, error) {
	source := uuid.NewString()
	sess, err := terminal.Start(terminal.Options{
		Shell:  env.cfg().Tools.Shell,
		Width:  80,
		Height: 24,
		ID:     source,
	})
	if err != nil {
		return desktop.Content{}, err
	}
	t := &terminalTool{
		source:  source,
		session: sess,
		console: newConsole("输入后回车"),
		st:      newStyles(env.Theme),
	}
	Pump(env.context(), source, sess, env.Events)

	return desktop.Content{
		Surface: t,
		Menu: []desktop.MenuItem{
			{Label: "清屏", Run: func() tea.Cmd { t.clear(); return nil }},
			{Label: "中断", Run: func() tea.Cmd { return t.send("\x03") }},
		},
	}, nil
}

func (t *terminalTool) Init() tea.Cmd {
	return status("已启动 " + t.session.Shell())
}

func (t *terminalTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OutputMsg:
		if msg.Source == t.source {
			t.console.Append(msg.Lines, msg.Partial)
		}
	case ExitMsg:
		if msg.Source != t.source {
			return nil
		}
		t.exited = true
		if msg.Err != nil {
			t.console.Println("[进程已退出: " + msg.Err.Error() + "]")
		} else {
			t.console.Println("[进程已退出]")
		}
	case desktop.ScrollMsg:
		t.console.Scroll(msg.Delta)
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return t.send("\x03")
		case "ctrl+d":
			return t.send("\x04")
		case "ctrl+l":
			t.clear()
			return nil
		}
		if line, ok := t.console.HandleKey(msg); ok {
			return t.send(line + "\n")
		}
	}
	return nil
}

func (t *terminalTool) send(s string) tea.Cmd {
	if t.exited {
		return nil
	}
	if _, err := t.session.Write([]byte(s)); err != nil {
		t.console.Println("无法发送命令: " + err.Error())
	}
	return nil
}

func (t *terminalTool) clear() {
	t.console.lines = nil
	t.console.scroll = 0
}

// Resize keeps the PTY the size of the log area.
func (t *terminalTool) Resize(width, height int) {
	_ = t.session.Resize(max(width, 1), max(height-1, 1))
}

func (t *terminalTool) Render(buf *ui.Buffer, focused bool) {
	buf.Clear(t.st.text)
	t.console.Render(buf, t.st, focused && !t.exited)
}

func (t *terminalTool) Close() error {
	if err := t.session.Close(); err != nil {
		return fmt.Errorf("close terminal: %w", err)
	}
	return nil
}
