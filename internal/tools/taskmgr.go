package tools

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

type procsMsg struct {
	source string
	procs  []sysinfo.Process
	snap   sysinfo.Snapshot
	err    error
}

type procTickMsg struct {
	source string
}

type killDoneMsg struct {
	source string
	pid    int32
	err    error
}

// taskmgrTool lists processes and can end them.
type taskmgrTool struct {
	env     Env
	st      styles
	source  string
	monitor sysinfo.Monitor

	procs   []sysinfo.Process
	snap    sysinfo.Snapshot
	sortBy  sysinfo.SortKey
	list    listCursor
	err     string
	confirm int32 // pid awaiting a second kill press, or 0
	listTop int
	closed  bool
}

func openTaskManager(env Env, _ string) (desktop.Content, error) {
	t := &taskmgrTool{env: env, st: newStyles(env.Theme), source: uuid.NewString()}
	return desktop.Content{
		Surface: t,
		Menu: []desktop.MenuItem{
			{Label: "刷新", Run: t.refresh},
			{Label: "排序", Run: func() tea.Cmd { t.cycleSort(); return nil }},
			{Label: "结束进程", Run: t.kill},
		},
	}, nil
}

func (t *taskmgrTool) refresh() tea.Cmd {
	ctx := t.env.context()
	source := t.source
	return func() tea.Msg {
		snap, err := t.monitor.Sample(ctx)
		if err != nil {
			return procsMsg{source: source, err: err}
		}
		procs, err := sysinfo.Processes(ctx)
		return procsMsg{source: source, procs: procs, snap: snap, err: err}
	}
}

func (t *taskmgrTool) tick() tea.Cmd {
	source := t.source
	return tea.Tick(config.SysInfoInterval, func(time.Time) tea.Msg {
		return procTickMsg{source: source}
	})
}

func (t *taskmgrTool) selectedPID() int32 {
	if t.list.index < 0 || t.list.index >= len(t.procs) {
		return 0
	}
	return t.procs[t.list.index].PID
}

func (t *taskmgrTool) cycleSort() {
	pid := t.selectedPID()
	t.sortBy = t.sortBy.Next()
	sysinfo.Sort(t.procs, t.sortBy)
	t.follow(pid)
}

// follow keeps the selection on pid after the table changes.
func (t *taskmgrTool) follow(pid int32) {
	for i, p := range t.procs {
		if p.PID == pid {
			t.list.index = i
			return
		}
	}
	t.list.Move(0, len(t.procs))
}

// kill ends the selected process after a second press.
func (t *taskmgrTool) kill() tea.Cmd {
	pid := t.selectedPID()
	if pid == 0 {
		return nil
	}
	if pid == int32(os.Getpid()) {
		return Notice(NoticeWarn, "提示", "不能结束桌面自身的进程")
	}
	if t.confirm != pid {
		t.confirm = pid
		return status(fmt.Sprintf("再次按 Delete 结束进程 %d", pid))
	}
	t.confirm = 0
	ctx := t.env.context()
	source := t.source
	return func() tea.Msg {
		return killDoneMsg{source: source, pid: pid, err: sysinfo.Kill(ctx, pid)}
	}
}

func (t *taskmgrTool) Init() tea.Cmd {
	return tea.Batch(t.refresh(), t.tick())
}

func (t *taskmgrTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case procTickMsg:
		if msg.source != t.source || t.closed {
			return nil
		}
		return tea.Batch(t.refresh(), t.tick())
	case procsMsg:
		if msg.source != t.source {
			return nil
		}
		if msg.err != nil {
			t.err = msg.err.Error()
			return nil
		}
		pid := t.selectedPID()
		t.err = ""
		t.snap = msg.snap
		t.procs = msg.procs
		sysinfo.Sort(t.procs, t.sortBy)
		t.follow(pid)
	case killDoneMsg:
		if msg.source != t.source {
			return nil
		}
		if msg.err != nil {
			return errorNotice("结束进程失败: ", msg.err)
		}
		return tea.Batch(status(fmt.Sprintf("已结束进程 %d", msg.pid)), t.refresh())
	case desktop.ScrollMsg:
		t.list.Move(msg.Delta, len(t.procs))
	case desktop.ClickMsg:
		if row := msg.Y - t.listTop; row >= 0 && t.list.offset+row < len(t.procs) {
			t.list.index = t.list.offset + row
		}
	case tea.KeyPressMsg:
		if t.list.HandleKey(msg, len(t.procs), 10) {
			t.confirm = 0
			return nil
		}
		switch msg.String() {
		case "delete", "k":
			return t.kill()
		case "s":
			t.cycleSort()
		case "r", "f5":
			return t.refresh()
		}
	}
	return nil
}

func (t *taskmgrTool) Render(buf *ui.Buffer, _ bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(t.st.text)

	summary := fmt.Sprintf("CPU: %.0f%%  内存: %s / %s (%.0f%%)  进程: %d",
		t.snap.CPU, humanSize(int64(t.snap.MemUsed)), humanSize(int64(t.snap.MemTotal)),
		t.snap.MemPercent, len(t.procs))
	buf.SetString(0, 0, ui.Truncate(summary, w), t.st.accent)

	nameWidth := max(w-8-8-10-12, 8)
	header := fmt.Sprintf("%7s %-*s %7s %9s %s", "PID", nameWidth, "名称", "CPU%", "内存", "用户")
	header = ui.PadRight(header, w)
	buf.SetString(0, 1, header, t.st.header)
	sortTag := "[" + t.sortBy.Label() + "↓]"
	buf.SetString(max(w-ui.StringWidth(sortTag), 0), 1, sortTag, t.st.header)

	t.listTop = 2
	rows := h - t.listTop - 1
	first := t.list.Window(len(t.procs), rows)
	for row := 0; row < rows && first+row < len(t.procs); row++ {
		i := first + row
		p := t.procs[i]
		st := t.st.text
		if i == t.list.index {
			st = t.st.selected
		}
		if p.PID == t.confirm {
			st = t.st.err
		}
		y := t.listTop + row
		buf.Fill(image.Rect(0, y, w, y+1), " ", st)
		line := strconv.Itoa(int(p.PID))
		line = fmt.Sprintf("%7s %s %7.1f %9s %s", line, ui.PadRight(p.Name, nameWidth),
			p.CPU, humanSize(int64(p.RSS)), p.User)
		buf.SetString(0, y, ui.Truncate(line, w), st)
	}

	foot := "↑↓ 选择  Delete 结束进程  s 排序  r 刷新"
	if t.err != "" {
		buf.SetString(0, h-1, ui.Truncate(t.err, w), t.st.err)
		return
	}
	buf.SetString(0, h-1, ui.Truncate(foot, w), t.st.dim)
}

func (t *taskmgrTool) Close() error {
	t.closed = true
	return nil
}
