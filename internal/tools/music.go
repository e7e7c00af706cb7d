package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

var audioFormats = map[string]string{
	".mp3":  "MP3",
	".ogg":  "OGG",
	".flac": "FLAC",
	".aac":  "AAC",
	".m4a":  "M4A",
	".wma":  "WMA",
	".wav":  "WAV",
	".au":   "AU",
	".aiff": "AIFF",
	".opus": "OPUS",
}

func isAudio(path string) bool {
	_, ok := audioFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// audioFormat names the container by extension, or 未知.
func audioFormat(path string) string {
	if f, ok := audioFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return "未知"
}

// formatClock renders d as mm:ss.
func formatClock(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// playerArgs builds the ffplay command line. A positive offset seeks.
func playerArgs(volume int, offset time.Duration, path string) []string {
	args := []string{"-nodisp", "-autoexit"}
	if offset > 0 {
		args = append(args, "-ss", strconv.Itoa(int(offset/time.Second)))
	}
	return append(args, "-volume", strconv.Itoa(volume), path)
}

// scanAudio expands path into audio files: a file is taken as is, a
// directory contributes its audio files sorted by name.
func scanAudio(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !isAudio(path) {
			return nil, fmt.Errorf("不支持的音频格式: %s", filepath.Base(path))
		}
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isAudio(e.Name()) {
			out = append(out, filepath.Join(path, e.Name()))
		}
	}
	slices.Sort(out)
	return out, nil
}

type track struct {
	path     string
	duration time.Duration // zero when unknown
}

func (t track) name() string { return filepath.Base(t.path) }

type trackDurationMsg struct {
	source   string
	path     string
	duration time.Duration
}

type trackInfoMsg struct {
	source string
	name   string
	text   string
	err    error
}

// probeDuration asks ffprobe for the duration in seconds.
func probeDuration(ctx context.Context, path string) time.Duration {
	out, err := runOutput(ctx, "ffprobe", "-v", "quiet", "-show_entries",
		"format=duration", "-of", "csv=p=0", path)
	if err != nil {
		return 0
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

type probeReport struct {
	Format struct {
		FormatLongName string            `json:"format_long_name"`
		Duration       string            `json:"duration"`
		BitRate        string            `json:"bit_rate"`
		Size           string            `json:"size"`
		Tags           map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// formatProbe summarizes ffprobe's JSON report.
func formatProbe(data []byte) (string, error) {
	var r probeReport
	if err := json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("parse ffprobe output: %w", err)
	}
	var b strings.Builder
	line := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	line("格式", r.Format.FormatLongName)
	if secs, err := strconv.ParseFloat(r.Format.Duration, 64); err == nil {
		line("时长", formatClock(time.Duration(secs*float64(time.Second))))
	}
	if bps, err := strconv.Atoi(r.Format.BitRate); err == nil {
		line("比特率", strconv.Itoa(bps/1000)+" kb/s")
	}
	if size, err := strconv.ParseInt(r.Format.Size, 10, 64); err == nil {
		line("大小", humanSize(size))
	}
	for _, s := range r.Streams {
		if s.CodecType != "audio" {
			continue
		}
		line("编码", s.CodecName)
		line("采样率", s.SampleRate+" Hz")
		if s.Channels > 0 {
			line("声道", strconv.Itoa(s.Channels))
		}
		break
	}
	for _, k := range []string{"title", "artist", "album"} {
		for tk, tv := range r.Format.Tags {
			if strings.EqualFold(tk, k) {
				line(k, tv)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// musicTool is a playlist driving an external player.
type musicTool struct {
	env    Env
	st     styles
	source string

	tracks  []track
	list    listCursor
	current int // -1 when nothing is loaded

	proc       *process
	playSource string
	started    time.Time
	offset     time.Duration
	paused     bool
	volume     int

	adding  bool
	addPath field

	buttons  []button
	listTop  int
	noPlayer bool
}

var (
	transportButtons = []string{"上一首", "播放", "暂停", "停止", "下一首"}
	playlistButtons  = []string{"添加音乐", "移除音乐", "清空列表", "文件信息"}
)

func openMusic(env Env, arg string) (desktop.Content, error) {
	cfg := env.cfg().Tools
	m := &musicTool{
		env:     env,
		st:      newStyles(env.Theme),
		source:  uuid.NewString(),
		current: -1,
		volume:  cfg.PlayerVolume,
	}
	if _, err := exec.LookPath(m.player()); err != nil {
		m.noPlayer = true
	}
	dir := cfg.MusicDirectory
	if dir == "" {
		dir = xdg.UserDirs.Music
	}
	m.addPath.SetValue(dir)
	if arg != "" {
		m.addPath.SetValue(arg)
	}
	menu := []desktop.MenuItem{
		{Label: "添加音乐", Run: m.beginAdd},
		{Label: "清空列表", Run: func() tea.Cmd { m.clear(); return nil }},
	}
	return desktop.Content{Surface: m, Menu: menu}, nil
}

func (m *musicTool) player() string {
	if p := m.env.cfg().Tools.PlayerCommand; p != "" {
		return p
	}
	return "ffplay"
}

func (m *musicTool) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.noPlayer {
		cmds = append(cmds, Notice(NoticeWarn, "提示",
			"未找到 FFmpeg！请安装 FFmpeg 并确保 "+m.player()+" 在 PATH 中。"))
	}
	if isAudio(m.addPath.Value()) {
		cmds = append(cmds, m.add(m.addPath.Value()))
	}
	return tea.Batch(cmds...)
}

func (m *musicTool) playing() bool { return m.proc != nil }

// elapsed is the playback position of the current track.
func (m *musicTool) elapsed() time.Duration {
	if !m.playing() {
		return 0
	}
	return m.offset + time.Since(m.started)
}

func (m *musicTool) beginAdd() tea.Cmd {
	m.adding = true
	return nil
}

func (m *musicTool) add(path string) tea.Cmd {
	files, err := scanAudio(strings.TrimSpace(path))
	if err != nil {
		return errorNotice("添加音乐失败: ", err)
	}
	if len(files) == 0 {
		return Notice(NoticeWarn, "提示", "目录中没有音频文件")
	}
	ctx := m.env.context()
	cmds := make([]tea.Cmd, 0, len(files))
	for _, f := range files {
		m.tracks = append(m.tracks, track{path: f})
		cmds = append(cmds, func() tea.Msg {
			return trackDurationMsg{source: m.source, path: f, duration: probeDuration(ctx, f)}
		})
	}
	return tea.Batch(cmds...)
}

func (m *musicTool) remove(i int) {
	if i < 0 || i >= len(m.tracks) {
		return
	}
	switch {
	case i == m.current:
		m.stop()
		m.current = -1
	case i < m.current:
		m.current--
	}
	m.tracks = slices.Delete(m.tracks, i, i+1)
	m.list.Move(0, len(m.tracks))
}

func (m *musicTool) clear() {
	m.stop()
	m.tracks = nil
	m.current = -1
	m.list = listCursor{}
}

func (m *musicTool) play(i int, offset time.Duration) tea.Cmd {
	if i < 0 || i >= len(m.tracks) {
		return nil
	}
	m.stop()
	t := m.tracks[i]
	proc, err := startProcess("", m.player(), playerArgs(m.volume, offset, t.path)...)
	if err != nil {
		return errorNotice("播放音乐失败: ", err)
	}
	m.proc = proc
	m.playSource = uuid.NewString()
	m.current = i
	m.list.index = i
	m.started = time.Now()
	m.offset = offset
	m.paused = false
	Pump(m.env.context(), m.playSource, proc.Output(), m.env.Events)
	return nil
}

// stop kills the player. The exit that follows is ignored.
func (m *musicTool) stop() {
	if m.proc != nil {
		_ = m.proc.Kill()
	}
	m.proc = nil
	m.playSource = ""
	m.paused = false
}

// pause stops the player; resuming starts the track over because the
// player cannot be suspended.
func (m *musicTool) pause() {
	if m.playing() {
		m.stop()
		m.paused = true
	}
}

func (m *musicTool) resume() tea.Cmd {
	switch {
	case m.current >= 0 && m.current < len(m.tracks):
		return m.play(m.current, 0)
	case len(m.tracks) > 0:
		return m.play(0, 0)
	}
	return nil
}

func (m *musicTool) step(delta int) tea.Cmd {
	n := len(m.tracks)
	if n == 0 {
		return nil
	}
	return m.play(((m.current+delta)%n+n)%n, 0)
}

func (m *musicTool) seek(delta time.Duration) tea.Cmd {
	if !m.playing() {
		return nil
	}
	pos := max(m.elapsed()+delta, 0)
	if d := m.tracks[m.current].duration; d > 0 && pos >= d {
		return m.step(1)
	}
	return m.play(m.current, pos)
}

// setVolume takes effect immediately by restarting at the same position.
func (m *musicTool) setVolume(v int) tea.Cmd {
	v = min(max(v, 0), 100)
	if v == m.volume {
		return nil
	}
	m.volume = v
	if m.playing() {
		return m.play(m.current, m.elapsed())
	}
	return nil
}

func (m *musicTool) info(i int) tea.Cmd {
	if i < 0 || i >= len(m.tracks) {
		return nil
	}
	t := m.tracks[i]
	ctx := m.env.context()
	source := m.source
	return func() tea.Msg {
		out, err := runOutput(ctx, "ffprobe", "-v", "quiet", "-print_format", "json",
			"-show_format", "-show_streams", t.path)
		if err != nil {
			return trackInfoMsg{source: source, name: t.name(), err: err}
		}
		text, err := formatProbe(out)
		return trackInfoMsg{source: source, name: t.name(), text: text, err: err}
	}
}

func (m *musicTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case trackDurationMsg:
		if msg.source != m.source {
			return nil
		}
		for i := range m.tracks {
			if m.tracks[i].path == msg.path {
				m.tracks[i].duration = msg.duration
			}
		}
	case trackInfoMsg:
		if msg.source != m.source {
			return nil
		}
		if msg.err != nil {
			return errorNotice("获取文件信息失败: ", msg.err)
		}
		return Notice(NoticeInfo, "文件信息 - "+msg.name, msg.text)
	case ExitMsg:
		if msg.Source != m.playSource || m.proc == nil {
			return nil
		}
		clean := m.proc.Err() == nil
		m.proc = nil
		m.playSource = ""
		if clean {
			return m.step(1)
		}
	case desktop.ScrollMsg:
		m.list.Move(msg.Delta, len(m.tracks))
	case desktop.ClickMsg:
		return m.click(msg)
	case tea.KeyPressMsg:
		return m.key(msg)
	}
	return nil
}

func (m *musicTool) key(msg tea.KeyPressMsg) tea.Cmd {
	if m.adding {
		switch msg.String() {
		case "enter":
			m.adding = false
			return m.add(m.addPath.Value())
		case "esc":
			m.adding = false
		default:
			m.addPath.HandleKey(msg)
		}
		return nil
	}
	if m.list.HandleKey(msg, len(m.tracks), 10) {
		return nil
	}
	switch msg.String() {
	case "enter":
		return m.play(m.list.index, 0)
	case "space", "p":
		if m.playing() {
			m.pause()
			return nil
		}
		return m.resume()
	case "s":
		m.stop()
	case "n", "right":
		return m.step(1)
	case "b", "left":
		return m.step(-1)
	case ".":
		return m.seek(10 * time.Second)
	case ",":
		return m.seek(-10 * time.Second)
	case "+", "=":
		return m.setVolume(m.volume + 10)
	case "-":
		return m.setVolume(m.volume - 10)
	case "a":
		return m.beginAdd()
	case "d", "delete":
		m.remove(m.list.index)
	case "c":
		m.clear()
	case "i":
		return m.info(m.list.index)
	}
	return nil
}

func (m *musicTool) click(msg desktop.ClickMsg) tea.Cmd {
	if i := hitButton(m.buttons, msg.X, msg.Y); i >= 0 {
		switch m.buttons[i].label {
		case "上一首":
			return m.step(-1)
		case "播放":
			return m.resume()
		case "暂停":
			m.pause()
		case "停止":
			m.stop()
		case "下一首":
			return m.step(1)
		case "添加音乐":
			return m.beginAdd()
		case "移除音乐":
			m.remove(m.list.index)
		case "清空列表":
			m.clear()
		case "文件信息":
			return m.info(m.list.index)
		}
		return nil
	}
	if row := msg.Y - m.listTop; row >= 0 {
		i := m.list.offset + row
		if i < len(m.tracks) {
			if i == m.list.index {
				return m.play(i, 0)
			}
			m.list.index = i
		}
	}
	return nil
}

func (m *musicTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(m.st.text)

	now := "当前播放: 无"
	var total time.Duration
	if m.current >= 0 && m.current < len(m.tracks) {
		t := m.tracks[m.current]
		now = "当前播放: " + t.name() + " (" + audioFormat(t.path) + ")"
		total = t.duration
	}
	vol := "音量: " + strconv.Itoa(m.volume) + "%"
	buf.SetString(0, 0, ui.Truncate(now, max(w-ui.StringWidth(vol)-1, 0)), m.st.accent)
	buf.SetString(w-ui.StringWidth(vol), 0, vol, m.st.text)

	clock := formatClock(m.elapsed()) + " / " + formatClock(total)
	barWidth := w - ui.StringWidth(clock) - 3
	if barWidth > 0 {
		filled := 0
		if total > 0 {
			filled = min(int(int64(barWidth)*int64(m.elapsed())/int64(total)), barWidth)
		}
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		buf.SetString(0, 1, bar, m.st.dim)
	}
	buf.SetString(max(w-ui.StringWidth(clock), 0), 1, clock, m.st.text)

	focus := -1
	switch {
	case m.playing():
		focus = 1
	case m.paused:
		focus = 2
	}
	m.buttons = drawButtons(buf, 0, 2, transportButtons, focus, m.st)
	m.buttons = append(m.buttons, drawButtons(buf, 0, 3, playlistButtons, -1, m.st)...)

	buf.Fill(image.Rect(0, 4, w, 5), " ", m.st.header)
	nameWidth := max(w-16, 8)
	buf.SetString(0, 4, ui.PadRight("名称", nameWidth)+ui.PadRight("格式", 7)+"时长", m.st.header)

	m.listTop = 5
	bottom := h
	if m.adding {
		bottom = h - 1
		n := buf.SetString(0, h-1, "添加: ", m.st.text)
		m.addPath.Render(buf, n, h-1, w-n, m.st.input, focused)
	}
	rows := bottom - m.listTop
	first := m.list.Window(len(m.tracks), rows)
	for row := 0; row < rows && first+row < len(m.tracks); row++ {
		i := first + row
		t := m.tracks[i]
		st := m.st.text
		if i == m.current {
			st = m.st.accent
		}
		if i == m.list.index && !m.adding {
			st = m.st.selected
		}
		dur := "未知"
		if t.duration > 0 {
			dur = formatClock(t.duration)
		}
		line := ui.PadRight(ui.Truncate(t.name(), nameWidth-1), nameWidth) + ui.PadRight(audioFormat(t.path), 7) + dur
		y := m.listTop + row
		buf.Fill(image.Rect(0, y, w, y+1), " ", st)
		buf.SetString(0, y, line, st)
	}
}

func (m *musicTool) Close() error {
	m.stop()
	return nil
}
