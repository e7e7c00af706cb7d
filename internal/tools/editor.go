package tools

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/go-enry/go-enry/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

type editorPrompt int

const (
	promptNone editorPrompt = iota
	promptOpen
	promptSave
)

// editorTool is a plain text editor with syntax highlighting.
type editorTool struct {
	env      Env
	st       styles
	text     *textBuffer
	path     string
	lang     string
	modified bool

	top, left     int
	width, height int

	prompt editorPrompt
	input  field

	style   *chroma.Style
	hl      [][]span
	hlDirty bool
}

func openEditor(env Env, arg string) (desktop.Content, error) {
	e := &editorTool{
		env:     env,
		st:      newStyles(env.Theme),
		text:    newTextBuffer(""),
		style:   chromaStyleFor(env.Theme),
		hlDirty: true,
	}
	if arg != "" {
		if err := e.load(arg); err != nil {
			return desktop.Content{}, err
		}
	}
	return desktop.Content{
		Surface: e,
		Menu: []desktop.MenuItem{
			{Label: "新建", Run: func() tea.Cmd { e.reset(); return nil }},
			{Label: "打开", Run: func() tea.Cmd { e.ask(promptOpen); return nil }},
			{Label: "保存", Run: e.save},
			{Label: "另存为", Run: func() tea.Cmd { e.ask(promptSave); return nil }},
		},
	}, nil
}

// detectLanguage names the language of a file, or "" for plain text.
func detectLanguage(path string, data []byte) string {
	lang := enry.GetLanguage(filepath.Base(path), data)
	if lang == "Text" {
		return ""
	}
	return lang
}

func (e *editorTool) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if enry.IsBinary(data) {
		return fmt.Errorf("%s: 无法编辑二进制文件", filepath.Base(path))
	}
	e.text.SetText(string(data))
	e.path = path
	e.lang = detectLanguage(path, data)
	e.modified = false
	e.top, e.left = 0, 0
	e.hlDirty = true
	return nil
}

func (e *editorTool) reset() {
	e.text.SetText("")
	e.path, e.lang = "", ""
	e.modified = false
	e.top, e.left = 0, 0
	e.hlDirty = true
}

func (e *editorTool) ask(kind editorPrompt) {
	e.prompt = kind
	e.input.SetValue(e.path)
	if e.path == "" {
		if wd, err := os.Getwd(); err == nil {
			e.input.SetValue(wd + string(filepath.Separator))
		}
	}
}

func (e *editorTool) save() tea.Cmd {
	if e.path == "" {
		e.ask(promptSave)
		return nil
	}
	return e.saveAs(e.path)
}

func (e *editorTool) saveAs(path string) tea.Cmd {
	// #nosec G306 - user documents keep the usual permissions
	if err := os.WriteFile(path, []byte(e.text.Text()), 0o644); err != nil {
		return errorNotice("保存文件失败: ", err)
	}
	if path != e.path {
		e.path = path
		e.lang = detectLanguage(path, []byte(e.text.Text()))
		e.hlDirty = true
	}
	e.modified = false
	return status("已保存 " + path)
}

func (e *editorTool) Init() tea.Cmd { return nil }

func (e *editorTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case desktop.ScrollMsg:
		e.top = min(max(e.top+msg.Delta*3, 0), max(e.text.Len()-1, 0))
	case desktop.ClickMsg:
		e.click(msg.X, msg.Y)
	case tea.KeyPressMsg:
		if e.prompt != promptNone {
			return e.promptKey(msg)
		}
		return e.key(msg)
	}
	return nil
}

func (e *editorTool) promptKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.prompt = promptNone
	case "enter":
		kind := e.prompt
		path := strings.TrimSpace(e.input.Value())
		e.prompt = promptNone
		if path == "" {
			return nil
		}
		if kind == promptOpen {
			if err := e.load(path); err != nil {
				return errorNotice("打开文件失败: ", err)
			}
			return status("已打开 " + path)
		}
		return e.saveAs(path)
	default:
		e.input.HandleKey(msg)
	}
	return nil
}

func (e *editorTool) edited() {
	e.modified = true
	e.hlDirty = true
}

func (e *editorTool) key(msg tea.KeyPressMsg) tea.Cmd {
	t := e.text
	page := max(e.height-2, 1)
	switch msg.String() {
	case "ctrl+s":
		return e.save()
	case "ctrl+o":
		e.ask(promptOpen)
	case "ctrl+n":
		e.reset()
	case "up":
		row, col := t.Cursor()
		t.MoveTo(row-1, col)
	case "down":
		row, col := t.Cursor()
		t.MoveTo(row+1, col)
	case "pgup":
		row, col := t.Cursor()
		t.MoveTo(row-page, col)
	case "pgdown":
		row, col := t.Cursor()
		t.MoveTo(row+page, col)
	case "left":
		t.Left()
	case "right":
		t.Right()
	case "home":
		t.Home()
	case "end":
		t.End()
	case "ctrl+home":
		t.MoveTo(0, 0)
	case "ctrl+end":
		t.MoveTo(t.Len()-1, len(t.Line(t.Len()-1)))
	case "enter":
		t.Newline()
		e.edited()
	case "backspace":
		t.Backspace()
		e.edited()
	case "delete":
		t.Delete()
		e.edited()
	case "tab":
		t.Insert("    ")
		e.edited()
	default:
		if isText(msg) {
			t.Insert(msg.Text)
			e.edited()
		}
	}
	return nil
}

func (e *editorTool) gutter() int {
	return len(strconv.Itoa(e.text.Len())) + 1
}

func (e *editorTool) click(x, y int) {
	if y >= e.height-1 {
		return
	}
	row := e.top + y
	if row >= e.text.Len() {
		row = e.text.Len() - 1
	}
	target := max(x-e.gutter(), 0) + e.left
	col, w := 0, 0
	for _, r := range e.text.Line(row) {
		rw := ui.StringWidth(string(r))
		if w+rw > target {
			break
		}
		w += rw
		col++
	}
	e.text.MoveTo(row, col)
}

// scrollToCursor keeps the cursor inside a view of rows x cols cells.
func (e *editorTool) scrollToCursor(rows, cols int) {
	row, col := e.text.Cursor()
	if row < e.top {
		e.top = row
	}
	if row >= e.top+rows {
		e.top = row - rows + 1
	}
	x := ui.StringWidth(string([]rune(e.text.Line(row))[:col]))
	if x < e.left {
		e.left = x
	}
	if x >= e.left+cols {
		e.left = x - cols + 1
	}
}

func (e *editorTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	e.width, e.height = w, h
	buf.Clear(e.st.text)
	if h < 2 {
		return
	}
	if e.hlDirty {
		e.hl = highlightLines(lexerFor(e.lang, filepath.Base(e.path), e.text.Text()), e.style, e.text.Text(), e.st.text)
		e.hlDirty = false
	}

	g := e.gutter()
	rows, cols := h-1, max(w-g, 1)
	e.scrollToCursor(rows, cols)
	crow, ccol := e.text.Cursor()
	for y := 0; y < rows; y++ {
		i := e.top + y
		if i >= e.text.Len() {
			break
		}
		num := strconv.Itoa(i + 1)
		buf.SetString(g-1-len(num), y, num, e.st.dim)
		if i < len(e.hl) {
			drawSpans(buf, g, y, cols, e.left, e.hl[i])
		}
		if focused && e.prompt == promptNone && i == crow {
			x := g + ui.StringWidth(string([]rune(e.text.Line(i))[:ccol])) - e.left
			c := buf.Cell(x, y)
			st := c.Style
			st.Reverse = true
			content := c.Content
			if content == "" || c.Width == 0 {
				content = " "
			}
			buf.SetString(x, y, content, st)
		}
	}

	y := h - 1
	buf.Fill(image.Rect(0, y, w, h), " ", e.st.header)
	if e.prompt != promptNone {
		label := "打开: "
		if e.prompt == promptSave {
			label = "另存为: "
		}
		n := buf.SetString(0, y, label, e.st.header)
		e.input.Render(buf, n, y, w-n, e.st.input, focused)
		return
	}
	buf.SetString(0, y, ui.Truncate(e.statusLine(), w), e.st.header)
}

func (e *editorTool) statusLine() string {
	name := e.path
	if name == "" {
		name = "未命名"
	}
	lang := e.lang
	if lang == "" {
		lang = "纯文本"
	}
	row, col := e.text.Cursor()
	parts := []string{name, lang, fmt.Sprintf("行 %d, 列 %d", row+1, col+1)}
	if e.modified {
		parts = append(parts, "已修改")
	}
	return strings.Join(parts, " | ")
}

func (e *editorTool) Close() error { return nil }
