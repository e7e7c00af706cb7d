package tools

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

type dirEntry struct {
	name    string
	isDir   bool
	size    int64
	modTime time.Time
}

// listDir reads dir with directories first, each group sorted by name.
// Dotfiles are skipped unless hidden is set.
func listDir(dir string, hidden bool) ([]dirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]dirEntry, 0, len(entries))
	for _, e := range entries {
		if !hidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		d := dirEntry{name: e.Name(), isDir: e.IsDir()}
		if info, err := e.Info(); err == nil {
			d.size = info.Size()
			d.modTime = info.ModTime()
			// Follow symlinks to directories.
			if info.Mode()&os.ModeSymlink != 0 {
				if st, err := os.Stat(filepath.Join(dir, e.Name())); err == nil {
					d.isDir = st.IsDir()
				}
			}
		}
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b dirEntry) int {
		if a.isDir != b.isDir {
			if a.isDir {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
	})
	return out, nil
}

// filterEntries returns the indexes of entries matching query, prefix
// matches first and then by fuzzy score. An empty query keeps all.
func filterEntries(entries []dirEntry, query string) []int {
	if query == "" {
		idx := make([]int, len(entries))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	matches := fuzzy.Find(query, names)
	lq := strings.ToLower(query)
	slices.SortStableFunc(matches, func(a, b fuzzy.Match) int {
		ap := strings.HasPrefix(strings.ToLower(a.Str), lq)
		bp := strings.HasPrefix(strings.ToLower(b.Str), lq)
		if ap != bp {
			if ap {
				return -1
			}
			return 1
		}
		return b.Score - a.Score
	})
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	return idx
}

// humanSize formats a byte count with binary units.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// explorerTool browses directories and opens files in other tools.
type explorerTool struct {
	env     Env
	st      styles
	dir     string
	entries []dirEntry
	matches []int
	filter  field
	list    listCursor
	hidden  bool
	err     string
	listTop int
}

func openExplorer(env Env, arg string) (desktop.Content, error) {
	dir := arg
	if dir == "" {
		var err error
		if dir, err = os.UserHomeDir(); err != nil {
			dir = "."
		}
	}
	x := &explorerTool{env: env, st: newStyles(env.Theme)}
	if err := x.chdir(dir); err != nil {
		return desktop.Content{}, err
	}
	return desktop.Content{
		Surface: x,
		Menu: []desktop.MenuItem{
			{Label: "上级目录", Run: func() tea.Cmd { x.up(); return nil }},
			{Label: "刷新", Run: func() tea.Cmd { x.refresh(); return nil }},
			{Label: "显示隐藏文件", Run: func() tea.Cmd { x.hidden = !x.hidden; x.refresh(); return nil }},
		},
	}, nil
}

func (x *explorerTool) chdir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	entries, err := listDir(abs, x.hidden)
	if err != nil {
		return err
	}
	x.dir = abs
	x.entries = entries
	x.filter.Clear()
	x.matches = filterEntries(entries, "")
	x.list = listCursor{}
	x.err = ""
	return nil
}

func (x *explorerTool) refresh() {
	entries, err := listDir(x.dir, x.hidden)
	if err != nil {
		x.err = err.Error()
		return
	}
	x.entries = entries
	x.matches = filterEntries(entries, x.filter.Value())
	x.list.Move(0, len(x.matches))
}

func (x *explorerTool) up() {
	parent := filepath.Dir(x.dir)
	if parent == x.dir {
		return
	}
	prev := filepath.Base(x.dir)
	if err := x.chdir(parent); err != nil {
		x.err = err.Error()
		return
	}
	for i, m := range x.matches {
		if x.entries[m].name == prev {
			x.list.index = i
		}
	}
}

func (x *explorerTool) selected() (dirEntry, bool) {
	if x.list.index < 0 || x.list.index >= len(x.matches) {
		return dirEntry{}, false
	}
	return x.entries[x.matches[x.list.index]], true
}

func (x *explorerTool) open() tea.Cmd {
	e, ok := x.selected()
	if !ok {
		return nil
	}
	path := filepath.Join(x.dir, e.name)
	if e.isDir {
		if err := x.chdir(path); err != nil {
			x.err = err.Error()
		}
		return nil
	}
	return func() tea.Msg { return OpenFileMsg{Path: path} }
}

func (x *explorerTool) Init() tea.Cmd { return nil }

func (x *explorerTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case desktop.ScrollMsg:
		x.list.Move(msg.Delta, len(x.matches))
	case desktop.ClickMsg:
		if row := msg.Y - x.listTop; row >= 0 {
			i := x.list.offset + row
			if i < len(x.matches) {
				if i == x.list.index {
					return x.open()
				}
				x.list.index = i
			}
		}
	case tea.KeyPressMsg:
		if x.list.HandleKey(msg, len(x.matches), 10) {
			return nil
		}
		switch msg.String() {
		case "enter":
			return x.open()
		case "backspace":
			if x.filter.Value() == "" {
				x.up()
				return nil
			}
		case "esc":
			x.filter.Clear()
		case "ctrl+r":
			x.refresh()
			return nil
		case "ctrl+h":
			x.hidden = !x.hidden
			x.refresh()
			return nil
		}
		if x.filter.HandleKey(msg) || msg.String() == "esc" {
			x.matches = filterEntries(x.entries, x.filter.Value())
			x.list = listCursor{}
		}
	}
	return nil
}

func (x *explorerTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(x.st.text)

	buf.Fill(image.Rect(0, 0, w, 1), " ", x.st.header)
	buf.SetString(0, 0, ui.Truncate(x.dir, w), x.st.header)
	n := buf.SetString(0, 1, "筛选: ", x.st.text)
	x.filter.Render(buf, n, 1, w-n, x.st.input, focused)

	x.listTop = 2
	rows := h - x.listTop - 1
	sizeCol, timeCol := 10, 17
	nameWidth := max(w-sizeCol-timeCol-3, 8)
	first := x.list.Window(len(x.matches), rows)
	for row := 0; row < rows && first+row < len(x.matches); row++ {
		i := first + row
		e := x.entries[x.matches[i]]
		icon, size := "📄", humanSize(e.size)
		if x.env.ASCII {
			icon = "[F]"
		}
		if e.isDir {
			icon, size = "📁", ""
			if x.env.ASCII {
				icon = "[D]"
			}
		}
		st := x.st.text
		if i == x.list.index {
			st = x.st.selected
		}
		y := x.listTop + row
		buf.Fill(image.Rect(0, y, w, y+1), " ", st)
		line := ui.PadRight(icon+" "+e.name, nameWidth) + " " +
			fmt.Sprintf("%*s", sizeCol, size) + " " + e.modTime.Format("2006-01-02 15:04")
		buf.SetString(0, y, line, st)
	}

	footer := fmt.Sprintf("%d 项", len(x.matches))
	if x.err != "" {
		buf.SetString(0, h-1, ui.Truncate(x.err, w), x.st.err)
		return
	}
	buf.SetString(0, h-1, footer, x.st.dim)
}

func (x *explorerTool) Close() error { return nil }
