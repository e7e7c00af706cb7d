package tools

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

type imageLoadedMsg struct {
	source string
	path   string
	img    image.Image
	err    error
}

// siblingImages lists the images in path's directory, sorted by name.
func siblingImages(path string) []string {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isImage(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(out)
	return out
}

// imageViewerTool shows one picture scaled to the window with half-block
// cells.
type imageViewerTool struct {
	env    Env
	st     styles
	source string

	path    field
	current string
	img     image.Image
	loading bool
	err     string

	scaled    *image.RGBA
	scaledFor image.Point
	siblings  []string
}

func openImageViewer(env Env, arg string) (desktop.Content, error) {
	v := &imageViewerTool{env: env, st: newStyles(env.Theme), source: uuid.NewString()}
	v.path.SetValue(arg)
	return desktop.Content{
		Surface: v,
		Menu: []desktop.MenuItem{
			{Label: "上一张", Run: func() tea.Cmd { return v.step(-1) }},
			{Label: "下一张", Run: func() tea.Cmd { return v.step(1) }},
			{Label: "设为壁纸", Run: v.setWallpaper},
		},
	}, nil
}

func (v *imageViewerTool) load(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	v.loading = true
	v.err = ""
	source := v.source
	return func() tea.Msg {
		img, err := desktop.LoadImage(path)
		return imageLoadedMsg{source: source, path: path, img: img, err: err}
	}
}

func (v *imageViewerTool) step(delta int) tea.Cmd {
	n := len(v.siblings)
	if n == 0 {
		return nil
	}
	i := slices.Index(v.siblings, v.current)
	next := v.siblings[((i+delta)%n+n)%n]
	v.path.SetValue(next)
	return v.load(next)
}

func (v *imageViewerTool) setWallpaper() tea.Cmd {
	if v.img == nil || v.env.Compositor == nil {
		return Notice(NoticeWarn, "提示", "请先打开图片！")
	}
	v.env.Compositor.SelectImage(v.current, v.img)
	v.env.Compositor.ApplyImage(v.img)
	return Notice(NoticeInfo, "提示", "壁纸已成功应用！")
}

func (v *imageViewerTool) Init() tea.Cmd {
	return v.load(v.path.Value())
}

func (v *imageViewerTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case imageLoadedMsg:
		if msg.source != v.source {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err.Error()
			return errorNotice("打开图片失败: ", msg.err)
		}
		v.img = msg.img
		v.current = msg.path
		v.scaled = nil
		v.siblings = siblingImages(msg.path)
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return v.load(v.path.Value())
		case "pgdown", "ctrl+n":
			return v.step(1)
		case "pgup", "ctrl+p":
			return v.step(-1)
		case "ctrl+b":
			return v.setWallpaper()
		default:
			v.path.HandleKey(msg)
		}
	}
	return nil
}

func (v *imageViewerTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(v.st.text)
	n := buf.SetString(0, 0, "文件: ", v.st.text)
	v.path.Render(buf, n, 0, w-n, v.st.input, focused)

	rows := h - 2
	switch {
	case v.loading:
		buf.SetString(ui.Center("正在加载...", w), h/2, "正在加载...", v.st.dim)
	case v.err != "":
		buf.SetString(0, h/2, ui.Truncate(v.err, w), v.st.err)
	case v.img != nil && rows > 0:
		area := ui.PixelSize(w, rows)
		if v.scaled == nil || v.scaledFor != area {
			rs := desktop.Place(desktop.ModeFit, v.img.Bounds().Size(), area)
			if len(rs) == 0 || rs[0].Empty() {
				break
			}
			v.scaled = desktop.Scale(v.img, rs[0].Size())
			v.scaledFor = area
		}
		size := v.scaled.Bounds().Size()
		x := (w - size.X) / 2
		y := 1 + (rows-(size.Y+1)/2)/2
		buf.DrawImage(x, y, v.scaled)
	default:
		buf.SetString(ui.Center("输入图片路径后回车", w), h/2, "输入图片路径后回车", v.st.dim)
	}

	if v.img != nil {
		b := v.img.Bounds()
		info := fmt.Sprintf("%s · %dx%d", filepath.Base(v.current), b.Dx(), b.Dy())
		if i := slices.Index(v.siblings, v.current); i >= 0 {
			info += fmt.Sprintf(" · %d/%d", i+1, len(v.siblings))
		}
		buf.SetString(0, h-1, ui.Truncate(info, w), v.st.dim)
	}
}

func (v *imageViewerTool) Close() error { return nil }
