package tools

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/adrg/xdg"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// Wallpaper picker file types.
var wallpaperExts = map[string]bool{".bmp": true, ".png": true, ".jpg": true, ".jpeg": true}

// wallpaperFiles lists the pickable images in dir, sorted by name.
func wallpaperFiles(dir string) []string {
	entries, err := listDir(dir, false)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.isDir && wallpaperExts[strings.ToLower(filepath.Ext(e.name))] {
			out = append(out, filepath.Join(dir, e.name))
		}
	}
	return out
}

type panelFocus int

const (
	focusPath panelFocus = iota
	focusFiles
	focusMode
	focusButtons
	panelFocusCount
)

var panelButtons = []string{"✅ 应用", "🔄 恢复默认", "❌ 关闭"}

// controlPanelTool is the desktop personalization dialog.
type controlPanelTool struct {
	env  Env
	st   styles
	comp *desktop.Compositor

	path   field
	dir    string
	files  []string
	list   listCursor
	label  string
	focus  panelFocus
	button int

	buttons     []button
	selectBtn   []button
	modeButtons []button
	listTop     int
	listRows    int
}

func openControlPanel(env Env, _ string) (desktop.Content, error) {
	if env.Compositor == nil {
		return desktop.Content{}, errors.New("控制面板需要桌面壁纸服务")
	}
	cfg := env.cfg()
	dir := cfg.Wallpaper.Directory
	if dir == "" {
		dir = xdg.UserDirs.Pictures
	}
	if _, err := os.Stat(dir); err != nil {
		dir, _ = os.UserHomeDir()
	}
	c := &controlPanelTool{
		env:   env,
		st:    newStyles(env.Theme),
		comp:  env.Compositor,
		dir:   dir,
		files: wallpaperFiles(dir),
		label: "未选择壁纸",
	}
	switch {
	case c.comp.Path() != "":
		c.label = filepath.Base(c.comp.Path())
		c.path.SetValue(c.comp.Path())
	case c.comp.Active():
		c.label = "当前已设置壁纸"
	default:
		c.path.SetValue(dir + string(filepath.Separator))
	}
	return desktop.Content{Surface: c}, nil
}

// selectPath decodes path for the preview.
func (c *controlPanelTool) selectPath(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		c.dir = path
		c.files = wallpaperFiles(path)
		c.list = listCursor{}
		c.focus = focusFiles
		return nil
	}
	if err := c.comp.Select(path); err != nil {
		return errorNotice("预览图片失败: ", err)
	}
	c.path.SetValue(path)
	c.label = filepath.Base(path)
	return nil
}

// setMode changes the placement and re-applies a selected wallpaper.
func (c *controlPanelTool) setMode(m desktop.Mode) tea.Cmd {
	c.comp.SetMode(m)
	if c.comp.Path() == "" {
		return nil
	}
	if err := c.comp.Apply(); err != nil {
		return errorNotice("应用壁纸失败: ", err)
	}
	return nil
}

func (c *controlPanelTool) apply() tea.Cmd {
	if c.comp.Path() == "" {
		return Notice(NoticeWarn, "提示", "请先选择壁纸图片！")
	}
	if err := c.comp.Apply(); err != nil {
		return errorNotice("应用壁纸失败: ", err)
	}
	return Notice(NoticeInfo, "提示", "壁纸已成功应用！")
}

func (c *controlPanelTool) restore() tea.Cmd {
	c.comp.RestoreDefault()
	c.label = "未选择壁纸"
	c.path.SetValue(c.dir + string(filepath.Separator))
	return Notice(NoticeInfo, "提示", "已恢复默认桌面！")
}

func (c *controlPanelTool) press(i int) tea.Cmd {
	switch i {
	case 0:
		return c.apply()
	case 1:
		return c.restore()
	case 2:
		return func() tea.Msg { return CloseMsg{Surface: c} }
	}
	return nil
}

func (c *controlPanelTool) Init() tea.Cmd { return nil }

func (c *controlPanelTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case desktop.ScrollMsg:
		c.list.Move(msg.Delta, len(c.files))
	case desktop.ClickMsg:
		return c.click(msg.X, msg.Y)
	case tea.KeyPressMsg:
		return c.key(msg)
	}
	return nil
}

func (c *controlPanelTool) click(x, y int) tea.Cmd {
	if i := hitButton(c.buttons, x, y); i >= 0 {
		c.focus, c.button = focusButtons, i
		return c.press(i)
	}
	if hitButton(c.selectBtn, x, y) >= 0 {
		return c.selectPath(c.path.Value())
	}
	if i := hitButton(c.modeButtons, x, y); i >= 0 {
		c.focus = focusMode
		return c.setMode(desktop.Modes()[i])
	}
	if y == 2 {
		c.focus = focusPath
		return nil
	}
	if row := y - c.listTop; row >= 0 && row < c.listRows {
		i := c.list.offset + row
		if i < len(c.files) {
			c.focus = focusFiles
			c.list.index = i
			return c.selectPath(c.files[i])
		}
	}
	return nil
}

func (c *controlPanelTool) key(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		c.focus = (c.focus + 1) % panelFocusCount
		return nil
	case "shift+tab":
		c.focus = (c.focus + panelFocusCount - 1) % panelFocusCount
		return nil
	case "esc":
		return c.press(2)
	}

	switch c.focus {
	case focusPath:
		if msg.String() == "enter" {
			return c.selectPath(c.path.Value())
		}
		c.path.HandleKey(msg)
	case focusFiles:
		if c.list.HandleKey(msg, len(c.files), max(c.listRows, 1)) {
			return nil
		}
		if msg.String() == "enter" && c.list.index < len(c.files) {
			return c.selectPath(c.files[c.list.index])
		}
	case focusMode:
		switch msg.String() {
		case "left", "up":
			m := c.comp.Mode()
			for range len(desktop.Modes()) - 1 {
				m = m.Next()
			}
			return c.setMode(m)
		case "right", "down", "enter", "space":
			return c.setMode(c.comp.Mode().Next())
		}
	case focusButtons:
		switch msg.String() {
		case "left":
			c.button = (c.button + len(panelButtons) - 1) % len(panelButtons)
		case "right":
			c.button = (c.button + 1) % len(panelButtons)
		case "enter", "space":
			return c.press(c.button)
		}
	}
	return nil
}

func (c *controlPanelTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(c.st.text)

	title := "🎨 桌面个性化设置"
	selectLabel := "🖼️ 选择壁纸"
	if c.env.ASCII {
		title, selectLabel = "桌面个性化设置", "选择壁纸"
	}
	buf.SetString(0, 0, title, c.st.accent)
	buf.SetString(0, 1, "壁纸设置", c.st.dim)

	n := buf.SetString(0, 2, "文件: ", c.st.text)
	c.path.Render(buf, n, 2, w-n, c.st.input, focused && c.focus == focusPath)

	c.selectBtn = drawButtons(buf, 0, 3, []string{selectLabel}, -1, c.st)
	labelStyle := c.st.dim
	if c.comp.Path() != "" || c.comp.Active() {
		labelStyle = c.st.text
	}
	lx := c.selectBtn[0].rect.Max.X + 1
	buf.SetString(lx, 3, ui.Truncate(c.label, max(w-lx, 0)), labelStyle)

	n = buf.SetString(0, 4, "显示模式: ", c.st.text)
	c.modeButtons = c.modeButtons[:0]
	x := n
	for _, m := range desktop.Modes() {
		mark := "( )"
		if m == c.comp.Mode() {
			mark = "(•)"
		}
		st := c.st.text
		if focused && c.focus == focusMode && m == c.comp.Mode() {
			st = c.st.selected
		}
		text := mark + m.Label()
		bw := buf.SetString(x, 4, text, st)
		c.modeButtons = append(c.modeButtons, button{label: m.String(), rect: image.Rect(x, 4, x+bw, 5)})
		x += bw + 1
	}

	// Files on the left, preview box on the right.
	top, bottom := 5, h-1
	prevW := min(c.env.cfg().Wallpaper.PreviewWidth+2, w/2)
	listW := w - prevW - 1
	c.listTop, c.listRows = top, max(bottom-top, 0)
	first := c.list.Window(len(c.files), c.listRows)
	for row := 0; row < c.listRows && first+row < len(c.files); row++ {
		i := first + row
		st := c.st.text
		if i == c.list.index && c.focus == focusFiles && focused {
			st = c.st.selected
		}
		y := top + row
		buf.Fill(image.Rect(0, y, listW, y+1), " ", st)
		buf.SetString(0, y, ui.Truncate(filepath.Base(c.files[i]), listW), st)
	}
	if len(c.files) == 0 && c.listRows > 0 {
		buf.SetString(0, top, ui.Truncate("(没有图片)", listW), c.st.dim)
	}

	if bottom-top >= 3 {
		c.drawPreview(buf, image.Rect(w-prevW, top, w, bottom))
	}

	focusBtn := -1
	if focused && c.focus == focusButtons {
		focusBtn = c.button
	}
	bx := max(w-buttonsWidth(panelButtons), 0)
	c.buttons = drawButtons(buf, bx, h-1, panelButtons, focusBtn, c.st)
}

// drawPreview frames the selection preview inside box.
func (c *controlPanelTool) drawPreview(buf *ui.Buffer, box image.Rectangle) {
	border := ui.SingleBorder
	if c.env.ASCII {
		border = ui.ASCIIBorder
	}
	buf.Box(box, border, c.st.dim)
	buf.SetString(box.Min.X+2, box.Min.Y, "预览", c.st.dim)
	inner := box.Inset(1)
	if preview := c.comp.Preview(); preview != nil && !inner.Empty() {
		img := preview
		fit := desktop.FitWithin(img.Bounds().Size(), ui.PixelSize(inner.Dx(), inner.Dy()))
		if fit != img.Bounds().Size() {
			img = desktop.Scale(img, fit)
		}
		px := inner.Min.X + (inner.Dx()-fit.X)/2
		py := inner.Min.Y + (inner.Dy()-(fit.Y+1)/2)/2
		buf.DrawImage(px, py, img)
	} else if !inner.Empty() {
		msg := "选择图片后显示预览"
		buf.SetString(inner.Min.X+ui.Center(msg, inner.Dx()), inner.Min.Y+inner.Dy()/2, ui.Truncate(msg, inner.Dx()), c.st.dim)
	}
}

func buttonsWidth(labels []string) int {
	n := 0
	for _, l := range labels {
		n += ui.StringWidth(l) + 3
	}
	return n - 1
}

func (c *controlPanelTool) Close() error { return nil }
