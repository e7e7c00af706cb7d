package tools

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestPanel(t *testing.T, dir string) (*controlPanelTool, *desktop.Compositor) {
	t.Helper()
	comp := desktop.NewCompositor(desktop.CompositorOptions{
		PreviewSize: image.Pt(64, 36),
		PixelScale:  1,
		CacheSize:   2,
	})
	cfg := config.DefaultConfig()
	cfg.Wallpaper.Directory = dir
	content, err := openControlPanel(Env{Compositor: comp, Config: cfg}, "")
	if err != nil {
		t.Fatal(err)
	}
	return content.Surface.(*controlPanelTool), comp
}

func notice(t *testing.T, cmd tea.Cmd) NoticeMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a notice, got no command")
	}
	got := cmd()
	msg, ok := got.(NoticeMsg)
	if !ok {
		t.Fatalf("expected NoticeMsg, got %T", got)
	}
	return msg
}

func TestControlPanelApplyWithoutSelection(t *testing.T) {
	panel, comp := newTestPanel(t, t.TempDir())
	msg := notice(t, panel.press(0))
	if msg.Level != NoticeWarn || msg.Text != "请先选择壁纸图片！" {
		t.Errorf("notice = %+v", msg)
	}
	if comp.Active() {
		t.Error("nothing should be applied")
	}
}

func TestControlPanelSelectApplyRestore(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "red.png", 40, 20)
	panel, comp := newTestPanel(t, dir)

	if len(panel.files) != 1 {
		t.Fatalf("files = %v, want the one png", panel.files)
	}
	if cmd := panel.selectPath(path); cmd != nil {
		t.Fatalf("select returned %v", notice(t, cmd))
	}
	if panel.label != "red.png" || comp.Preview() == nil {
		t.Errorf("label = %q, preview = %v", panel.label, comp.Preview() != nil)
	}

	msg := notice(t, panel.press(0))
	if msg.Text != "壁纸已成功应用！" || msg.Title != "提示" {
		t.Errorf("apply notice = %+v", msg)
	}
	if !comp.Active() {
		t.Fatal("wallpaper should be active")
	}

	// Changing the mode with a selection re-applies.
	panel.setMode(desktop.ModeTile)
	if comp.Mode() != desktop.ModeTile || !comp.Active() {
		t.Errorf("mode = %v, active = %v", comp.Mode(), comp.Active())
	}

	msg = notice(t, panel.press(1))
	if msg.Text != "已恢复默认桌面！" {
		t.Errorf("restore notice = %+v", msg)
	}
	if comp.Active() || comp.Render(10, 10) != nil || panel.label != "未选择壁纸" {
		t.Error("restore should clear the wallpaper")
	}
}

func TestControlPanelBadImage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	panel, comp := newTestPanel(t, dir)
	msg := notice(t, panel.selectPath(bad))
	if msg.Level != NoticeError || msg.Title != "错误" {
		t.Errorf("notice = %+v", msg)
	}
	if comp.Path() != "" {
		t.Errorf("failed select changed the selection to %q", comp.Path())
	}
}

func TestControlPanelCloseButton(t *testing.T) {
	panel, _ := newTestPanel(t, t.TempDir())
	cmd := panel.press(2)
	msg, ok := cmd().(CloseMsg)
	if !ok || msg.Surface != panel {
		t.Errorf("close = %#v", msg)
	}
}

func TestControlPanelRender(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "red.png", 40, 20)
	panel, _ := newTestPanel(t, dir)
	buf := ui.NewBuffer(90, 20)
	panel.Render(buf, true)
	if got := buf.Row(1); !strings.HasPrefix(got, "壁纸设置") {
		t.Errorf("row 1 = %q", got)
	}
	if len(panel.buttons) != 3 || len(panel.modeButtons) != 4 {
		t.Errorf("buttons = %d, mode buttons = %d", len(panel.buttons), len(panel.modeButtons))
	}
	// Clicking the TILE radio sets the mode.
	r := panel.modeButtons[3].rect
	panel.Update(desktop.ClickMsg{X: r.Min.X, Y: r.Min.Y})
	if panel.comp.Mode() != desktop.ModeTile {
		t.Errorf("mode = %v after click, want tile", panel.comp.Mode())
	}
}
