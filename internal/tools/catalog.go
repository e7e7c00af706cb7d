package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
)

// Category groups tools under a menu bar title.
type Category int

const (
	CategoryEdit Category = iota
	CategorySystem
	CategoryNetwork
	CategoryFun
)

// Categories returns the menu categories in menu bar order.
func Categories() []Category {
	return []Category{CategoryEdit, CategorySystem, CategoryNetwork, CategoryFun}
}

// Title is the menu bar title of the category.
func (c Category) Title() string {
	switch c {
	case CategoryEdit:
		return "编辑工具"
	case CategorySystem:
		return "系统工具"
	case CategoryNetwork:
		return "网络工具"
	case CategoryFun:
		return "娱乐工具"
	}
	return "其他"
}

// Tool is a catalog entry.
type Tool struct {
	ID        string
	Title     string
	Icon      string
	ASCIIIcon string
	Category  Category

	open func(env Env, arg string) (desktop.Content, error)
}

// Label returns the icon and title, honoring ASCII mode.
func (t Tool) Label(ascii bool) string {
	if ascii {
		return t.ASCIIIcon + " " + t.Title
	}
	return t.Icon + " " + t.Title
}

// Factory binds the tool to env. arg is a file path for tools that open
// files and is ignored by the rest.
func (t Tool) Factory(env Env, arg string) desktop.Factory {
	return func() (desktop.Content, error) {
		if t.open == nil {
			return desktop.Content{}, fmt.Errorf("%s: not available", t.ID)
		}
		return t.open(env, arg)
	}
}

var catalog = []Tool{
	{ID: "editor", Title: "文本编辑器", Icon: "📝", ASCIIIcon: "[E]", Category: CategoryEdit, open: openEditor},
	{ID: "terminal", Title: "CMD 终端", Icon: "⚡", ASCIIIcon: "[>]", Category: CategorySystem, open: openTerminal},
	{ID: "launcher", Title: "Java 启动器", Icon: "☕", ASCIIIcon: "[J]", Category: CategorySystem, open: openLauncher},
	{ID: "calculator", Title: "计算器", Icon: "🔢", ASCIIIcon: "[=]", Category: CategorySystem, open: openCalculator},
	{ID: "taskmgr", Title: "任务管理器", Icon: "🛠️", ASCIIIcon: "[T]", Category: CategorySystem, open: openTaskManager},
	{ID: "explorer", Title: "文件资源管理器", Icon: "📁", ASCIIIcon: "[F]", Category: CategorySystem, open: openExplorer},
	{ID: "controlpanel", Title: "控制面板", Icon: "🎨", ASCIIIcon: "[C]", Category: CategorySystem, open: openControlPanel},
	{ID: "fetcher", Title: "API 数据获取器", Icon: "🔗", ASCIIIcon: "[N]", Category: CategoryNetwork, open: openFetcher},
	{ID: "music", Title: "音乐播放器", Icon: "🎵", ASCIIIcon: "[M]", Category: CategoryFun, open: openMusic},
	{ID: "imageviewer", Title: "照片查看器", Icon: "🖼️", ASCIIIcon: "[I]", Category: CategoryFun, open: openImageViewer},
}

// Catalog returns every tool in menu order.
func Catalog() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a tool by id.
func Lookup(id string) (Tool, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// ByCategory returns the tools filed under c.
func ByCategory(c Category) []Tool {
	var out []Tool
	for _, t := range catalog {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// ForFile picks the tool that opens path: images go to the viewer, audio
// to the player and everything else to the editor.
func ForFile(path string) Tool {
	id := "editor"
	switch {
	case isImage(path):
		id = "imageviewer"
	case isAudio(path):
		id = "music"
	}
	t, _ := Lookup(id)
	return t
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true}

func isImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}
