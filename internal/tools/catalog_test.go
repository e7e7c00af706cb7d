package tools

import (
	"testing"
)

func TestCatalogEntries(t *testing.T) {
	want := []struct {
		id       string
		title    string
		category Category
	}{
		{"editor", "文本编辑器", CategoryEdit},
		{"terminal", "CMD 终端", CategorySystem},
		{"launcher", "Java 启动器", CategorySystem},
		{"calculator", "计算器", CategorySystem},
		{"taskmgr", "任务管理器", CategorySystem},
		{"explorer", "文件资源管理器", CategorySystem},
		{"controlpanel", "控制面板", CategorySystem},
		{"fetcher", "API 数据获取器", CategoryNetwork},
		{"music", "音乐播放器", CategoryFun},
		{"imageviewer", "照片查看器", CategoryFun},
	}
	all := Catalog()
	if len(all) != len(want) {
		t.Fatalf("catalog has %d tools, want %d", len(all), len(want))
	}
	for i, w := range want {
		tool, ok := Lookup(w.id)
		if !ok {
			t.Errorf("Lookup(%q) failed", w.id)
			continue
		}
		if tool.Title != w.title || tool.Category != w.category {
			t.Errorf("%s = %q/%v, want %q/%v", w.id, tool.Title, tool.Category, w.title, w.category)
		}
		if all[i].ID != w.id {
			t.Errorf("catalog[%d] = %q, want %q", i, all[i].ID, w.id)
		}
		if tool.Icon == "" || tool.ASCIIIcon == "" {
			t.Errorf("%s is missing an icon", w.id)
		}
	}
	if _, ok := Lookup("solitaire"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestByCategory(t *testing.T) {
	counts := map[Category]int{CategoryEdit: 1, CategorySystem: 6, CategoryNetwork: 1, CategoryFun: 2}
	for _, c := range Categories() {
		if got := len(ByCategory(c)); got != counts[c] {
			t.Errorf("%s has %d tools, want %d", c.Title(), got, counts[c])
		}
	}
}

func TestForFile(t *testing.T) {
	tests := []struct{ path, want string }{
		{"/p/photo.JPG", "imageviewer"},
		{"wall.bmp", "imageviewer"},
		{"song.flac", "music"},
		{"main.go", "editor"},
		{"Makefile", "editor"},
	}
	for _, tt := range tests {
		if got := ForFile(tt.path).ID; got != tt.want {
			t.Errorf("ForFile(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestToolLabel(t *testing.T) {
	tool, _ := Lookup("calculator")
	if got := tool.Label(false); got != "🔢 计算器" {
		t.Errorf("Label = %q", got)
	}
	if got := tool.Label(true); got != "[=] 计算器" {
		t.Errorf("ASCII label = %q", got)
	}
}

func TestFactoryErrors(t *testing.T) {
	tool, _ := Lookup("controlpanel")
	if _, err := tool.Factory(Env{}, "")(); err == nil {
		t.Error("control panel without a compositor should fail")
	}
	editor, _ := Lookup("editor")
	if _, err := editor.Factory(Env{}, "/does/not/exist.txt")(); err == nil {
		t.Error("editor with a missing file should fail")
	}
	if _, err := (Tool{ID: "ghost"}).Factory(Env{}, "")(); err == nil {
		t.Error("a tool without an opener should fail")
	}
}

func TestFactoryBuildsSurfaces(t *testing.T) {
	for _, id := range []string{"editor", "calculator", "fetcher", "imageviewer"} {
		tool, _ := Lookup(id)
		content, err := tool.Factory(Env{}, "")()
		if err != nil {
			t.Errorf("%s: %v", id, err)
			continue
		}
		if content.Surface == nil {
			t.Errorf("%s: nil surface", id)
		}
		if err := content.Surface.Close(); err != nil {
			t.Errorf("%s close: %v", id, err)
		}
	}
}
