package tools

import (
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func makeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, d := range []string{"src", "Docs"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"main.go", "README.md", ".hidden", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func names(entries []dirEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func TestListDir(t *testing.T) {
	dir := makeTree(t)
	entries, err := listDir(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Docs", "src", "main.go", "notes.txt", "README.md"}
	got := names(entries)
	if len(got) != len(want) {
		t.Fatalf("listDir = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}

	all, err := listDir(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(want)+1 {
		t.Errorf("with hidden files got %d entries, want %d", len(all), len(want)+1)
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []dirEntry{{name: "main.go"}, {name: "README.md"}, {name: "remain.txt"}, {name: "src"}}

	if got := filterEntries(entries, ""); len(got) != 4 {
		t.Errorf("empty query kept %d entries, want 4", len(got))
	}
	got := filterEntries(entries, "main")
	if len(got) != 2 {
		t.Fatalf("filter main = %v, want 2 matches", got)
	}
	if entries[got[0]].name != "main.go" {
		t.Errorf("prefix match should rank first, got %q", entries[got[0]].name)
	}
	if got := filterEntries(entries, "zzz"); len(got) != 0 {
		t.Errorf("no match expected, got %v", got)
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := humanSize(tt.n); got != tt.want {
			t.Errorf("humanSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestExplorerNavigation(t *testing.T) {
	dir := makeTree(t)
	content, err := openExplorer(Env{}, dir)
	if err != nil {
		t.Fatal(err)
	}
	x := content.Surface.(*explorerTool)

	// First entry is the Docs directory; Enter descends into it.
	x.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if filepath.Base(x.dir) != "Docs" {
		t.Fatalf("dir = %q, want Docs", x.dir)
	}
	// Backspace with an empty filter goes back up and reselects Docs.
	x.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if x.dir != dir {
		t.Fatalf("dir = %q, want %q", x.dir, dir)
	}
	if e, _ := x.selected(); e.name != "Docs" {
		t.Errorf("selected %q after going up, want Docs", e.name)
	}

	// Typing filters; Enter on a file asks the shell to open it.
	for _, r := range "main" {
		x.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if len(x.matches) == 0 {
		t.Fatal("filter matched nothing")
	}
	cmd := x.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("opening a file returned no command")
	}
	msg, ok := cmd().(OpenFileMsg)
	if !ok || msg.Path != filepath.Join(dir, "main.go") {
		t.Errorf("open = %#v, want main.go", msg)
	}
}
