package tools

import "testing"

func TestTextBufferEditing(t *testing.T) {
	b := newTextBuffer("ab\ncd")
	b.MoveTo(0, 1)
	b.Insert("X")
	if b.Text() != "aXb\ncd" {
		t.Fatalf("insert: %q", b.Text())
	}
	b.Newline()
	if b.Text() != "aX\nb\ncd" || b.row != 1 || b.col != 0 {
		t.Fatalf("newline: %q at %d,%d", b.Text(), b.row, b.col)
	}
	b.Backspace()
	if b.Text() != "aXb\ncd" || b.row != 0 || b.col != 2 {
		t.Fatalf("backspace join: %q at %d,%d", b.Text(), b.row, b.col)
	}
	b.End()
	b.Delete()
	if b.Text() != "aXbcd" {
		t.Fatalf("delete join: %q", b.Text())
	}
	b.Insert("1\n2")
	if b.Text() != "aXb1\n2cd" {
		t.Fatalf("multi-line insert: %q", b.Text())
	}
}

func TestTextBufferCursor(t *testing.T) {
	b := newTextBuffer("héllo\r\nwörld")
	if b.Len() != 2 || b.Line(0) != "héllo" {
		t.Fatalf("lines = %d, first = %q", b.Len(), b.Line(0))
	}
	b.End()
	b.Right()
	if row, col := b.Cursor(); row != 1 || col != 0 {
		t.Errorf("right at end of line = %d,%d, want 1,0", row, col)
	}
	b.Left()
	if row, col := b.Cursor(); row != 0 || col != 5 {
		t.Errorf("left at start of line = %d,%d, want 0,5", row, col)
	}
	b.MoveTo(9, 9)
	if row, col := b.Cursor(); row != 1 || col != 5 {
		t.Errorf("clamped = %d,%d, want 1,5", row, col)
	}
	b.MoveTo(0, 0)
	b.Backspace()
	b.Left()
	if b.Text() != "héllo\nwörld" {
		t.Errorf("edits at the start changed the text: %q", b.Text())
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		data string
		want string
	}{
		{"main.go", "package main\n", "Go"},
		{"script.py", "print('hi')\n", "Python"},
		{"notes.txt", "just words\n", ""},
	}
	for _, tt := range tests {
		if got := detectLanguage(tt.path, []byte(tt.data)); got != tt.want {
			t.Errorf("detectLanguage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
