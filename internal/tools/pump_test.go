package tools

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestCleanLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"crlf", "hello\r", "hello"},
		{"color", "\x1b[31mred\x1b[0m", "red"},
		{"carriage return overwrite", "10%\r50%\r100%", "100%"},
		{"backspace", "abc\b\bd", "ad"},
		{"tab", "a\tb", "a   b"},
		{"bell", "ding\x07", "ding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanLine(tt.in); got != tt.want {
				t.Errorf("CleanLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLineSplitter(t *testing.T) {
	var s LineSplitter
	if got := s.Write([]byte("one\ntw")); len(got) != 1 || got[0] != "one" {
		t.Fatalf("first write = %v", got)
	}
	if s.Pending() != "tw" {
		t.Errorf("Pending = %q, want tw", s.Pending())
	}
	got := s.Write([]byte("o\nthree\n$ "))
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Errorf("second write = %v", got)
	}
	tail, ok := s.Flush()
	if !ok || tail != "$ " {
		t.Errorf("Flush = %q, %v", tail, ok)
	}
	if _, ok := s.Flush(); ok {
		t.Error("second Flush should report nothing")
	}
}

func collect(t *testing.T, events <-chan tea.Msg, source string) ([]string, ExitMsg) {
	t.Helper()
	var lines []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-events:
			switch m := msg.(type) {
			case OutputMsg:
				if m.Source == source {
					lines = append(lines, m.Lines...)
				}
			case ExitMsg:
				if m.Source == source {
					return lines, m
				}
			}
		case <-timeout:
			t.Fatal("pump did not finish")
		}
	}
}

func TestPump(t *testing.T) {
	events := make(chan tea.Msg, 16)
	Pump(context.Background(), "src", strings.NewReader("a\nb\nc"), events)
	lines, exit := collect(t, events, "src")
	if strings.Join(lines, ",") != "a,b,c" {
		t.Errorf("lines = %v, want [a b c]", lines)
	}
	if exit.Err != nil {
		t.Errorf("exit error = %v, want nil", exit.Err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestPumpReportsReadError(t *testing.T) {
	events := make(chan tea.Msg, 4)
	Pump(context.Background(), "bad", failingReader{}, events)
	_, exit := collect(t, events, "bad")
	if exit.Err == nil || exit.Err.Error() != "boom" {
		t.Errorf("exit error = %v, want boom", exit.Err)
	}
}

func TestIsEndOfOutput(t *testing.T) {
	if !isEndOfOutput(io.EOF) || !isEndOfOutput(io.ErrClosedPipe) {
		t.Error("EOF and closed pipe are normal ends")
	}
	if isEndOfOutput(errors.New("permission denied")) {
		t.Error("other errors are not")
	}
}
