package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/pool"
)

// OutputMsg carries complete lines read by a pump, plus the unterminated
// tail (a shell prompt, usually) seen so far.
type OutputMsg struct {
	Source  string
	Lines   []string
	Partial string
}

// ExitMsg is sent once when a pump's reader is exhausted. Err is nil for a
// normal end of output.
type ExitMsg struct {
	Source string
	Err    error
}

// LineSplitter turns a byte stream into cleaned lines.
type LineSplitter struct {
	buf []byte
}

// Write consumes p and returns the lines it completed.
func (s *LineSplitter) Write(p []byte) []string {
	s.buf = append(s.buf, p...)
	var lines []string
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, CleanLine(string(s.buf[:i])))
		s.buf = s.buf[i+1:]
	}
	return lines
}

// Pending returns the cleaned unterminated tail.
func (s *LineSplitter) Pending() string {
	return CleanLine(string(s.buf))
}

// Flush returns and clears the tail, if any.
func (s *LineSplitter) Flush() (string, bool) {
	if len(s.buf) == 0 {
		return "", false
	}
	line := CleanLine(string(s.buf))
	s.buf = nil
	return line, true
}

// CleanLine strips escape sequences and applies carriage returns and
// backspaces the way a dumb terminal would.
func CleanLine(raw string) string {
	raw = ansi.Strip(raw)
	raw = strings.TrimSuffix(raw, "\r")
	if i := strings.LastIndexByte(raw, '\r'); i >= 0 {
		raw = raw[i+1:]
	}
	if !strings.ContainsAny(raw, "\b\t\x07") {
		return raw
	}
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch r {
		case '\b':
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case '\t':
			out = append(out, []rune(strings.Repeat(" ", 4-len(out)%4))...)
		case '\x07':
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Pump reads r on its own goroutine and posts OutputMsg values to events,
// followed by one ExitMsg. It never touches UI state.
func Pump(ctx context.Context, source string, r io.Reader, events chan<- tea.Msg) {
	go func() {
		var exitErr error
		defer func() {
			if p := recover(); p != nil {
				exitErr = fmt.Errorf("output pump: %v", p)
			}
			send(ctx, events, ExitMsg{Source: source, Err: exitErr})
		}()

		bufPtr := pool.GetByteSlice()
		defer pool.PutByteSlice(bufPtr)
		buf := *bufPtr

		var split LineSplitter
		for {
			n, err := r.Read(buf)
			if n > 0 {
				lines := split.Write(buf[:n])
				if !send(ctx, events, OutputMsg{Source: source, Lines: lines, Partial: split.Pending()}) {
					return
				}
			}
			if err != nil {
				if tail, ok := split.Flush(); ok {
					send(ctx, events, OutputMsg{Source: source, Lines: []string{tail}})
				}
				if !isEndOfOutput(err) {
					exitErr = err
				}
				return
			}
		}
	}()
}

func send(ctx context.Context, events chan<- tea.Msg, msg tea.Msg) bool {
	select {
	case events <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// isEndOfOutput reports errors that only mean the writer went away. A PTY
// master reports EIO once the child exits.
func isEndOfOutput(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EIO) ||
		strings.Contains(err.Error(), "file already closed") ||
		strings.Contains(err.Error(), "input/output error")
}
