package tools

import (
	"image"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

const maxConsoleLines = 2000

// console is a scrolling output log with an input line under it, shared by
// the tools that drive a line-oriented child process.
type console struct {
	lines   []string
	partial string
	scroll  int // rows scrolled back from the bottom
	input   field
	history []string
	histPos int
	label   string
}

func newConsole(label string) *console {
	return &console{label: label}
}

// Append adds completed lines and replaces the unterminated tail.
func (c *console) Append(lines []string, partial string) {
	c.lines = append(c.lines, lines...)
	if over := len(c.lines) - maxConsoleLines; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
	c.partial = partial
}

// Println adds one line, flushing any partial line first.
func (c *console) Println(line string) {
	if c.partial != "" {
		c.lines = append(c.lines, c.partial)
		c.partial = ""
	}
	c.Append([]string{line}, "")
}

// HandleKey edits the input line. On Enter it returns the submitted text.
func (c *console) HandleKey(msg tea.KeyPressMsg) (string, bool) {
	switch msg.String() {
	case "enter":
		line := c.input.Value()
		if line != "" {
			c.history = append(c.history, line)
		}
		c.histPos = len(c.history)
		c.input.Clear()
		c.scroll = 0
		return line, true
	case "up":
		if c.histPos > 0 {
			c.histPos--
			c.input.SetValue(c.history[c.histPos])
		}
	case "down":
		if c.histPos < len(c.history)-1 {
			c.histPos++
			c.input.SetValue(c.history[c.histPos])
		} else {
			c.histPos = len(c.history)
			c.input.Clear()
		}
	case "pgup", "shift+up":
		c.scroll = min(c.scroll+5, len(c.lines))
	case "pgdown", "shift+down":
		c.scroll = max(c.scroll-5, 0)
	default:
		c.input.HandleKey(msg)
	}
	return "", false
}

// Scroll moves the view by delta rows; negative scrolls back.
func (c *console) Scroll(delta int) {
	c.scroll = min(max(c.scroll-delta, 0), len(c.lines))
}

// Render draws the log and, below it, the labeled input line.
func (c *console) Render(buf *ui.Buffer, st styles, focused bool) {
	w, h := buf.Width(), buf.Height()
	if h < 2 {
		return
	}
	logRows := h - 1

	rows := c.lines
	if c.partial != "" {
		rows = append(rows[:len(rows):len(rows)], c.partial)
	}
	end := max(len(rows)-c.scroll, 0)
	start := max(end-logRows, 0)
	for i, line := range rows[start:end] {
		buf.SetString(0, i, ui.Truncate(line, w), st.text)
	}
	if c.scroll > 0 {
		tag := "[-" + strconv.Itoa(c.scroll) + "]"
		buf.SetString(w-ui.StringWidth(tag), 0, tag, st.dim)
	}

	y := h - 1
	buf.Fill(image.Rect(0, y, w, h), " ", st.header)
	n := buf.SetString(0, y, c.label+"> ", st.header)
	c.input.Render(buf, n, y, w-n, st.input, focused)
}
