package tools

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

var keypad = [][]string{
	{"7", "8", "9", "/", "C"},
	{"4", "5", "6", "*", "←"},
	{"1", "2", "3", "-", "("},
	{"0", ".", "%", "+", ")"},
	{"^", "="},
}

const maxCalcHistory = 50

type calculatorTool struct {
	st      styles
	expr    field
	result  string
	err     string
	history []string
	buttons []button
}

func openCalculator(env Env, _ string) (desktop.Content, error) {
	c := &calculatorTool{st: newStyles(env.Theme)}
	return desktop.Content{
		Surface: c,
		Menu: []desktop.MenuItem{
			{Label: "清除历史", Run: func() tea.Cmd { c.history = nil; return nil }},
		},
	}, nil
}

func (c *calculatorTool) Init() tea.Cmd { return nil }

func (c *calculatorTool) evaluate() {
	expr := strings.TrimSpace(c.expr.Value())
	if expr == "" {
		return
	}
	v, err := Evaluate(expr)
	if err != nil {
		c.err = err.Error()
		c.result = ""
		return
	}
	c.err = ""
	c.result = FormatNumber(v)
	c.history = append(c.history, expr+" = "+c.result)
	if len(c.history) > maxCalcHistory {
		c.history = c.history[1:]
	}
	c.expr.SetValue(c.result)
}

func (c *calculatorTool) press(label string) {
	switch label {
	case "=":
		c.evaluate()
	case "C":
		c.expr.Clear()
		c.result, c.err = "", ""
	case "←":
		c.expr.HandleKey(tea.KeyPressMsg{Code: tea.KeyBackspace})
	default:
		c.expr.HandleKey(tea.KeyPressMsg{Code: []rune(label)[0], Text: label})
	}
}

func (c *calculatorTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case desktop.ClickMsg:
		if i := hitButton(c.buttons, msg.X, msg.Y); i >= 0 {
			c.press(strings.TrimSpace(c.buttons[i].label))
		}
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "=":
			c.evaluate()
		case "esc":
			c.press("C")
		default:
			c.expr.HandleKey(msg)
		}
	}
	return nil
}

func (c *calculatorTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(c.st.text)
	c.expr.Render(buf, 0, 0, w, c.st.input, focused)
	switch {
	case c.err != "":
		buf.SetString(0, 1, ui.Truncate(c.err, w), c.st.err)
	case c.result != "":
		buf.SetString(0, 1, ui.Truncate("= "+c.result, w), c.st.accent)
	}

	c.buttons = c.buttons[:0]
	y := 3
	for _, row := range keypad {
		labels := make([]string, len(row))
		for i, l := range row {
			labels[i] = " " + l + " "
		}
		c.buttons = append(c.buttons, drawButtons(buf, 0, y, labels, -1, c.st)...)
		y++
	}

	y++
	rows := h - y
	if rows <= 0 {
		return
	}
	start := max(len(c.history)-rows, 0)
	for i, line := range c.history[start:] {
		buf.SetString(0, y+i, ui.Truncate(line, w), c.st.dim)
	}
}

func (c *calculatorTool) Close() error { return nil }
