package desktop

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// Surface is the content hosted inside a window. The shell calls Update
// only for the focused window's key and mouse input, and for every other
// message so that background output reaches the surface that owns it.
type Surface interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	// Render draws the client area. buf is sized to the client area and
	// cleared to the window background.
	Render(buf *ui.Buffer, focused bool)
	// Close releases the content's resources, killing any child process.
	Close() error
}

// Resizer is implemented by surfaces that track their client size.
type Resizer interface {
	Resize(width, height int)
}

// MenuItem is an entry in a window's own menu strip.
type MenuItem struct {
	Label string
	Run   func() tea.Cmd
}

// Content is what a factory produces: a surface and an optional menu.
type Content struct {
	Surface Surface
	Menu    []MenuItem
}

// Factory builds the content for a new window.
type Factory func() (Content, error)

// ClickMsg is a mouse press in a window's client area, in client
// coordinates. Only the window under the pointer receives it.
type ClickMsg struct {
	X, Y   int
	Button tea.MouseButton
}

// ScrollMsg is a wheel movement over a window's client area. Negative
// deltas scroll up.
type ScrollMsg struct {
	Delta int
}
