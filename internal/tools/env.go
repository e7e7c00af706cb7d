// Package tools holds the utility programs that open as desktop windows.
// Each tool is a desktop.Surface built by a catalog factory. Background
// work posts messages to the shell's event channel; surfaces pick out their
// own messages by source id in Update.
package tools

import (
	"context"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// Env is what tools may use from the shell that hosts them.
type Env struct {
	// Ctx is canceled when the shell shuts down.
	Ctx        context.Context
	Events     chan<- tea.Msg
	Compositor *desktop.Compositor
	Config     *config.UserConfig
	Theme      theme.Theme
	HTTPClient *http.Client
	// ASCII replaces emoji and box glyphs with plain characters.
	ASCII bool
}

func (e Env) context() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

func (e Env) httpClient() *http.Client {
	if e.HTTPClient != nil {
		return e.HTTPClient
	}
	timeout := 15 * time.Second
	if e.Config != nil && e.Config.Tools.FetchTimeout > 0 {
		timeout = time.Duration(e.Config.Tools.FetchTimeout) * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (e Env) cfg() *config.UserConfig {
	if e.Config == nil {
		return config.DefaultConfig()
	}
	return e.Config
}

// NoticeLevel selects the icon and color of a notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

// NoticeMsg asks the shell to show a modal message box.
type NoticeMsg struct {
	Title string
	Text  string
	Level NoticeLevel
}

// Notice returns a command that shows a message box.
func Notice(level NoticeLevel, title, text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Title: title, Text: text, Level: level}
	}
}

// errorNotice is the standard failure box titled 错误.
func errorNotice(prefix string, err error) tea.Cmd {
	return Notice(NoticeError, "错误", prefix+err.Error())
}

// StatusMsg sets the left side of the shell status bar.
type StatusMsg struct {
	Text string
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

// OpenFileMsg asks the shell to open path with the tool for its type.
type OpenFileMsg struct {
	Path string
}

// CloseMsg asks the shell to close the window hosting Surface.
type CloseMsg struct {
	Surface desktop.Surface
}
