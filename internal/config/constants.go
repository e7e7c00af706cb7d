package config

import "time"

// Frame pacing
const (
	NormalFPS = 30
	// ClockInterval drives the task bar clock refresh.
	ClockInterval = time.Second
	// SysInfoInterval controls how often the status bar CPU graph samples.
	SysInfoInterval = 2 * time.Second
)

// Log buffer
const (
	MaxLogMessages = 500
)

// Layout constants for the fixed chrome rows of the shell.
const (
	MenuBarHeight   = 1
	ToolBarHeight   = 1
	TaskBarHeight   = 1
	StatusBarHeight = 1
	// MinWindowWidth and MinWindowHeight bound interactive resizes.
	MinWindowWidth  = 16
	MinWindowHeight = 5
)

// ClockFormat is the task bar clock layout.
const ClockFormat = "2006-01-02 15:04:05"

// ReloadDebounce coalesces bursts of file events from editors that write
// the config file in several steps.
const ReloadDebounce = 150 * time.Millisecond

// DefaultTheme is the built-in palette used when no bubbletint theme is set.
const DefaultTheme = "win95"
