// Package main implements tuidesk, a multi-window tool desktop for the
// terminal: a menu bar, tool bar, start menu and task bar around ten
// utility tools that open as movable windows.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode     bool
	cpuProfile    string
	themeName     string
	asciiOnly     bool
	wallpaperPath string
	wallpaperMode string
	hideClock     bool
)

func main() {
	var openTools []string

	rootCmd := &cobra.Command{
		Use:   "tuidesk",
		Short: "Multi-tool desktop for the terminal",
		Long: `tuidesk - a classic desktop in your terminal

Menus, a tool bar, a start menu and a task bar manage windows hosting a
text editor, command terminal, server launcher, calculator, task manager,
file explorer, API fetcher, music player, image viewer and control panel.`,
		Example: `  # Run tuidesk
  tuidesk

  # Start with the calculator and editor open
  tuidesk --open calculator --open editor

  # Use a wallpaper, centered
  tuidesk --wallpaper ~/Pictures/bliss.png --wallpaper-mode center

  # Run as SSH server
  tuidesk ssh --port 2222

  # Edit configuration
  tuidesk config edit

  # List all keybindings
  tuidesk keybinds list`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(openTools)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debugMode, "debug", false, "Write the desktop log to the log file on exit")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.StringVar(&themeName, "theme", "", "Color theme (win95 or a bubbletint theme id)")
	flags.BoolVar(&asciiOnly, "ascii", false, "Use ASCII instead of emoji and box drawing glyphs")
	flags.StringVar(&wallpaperPath, "wallpaper", "", "Wallpaper image to apply at startup")
	flags.StringVar(&wallpaperMode, "wallpaper-mode", "", "Wallpaper placement: stretch, fit, center or tile")
	flags.BoolVar(&hideClock, "no-clock", false, "Hide the task bar clock")
	rootCmd.Flags().StringArrayVar(&openTools, "open", nil, "Tool to open at startup (repeatable, see 'tuidesk tools list')")

	var sshPort, sshHost, sshKeyPath string

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run tuidesk as SSH server",
		Long: `Run tuidesk as an SSH server

Every connection gets its own desktop. The server will generate a host key
automatically if not specified. A command sent with the connection runs at
startup, e.g. "ssh -t host -p 2222 launch calculator".`,
		Example: `  # Start SSH server on default port
  tuidesk ssh

  # Start on custom port
  tuidesk ssh --port 2222

  # Specify custom host key
  tuidesk ssh --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(sshHost, sshPort, sshKeyPath)
		},
	}

	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	rootCmd.AddCommand(sshCmd, configCommand(), keybindsCommand(), toolsCommand())

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
