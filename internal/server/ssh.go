// Package server serves the desktop over SSH. Every session gets its own
// shell, windows and wallpaper.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/activeterm"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/ssh"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
)

// shutdownTimeout bounds how long open sessions get to finish.
const shutdownTimeout = 5 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Overrides are applied to the config each session loads.
	Overrides config.Overrides
}

// hostKeyPath returns the configured key path or ~/.ssh/tuidesk_host_key.
func (c *SSHServerConfig) hostKeyPath() (string, error) {
	if c.KeyPath != "" {
		return c.KeyPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "tuidesk_host_key"), nil
}

// StartSSHServer runs the SSH server until ctx is canceled.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	keyPath, err := cfg.hostKeyPath()
	if err != nil {
		return err
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(keyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(cfg.teaHandler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Starting SSH server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("ssh server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down SSH server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// teaHandler builds the shell for one session. Tools started in it stop
// when the session's context ends.
func (c *SSHServerConfig) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Printf("Warning: Failed to load config for SSH session, using defaults: %v", err)
		userConfig = config.DefaultConfig()
	}
	config.ApplyOverrides(c.Overrides, userConfig)

	shell := app.NewShell(app.Options{
		Config:    userConfig,
		Context:   sess.Context(),
		Overrides: c.Overrides,
		Remote:    true,
		Startup:   startupActions(sess.Command()),
	})
	return shell, []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}

// startupActions turns an SSH command line into shell actions:
// "launch calculator editor" opens both tools, anything else is passed
// through as action names, e.g. "tile".
func startupActions(cmd []string) []string {
	action, args := parseSSHCommand(cmd)
	switch action {
	case "":
		return nil
	case "launch", "open":
		out := make([]string, 0, len(args))
		for _, id := range args {
			out = append(out, app.ActionLaunch+":"+id)
		}
		return out
	}
	return append([]string{action}, args...)
}

// parseSSHCommand parses the command sent with the SSH connection.
func parseSSHCommand(cmd []string) (action string, args []string) {
	if len(cmd) == 0 {
		return "", nil
	}
	action = strings.ToLower(cmd[0])
	if len(cmd) > 1 {
		args = cmd[1:]
	}
	return action, args
}
