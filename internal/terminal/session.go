// Package terminal runs a shell on a pseudo terminal for the terminal tool.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	xpty "github.com/charmbracelet/x/xpty"
)

// Options configures a shell session.
type Options struct {
	// Shell overrides shell detection when set.
	Shell  string
	Width  int
	Height int
	Dir    string
	// ID is exported to the child as TUIDESK_WINDOW_ID.
	ID string
}

// Session is a shell process attached to a PTY.
type Session struct {
	mu     sync.RWMutex
	pty    xpty.Pty
	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}
	shell  string
}

// ErrClosed is returned by Write after the session was closed.
var ErrClosed = errors.New("session closed")

// Start launches the shell. Output is read with Read until it returns an
// error; Done is closed when the process exits.
func Start(opts Options) (*Session, error) {
	shell := opts.Shell
	if shell == "" {
		shell = DetectShell()
	}
	width, height := max(opts.Width, 1), max(opts.Height, 1)

	// #nosec G204 - the shell is chosen by the user
	cmd := exec.Command(shell)
	cmd.Dir = opts.Dir
	// Output is shown line by line, so ask programs for plain text.
	cmd.Env = append(os.Environ(),
		"TERM=dumb",
		"NO_COLOR=1",
		"TUIDESK_WINDOW_ID="+opts.ID,
	)

	ptyInstance, err := xpty.NewPty(width, height)
	if err != nil {
		return nil, fmt.Errorf("create pty: %w", err)
	}
	setSysProcAttr(cmd)
	if err := ptyInstance.Start(cmd); err != nil {
		_ = ptyInstance.Close()
		return nil, fmt.Errorf("start %s: %w", shell, err)
	}
	// Some PTY implementations only accept a size once the process runs.
	_ = ptyInstance.Resize(width, height)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		pty:    ptyInstance,
		cmd:    cmd,
		cancel: cancel,
		done:   make(chan struct{}),
		shell:  shell,
	}

	go func() {
		defer close(s.done)
		defer func() {
			if r := recover(); r != nil {
				_ = r
			}
		}()
		// xpty.WaitProcess is required for ConPTY on Windows.
		_ = xpty.WaitProcess(ctx, cmd)
	}()

	return s, nil
}

// Shell returns the program the session runs.
func (s *Session) Shell() string {
	return s.shell
}

// Read reads raw output from the PTY.
func (s *Session) Read(p []byte) (int, error) {
	s.mu.RLock()
	pty := s.pty
	s.mu.RUnlock()
	if pty == nil {
		return 0, ErrClosed
	}
	return pty.Read(p)
}

// Write sends input to the shell.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pty == nil {
		return 0, ErrClosed
	}
	n, err := s.pty.Write(p)
	if err != nil {
		return n, fmt.Errorf("write to pty: %w", err)
	}
	return n, nil
}

// Resize changes the PTY size and tells the shell about it.
func (s *Session) Resize(width, height int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pty == nil {
		return ErrClosed
	}
	if err := s.pty.Resize(max(width, 1), max(height, 1)); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	notifyResize(s.cmd)
	return nil
}

// Done is closed when the shell process exits.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close closes the PTY and kills the shell, waiting briefly for it to exit.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.pty == nil {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	err := s.pty.Close()
	s.pty = nil
	s.mu.Unlock()

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		select {
		case <-s.done:
		case <-time.After(500 * time.Millisecond):
		}
	}
	if err != nil {
		return fmt.Errorf("close pty: %w", err)
	}
	return nil
}

// DetectShell picks $SHELL, then the first common shell found.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	if runtime.GOOS == "windows" {
		for _, shell := range []string{"powershell.exe", "pwsh.exe", "cmd.exe"} {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return "cmd.exe"
	}

	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/fish", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}
