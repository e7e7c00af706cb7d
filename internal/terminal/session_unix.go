//go:build unix

package terminal

import (
	"os/exec"
	"syscall"
	"time"
)

// setSysProcAttr makes the PTY the controlling terminal of a new session,
// which shells like fish require. Ctty is the child's stdin.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}
}

// notifyResize sends SIGWINCH shortly after a resize so the PTY size has
// settled before the shell asks for it.
func notifyResize(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	process := cmd.Process
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = process.Signal(syscall.SIGWINCH)
	}()
}
