//go:build windows

package terminal

import "os/exec"

// ConPTY needs no session setup.
func setSysProcAttr(*exec.Cmd) {}

// ConPTY delivers resizes itself.
func notifyResize(*exec.Cmd) {}
