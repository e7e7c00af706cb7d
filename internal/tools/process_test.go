package tools

import (
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestProcessKillReturnsBeforeReap(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}

	// The background sleep keeps the output pipe open after sh dies, so
	// the child is only reaped once WaitDelay expires.
	p, err := startProcess("", "sh", "-c", "sleep 3 & wait")
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if err := p.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Kill blocked for %v", elapsed)
	}
	if !p.Killed() {
		t.Error("Killed() = false after Kill")
	}

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process was never reaped")
	}
	if err := p.Kill(); err != nil {
		t.Errorf("second Kill: %v", err)
	}
}
