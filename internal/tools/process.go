package tools

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// process is a child whose stdout and stderr are merged into one stream.
type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	output *io.PipeReader
	done   chan struct{}

	mu      sync.Mutex
	waitErr error
	killed  bool
}

// startProcess runs name with args. Output must be drained through
// Output until it returns an error.
func startProcess(dir, name string, args ...string) (*process, error) {
	// #nosec G204 - tools run user configured programs
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	p := &process{cmd: cmd, stdin: stdin, output: pr, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		_ = pw.Close()
		close(p.done)
	}()
	return p, nil
}

// Output is the merged stdout and stderr stream.
func (p *process) Output() io.Reader {
	return p.output
}

// WriteLine sends line and a newline to stdin.
func (p *process) WriteLine(line string) error {
	if _, err := io.WriteString(p.stdin, line+"\n"); err != nil {
		return fmt.Errorf("write stdin: %w", err)
	}
	return nil
}

// Done is closed once the process has exited.
func (p *process) Done() <-chan struct{} {
	return p.done
}

// Killed reports whether Kill ended the process.
func (p *process) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// Err returns the exit error once Done is closed.
func (p *process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

// Kill signals the process and returns at once. Done is closed when the
// reaper goroutine has collected it.
func (p *process) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	_ = p.stdin.Close()
	if err := p.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill %s: %w", p.cmd.Path, err)
	}
	return nil
}

// runOutput runs a short-lived command and returns its stdout.
func runOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	// #nosec G204 - tools run user configured programs
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
