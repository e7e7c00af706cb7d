// Package sysinfo samples CPU, memory and process data for the status bar
// and the task manager.
package sysinfo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// HistorySize is the number of CPU samples the graph shows.
const HistorySize = 10

// Snapshot is one system-wide sample.
type Snapshot struct {
	CPU        float64
	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64
}

// Monitor keeps recent CPU samples for the status bar graph.
type Monitor struct {
	mu      sync.Mutex
	history []float64
	last    Snapshot
}

// Sample reads CPU usage since the previous call and current memory use.
// The first CPU reading after start is 0.
func (m *Monitor) Sample(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return snap, fmt.Errorf("cpu percent: %w", err)
	}
	if len(pct) > 0 {
		snap.CPU = min(max(pct[0], 0), 100)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return snap, fmt.Errorf("virtual memory: %w", err)
	}
	snap.MemUsed, snap.MemTotal, snap.MemPercent = vm.Used, vm.Total, vm.UsedPercent
	m.Record(snap)
	return snap, nil
}

// Record appends a sample to the history.
func (m *Monitor) Record(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) >= HistorySize {
		m.history = m.history[1:]
	}
	m.history = append(m.history, s.CPU)
	m.last = s
}

// Last returns the most recent sample.
func (m *Monitor) Last() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

var bars = []rune("▁▂▃▄▅▆▇█")

// Graph renders the history as a fixed-width bar graph with the current
// percentage, padded on the left until the history fills.
func (m *Monitor) Graph(ascii bool) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	b.WriteString("CPU:")
	b.WriteString(strings.Repeat(" ", HistorySize-len(m.history)))
	for _, usage := range m.history {
		level := min(int(usage/12.5), len(bars)-1)
		if ascii {
			b.WriteByte(" .:-=+*#"[level])
			continue
		}
		b.WriteRune(bars[level])
	}
	current := 0.0
	if n := len(m.history); n > 0 {
		current = m.history[n-1]
	}
	fmt.Fprintf(&b, " %3.0f%%", current)
	return b.String()
}

// Process is one row of the process table.
type Process struct {
	PID  int32
	Name string
	User string
	CPU  float64
	RSS  uint64
}

// Processes lists running processes. Entries that vanish while being
// read are skipped.
func Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		row := Process{PID: p.Pid, Name: name}
		row.User, _ = p.UsernameWithContext(ctx)
		row.CPU, _ = p.CPUPercentWithContext(ctx)
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			row.RSS = mi.RSS
		}
		out = append(out, row)
	}
	return out, nil
}

// SortKey orders the process table.
type SortKey int

const (
	SortCPU SortKey = iota
	SortMemory
	SortPID
	SortName
)

// Label is the column name shown for the key.
func (k SortKey) Label() string {
	switch k {
	case SortMemory:
		return "内存"
	case SortPID:
		return "PID"
	case SortName:
		return "名称"
	}
	return "CPU"
}

// Next cycles to the following key.
func (k SortKey) Next() SortKey {
	return (k + 1) % 4
}

// Sort orders procs in place: CPU and memory descending, PID and name
// ascending. Ties fall back to PID.
func Sort(procs []Process, key SortKey) {
	slices.SortStableFunc(procs, func(a, b Process) int {
		var c int
		switch key {
		case SortCPU:
			c = cmp.Compare(b.CPU, a.CPU)
		case SortMemory:
			c = cmp.Compare(b.RSS, a.RSS)
		case SortName:
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.PID, b.PID)
	})
}

// Kill terminates the process with pid.
func Kill(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("process %d: %w", pid, err)
	}
	if err := p.KillWithContext(ctx); err != nil {
		return fmt.Errorf("kill %d: %w", pid, err)
	}
	return nil
}
