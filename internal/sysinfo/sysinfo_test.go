package sysinfo

import (
	"context"
	"os"
	"slices"
	"strings"
	"testing"
)

func pids(procs []Process) []int32 {
	out := make([]int32, len(procs))
	for i, p := range procs {
		out[i] = p.PID
	}
	return out
}

func TestSort(t *testing.T) {
	base := []Process{
		{PID: 30, Name: "zsh", CPU: 1, RSS: 300},
		{PID: 10, Name: "Bash", CPU: 5, RSS: 100},
		{PID: 20, Name: "init", CPU: 5, RSS: 200},
	}
	tests := []struct {
		key  SortKey
		want []int32
	}{
		{SortCPU, []int32{10, 20, 30}},
		{SortMemory, []int32{30, 20, 10}},
		{SortPID, []int32{10, 20, 30}},
		{SortName, []int32{10, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.key.Label(), func(t *testing.T) {
			procs := slices.Clone(base)
			Sort(procs, tt.key)
			if got := pids(procs); !slices.Equal(got, tt.want) {
				t.Errorf("Sort(%s) = %v, want %v", tt.key.Label(), got, tt.want)
			}
		})
	}
}

func TestSortKeyCycles(t *testing.T) {
	k := SortCPU
	seen := map[string]bool{}
	for range 4 {
		seen[k.Label()] = true
		k = k.Next()
	}
	if k != SortCPU || len(seen) != 4 {
		t.Errorf("cycle ended at %v after visiting %v", k, seen)
	}
}

func TestGraph(t *testing.T) {
	var m Monitor
	if got := m.Graph(true); got != "CPU:"+strings.Repeat(" ", HistorySize)+"   0%" {
		t.Errorf("empty graph = %q", got)
	}
	m.Record(Snapshot{CPU: 0})
	m.Record(Snapshot{CPU: 50})
	m.Record(Snapshot{CPU: 100})
	want := "CPU:" + strings.Repeat(" ", HistorySize-3) + " =#" + " 100%"
	if got := m.Graph(true); got != want {
		t.Errorf("ascii graph = %q, want %q", got, want)
	}
	if got := m.Graph(false); !strings.Contains(got, "▁▅█") {
		t.Errorf("graph = %q, want bars ▁▅█", got)
	}
	if m.Last().CPU != 100 {
		t.Errorf("last = %v", m.Last())
	}
}

func TestGraphKeepsHistorySize(t *testing.T) {
	var m Monitor
	for i := range HistorySize + 5 {
		m.Record(Snapshot{CPU: float64(i)})
	}
	got := m.Graph(true)
	if n := len([]rune(got)); n != len("CPU:")+HistorySize+len(" 100%") {
		t.Errorf("graph %q has %d runes", got, n)
	}
}

func TestProcessesIncludesSelf(t *testing.T) {
	procs, err := Processes(context.Background())
	if err != nil {
		t.Skipf("process listing unavailable: %v", err)
	}
	self := int32(os.Getpid())
	if !slices.ContainsFunc(procs, func(p Process) bool { return p.PID == self }) {
		t.Errorf("own pid %d missing from %d processes", self, len(procs))
	}
}
