package main

import (
	"testing"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
)

func TestFindCustomizations(t *testing.T) {
	defaults := config.DefaultConfig()
	if got := findCustomizations(config.DefaultConfig(), defaults); len(got) != 0 {
		t.Fatalf("defaults reported as customized: %+v", got)
	}

	user := config.DefaultConfig()
	user.Keybindings.Window["tile"] = []string{"ctrl+t"}
	got := findCustomizations(user, defaults)
	if len(got) != 1 {
		t.Fatalf("got %d customizations, want 1: %+v", len(got), got)
	}
	if got[0].Action != "Tile windows" || got[0].CustomKeys != "ctrl+t" {
		t.Errorf("unexpected customization %+v", got[0])
	}
}

func TestFormatActionName(t *testing.T) {
	if got := formatActionName("quit"); got != "Quit" {
		t.Errorf("formatActionName(quit) = %q", got)
	}
	if got := formatActionName("some_new_action"); got != "some new action" {
		t.Errorf("formatActionName fallback = %q", got)
	}
}
