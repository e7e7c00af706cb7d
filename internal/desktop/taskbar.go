package desktop

import "slices"

// Button is one task bar entry. Label is the window icon and title.
type Button struct {
	Handle    Handle
	Label     string
	Active    bool
	Minimized bool
}

// TaskAction is an entry of the task button context menu.
type TaskAction int

const (
	TaskRestore TaskAction = iota
	TaskMinimize
	TaskClose
)

// Label returns the menu text for the action.
func (a TaskAction) Label() string {
	switch a {
	case TaskRestore:
		return "还原"
	case TaskMinimize:
		return "最小化"
	case TaskClose:
		return "关闭"
	}
	return ""
}

// TaskBar keeps one button per open window, left to right in open order.
type TaskBar struct {
	buttons []Button
}

// NewTaskBar returns an empty task bar.
func NewTaskBar() *TaskBar {
	return &TaskBar{}
}

func (t *TaskBar) index(h Handle) int {
	return slices.IndexFunc(t.buttons, func(b Button) bool { return b.Handle == h })
}

// Add appends a button for h. A second Add for the same handle relabels it.
func (t *TaskBar) Add(h Handle, label string) {
	if i := t.index(h); i >= 0 {
		t.buttons[i].Label = label
		return
	}
	t.buttons = append(t.buttons, Button{Handle: h, Label: label})
}

// Remove drops the button for h. It reports whether one existed.
func (t *TaskBar) Remove(h Handle) bool {
	i := t.index(h)
	if i < 0 {
		return false
	}
	t.buttons = slices.Delete(t.buttons, i, i+1)
	return true
}

// SetActive marks the button for h pressed or released.
func (t *TaskBar) SetActive(h Handle, active bool) {
	if i := t.index(h); i >= 0 {
		t.buttons[i].Active = active
	}
}

// SetMinimized records whether the window for h is minimized.
func (t *TaskBar) SetMinimized(h Handle, minimized bool) {
	if i := t.index(h); i >= 0 {
		t.buttons[i].Minimized = minimized
	}
}

// Buttons returns a copy of the buttons in display order.
func (t *TaskBar) Buttons() []Button {
	return slices.Clone(t.buttons)
}

// Len returns the number of buttons.
func (t *TaskBar) Len() int {
	return len(t.buttons)
}

// ContextActions returns the context menu entries for a task button.
func ContextActions() []TaskAction {
	return []TaskAction{TaskRestore, TaskMinimize, TaskClose}
}
