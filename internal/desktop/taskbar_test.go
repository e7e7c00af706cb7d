package desktop

import "testing"

func TestTaskBarOrderAndRemove(t *testing.T) {
	tb := NewTaskBar()
	tb.Add(1, "📝 文本编辑器")
	tb.Add(2, "⚡ CMD 终端")
	tb.Add(3, "🔢 计算器")

	if !tb.Remove(2) {
		t.Fatal("Remove(2) reported no button")
	}
	if tb.Remove(2) {
		t.Error("second Remove(2) should report false")
	}
	buttons := tb.Buttons()
	if len(buttons) != 2 || buttons[0].Handle != 1 || buttons[1].Handle != 3 {
		t.Errorf("buttons = %+v", buttons)
	}
}

func TestTaskBarAddTwiceRelabels(t *testing.T) {
	tb := NewTaskBar()
	tb.Add(1, "a")
	tb.Add(1, "b")
	if tb.Len() != 1 || tb.Buttons()[0].Label != "b" {
		t.Errorf("buttons = %+v", tb.Buttons())
	}
}

func TestTaskBarFlags(t *testing.T) {
	tb := NewTaskBar()
	tb.Add(1, "a")
	tb.SetActive(1, true)
	tb.SetMinimized(1, true)
	tb.SetActive(42, true)

	b := tb.Buttons()[0]
	if !b.Active || !b.Minimized {
		t.Errorf("button = %+v", b)
	}

	// Buttons returns a copy.
	tb.Buttons()[0].Label = "changed"
	if tb.Buttons()[0].Label != "a" {
		t.Error("Buttons should not expose internal state")
	}
}

func TestContextActions(t *testing.T) {
	want := []string{"还原", "最小化", "关闭"}
	got := ContextActions()
	if len(got) != len(want) {
		t.Fatalf("got %d actions", len(got))
	}
	for i, a := range got {
		if a.Label() != want[i] {
			t.Errorf("action %d = %q, want %q", i, a.Label(), want[i])
		}
	}
}
