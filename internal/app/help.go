package app

import (
	"image"

	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// helpLine is one row of the key binding overlay.
type helpLine struct {
	key    string
	desc   string
	header bool
}

// helpLines lists the bindings by section, or the fuzzy matches of the
// search query in rank order.
func (s *Shell) helpLines() []helpLine {
	sections := config.GetKeybindings(s.keys)
	var out []helpLine
	if s.helpQuery == "" {
		for _, sec := range sections {
			out = append(out, helpLine{desc: sec.Title, header: true})
			for _, b := range sec.Bindings {
				out = append(out, helpLine{key: b.Key, desc: b.Description})
			}
		}
		return out
	}

	var all []helpLine
	var targets []string
	for _, sec := range sections {
		for _, b := range sec.Bindings {
			all = append(all, helpLine{key: b.Key, desc: b.Description})
			targets = append(targets, b.Description+" "+b.Key)
		}
	}
	for _, m := range fuzzy.Find(s.helpQuery, targets) {
		out = append(out, all[m.Index])
	}
	return out
}

// helpKey handles typing in the overlay search box. It reports whether
// the key was consumed.
func (s *Shell) helpKey(msg tea.KeyPressMsg) bool {
	key := msg.String()
	if !s.helpSearch {
		if key == "/" {
			s.helpSearch = true
			s.helpQuery = ""
			s.helpScroll = 0
			return true
		}
		return false
	}
	switch key {
	case "esc":
		s.helpSearch = false
		s.helpQuery = ""
	case "enter":
		s.helpSearch = false
	case "backspace":
		if r := []rune(s.helpQuery); len(r) > 0 {
			s.helpQuery = string(r[:len(r)-1])
		}
	default:
		if msg.Text == "" || msg.Mod&^tea.ModShift != 0 {
			return false
		}
		s.helpQuery += msg.Text
	}
	s.helpScroll = 0
	return true
}

// overlayBox is where the help and log views are drawn.
func (s *Shell) overlayBox() image.Rectangle {
	r := s.desktopRect()
	if r.Dx() > 20 && r.Dy() > 8 {
		r = r.Inset(2)
	}
	return r
}

func (s *Shell) drawHelp(buf *ui.Buffer) {
	box := s.overlayBox()
	face := ui.Style{Fg: s.theme.FaceText, Bg: s.theme.Face}
	dim := ui.Style{Fg: s.theme.Dim, Bg: s.theme.Face}
	header := ui.Style{Fg: s.theme.Accent, Bg: s.theme.Face, Bold: true}
	s.drawPanel(buf, box, "快捷键")
	inner := box.Inset(1)
	if inner.Dy() < 3 {
		return
	}

	search := "/ 搜索"
	if s.helpSearch || s.helpQuery != "" {
		search = "搜索: " + s.helpQuery
		if s.helpSearch {
			search += "▏"
		}
	}
	buf.SetString(inner.Min.X+1, inner.Min.Y, ui.Truncate(search, inner.Dx()-2), dim)

	lines := s.helpLines()
	rows := inner.Dy() - 2
	s.helpScroll = min(s.helpScroll, max(len(lines)-rows, 0))
	keyW := 0
	for _, l := range lines {
		if !l.header {
			keyW = max(keyW, ui.StringWidth(l.key))
		}
	}
	keyW = min(keyW, inner.Dx()/2)
	for i := 0; i < rows && s.helpScroll+i < len(lines); i++ {
		l := lines[s.helpScroll+i]
		y := inner.Min.Y + 2 + i
		if l.header {
			buf.SetString(inner.Min.X+1, y, l.desc, header)
			continue
		}
		buf.SetString(inner.Min.X+3, y, ui.Truncate(l.key, keyW), face)
		x := inner.Min.X + 5 + keyW
		buf.SetString(x, y, ui.Truncate(l.desc, max(inner.Max.X-x-1, 0)), dim)
	}
	if len(lines) == 0 {
		buf.SetString(inner.Min.X+1, inner.Min.Y+2, "没有匹配的快捷键", dim)
	}
}
