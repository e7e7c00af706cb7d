package tools

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestAudioFormat(t *testing.T) {
	tests := []struct{ path, want string }{
		{"song.mp3", "MP3"},
		{"/a/b/Track.FLAC", "FLAC"},
		{"x.opus", "OPUS"},
		{"cover.jpg", "未知"},
		{"noext", "未知"},
	}
	for _, tt := range tests {
		if got := audioFormat(tt.path); got != tt.want {
			t.Errorf("audioFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{61*time.Second + 900*time.Millisecond, "01:01"},
		{65 * time.Minute, "65:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPlayerArgs(t *testing.T) {
	got := playerArgs(80, 0, "/m/a.mp3")
	want := []string{"-nodisp", "-autoexit", "-volume", "80", "/m/a.mp3"}
	if !slices.Equal(got, want) {
		t.Errorf("playerArgs = %v, want %v", got, want)
	}
	got = playerArgs(50, 90*time.Second, "/m/a.mp3")
	want = []string{"-nodisp", "-autoexit", "-ss", "90", "-volume", "50", "/m/a.mp3"}
	if !slices.Equal(got, want) {
		t.Errorf("playerArgs with offset = %v, want %v", got, want)
	}
}

func TestScanAudio(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"b.ogg", "a.mp3", "cover.png", "c.WAV"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := scanAudio(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.mp3"), filepath.Join(dir, "b.ogg"), filepath.Join(dir, "c.WAV")}
	if !slices.Equal(got, want) {
		t.Errorf("scanAudio = %v, want %v", got, want)
	}

	if _, err := scanAudio(filepath.Join(dir, "cover.png")); err == nil {
		t.Error("a non-audio file should be rejected")
	}
	if _, err := scanAudio(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Error("a missing file should be an error")
	}
}

func TestFormatProbe(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"codec_type": "video", "codec_name": "mjpeg"},
			{"codec_type": "audio", "codec_name": "mp3", "sample_rate": "44100", "channels": 2}
		],
		"format": {
			"format_long_name": "MP2/3 (MPEG audio layer 2/3)",
			"duration": "215.5",
			"bit_rate": "320000",
			"size": "8620000",
			"tags": {"TITLE": "Song", "artist": "Someone"}
		}
	}`)
	got, err := formatProbe(data)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"格式: MP2/3 (MPEG audio layer 2/3)",
		"时长: 03:35",
		"比特率: 320 kb/s",
		"编码: mp3",
		"采样率: 44100 Hz",
		"声道: 2",
		"title: Song",
		"artist: Someone",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if _, err := formatProbe([]byte("not json")); err == nil {
		t.Error("expected a parse error")
	}
}

func newTestPlayer(paths ...string) *musicTool {
	m := &musicTool{current: -1, volume: 80}
	for _, p := range paths {
		m.tracks = append(m.tracks, track{path: p})
	}
	return m
}

func TestMusicRemoveAdjustsCurrent(t *testing.T) {
	m := newTestPlayer("a.mp3", "b.mp3", "c.mp3")
	m.current = 2
	m.remove(0)
	if m.current != 1 || len(m.tracks) != 2 {
		t.Errorf("current = %d, tracks = %d; want 1, 2", m.current, len(m.tracks))
	}
	m.remove(1)
	if m.current != -1 {
		t.Errorf("removing the current track should clear it, got %d", m.current)
	}
	m.remove(5)
	if len(m.tracks) != 1 {
		t.Errorf("out of range remove changed the list: %d", len(m.tracks))
	}
	m.clear()
	if len(m.tracks) != 0 || m.current != -1 {
		t.Error("clear should empty the playlist")
	}
}

func TestMusicVolumeWhileStopped(t *testing.T) {
	m := newTestPlayer("a.mp3")
	m.setVolume(150)
	if m.volume != 100 {
		t.Errorf("volume = %d, want 100", m.volume)
	}
	m.setVolume(-5)
	if m.volume != 0 {
		t.Errorf("volume = %d, want 0", m.volume)
	}
}
