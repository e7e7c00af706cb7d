package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/desktop"
	"github.com/Gaurav-Gosain/tuidesk/internal/ui"
)

// maxFetchBytes caps how much of a response body is kept.
const maxFetchBytes = 4 << 20

// FetchResult is a completed HTTP GET.
type FetchResult struct {
	URL         string
	Status      string
	StatusCode  int
	ContentType string
	Body        []byte
	Truncated   bool
	Elapsed     time.Duration
}

// NormalizeURL adds https:// to a bare host.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// Fetch performs a GET of url. Non-2xx responses are results, not errors.
func Fetch(ctx context.Context, client *http.Client, url string) (FetchResult, error) {
	url = NormalizeURL(url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "tuidesk")
	req.Header.Set("Accept", "application/json, */*;q=0.5")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return FetchResult{}, fmt.Errorf("read body: %w", err)
	}
	res := FetchResult{
		URL:         url,
		Status:      resp.Status,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     time.Since(start),
	}
	if len(body) > maxFetchBytes {
		body = body[:maxFetchBytes]
		res.Truncated = true
	}
	res.Body = body
	return res, nil
}

// FormatBody returns the body for display and the language used to
// highlight it. JSON is indented with two spaces.
func FormatBody(res FetchResult) (string, string) {
	mediaType, _, _ := mime.ParseMediaType(res.ContentType)
	trimmed := bytes.TrimSpace(res.Body)
	isJSON := strings.HasSuffix(mediaType, "json") ||
		(len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed))
	if isJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, trimmed, "", "  "); err == nil {
			return out.String(), "json"
		}
	}
	text := strings.ReplaceAll(string(res.Body), "\r\n", "\n")
	switch {
	case strings.Contains(mediaType, "html"):
		return text, "html"
	case strings.Contains(mediaType, "xml"):
		return text, "xml"
	case strings.Contains(mediaType, "yaml"):
		return text, "yaml"
	}
	return text, ""
}

type fetchDoneMsg struct {
	source string
	result FetchResult
	err    error
}

// fetcherTool issues GET requests and shows the formatted response.
type fetcherTool struct {
	env    Env
	st     styles
	source string
	style  *chroma.Style

	url     field
	loading bool
	cancel  context.CancelFunc
	result  *FetchResult
	lines   [][]span
	scroll  int
	err     string
}

func openFetcher(env Env, arg string) (desktop.Content, error) {
	f := &fetcherTool{
		env:    env,
		st:     newStyles(env.Theme),
		source: uuid.NewString(),
		style:  chromaStyleFor(env.Theme),
	}
	url := arg
	if url == "" {
		url = env.cfg().Tools.FetchURL
	}
	f.url.SetValue(url)
	return desktop.Content{
		Surface: f,
		Menu: []desktop.MenuItem{
			{Label: "获取", Run: f.fetch},
			{Label: "取消", Run: func() tea.Cmd { f.stop(); return nil }},
		},
	}, nil
}

func (f *fetcherTool) fetch() tea.Cmd {
	url := NormalizeURL(f.url.Value())
	if url == "" {
		return Notice(NoticeWarn, "提示", "请输入 URL")
	}
	f.stop()
	ctx, cancel := context.WithCancel(f.env.context())
	f.cancel = cancel
	f.loading = true
	f.err = ""
	client := f.env.httpClient()
	source := f.source
	return func() tea.Msg {
		res, err := Fetch(ctx, client, url)
		return fetchDoneMsg{source: source, result: res, err: err}
	}
}

func (f *fetcherTool) stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.loading = false
}

func (f *fetcherTool) Init() tea.Cmd { return nil }

func (f *fetcherTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		if msg.source != f.source || !f.loading {
			return nil
		}
		f.stop()
		if msg.err != nil {
			f.err = msg.err.Error()
			return errorNotice("获取数据失败: ", msg.err)
		}
		res := msg.result
		f.result = &res
		text, lang := FormatBody(res)
		f.lines = highlightLines(lexerFor(lang, "", text), f.style, text, f.st.text)
		f.scroll = 0
		return status(fmt.Sprintf("%s %s", res.Status, res.URL))
	case desktop.ScrollMsg:
		f.scroll = min(max(f.scroll+msg.Delta*3, 0), max(len(f.lines)-1, 0))
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return f.fetch()
		case "esc":
			f.stop()
		case "up":
			f.scroll = max(f.scroll-1, 0)
		case "down":
			f.scroll = min(f.scroll+1, max(len(f.lines)-1, 0))
		case "pgup":
			f.scroll = max(f.scroll-10, 0)
		case "pgdown":
			f.scroll = min(f.scroll+10, max(len(f.lines)-1, 0))
		default:
			f.url.HandleKey(msg)
		}
	}
	return nil
}

func (f *fetcherTool) Render(buf *ui.Buffer, focused bool) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(f.st.text)
	n := buf.SetString(0, 0, "URL: ", f.st.text)
	f.url.Render(buf, n, 0, w-n, f.st.input, focused)

	buf.Fill(image.Rect(0, 1, w, 2), " ", f.st.header)
	switch {
	case f.loading:
		buf.SetString(0, 1, "正在获取...", f.st.header)
	case f.err != "":
		buf.SetString(0, 1, ui.Truncate(f.err, w), f.st.header)
	case f.result != nil:
		r := f.result
		info := fmt.Sprintf("%s · %s · %s · %s", r.Status, r.ContentType,
			r.Elapsed.Round(time.Millisecond), humanSize(int64(len(r.Body))))
		if r.Truncated {
			info += " (已截断)"
		}
		buf.SetString(0, 1, ui.Truncate(info, w), f.st.header)
	default:
		buf.SetString(0, 1, "按 Enter 获取", f.st.header)
	}

	for y := 2; y < h; y++ {
		i := f.scroll + y - 2
		if i >= len(f.lines) {
			break
		}
		drawSpans(buf, 0, y, w, 0, f.lines[i])
	}
}

func (f *fetcherTool) Close() error {
	f.stop()
	return nil
}
