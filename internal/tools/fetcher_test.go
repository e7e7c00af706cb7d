package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"api.github.com", "https://api.github.com"},
		{"  http://localhost:8080/x ", "http://localhost:8080/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchPrettyPrintsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "tuidesk" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"name":"tuidesk","tags":["a","b"]}`))
	}))
	defer srv.Close()

	res, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.StatusCode)
	}
	text, lang := FormatBody(res)
	if lang != "json" {
		t.Errorf("lang = %q, want json", lang)
	}
	want := "{\n  \"name\": \"tuidesk\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}"
	if text != want {
		t.Errorf("body =\n%s\nwant\n%s", text, want)
	}
}

func TestFetchKeepsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("a 404 is a result, got error %v", err)
	}
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", res.StatusCode)
	}
	if text, lang := FormatBody(res); lang != "" || !strings.Contains(text, "nope") {
		t.Errorf("FormatBody = %q, %q", text, lang)
	}
}

func TestFetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, srv.Client(), srv.URL); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestFormatBodySniffsJSON(t *testing.T) {
	res := FetchResult{ContentType: "text/plain", Body: []byte(" [1,2] ")}
	text, lang := FormatBody(res)
	if lang != "json" || text != "[\n  1,\n  2\n]" {
		t.Errorf("FormatBody = %q, %q", text, lang)
	}
	res = FetchResult{ContentType: "text/html", Body: []byte("<p>hi</p>")}
	if _, lang := FormatBody(res); lang != "html" {
		t.Errorf("html lang = %q", lang)
	}
}

func TestFetcherToolFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	content, err := openFetcher(Env{HTTPClient: srv.Client()}, srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	f := content.Surface.(*fetcherTool)
	cmd := f.fetch()
	if !f.loading {
		t.Error("fetch should mark the tool loading")
	}
	f.Update(cmd())
	if f.loading || f.result == nil {
		t.Fatalf("loading = %v, result = %v", f.loading, f.result)
	}
	if len(f.lines) != 3 {
		t.Errorf("got %d highlighted lines, want 3", len(f.lines))
	}
}
