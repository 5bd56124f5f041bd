// Package backendtest provides a scripted stand-in for the slide backend.
// It records every request so tests can assert on what was (or was not)
// sent over the wire.
package backendtest

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mithrel/mdslides/pkg/api"
)

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Decode unmarshals the recorded body into v.
func (r Request) Decode(v any) error { return json.Unmarshal(r.Body, v) }

type Backend struct {
	mu       sync.Mutex
	requests []Request
	failures map[string]int
	gates    map[string]chan struct{}
	entered  map[string]chan struct{}
	convSeq  int

	Themes map[string]api.Theme
	Status map[string]any
	Demo   api.DemoContent
	// Chat overrides the default /chat behaviour when set.
	Chat func(api.ChatRequest) api.ChatResponse
}

// New returns a backend serving the three stock themes.
func New() *Backend {
	return &Backend{
		failures: map[string]int{},
		gates:    map[string]chan struct{}{},
		entered:  map[string]chan struct{}{},
		Themes:   StockThemes(),
		Status: map[string]any{
			"message":        "Markdown-to-Slides Agent API",
			"status":         "running",
			"openai_enabled": false,
			"mode":           "Demo mode (rule-based responses)",
		},
		Demo: api.DemoContent{
			Markdown:    "# Welcome\n\n## Features\n- one\n- two\n",
			Description: "Demo content",
		},
	}
}

// Start serves b on an httptest server closed at test cleanup.
func Start(t testing.TB) (*Backend, *httptest.Server) {
	t.Helper()
	b := New()
	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)
	return b, srv
}

func StockThemes() map[string]api.Theme {
	return map[string]api.Theme{
		"professional": {Name: "Professional", PrimaryColor: "#2563eb", SecondaryColor: "#64748b", Background: "linear-gradient(135deg, #f8fafc 0%, #e2e8f0 100%)", FontFamily: "Inter, system-ui, sans-serif", Description: "Clean and corporate design with blue accents"},
		"creative":     {Name: "Creative", PrimaryColor: "#7c3aed", SecondaryColor: "#ec4899", Background: "linear-gradient(135deg, #fdf4ff 0%, #fae8ff 100%)", FontFamily: "Poppins, sans-serif", Description: "Vibrant and modern with purple-pink gradients"},
		"minimal":      {Name: "Minimal", PrimaryColor: "#374151", SecondaryColor: "#9ca3af", Background: "#ffffff", FontFamily: "Source Sans Pro, sans-serif", Description: "Clean and simple monochromatic design"},
	}
}

// Router returns an http.Handler with the backend routes registered.
func (b *Backend) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", b.record(http.MethodPost, b.handleChat))
	mux.HandleFunc("/generate-slides", b.record(http.MethodPost, b.handleGenerate))
	mux.HandleFunc("/themes", b.record(http.MethodGet, b.handleThemes))
	mux.HandleFunc("/api/", b.record(http.MethodGet, b.handleStatus))
	mux.HandleFunc("/demo", b.record(http.MethodGet, b.handleDemo))
	return mux
}

// Fail makes every later call to path answer with code until Recover.
func (b *Backend) Fail(path string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = code
}

func (b *Backend) Recover(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, path)
}

// Hold blocks the next calls to path until the returned release is called.
// The entered channel is closed once a request has reached the handler.
func (b *Backend) Hold(path string) (entered <-chan struct{}, release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gate := make(chan struct{})
	in := make(chan struct{})
	b.gates[path] = gate
	b.entered[path] = in
	var once sync.Once
	return in, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.gates, path)
			b.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns the recorded calls to path, oldest first.
func (b *Backend) Requests(path string) []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Request
	for _, r := range b.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// RequestCount counts all recorded calls.
func (b *Backend) RequestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *Backend) record(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requests = append(b.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		code := b.failures[r.URL.Path]
		gate := b.gates[r.URL.Path]
		in := b.entered[r.URL.Path]
		if in != nil {
			delete(b.entered, r.URL.Path)
		}
		b.mu.Unlock()

		if in != nil {
			close(in)
		}
		if gate != nil {
			<-gate
		}
		if code != 0 {
			writeJSON(w, code, map[string]string{"detail": "scripted failure"})
			return
		}
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		next(w, r)
	}
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	custom := b.Chat
	if req.ConversationID == "" {
		b.convSeq++
		req.ConversationID = fmt.Sprintf("conv_%d", b.convSeq)
	}
	b.mu.Unlock()
	if custom != nil {
		writeJSON(w, http.StatusOK, custom(req))
		return
	}
	resp := api.ChatResponse{
		Message:        "Got it.",
		ConversationID: req.ConversationID,
	}
	if strings.Contains(req.Message, "#") {
		resp.Message = "Here are your slides."
		resp.SlidesHTML = RenderDeck(req.Message, "professional")
		resp.ThemeSuggestion = "I suggest the 'Professional' theme: Clean and corporate design with blue accents"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusUnprocessableEntity)
		return
	}
	if req.Markdown == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "No markdown content provided"})
		return
	}
	theme := req.Theme
	if _, ok := b.themes()[theme]; !ok {
		theme = "professional"
	}
	deck := RenderDeck(req.Markdown, theme)
	writeJSON(w, http.StatusOK, api.GenerateResponse{HTML: deck, ThemeUsed: theme, SlidesCount: countHeadings(req.Markdown)})
}

func (b *Backend) handleThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.ThemesResponse{Themes: b.themes()})
}

// SetThemes swaps the catalog served by later /themes calls.
func (b *Backend) SetThemes(t map[string]api.Theme) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Themes = t
}

func (b *Backend) themes() map[string]api.Theme {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Themes
}

func (b *Backend) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Status)
}

func (b *Backend) handleDemo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Demo)
}

// RenderDeck is the deterministic deck the stub returns: one slide
// container per heading line, tagged with the theme.
func RenderDeck(markdown, theme string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>Generated Slides</title></head>")
	sb.WriteString(`<body data-theme="` + html.EscapeString(theme) + `">`)
	n := 0
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "#") {
			n++
			sb.WriteString(`<div class="slide-container"><h1 class="slide-title">`)
			sb.WriteString(html.EscapeString(strings.TrimSpace(strings.TrimLeft(line, "#"))))
			sb.WriteString("</h1></div>")
		}
	}
	if n == 0 {
		sb.WriteString(`<div class="slide-container"><h1 class="slide-title">Presentation</h1></div>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func countHeadings(markdown string) int {
	n := 0
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "#") {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
