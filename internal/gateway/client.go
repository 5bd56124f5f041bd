// Package gateway is the only channel between the client and the slide
// backend. Every operation is one JSON request/response pair; there are no
// retries and no caching at this layer.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mithrel/mdslides/pkg/api"
)

// DefaultTimeout bounds a single exchange when no http.Client is supplied.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// SendMessage posts a chat message. conversation_id is omitted when empty.
func (c *Client) SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	var out api.ChatResponse
	if strings.TrimSpace(req.Message) == "" {
		return out, &ValidationError{Op: OpSendMessage, Field: "message"}
	}
	err := c.do(ctx, OpSendMessage, http.MethodPost, "/chat", req, &out)
	return out, err
}

// GenerateSlides renders markdown under the given theme.
func (c *Client) GenerateSlides(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error) {
	var out api.GenerateResponse
	if strings.TrimSpace(req.Markdown) == "" {
		return out, &ValidationError{Op: OpGenerateSlides, Field: "markdown"}
	}
	if strings.TrimSpace(req.Theme) == "" {
		return out, &ValidationError{Op: OpGenerateSlides, Field: "theme"}
	}
	err := c.do(ctx, OpGenerateSlides, http.MethodPost, "/generate-slides", req, &out)
	return out, err
}

// FetchThemes returns the catalog with each Theme's Key filled from its map key.
func (c *Client) FetchThemes(ctx context.Context) (map[string]api.Theme, error) {
	var out api.ThemesResponse
	if err := c.do(ctx, OpFetchThemes, http.MethodGet, "/themes", nil, &out); err != nil {
		return nil, err
	}
	themes := make(map[string]api.Theme, len(out.Themes))
	for k, t := range out.Themes {
		t.Key = k
		themes[k] = t
	}
	return themes, nil
}

// FetchStatus returns the backend status; unknown fields are kept in Raw.
func (c *Client) FetchStatus(ctx context.Context) (api.Status, error) {
	var raw map[string]any
	if err := c.do(ctx, OpFetchStatus, http.MethodGet, "/api/", nil, &raw); err != nil {
		return api.Status{}, err
	}
	st := api.Status{Raw: raw}
	st.Message, _ = raw["message"].(string)
	st.Status, _ = raw["status"].(string)
	st.Mode, _ = raw["mode"].(string)
	// the backend reports a missing key as null
	st.AIEnabled, _ = raw["openai_enabled"].(bool)
	return st, nil
}

func (c *Client) FetchDemo(ctx context.Context) (api.DemoContent, error) {
	var out api.DemoContent
	err := c.do(ctx, OpFetchDemo, http.MethodGet, "/demo", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: errors.Wrap(err, "encode request")}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("gateway: transport failure")
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Str("op", op).Int("status", resp.StatusCode).Msg("gateway: non-success status")
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: errors.New(errorText(respBody, resp.Status))}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "decode response")}
	}
	c.log.Debug().Str("op", op).Dur("took", time.Since(start)).Msg("gateway: ok")
	return nil
}

// errorText prefers a FastAPI style {"detail": ...} message over the raw body.
func errorText(body []byte, status string) string {
	var detail struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil {
		if s, ok := detail.Detail.(string); ok && s != "" {
			return s
		}
	}
	s := strings.TrimSpace(string(body))
	if s == "" {
		return status
	}
	if len(s) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
