package api

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message of a conversation. Turns are immutable once
// appended to a log.
type ChatTurn struct {
	ID              string    `json:"id"`
	Role            Role      `json:"role"`
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	SlidesHTML      string    `json:"slides_html,omitempty"`
	ThemeSuggestion string    `json:"theme_suggestion,omitempty"`
}

// HasDeck reports whether the turn carries a rendered deck.
func (t ChatTurn) HasDeck() bool { return t.SlidesHTML != "" }

type Theme struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Background     string `json:"background"`
	FontFamily     string `json:"font_family"`
}

// DefaultThemeKey is the baseline theme applied before any explicit selection.
const DefaultThemeKey = "professional"

// Wire types of the slide backend.

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Message         string `json:"message"`
	SlidesHTML      string `json:"slides_html,omitempty"`
	ThemeSuggestion string `json:"theme_suggestion,omitempty"`
	ConversationID  string `json:"conversation_id"`
}

type GenerateRequest struct {
	Markdown string `json:"markdown"`
	Theme    string `json:"theme"`
}

type GenerateResponse struct {
	HTML        string `json:"html"`
	ThemeUsed   string `json:"theme_used,omitempty"`
	SlidesCount int    `json:"slides_count,omitempty"`
}

// ThemesResponse is keyed by theme key; the key is not repeated in the body.
type ThemesResponse struct {
	Themes map[string]Theme `json:"themes"`
}

// Status is the backend's self description. Raw keeps every field the
// backend sent, including ones not mapped here.
type Status struct {
	Message   string         `json:"message,omitempty"`
	Status    string         `json:"status,omitempty"`
	AIEnabled bool           `json:"openai_enabled"`
	Mode      string         `json:"mode"`
	Raw       map[string]any `json:"-"`
}

type DemoContent struct {
	Markdown    string `json:"markdown"`
	Description string `json:"description,omitempty"`
}
