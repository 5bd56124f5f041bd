// Package orchestrator decides when a deck is produced (Send) and when it
// is re-themed (Regenerate), and reconciles session state with the
// gateway's responses. At most one generation request is in flight.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mithrel/mdslides/internal/conversation"
	"github.com/mithrel/mdslides/internal/gateway"
	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/pkg/api"
)

// ErrBusy rejects a Send or Regenerate issued while another one is unresolved.
var ErrBusy = errors.New("orchestrator: a generation request is already in flight")

// ErrUnknownTheme rejects a theme key missing from a loaded catalog.
var ErrUnknownTheme = errors.New("orchestrator: unknown theme")

// WelcomeText seeds new sessions when the welcome turn is enabled.
const WelcomeText = "Hi! I'm your Markdown-to-Slides Agent. Paste your markdown content and I'll convert it into slides with theme suggestions!"

// Gateway is the slice of the API gateway the orchestrator drives.
type Gateway interface {
	SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error)
	GenerateSlides(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error)
}

// Themes resolves theme keys; *themes.Catalog satisfies it.
type Themes interface {
	Get(key string) (api.Theme, bool)
	Keys() []string
	Loaded() bool
}

type Phase int

const (
	Idle Phase = iota
	Busy
)

func (p Phase) String() string {
	if p == Busy {
		return "busy"
	}
	return "idle"
}

// Session is one conversation with the backend. Construct one per user
// session and hand it to the presentation layer; nothing is global.
type Session struct {
	id       string
	gw       Gateway
	themes   Themes
	notifier notify.Notifier
	log      zerolog.Logger

	mu             sync.Mutex
	state          *conversation.State
	phase          Phase
	deck           string
	selectedTheme  string
	previewVisible bool
}

type Option func(*Session)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithThemes(t Themes) Option {
	return func(s *Session) { s.themes = t }
}

// WithDefaultTheme sets the baseline SelectedThemeKey.
func WithDefaultTheme(key string) Option {
	return func(s *Session) {
		if strings.TrimSpace(key) != "" {
			s.selectedTheme = key
		}
	}
}

// WithWelcome seeds the log with one assistant turn.
func WithWelcome(text string) Option {
	return func(s *Session) {
		if text == "" {
			return
		}
		_ = s.state.AppendTurn(s.state.NewTurn(api.RoleAssistant, text))
	}
}

// WithConversationID resumes a backend conversation.
func WithConversationID(id string) Option {
	return func(s *Session) { s.state.SetConversationID(id) }
}

func New(gw Gateway, opts ...Option) *Session {
	s := &Session{
		id:            uuid.NewString(),
		gw:            gw,
		notifier:      notify.Discard,
		log:           zerolog.Nop(),
		state:         conversation.New(),
		selectedTheme: api.DefaultThemeKey,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("session", s.id).Logger()
	return s
}

func (s *Session) ID() string { return s.id }

// tryAcquire moves Idle -> Busy; it fails if a request is already out.
func (s *Session) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Busy {
		return false
	}
	s.phase = Busy
	return true
}

// release returns to Idle unconditionally.
func (s *Session) release() {
	s.mu.Lock()
	s.phase = Idle
	s.mu.Unlock()
}

// Send appends the user's turn, exchanges it with the backend and appends
// the assistant's reply. On gateway failure the user turn stays in the log,
// the deck is untouched and an error notification is raised.
func (s *Session) Send(ctx context.Context, text string) (api.ChatTurn, error) {
	if strings.TrimSpace(text) == "" {
		return api.ChatTurn{}, &gateway.ValidationError{Op: gateway.OpSendMessage, Field: "message"}
	}
	if !s.tryAcquire() {
		s.log.Debug().Msg("send rejected: busy")
		return api.ChatTurn{}, ErrBusy
	}
	defer s.release()

	s.mu.Lock()
	user := s.state.NewTurn(api.RoleUser, text)
	err := s.state.AppendTurn(user)
	convID := s.state.ConversationID()
	s.mu.Unlock()
	if err != nil {
		return api.ChatTurn{}, err
	}

	start := time.Now()
	resp, err := s.gw.SendMessage(ctx, api.ChatRequest{Message: text, ConversationID: convID})
	if err != nil {
		s.log.Warn().Err(err).Dur("took", time.Since(start)).Msg("send failed")
		s.notifier.Notify(notify.Error("Failed to process your message. Please try again.", err))
		return api.ChatTurn{}, err
	}

	s.mu.Lock()
	reply := s.state.NewTurn(api.RoleAssistant, resp.Message)
	reply.SlidesHTML = resp.SlidesHTML
	reply.ThemeSuggestion = resp.ThemeSuggestion
	err = s.state.AppendTurn(reply)
	s.state.SetConversationID(resp.ConversationID)
	if resp.SlidesHTML != "" {
		s.deck = resp.SlidesHTML
		s.previewVisible = true
	}
	s.mu.Unlock()
	if err != nil {
		return api.ChatTurn{}, err
	}

	s.log.Debug().
		Str("conversation", resp.ConversationID).
		Bool("deck", resp.SlidesHTML != "").
		Dur("took", time.Since(start)).
		Msg("send ok")
	if resp.SlidesHTML != "" {
		s.notifier.Notify(notify.Success("Slides generated successfully!"))
	}
	if resp.ThemeSuggestion != "" {
		s.notifier.Notify(notify.Info("Theme suggestion: " + resp.ThemeSuggestion))
	}
	return reply, nil
}

// Regenerate re-renders the most recent user markdown under themeKey. It
// returns false without a network call when there is no deck or no user
// turn to work from. On failure deck and selected theme stay as they were.
func (s *Session) Regenerate(ctx context.Context, themeKey string) (bool, error) {
	s.mu.Lock()
	if s.deck == "" {
		s.mu.Unlock()
		return false, nil
	}
	if s.phase == Busy {
		s.mu.Unlock()
		s.log.Debug().Msg("regenerate rejected: busy")
		return false, ErrBusy
	}
	source, ok := s.state.MostRecentUserTurn()
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	if strings.TrimSpace(themeKey) == "" {
		s.mu.Unlock()
		return false, &gateway.ValidationError{Op: gateway.OpGenerateSlides, Field: "theme"}
	}
	if s.themes != nil && s.themes.Loaded() {
		if _, known := s.themes.Get(themeKey); !known {
			s.mu.Unlock()
			return false, errors.Wrapf(ErrUnknownTheme, "%q", themeKey)
		}
	}
	s.phase = Busy
	s.mu.Unlock()
	defer s.release()

	start := time.Now()
	resp, err := s.gw.GenerateSlides(ctx, api.GenerateRequest{Markdown: source.Content, Theme: themeKey})
	if err == nil && resp.HTML == "" {
		err = &gateway.Error{Op: gateway.OpGenerateSlides, Err: errors.New("empty deck in response")}
	}
	if err != nil {
		s.log.Warn().Err(err).Str("theme", themeKey).Dur("took", time.Since(start)).Msg("regenerate failed")
		s.notifier.Notify(notify.Error("Failed to regenerate slides.", err))
		return false, err
	}

	s.mu.Lock()
	s.deck = resp.HTML
	s.selectedTheme = themeKey
	s.mu.Unlock()

	s.log.Debug().Str("theme", themeKey).Dur("took", time.Since(start)).Msg("regenerate ok")
	s.notifier.Notify(notify.Success(fmt.Sprintf("Slides regenerated with %s theme!", s.themeName(themeKey))))
	return true, nil
}

// ReconcileTheme keeps SelectedThemeKey inside a loaded catalog. A key the
// catalog lacks is replaced by the baseline key, or by the first catalog
// key when the baseline is missing too. It returns the selected key.
func (s *Session) ReconcileTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.themes == nil || !s.themes.Loaded() {
		return s.selectedTheme
	}
	if _, ok := s.themes.Get(s.selectedTheme); ok {
		return s.selectedTheme
	}
	next := api.DefaultThemeKey
	if _, ok := s.themes.Get(next); !ok {
		keys := s.themes.Keys()
		if len(keys) == 0 {
			return s.selectedTheme
		}
		next = keys[0]
	}
	s.log.Info().Str("from", s.selectedTheme).Str("to", next).Msg("selected theme not in catalog")
	s.selectedTheme = next
	return next
}

func (s *Session) themeName(key string) string {
	if s.themes != nil {
		if t, ok := s.themes.Get(key); ok && t.Name != "" {
			return t.Name
		}
	}
	return key
}
