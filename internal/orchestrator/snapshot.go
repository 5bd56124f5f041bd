package orchestrator

import "github.com/mithrel/mdslides/pkg/api"

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	Turns          []api.ChatTurn
	ConversationID string
	Deck           string
	SelectedTheme  string
	PreviewVisible bool
	Phase          Phase
}

func (s Snapshot) HasDeck() bool { return s.Deck != "" }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Turns:          s.state.Turns(),
		ConversationID: s.state.ConversationID(),
		Deck:           s.deck,
		SelectedTheme:  s.selectedTheme,
		PreviewVisible: s.previewVisible,
		Phase:          s.phase,
	}
}

// Deck returns CurrentDeck and whether one exists.
func (s *Session) Deck() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck, s.deck != ""
}

func (s *Session) SelectedTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTheme
}

func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ConversationID()
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == Busy
}

func (s *Session) MostRecentUserTurn() (api.ChatTurn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.MostRecentUserTurn()
}

// TogglePreview flips preview visibility and returns the new value.
func (s *Session) TogglePreview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewVisible = !s.previewVisible
	return s.previewVisible
}
