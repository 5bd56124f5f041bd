// Package conversation holds the chat turn log and the backend's
// conversation correlation id.
package conversation

import (
	"time"

	"github.com/pkg/errors"

	"github.com/mithrel/mdslides/pkg/api"
)

var ErrDuplicateID = errors.New("conversation: duplicate turn id")

// State is an append-only, chronologically ordered turn log. It is not
// safe for concurrent use; the orchestrator serializes access.
type State struct {
	turns          []api.ChatTurn
	ids            map[string]struct{}
	conversationID string
	gen            *api.IDGen
}

func New() *State {
	return &State{ids: map[string]struct{}{}, gen: api.NewIDGen()}
}

// NewTurn builds a turn with a fresh id and timestamp. It does not append.
func (s *State) NewTurn(role api.Role, content string) api.ChatTurn {
	id, ts := s.gen.Next()
	return api.ChatTurn{ID: id, Role: role, Content: content, Timestamp: ts}
}

// AppendTurn appends t, rejecting an id already present in the log.
func (s *State) AppendTurn(t api.ChatTurn) error {
	if t.ID == "" {
		return errors.New("conversation: turn id is required")
	}
	if _, ok := s.ids[t.ID]; ok {
		return errors.Wrap(ErrDuplicateID, t.ID)
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	s.ids[t.ID] = struct{}{}
	s.turns = append(s.turns, t)
	return nil
}

// Turns returns a copy of the log.
func (s *State) Turns() []api.ChatTurn {
	return append([]api.ChatTurn(nil), s.turns...)
}

func (s *State) Len() int { return len(s.turns) }

// ConversationID returns the backend token, empty before the first exchange.
func (s *State) ConversationID() string { return s.conversationID }

// SetConversationID stores the backend token. An empty id never clears a
// token once one has been assigned.
func (s *State) SetConversationID(id string) {
	if id == "" {
		return
	}
	s.conversationID = id
}

// MostRecentUserTurn scans the log backwards for the last user turn. O(n).
func (s *State) MostRecentUserTurn() (api.ChatTurn, bool) {
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == api.RoleUser {
			return s.turns[i], true
		}
	}
	return api.ChatTurn{}, false
}
