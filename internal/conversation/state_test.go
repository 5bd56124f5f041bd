package conversation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdslides/pkg/api"
)

func TestAppendPreservesOrder(t *testing.T) {
	s := New()
	for _, c := range []string{"a", "b", "c"} {
		require.NoError(t, s.AppendTurn(s.NewTurn(api.RoleUser, c)))
	}
	turns := s.Turns()
	require.Len(t, turns, 3)
	require.Equal(t, "a", turns[0].Content)
	require.Equal(t, "c", turns[2].Content)
	require.True(t, turns[1].Timestamp.After(turns[0].Timestamp))
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	s := New()
	turn := s.NewTurn(api.RoleUser, "a")
	require.NoError(t, s.AppendTurn(turn))
	err := s.AppendTurn(turn)
	require.ErrorIs(t, err, ErrDuplicateID)
	require.Contains(t, err.Error(), turn.ID)
	require.Equal(t, 1, s.Len())

	require.Error(t, s.AppendTurn(api.ChatTurn{Role: api.RoleUser, Content: "b"}))
	require.Equal(t, 1, s.Len())
}

func TestTurnsIsACopy(t *testing.T) {
	s := New()
	require.NoError(t, s.AppendTurn(s.NewTurn(api.RoleUser, "a")))
	turns := s.Turns()
	turns[0].Content = "mutated"
	require.Equal(t, "a", s.Turns()[0].Content)
}

func TestMostRecentUserTurn(t *testing.T) {
	s := New()
	_, ok := s.MostRecentUserTurn()
	require.False(t, ok)

	require.NoError(t, s.AppendTurn(s.NewTurn(api.RoleAssistant, "welcome")))
	_, ok = s.MostRecentUserTurn()
	require.False(t, ok)

	require.NoError(t, s.AppendTurn(s.NewTurn(api.RoleUser, "A")))
	require.NoError(t, s.AppendTurn(s.NewTurn(api.RoleAssistant, "ok A")))
	require.NoError(t, s.AppendTurn(s.NewTurn(api.RoleUser, "B")))
	require.NoError(t, s.AppendTurn(s.NewTurn(api.RoleAssistant, "ok B")))

	got, ok := s.MostRecentUserTurn()
	require.True(t, ok)
	require.Equal(t, "B", got.Content)
}

func TestConversationIDIsNeverCleared(t *testing.T) {
	s := New()
	require.Empty(t, s.ConversationID())
	s.SetConversationID("conv_1")
	s.SetConversationID("")
	require.Equal(t, "conv_1", s.ConversationID())
	s.SetConversationID("conv_2")
	require.Equal(t, "conv_2", s.ConversationID())
}
