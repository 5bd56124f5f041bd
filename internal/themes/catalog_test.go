package themes

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdslides/internal/backendtest"
	"github.com/mithrel/mdslides/pkg/api"
)

type stubFetcher struct {
	themes map[string]api.Theme
	err    error
	calls  int
}

func (s *stubFetcher) FetchThemes(context.Context) (map[string]api.Theme, error) {
	s.calls++
	return s.themes, s.err
}

func TestLoadReplacesCatalog(t *testing.T) {
	src := &stubFetcher{themes: backendtest.StockThemes()}
	c := NewCatalog(src, zerolog.Nop())

	require.NoError(t, c.Load(context.Background()))
	require.True(t, c.Loaded())
	require.Equal(t, []string{"creative", "minimal", "professional"}, c.Keys())
	th, ok := c.Get("minimal")
	require.True(t, ok)
	require.Equal(t, "minimal", th.Key)

	src.themes = map[string]api.Theme{"dark": {Name: "Dark"}}
	require.NoError(t, c.Load(context.Background()))
	require.Equal(t, []string{"dark"}, c.Keys(), "reload replaces, never merges")
	require.Equal(t, 2, src.calls)
}

func TestLoadFailureOnEmptyCatalog(t *testing.T) {
	c := NewCatalog(&stubFetcher{err: errors.New("boom")}, zerolog.Nop())

	require.Error(t, c.Load(context.Background()))
	require.False(t, c.Loaded())
	require.Zero(t, c.Len())
	require.Empty(t, c.List())
}

func TestLoadFailureKeepsPrevious(t *testing.T) {
	src := &stubFetcher{themes: backendtest.StockThemes()}
	c := NewCatalog(src, zerolog.Nop())
	require.NoError(t, c.Load(context.Background()))

	src.err = errors.New("boom")
	require.Error(t, c.Load(context.Background()))
	require.Equal(t, 3, c.Len())
}

func TestName(t *testing.T) {
	c := NewCatalog(&stubFetcher{themes: backendtest.StockThemes()}, zerolog.Nop())
	require.NoError(t, c.Load(context.Background()))
	require.Equal(t, "Creative", c.Name("creative"))
	require.Equal(t, "unknown", c.Name("unknown"))
}

func TestMatch(t *testing.T) {
	c := NewCatalog(&stubFetcher{themes: backendtest.StockThemes()}, zerolog.Nop())
	require.NoError(t, c.Load(context.Background()))

	require.Len(t, c.Match("", 0), 3)
	require.Equal(t, []string{"minimal"}, c.MatchKeys("mnml", 1))
	require.Equal(t, "creative", c.Match("Creat", 0)[0].Key)
	require.Empty(t, c.Match("zzzz", 0))
}
