package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	require.Equal(t, "a\nb", Plain("\r\n a\r\nb \n\n"))
}

func TestRenderKeepsText(t *testing.T) {
	r := New("notty", 40)
	out, err := r.Render("# Title\n\n- point one")
	require.NoError(t, err)
	require.Contains(t, out, "Title")
	require.Contains(t, out, "point one")
	require.Equal(t, 40, r.Width())
}

func TestRenderUnknownStyleFallsBack(t *testing.T) {
	r := New("no-such-style", 0)
	out, err := r.Render("  hello \r\n")
	require.Error(t, err)
	require.Equal(t, "hello", out)
	require.Equal(t, DefaultWidth, r.Width())
}
