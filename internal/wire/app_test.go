package wire

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdslides/internal/backendtest"
	"github.com/mithrel/mdslides/internal/config"
	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/pkg/api"
)

func loaded(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("MDSLIDES_ENV_FILE", "")
	v := viper.New()
	v.SetConfigFile(t.TempDir() + "/none.toml")
	require.NoError(t, config.Load(context.Background(), v))
	return v
}

func TestBuildAppResolvesBaseURL(t *testing.T) {
	v := loaded(t)
	app, err := BuildAppWithLog(context.Background(), v, &bytes.Buffer{})
	require.NoError(t, err)
	defer app.Close()
	require.Equal(t, config.DefaultBaseURL, app.Gateway.BaseURL())
}

func TestBuildAppRejectsInvalidConfig(t *testing.T) {
	v := loaded(t)
	v.Set("log.format", "xml")
	_, err := BuildAppWithLog(context.Background(), v, &bytes.Buffer{})
	require.ErrorContains(t, err, "log.format")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "info", "json")
	l.Debug().Msg("hidden")
	l.Info().Str("k", "v").Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	NewLogger(&buf, "nonsense", "json").Info().Msg("dropped")
	require.Empty(t, buf.String())
}

func TestSessionUsesConfiguredThemeAndBackend(t *testing.T) {
	_, srv := backendtest.Start(t)
	v := loaded(t)
	v.Set("api_url", srv.URL+"/")
	v.Set("theme.default", "minimal")
	var logs bytes.Buffer
	app, err := BuildAppWithLog(context.Background(), v, &logs)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Themes.Load(context.Background()))
	rec := &notify.Recorder{}
	s := app.NewSession(rec)
	require.Equal(t, "minimal", s.SelectedTheme())

	turn, err := s.Send(context.Background(), "# Hello")
	require.NoError(t, err)
	require.Equal(t, api.RoleAssistant, turn.Role)
	require.NotEmpty(t, rec.All())
}
