package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func defaults() *viper.Viper {
	v := viper.New()
	applyDefaults(v)
	return v
}

func TestCheckConfigValidityDefaults(t *testing.T) {
	require.NoError(t, CheckConfigValidity(defaults()))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := defaults()
	v.Set("api_url", "not a url")
	v.Set("origin", "ftp://example.com")
	v.Set("http.timeout", "0s")
	v.Set("theme.default", " ")
	v.Set("ui.word_wrap", 0)
	v.Set("log.level", "loud")
	v.Set("log.format", "xml")

	err := CheckConfigValidity(v)
	require.Error(t, err)
	for _, want := range []string{
		"api_url is not a valid http(s) url",
		"origin is not a valid http(s) url",
		"http.timeout must be greater than 0",
		"theme.default is required",
		"ui.word_wrap must be greater than 0",
		`log.level "loud" is unknown`,
		"log.format must be console or json",
	} {
		require.Contains(t, err.Error(), want)
	}
}

func TestResolveBaseURL(t *testing.T) {
	v := defaults()
	require.Equal(t, DefaultBaseURL, ResolveBaseURL(v))

	v.Set("origin", "https://slides.example.com/")
	require.Equal(t, "https://slides.example.com", ResolveBaseURL(v))

	v.Set("api_url", "http://api.internal:9000//")
	require.Equal(t, "http://api.internal:9000", ResolveBaseURL(v))
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("api_url = \"http://from-file:1\"\n[theme]\ndefault = \"minimal\"\n"), 0o600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MDSLIDES_LOG_LEVEL=debug\n"), 0o600))

	t.Setenv("MDSLIDES_ENV_FILE", envFile)
	t.Setenv("MDSLIDES_API_URL", "http://from-env:2")
	// godotenv sets this one; make sure the test owns its lifetime.
	t.Setenv("MDSLIDES_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("MDSLIDES_LOG_LEVEL"))

	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, Load(context.Background(), v))

	require.Equal(t, "http://from-env:2", ResolveBaseURL(v))
	require.Equal(t, "minimal", v.GetString("theme.default"))
	require.Equal(t, "debug", v.GetString("log.level"))
	require.Equal(t, "console", v.GetString("log.format"))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("MDSLIDES_ENV_FILE", "")
	require.NoError(t, Load(context.Background(), v))
	require.Equal(t, "professional", v.GetString("theme.default"))
}

func TestRenderDefaultTOMLRoundTrips(t *testing.T) {
	out := RenderDefaultTOML()
	require.Contains(t, out, "[http]\n")
	require.Contains(t, out, `timeout = "60s"`)
	require.Contains(t, out, "welcome = true")

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	for _, o := range GetConfigOptions() {
		require.True(t, v.IsSet(o.Key), o.Key)
	}
}

func TestUpdateTOML(t *testing.T) {
	existing := "api_url = \"http://x\"\n[log]\nlevel = \"info\"\nflavour = \"spicy\"\n"
	out, changed := UpdateTOML(existing)
	require.True(t, changed)
	require.Contains(t, out, "# OUTDATED: option removed from config schema\n# flavour = \"spicy\"")
	require.Contains(t, out, `level = "info"`)
	require.Equal(t, 1, strings.Count(out, "api_url ="))
	require.Contains(t, out, "[ui]")

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	require.Equal(t, "info", v.GetString("log.level"))
	require.Equal(t, "http://x", v.GetString("api_url"))
	require.True(t, v.IsSet("origin"))

	again, changed := UpdateTOML(out)
	require.False(t, changed)
	require.Equal(t, out, again)
}
