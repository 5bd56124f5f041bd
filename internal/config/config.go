package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const appName = "mdslides"

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence:
// defaults < file < .env < environment. Flags are bound by the caller.
func Load(ctx context.Context, v *viper.Viper) error {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(explicit && os.IsNotExist(errors.Cause(err))) {
			return errors.Wrap(err, "read config")
		}
	}

	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// godotenv never overrides variables already present in the environment.
	if f := strings.TrimSpace(v.GetString("env_file")); f != "" {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "load %s", f)
		}
	}
	return nil
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

// ResolveBaseURL picks api_url, then origin, then DefaultBaseURL, without
// trailing slashes.
func ResolveBaseURL(v *viper.Viper) string {
	for _, k := range []string{"api_url", "origin"} {
		if s := strings.TrimRight(strings.TrimSpace(v.GetString(k)), "/"); s != "" {
			return s
		}
	}
	return DefaultBaseURL
}

// CheckConfigValidity reports every problem found in one error.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, k := range []string{"api_url", "origin"} {
		s := strings.TrimSpace(v.GetString(k))
		if s == "" {
			continue
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("%s is not a valid http(s) url", k)
		}
	}
	if d := v.GetDuration("http.timeout"); d <= 0 {
		add("http.timeout must be greater than 0")
	}
	if strings.TrimSpace(v.GetString("theme.default")) == "" {
		add("theme.default is required")
	}
	if v.GetInt("ui.word_wrap") <= 0 {
		add("ui.word_wrap must be greater than 0")
	}
	if strings.TrimSpace(v.GetString("export.path")) == "" {
		add("export.path is required")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log.level"))); err != nil {
		add("log.level %q is unknown", v.GetString("log.level"))
	}
	switch v.GetString("log.format") {
	case "console", "json":
	default:
		add("log.format must be console or json")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config: " + strings.Join(problems, "; "))
}
