// Package wire builds the long-lived services from configuration.
package wire

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mithrel/mdslides/internal/config"
	"github.com/mithrel/mdslides/internal/gateway"
	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/internal/orchestrator"
	"github.com/mithrel/mdslides/internal/render"
	"github.com/mithrel/mdslides/internal/themes"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      zerolog.Logger
	Gateway  *gateway.Client
	Themes   *themes.Catalog
	Bus      *notify.Bus
	Renderer *render.Renderer
}

// BuildApp validates cfg and wires dependencies. Logs go to stderr.
func BuildApp(ctx context.Context, cfg *viper.Viper) (*App, error) {
	return BuildAppWithLog(ctx, cfg, os.Stderr)
}

func BuildAppWithLog(ctx context.Context, cfg *viper.Viper, logOut io.Writer) (*App, error) {
	if err := config.CheckConfigValidity(cfg); err != nil {
		return nil, err
	}
	logger := NewLogger(logOut, cfg.GetString("log.level"), cfg.GetString("log.format"))
	gw := gateway.New(config.ResolveBaseURL(cfg),
		gateway.WithTimeout(cfg.GetDuration("http.timeout")),
		gateway.WithLogger(logger.With().Str("component", "gateway").Logger()),
	)
	logger.Debug().Str("base_url", gw.BaseURL()).Str("config", cfg.ConfigFileUsed()).Msg("app wired")
	return &App{
		Cfg:      cfg,
		Log:      logger,
		Gateway:  gw,
		Themes:   themes.NewCatalog(gw, logger.With().Str("component", "themes").Logger()),
		Bus:      notify.NewBus(logger.With().Str("component", "notify").Logger()),
		Renderer: render.New(cfg.GetString("ui.glamour_style"), cfg.GetInt("ui.word_wrap")),
	}, nil
}

// NewLogger builds a zerolog logger; unknown levels fall back to warn.
func NewLogger(out io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// NewSession starts a conversation wired to the app's catalog and
// notifier. Extra options are applied last.
func (a *App) NewSession(n notify.Notifier, opts ...orchestrator.Option) *orchestrator.Session {
	base := []orchestrator.Option{
		orchestrator.WithLogger(a.Log.With().Str("component", "orchestrator").Logger()),
		orchestrator.WithThemes(a.Themes),
		orchestrator.WithDefaultTheme(a.Cfg.GetString("theme.default")),
		orchestrator.WithNotifier(notify.Multi(n, notify.Log(a.Log))),
	}
	return orchestrator.New(a.Gateway, append(base, opts...)...)
}

// Close releases the notification bus.
func (a *App) Close() error { return a.Bus.Close() }
