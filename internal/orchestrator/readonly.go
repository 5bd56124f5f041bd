package orchestrator

import (
	"context"

	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/pkg/api"
)

type DemoFetcher interface {
	FetchDemo(ctx context.Context) (api.DemoContent, error)
}

// LoadDemo fetches the demo markdown. It ignores the busy flag: it does
// not touch turns or the deck.
func (s *Session) LoadDemo(ctx context.Context, f DemoFetcher) (string, error) {
	demo, err := f.FetchDemo(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("demo load failed")
		s.notifier.Notify(notify.Error("Failed to load demo content.", err))
		return "", err
	}
	s.notifier.Notify(notify.Success("Demo content loaded! Send it to generate slides."))
	return demo.Markdown, nil
}
