package notify

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

const topic = "notifications"

// Bus is a Notifier that publishes onto an in-process pub/sub so a UI
// running its own event loop can subscribe.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    zerolog.Logger
}

func NewBus(l zerolog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, newWatermillLogger(l)),
		log:    l,
	}
}

func (b *Bus) Notify(n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		b.log.Warn().Err(err).Msg("notify: marshal failed")
		return
	}
	if err := b.pubsub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		b.log.Warn().Err(err).Msg("notify: publish failed")
	}
}

// Subscribe streams notifications until ctx is done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Notification, error) {
	msgs, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}
	out := make(chan Notification, 16)
	go func() {
		defer close(out)
		for msg := range msgs {
			msg.Ack()
			var n Notification
			if err := json.Unmarshal(msg.Payload, &n); err != nil {
				b.log.Warn().Err(err).Msg("notify: bad payload")
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error { return b.pubsub.Close() }

// watermillLogger maps watermill's logger onto zerolog; info is demoted to
// debug because watermill is chatty.
type watermillLogger struct {
	logger zerolog.Logger
}

func newWatermillLogger(l zerolog.Logger) watermill.LoggerAdapter {
	return &watermillLogger{logger: l}
}

func (w *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.logger.Error().Fields(map[string]any(fields)).Err(err).Msg(msg)
}

func (w *watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (w *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (w *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.logger.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (w *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{logger: w.logger.With().Fields(map[string]any(fields)).Logger()}
}
