// Package notify carries user-visible notifications out of the
// orchestrator. Failures are reported here rather than propagated into
// the presentation layer.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notification struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	Time  time.Time `json:"time"`
	// Err is the underlying failure for LevelError, if any.
	Err string `json:"err,omitempty"`
}

type Notifier interface {
	Notify(Notification)
}

type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Multi fans a notification out to every non-nil notifier.
func Multi(ns ...Notifier) Notifier {
	return Func(func(n Notification) {
		for _, x := range ns {
			if x != nil {
				x.Notify(n)
			}
		}
	})
}

// Log writes notifications to a zerolog logger, errors at warn level.
func Log(l zerolog.Logger) Notifier {
	return Func(func(n Notification) {
		ev := l.Info()
		if n.Level == LevelError {
			ev = l.Warn()
			if n.Err != "" {
				ev = ev.Str("cause", n.Err)
			}
		}
		ev.Str("level_hint", string(n.Level)).Msg(n.Text)
	})
}

func Info(text string) Notification {
	return Notification{Level: LevelInfo, Text: text, Time: time.Now()}
}

func Success(text string) Notification {
	return Notification{Level: LevelSuccess, Text: text, Time: time.Now()}
}

func Error(text string, err error) Notification {
	n := Notification{Level: LevelError, Text: text, Time: time.Now()}
	if err != nil {
		n.Err = err.Error()
	}
	return n
}

// Recorder keeps every notification; handy in tests and one-shot commands.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
