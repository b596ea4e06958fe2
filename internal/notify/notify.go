// Package notify provides Notification Sink implementations: a console
// writer for the CLI, a zap-backed log sink and a fan-out.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"plantdoc/internal/domain"
)

// Console writes one line per notification.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console { return &Console{w: w} }

// Notify writes n as "<marker> <title>: <description>".
func (c *Console) Notify(n domain.Notification) {
	marker := "✔"
	if n.Kind == domain.NotificationDestructive {
		marker = "✖"
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n.Description == "" {
		fmt.Fprintf(c.w, "%s %s\n", marker, n.Title)
		return
	}
	fmt.Fprintf(c.w, "%s %s: %s\n", marker, n.Title, n.Description)
}

// Log records notifications through a zap logger. Destructive notifications
// are logged at warn level.
type Log struct {
	log *zap.Logger
}

// NewLog returns a Log sink.
func NewLog(l *zap.Logger) *Log { return &Log{log: l} }

// Notify logs n.
func (l *Log) Notify(n domain.Notification) {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("kind", n.Kind.String()),
	}
	if n.Kind == domain.NotificationDestructive {
		l.log.Warn("notification", fields...)
		return
	}
	l.log.Info("notification", fields...)
}

// Multi delivers each notification to every sink in order.
type Multi []domain.Notifier

// Notify fans n out.
func (m Multi) Notify(n domain.Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}

// Func adapts a function to domain.Notifier.
type Func func(domain.Notification)

// Notify calls f(n).
func (f Func) Notify(n domain.Notification) { f(n) }

var (
	_ domain.Notifier = (*Console)(nil)
	_ domain.Notifier = (*Log)(nil)
	_ domain.Notifier = Multi(nil)
	_ domain.Notifier = Func(nil)
)
