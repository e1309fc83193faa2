package notifier

import (
	"fmt"
	"log"
)

// Sink is the platform notification surface. The real platform
// (desktop notification daemon, terminal bell, whatever) lives
// behind this boundary; the notifier only decides what to say.
type Sink interface {
	Post(title, body string) error
}

// ConsoleSink writes notifications to a log writer. The default sink
// for the foreground `workday notify` daemon.
type ConsoleSink struct {
	Logger *log.Logger
}

// Post implements Sink.
func (c *ConsoleSink) Post(title, body string) error {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("🔔 %s — %s", title, body)
	return nil
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(title, body string) error

// Post implements Sink.
func (f SinkFunc) Post(title, body string) error {
	if f == nil {
		return fmt.Errorf("nil sink func")
	}
	return f(title, body)
}
