package core

import "log/slog"

// Notifier receives user-facing status strings. Delivery is fire-and-forget.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(msg string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(msg string) { f(msg) }

// IndexListener is called with the refreshed category index after every persisted mutation.
type IndexListener func(categories []string)

// LogNotifier forwards notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(msg string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(msg)
}

type discardNotifier struct{}

func (discardNotifier) Notify(string) {}
