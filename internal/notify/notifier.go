package notify

import (
	"context"
	"errors"
	"log/slog"
)

// Sink delivers one message to one external channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// Notifier fans a message out to every configured sink and appends it to
// the durable event log. Delivery is fire-and-forget: the returned error
// reports what failed, but callers are allowed to discard it, and a
// failing sink never suppresses the attempts on the others.
type Notifier struct {
	eventLog *EventLog
	sinks    []Sink
	logger   *slog.Logger
}

func NewNotifier(eventLog *EventLog, sinks []Sink, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		eventLog: eventLog,
		sinks:    sinks,
		logger:   logger,
	}
}

func (n *Notifier) Notify(ctx context.Context, text string) error {
	var errs []error

	// The local log is written first so an event survives even when every
	// remote channel is down.
	if n.eventLog != nil {
		if err := n.eventLog.Append(text); err != nil {
			n.logger.Error("failed to append to event log", "error", err)
			errs = append(errs, err)
		}
	}

	for _, sink := range n.sinks {
		if err := sink.Send(ctx, text); err != nil {
			n.logger.Error("notification delivery failed",
				"sink", sink.Name(),
				"error", err,
			)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
