package runtime

import (
	"context"
	"log/slog"
	"synaptik/contract"
	"synaptik/domain/event"
)

// EventFanout delivers one outbound event to many connections.
//
// It is best-effort: a sink that refuses the event (full queue, closed connection)
// is logged and skipped, the others still receive it. Consume never blocks, so the
// order in which Deliver is called is the order each connection sees.
type EventFanout struct {
	log *slog.Logger
}

func NewEventFanout(log *slog.Logger) *EventFanout {
	return &EventFanout{log: log}
}

// Deliver returns how many sinks accepted the event.
func (f *EventFanout) Deliver(ctx context.Context, sinks []contract.EventSink, out event.Outbound) int {
	delivered := 0
	for _, sink := range sinks {
		if err := sink.Consume(ctx, out); err != nil {
			f.log.Debug("Event dropped for a connection", "event", out.Name, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}
