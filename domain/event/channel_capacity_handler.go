package event

import (
	"log/slog"
	"slices"
	"sync"
	"synaptik/errors"
)

// ChannelCapacityHandler follows how much room each sampled queue has left. A queue
// is reported when it enters the low zone and again when it drains, not on every
// sample. A full queue is an error: its producers are dropping work.
type ChannelCapacityHandler struct {
	log       *slog.Logger
	threshold int

	mu  sync.Mutex
	low map[string]bool
}

func NewChannelCapacityHandler(log *slog.Logger, threshold int) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, threshold: threshold, low: make(map[string]bool)}
}

func (h *ChannelCapacityHandler) Handle(e Event) {
	if e.Type != ChannelCapacityType {
		return
	}
	sample, ok := e.Payload.(ChannelCapacity)
	if !ok {
		h.log.Error("Unexpected capacity sample", "error", errors.ErrInvalidPayload)
		return
	}
	// unbuffered queues have no capacity to run out of
	if sample.Capacity <= 0 {
		return
	}
	free := sample.Capacity - sample.Length

	h.mu.Lock()
	wasLow := h.low[sample.ChannelName]
	isLow := free <= h.threshold
	h.low[sample.ChannelName] = isLow
	h.mu.Unlock()

	attrs := []any{"queue", sample.ChannelName, "free", free, "capacity", sample.Capacity}
	switch {
	case free <= 0:
		h.log.Error("Queue full, new jobs are dropped", attrs...)
	case isLow && !wasLow:
		h.log.Warn("Queue running low", attrs...)
	case !isLow && wasLow:
		h.log.Info("Queue drained", attrs...)
	default:
		h.log.Debug("Queue sampled", attrs...)
	}
}

// Low returns the queues whose last sample was at or under the threshold, sorted.
func (h *ChannelCapacityHandler) Low() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var names []string
	for name, low := range h.low {
		if low {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
