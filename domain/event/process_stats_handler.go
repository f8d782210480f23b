package event

import (
	"log/slog"
	"sync"
	"synaptik/errors"
)

// ProcessStatsHandler keeps the latest process sample for the health endpoint.
type ProcessStatsHandler struct {
	log    *slog.Logger
	mu     sync.RWMutex
	latest ProcessStats
}

func NewProcessStatsHandler(log *slog.Logger) *ProcessStatsHandler {
	return &ProcessStatsHandler{log: log}
}

func (h *ProcessStatsHandler) Handle(event Event) {
	switch event.Type {
	case ProcessStatsType:
		payload, ok := event.Payload.(ProcessStats)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.mu.Lock()
		h.latest = payload
		h.mu.Unlock()
	}
}

func (h *ProcessStatsHandler) Latest() ProcessStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}
