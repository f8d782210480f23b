package event

import (
	"log/slog"
	"sync"
	"synaptik/errors"
)

// crashLoopRestarts is the restart count from which a worker is considered stuck.
const crashLoopRestarts = 3

// WorkerRestartedAfterPanicHandler keeps the restart total in the shared counter and
// one tally per worker, so a single crash-looping worker stands out in the logs.
type WorkerRestartedAfterPanicHandler struct {
	log     *slog.Logger
	counter *Counter

	mu       sync.Mutex
	byWorker map[string]int
}

func NewWorkerRestartedAfterPanicHandler(log *slog.Logger, counter *Counter) *WorkerRestartedAfterPanicHandler {
	return &WorkerRestartedAfterPanicHandler{log: log, counter: counter, byWorker: make(map[string]int)}
}

func (h *WorkerRestartedAfterPanicHandler) Handle(e Event) {
	if e.Type != RestartedAfterPanicType {
		return
	}
	restart, ok := e.Payload.(WorkerRestartedAfterPanic)
	if !ok {
		h.log.Error("Unexpected restart payload", "error", errors.ErrInvalidPayload)
		return
	}
	h.counter.Increment(RestartedAfterPanicType)

	h.mu.Lock()
	h.byWorker[restart.WorkerName]++
	restarts := h.byWorker[restart.WorkerName]
	h.mu.Unlock()

	attrs := []any{"worker", restart.WorkerName, "restarts", restarts, "total", h.counter.Get(RestartedAfterPanicType)}
	if restarts >= crashLoopRestarts {
		h.log.Error("Worker keeps panicking", attrs...)
		return
	}
	h.log.Warn("Worker restarted after panic", attrs...)
}

// Restarts returns how many times the named worker was restarted.
func (h *WorkerRestartedAfterPanicHandler) Restarts(worker string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.byWorker[worker]
}
