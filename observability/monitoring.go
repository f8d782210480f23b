package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MonitoringStats aggregates the chat traffic metrics exposed by the health endpoint.
type MonitoringStats struct {
	FramesPerSecond   float64 `json:"frames_per_second"`
	MessagesPerSecond float64 `json:"messages_per_second"`
	FramesReceived    uint64  `json:"frames_received"`
	MessagesAccepted  uint64  `json:"messages_accepted"`
	MessagesRejected  uint64  `json:"messages_rejected"`
	FramesDropped     uint64  `json:"frames_dropped"`
	AllocMemMb        uint64  `json:"alloc_mem_mb"`
	NumGC             uint32  `json:"num_gc"`
	NumGoroutine      int     `json:"num_goroutine"`
}

// MonitoringManager counts traffic with atomics on the hot path and folds them
// into a snapshot once per interval.
type MonitoringManager struct {
	log         *slog.Logger
	interval    time.Duration
	mu          sync.RWMutex
	latestStats MonitoringStats

	framesReceived   atomic.Uint64
	messagesAccepted atomic.Uint64
	messagesRejected atomic.Uint64
	framesDropped    atomic.Uint64

	lastFrames   uint64
	lastMessages uint64
	lastCheck    time.Time
}

func NewMonitoringManager(log *slog.Logger, interval time.Duration) *MonitoringManager {
	return &MonitoringManager{log: log, interval: interval, lastCheck: time.Now()}
}

func (mm *MonitoringManager) IncrFramesReceived() {
	mm.framesReceived.Add(1)
}

// IncrMessages records the outcome of one send.
func (mm *MonitoringManager) IncrMessages(accepted bool) {
	if accepted {
		mm.messagesAccepted.Add(1)
		return
	}
	mm.messagesRejected.Add(1)
}

func (mm *MonitoringManager) IncrFramesDropped() {
	mm.framesDropped.Add(1)
}

// Run refreshes the snapshot every interval until ctx is done.
func (mm *MonitoringManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(mm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			mm.log.Debug("Monitoring manager stopped")
			return nil
		case <-ticker.C:
			mm.updateStats(time.Now())
		}
	}
}

func (mm *MonitoringManager) updateStats(now time.Time) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	frames := mm.framesReceived.Load()
	messages := mm.messagesAccepted.Load()
	if duration := now.Sub(mm.lastCheck).Seconds(); duration > 0 {
		mm.latestStats.FramesPerSecond = float64(frames-mm.lastFrames) / duration
		mm.latestStats.MessagesPerSecond = float64(messages-mm.lastMessages) / duration
	}
	mm.lastFrames, mm.lastMessages, mm.lastCheck = frames, messages, now

	mm.latestStats.FramesReceived = frames
	mm.latestStats.MessagesAccepted = messages
	mm.latestStats.MessagesRejected = mm.messagesRejected.Load()
	mm.latestStats.FramesDropped = mm.framesDropped.Load()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	mm.latestStats.NumGC = m.NumGC
	mm.latestStats.NumGoroutine = runtime.NumGoroutine()
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}
