package observability

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_Rates(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(logs.GetLoggerFromLevel(slog.LevelDebug), time.Second)
	start := mm.lastCheck

	// Given ten frames, four accepted messages, one rejected and one drop
	for range 10 {
		mm.IncrFramesReceived()
	}
	for range 4 {
		mm.IncrMessages(true)
	}
	mm.IncrMessages(false)
	mm.IncrFramesDropped()

	// When two seconds elapsed
	mm.updateStats(start.Add(2 * time.Second))

	// Then rates are per second and totals are kept
	stats := mm.GetLatest()
	req.InDelta(5.0, stats.FramesPerSecond, 0.001)
	req.InDelta(2.0, stats.MessagesPerSecond, 0.001)
	req.Equal(uint64(4), stats.MessagesAccepted)
	req.Equal(uint64(1), stats.MessagesRejected)
	req.Equal(uint64(1), stats.FramesDropped)
	req.Positive(stats.NumGoroutine)
}
