package workers

import (
	"context"
	"log/slog"
	"os"
	"synaptik/domain/event"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthMonitoringWorker samples the server process itself (status, CPU, RSS)
// and publishes it as telemetry for the health endpoint.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	telemetryChan  chan event.Event
	metricInterval time.Duration
}

func NewHealthMonitoringWorker(log *slog.Logger, telemetryChan chan event.Event, metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		telemetryChan:  telemetryChan,
		metricInterval: metricInterval,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			stats, err := sampleProcess(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			select {
			case w.telemetryChan <- event.Event{Type: event.ProcessStatsType, CreatedAt: time.Now().UTC(), Payload: stats}:
			default:
				w.log.Debug("Observability telemetry event lost")
			}
		}
	}
}

func sampleProcess(p *process.Process) (event.ProcessStats, error) {
	status, err := p.Status()
	if err != nil {
		return event.ProcessStats{}, err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return event.ProcessStats{}, err
	}
	memory, err := p.MemoryInfo()
	if err != nil {
		return event.ProcessStats{}, err
	}
	return event.ProcessStats{PID: p.Pid, Status: status, CPU: cpu, RSS: memory.RSS}, nil
}
