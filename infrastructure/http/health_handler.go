package http

import (
	"context"
	"net/http"
	"synaptik/contract"
	"synaptik/domain/event"
	"synaptik/observability"
	"time"
)

const pingTimeout = 2 * time.Second

// HealthSources are read on every health request. Nil sources are left out of the report.
type HealthSources struct {
	Ping        func(ctx context.Context) error
	Connections func() contract.RegistryStats
	Process     func() event.ProcessStats
	Traffic     func() observability.MonitoringStats
}

type healthReport struct {
	Status      string                         `json:"status"`
	Store       string                         `json:"store"`
	Connections *contract.RegistryStats        `json:"connections,omitempty"`
	Process     *event.ProcessStats            `json:"process,omitempty"`
	Traffic     *observability.MonitoringStats `json:"traffic,omitempty"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Status: "ok", Store: "ok"}
	status := http.StatusOK
	if h.health.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := h.health.Ping(ctx)
		cancel()
		if err != nil {
			h.log.Warn("Store ping failed", "error", err)
			report.Status, report.Store = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.health.Connections != nil {
		stats := h.health.Connections()
		report.Connections = &stats
	}
	if h.health.Process != nil {
		stats := h.health.Process()
		report.Process = &stats
	}
	if h.health.Traffic != nil {
		stats := h.health.Traffic()
		report.Traffic = &stats
	}
	writeJSON(h.log, w, status, report)
}
