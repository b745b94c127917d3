package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	"github.com/fastygo/taskboard/pkg/httpcontext"
)

// HealthReport lists the storage driver and the last probe of each of
// its dependencies.
type HealthReport struct {
	Driver    string          `json:"driver"`
	Uptime    string          `json:"uptime"`
	LastCheck time.Time       `json:"last_check"`
	Services  map[string]bool `json:"services"`
}

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	driver  string
	started time.Time
}

func NewHealthHandler(mon *monitor.Monitor, driver string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		driver:      driver,
		started:     time.Now(),
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	report := HealthReport{
		Driver:    h.driver,
		Uptime:    time.Since(h.started).Truncate(time.Second).String(),
		LastCheck: status.LastCheck,
		Services:  status.Services,
	}

	if status.Healthy() {
		h.respondSuccess(ctx, http.StatusOK, report)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", report))
}
