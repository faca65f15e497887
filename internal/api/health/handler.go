package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hypewatch/pkg/logger"
)

// Checker is implemented by adapters that can report connectivity
type Checker interface {
	Health(ctx context.Context) error
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      map[string]Checker
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler. checks maps component name to
// its checker; only register components that are actually configured.
func New(log *logger.Logger, checks map[string]Checker, serviceName, version string) *Handler {
	if checks == nil {
		checks = make(map[string]Checker)
	}
	return &Handler{
		log:         log,
		checks:      checks,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "degraded"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if service is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// HandleReadiness checks if configured dependencies are reachable
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, allHealthy := h.runChecks(ctx)

	status := "healthy"
	code := http.StatusOK
	if !allHealthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(HealthStatus{
		Status:    status,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// HandleHealth reports full health detail, always with 200
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, allHealthy := h.runChecks(ctx)

	status := "healthy"
	if !allHealthy {
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthStatus{
		Status:    status,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Statuses reports a flat component -> status map, used by the bot's
// /health command.
func (h *Handler) Statuses(ctx context.Context) map[string]string {
	checks, _ := h.runChecks(ctx)

	out := make(map[string]string, len(checks))
	for name, c := range checks {
		if c.Error != "" {
			out[name] = fmt.Sprintf("%s (%s)", c.Status, c.Error)
		} else {
			out[name] = c.Status
		}
	}
	return out
}

func (h *Handler) runChecks(ctx context.Context) (map[string]ComponentHealth, bool) {
	checks := make(map[string]ComponentHealth, len(h.checks))
	allHealthy := true

	for name, checker := range h.checks {
		start := time.Now()
		err := checker.Health(ctx)
		elapsed := time.Since(start)

		if err != nil {
			allHealthy = false
			checks[name] = ComponentHealth{
				Status:       "unhealthy",
				ResponseTime: elapsed.String(),
				Error:        err.Error(),
			}
			h.log.Warnf("health check failed for %s: %v", name, err)
			continue
		}

		checks[name] = ComponentHealth{
			Status:       "healthy",
			ResponseTime: elapsed.String(),
		}
	}

	return checks, allHealthy
}
