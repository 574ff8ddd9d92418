package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status values rendered in probe responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusUnavailable  = "unavailable"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker serves the liveness and readiness probes for the HTTP
// transport. Readiness flips to false during graceful shutdown so load
// balancers drain traffic before the listener closes.
type HealthChecker struct {
	// ready indicates whether the server should receive traffic
	ready atomic.Bool
	// serverContext provides the dependencies the readiness probe inspects
	serverContext *ServerContext
	// sessionCount reports active HTTP sessions when set
	sessionCount func() int
	// startTime tracks when the server started
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// SetSessionCounter attaches a session counter for the detailed health
// endpoint. Optional; without it the session count reads zero.
func (h *HealthChecker) SetSessionCounter(count func() int) {
	h.sessionCount = count
}

// isServerShuttingDown checks if the server context is shutting down.
// Returns false when serverContext is nil so the checker works standalone.
func (h *HealthChecker) isServerShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// storeAvailable reports whether the task store is open. A nil server
// context counts as available so the checker works standalone.
func (h *HealthChecker) storeAvailable() bool {
	return h.serverContext == nil || h.serverContext.TaskStore() != nil
}

// HealthResponse is the JSON body for the liveness and readiness probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the JSON body for the detailed health endpoint.
type DetailedHealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Sessions  int    `json:"sessions"`
	OpenTasks int    `json:"open_tasks"`
}

// LivenessHandler returns the handler for the /healthz endpoint.
// Liveness only says the process is up; anything deeper belongs in the
// readiness probe, otherwise a degraded dependency restarts the pod.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := HealthResponse{
			Status: healthStatusOK,
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// ReadinessHandler returns the handler for the /readyz endpoint. The
// probe checks the ready flag, the task store, and the shutdown state.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		allOk := true

		if !h.ready.Load() {
			checks["ready"] = healthStatusNotReady
			allOk = false
		} else {
			checks["ready"] = healthStatusOK
		}

		if !h.storeAvailable() {
			checks["store"] = healthStatusUnavailable
			allOk = false
		} else {
			checks["store"] = healthStatusOK
		}

		if h.isServerShuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
			allOk = false
		} else {
			checks["shutdown"] = healthStatusOK
		}

		response := HealthResponse{
			Checks: checks,
		}

		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// DetailedHealthHandler returns the handler for the /healthz/detailed
// endpoint: uptime, active HTTP sessions, and the number of open tasks
// in the store.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		response := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}
		if h.sessionCount != nil {
			response.Sessions = h.sessionCount()
		}
		if h.serverContext != nil {
			if store := h.serverContext.TaskStore(); store != nil {
				response.OpenTasks = len(store.ListOpen())
			}
		}

		if !h.ready.Load() {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		} else if h.isServerShuttingDown() {
			response.Status = healthStatusShuttingDown
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers the health handlers on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
