package model

import (
	"sync"
	"time"
)

// EndpointHealth tracks the health status of a model endpoint.
type EndpointHealth struct {
	// Available indicates if the endpoint is currently usable.
	Available bool `json:"available"`

	// LastSuccess is the time of the last successful request.
	LastSuccess time.Time `json:"last_success,omitempty"`

	// LastFailure is the time of the last failed request.
	LastFailure time.Time `json:"last_failure,omitempty"`

	// FailureCount is the number of consecutive failures.
	FailureCount int `json:"failure_count"`

	// CircuitOpen indicates if the circuit breaker has tripped.
	CircuitOpen bool `json:"circuit_open"`

	// CircuitOpenedAt is when the circuit was opened.
	CircuitOpenedAt time.Time `json:"circuit_opened_at,omitempty"`
}

// HealthConfig configures the health tracking behavior.
type HealthConfig struct {
	// FailureThreshold is the number of consecutive failures before opening
	// the circuit.
	FailureThreshold int

	// RecoveryTimeout is how long to wait before trying a failed endpoint again.
	RecoveryTimeout time.Duration
}

// DefaultHealthConfig returns sensible defaults for health tracking.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  30 * time.Second,
	}
}

type healthState struct {
	mu       sync.RWMutex
	config   HealthConfig
	statuses map[string]*EndpointHealth
}

func newHealthState(cfg HealthConfig) *healthState {
	return &healthState{
		config:   cfg,
		statuses: make(map[string]*EndpointHealth),
	}
}

func (h *healthState) getOrCreate(name string) *EndpointHealth {
	if status, ok := h.statuses[name]; ok {
		return status
	}
	status := &EndpointHealth{Available: true}
	h.statuses[name] = status
	return status
}

// MarkEndpointSuccess records a successful request, closing the circuit.
func (r *Registry) MarkEndpointSuccess(name string) {
	r.health.mu.Lock()
	defer r.health.mu.Unlock()

	status := r.health.getOrCreate(name)
	status.LastSuccess = time.Now()
	status.FailureCount = 0
	status.Available = true
	status.CircuitOpen = false
}

// MarkEndpointFailure records a failed request, opening the circuit once the
// failure threshold is reached.
func (r *Registry) MarkEndpointFailure(name string) {
	r.health.mu.Lock()
	defer r.health.mu.Unlock()

	status := r.health.getOrCreate(name)
	status.LastFailure = time.Now()
	status.FailureCount++

	if status.FailureCount >= r.health.config.FailureThreshold {
		status.CircuitOpen = true
		status.CircuitOpenedAt = time.Now()
		status.Available = false
	}
}

// IsEndpointAvailable reports whether an endpoint should be tried.
// An open circuit transitions to half-open after the recovery timeout.
func (r *Registry) IsEndpointAvailable(name string) bool {
	r.health.mu.Lock()
	defer r.health.mu.Unlock()

	status, ok := r.health.statuses[name]
	if !ok {
		return true
	}

	if !status.CircuitOpen {
		return true
	}

	if time.Since(status.CircuitOpenedAt) >= r.health.config.RecoveryTimeout {
		// Half-open: allow a probe without closing the circuit.
		return true
	}

	return false
}

// EndpointHealthSnapshot returns a copy of the health status for an endpoint,
// or nil if the endpoint has never been tried.
func (r *Registry) EndpointHealthSnapshot(name string) *EndpointHealth {
	r.health.mu.RLock()
	defer r.health.mu.RUnlock()

	status, ok := r.health.statuses[name]
	if !ok {
		return nil
	}
	snapshot := *status
	return &snapshot
}
