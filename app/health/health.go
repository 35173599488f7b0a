// Package health serves pool health over HTTP.
//
// The checker never touches the store itself. The process driving the chain publishes a
// PoolStatus after every block or operation, and the handlers only read the latest one:
//   - /health          liveness
//   - /health/ready    readiness (503 until a status was published, or when halted)
//   - /health/detailed the latest status with per-component results
package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/gorilla/mux"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// PoolStatus is a point-in-time view of the chain and its pool.
type PoolStatus struct {
	Height      int64
	BlockTime   time.Time
	AppHash     string
	ReserveA    math.Int
	ReserveB    math.Int
	TotalSupply math.Int
	Reconciled  bool
	Paused      bool
	Halted      bool
}

// Config holds configuration for the health checker
type Config struct {
	// Version is reported in every response.
	Version string

	// StaleAfter marks the chain degraded when no status was published for this long.
	// Zero disables the check.
	StaleAfter time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{StaleAfter: time.Minute}
}

// Checker holds the latest published PoolStatus.
type Checker struct {
	logger log.Logger
	cfg    Config

	mu        sync.RWMutex
	status    *PoolStatus
	updatedAt time.Time

	now func() time.Time
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config) *Checker {
	return &Checker{
		logger: logger.With("module", "health"),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Update publishes the latest status. It is safe to call concurrently with the handlers.
func (c *Checker) Update(status PoolStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != nil && c.status.Halted != status.Halted {
		c.logger.Info("pool halted flag changed", "halted", status.Halted, "height", status.Height)
	}
	c.status = &status
	c.updatedAt = c.now()
}

// Check evaluates the latest status.
func (c *Checker) Check() *HealthCheck {
	c.mu.RLock()
	status, updatedAt := c.status, c.updatedAt
	c.mu.RUnlock()

	now := c.now()
	health := &HealthCheck{
		Timestamp:  now,
		Version:    c.cfg.Version,
		Components: make(map[string]ComponentHealth),
	}
	if status == nil {
		health.Status = StatusUnknown
		health.Components["chain"] = ComponentHealth{
			Status:    StatusUnknown,
			Message:   "no block has been published yet",
			Timestamp: now,
		}
		return health
	}

	health.Components["chain"] = c.checkChain(*status, updatedAt, now)
	health.Components["reserves"] = checkReserves(*status, now)
	health.Components["trading"] = checkTrading(*status, now)
	health.Status = calculateOverallStatus(health.Components)
	return health
}

func (c *Checker) checkChain(s PoolStatus, updatedAt, now time.Time) ComponentHealth {
	metrics := map[string]interface{}{
		"height":     s.Height,
		"block_time": s.BlockTime.Format(time.RFC3339),
		"app_hash":   s.AppHash,
	}
	age := now.Sub(updatedAt)
	if c.cfg.StaleAfter > 0 && age > c.cfg.StaleAfter {
		metrics["status_age_seconds"] = age.Seconds()
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   fmt.Sprintf("no status published for %s", age.Truncate(time.Second)),
			Timestamp: now,
			Metrics:   metrics,
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "chain is advancing",
		Timestamp: now,
		Metrics:   metrics,
	}
}

func checkReserves(s PoolStatus, now time.Time) ComponentHealth {
	metrics := map[string]interface{}{
		"reserve_a":    s.ReserveA.String(),
		"reserve_b":    s.ReserveB.String(),
		"total_supply": s.TotalSupply.String(),
	}
	if !s.Reconciled {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   "tracked reserves differ from ledger balances beyond tolerance",
			Timestamp: now,
			Metrics:   metrics,
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "reserves reconcile with ledger balances",
		Timestamp: now,
		Metrics:   metrics,
	}
}

func checkTrading(s PoolStatus, now time.Time) ComponentHealth {
	switch {
	case s.Halted:
		return ComponentHealth{Status: StatusUnhealthy, Message: "pool is halted for emergency unwind", Timestamp: now}
	case s.Paused:
		return ComponentHealth{Status: StatusDegraded, Message: "trading is paused", Timestamp: now}
	}
	return ComponentHealth{Status: StatusHealthy, Message: "trading is open", Timestamp: now}
}

// calculateOverallStatus determines the overall health status based on component statuses
func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded, StatusUnknown:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// RegisterRoutes registers health check endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods("GET")
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods("GET")
}

// handleHealth handles the basic liveness check endpoint
func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": c.now().Format(time.RFC3339),
	})
}

// handleHealthReady handles the readiness check endpoint
func (c *Checker) handleHealthReady(w http.ResponseWriter, _ *http.Request) {
	health := c.Check()

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy || health.Status == StatusUnknown {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, map[string]interface{}{
		"status":    health.Status,
		"timestamp": health.Timestamp,
	})
}

// handleHealthDetailed handles the detailed health check endpoint
func (c *Checker) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	health := c.Check()

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
