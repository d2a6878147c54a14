// Package health implements liveness and readiness probes. Checks run on a
// shared background ticker and use consecutive failure/success thresholds so
// a single slow poll does not flip the probe state.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Probe distinguishes liveness checks from readiness checks.
type Probe int

const (
	// Liveness checks report whether the process itself is functioning.
	Liveness Probe = iota
	// Readiness checks report whether the service can take traffic.
	Readiness
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// Options tunes a registered check.
type Options struct {
	// Timeout bounds a single execution of the check. Zero means 5s.
	Timeout time.Duration
	// FailAfter is how many consecutive failures mark the check unhealthy.
	// Zero means 3.
	FailAfter int
	// PassAfter is how many consecutive successes mark it healthy again.
	// Zero means 1.
	PassAfter int
}

type check struct {
	name  string
	probe Probe
	fn    CheckFunc
	opts  Options

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	// fail/pass streaks are touched only from the poll goroutine.
	fails  int
	passes int
}

func (c *check) poll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	err := c.fn(ctx)
	c.lastErr.Store(&err)

	if err != nil {
		c.passes = 0
		if c.fails++; c.fails >= c.opts.FailAfter {
			c.healthy.Store(false)
		}
		return
	}
	c.fails = 0
	if c.passes++; c.passes >= c.opts.PassAfter {
		c.healthy.Store(true)
	}
}

// Service owns the registered checks and the probe endpoints. Register all
// checks before calling Start; the service reports not-ready until SetReady
// is called.
type Service struct {
	ready atomic.Bool

	mu     sync.Mutex
	checks []*check
	cancel context.CancelFunc
}

// NewService returns an empty, not-ready Service.
func NewService() *Service {
	return &Service{}
}

// Register adds a check under the given probe.
func (s *Service) Register(probe Probe, name string, fn CheckFunc, opts Options) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.FailAfter <= 0 {
		opts.FailAfter = 3
	}
	if opts.PassAfter <= 0 {
		opts.PassAfter = 1
	}

	c := &check{name: name, probe: probe, fn: fn, opts: opts}
	c.healthy.Store(true)

	s.mu.Lock()
	s.checks = append(s.checks, c)
	s.mu.Unlock()
}

// Start polls every registered check at the given interval until ctx is
// cancelled or Stop is called. Each check runs once immediately.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	checks := make([]*check, len(s.checks))
	copy(checks, s.checks)
	s.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.poll(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.poll(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels background polling. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SetReady flips the manual readiness gate. Call with true after startup
// completes and with false when draining during shutdown.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the gate is open and every readiness check passes.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	for _, c := range s.snapshot(Readiness) {
		if !c.healthy.Load() {
			return false
		}
	}
	return true
}

func (s *Service) snapshot(probe Probe) []*check {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*check, 0, len(s.checks))
	for _, c := range s.checks {
		if c.probe == probe {
			out = append(out, c)
		}
	}
	return out
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe: 200 when all liveness checks pass,
// 503 with the failing check names otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeProbe(w, failures(s.snapshot(Liveness)))
}

// ReadyEndpoint serves the readiness probe. It fails while the manual gate
// is closed or any readiness check is unhealthy.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	fails := failures(s.snapshot(Readiness))
	if !s.ready.Load() {
		fails["_gate"] = "service is not ready"
	}
	writeProbe(w, fails)
}

func failures(checks []*check) map[string]string {
	out := make(map[string]string)
	for _, c := range checks {
		if c.healthy.Load() {
			continue
		}
		msg := "check is unhealthy"
		if p := c.lastErr.Load(); p != nil && *p != nil {
			msg = (*p).Error()
		}
		out[c.name] = msg
	}
	return out
}

func writeProbe(w http.ResponseWriter, fails map[string]string) {
	resp := probeResponse{Status: "ok"}
	code := http.StatusOK
	if len(fails) > 0 {
		resp = probeResponse{Status: "unhealthy", Checks: fails}
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
