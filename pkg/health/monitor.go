package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusUnhealthy:
		return "UNHEALTHY"
	case StatusDegraded:
		return "DEGRADED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "HEALTHY":
		*s = StatusHealthy
	case "UNHEALTHY":
		*s = StatusUnhealthy
	case "DEGRADED":
		*s = StatusDegraded
	default:
		*s = StatusUnknown
	}
	return nil
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Status       Status        `json:"status"`
	Latency      time.Duration `json:"latency"`
	LastCheck    time.Time     `json:"last_check"`
	LastError    string        `json:"last_error,omitempty"`
	CheckCount   int           `json:"check_count"`
	FailureCount int           `json:"failure_count"`
}

// Checker interface for health checks
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// HTTPChecker probes an HTTP endpoint with GET
type HTTPChecker struct {
	Address string
	Path    string
	Client  *http.Client
}

// Check performs HTTP health check
func (c *HTTPChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	url := c.Address + c.Path
	result := CheckResult{
		Address:   url,
		LastCheck: start,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err.Error()
		result.Latency = time.Since(start)
		return result
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	result.Latency = time.Since(start)

	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err.Error()
		return result
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Status = StatusHealthy
	case resp.StatusCode >= 500:
		result.Status = StatusUnhealthy
		result.LastError = resp.Status
	default:
		result.Status = StatusDegraded
		result.LastError = resp.Status
	}

	return result
}

// Monitor periodically runs registered checkers and keeps the latest result
// of each.
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewMonitor creates a new health monitor
func NewMonitor(interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Monitor{
		checkers: make(map[string]Checker),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Register adds a named checker.
func (m *Monitor) Register(name string, checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = checker
	m.logger.Info("Registered health checker", zap.String("name", name))
}

// RegisterHTTPChecker registers an HTTP health checker
func (m *Monitor) RegisterHTTPChecker(name, address, path string, client *http.Client) {
	if client == nil {
		client = &http.Client{Timeout: m.timeout}
	}
	m.Register(name, &HTTPChecker{Address: address, Path: path, Client: client})
}

// Start runs the checks once immediately and then every interval until
// Stop or ctx ends. A non-positive interval disables the loop.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil || m.interval <= 0 {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.runChecks(ctx)
}

// Stop stops the loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) runChecks(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll runs every registered checker once.
func (m *Monitor) CheckAll(ctx context.Context) {
	m.mu.RLock()
	checkers := make(map[string]Checker, len(m.checkers))
	for name, checker := range m.checkers {
		checkers[name] = checker
	}
	m.mu.RUnlock()

	for name, checker := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		result := checker.Check(checkCtx)
		cancel()
		result.Name = name

		m.mu.Lock()
		if existing, ok := m.results[name]; ok {
			result.CheckCount = existing.CheckCount + 1
			result.FailureCount = existing.FailureCount
		} else {
			result.CheckCount = 1
		}
		if result.Status == StatusUnhealthy {
			result.FailureCount++
		}
		m.results[name] = &result
		m.mu.Unlock()

		if result.Status != StatusHealthy {
			m.logger.Warn("Health check failed",
				zap.String("name", name),
				zap.String("address", result.Address),
				zap.String("status", result.Status.String()),
				zap.Duration("latency", result.Latency),
				zap.String("error", result.LastError),
			)
		}
	}
}

// IsHealthy checks if a checker last reported healthy
func (m *Monitor) IsHealthy(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if result, ok := m.results[name]; ok {
		return result.Status == StatusHealthy
	}
	return true // Assume healthy if not yet checked
}

// Results returns the latest result of every checker ordered by name.
func (m *Monitor) Results() []CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]CheckResult, 0, len(m.results))
	for _, result := range m.results {
		results = append(results, *result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}
