package health

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Checker is a single dependency check
type Checker interface {
	Name() string
	IsCritical() bool
	HealthCheck(ctx context.Context) error
}

// Manager runs the registered checkers at startup and on demand
type Manager struct {
	checkers []Checker
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewManager creates a new health manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		checkers: make([]Checker, 0),
		logger:   logger,
	}
}

// AddChecker registers a checker
func (h *Manager) AddChecker(checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, checker)
}

// StartupHealthCheck fails if any critical checker fails. Non-critical
// failures are logged and ignored.
func (h *Manager) StartupHealthCheck(ctx context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var criticalFailures []error
	for _, checker := range h.checkers {
		err := checker.HealthCheck(ctx)
		switch {
		case err == nil:
			h.logger.Info("Service health check passed",
				zap.String("service", checker.Name()),
				zap.Bool("critical", checker.IsCritical()))
		case checker.IsCritical():
			criticalFailures = append(criticalFailures, fmt.Errorf("%s: %w", checker.Name(), err))
			h.logger.Error("Critical service health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		default:
			h.logger.Warn("Non-critical service health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		}
	}

	if len(criticalFailures) > 0 {
		return fmt.Errorf("critical services failed health check: %v", criticalFailures)
	}

	h.logger.Info("All critical services healthy", zap.Int("total_checks", len(h.checkers)))
	return nil
}

// RuntimeHealthCheck runs every checker and returns the error of each by name
func (h *Manager) RuntimeHealthCheck(ctx context.Context) map[string]error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	results := make(map[string]error, len(h.checkers))
	for _, checker := range h.checkers {
		results[checker.Name()] = checker.HealthCheck(ctx)
	}
	return results
}

// Report summarizes a runtime check for the health endpoint
type Report struct {
	// Healthy is false only when a critical checker failed
	Healthy  bool
	Services map[string]string
}

// RuntimeReport runs every checker and renders each result as "healthy" or
// the failure message
func (h *Manager) RuntimeReport(ctx context.Context) Report {
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := Report{Healthy: true, Services: make(map[string]string, len(h.checkers))}
	for _, checker := range h.checkers {
		if err := checker.HealthCheck(ctx); err != nil {
			report.Services[checker.Name()] = "unhealthy: " + err.Error()
			if checker.IsCritical() {
				report.Healthy = false
			}
			continue
		}
		report.Services[checker.Name()] = "healthy"
	}
	return report
}

// Pinger is anything that can verify its backing connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker pings a storage backend
type StoreChecker struct {
	name     string
	store    Pinger
	critical bool
}

// NewStoreChecker creates a checker over store
func NewStoreChecker(name string, store Pinger, critical bool) *StoreChecker {
	return &StoreChecker{name: name, store: store, critical: critical}
}

func (s *StoreChecker) HealthCheck(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("%s is not configured", s.name)
	}
	return s.store.Ping(ctx)
}

func (s *StoreChecker) IsCritical() bool {
	return s.critical
}

func (s *StoreChecker) Name() string {
	return s.name
}

// UserCounter reports the number of users a directory holds
type UserCounter interface {
	Len() int
}

// DirectoryChecker warns when the user directory is empty. An empty directory
// still serves requests, so it is never critical.
type DirectoryChecker struct {
	directory UserCounter
}

// NewDirectoryChecker creates a directory checker
func NewDirectoryChecker(directory UserCounter) *DirectoryChecker {
	return &DirectoryChecker{directory: directory}
}

func (d *DirectoryChecker) HealthCheck(ctx context.Context) error {
	if d.directory == nil {
		return fmt.Errorf("user directory is nil")
	}
	if n := d.directory.Len(); n < 2 {
		return fmt.Errorf("user directory holds %d users, at least 2 are needed to pair", n)
	}
	return nil
}

func (d *DirectoryChecker) IsCritical() bool {
	return false
}

func (d *DirectoryChecker) Name() string {
	return "user_directory"
}

// Validator is a configuration that can check itself
type Validator interface {
	Validate() error
}

// ConfigChecker checks configuration validity
type ConfigChecker struct {
	config Validator
}

// NewConfigChecker creates a config checker
func NewConfigChecker(config Validator) *ConfigChecker {
	return &ConfigChecker{config: config}
}

func (c *ConfigChecker) HealthCheck(ctx context.Context) error {
	if c.config == nil {
		return fmt.Errorf("configuration is nil")
	}
	return c.config.Validate()
}

func (c *ConfigChecker) IsCritical() bool {
	return true
}

func (c *ConfigChecker) Name() string {
	return "configuration"
}
