package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates the store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	driver string
}

// New creates a Service for the configured store driver.
func New(db DBPinger, driver string) *Service {
	return &Service{db: db, driver: driver}
}

// Check pings the store. The check is keyed by driver name when one is set.
func (s *Service) Check(ctx context.Context) Report {
	name := "database"
	if s.driver != "" {
		name = s.driver
	}

	checks := map[string]CheckResult{name: CheckOK}
	status := Healthy
	if err := s.db.Ping(ctx); err != nil {
		checks[name] = CheckError
		status = Unhealthy
	}
	return Report{Status: status, Checks: checks}
}
