package connectivity

import (
	"context"
	"errors"
	"sync"

	"github.com/jpcarvalho/recibo/internal/backend"
)

//go:generate mockgen -source=monitor.go -destination=prober_mock.go -package=connectivity
type Prober interface {
	CheckConnection(ctx context.Context, model string) error
}

// Status is the cached reachability assessment for one recognition backend.
type Status struct {
	Connected  bool
	AuthFailed bool
	Message    string
}

// Monitor probes recognition backends and caches one Status per backend
// identifier. It is the only writer of the cache; every other component
// reads through it, so reachability assessments cannot contradict each
// other.
type Monitor struct {
	mu     sync.Mutex
	prober Prober
	status map[string]Status
}

func NewMonitor(prober Prober) *Monitor {
	return &Monitor{
		prober: prober,
		status: make(map[string]Status),
	}
}

// Check probes a backend and records the result. A transport failure is an
// unreachable status, not an error: the caller must stay usable in
// manual-entry mode. An authentication failure is flagged separately so
// dependents can show the credentials message instead of a generic one.
func (m *Monitor) Check(ctx context.Context, model string) Status {
	err := m.prober.CheckConnection(ctx, model)

	status := Status{Connected: err == nil}
	if err != nil {
		status.AuthFailed = errors.Is(err, backend.ErrAuthentication)
		status.Message = err.Error()
	}

	m.mu.Lock()
	m.status[model] = status
	m.mu.Unlock()

	return status
}

// Connected reports the cached reachability for a backend. Unknown backends
// are not connected until checked.
func (m *Monitor) Connected(model string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.status[model].Connected
}

// Status returns the cached status for a backend and whether a check has
// run for it at all.
func (m *Monitor) Status(model string) (Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, ok := m.status[model]

	return status, ok
}
