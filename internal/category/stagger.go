package category

import "time"

// StaggerPolicy spaces out automatically triggered suggestion requests so
// that populating N rows at once does not burst N calls against the remote
// service. Both knobs come from configuration.
type StaggerPolicy struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Delay returns the launch delay for the row at the given index. Delays are
// non-decreasing in the index; MaxDelay, when set, is the ceiling.
func (p StaggerPolicy) Delay(index int) time.Duration {
	if index < 0 {
		index = 0
	}

	d := p.BaseDelay * time.Duration(index+1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}

	return d
}
