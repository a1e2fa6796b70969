package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jpcarvalho/recibo/internal/receipt"
)

// ErrBlocked is returned when validation stops a submission. The full
// violation list is available from the gate.
var ErrBlocked = errors.New("draft blocked by validation")

//go:generate mockgen -source=gate.go -destination=submitter_mock.go -package=submission
type Submitter interface {
	SubmitDraft(ctx context.Context, draft *receipt.Draft) error
}

// State is the gate's position between an editable draft and its commit.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateBlocked
	StateSubmitting
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateBlocked:
		return "blocked"
	case StateSubmitting:
		return "submitting"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

// Violation describes one failed validation rule.
type Violation struct {
	Field   string
	Message string
}

// Validate checks the draft against every rule and reports the complete
// list of violations, not just the first. The asset constraint coerces the
// quantity to 1 in addition to reporting, so the draft is submittable after
// the user acknowledges.
func Validate(draft *receipt.Draft) []Violation {
	var violations []Violation

	if strings.TrimSpace(draft.VendorName) == "" {
		violations = append(violations, Violation{Field: "vendor_name", Message: "Vendor Name is required"})
	}

	if strings.TrimSpace(draft.Date) == "" {
		violations = append(violations, Violation{Field: "date", Message: "Date is required"})
	}

	if draft.TotalAmount <= 0 {
		violations = append(violations, Violation{Field: "total_amount", Message: "Total Amount is required"})
	}

	if draft.SourceFile == "" {
		violations = append(violations, Violation{Field: "receipt_image", Message: "Receipt File is required"})
	}

	// Serialized assets are single units.
	if strings.TrimSpace(draft.SerialNumber) != "" && draft.Quantity != 1 {
		draft.Quantity = 1
		violations = append(violations, Violation{
			Field:   "quantity",
			Message: "Assets with serial numbers must have a quantity of 1; quantity was reset to 1",
		})
	}

	return violations
}

// Messages joins violation messages into one report listing every problem.
func Messages(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.Message
	}

	return strings.Join(parts, "\n")
}

// Gate guards the boundary between an editable draft and its irreversible
// commit: Editing -> Validating -> (Blocked | Submitting) -> (Committed |
// Failed).
type Gate struct {
	mu         sync.Mutex
	submitter  Submitter
	state      State
	violations []Violation
}

func NewGate(submitter Submitter) *Gate {
	return &Gate{submitter: submitter}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Violations returns the rule failures recorded by the last Submit attempt.
func (g *Gate) Violations() []Violation {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.violations
}

// Reset returns a blocked or failed gate to the editing state.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateEditing
	g.violations = nil
}

// Submit validates the draft and, when it passes, commits it through the
// submitter. A validation failure blocks the submission and records every
// violation; nothing is sent. The submitter reads the draft directly, so no
// value is dropped regardless of how the UI renders its controls.
func (g *Gate) Submit(ctx context.Context, draft *receipt.Draft) error {
	g.mu.Lock()
	g.state = StateValidating
	g.mu.Unlock()

	violations := Validate(draft)

	g.mu.Lock()
	if len(violations) > 0 {
		g.state = StateBlocked
		g.violations = violations
		g.mu.Unlock()

		return fmt.Errorf("%w:\n%s", ErrBlocked, Messages(violations))
	}

	g.violations = nil
	g.state = StateSubmitting
	g.mu.Unlock()

	if err := g.submitter.SubmitDraft(ctx, draft); err != nil {
		g.mu.Lock()
		g.state = StateFailed
		g.mu.Unlock()

		return fmt.Errorf("submitting draft: %w", err)
	}

	g.mu.Lock()
	g.state = StateCommitted
	g.mu.Unlock()

	return nil
}
