package submission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpcarvalho/recibo/internal/submission"
)

func TestProgress_AdvanceStallsAt95(t *testing.T) {
	p := &submission.Progress{}

	prev := p.Value()
	for i := 0; i < 1000; i++ {
		v := p.Advance()
		assert.GreaterOrEqual(t, v, prev, "progress must never move backwards")
		prev = v
	}

	assert.Equal(t, float64(95), p.Value(), "progress holds at the stall point until the submission settles")
}

func TestProgress_StepSizesShrink(t *testing.T) {
	p := &submission.Progress{}

	// Full ticks up to 30.
	for i := 0; i < 30; i++ {
		p.Advance()
	}
	assert.Equal(t, float64(30), p.Value())

	// Half ticks up to 60.
	for i := 0; i < 60; i++ {
		p.Advance()
	}
	assert.Equal(t, float64(60), p.Value())

	// Quarter ticks beyond.
	p.Advance()
	assert.Equal(t, 60.25, p.Value())
}

func TestProgress_Finish(t *testing.T) {
	p := &submission.Progress{}
	p.Advance()

	assert.Equal(t, float64(100), p.Finish())
	assert.Equal(t, float64(100), p.Value())
}

func TestProgress_Step(t *testing.T) {
	p := &submission.Progress{}

	assert.Equal(t, "Preparing image...", p.Step(false))
	assert.Equal(t, "Preparing document...", p.Step(true))

	for p.Value() < 15 {
		p.Advance()
	}
	assert.Equal(t, "Extracting data...", p.Step(false))

	for p.Value() < 35 {
		p.Advance()
	}
	assert.Equal(t, "Analyzing content...", p.Step(false))

	for p.Value() < 75 {
		p.Advance()
	}
	assert.Equal(t, "Finalizing...", p.Step(false))
}
