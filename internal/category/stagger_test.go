package category_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jpcarvalho/recibo/internal/category"
)

func TestStaggerPolicy_Delay(t *testing.T) {
	policy := category.StaggerPolicy{
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  2 * time.Second,
	}

	assert.Equal(t, 100*time.Millisecond, policy.Delay(0))
	assert.Equal(t, 200*time.Millisecond, policy.Delay(1))
	assert.Equal(t, 500*time.Millisecond, policy.Delay(4))

	// Late rows hit the ceiling instead of growing without bound.
	assert.Equal(t, 2*time.Second, policy.Delay(19))
	assert.Equal(t, 2*time.Second, policy.Delay(500))

	assert.Equal(t, 100*time.Millisecond, policy.Delay(-3))
}

func TestStaggerPolicy_DelayMonotonic(t *testing.T) {
	policy := category.StaggerPolicy{
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  2 * time.Second,
	}

	prev := time.Duration(0)
	for i := 0; i < 40; i++ {
		d := policy.Delay(i)
		assert.GreaterOrEqual(t, d, prev, "delay must never shrink as row index grows")
		prev = d
	}
}
