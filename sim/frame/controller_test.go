package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStep_SuccessAndFailureDeltas(t *testing.T) {
	// GIVEN alpha=0.1, gamma=0.05
	// THEN a success adds gamma*alpha and a failure subtracts gamma*(1-alpha)
	assert.InDelta(t, 0.105, Step(0.1, 0.1, 0.05, true), 1e-12)
	assert.InDelta(t, 0.055, Step(0.1, 0.1, 0.05, false), 1e-12)
}

func TestStep_ZeroGamma_ThetaUnchanged(t *testing.T) {
	assert.Equal(t, 0.3, Step(0.3, 0.1, 0, true))
	assert.Equal(t, 0.3, Step(0.3, 0.1, 0, false))
}

func TestController_AllSuccesses_DriftUpward(t *testing.T) {
	c := NewController(0.1, 0.05)
	prev := c.Theta
	for i := 0; i < 20; i++ {
		next := c.Update(true)
		assert.Greater(t, next, prev, "frame %d", i)
		prev = next
	}
	assert.Equal(t, 20, c.SuccessCount)
	assert.Equal(t, 1.0, c.Reliability())
}

func TestController_AllFailures_DriftDownward(t *testing.T) {
	c := NewController(0.1, 0.05)
	prev := c.Theta
	for i := 0; i < 20; i++ {
		next := c.Update(false)
		assert.Less(t, next, prev, "frame %d", i)
		prev = next
	}
	assert.Equal(t, 0, c.SuccessCount)
	assert.Equal(t, 0.0, c.AdjustedAlpha(), "theta below zero is clamped")
	assert.Less(t, c.Theta, 0.0, "raw theta is not clamped")
}

func TestController_TargetRate_ReturnsToStart(t *testing.T) {
	// GIVEN alpha=0.1, so the target success rate is 0.9
	c := NewController(0.1, 0.05)

	// WHEN 9 successes and 1 failure are recorded
	for i := 0; i < 9; i++ {
		c.Update(true)
	}
	c.Update(false)

	// THEN theta is back where it started
	assert.InDelta(t, 0.1, c.Theta, 1e-12)
	assert.InDelta(t, 0.9, c.Reliability(), 1e-12)
	assert.Equal(t, 10, c.FramesRun)
}

func TestController_Reset(t *testing.T) {
	c := NewController(0.2, 0.1)
	c.Update(true)
	c.Update(false)

	c.Reset()

	assert.Equal(t, 0.2, c.Theta)
	assert.Equal(t, 0, c.SuccessCount)
	assert.Equal(t, 0, c.FramesRun)
	assert.Equal(t, 0.0, c.Reliability())
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 0.25, Clamp01(0.25))
	assert.Equal(t, 1.0, Clamp01(1.7))
}
