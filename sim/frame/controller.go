package frame

// Step applies one feedback update to theta:
//
//	theta' = theta + gamma * (success - (1 - alpha))
//
// where success is 1 or 0. Step size is constant (no decay). A success pushes
// theta up by gamma*alpha; a failure pulls it down by gamma*(1-alpha), so the
// long-run success rate that leaves theta unchanged is exactly 1 - alpha.
func Step(theta, alpha, gamma float64, success bool) float64 {
	s := 0.0
	if success {
		s = 1.0
	}
	return theta + gamma*(s-(1-alpha))
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// Controller holds the reliability feedback state for one allocator run.
// Theta starts at Alpha. The adjusted alpha is reported only; the allocator
// never feeds it back into the allocation shares.
type Controller struct {
	Theta        float64
	Alpha        float64 // target unreliability for class A
	Gamma        float64 // step size
	SuccessCount int
	FramesRun    int
}

// NewController creates a Controller with theta initialised to alpha.
func NewController(alpha, gamma float64) *Controller {
	return &Controller{Theta: alpha, Alpha: alpha, Gamma: gamma}
}

// Update records one frame outcome and advances theta. Returns the new theta.
func (c *Controller) Update(success bool) float64 {
	c.Theta = Step(c.Theta, c.Alpha, c.Gamma, success)
	c.FramesRun++
	if success {
		c.SuccessCount++
	}
	return c.Theta
}

// AdjustedAlpha is theta clamped to [0, 1].
func (c *Controller) AdjustedAlpha() float64 {
	return Clamp01(c.Theta)
}

// Reliability is the realized success rate so far; 0 before the first frame.
func (c *Controller) Reliability() float64 {
	if c.FramesRun == 0 {
		return 0
	}
	return float64(c.SuccessCount) / float64(c.FramesRun)
}

// Reset returns the controller to its initial state.
func (c *Controller) Reset() {
	c.Theta = c.Alpha
	c.SuccessCount = 0
	c.FramesRun = 0
}
